package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codegoddy/skincare/internal/domain/identity/model"
	httptransport "github.com/codegoddy/skincare/internal/transport/http"
)

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (s *Service) handleListUsers(c *gin.Context) {
	profiles, err := s.profiles.List(c.Request.Context())
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"users": profiles, "total": len(profiles)}, "")
}

func (s *Service) handleSetUserRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid role payload", nil)
		return
	}

	profile, err := s.profiles.SetRole(c.Request.Context(), c.Param("id"), model.Role(req.Role))
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, profile, "role updated")
}

func (s *Service) handleGetSettings(c *gin.Context) {
	settings, err := s.settings.Get(c.Request.Context())
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, settings, "")
}

func (s *Service) handleUpdateSettings(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid settings payload", nil)
		return
	}

	allowed := map[string]bool{
		"store_name": true, "store_email": true, "store_phone": true,
		"store_address": true, "currency": true, "currency_symbol": true,
		"tax_rate": true, "shipping_fee": true, "free_shipping_threshold": true,
		"maintenance_mode": true,
	}
	filtered := make(map[string]any, len(fields))
	for k, v := range fields {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		httptransport.RespondError(c, http.StatusBadRequest, "no updatable fields", nil)
		return
	}

	settings, err := s.settings.Update(c.Request.Context(), filtered)
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, settings, "settings updated")
}

// handlePublicSettings exposes the storefront-facing subset of the settings.
func (s *Service) handlePublicSettings(c *gin.Context) {
	settings, err := s.settings.Get(c.Request.Context())
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{
		"store_name":              settings.StoreName,
		"currency":                settings.Currency,
		"currency_symbol":         settings.CurrencySymbol,
		"tax_rate":                settings.TaxRate,
		"shipping_fee":            settings.ShippingFee,
		"free_shipping_threshold": settings.FreeShippingThreshold,
		"maintenance_mode":        settings.MaintenanceMode,
	}, "")
}
