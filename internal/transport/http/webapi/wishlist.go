package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codegoddy/skincare/internal/platform/storage"
	httptransport "github.com/codegoddy/skincare/internal/transport/http"
)

type wishlistItemPayload struct {
	ProductID string  `json:"product_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Type      string  `json:"type"`
	Price     float64 `json:"price" binding:"gte=0"`
	Image     string  `json:"image"`
	InStock   *bool   `json:"in_stock"`
}

func (s *Service) handleGetWishlist(c *gin.Context) {
	id, ok := httptransport.CurrentIdentity(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	items, err := s.wishlist.List(c.Request.Context(), id.SubjectID)
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"items": items, "total": len(items)}, "")
}

func (s *Service) handleAddWishlistItem(c *gin.Context) {
	id, ok := httptransport.CurrentIdentity(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	var req wishlistItemPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid wishlist payload", nil)
		return
	}

	item := &storage.WishlistItem{
		UserID:    id.SubjectID,
		ProductID: req.ProductID,
		Name:      req.Name,
		Type:      req.Type,
		Price:     req.Price,
		Image:     req.Image,
		InStock:   req.InStock == nil || *req.InStock,
	}
	if err := s.wishlist.Add(c.Request.Context(), item); err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusCreated, item, "added to wishlist")
}

func (s *Service) handleRemoveWishlistItem(c *gin.Context) {
	id, ok := httptransport.CurrentIdentity(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	if err := s.wishlist.Remove(c.Request.Context(), id.SubjectID, c.Param("productID")); err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "removed from wishlist")
}

func (s *Service) handleClearWishlist(c *gin.Context) {
	id, ok := httptransport.CurrentIdentity(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	if err := s.wishlist.Clear(c.Request.Context(), id.SubjectID); err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "wishlist cleared")
}
