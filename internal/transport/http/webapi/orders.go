package webapi

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/codegoddy/skincare/internal/domain/identity/model"
	"github.com/codegoddy/skincare/internal/platform/storage"
	httptransport "github.com/codegoddy/skincare/internal/transport/http"
)

type orderItemPayload struct {
	ProductID string  `json:"product_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Type      string  `json:"type"`
	Price     float64 `json:"price" binding:"gte=0"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

type createOrderRequest struct {
	Items           []orderItemPayload `json:"items" binding:"required,min=1"`
	ShippingAddress map[string]any     `json:"shipping_address"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Service) handleCreateOrder(c *gin.Context) {
	id, ok := httptransport.CurrentIdentity(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid order payload", nil)
		return
	}

	items := make([]storage.OrderItem, len(req.Items))
	for i, item := range req.Items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		items[i] = storage.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Type:      item.Type,
			Price:     item.Price,
			Quantity:  quantity,
			Image:     item.Image,
		}
	}

	var address datatypes.JSON
	if req.ShippingAddress != nil {
		raw, err := sonic.Marshal(req.ShippingAddress)
		if err != nil {
			httptransport.RespondError(c, http.StatusBadRequest, "invalid shipping address", nil)
			return
		}
		address = datatypes.JSON(raw)
	}

	order, err := s.orders.Place(c.Request.Context(), id.SubjectID, items, address)
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusCreated, order, "order placed")
}

func (s *Service) handleListOrders(c *gin.Context) {
	id, ok := httptransport.CurrentIdentity(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	orders, err := s.orders.ListMine(c.Request.Context(), id.SubjectID)
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"orders": orders, "total": len(orders)}, "")
}

func (s *Service) handleGetOrder(c *gin.Context) {
	id, ok := httptransport.CurrentIdentity(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	order, err := s.orders.Get(c.Request.Context(), c.Param("id"), id.SubjectID, id.Role == model.RoleAdmin)
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, order, "")
}

func (s *Service) handleAdminListOrders(c *gin.Context) {
	orders, err := s.orders.ListAll(c.Request.Context())
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"orders": orders, "total": len(orders)}, "")
}

func (s *Service) handleUpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid status payload", nil)
		return
	}

	order, err := s.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, order, "order status updated")
}
