package webapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codegoddy/skincare/internal/platform/storage"
	httptransport "github.com/codegoddy/skincare/internal/transport/http"
)

type productPayload struct {
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" binding:"required,gte=0"`
	ComparePrice   *float64 `json:"compare_price"`
	Images         []string `json:"images"`
	ProductType    string   `json:"product_type"`
	SkinConcerns   []string `json:"skin_concerns"`
	SkinTypes      []string `json:"skin_types"`
	KeyIngredients []string `json:"key_ingredients"`
	UsageTime      string   `json:"usage_time"`
	Stock          int      `json:"stock"`
	InStock        *bool    `json:"in_stock"`
	IsActive       *bool    `json:"is_active"`
}

func listFilter(c *gin.Context, activeOnly bool) storage.ProductFilter {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return storage.ProductFilter{
		Search:      c.Query("search"),
		ProductType: c.Query("type"),
		ActiveOnly:  activeOnly,
		Limit:       limit,
		Offset:      offset,
	}
}

func (s *Service) handleListProducts(c *gin.Context) {
	products, total, err := s.catalog.List(c.Request.Context(), listFilter(c, true))
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"products": products, "total": total}, "")
}

func (s *Service) handleGetProduct(c *gin.Context) {
	product, err := s.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	if !product.IsActive {
		httptransport.RespondError(c, http.StatusNotFound, "product not found", nil)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, product, "")
}

func (s *Service) handleAdminListProducts(c *gin.Context) {
	products, total, err := s.catalog.List(c.Request.Context(), listFilter(c, false))
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"products": products, "total": total}, "")
}

func (s *Service) handleCreateProduct(c *gin.Context) {
	var req productPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid product payload", nil)
		return
	}

	product := &storage.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ComparePrice: req.ComparePrice,
		ProductType:  req.ProductType,
		UsageTime:    req.UsageTime,
		Stock:        req.Stock,
		InStock:      req.InStock == nil || *req.InStock,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	product.Images = toJSON(req.Images)
	product.SkinConcerns = toJSON(req.SkinConcerns)
	product.SkinTypes = toJSON(req.SkinTypes)
	product.KeyIngredients = toJSON(req.KeyIngredients)

	if err := s.catalog.Create(c.Request.Context(), product); err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusCreated, product, "product created")
}

func (s *Service) handleUpdateProduct(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid update payload", nil)
		return
	}
	allowed := allowedProductFields(fields)
	if len(allowed) == 0 {
		httptransport.RespondError(c, http.StatusBadRequest, "no updatable fields", nil)
		return
	}

	product, err := s.catalog.Update(c.Request.Context(), c.Param("id"), allowed)
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, product, "product updated")
}

func (s *Service) handleDeleteProduct(c *gin.Context) {
	if err := s.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "product deleted")
}

// allowedProductFields whitelists the columns a partial update may touch.
func allowedProductFields(fields map[string]any) map[string]any {
	allowed := map[string]bool{
		"name": true, "description": true, "price": true, "compare_price": true,
		"product_type": true, "usage_time": true, "stock": true,
		"in_stock": true, "is_active": true,
		"images": true, "skin_concerns": true, "skin_types": true, "key_ingredients": true,
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if !allowed[k] {
			continue
		}
		if list, ok := v.([]any); ok {
			strs := make([]string, 0, len(list))
			for _, item := range list {
				if str, ok := item.(string); ok {
					strs = append(strs, str)
				}
			}
			out[k] = toJSON(strs)
			continue
		}
		out[k] = v
	}
	return out
}
