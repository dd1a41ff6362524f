package webapi

import (
	"github.com/gin-gonic/gin"

	"github.com/codegoddy/skincare/internal/app/services"
	"github.com/codegoddy/skincare/internal/platform/logging"
	"github.com/codegoddy/skincare/internal/platform/storage"
	httptransport "github.com/codegoddy/skincare/internal/transport/http"
)

// Service bundles the storefront HTTP handlers.
type Service struct {
	auth     *services.AuthService
	catalog  *services.CatalogService
	orders   *services.OrderService
	settings *services.SettingsService
	profiles *storage.ProfileRepository
	wishlist *storage.WishlistRepository
	logger   *logging.Logger
}

// Deps carries the service dependencies.
type Deps struct {
	Auth     *services.AuthService
	Catalog  *services.CatalogService
	Orders   *services.OrderService
	Settings *services.SettingsService
	Profiles *storage.ProfileRepository
	Wishlist *storage.WishlistRepository
	Logger   *logging.Logger
}

// Middlewares carries the cross-cutting handlers the routes hang off.
type Middlewares struct {
	RequireAuth   gin.HandlerFunc
	OptionalAuth  gin.HandlerFunc
	RequireAdmin  gin.HandlerFunc
	RateLimit     gin.HandlerFunc
	AuthRateLimit gin.HandlerFunc
	Maintenance   gin.HandlerFunc
}

// NewService creates the handler bundle.
func NewService(deps Deps) *Service {
	return &Service{
		auth:     deps.Auth,
		catalog:  deps.Catalog,
		orders:   deps.Orders,
		settings: deps.Settings,
		profiles: deps.Profiles,
		wishlist: deps.Wishlist,
		logger:   deps.Logger,
	}
}

// Register mounts every route group on the API router.
func (s *Service) Register(r *httptransport.Router, mw Middlewares) {
	noop := func(c *gin.Context) { c.Next() }
	orNoop := func(h gin.HandlerFunc) gin.HandlerFunc {
		if h == nil {
			return noop
		}
		return h
	}
	use := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		out := make([]gin.HandlerFunc, 0, len(handlers))
		for _, h := range handlers {
			if h != nil {
				out = append(out, h)
			}
		}
		return out
	}

	auth := r.API.Group("/auth", use(mw.AuthRateLimit)...)
	{
		auth.POST("/signup", s.handleSignup)
		auth.POST("/login", s.handleLogin)
		auth.POST("/logout", orNoop(mw.OptionalAuth), s.handleLogout)
		auth.POST("/refresh", s.handleRefresh)
		auth.POST("/forgot-password", s.handleForgotPassword)
		auth.POST("/reset-password", s.handleResetPassword)
		auth.GET("/me", orNoop(mw.RequireAuth), s.handleMe)
		auth.PATCH("/profile", orNoop(mw.RequireAuth), s.handleUpdateProfile)
	}

	store := r.API.Group("", use(mw.OptionalAuth, mw.Maintenance, mw.RateLimit)...)
	{
		store.GET("/products", s.handleListProducts)
		store.GET("/products/:id", s.handleGetProduct)
		store.GET("/settings/store", s.handlePublicSettings)
	}

	secured := r.API.Group("", use(mw.RequireAuth, mw.Maintenance, mw.RateLimit)...)
	{
		secured.GET("/orders", s.handleListOrders)
		secured.GET("/orders/:id", s.handleGetOrder)
		secured.POST("/orders", s.handleCreateOrder)

		secured.GET("/wishlist", s.handleGetWishlist)
		secured.POST("/wishlist", s.handleAddWishlistItem)
		secured.DELETE("/wishlist/:productID", s.handleRemoveWishlistItem)
		secured.DELETE("/wishlist", s.handleClearWishlist)
	}

	admin := r.API.Group("/admin", use(mw.RequireAuth, mw.RequireAdmin)...)
	{
		admin.GET("/products", s.handleAdminListProducts)
		admin.POST("/products", s.handleCreateProduct)
		admin.PATCH("/products/:id", s.handleUpdateProduct)
		admin.DELETE("/products/:id", s.handleDeleteProduct)

		admin.GET("/orders", s.handleAdminListOrders)
		admin.PATCH("/orders/:id/status", s.handleUpdateOrderStatus)

		admin.GET("/users", s.handleListUsers)
		admin.PATCH("/users/:id/role", s.handleSetUserRole)

		admin.GET("/settings", s.handleGetSettings)
		admin.PATCH("/settings", s.handleUpdateSettings)
	}
}
