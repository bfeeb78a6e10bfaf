package routes

import (
	"github.com/gin-gonic/gin"

	"souq-delivery-api/handlers"
	"souq-delivery-api/middleware"
	"souq-delivery-api/models"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	auth := h.Tokens

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/login", h.Login)

		// Store browsing (no auth needed)
		public.GET("/stores", h.ListStores)
		public.GET("/stores/:id", h.GetStore)
		public.GET("/stores/:id/products", h.GetStoreProducts)
		public.GET("/products/:id", h.GetProduct)

		// Exchange rate and state machine info
		public.GET("/currency/rate", h.GetCurrentRate)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	authed := r.Group("/api")
	authed.Use(auth.AuthRequired())
	{
		authed.GET("/profile", h.GetProfile)
		authed.PUT("/profile", h.UpdateProfile)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(auth.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", h.PlaceOrder)
		customer.GET("/orders", h.GetMyOrders)
		customer.GET("/orders/:id", h.GetOrderDetail)
		customer.PUT("/orders/:id/cancel", h.CancelOrder)

		// Item mutations on pending orders
		customer.POST("/orders/:id/items", h.AddOrderItem)
		customer.PUT("/orders/:id/items/:productId", h.UpdateOrderItemQuantity)
		customer.DELETE("/orders/:id/items/:productId", h.RemoveOrderItem)
	}

	// ── Vendor routes ──────────────────────────────────────────────
	// Admin and staff holding manage_stores share this surface; per-store
	// access is checked against ownership inside the handlers.
	vendor := r.Group("/api/vendor")
	vendor.Use(auth.AuthRequired(), middleware.RoleRequired(models.RoleVendor, models.RoleAdmin, models.RoleStaff))
	{
		// Store management
		vendor.POST("/stores", h.CreateStore)
		vendor.GET("/stores", h.GetMyStores)
		vendor.PUT("/stores/:id", h.UpdateStore)
		vendor.DELETE("/stores/:id", h.DeleteStore)

		// Section management
		vendor.POST("/sections", h.CreateSection)
		vendor.PUT("/sections/:sectionId", h.UpdateSection)
		vendor.DELETE("/sections/:sectionId", h.DeleteSection)

		// Product management
		vendor.POST("/products", h.CreateProduct)
		vendor.PUT("/products/:productId", h.UpdateProduct)
		vendor.DELETE("/products/:productId", h.DeleteProduct)

		// Order management
		vendor.GET("/orders", h.GetVendorOrders)
		vendor.PUT("/orders/:id/status", h.UpdateOrderStatus)
	}

	// ── Driver routes ──────────────────────────────────────────────
	driver := r.Group("/api/driver")
	driver.Use(auth.AuthRequired(), middleware.RoleRequired(models.RoleDriver))
	{
		driver.GET("/orders/available", h.GetAvailableOrders)
		driver.GET("/orders/my-deliveries", h.GetMyDeliveries)
		driver.PUT("/orders/:id/pickup", h.PickupOrder)
		driver.PUT("/orders/:id/status", h.UpdateDeliveryStatus)
	}

	// ── Admin routes ───────────────────────────────────────────────
	// Guarded per capability so staff accounts work with exactly the
	// permissions they hold; admin passes every check.
	admin := r.Group("/api/admin")
	admin.Use(auth.AuthRequired(), middleware.RoleRequired(models.RoleAdmin, models.RoleStaff))
	{
		admin.GET("/orders", middleware.PermissionRequired(models.PermManageOrders), h.AdminGetAllOrders)
		admin.PUT("/orders/:id/status", middleware.PermissionRequired(models.PermManageOrders), h.AdminForceOrderStatus)
		admin.GET("/users", middleware.PermissionRequired(models.PermManageUsers), h.AdminGetAllUsers)
		admin.GET("/stores", middleware.PermissionRequired(models.PermManageStores), h.AdminGetAllStores)
		admin.PUT("/currency/rate", middleware.PermissionRequired(models.PermManageCurrency), h.UpdateCurrencyRate)
		admin.GET("/currency/history", middleware.PermissionRequired(models.PermManageCurrency), h.GetRateHistory)
	}
}
