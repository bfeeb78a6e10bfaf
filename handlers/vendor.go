package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"souq-delivery-api/middleware"
	"souq-delivery-api/models"
	"souq-delivery-api/state"
	"souq-delivery-api/statemachine"
)

// ── Store management ────────────────────────────────────────────────────────

type CreateStoreRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Logo        string               `json:"logo"`
	CoverImage  string               `json:"cover_image"`
	Address     string               `json:"address" binding:"required"`
	Category    models.StoreCategory `json:"category" binding:"required,oneof=grocery restaurant sweets other"`
}

// CreateStore lets a vendor create a store they own. Admin and staff with
// manage_stores may create stores on behalf of a vendor via owner_id; the
// named owner must be a vendor account so every store is vendor-owned.
func (h *Handler) CreateStore(c *gin.Context) {
	caller := middleware.Caller(c)
	var req struct {
		CreateStoreRequest
		OwnerID string `json:"owner_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ownerID string
	switch {
	case caller.Role == models.RoleVendor:
		if req.OwnerID != "" && req.OwnerID != caller.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Vendors may only create stores they own"})
			return
		}
		ownerID = caller.ID
	case caller.Role == models.RoleAdmin || caller.HasPermission(models.PermManageStores):
		if req.OwnerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required when creating a store for a vendor"})
			return
		}
		owner, ok := h.Auth.UserByID(req.OwnerID)
		if !ok || owner.Role != models.RoleVendor {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "owner_id must reference a vendor account"})
			return
		}
		ownerID = owner.ID
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Required permission: " + string(models.PermManageStores)})
		return
	}

	id := h.Catalog.AddStore(models.Store{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
		CoverImage:  req.CoverImage,
		OwnerID:     ownerID,
		Address:     req.Address,
		Category:    req.Category,
	})
	store, _ := h.Catalog.StoreByID(id)
	c.JSON(http.StatusCreated, gin.H{"message": "Store created", "store": store})
}

// GetMyStores lists the stores owned by the caller
func (h *Handler) GetMyStores(c *gin.Context) {
	caller := middleware.Caller(c)
	var stores []models.Store
	for _, id := range h.Catalog.StoreIDsOwnedBy(caller.ID) {
		if store, ok := h.Catalog.StoreByID(id); ok {
			stores = append(stores, store)
		}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(stores), "stores": stores})
}

// UpdateStore applies a partial update to a store the caller may manage
func (h *Handler) UpdateStore(c *gin.Context) {
	storeID := c.Param("id")
	if !h.requireStoreAccess(c, storeID) {
		return
	}
	var patch state.StorePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.Catalog.UpdateStore(storeID, patch) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}
	store, _ := h.Catalog.StoreByID(storeID)
	c.JSON(http.StatusOK, gin.H{"message": "Store updated", "store": store})
}

// DeleteStore removes a store and cascades to its sections and products
func (h *Handler) DeleteStore(c *gin.Context) {
	storeID := c.Param("id")
	if !h.requireStoreAccess(c, storeID) {
		return
	}
	if !h.Catalog.DeleteStore(storeID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Store deleted"})
}

// requireStoreAccess aborts with 403 unless the caller may manage the store.
func (h *Handler) requireStoreAccess(c *gin.Context, storeID string) bool {
	caller := middleware.Caller(c)
	if !h.Catalog.UserCanManageStore(caller, storeID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't manage this store"})
		return false
	}
	return true
}

// ── Section management ──────────────────────────────────────────────────────

type CreateSectionRequest struct {
	StoreID     string `json:"store_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Order       int    `json:"order"`
}

// CreateSection adds a section to a store the caller manages
func (h *Handler) CreateSection(c *gin.Context) {
	var req CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.requireStoreAccess(c, req.StoreID) {
		return
	}
	id, err := h.Catalog.AddSection(models.StoreSection{
		StoreID:     req.StoreID,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Order:       req.Order,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}
	section, _ := h.Catalog.SectionByID(id)
	c.JSON(http.StatusCreated, gin.H{"message": "Section created", "section": section})
}

// UpdateSection applies a partial update to a section
func (h *Handler) UpdateSection(c *gin.Context) {
	section, ok := h.Catalog.SectionByID(c.Param("sectionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Section not found"})
		return
	}
	if !h.requireStoreAccess(c, section.StoreID) {
		return
	}
	var patch state.SectionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.Catalog.UpdateSection(section.ID, patch)
	updated, _ := h.Catalog.SectionByID(section.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Section updated", "section": updated})
}

// DeleteSection removes a section and cascades to its products
func (h *Handler) DeleteSection(c *gin.Context) {
	section, ok := h.Catalog.SectionByID(c.Param("sectionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Section not found"})
		return
	}
	if !h.requireStoreAccess(c, section.StoreID) {
		return
	}
	h.Catalog.DeleteSection(section.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Section deleted"})
}

// ── Product management ──────────────────────────────────────────────────────

type CreateProductRequest struct {
	StoreID      string              `json:"store_id" binding:"required"`
	SectionID    string              `json:"section_id" binding:"required"`
	Name         string              `json:"name" binding:"required"`
	Description  string              `json:"description"`
	Price        float64             `json:"price" binding:"required,gt=0"`
	CurrencyType models.CurrencyType `json:"currency_type" binding:"required,oneof=SYP USD"`
	Images       []string            `json:"images" binding:"omitempty,max=5"`
	Available    *bool               `json:"available"`
}

// CreateProduct adds a product to a section of a store the caller manages
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.requireStoreAccess(c, req.StoreID) {
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	id, err := h.Catalog.AddProduct(models.Product{
		StoreID:      req.StoreID,
		SectionID:    req.SectionID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		CurrencyType: req.CurrencyType,
		Images:       req.Images,
		Available:    available,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	product, _ := h.Catalog.ProductByID(id)
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

// UpdateProduct applies a partial update to a product
func (h *Handler) UpdateProduct(c *gin.Context) {
	product, ok := h.Catalog.ProductByID(c.Param("productId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if !h.requireStoreAccess(c, product.StoreID) {
		return
	}
	var patch state.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.Catalog.UpdateProduct(product.ID, patch); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	updated, _ := h.Catalog.ProductByID(product.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": updated})
}

// DeleteProduct removes a product
func (h *Handler) DeleteProduct(c *gin.Context) {
	product, ok := h.Catalog.ProductByID(c.Param("productId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if !h.requireStoreAccess(c, product.StoreID) {
		return
	}
	h.Catalog.DeleteProduct(product.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// ── Order management ────────────────────────────────────────────────────────

// GetVendorOrders lists orders for the stores the caller owns, with a
// per-status summary for the dashboard
func (h *Handler) GetVendorOrders(c *gin.Context) {
	caller := middleware.Caller(c)
	orders := h.Orders.OrdersFor(caller)

	if status := c.Query("status"); status != "" {
		filtered := orders[:0]
		for _, o := range orders {
			if o.Status == models.OrderStatus(status) {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus handles the vendor's forward transitions and
// cancellation before pickup
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	caller := middleware.Caller(c)
	order, ok := h.Orders.OrderByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !h.Catalog.UserCanManageStore(caller, order.StoreID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to your store"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status == models.StatusCancelled {
		// Vendors may cancel until a driver has the order.
		if !statemachine.CanCancel(order.Status) || order.Status == models.StatusPickup || order.Status == models.StatusDelivering {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":          "Cannot cancel order",
				"current_status": order.Status,
			})
			return
		}
	} else if err := statemachine.CanTransition(order.Status, req.Status, models.RoleVendor); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status, models.RoleVendor),
		})
		return
	}

	h.Orders.UpdateOrderStatus(order.ID, req.Status)
	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": order.Status,
		"current_status":  req.Status,
	})
}
