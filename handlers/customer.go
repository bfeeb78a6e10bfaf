package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"souq-delivery-api/middleware"
	"souq-delivery-api/models"
)

type PlaceOrderRequest struct {
	StoreID string `json:"store_id" binding:"required"`
	Address string `json:"address" binding:"required"`
	Items   []struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
}

// PlaceOrder creates a new order (customer only). Item names and prices are
// snapshotted from the catalog at order time.
func (h *Handler) PlaceOrder(c *gin.Context) {
	caller := middleware.Caller(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, ok := h.Catalog.StoreByID(req.StoreID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	var items []models.OrderItem
	for _, reqItem := range req.Items {
		product, ok := h.Catalog.ProductByID(reqItem.ProductID)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product not found: " + reqItem.ProductID})
			return
		}
		if product.StoreID != req.StoreID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not belong to this store"})
			return
		}
		if !product.Available {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product '" + product.Name + "' is not available"})
			return
		}
		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Quantity:     reqItem.Quantity,
			Price:        product.Price,
			CurrencyType: product.CurrencyType,
		})
	}

	id := h.Orders.AddOrder(models.Order{
		CustomerID: caller.ID,
		StoreID:    store.ID,
		StoreName:  store.Name,
		Items:      items,
		Status:     models.StatusPending,
		Address:    req.Address,
	})

	order, _ := h.Orders.OrderByID(id)
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Order placed successfully",
		"order":     order,
		"total_syp": h.orderTotalSYP(order),
	})
}

// orderTotalSYP converts each line to SYP at the current rate and sums.
func (h *Handler) orderTotalSYP(order models.Order) float64 {
	var total float64
	for _, it := range order.Items {
		total += h.Currency.ConvertToSYP(it.Price*float64(it.Quantity), it.CurrencyType)
	}
	return total
}

// GetMyOrders returns all orders for the logged-in customer
func (h *Handler) GetMyOrders(c *gin.Context) {
	caller := middleware.Caller(c)
	orders := h.Orders.OrdersFor(caller)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order's full detail
func (h *Handler) GetOrderDetail(c *gin.Context) {
	caller := middleware.Caller(c)
	order, ok := h.Orders.OrderByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.CustomerID != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":     order,
		"total_syp": h.orderTotalSYP(order),
	})
}

// CancelOrder cancels an order the customer owns, allowed while the vendor
// has not started preparing it
func (h *Handler) CancelOrder(c *gin.Context) {
	caller := middleware.Caller(c)
	order, ok := h.Orders.OrderByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.CustomerID != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	if order.Status != models.StatusPending && order.Status != models.StatusConfirmed {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Cannot cancel order",
			"current_status": order.Status,
		})
		return
	}

	h.Orders.UpdateOrderStatus(order.ID, models.StatusCancelled)
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": order.ID})
}

// ── Item mutations ──────────────────────────────────────────────────────────
// Items may only be changed while the order is still pending; the total is
// recomputed by the order service after every mutation.

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// AddOrderItem adds a product to a pending order, merging quantities when
// the product is already on the order
func (h *Handler) AddOrderItem(c *gin.Context) {
	order, ok := h.requirePendingOwnOrder(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, found := h.Catalog.ProductByID(req.ProductID)
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product not found"})
		return
	}
	if product.StoreID != order.StoreID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not belong to this store"})
		return
	}

	h.Orders.AddItem(order.ID, models.OrderItem{
		ProductID:    product.ID,
		ProductName:  product.Name,
		Quantity:     req.Quantity,
		Price:        product.Price,
		CurrencyType: product.CurrencyType,
	})
	updated, _ := h.Orders.OrderByID(order.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Item added", "order": updated})
}

// RemoveOrderItem removes a product line from a pending order
func (h *Handler) RemoveOrderItem(c *gin.Context) {
	order, ok := h.requirePendingOwnOrder(c)
	if !ok {
		return
	}
	h.Orders.RemoveItem(order.ID, c.Param("productId"))
	updated, _ := h.Orders.OrderByID(order.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Item removed", "order": updated})
}

type UpdateItemQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateOrderItemQuantity sets a line quantity; zero or less removes the line
func (h *Handler) UpdateOrderItemQuantity(c *gin.Context) {
	order, ok := h.requirePendingOwnOrder(c)
	if !ok {
		return
	}
	var req UpdateItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.Orders.UpdateItemQuantity(order.ID, c.Param("productId"), req.Quantity)
	updated, _ := h.Orders.OrderByID(order.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Item quantity updated", "order": updated})
}

// requirePendingOwnOrder loads the order and aborts unless it belongs to the
// caller and is still pending.
func (h *Handler) requirePendingOwnOrder(c *gin.Context) (models.Order, bool) {
	caller := middleware.Caller(c)
	order, ok := h.Orders.OrderByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return models.Order{}, false
	}
	if order.CustomerID != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return models.Order{}, false
	}
	if order.Status != models.StatusPending {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Order items can only be changed while pending",
			"current_status": order.Status,
		})
		return models.Order{}, false
	}
	return order, true
}
