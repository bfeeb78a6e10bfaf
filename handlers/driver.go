package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"souq-delivery-api/middleware"
	"souq-delivery-api/models"
	"souq-delivery-api/statemachine"
)

// GetAvailableOrders shows ready orders that have no driver assigned
func (h *Handler) GetAvailableOrders(c *gin.Context) {
	var available []models.Order
	for _, o := range h.Orders.Orders() {
		if o.Status == models.StatusReady && o.DriverID == "" {
			available = append(available, o)
		}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(available), "orders": available})
}

// GetMyDeliveries returns the driver's role-scoped order view: orders
// assigned to them plus anything currently in flight
func (h *Handler) GetMyDeliveries(c *gin.Context) {
	caller := middleware.Caller(c)
	orders := h.Orders.OrdersFor(caller)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// PickupOrder assigns the order to the driver and transitions ready → pickup
func (h *Handler) PickupOrder(c *gin.Context) {
	caller := middleware.Caller(c)
	order, ok := h.Orders.OrderByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if order.DriverID != "" && order.DriverID != caller.ID {
		c.JSON(http.StatusConflict, gin.H{"error": "Order has already been taken by another driver"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusPickup, models.RoleDriver); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status, models.RoleDriver),
		})
		return
	}

	if order.DriverID == "" && !h.Orders.AssignDriver(order.ID, caller.ID) {
		c.JSON(http.StatusConflict, gin.H{"error": "Order has already been taken by another driver"})
		return
	}
	h.Orders.UpdateOrderStatus(order.ID, models.StatusPickup)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order picked up successfully",
		"order_id": order.ID,
		"status":   models.StatusPickup,
	})
}

type DeliveryStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required,oneof=delivering delivered"`
}

// UpdateDeliveryStatus moves the driver's assigned order through
// pickup → delivering → delivered
func (h *Handler) UpdateDeliveryStatus(c *gin.Context) {
	caller := middleware.Caller(c)
	order, ok := h.Orders.OrderByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.DriverID != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned driver for this order"})
		return
	}

	var req DeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, models.RoleDriver); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Invalid state transition",
			"current_status": order.Status,
			"reason":         err.Error(),
		})
		return
	}

	h.Orders.UpdateOrderStatus(order.ID, req.Status)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Delivery status updated",
		"order_id": order.ID,
		"status":   req.Status,
	})
}
