package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"souq-delivery-api/models"
	"souq-delivery-api/state"
)

// AdminGetAllOrders returns all orders with a status summary and total
// delivered revenue in SYP
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	orders := h.Orders.Orders()

	if status := c.Query("status"); status != "" {
		filtered := orders[:0]
		for _, o := range orders {
			if o.Status == models.OrderStatus(status) {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		filtered := orders[:0]
		for _, o := range orders {
			if o.CustomerID == customerID {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}
	if storeID := c.Query("store_id"); storeID != "" {
		filtered := orders[:0]
		for _, o := range orders {
			if o.StoreID == storeID {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	summary := map[string]int{}
	var revenueSYP float64
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusDelivered {
			revenueSYP += h.orderTotalSYP(o)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary":     summary,
		"total_revenue_syp": revenueSYP,
		"count":             len(orders),
		"orders":            orders,
	})
}

// AdminForceOrderStatus lets an order manager override any order state,
// bypassing the advisory state machine (emergency use)
func (h *Handler) AdminForceOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, ok := h.Orders.OrderByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	h.Orders.UpdateOrderStatus(order.ID, req.Status)
	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status force-updated",
		"order_id":        order.ID,
		"previous_status": order.Status,
		"new_status":      req.Status,
	})
}

// AdminGetAllUsers returns all accounts, filterable by role
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	users := h.Auth.Users(models.UserRole(c.Query("role")))
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminGetAllStores returns all stores with their sections
func (h *Handler) AdminGetAllStores(c *gin.Context) {
	stores := h.Catalog.Stores()
	c.JSON(http.StatusOK, gin.H{"count": len(stores), "stores": stores})
}

type UpdateRateRequest struct {
	Rate float64 `json:"rate" binding:"required"`
}

// UpdateCurrencyRate sets a new USD→SYP rate, subject to the two-hour
// cooldown between updates
func (h *Handler) UpdateCurrencyRate(c *gin.Context) {
	var req UpdateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Currency.UpdateRate(req.Rate); err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, state.ErrRateCooldown) {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Exchange rate updated",
		"rate":         h.Currency.Rate(),
		"last_updated": h.Currency.LastUpdated(),
	})
}

// GetRateHistory returns the append-only exchange rate log
func (h *Handler) GetRateHistory(c *gin.Context) {
	history := h.Currency.History()
	c.JSON(http.StatusOK, gin.H{"count": len(history), "history": history})
}
