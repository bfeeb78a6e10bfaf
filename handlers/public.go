package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"souq-delivery-api/models"
	"souq-delivery-api/statemachine"
)

// ListStores returns all stores, filterable by category or name search
func (h *Handler) ListStores(c *gin.Context) {
	var stores []models.Store
	if category := c.Query("category"); category != "" {
		stores = h.Catalog.StoresByCategory(models.StoreCategory(category))
	} else {
		stores = h.Catalog.Stores()
	}

	if search := c.Query("search"); search != "" {
		filtered := stores[:0]
		for _, st := range stores {
			if strings.Contains(st.Name, search) {
				filtered = append(filtered, st)
			}
		}
		stores = filtered
	}

	c.JSON(http.StatusOK, gin.H{"count": len(stores), "stores": stores})
}

// GetStore returns a single store with its sections
func (h *Handler) GetStore(c *gin.Context) {
	store, ok := h.Catalog.StoreByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"store":    store,
		"sections": h.Catalog.SectionsByStore(store.ID),
	})
}

// GetStoreProducts returns a store's products, filterable by section
func (h *Handler) GetStoreProducts(c *gin.Context) {
	storeID := c.Param("id")
	if _, ok := h.Catalog.StoreByID(storeID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	var products []models.Product
	if sectionID := c.Query("section"); sectionID != "" {
		section, ok := h.Catalog.SectionByID(sectionID)
		if !ok || section.StoreID != storeID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Section not found in this store"})
			return
		}
		products = h.Catalog.ProductsBySection(sectionID)
	} else {
		products = h.Catalog.ProductsByStore(storeID)
	}

	if c.Query("available") == "true" {
		filtered := products[:0]
		for _, p := range products {
			if p.Available {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

// GetProduct returns a single product with its price converted to SYP
func (h *Handler) GetProduct(c *gin.Context) {
	product, ok := h.Catalog.ProductByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product":   product,
		"price_syp": h.Currency.ConvertToSYP(product.Price, product.CurrencyType),
	})
}

// GetCurrentRate returns the current USD→SYP exchange rate
func (h *Handler) GetCurrentRate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rate":         h.Currency.Rate(),
		"last_updated": h.Currency.LastUpdated(),
		"can_update":   h.Currency.CanUpdate(),
	})
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"cancellation":    "any non-terminal status may move to cancelled",
		"terminal_states": []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
	})
}
