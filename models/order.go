package models

import "time"

// OrderStatus represents all possible states of a delivery order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"    // initial state
	StatusConfirmed  OrderStatus = "confirmed"  // vendor confirmed the order
	StatusPreparing  OrderStatus = "preparing"  // vendor is preparing
	StatusReady      OrderStatus = "ready"      // ready for pickup by a driver
	StatusPickup     OrderStatus = "pickup"     // driver picked up
	StatusDelivering OrderStatus = "delivering" // driver on the way
	StatusDelivered  OrderStatus = "delivered"  // terminal
	StatusCancelled  OrderStatus = "cancelled"  // terminal
)

type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customer_id"`
	StoreID    string      `json:"store_id"`
	StoreName  string      `json:"store_name"` // snapshot at order time
	DriverID   string      `json:"driver_id,omitempty"`
	Items      []OrderItem `json:"items"`
	Status     OrderStatus `json:"status"`
	Total      float64     `json:"total"`
	Address    string      `json:"address"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ProductID    string       `json:"product_id"`
	ProductName  string       `json:"product_name"` // snapshot name
	Quantity     int          `json:"quantity"`
	Price        float64      `json:"price"` // snapshot price at time of order
	CurrencyType CurrencyType `json:"currency_type"`
}

// ItemsTotal sums price × quantity across items. Order.Total must always
// equal this after every item mutation.
func (o *Order) ItemsTotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
