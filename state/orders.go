package state

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"souq-delivery-api/models"
	"souq-delivery-api/storage"
)

// StoreOwnership resolves which stores a user owns. The catalog service
// implements it; the order service only needs this one lookup.
type StoreOwnership interface {
	StoreIDsOwnedBy(userID string) []string
}

// OrderService owns the order collection. Item mutations keep the invariant
// that Total equals the sum of price × quantity over current items. Unknown
// order ids are silent no-ops.
type OrderService struct {
	mu        sync.RWMutex
	kv        storage.KV
	ids       idGen
	now       func() time.Time
	ownership StoreOwnership
	orders    []models.Order
}

func NewOrderService(kv storage.KV, ownership StoreOwnership) *OrderService {
	s := &OrderService{
		kv:        kv,
		ids:       idGen{now: time.Now},
		now:       time.Now,
		ownership: ownership,
	}
	s.load()
	return s
}

func (s *OrderService) load() {
	err := storage.LoadJSON(s.kv, storage.KeyOrders, &s.orders)
	if err == nil {
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("dropping malformed orders payload", "error", err)
		_ = s.kv.Delete(storage.KeyOrders)
	}
	s.orders = seedOrders(s.now())
	s.persist()
}

func (s *OrderService) persist() {
	if err := storage.SaveJSON(s.kv, storage.KeyOrders, s.orders); err != nil {
		slog.Error("persisting orders failed", "error", err)
	}
}

// AddOrder assigns a generated id and timestamps, recomputes the total from
// the items, appends the order and returns the new id.
func (s *OrderService) AddOrder(order models.Order) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = s.ids.next("order")
	now := s.now()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	order.Total = order.ItemsTotal()
	s.orders = append(s.orders, order)
	s.persist()
	return order.ID
}

func (s *OrderService) OrderByID(id string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// Orders returns every order, newest first.
func (s *OrderService) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]models.Order(nil), s.orders...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// UpdateOrderStatus replaces the status and updatedAt unconditionally.
// Transition legality is advisory and enforced by the callers that care
// (see the statemachine package); unknown ids are a silent no-op.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			s.orders[i].UpdatedAt = s.now()
			s.persist()
			return
		}
	}
}

// AssignDriver records the driver taking the order. Returns false when the
// order is unknown or already has a driver.
func (s *OrderService) AssignDriver(id, driverID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		if s.orders[i].DriverID != "" {
			return false
		}
		s.orders[i].DriverID = driverID
		s.orders[i].UpdatedAt = s.now()
		s.persist()
		return true
	}
	return false
}

// driverVisible are the statuses any driver may see regardless of assignment.
var driverVisible = map[models.OrderStatus]bool{
	models.StatusReady:      true,
	models.StatusPickup:     true,
	models.StatusDelivering: true,
}

// OrdersFor returns the role-scoped view of the order set, newest first:
// customers see their own orders, vendors see orders for the stores they
// own, drivers see their assigned orders plus anything in flight, and
// admin/staff see everything.
func (s *OrderService) OrdersFor(user *models.User) []models.Order {
	if user == nil {
		return nil
	}
	switch user.Role {
	case models.RoleAdmin, models.RoleStaff:
		return s.Orders()
	case models.RoleCustomer:
		return s.filter(func(o models.Order) bool { return o.CustomerID == user.ID })
	case models.RoleVendor:
		owned := make(map[string]bool)
		for _, id := range s.ownership.StoreIDsOwnedBy(user.ID) {
			owned[id] = true
		}
		return s.filter(func(o models.Order) bool { return owned[o.StoreID] })
	case models.RoleDriver:
		return s.filter(func(o models.Order) bool {
			return o.DriverID == user.ID || driverVisible[o.Status]
		})
	default:
		return nil
	}
}

func (s *OrderService) filter(keep func(models.Order) bool) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for i := len(s.orders) - 1; i >= 0; i-- {
		if keep(s.orders[i]) {
			out = append(out, s.orders[i])
		}
	}
	return out
}

// AddItem appends an item to the order, merging the quantity into an
// existing line when the product is already present.
func (s *OrderService) AddItem(orderID string, item models.OrderItem) {
	s.mutateItems(orderID, func(o *models.Order) {
		for i := range o.Items {
			if o.Items[i].ProductID == item.ProductID {
				o.Items[i].Quantity += item.Quantity
				return
			}
		}
		o.Items = append(o.Items, item)
	})
}

// RemoveItem drops the line for the product, if present.
func (s *OrderService) RemoveItem(orderID, productID string) {
	s.mutateItems(orderID, func(o *models.Order) {
		for i := range o.Items {
			if o.Items[i].ProductID == productID {
				o.Items = append(o.Items[:i], o.Items[i+1:]...)
				return
			}
		}
	})
}

// UpdateItemQuantity sets the line quantity; zero or negative removes the line.
func (s *OrderService) UpdateItemQuantity(orderID, productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(orderID, productID)
		return
	}
	s.mutateItems(orderID, func(o *models.Order) {
		for i := range o.Items {
			if o.Items[i].ProductID == productID {
				o.Items[i].Quantity = quantity
				return
			}
		}
	})
}

// mutateItems applies fn to the order's items and recomputes the total.
// Unknown ids are a silent no-op.
func (s *OrderService) mutateItems(orderID string, fn func(*models.Order)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		fn(&s.orders[i])
		s.orders[i].Total = s.orders[i].ItemsTotal()
		s.orders[i].UpdatedAt = s.now()
		s.persist()
		return
	}
}
