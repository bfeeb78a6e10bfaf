package state

import (
	"testing"

	"souq-delivery-api/models"
	"souq-delivery-api/storage"
)

// stubOwnership maps vendor ids to the store ids they own.
type stubOwnership map[string][]string

func (o stubOwnership) StoreIDsOwnedBy(userID string) []string { return o[userID] }

// newOrdersForTest starts from an explicitly empty persisted order set so
// the built-in sample orders do not interfere.
func newOrdersForTest(t *testing.T, ownership StoreOwnership) *OrderService {
	t.Helper()
	kv := storage.NewMemory()
	if err := kv.Set(storage.KeyOrders, []byte("[]")); err != nil {
		t.Fatal(err)
	}
	if ownership == nil {
		ownership = stubOwnership{}
	}
	return NewOrderService(kv, ownership)
}

func TestOrders_AddOrderComputesTotal(t *testing.T) {
	svc := newOrdersForTest(t, nil)

	id := svc.AddOrder(models.Order{
		CustomerID: "customer-1",
		StoreID:    "store-1",
		Items: []models.OrderItem{
			{ProductID: "p1", Quantity: 2, Price: 10},
		},
	})

	order, ok := svc.OrderByID(id)
	if !ok {
		t.Fatal("order not found after AddOrder")
	}
	if order.Total != 20 {
		t.Errorf("total = %v, want 20", order.Total)
	}
	if order.Status != models.StatusPending {
		t.Errorf("status = %v, want pending", order.Status)
	}
	if order.CreatedAt.IsZero() || order.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestOrders_TotalInvariantUnderItemMutations(t *testing.T) {
	svc := newOrdersForTest(t, nil)
	id := svc.AddOrder(models.Order{CustomerID: "customer-1", StoreID: "store-1"})

	checkTotal := func(step string) {
		t.Helper()
		order, _ := svc.OrderByID(id)
		if order.Total != order.ItemsTotal() {
			t.Errorf("%s: total = %v, items sum = %v", step, order.Total, order.ItemsTotal())
		}
	}

	svc.AddItem(id, models.OrderItem{ProductID: "p1", Quantity: 2, Price: 10})
	checkTotal("add p1")
	svc.AddItem(id, models.OrderItem{ProductID: "p2", Quantity: 1, Price: 7})
	checkTotal("add p2")
	svc.AddItem(id, models.OrderItem{ProductID: "p1", Quantity: 3, Price: 10})
	checkTotal("merge p1")

	order, _ := svc.OrderByID(id)
	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2 (duplicate product merged)", len(order.Items))
	}
	if order.Total != 5*10+1*7 {
		t.Errorf("total after merge = %v, want 57", order.Total)
	}

	svc.UpdateItemQuantity(id, "p1", 1)
	checkTotal("set p1 qty 1")
	order, _ = svc.OrderByID(id)
	if order.Total != 17 {
		t.Errorf("total = %v, want 17", order.Total)
	}

	// Zero quantity removes the line.
	svc.UpdateItemQuantity(id, "p2", 0)
	checkTotal("zero p2")
	order, _ = svc.OrderByID(id)
	if len(order.Items) != 1 || order.Total != 10 {
		t.Errorf("after zeroing p2: items = %d, total = %v, want 1 item, total 10", len(order.Items), order.Total)
	}

	svc.RemoveItem(id, "p1")
	checkTotal("remove p1")
	order, _ = svc.OrderByID(id)
	if len(order.Items) != 0 || order.Total != 0 {
		t.Errorf("after removing all: items = %d, total = %v, want empty, total 0", len(order.Items), order.Total)
	}
}

func TestOrders_UnknownIDIsNoOp(t *testing.T) {
	svc := newOrdersForTest(t, nil)
	id := svc.AddOrder(models.Order{
		CustomerID: "customer-1",
		Items:      []models.OrderItem{{ProductID: "p1", Quantity: 1, Price: 5}},
	})

	svc.AddItem("order-does-not-exist", models.OrderItem{ProductID: "p9", Quantity: 1, Price: 99})
	svc.RemoveItem("order-does-not-exist", "p1")
	svc.UpdateItemQuantity("order-does-not-exist", "p1", 4)
	svc.UpdateOrderStatus("order-does-not-exist", models.StatusDelivered)

	order, _ := svc.OrderByID(id)
	if order.Total != 5 || len(order.Items) != 1 || order.Status != models.StatusPending {
		t.Errorf("existing order changed by mutations on unknown id: %+v", order)
	}
}

func TestOrders_UpdateStatusIsUnconditional(t *testing.T) {
	svc := newOrdersForTest(t, nil)
	id := svc.AddOrder(models.Order{CustomerID: "customer-1"})

	// The state owner applies any status; legality is the caller's concern.
	svc.UpdateOrderStatus(id, models.StatusDelivered)
	order, _ := svc.OrderByID(id)
	if order.Status != models.StatusDelivered {
		t.Errorf("status = %v, want delivered", order.Status)
	}
	svc.UpdateOrderStatus(id, models.StatusPending)
	order, _ = svc.OrderByID(id)
	if order.Status != models.StatusPending {
		t.Errorf("status = %v, want pending", order.Status)
	}
}

func TestOrders_AssignDriver(t *testing.T) {
	svc := newOrdersForTest(t, nil)
	id := svc.AddOrder(models.Order{CustomerID: "customer-1", Status: models.StatusReady})

	if !svc.AssignDriver(id, "driver-1") {
		t.Fatal("AssignDriver failed on unassigned order")
	}
	if svc.AssignDriver(id, "driver-2") {
		t.Error("AssignDriver succeeded on an already assigned order")
	}
	order, _ := svc.OrderByID(id)
	if order.DriverID != "driver-1" {
		t.Errorf("driver = %q, want driver-1", order.DriverID)
	}
}

func TestOrders_RoleScopedViews(t *testing.T) {
	ownership := stubOwnership{"vendor-1": {"store-1"}}
	svc := newOrdersForTest(t, ownership)

	mkOrder := func(customerID, storeID, driverID string, status models.OrderStatus) string {
		return svc.AddOrder(models.Order{
			CustomerID: customerID, StoreID: storeID, DriverID: driverID, Status: status,
		})
	}
	o1 := mkOrder("customer-1", "store-1", "", models.StatusPending)
	o2 := mkOrder("customer-2", "store-1", "", models.StatusReady)
	o3 := mkOrder("customer-1", "store-2", "driver-1", models.StatusDelivering)
	o4 := mkOrder("customer-2", "store-2", "driver-2", models.StatusDelivered)

	idsOf := func(orders []models.Order) map[string]bool {
		set := make(map[string]bool)
		for _, o := range orders {
			set[o.ID] = true
		}
		return set
	}

	tests := []struct {
		name string
		user *models.User
		want []string
	}{
		{
			name: "customer sees own orders",
			user: &models.User{ID: "customer-1", Role: models.RoleCustomer},
			want: []string{o1, o3},
		},
		{
			name: "vendor sees orders for owned stores only",
			user: &models.User{ID: "vendor-1", Role: models.RoleVendor},
			want: []string{o1, o2},
		},
		{
			name: "vendor without stores sees nothing",
			user: &models.User{ID: "vendor-9", Role: models.RoleVendor},
			want: nil,
		},
		{
			name: "driver sees assigned plus in-flight",
			user: &models.User{ID: "driver-1", Role: models.RoleDriver},
			want: []string{o2, o3},
		},
		{
			name: "other driver sees assigned plus in-flight",
			user: &models.User{ID: "driver-2", Role: models.RoleDriver},
			want: []string{o2, o3, o4},
		},
		{
			name: "admin sees all",
			user: &models.User{ID: "admin-1", Role: models.RoleAdmin},
			want: []string{o1, o2, o3, o4},
		},
		{
			name: "staff sees all",
			user: &models.User{ID: "staff-1", Role: models.RoleStaff},
			want: []string{o1, o2, o3, o4},
		},
		{
			name: "nil user sees nothing",
			user: nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idsOf(svc.OrdersFor(tt.user))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d orders, want %d (%v)", len(got), len(tt.want), got)
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Errorf("missing order %s in view", id)
				}
			}
		})
	}
}

func TestOrders_PersistsAcrossRestart(t *testing.T) {
	kv := storage.NewMemory()
	if err := kv.Set(storage.KeyOrders, []byte("[]")); err != nil {
		t.Fatal(err)
	}
	svc := NewOrderService(kv, stubOwnership{})
	id := svc.AddOrder(models.Order{
		CustomerID: "customer-1",
		Items:      []models.OrderItem{{ProductID: "p1", Quantity: 3, Price: 4}},
	})

	reloaded := NewOrderService(kv, stubOwnership{})
	order, ok := reloaded.OrderByID(id)
	if !ok {
		t.Fatal("order lost across restart")
	}
	if order.Total != 12 {
		t.Errorf("reloaded total = %v, want 12", order.Total)
	}
}

func TestOrders_SeedsWhenEmpty(t *testing.T) {
	svc := NewOrderService(storage.NewMemory(), stubOwnership{})
	if len(svc.Orders()) == 0 {
		t.Error("expected sample orders on a fresh store")
	}
}
