package state

import (
	"errors"
	"testing"

	"souq-delivery-api/models"
	"souq-delivery-api/storage"
)

func newCatalogForTest(t *testing.T) *CatalogService {
	t.Helper()
	kv := storage.NewMemory()
	if err := kv.Set(storage.KeyStores, []byte("[]")); err != nil {
		t.Fatal(err)
	}
	return NewCatalogService(kv)
}

// buildStore creates a store with two sections and products spread across
// them, returning all generated ids.
func buildStore(t *testing.T, svc *CatalogService, owner string) (storeID string, sectionIDs, productIDs []string) {
	t.Helper()
	storeID = svc.AddStore(models.Store{Name: "متجر تجريبي", OwnerID: owner, Category: models.CategoryGrocery})
	for _, name := range []string{"قسم أول", "قسم ثاني"} {
		id, err := svc.AddSection(models.StoreSection{StoreID: storeID, Name: name})
		if err != nil {
			t.Fatalf("AddSection: %v", err)
		}
		sectionIDs = append(sectionIDs, id)
	}
	for i, sectionID := range sectionIDs {
		id, err := svc.AddProduct(models.Product{
			StoreID:      storeID,
			SectionID:    sectionID,
			Name:         "منتج",
			Price:        float64(1000 * (i + 1)),
			CurrencyType: models.CurrencySYP,
			Available:    true,
		})
		if err != nil {
			t.Fatalf("AddProduct: %v", err)
		}
		productIDs = append(productIDs, id)
	}
	return storeID, sectionIDs, productIDs
}

func TestCatalog_DeleteStoreCascades(t *testing.T) {
	svc := newCatalogForTest(t)
	storeID, sectionIDs, productIDs := buildStore(t, svc, "vendor-1")

	if !svc.DeleteStore(storeID) {
		t.Fatal("DeleteStore returned false for existing store")
	}

	if _, ok := svc.StoreByID(storeID); ok {
		t.Error("store still present after delete")
	}
	if got := svc.SectionsByStore(storeID); len(got) != 0 {
		t.Errorf("orphan sections remain: %v", got)
	}
	for _, id := range sectionIDs {
		if _, ok := svc.SectionByID(id); ok {
			t.Errorf("section %s survived store delete", id)
		}
		if got := svc.ProductsBySection(id); len(got) != 0 {
			t.Errorf("orphan products remain in section %s: %v", id, got)
		}
	}
	for _, id := range productIDs {
		if _, ok := svc.ProductByID(id); ok {
			t.Errorf("product %s survived store delete", id)
		}
	}
}

func TestCatalog_DeleteSectionCascadesToProducts(t *testing.T) {
	svc := newCatalogForTest(t)
	storeID, sectionIDs, _ := buildStore(t, svc, "vendor-1")

	if !svc.DeleteSection(sectionIDs[0]) {
		t.Fatal("DeleteSection returned false for existing section")
	}

	if got := svc.ProductsBySection(sectionIDs[0]); len(got) != 0 {
		t.Errorf("orphan products remain after section delete: %v", got)
	}
	// The sibling section and its products are untouched.
	if got := svc.ProductsBySection(sectionIDs[1]); len(got) != 1 {
		t.Errorf("sibling section products = %d, want 1", len(got))
	}
	if got := svc.ProductsByStore(storeID); len(got) != 1 {
		t.Errorf("store products after cascade = %d, want 1", len(got))
	}
}

func TestCatalog_ProductSectionInvariant(t *testing.T) {
	svc := newCatalogForTest(t)
	storeA, sectionsA, _ := buildStore(t, svc, "vendor-1")
	_, sectionsB, _ := buildStore(t, svc, "vendor-2")

	tests := []struct {
		name    string
		product models.Product
		wantErr error
	}{
		{
			name:    "section of another store",
			product: models.Product{StoreID: storeA, SectionID: sectionsB[0], Name: "x", Price: 1},
			wantErr: ErrSectionMismatch,
		},
		{
			name:    "unknown section",
			product: models.Product{StoreID: storeA, SectionID: "section-missing", Name: "x", Price: 1},
			wantErr: ErrSectionMismatch,
		},
		{
			name:    "unknown store",
			product: models.Product{StoreID: "store-missing", SectionID: sectionsA[0], Name: "x", Price: 1},
			wantErr: ErrStoreNotFound,
		},
		{
			name:    "valid placement",
			product: models.Product{StoreID: storeA, SectionID: sectionsA[0], Name: "x", Price: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddProduct(tt.product)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddProduct error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Moving a product to a section of a different store is rejected too.
	productID, err := svc.AddProduct(models.Product{StoreID: storeA, SectionID: sectionsA[1], Name: "y", Price: 2})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if _, err := svc.UpdateProduct(productID, ProductPatch{SectionID: &sectionsB[0]}); !errors.Is(err, ErrSectionMismatch) {
		t.Errorf("UpdateProduct cross-store move error = %v, want ErrSectionMismatch", err)
	}
}

func TestCatalog_UnknownIDsAreNoOps(t *testing.T) {
	svc := newCatalogForTest(t)
	buildStore(t, svc, "vendor-1")

	name := "new"
	if svc.UpdateStore("store-missing", StorePatch{Name: &name}) {
		t.Error("UpdateStore on unknown id returned true")
	}
	if svc.DeleteStore("store-missing") {
		t.Error("DeleteStore on unknown id returned true")
	}
	if svc.UpdateSection("section-missing", SectionPatch{Name: &name}) {
		t.Error("UpdateSection on unknown id returned true")
	}
	if svc.DeleteSection("section-missing") {
		t.Error("DeleteSection on unknown id returned true")
	}
	if ok, _ := svc.UpdateProduct("product-missing", ProductPatch{Name: &name}); ok {
		t.Error("UpdateProduct on unknown id returned true")
	}
	if svc.DeleteProduct("product-missing") {
		t.Error("DeleteProduct on unknown id returned true")
	}
}

func TestCatalog_PartialUpdates(t *testing.T) {
	svc := newCatalogForTest(t)
	storeID, _, productIDs := buildStore(t, svc, "vendor-1")

	rating := 4.9
	if !svc.UpdateStore(storeID, StorePatch{Rating: &rating}) {
		t.Fatal("UpdateStore failed")
	}
	store, _ := svc.StoreByID(storeID)
	if store.Rating != 4.9 {
		t.Errorf("rating = %v, want 4.9", store.Rating)
	}
	if store.Name != "متجر تجريبي" {
		t.Errorf("name changed by unrelated patch: %q", store.Name)
	}

	unavailable := false
	price := 9999.0
	if _, err := svc.UpdateProduct(productIDs[0], ProductPatch{Available: &unavailable, Price: &price}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	product, _ := svc.ProductByID(productIDs[0])
	if product.Available || product.Price != 9999 {
		t.Errorf("product after patch = %+v", product)
	}
}

func TestCatalog_SectionsSortedByOrder(t *testing.T) {
	svc := newCatalogForTest(t)
	storeID := svc.AddStore(models.Store{Name: "متجر", OwnerID: "vendor-1"})
	for _, order := range []int{3, 1, 2} {
		if _, err := svc.AddSection(models.StoreSection{StoreID: storeID, Name: "s", Order: order}); err != nil {
			t.Fatalf("AddSection: %v", err)
		}
	}
	sections := svc.SectionsByStore(storeID)
	for i := 1; i < len(sections); i++ {
		if sections[i-1].Order > sections[i].Order {
			t.Fatalf("sections not sorted by display order: %v", sections)
		}
	}
}

func TestCatalog_UserCanManageStore(t *testing.T) {
	svc := newCatalogForTest(t)
	storeID, _, _ := buildStore(t, svc, "vendor-1")

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"admin", &models.User{ID: "admin-1", Role: models.RoleAdmin}, true},
		{"staff with manage_stores", &models.User{ID: "staff-1", Role: models.RoleStaff, Permissions: []models.Permission{models.PermManageStores}}, true},
		{"staff without manage_stores", &models.User{ID: "staff-2", Role: models.RoleStaff, Permissions: []models.Permission{models.PermManageOrders}}, false},
		{"owner", &models.User{ID: "vendor-1", Role: models.RoleVendor}, true},
		{"other vendor", &models.User{ID: "vendor-2", Role: models.RoleVendor}, false},
		{"customer", &models.User{ID: "customer-1", Role: models.RoleCustomer}, false},
		{"nil user", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.UserCanManageStore(tt.user, storeID); got != tt.want {
				t.Errorf("UserCanManageStore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCatalog_StoreIDsOwnedBy(t *testing.T) {
	svc := newCatalogForTest(t)
	storeA, _, _ := buildStore(t, svc, "vendor-1")
	storeB := svc.AddStore(models.Store{Name: "ثاني", OwnerID: "vendor-1"})
	buildStore(t, svc, "vendor-2")

	owned := svc.StoreIDsOwnedBy("vendor-1")
	if len(owned) != 2 {
		t.Fatalf("owned = %v, want 2 stores", owned)
	}
	set := map[string]bool{owned[0]: true, owned[1]: true}
	if !set[storeA] || !set[storeB] {
		t.Errorf("owned = %v, want [%s %s]", owned, storeA, storeB)
	}
}

func TestCatalog_PersistsAcrossRestart(t *testing.T) {
	kv := storage.NewMemory()
	if err := kv.Set(storage.KeyStores, []byte("[]")); err != nil {
		t.Fatal(err)
	}
	svc := NewCatalogService(kv)
	storeID, sectionIDs, productIDs := buildStore(t, svc, "vendor-1")

	reloaded := NewCatalogService(kv)
	if _, ok := reloaded.StoreByID(storeID); !ok {
		t.Fatal("store lost across restart")
	}
	if got := reloaded.SectionsByStore(storeID); len(got) != len(sectionIDs) {
		t.Errorf("reloaded sections = %d, want %d", len(got), len(sectionIDs))
	}
	if got := reloaded.ProductsByStore(storeID); len(got) != len(productIDs) {
		t.Errorf("reloaded products = %d, want %d", len(got), len(productIDs))
	}
}

func TestCatalog_CorruptCollectionReseedsWholeCatalog(t *testing.T) {
	kv := storage.NewMemory()
	if err := kv.Set(storage.KeyStores, []byte("[]")); err != nil {
		t.Fatal(err)
	}
	svc := NewCatalogService(kv)
	buildStore(t, svc, "vendor-1")

	// Corrupt only the sections payload; stores and products stay valid.
	if err := kv.Set(storage.KeyStoreSections, []byte("{broken")); err != nil {
		t.Fatal(err)
	}

	reloaded := NewCatalogService(kv)
	stores := reloaded.Stores()
	if len(stores) == 0 {
		t.Fatal("expected a reseeded catalog after a corrupted collection")
	}
	// The whole catalog is replaced as a set, so no product may reference a
	// section that went down with the corrupted payload.
	for _, st := range stores {
		for _, p := range reloaded.ProductsByStore(st.ID) {
			sec, ok := reloaded.SectionByID(p.SectionID)
			if !ok || sec.StoreID != p.StoreID {
				t.Errorf("product %s references missing or foreign section %s", p.ID, p.SectionID)
			}
		}
	}
}

func TestCatalog_SeedsWhenEmpty(t *testing.T) {
	svc := NewCatalogService(storage.NewMemory())
	stores := svc.Stores()
	if len(stores) == 0 {
		t.Fatal("expected sample stores on a fresh store")
	}
	// Sample data keeps the product→section invariant.
	for _, st := range stores {
		for _, p := range svc.ProductsByStore(st.ID) {
			sec, ok := svc.SectionByID(p.SectionID)
			if !ok || sec.StoreID != p.StoreID {
				t.Errorf("sample product %s violates section invariant", p.ID)
			}
		}
	}
}
