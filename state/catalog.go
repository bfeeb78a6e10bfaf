package state

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"souq-delivery-api/models"
	"souq-delivery-api/storage"
)

var (
	// ErrStoreNotFound is returned when a child entity names a missing store.
	ErrStoreNotFound = errors.New("store not found")
	// ErrSectionMismatch is returned when a product names a section that does
	// not exist or belongs to a different store.
	ErrSectionMismatch = errors.New("section does not belong to this store")
)

// CatalogService owns stores, their sections and their products.
// Sections and products are kept in per-store maps, mirroring how the
// collections are persisted.
type CatalogService struct {
	mu       sync.RWMutex
	kv       storage.KV
	ids      idGen
	stores   []models.Store
	sections map[string][]models.StoreSection // storeID → sections
	products map[string][]models.Product      // storeID → products
}

func NewCatalogService(kv storage.KV) *CatalogService {
	s := &CatalogService{
		kv:       kv,
		ids:      idGen{now: time.Now},
		sections: make(map[string][]models.StoreSection),
		products: make(map[string][]models.Product),
	}
	s.load()
	return s
}

func (s *CatalogService) load() {
	storesFound, storesCorrupt := loadCollection(s.kv, storage.KeyStores, &s.stores)
	_, sectionsCorrupt := loadCollection(s.kv, storage.KeyStoreSections, &s.sections)
	_, productsCorrupt := loadCollection(s.kv, storage.KeyStoreProducts, &s.products)
	if s.sections == nil {
		s.sections = make(map[string][]models.StoreSection)
	}
	if s.products == nil {
		s.products = make(map[string][]models.Product)
	}
	// The three collections are only consistent as a set: a corrupted
	// payload in any one of them reseeds the whole catalog, so products
	// never reference sections that were dropped with their payload.
	if !storesFound || storesCorrupt || sectionsCorrupt || productsCorrupt {
		s.stores, s.sections, s.products = seedCatalog()
		s.persist()
	}
}

// loadCollection reads one persisted collection and reports whether a valid
// payload existed, and whether a payload was dropped as corrupt.
func loadCollection(kv storage.KV, key string, v interface{}) (found, corrupt bool) {
	err := storage.LoadJSON(kv, key, v)
	switch {
	case err == nil:
		return true, false
	case errors.Is(err, storage.ErrNotFound):
		return false, false
	default:
		slog.Warn("dropping malformed collection payload", "key", key, "error", err)
		_ = kv.Delete(key)
		return false, true
	}
}

func (s *CatalogService) persist() {
	if err := storage.SaveJSON(s.kv, storage.KeyStores, s.stores); err != nil {
		slog.Error("persisting stores failed", "error", err)
	}
	if err := storage.SaveJSON(s.kv, storage.KeyStoreSections, s.sections); err != nil {
		slog.Error("persisting sections failed", "error", err)
	}
	if err := storage.SaveJSON(s.kv, storage.KeyStoreProducts, s.products); err != nil {
		slog.Error("persisting products failed", "error", err)
	}
}

// ── Store operations ────────────────────────────────────────────────────────

// AddStore assigns a generated id and returns it.
func (s *CatalogService) AddStore(store models.Store) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	store.ID = s.ids.next("store")
	s.stores = append(s.stores, store)
	s.persist()
	return store.ID
}

// StorePatch is a partial store update; nil fields are left unchanged.
type StorePatch struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Logo        *string               `json:"logo"`
	CoverImage  *string               `json:"cover_image"`
	Address     *string               `json:"address"`
	Category    *models.StoreCategory `json:"category"`
	Rating      *float64              `json:"rating"`
}

func (s *CatalogService) UpdateStore(id string, patch StorePatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.stores {
		if s.stores[i].ID != id {
			continue
		}
		st := &s.stores[i]
		if patch.Name != nil {
			st.Name = *patch.Name
		}
		if patch.Description != nil {
			st.Description = *patch.Description
		}
		if patch.Logo != nil {
			st.Logo = *patch.Logo
		}
		if patch.CoverImage != nil {
			st.CoverImage = *patch.CoverImage
		}
		if patch.Address != nil {
			st.Address = *patch.Address
		}
		if patch.Category != nil {
			st.Category = *patch.Category
		}
		if patch.Rating != nil {
			st.Rating = *patch.Rating
		}
		s.persist()
		return true
	}
	return false
}

// DeleteStore removes the store and cascades to its sections and products.
func (s *CatalogService) DeleteStore(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.stores {
		if s.stores[i].ID != id {
			continue
		}
		s.stores = append(s.stores[:i], s.stores[i+1:]...)
		delete(s.sections, id)
		delete(s.products, id)
		s.persist()
		return true
	}
	return false
}

func (s *CatalogService) Stores() []models.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Store(nil), s.stores...)
}

func (s *CatalogService) StoresByCategory(category models.StoreCategory) []models.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Store
	for _, st := range s.stores {
		if st.Category == category {
			out = append(out, st)
		}
	}
	return out
}

func (s *CatalogService) StoreByID(id string) (models.Store, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storeByID(id)
}

func (s *CatalogService) storeByID(id string) (models.Store, bool) {
	for _, st := range s.stores {
		if st.ID == id {
			return st, true
		}
	}
	return models.Store{}, false
}

// StoreIDsOwnedBy returns the ids of every store owned by the user. The
// order service uses this to scope a vendor's order view to stores they
// actually own.
func (s *CatalogService) StoreIDsOwnedBy(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, st := range s.stores {
		if st.OwnerID == userID {
			out = append(out, st.ID)
		}
	}
	return out
}

// ── Section operations ──────────────────────────────────────────────────────

// AddSection adds a section to an existing store and returns its id.
func (s *CatalogService) AddSection(section models.StoreSection) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.storeByID(section.StoreID); !ok {
		return "", ErrStoreNotFound
	}
	section.ID = s.ids.next("section")
	s.sections[section.StoreID] = append(s.sections[section.StoreID], section)
	s.persist()
	return section.ID, nil
}

// SectionPatch is a partial section update; nil fields are left unchanged.
type SectionPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Order       *int    `json:"order"`
}

func (s *CatalogService) UpdateSection(id string, patch SectionPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for storeID := range s.sections {
		for i := range s.sections[storeID] {
			if s.sections[storeID][i].ID != id {
				continue
			}
			sec := &s.sections[storeID][i]
			if patch.Name != nil {
				sec.Name = *patch.Name
			}
			if patch.Description != nil {
				sec.Description = *patch.Description
			}
			if patch.Image != nil {
				sec.Image = *patch.Image
			}
			if patch.Order != nil {
				sec.Order = *patch.Order
			}
			s.persist()
			return true
		}
	}
	return false
}

// DeleteSection removes the section and cascades to its products.
func (s *CatalogService) DeleteSection(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for storeID := range s.sections {
		for i := range s.sections[storeID] {
			if s.sections[storeID][i].ID != id {
				continue
			}
			s.sections[storeID] = append(s.sections[storeID][:i], s.sections[storeID][i+1:]...)
			for pStoreID := range s.products {
				kept := s.products[pStoreID][:0]
				for _, p := range s.products[pStoreID] {
					if p.SectionID != id {
						kept = append(kept, p)
					}
				}
				s.products[pStoreID] = kept
			}
			s.persist()
			return true
		}
	}
	return false
}

// SectionsByStore returns the store's sections in display order.
func (s *CatalogService) SectionsByStore(storeID string) []models.StoreSection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]models.StoreSection(nil), s.sections[storeID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (s *CatalogService) SectionByID(id string) (models.StoreSection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sectionByID(id)
}

func (s *CatalogService) sectionByID(id string) (models.StoreSection, bool) {
	for _, list := range s.sections {
		for _, sec := range list {
			if sec.ID == id {
				return sec, true
			}
		}
	}
	return models.StoreSection{}, false
}

// ── Product operations ──────────────────────────────────────────────────────

// AddProduct adds a product to a section of a store and returns its id.
// The section must exist and belong to the same store as the product.
func (s *CatalogService) AddProduct(product models.Product) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.storeByID(product.StoreID); !ok {
		return "", ErrStoreNotFound
	}
	sec, ok := s.sectionByID(product.SectionID)
	if !ok || sec.StoreID != product.StoreID {
		return "", ErrSectionMismatch
	}
	product.ID = s.ids.next("product")
	s.products[product.StoreID] = append(s.products[product.StoreID], product)
	s.persist()
	return product.ID, nil
}

// ProductPatch is a partial product update; nil fields are left unchanged.
type ProductPatch struct {
	SectionID    *string              `json:"section_id"`
	Name         *string              `json:"name"`
	Description  *string              `json:"description"`
	Price        *float64             `json:"price"`
	CurrencyType *models.CurrencyType `json:"currency_type"`
	Images       *[]string            `json:"images"`
	Available    *bool                `json:"available"`
}

func (s *CatalogService) UpdateProduct(id string, patch ProductPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for storeID := range s.products {
		for i := range s.products[storeID] {
			if s.products[storeID][i].ID != id {
				continue
			}
			p := &s.products[storeID][i]
			if patch.SectionID != nil {
				sec, ok := s.sectionByID(*patch.SectionID)
				if !ok || sec.StoreID != p.StoreID {
					return false, ErrSectionMismatch
				}
				p.SectionID = *patch.SectionID
			}
			if patch.Name != nil {
				p.Name = *patch.Name
			}
			if patch.Description != nil {
				p.Description = *patch.Description
			}
			if patch.Price != nil {
				p.Price = *patch.Price
			}
			if patch.CurrencyType != nil {
				p.CurrencyType = *patch.CurrencyType
			}
			if patch.Images != nil {
				p.Images = *patch.Images
			}
			if patch.Available != nil {
				p.Available = *patch.Available
			}
			s.persist()
			return true, nil
		}
	}
	return false, nil
}

func (s *CatalogService) DeleteProduct(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for storeID := range s.products {
		for i := range s.products[storeID] {
			if s.products[storeID][i].ID != id {
				continue
			}
			s.products[storeID] = append(s.products[storeID][:i], s.products[storeID][i+1:]...)
			s.persist()
			return true
		}
	}
	return false
}

func (s *CatalogService) ProductsByStore(storeID string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product(nil), s.products[storeID]...)
}

func (s *CatalogService) ProductsBySection(sectionID string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Product
	for _, list := range s.products {
		for _, p := range list {
			if p.SectionID == sectionID {
				out = append(out, p)
			}
		}
	}
	return out
}

func (s *CatalogService) ProductByID(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range s.products {
		for _, p := range list {
			if p.ID == id {
				return p, true
			}
		}
	}
	return models.Product{}, false
}

// UserCanManageStore grants access to admins, staff holding manage_stores,
// and the store's owner.
func (s *CatalogService) UserCanManageStore(user *models.User, storeID string) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	if user.Role == models.RoleStaff && user.HasPermission(models.PermManageStores) {
		return true
	}
	store, ok := s.StoreByID(storeID)
	return ok && store.OwnerID == user.ID
}
