package models

// StoreCategory classifies a store for browsing
type StoreCategory string

const (
	CategoryGrocery    StoreCategory = "grocery"
	CategoryRestaurant StoreCategory = "restaurant"
	CategorySweets     StoreCategory = "sweets"
	CategoryOther      StoreCategory = "other"
)

// CurrencyType is one of the two supported pricing currencies
type CurrencyType string

const (
	CurrencySYP CurrencyType = "SYP"
	CurrencyUSD CurrencyType = "USD"
)

type Store struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Logo        string        `json:"logo"`
	CoverImage  string        `json:"cover_image,omitempty"`
	OwnerID     string        `json:"owner_id"`
	Address     string        `json:"address"`
	Category    StoreCategory `json:"category"`
	Rating      float64       `json:"rating,omitempty"`
}

// StoreSection is a named group of products within a store.
// Deleting a store deletes its sections.
type StoreSection struct {
	ID          string `json:"id"`
	StoreID     string `json:"store_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Order       int    `json:"order"`
}

// Product belongs to a section of a store. Its SectionID must reference an
// existing section of the same store. Deleting a section deletes its products.
type Product struct {
	ID           string       `json:"id"`
	StoreID      string       `json:"store_id"`
	SectionID    string       `json:"section_id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"`
	CurrencyType CurrencyType `json:"currency_type"`
	Images       []string     `json:"images"`
	Available    bool         `json:"available"`
}
