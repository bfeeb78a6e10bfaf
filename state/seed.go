package state

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"souq-delivery-api/models"
)

// Built-in sample data, used whenever the KV store holds nothing for a
// collection (first run, or after a corrupted payload was dropped).

// Demo credential pairs. There is no self-registration; these are the only
// accounts the system knows.
var demoCredentials = []struct {
	user     models.User
	password string
}{
	{
		user: models.User{
			ID: "admin-1", Name: "مدير النظام", Role: models.RoleAdmin,
			Email:       "admin@example.com",
			Permissions: models.RoleCapabilities[models.RoleAdmin],
		},
		password: "admin123",
	},
	{
		user: models.User{
			ID: "staff-1", Name: "مساعد مدير", Role: models.RoleStaff,
			Email:       "staff@example.com",
			Permissions: []models.Permission{models.PermManageOrders, models.PermViewReports},
		},
		password: "staff123",
	},
	{
		user: models.User{
			ID: "vendor-1", Name: "صاحب متجر", Role: models.RoleVendor,
			Email: "vendor@example.com", Phone: "0987654321",
		},
		password: "vendor123",
	},
	{
		user: models.User{
			ID: "driver-1", Name: "سائق توصيل", Role: models.RoleDriver,
			Email: "driver@example.com", Phone: "0933221100",
		},
		password: "driver123",
	},
	{
		user: models.User{
			ID: "customer-1", Name: "زبون", Role: models.RoleCustomer,
			Email: "customer@example.com", Phone: "0123456789",
		},
		password: "customer123",
	},
}

func seedAccounts(now time.Time) []storedUser {
	users := make([]storedUser, 0, len(demoCredentials))
	for _, cred := range demoCredentials {
		hash, err := bcrypt.GenerateFromPassword([]byte(cred.password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("hashing seed password failed", "user", cred.user.ID, "error", err)
			continue
		}
		u := cred.user
		u.CreatedAt = now
		users = append(users, storedUser{User: u, PasswordHash: string(hash)})
	}
	return users
}

const placeholderImage = "/uploads/placeholder.png"

func seedCatalog() ([]models.Store, map[string][]models.StoreSection, map[string][]models.Product) {
	stores := []models.Store{
		{
			ID: "store-1", Name: "سوبر ماركت الشام",
			Description: "أفضل المنتجات الغذائية والاستهلاكية",
			Logo:        placeholderImage, OwnerID: "vendor-1",
			Address: "شارع الرئيسي، حلب", Category: models.CategoryGrocery, Rating: 4.7,
		},
		{
			ID: "store-2", Name: "مطعم الشرق",
			Description: "مأكولات شرقية أصيلة",
			Logo:        placeholderImage, OwnerID: "vendor-2",
			Address: "شارع المنصور، دمشق", Category: models.CategoryRestaurant, Rating: 4.5,
		},
		{
			ID: "store-3", Name: "حلويات السعادة",
			Description: "أشهى الحلويات العربية",
			Logo:        placeholderImage, OwnerID: "vendor-3",
			Address: "شارع الجلاء، حمص", Category: models.CategorySweets, Rating: 4.8,
		},
	}

	sections := map[string][]models.StoreSection{
		"store-1": {
			{ID: "section-1", StoreID: "store-1", Name: "خضار وفواكه", Description: "خضار وفواكه طازجة", Image: placeholderImage, Order: 1},
			{ID: "section-2", StoreID: "store-1", Name: "مواد غذائية", Description: "مواد غذائية متنوعة", Image: placeholderImage, Order: 2},
		},
		"store-2": {
			{ID: "section-3", StoreID: "store-2", Name: "مشاوي", Description: "مشاوي شرقية", Image: placeholderImage, Order: 1},
			{ID: "section-4", StoreID: "store-2", Name: "مقبلات", Description: "مقبلات متنوعة", Image: placeholderImage, Order: 2},
		},
	}

	products := map[string][]models.Product{
		"store-1": {
			{ID: "product-1", StoreID: "store-1", SectionID: "section-1", Name: "تفاح أحمر", Description: "تفاح أحمر طازج", Price: 5000, CurrencyType: models.CurrencySYP, Images: []string{placeholderImage}, Available: true},
			{ID: "product-2", StoreID: "store-1", SectionID: "section-1", Name: "موز", Description: "موز طازج", Price: 7000, CurrencyType: models.CurrencySYP, Images: []string{placeholderImage}, Available: true},
			{ID: "product-3", StoreID: "store-1", SectionID: "section-2", Name: "أرز", Description: "أرز ممتاز", Price: 15000, CurrencyType: models.CurrencySYP, Images: []string{placeholderImage}, Available: true},
		},
		"store-2": {
			{ID: "product-4", StoreID: "store-2", SectionID: "section-3", Name: "شيش طاووق", Description: "شيش طاووق على الفحم", Price: 35000, CurrencyType: models.CurrencySYP, Images: []string{placeholderImage}, Available: true},
			{ID: "product-5", StoreID: "store-2", SectionID: "section-4", Name: "حمص", Description: "حمص بالطحينة", Price: 20000, CurrencyType: models.CurrencySYP, Images: []string{placeholderImage}, Available: true},
		},
	}

	return stores, sections, products
}

func seedOrders(now time.Time) []models.Order {
	return []models.Order{
		{
			ID: "order-1", CustomerID: "customer-1", StoreID: "store-2",
			StoreName: "مطعم الشرق", DriverID: "driver-1",
			Items: []models.OrderItem{
				{ProductID: "product-4", ProductName: "شيش طاووق", Quantity: 1, Price: 35000, CurrencyType: models.CurrencySYP},
				{ProductID: "product-5", ProductName: "حمص", Quantity: 1, Price: 20000, CurrencyType: models.CurrencySYP},
			},
			Status: models.StatusConfirmed, Total: 55000,
			Address:   "شارع المنصور، دمشق",
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "order-2", CustomerID: "customer-1", StoreID: "store-1",
			StoreName: "سوبر ماركت الشام",
			Items: []models.OrderItem{
				{ProductID: "product-1", ProductName: "تفاح أحمر", Quantity: 2, Price: 5000, CurrencyType: models.CurrencySYP},
				{ProductID: "product-3", ProductName: "أرز", Quantity: 1, Price: 15000, CurrencyType: models.CurrencySYP},
			},
			Status: models.StatusPending, Total: 25000,
			Address:   "شارع التحلية، حلب",
			CreatedAt: now, UpdatedAt: now,
		},
	}
}
