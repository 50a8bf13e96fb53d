package model

// Category groups products for browsing and filtering.
type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Products []Product `gorm:"constraint:OnDelete:RESTRICT;" json:"products,omitempty"`
}

// CategoryWithCount is a category row plus how many products reference it.
type CategoryWithCount struct {
	Category
	ProductsCount int64 `json:"products_count"`
}

// DefaultCategories are seeded on first start.
var DefaultCategories = []Category{
	{Name: "Electronics", Description: "Electronic devices and accessories"},
	{Name: "Clothing", Description: "Apparel and fashion items"},
	{Name: "Food & Beverages", Description: "Food items and drinks"},
	{Name: "Home & Garden", Description: "Home improvement and garden supplies"},
	{Name: "Beauty & Health", Description: "Beauty products and health items"},
}
