package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultUnitOfMeasure = "pcs"

type Product struct {
	BaseModel
	Name          string           `gorm:"type:varchar(255);not null" json:"name"`
	SKU           string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	CategoryID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Category      *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BuyPrice      decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"buy_price"`
	SellPrice     decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"sell_price"`
	FixedPrice    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"fixed_price"` // "harga pas", overrides sell price when set
	CurrentStock  int              `gorm:"not null;default:0;check:current_stock >= 0" json:"current_stock"`
	MinimumStock  int              `gorm:"not null;default:0" json:"minimum_stock"`
	UnitOfMeasure string           `gorm:"type:varchar(50);not null;default:'pcs'" json:"unit_of_measure"`
	Description   string           `gorm:"type:text" json:"description"`
	ImagePath     string           `gorm:"type:varchar(255)" json:"image_path"`
	IsActive      bool             `gorm:"not null;default:true" json:"is_active"`
}

// EffectivePrice is the price a sale line is charged at.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.FixedPrice != nil {
		return *p.FixedPrice
	}
	return p.SellPrice
}

// UsesFixedPrice reports whether EffectivePrice comes from FixedPrice.
func (p *Product) UsesFixedPrice() bool {
	return p.FixedPrice != nil
}

// IsLowStock is inclusive: stock equal to the minimum already counts as low.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinimumStock
}

// ProductResponse adds the derived fields clients render.
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	SKU            string           `json:"sku"`
	CategoryID     uuid.UUID        `json:"category_id"`
	Category       *Category        `json:"category,omitempty"`
	BuyPrice       decimal.Decimal  `json:"buy_price"`
	SellPrice      decimal.Decimal  `json:"sell_price"`
	FixedPrice     *decimal.Decimal `json:"fixed_price"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	CurrentStock   int              `json:"current_stock"`
	MinimumStock   int              `json:"minimum_stock"`
	IsLowStock     bool             `json:"is_low_stock"`
	UnitOfMeasure  string           `json:"unit_of_measure"`
	Description    string           `json:"description"`
	ImagePath      string           `json:"image_path"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ToResponse converts Product to ProductResponse
func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		SKU:            p.SKU,
		CategoryID:     p.CategoryID,
		Category:       p.Category,
		BuyPrice:       p.BuyPrice,
		SellPrice:      p.SellPrice,
		FixedPrice:     p.FixedPrice,
		EffectivePrice: p.EffectivePrice(),
		CurrentStock:   p.CurrentStock,
		MinimumStock:   p.MinimumStock,
		IsLowStock:     p.IsLowStock(),
		UnitOfMeasure:  p.UnitOfMeasure,
		Description:    p.Description,
		ImagePath:      p.ImagePath,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func ToProductResponses(products []Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = products[i].ToResponse()
	}
	return out
}
