package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
	StatusPending   TransactionStatus = "pending"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusPending:
		return true
	}
	return false
}

// Transaction is a recorded sale. Only Status may change after creation.
type Transaction struct {
	BaseModel
	TransactionCode string                           `gorm:"type:varchar(32);uniqueIndex;not null" json:"transaction_code"`
	UserID          uuid.UUID                        `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User                            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TotalAmount     decimal.Decimal                  `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	TotalProfit     decimal.Decimal                  `gorm:"type:decimal(12,2);not null;default:0" json:"total_profit"`
	Items           datatypes.JSONSlice[ItemSnapshot] `gorm:"type:jsonb" json:"items"`
	Status          TransactionStatus                `gorm:"type:varchar(20);not null;default:'completed';index" json:"status"`

	TransactionItems []TransactionItem `gorm:"constraint:OnDelete:CASCADE;" json:"transaction_items,omitempty"`
}

// ItemSnapshot is one line of the denormalized items column.
type ItemSnapshot struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductSKU     string          `json:"product_sku"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	UnitProfit     decimal.Decimal `json:"unit_profit"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	UsedFixedPrice bool            `json:"used_fixed_price"`
}

// TransactionItem freezes the product's name, SKU and pricing at sale time.
type TransactionItem struct {
	BaseModel
	TransactionID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	LineNo         int             `gorm:"not null;default:0" json:"line_no"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product        *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT;" json:"product,omitempty"`
	ProductName    string          `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductSKU     string          `gorm:"type:varchar(100);not null" json:"product_sku"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	UnitProfit     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_profit"`
	TotalProfit    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_profit"`
	UsedFixedPrice bool            `gorm:"not null;default:false" json:"used_fixed_price"`
}

func (i TransactionItem) Snapshot() ItemSnapshot {
	return ItemSnapshot{
		ProductID:      i.ProductID,
		ProductName:    i.ProductName,
		ProductSKU:     i.ProductSKU,
		Quantity:       i.Quantity,
		UnitPrice:      i.UnitPrice,
		TotalPrice:     i.TotalPrice,
		UnitProfit:     i.UnitProfit,
		TotalProfit:    i.TotalProfit,
		UsedFixedPrice: i.UsedFixedPrice,
	}
}

// TransactionSummary is the list/recent-sales projection.
type TransactionSummary struct {
	ID              uuid.UUID         `json:"id"`
	TransactionCode string            `json:"transaction_code"`
	UserName        string            `json:"user_name"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	TotalProfit     decimal.Decimal   `json:"total_profit"`
	Status          TransactionStatus `json:"status"`
	ItemsCount      int64             `json:"items_count"`
	CreatedAt       time.Time         `json:"created_at"`
}
