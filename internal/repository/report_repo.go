package repository

import (
	"context"
	"time"

	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesSummary aggregates completed transactions in a time range
type SalesSummary struct {
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	Count       int64           `json:"transactions_count"`
}

// BestSeller is one row of the top-products ranking
type BestSeller struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	TotalSold   int64           `json:"total_sold"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// SalePoint is a completed sale reduced to what the daily chart needs
type SalePoint struct {
	CreatedAt   time.Time
	TotalAmount decimal.Decimal
}

type ReportRepository interface {
	SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error)
	LowStockProducts(ctx context.Context) ([]model.Product, error)
	BestSellers(ctx context.Context, limit int) ([]BestSeller, error)
	RecentTransactions(ctx context.Context, limit int) ([]model.TransactionSummary, error)
	CompletedSalesBetween(ctx context.Context, from, to time.Time) ([]SalePoint, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

// SalesSummary covers [from, to).
func (r *reportRepo) SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	var s SalesSummary
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COALESCE(SUM(total_amount), 0) AS total_sales, COALESCE(SUM(total_profit), 0) AS total_profit, COUNT(*) AS count").
		Where("status = ? AND created_at >= ? AND created_at < ?", model.StatusCompleted, from, to).
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *reportRepo) LowStockProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Category").
		Where("is_active = ?", true).
		Where(lowStockCondition).
		Order("current_stock ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *reportRepo) BestSellers(ctx context.Context, limit int) ([]BestSeller, error) {
	var rows []BestSeller
	err := r.db.WithContext(ctx).Table("transaction_items AS ti").
		Select("p.id AS product_id, p.name, p.sku, SUM(ti.quantity) AS total_sold, COALESCE(SUM(ti.total_profit), 0) AS total_profit").
		Joins("JOIN products p ON p.id = ti.product_id").
		Joins("JOIN transactions t ON t.id = ti.transaction_id").
		Where("t.status = ?", model.StatusCompleted).
		Group("p.id, p.name, p.sku").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) RecentTransactions(ctx context.Context, limit int) ([]model.TransactionSummary, error) {
	var rows []model.TransactionSummary
	err := r.db.WithContext(ctx).Table("transactions AS t").
		Select(summaryColumns).
		Joins("LEFT JOIN users u ON u.id = t.user_id").
		Where("t.status = ?", model.StatusCompleted).
		Order("t.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) CompletedSalesBetween(ctx context.Context, from, to time.Time) ([]SalePoint, error) {
	var rows []SalePoint
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("created_at, total_amount").
		Where("status = ? AND created_at >= ? AND created_at < ?", model.StatusCompleted, from, to).
		Order("created_at ASC").
		Scan(&rows).Error
	return rows, err
}
