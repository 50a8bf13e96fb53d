package repository

import (
	"context"
	"time"

	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionFilter narrows the history list. DateTo is exclusive.
type TransactionFilter struct {
	Search   string // transaction code substring
	Status   model.TransactionStatus
	DateFrom *time.Time
	DateTo   *time.Time
	UserID   *uuid.UUID
	Page     int
	PerPage  int
}

type TransactionRepository interface {
	LedgerWriter

	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]model.TransactionSummary, int64, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("transaction_code = ?", code).Count(&count).Error
	return count > 0, err
}

// Create inserts the header only; items go through CreateItems.
func (r *transactionRepo) Create(ctx context.Context, trx *model.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(trx).Error
}

func (r *transactionRepo) CreateItems(ctx context.Context, items []model.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var trx model.Transaction
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("TransactionItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		First(&trx, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

func (r *transactionRepo) List(ctx context.Context, filter TransactionFilter) ([]model.TransactionSummary, int64, error) {
	q := r.db.WithContext(ctx).Table("transactions AS t")
	if filter.Search != "" {
		q = q.Where("t.transaction_code ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		q = q.Where("t.status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		q = q.Where("t.created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("t.created_at < ?", *filter.DateTo)
	}
	if filter.UserID != nil {
		q = q.Where("t.user_id = ?", *filter.UserID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.TransactionSummary
	err := q.Select(summaryColumns).
		Joins("LEFT JOIN users u ON u.id = t.user_id").
		Order("t.created_at DESC").
		Scopes(paginate(filter.Page, filter.PerPage)).
		Scan(&rows).Error
	return rows, total, err
}

const summaryColumns = `t.id, t.transaction_code, COALESCE(u.full_name, '') AS user_name,
	t.total_amount, t.total_profit, t.status, t.created_at,
	(SELECT COUNT(*) FROM transaction_items ti WHERE ti.transaction_id = t.id) AS items_count`
