package repository

import (
	"context"
	"errors"

	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStockNotEnough is returned by DecrementStock when the guarded update
// matched no row, i.e. stock dropped below the requested quantity.
var ErrStockNotEnough = errors.New("stock not enough")

// StockStore is the product side of a sale, bound to one database transaction.
type StockStore interface {
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
}

// LedgerWriter is the transaction side of a sale, bound to the same transaction.
type LedgerWriter interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, trx *model.Transaction) error
	CreateItems(ctx context.Context, items []model.TransactionItem) error
}

// TxRunner runs fn inside one database transaction, handing it repositories
// bound to that transaction. Any error returned by fn rolls everything back.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(stock StockStore, ledger LedgerWriter) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) WithinTx(ctx context.Context, fn func(stock StockStore, ledger LedgerWriter) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&productRepo{db: tx}, &transactionRepo{db: tx})
	})
}
