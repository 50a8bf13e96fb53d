package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go-pos-inventory/internal/apperrors"
	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// maxCodeAttempts bounds transaction code regeneration on collision.
const maxCodeAttempts = 10

type SaleLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"min=1"`
}

type SaleRequest struct {
	Items []SaleLine `json:"items" validate:"required,min=1,dive"`
}

type SaleService interface {
	// ProcessSale records a completed sale and deducts stock for every line,
	// all or nothing. The returned transaction carries its items.
	ProcessSale(ctx context.Context, cashier Actor, req SaleRequest) (*model.Transaction, error)
}

type saleService struct {
	runner   repository.TxRunner
	notifier Notifier
	cache    cache.Cache
	log      zerolog.Logger
	loc      *time.Location
	now      func() time.Time
	randN    func(n int) int // uniform in [0, n)
}

func NewSaleService(runner repository.TxRunner, notifier Notifier, c cache.Cache, loc *time.Location, log zerolog.Logger) SaleService {
	return &saleService{
		runner:   runner,
		notifier: notifier,
		cache:    c,
		log:      log.With().Str("service", "sale").Logger(),
		loc:      loc,
		now:      time.Now,
		randN:    rand.Intn,
	}
}

type stockChange struct {
	product   model.Product
	remaining int
}

func (s *saleService) ProcessSale(ctx context.Context, cashier Actor, req SaleRequest) (*model.Transaction, error) {
	if cashier.ID == uuid.Nil {
		return nil, apperrors.Validation("user_id", "an authenticated user is required")
	}
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("items", "at least one item is required")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var (
		trx     *model.Transaction
		changes []stockChange
	)

	err := s.runner.WithinTx(ctx, func(stock repository.StockStore, ledger repository.LedgerWriter) error {
		trx, changes = nil, nil

		totalAmount := decimal.Zero
		totalProfit := decimal.Zero
		items := make([]model.TransactionItem, 0, len(req.Items))

		for _, line := range req.Items {
			product, err := stock.FindByIDForUpdate(ctx, line.ProductID)
			if isNotFound(err) {
				return apperrors.NotFound("product", line.ProductID)
			}
			if err != nil {
				return storageErr("load product", err)
			}

			if product.CurrentStock < line.Quantity {
				return &apperrors.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.CurrentStock,
					Requested:   line.Quantity,
				}
			}

			qty := decimal.NewFromInt(int64(line.Quantity))
			unitPrice := product.EffectivePrice().Round(2)
			unitProfit := unitPrice.Sub(product.BuyPrice).Round(2)
			lineTotal := unitPrice.Mul(qty).Round(2)
			lineProfit := unitProfit.Mul(qty).Round(2)

			totalAmount = totalAmount.Add(lineTotal)
			totalProfit = totalProfit.Add(lineProfit)

			items = append(items, model.TransactionItem{
				LineNo:         len(items) + 1,
				ProductID:      product.ID,
				ProductName:    product.Name,
				ProductSKU:     product.SKU,
				Quantity:       line.Quantity,
				UnitPrice:      unitPrice,
				TotalPrice:     lineTotal,
				UnitProfit:     unitProfit,
				TotalProfit:    lineProfit,
				UsedFixedPrice: product.UsesFixedPrice(),
			})

			if err := stock.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				if errors.Is(err, repository.ErrStockNotEnough) {
					return &apperrors.InsufficientStockError{
						ProductID:   product.ID,
						ProductName: product.Name,
						Available:   product.CurrentStock,
						Requested:   line.Quantity,
					}
				}
				return storageErr("decrement stock", err)
			}
			changes = append(changes, stockChange{product: *product, remaining: product.CurrentStock - line.Quantity})
		}

		code, err := s.generateCode(ctx, ledger)
		if err != nil {
			return err
		}

		snapshot := make([]model.ItemSnapshot, len(items))
		for i := range items {
			snapshot[i] = items[i].Snapshot()
		}

		t := &model.Transaction{
			TransactionCode: code,
			UserID:          cashier.ID,
			TotalAmount:     totalAmount,
			TotalProfit:     totalProfit,
			Items:           datatypes.NewJSONSlice(snapshot),
			Status:          model.StatusCompleted,
		}
		t.ID = uuid.New()
		t.CreatedBy = cashier.String()
		t.UpdatedBy = cashier.String()
		if err := ledger.Create(ctx, t); err != nil {
			return storageErr("create transaction", err)
		}

		for i := range items {
			items[i].TransactionID = t.ID
			items[i].CreatedBy = cashier.String()
			items[i].UpdatedBy = cashier.String()
		}
		if err := ledger.CreateItems(ctx, items); err != nil {
			return storageErr("create transaction items", err)
		}

		t.TransactionItems = items
		trx = t
		return nil
	})
	if err != nil {
		var stockErr *apperrors.InsufficientStockError
		if errors.As(err, &stockErr) {
			s.log.Info().
				Str("product_id", stockErr.ProductID.String()).
				Int("available", stockErr.Available).
				Int("requested", stockErr.Requested).
				Msg("sale rejected: insufficient stock")
		}
		return nil, asDomainErr("process sale", err)
	}

	s.log.Info().
		Str("transaction_code", trx.TransactionCode).
		Str("user_id", cashier.String()).
		Str("total_amount", trx.TotalAmount.StringFixed(2)).
		Int("lines", len(trx.TransactionItems)).
		Msg("sale completed")

	s.afterCommit(ctx, cashier, trx, changes)
	return trx, nil
}

// generateCode returns a TXN-YYYYMMDD-NNNN code not yet used by any transaction.
func (s *saleService) generateCode(ctx context.Context, ledger repository.LedgerWriter) (string, error) {
	day := s.now().In(s.loc).Format("20060102")
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := fmt.Sprintf("TXN-%s-%04d", day, s.randN(9999)+1)
		exists, err := ledger.ExistsByCode(ctx, code)
		if err != nil {
			return "", storageErr("check transaction code", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", apperrors.Conflict("could not allocate a unique transaction code after %d attempts", maxCodeAttempts)
}

func (s *saleService) afterCommit(ctx context.Context, cashier Actor, trx *model.Transaction, changes []stockChange) {
	latest := make(map[uuid.UUID]stockChange, len(changes))
	order := make([]uuid.UUID, 0, len(changes))
	for _, c := range changes {
		if _, seen := latest[c.product.ID]; !seen {
			order = append(order, c.product.ID)
		}
		latest[c.product.ID] = c
	}
	for _, id := range order {
		c := latest[id]
		s.notifier.Publish(ws.EventStockUpdate, map[string]interface{}{
			"product_id":    c.product.ID,
			"sku":           c.product.SKU,
			"name":          c.product.Name,
			"current_stock": c.remaining,
			"is_low_stock":  c.remaining <= c.product.MinimumStock,
		})
	}

	s.notifier.Publish(ws.EventSaleCompleted, map[string]interface{}{
		"transaction_id":   trx.ID,
		"transaction_code": trx.TransactionCode,
		"total_amount":     trx.TotalAmount,
		"items_count":      len(trx.TransactionItems),
		"user": map[string]interface{}{
			"id":   cashier.ID,
			"name": cashier.Name,
		},
		"message": fmt.Sprintf("%s completed sale %s", cashier.Name, trx.TransactionCode),
	})

	invalidateDashboard(ctx, s.cache, s.log)
}

// asDomainErr passes business errors through and wraps anything else
// (commit failures, driver errors) as a persistence failure.
func asDomainErr(op string, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrInsufficientStock),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrPersistence):
		return err
	}
	return storageErr(op, err)
}
