package service

import (
	"context"
	"sync"
	"time"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memStore is an in-memory catalog and ledger with all-or-nothing
// transactions. WithinTx holds one mutex for its whole duration, which
// plays the part of the row lock.
type memStore struct {
	mu           sync.Mutex
	products     map[uuid.UUID]model.Product
	transactions map[uuid.UUID]model.Transaction
	items        []model.TransactionItem
	codes        map[string]bool

	// test hooks
	collisions     int   // ExistsByCode answers true this many times first
	createItemsErr error // returned by CreateItems
	codeChecks     []string
}

func newMemStore(products ...model.Product) *memStore {
	m := &memStore{
		products:     make(map[uuid.UUID]model.Product),
		transactions: make(map[uuid.UUID]model.Transaction),
		codes:        make(map[string]bool),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

type memSnapshot struct {
	products     map[uuid.UUID]model.Product
	transactions map[uuid.UUID]model.Transaction
	items        []model.TransactionItem
	codes        map[string]bool
}

func (m *memStore) snapshot() memSnapshot {
	s := memSnapshot{
		products:     make(map[uuid.UUID]model.Product, len(m.products)),
		transactions: make(map[uuid.UUID]model.Transaction, len(m.transactions)),
		items:        append([]model.TransactionItem(nil), m.items...),
		codes:        make(map[string]bool, len(m.codes)),
	}
	for k, v := range m.products {
		s.products[k] = v
	}
	for k, v := range m.transactions {
		s.transactions[k] = v
	}
	for k, v := range m.codes {
		s.codes[k] = v
	}
	return s
}

func (m *memStore) restore(s memSnapshot) {
	m.products = s.products
	m.transactions = s.transactions
	m.items = s.items
	m.codes = s.codes
}

func (m *memStore) WithinTx(ctx context.Context, fn func(stock repository.StockStore, ledger repository.LedgerWriter) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snap := m.snapshot()
	tx := &memTx{m: m}
	if err := fn(tx, tx); err != nil {
		m.restore(snap)
		return err
	}
	// commit fails if the request went away meanwhile
	if err := ctx.Err(); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memStore) stock(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].CurrentStock
}

func (m *memStore) counts() (transactions, items int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transactions), len(m.items)
}

type memTx struct {
	m *memStore
}

func (t *memTx) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := t.m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (t *memTx) DecrementStock(_ context.Context, id uuid.UUID, qty int) error {
	p, ok := t.m.products[id]
	if !ok || p.CurrentStock < qty {
		return repository.ErrStockNotEnough
	}
	p.CurrentStock -= qty
	t.m.products[id] = p
	return nil
}

func (t *memTx) ExistsByCode(_ context.Context, code string) (bool, error) {
	t.m.codeChecks = append(t.m.codeChecks, code)
	if t.m.collisions > 0 {
		t.m.collisions--
		return true, nil
	}
	return t.m.codes[code], nil
}

func (t *memTx) Create(_ context.Context, trx *model.Transaction) error {
	if t.m.codes[trx.TransactionCode] {
		return gorm.ErrDuplicatedKey
	}
	if trx.ID == uuid.Nil {
		trx.ID = uuid.New()
	}
	trx.CreatedAt = time.Now()
	t.m.transactions[trx.ID] = *trx
	t.m.codes[trx.TransactionCode] = true
	return nil
}

func (t *memTx) CreateItems(_ context.Context, items []model.TransactionItem) error {
	if t.m.createItemsErr != nil {
		return t.m.createItemsErr
	}
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		t.m.items = append(t.m.items, it)
	}
	return nil
}

// recordingNotifier keeps published events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	data   []interface{}
}

func (r *recordingNotifier) Publish(eventType string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
	r.data = append(r.data, data)
}

func (r *recordingNotifier) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}
