package service

import (
	"context"
	"time"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Mock ProductRepository ---
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}
func (m *MockProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}
func (m *MockProductRepo) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return args.Error(0)
}
func (m *MockProductRepo) Update(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}
func (m *MockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}
func (m *MockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Get(1).(int64), args.Error(2)
}
func (m *MockProductRepo) ExistsBySKU(ctx context.Context, sku string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, sku, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockProductRepo) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- Mock CategoryRepository ---
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return args.Error(0)
}
func (m *MockCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	return m.Called(ctx, category).Error(0)
}
func (m *MockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}
func (m *MockCategoryRepo) FindAllWithCounts(ctx context.Context) ([]model.CategoryWithCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryWithCount), args.Error(1)
}
func (m *MockCategoryRepo) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockCategoryRepo) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockCategoryRepo) SeedDefaults(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- Mock ReportRepository ---
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) SalesSummary(ctx context.Context, from, to time.Time) (*repository.SalesSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SalesSummary), args.Error(1)
}
func (m *MockReportRepo) LowStockProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}
func (m *MockReportRepo) BestSellers(ctx context.Context, limit int) ([]repository.BestSeller, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.BestSeller), args.Error(1)
}
func (m *MockReportRepo) RecentTransactions(ctx context.Context, limit int) ([]model.TransactionSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TransactionSummary), args.Error(1)
}
func (m *MockReportRepo) CompletedSalesBetween(ctx context.Context, from, to time.Time) ([]repository.SalePoint, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.SalePoint), args.Error(1)
}

// --- Mock TransactionRepository ---
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}
func (m *MockTransactionRepo) Create(ctx context.Context, trx *model.Transaction) error {
	return m.Called(ctx, trx).Error(0)
}
func (m *MockTransactionRepo) CreateItems(ctx context.Context, items []model.TransactionItem) error {
	return m.Called(ctx, items).Error(0)
}
func (m *MockTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]model.TransactionSummary, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.TransactionSummary), args.Get(1).(int64), args.Error(2)
}

// --- Mock UserRepository ---
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *MockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *MockUserRepo) FindAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}
func (m *MockUserRepo) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}
func (m *MockUserRepo) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) HasTransactions(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	return m.Called(ctx, userID, hashedPassword).Error(0)
}
func (m *MockUserRepo) UpdatePrivileges(ctx context.Context, userID uuid.UUID, privileges []model.Privilege) error {
	return m.Called(ctx, userID, privileges).Error(0)
}
func (m *MockUserRepo) UpdateTokenVersion(ctx context.Context, userID uuid.UUID, version string) error {
	return m.Called(ctx, userID, version).Error(0)
}
func (m *MockUserRepo) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// --- Mock PrivilegeRepository ---
type MockPrivilegeRepo struct {
	mock.Mock
}

func (m *MockPrivilegeRepo) FindByCodes(ctx context.Context, codes []string) ([]model.Privilege, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Privilege), args.Error(1)
}
func (m *MockPrivilegeRepo) FindAll(ctx context.Context) ([]model.Privilege, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Privilege), args.Error(1)
}
func (m *MockPrivilegeRepo) SeedDefaults(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
