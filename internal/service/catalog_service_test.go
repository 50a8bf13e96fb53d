package service

import (
	"context"
	"testing"

	"go-pos-inventory/internal/apperrors"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type catalogFixture struct {
	products   *MockProductRepo
	categories *MockCategoryRepo
	notifier   *recordingNotifier
	cache      *memCache
	svc        CatalogService
	actor      Actor
	category   *model.Category
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		products:   new(MockProductRepo),
		categories: new(MockCategoryRepo),
		notifier:   &recordingNotifier{},
		cache:      newMemCache(),
		actor:      Actor{ID: uuid.New(), Name: "Admin", Email: "admin@example.com"},
		category:   &model.Category{Name: "Food & Beverages"},
	}
	f.category.ID = uuid.New()
	f.svc = NewCatalogService(f.products, f.categories, f.notifier, f.cache, zerolog.Nop())
	return f
}

func validProductInput(categoryID uuid.UUID) ProductInput {
	return ProductInput{
		Name:         "Kopi Bubuk 200g",
		SKU:          "KOPI-200",
		CategoryID:   categoryID,
		BuyPrice:     dec("18000"),
		SellPrice:    dec("25000"),
		CurrentStock: 40,
		MinimumStock: 5,
	}
}

func TestCreateProduct_Success(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	in := validProductInput(f.category.ID)

	f.categories.On("FindByID", ctx, f.category.ID).Return(f.category, nil)
	f.products.On("ExistsBySKU", ctx, "KOPI-200", (*uuid.UUID)(nil)).Return(false, nil)
	f.products.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool {
		return p.SKU == "KOPI-200" && p.UnitOfMeasure == model.DefaultUnitOfMeasure &&
			p.IsActive && p.FixedPrice == nil && p.CreatedBy == f.actor.String()
	})).Return(nil)
	stored := &model.Product{Name: in.Name, SKU: in.SKU, CategoryID: in.CategoryID, UnitOfMeasure: "pcs", IsActive: true}
	stored.ID = uuid.New()
	f.products.On("FindByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(stored, nil)

	created, err := f.svc.CreateProduct(ctx, f.actor, in)
	require.NoError(t, err)
	assert.Equal(t, "KOPI-200", created.SKU)
	assert.NotEqual(t, uuid.Nil, created.ID)

	assert.Equal(t, []string{ws.EventProductCreated}, f.notifier.types())
	assert.Equal(t, int64(1), f.cache.version())
	f.products.AssertExpectations(t)
	f.categories.AssertExpectations(t)
}

func TestCreateProduct_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("negative sell price", func(t *testing.T) {
		f := newCatalogFixture()
		in := validProductInput(f.category.ID)
		in.SellPrice = dec("-1")

		_, err := f.svc.CreateProduct(ctx, f.actor, in)
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "sell_price", verr.Field)
		f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("negative stock", func(t *testing.T) {
		f := newCatalogFixture()
		in := validProductInput(f.category.ID)
		in.CurrentStock = -3

		_, err := f.svc.CreateProduct(ctx, f.actor, in)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("blank name", func(t *testing.T) {
		f := newCatalogFixture()
		in := validProductInput(f.category.ID)
		in.Name = "   "

		_, err := f.svc.CreateProduct(ctx, f.actor, in)
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newCatalogFixture()
		in := validProductInput(uuid.New())
		f.categories.On("FindByID", ctx, in.CategoryID).Return(nil, gorm.ErrRecordNotFound)

		_, err := f.svc.CreateProduct(ctx, f.actor, in)
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category_id", verr.Field)
	})

	t.Run("duplicate sku", func(t *testing.T) {
		f := newCatalogFixture()
		in := validProductInput(f.category.ID)
		f.categories.On("FindByID", ctx, f.category.ID).Return(f.category, nil)
		f.products.On("ExistsBySKU", ctx, "KOPI-200", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := f.svc.CreateProduct(ctx, f.actor, in)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.notifier.types())
	})
}

func TestUpdateProduct_ExcludesSelfFromSKUCheckAndPublishesStock(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	existing := &model.Product{Name: "Kopi", SKU: "KOPI-200", CategoryID: f.category.ID, CurrentStock: 10, MinimumStock: 5, UnitOfMeasure: "pcs", IsActive: true}
	existing.ID = uuid.New()
	id := existing.ID

	in := validProductInput(f.category.ID)
	in.UnitOfMeasure = "pack"
	in.CurrentStock = 4
	inactive := false
	in.IsActive = &inactive
	in.FixedPrice = decPtr("24000")

	reloaded := *existing
	reloaded.CurrentStock = 4
	reloaded.UnitOfMeasure = "pack"

	f.products.On("FindByID", ctx, id).Return(existing, nil).Once()
	f.categories.On("FindByID", ctx, f.category.ID).Return(f.category, nil)
	f.products.On("ExistsBySKU", ctx, "KOPI-200", mock.MatchedBy(func(ex *uuid.UUID) bool {
		return ex != nil && *ex == id
	})).Return(false, nil)
	f.products.On("Update", ctx, mock.MatchedBy(func(p *model.Product) bool {
		return p.CurrentStock == 4 && !p.IsActive && p.FixedPrice != nil &&
			p.FixedPrice.Equal(dec("24000")) && p.UpdatedBy == f.actor.String()
	})).Return(nil)
	f.products.On("FindByID", ctx, id).Return(&reloaded, nil).Once()

	updated, err := f.svc.UpdateProduct(ctx, f.actor, id, in)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.CurrentStock)
	assert.Equal(t, []string{ws.EventProductUpdated, ws.EventStockUpdate}, f.notifier.types())
	f.products.AssertExpectations(t)
}

func TestUpdateProduct_RequiresUnit(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	existing := &model.Product{Name: "Kopi", SKU: "KOPI-200"}
	existing.ID = uuid.New()
	f.products.On("FindByID", ctx, existing.ID).Return(existing, nil)

	in := validProductInput(f.category.ID)
	in.UnitOfMeasure = ""

	_, err := f.svc.UpdateProduct(ctx, f.actor, existing.ID, in)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unit_of_measure", verr.Field)
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("referenced by a sale", func(t *testing.T) {
		f := newCatalogFixture()
		p := &model.Product{Name: "Teh Botol", SKU: "TEH-1"}
		p.ID = uuid.New()
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.products.On("IsReferenced", ctx, p.ID).Return(true, nil)

		err := f.svc.DeleteProduct(ctx, f.actor, p.ID)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Contains(t, err.Error(), "Teh Botol")
		f.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unused product", func(t *testing.T) {
		f := newCatalogFixture()
		p := &model.Product{Name: "Teh Botol", SKU: "TEH-1"}
		p.ID = uuid.New()
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.products.On("IsReferenced", ctx, p.ID).Return(false, nil)
		f.products.On("Delete", ctx, p.ID).Return(nil)

		require.NoError(t, f.svc.DeleteProduct(ctx, f.actor, p.ID))
		assert.Equal(t, []string{ws.EventProductDeleted}, f.notifier.types())
		f.products.AssertExpectations(t)
	})

	t.Run("missing product", func(t *testing.T) {
		f := newCatalogFixture()
		id := uuid.New()
		f.products.On("FindByID", ctx, id).Return(nil, gorm.ErrRecordNotFound)

		err := f.svc.DeleteProduct(ctx, f.actor, id)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestListPOSProducts_ForcesActiveOnly(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	catID := uuid.New()

	f.products.On("List", ctx, repository.ProductFilter{Search: "kopi", CategoryID: &catID, ActiveOnly: true, Page: 2, PerPage: 10}).
		Return([]model.Product{{Name: "Kopi"}}, int64(11), nil)

	products, total, err := f.svc.ListPOSProducts(ctx, repository.ProductFilter{Search: "kopi", CategoryID: &catID, LowStock: true, Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int64(11), total)
	f.products.AssertExpectations(t)
}
