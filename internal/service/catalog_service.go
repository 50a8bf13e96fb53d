package service

import (
	"context"
	"fmt"
	"strings"

	"go-pos-inventory/internal/apperrors"
	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name          string           `json:"name" validate:"required,max=255"`
	SKU           string           `json:"sku" validate:"required,max=100"`
	CategoryID    uuid.UUID        `json:"category_id" validate:"uuid_required"`
	BuyPrice      decimal.Decimal  `json:"buy_price" validate:"gte=0"`
	SellPrice     decimal.Decimal  `json:"sell_price" validate:"gte=0"`
	FixedPrice    *decimal.Decimal `json:"fixed_price" validate:"omitempty,gte=0"`
	CurrentStock  int              `json:"current_stock" validate:"gte=0"`
	MinimumStock  int              `json:"minimum_stock" validate:"gte=0"`
	UnitOfMeasure string           `json:"unit_of_measure" validate:"required,max=50"`
	Description   string           `json:"description"`
	ImagePath     string           `json:"image_path" validate:"max=255"`
	IsActive      *bool            `json:"is_active"`
}

func (in *ProductInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.UnitOfMeasure = strings.TrimSpace(in.UnitOfMeasure)
}

type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error)
	ListPOSProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, actor Actor, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, actor Actor, id uuid.UUID, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, actor Actor, id uuid.UUID) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	notifier     Notifier
	cache        cache.Cache
	log          zerolog.Logger
}

func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, notifier Notifier, c cache.Cache, log zerolog.Logger) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		notifier:     notifier,
		cache:        c,
		log:          log.With().Str("service", "catalog").Logger(),
	}
}

func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, storageErr("list products", err)
	}
	return products, total, nil
}

// ListPOSProducts is the cashier's view: active products only.
func (s *catalogService) ListPOSProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	filter.ActiveOnly = true
	filter.LowStock = false
	return s.ListProducts(ctx, filter)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if isNotFound(err) {
		return nil, apperrors.NotFound("product", id)
	}
	if err != nil {
		return nil, storageErr("get product", err)
	}
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, actor Actor, in ProductInput) (*model.Product, error) {
	in.normalize()
	if in.UnitOfMeasure == "" {
		in.UnitOfMeasure = model.DefaultUnitOfMeasure
	}
	if err := s.checkInput(ctx, in, nil); err != nil {
		return nil, err
	}

	product := &model.Product{IsActive: true}
	applyProductInput(product, in)
	product.CreatedBy = actor.String()
	product.UpdatedBy = actor.String()

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, storageErr("create product", err)
	}

	created, err := s.GetProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("product_id", created.ID.String()).Str("sku", created.SKU).Str("user_id", actor.String()).Msg("product created")
	s.publishProduct(ws.EventProductCreated, actor, created, fmt.Sprintf("%s created product '%s'", actor.Name, created.Name))
	invalidateDashboard(ctx, s.cache, s.log)
	return created, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, actor Actor, id uuid.UUID, in ProductInput) (*model.Product, error) {
	in.normalize()

	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkInput(ctx, in, &id); err != nil {
		return nil, err
	}

	oldStock := existing.CurrentStock
	applyProductInput(existing, in)
	existing.Category = nil
	existing.UpdatedBy = actor.String()

	if err := s.productRepo.Update(ctx, existing); err != nil {
		return nil, storageErr("update product", err)
	}

	updated, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("product_id", id.String()).Str("user_id", actor.String()).Msg("product updated")
	s.publishProduct(ws.EventProductUpdated, actor, updated, fmt.Sprintf("%s updated product '%s'", actor.Name, updated.Name))
	if oldStock != updated.CurrentStock {
		s.notifier.Publish(ws.EventStockUpdate, map[string]interface{}{
			"product_id":    updated.ID,
			"sku":           updated.SKU,
			"name":          updated.Name,
			"old_stock":     oldStock,
			"current_stock": updated.CurrentStock,
			"is_low_stock":  updated.IsLowStock(),
		})
	}
	invalidateDashboard(ctx, s.cache, s.log)
	return updated, nil
}

// DeleteProduct refuses products that appear on any sale so receipts and
// best-seller figures stay intact.
func (s *catalogService) DeleteProduct(ctx context.Context, actor Actor, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	referenced, err := s.productRepo.IsReferenced(ctx, id)
	if err != nil {
		return storageErr("check product references", err)
	}
	if referenced {
		return apperrors.Conflict("product '%s' has sales history and cannot be deleted; deactivate it instead", product.Name)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("product", id)
		}
		return storageErr("delete product", err)
	}

	s.log.Info().Str("product_id", id.String()).Str("user_id", actor.String()).Msg("product deleted")
	s.notifier.Publish(ws.EventProductDeleted, map[string]interface{}{
		"product_id": id,
		"sku":        product.SKU,
		"name":       product.Name,
		"message":    fmt.Sprintf("%s deleted product '%s'", actor.Name, product.Name),
	})
	invalidateDashboard(ctx, s.cache, s.log)
	return nil
}

func (s *catalogService) checkInput(ctx context.Context, in ProductInput, excludeID *uuid.UUID) error {
	if err := validate(in); err != nil {
		return err
	}

	if _, err := s.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if isNotFound(err) {
			return apperrors.Validation("category_id", "selected category does not exist")
		}
		return storageErr("check category", err)
	}

	exists, err := s.productRepo.ExistsBySKU(ctx, in.SKU, excludeID)
	if err != nil {
		return storageErr("check sku", err)
	}
	if exists {
		return apperrors.Conflict("sku '%s' is already used by another product", in.SKU)
	}
	return nil
}

func (s *catalogService) publishProduct(event string, actor Actor, p *model.Product, message string) {
	s.notifier.Publish(event, map[string]interface{}{
		"product": p.ToResponse(),
		"user": map[string]interface{}{
			"id":    actor.ID,
			"name":  actor.Name,
			"email": actor.Email,
		},
		"message": message,
	})
}

func applyProductInput(p *model.Product, in ProductInput) {
	p.Name = in.Name
	p.SKU = in.SKU
	p.CategoryID = in.CategoryID
	p.BuyPrice = in.BuyPrice.Round(2)
	p.SellPrice = in.SellPrice.Round(2)
	if in.FixedPrice != nil {
		fixed := in.FixedPrice.Round(2)
		p.FixedPrice = &fixed
	} else {
		p.FixedPrice = nil
	}
	p.CurrentStock = in.CurrentStock
	p.MinimumStock = in.MinimumStock
	p.UnitOfMeasure = in.UnitOfMeasure
	p.Description = in.Description
	p.ImagePath = in.ImagePath
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}
