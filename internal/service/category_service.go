package service

import (
	"context"
	"strings"

	"go-pos-inventory/internal/apperrors"
	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

type CategoryService interface {
	ListCategories(ctx context.Context) ([]model.CategoryWithCount, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	CreateCategory(ctx context.Context, actor Actor, in CategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, actor Actor, id uuid.UUID, in CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, actor Actor, id uuid.UUID) error
}

type categoryService struct {
	repo     repository.CategoryRepository
	notifier Notifier
	cache    cache.Cache
	log      zerolog.Logger
}

func NewCategoryService(repo repository.CategoryRepository, notifier Notifier, c cache.Cache, log zerolog.Logger) CategoryService {
	return &categoryService{
		repo:     repo,
		notifier: notifier,
		cache:    c,
		log:      log.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]model.CategoryWithCount, error) {
	rows, err := s.repo.FindAllWithCounts(ctx)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	return rows, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if isNotFound(err) {
		return nil, apperrors.NotFound("category", id)
	}
	if err != nil {
		return nil, storageErr("get category", err)
	}
	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, actor Actor, in CategoryInput) (*model.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.checkInput(ctx, in, nil); err != nil {
		return nil, err
	}

	category := &model.Category{Name: in.Name, Description: in.Description}
	category.CreatedBy = actor.String()
	category.UpdatedBy = actor.String()
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, storageErr("create category", err)
	}

	s.log.Info().Str("category_id", category.ID.String()).Str("user_id", actor.String()).Msg("category created")
	s.publish("created", category)
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, actor Actor, id uuid.UUID, in CategoryInput) (*model.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkInput(ctx, in, &id); err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.Description = in.Description
	category.UpdatedBy = actor.String()
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, storageErr("update category", err)
	}

	// low stock rows on the dashboard embed the category
	invalidateDashboard(ctx, s.cache, s.log)
	s.publish("updated", category)
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, actor Actor, id uuid.UUID) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return storageErr("count category products", err)
	}
	if count > 0 {
		return apperrors.Conflict("category '%s' still has %d product(s)", category.Name, count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("category", id)
		}
		return storageErr("delete category", err)
	}

	s.log.Info().Str("category_id", id.String()).Str("user_id", actor.String()).Msg("category deleted")
	invalidateDashboard(ctx, s.cache, s.log)
	s.publish("deleted", category)
	return nil
}

func (s *categoryService) checkInput(ctx context.Context, in CategoryInput, excludeID *uuid.UUID) error {
	if err := validate(in); err != nil {
		return err
	}
	exists, err := s.repo.ExistsByName(ctx, in.Name, excludeID)
	if err != nil {
		return storageErr("check category name", err)
	}
	if exists {
		return apperrors.Conflict("category '%s' already exists", in.Name)
	}
	return nil
}

func (s *categoryService) publish(action string, c *model.Category) {
	s.notifier.Publish(ws.EventCategoryChange, map[string]interface{}{
		"action":   action,
		"category": c,
	})
}
