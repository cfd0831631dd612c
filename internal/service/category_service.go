package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickfix/internal/auth"
	"quickfix/internal/cache"
	"quickfix/internal/errors"
	"quickfix/internal/model"
	"quickfix/internal/repository"
)

const (
	categoryListCacheKey = "categories:list"
	categoryListCacheTTL = 5 * time.Minute
)

// CategoryService manages the service category catalog. Mutations are
// admin-only; the listing is public.
type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, ident auth.Identity, name, icon, description string) (*model.Category, error)
	Delete(ctx context.Context, ident auth.Identity, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewCategoryService builds a CategoryService with repository and cache.
func NewCategoryService(categoryRepo repository.CategoryRepository, cache *cache.Client) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, cache: cache}
}

// List returns all categories ordered by name, served from cache when warm.
func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	if data, _ := s.cache.Get(ctx, categoryListCacheKey); data != nil {
		var cached []model.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(categories); err == nil {
		_ = s.cache.Set(ctx, categoryListCacheKey, payload, categoryListCacheTTL)
	}
	return categories, nil
}

// Create adds a new category. Admin only.
func (s *categoryService) Create(ctx context.Context, ident auth.Identity, name, icon, description string) (*model.Category, error) {
	if ident.Role != model.RoleAdmin {
		return nil, errors.ErrForbidden
	}

	category := &model.Category{
		Name:        name,
		Icon:        icon,
		Description: description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrDuplicateName
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	_ = s.cache.Delete(ctx, categoryListCacheKey)
	return category, nil
}

// Delete removes a category with its cascades. Admin only. Bookings that
// referenced the category survive with category_id nulled.
func (s *categoryService) Delete(ctx context.Context, ident auth.Identity, id uuid.UUID) error {
	if ident.Role != model.RoleAdmin {
		return errors.ErrForbidden
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrCategoryNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}

	_ = s.cache.Delete(ctx, categoryListCacheKey)
	return nil
}
