package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickfix/internal/auth"
	"quickfix/internal/errors"
	"quickfix/internal/model"
	"quickfix/internal/repository"
)

// ProfileInput carries the full replacement field set for a provider profile.
type ProfileInput struct {
	Bio             string
	ExperienceYears int
	Location        string
	Phone           string
	IsAvailable     bool
}

// DirectoryService is the provider directory: category-filtered listings,
// direct profile views, and the provider's own profile/service management.
type DirectoryService interface {
	// ListByCategory returns available providers for the category, enriched
	// with display names and read-time rating aggregates.
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.ProviderListing, error)
	// Get returns one provider regardless of availability. Direct profile
	// views are not gated by the availability flag.
	Get(ctx context.Context, providerID uuid.UUID) (*model.ProviderListing, error)
	UpsertProfile(ctx context.Context, ident auth.Identity, input ProfileInput) (*model.ProviderProfile, error)
	ReplaceServices(ctx context.Context, ident auth.Identity, categoryIDs []uuid.UUID) error
	ListServices(ctx context.Context, ident auth.Identity) ([]uuid.UUID, error)
}

type directoryService struct {
	providerRepo repository.ProviderRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
}

// NewDirectoryService creates a new directory service.
func NewDirectoryService(
	providerRepo repository.ProviderRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	reviewRepo repository.ReviewRepository,
) DirectoryService {
	return &directoryService{
		providerRepo: providerRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
	}
}

// ListByCategory assembles the directory listing for one category.
func (s *directoryService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.ProviderListing, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	profiles, err := s.providerRepo.ListAvailableByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	userIDs := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		userIDs = append(userIDs, p.UserID)
	}
	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("find provider names: %w", err)
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}

	listings := make([]model.ProviderListing, 0, len(profiles))
	for _, p := range profiles {
		rating, err := s.reviewRepo.AggregateByProvider(ctx, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("compute rating: %w", err)
		}
		listings = append(listings, model.ProviderListing{
			ProviderProfile: p,
			FullName:        names[p.UserID],
			Rating:          rating,
		})
	}
	return listings, nil
}

// Get returns a single provider listing by user ID.
func (s *directoryService) Get(ctx context.Context, providerID uuid.UUID) (*model.ProviderListing, error) {
	profile, err := s.providerRepo.FindProfileByUserID(ctx, providerID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProviderNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("find provider user: %w", err)
	}

	rating, err := s.reviewRepo.AggregateByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("compute rating: %w", err)
	}

	return &model.ProviderListing{
		ProviderProfile: *profile,
		FullName:        user.FullName,
		Rating:          rating,
	}, nil
}

// UpsertProfile fully replaces the calling provider's profile fields. Only
// the owning provider can write its profile; the identity is the owner.
func (s *directoryService) UpsertProfile(ctx context.Context, ident auth.Identity, input ProfileInput) (*model.ProviderProfile, error) {
	if ident.Role != model.RoleProvider {
		return nil, errors.ErrForbidden
	}
	if input.ExperienceYears < 0 {
		return nil, errors.NewValidationError("experience_years", "must not be negative")
	}

	profile := &model.ProviderProfile{
		UserID:          ident.UserID,
		Bio:             input.Bio,
		ExperienceYears: input.ExperienceYears,
		Location:        input.Location,
		Phone:           input.Phone,
		IsAvailable:     input.IsAvailable,
	}
	if err := s.providerRepo.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}

// ReplaceServices atomically replaces the calling provider's category set.
// An empty set is allowed; the provider then appears in no category listing.
func (s *directoryService) ReplaceServices(ctx context.Context, ident auth.Identity, categoryIDs []uuid.UUID) error {
	if ident.Role != model.RoleProvider {
		return errors.ErrForbidden
	}

	for _, categoryID := range categoryIDs {
		if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrCategoryNotFound
			}
			return fmt.Errorf("find category: %w", err)
		}
	}

	if err := s.providerRepo.ReplaceServices(ctx, ident.UserID, categoryIDs); err != nil {
		return fmt.Errorf("replace services: %w", err)
	}
	return nil
}

// ListServices returns the category IDs the calling provider offers.
func (s *directoryService) ListServices(ctx context.Context, ident auth.Identity) ([]uuid.UUID, error) {
	if ident.Role != model.RoleProvider {
		return nil, errors.ErrForbidden
	}
	return s.providerRepo.ListServiceCategoryIDs(ctx, ident.UserID)
}
