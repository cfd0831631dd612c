package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quickfix/internal/model"
)

// ProviderRepository defines provider profile and service-link persistence.
type ProviderRepository interface {
	UpsertProfile(ctx context.Context, profile *model.ProviderProfile) error
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.ProviderProfile, error)
	// ReplaceServices atomically replaces the provider's full category set.
	// Readers see the pre-update or post-update set, never a transient
	// empty set.
	ReplaceServices(ctx context.Context, providerID uuid.UUID, categoryIDs []uuid.UUID) error
	ListServiceCategoryIDs(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error)
	OffersCategory(ctx context.Context, providerID, categoryID uuid.UUID) (bool, error)
	ListAvailableByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.ProviderProfile, error)
}

type providerRepository struct {
	db *gorm.DB
}

// NewProviderRepository creates a new provider repository.
func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &providerRepository{db: db}
}

// UpsertProfile creates the profile or fully replaces its fields on conflict
// with the existing user_id row.
func (r *providerRepository) UpsertProfile(ctx context.Context, profile *model.ProviderProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"bio", "experience_years", "location", "phone", "is_available", "updated_at",
		}),
	}).Create(profile).Error
}

// FindProfileByUserID finds a provider profile by the owning user ID.
func (r *providerRepository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.ProviderProfile, error) {
	var profile model.ProviderProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ReplaceServices deletes all links for the provider and inserts the new set
// inside one transaction. An empty set is permitted.
func (r *providerRepository) ReplaceServices(ctx context.Context, providerID uuid.UUID, categoryIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", providerID).Delete(&model.ProviderService{}).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		links := make([]model.ProviderService, 0, len(categoryIDs))
		for _, categoryID := range categoryIDs {
			links = append(links, model.ProviderService{
				ProviderID: providerID,
				CategoryID: categoryID,
			})
		}
		return tx.Create(&links).Error
	})
}

// ListServiceCategoryIDs returns the category IDs the provider offers.
func (r *providerRepository) ListServiceCategoryIDs(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.ProviderService{}).
		Where("provider_id = ?", providerID).
		Pluck("category_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// OffersCategory reports whether the provider offers the given category.
func (r *providerRepository) OffersCategory(ctx context.Context, providerID, categoryID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ProviderService{}).
		Where("provider_id = ? AND category_id = ?", providerID, categoryID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAvailableByCategory lists available providers linked to the category,
// ordered by user_id for reproducible results.
func (r *providerRepository) ListAvailableByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.ProviderProfile, error) {
	var profiles []model.ProviderProfile
	if err := r.db.WithContext(ctx).
		Joins("JOIN provider_services ON provider_services.provider_id = provider_profiles.user_id").
		Where("provider_services.category_id = ? AND provider_profiles.is_available = ?", categoryID, true).
		Order("provider_profiles.user_id").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
