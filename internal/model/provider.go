package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderProfile holds the public profile of a service provider. One per
// provider account. IsAvailable=false hides the provider from category
// listings but not from direct profile views.
type ProviderProfile struct {
	ID              uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID          uuid.UUID `json:"user_id" gorm:"type:char(36);uniqueIndex;not null"`
	Bio             string    `json:"bio" gorm:"type:text"`
	ExperienceYears int       `json:"experience_years" gorm:"not null;default:0"`
	Location        string    `json:"location" gorm:"size:255"`
	Phone           string    `json:"phone" gorm:"size:32"`
	IsAvailable     bool      `json:"is_available" gorm:"default:true;index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *ProviderProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProviderService links a provider to a category they offer. The full set for
// a provider is replaced as a batch on profile save, never diffed.
type ProviderService struct {
	ProviderID uuid.UUID `json:"provider_id" gorm:"type:char(36);primaryKey"`
	CategoryID uuid.UUID `json:"category_id" gorm:"type:char(36);primaryKey;index"`

	// Relations
	Category Category `json:"-" gorm:"foreignKey:CategoryID"`
}
