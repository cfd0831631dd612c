package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"quickfix/internal/auth"
	"quickfix/internal/cache"
	"quickfix/internal/errors"
	"quickfix/internal/model"
)

func TestCategoryService_List(t *testing.T) {
	mockCategory := new(MockCategoryRepository)
	mockCategory.On("List", mock.Anything).Return([]model.Category{
		{ID: uuid.New(), Name: "Electrical"},
		{ID: uuid.New(), Name: "Plumbing"},
	}, nil)

	svc := NewCategoryService(mockCategory, new(cache.Client))
	categories, err := svc.List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, "Electrical", categories[0].Name)
	mockCategory.AssertExpectations(t)
}

func TestCategoryService_Create(t *testing.T) {
	admin := auth.Identity{UserID: uuid.New(), Role: model.RoleAdmin}

	tests := []struct {
		name          string
		ident         auth.Identity
		categoryName  string
		setupMocks    func(*MockCategoryRepository)
		expectedError error
	}{
		{
			name:         "successful create",
			ident:        admin,
			categoryName: "Roofing",
			setupMocks: func(m *MockCategoryRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)
			},
		},
		{
			name:         "duplicate name",
			ident:        admin,
			categoryName: "Plumbing",
			setupMocks: func(m *MockCategoryRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).
					Return(gorm.ErrDuplicatedKey)
			},
			expectedError: errors.ErrDuplicateName,
		},
		{
			name:          "provider forbidden",
			ident:         auth.Identity{UserID: uuid.New(), Role: model.RoleProvider},
			categoryName:  "Roofing",
			setupMocks:    func(m *MockCategoryRepository) {},
			expectedError: errors.ErrForbidden,
		},
		{
			name:          "customer forbidden",
			ident:         auth.Identity{UserID: uuid.New(), Role: model.RoleCustomer},
			categoryName:  "Roofing",
			setupMocks:    func(m *MockCategoryRepository) {},
			expectedError: errors.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCategory := new(MockCategoryRepository)
			tt.setupMocks(mockCategory)

			svc := NewCategoryService(mockCategory, new(cache.Client))
			category, err := svc.Create(context.Background(), tt.ident, tt.categoryName, "wrench", "fixing things")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, category)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, category)
				assert.Equal(t, tt.categoryName, category.Name)
				assert.Equal(t, "wrench", category.Icon)
			}

			mockCategory.AssertExpectations(t)
		})
	}
}

func TestCategoryService_Delete(t *testing.T) {
	admin := auth.Identity{UserID: uuid.New(), Role: model.RoleAdmin}
	categoryID := uuid.New()

	t.Run("successful delete", func(t *testing.T) {
		mockCategory := new(MockCategoryRepository)
		mockCategory.On("Delete", mock.Anything, categoryID).Return(nil)

		svc := NewCategoryService(mockCategory, new(cache.Client))
		err := svc.Delete(context.Background(), admin, categoryID)

		assert.NoError(t, err)
		mockCategory.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockCategory := new(MockCategoryRepository)
		mockCategory.On("Delete", mock.Anything, categoryID).Return(gorm.ErrRecordNotFound)

		svc := NewCategoryService(mockCategory, new(cache.Client))
		err := svc.Delete(context.Background(), admin, categoryID)

		assert.ErrorIs(t, err, errors.ErrCategoryNotFound)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		svc := NewCategoryService(new(MockCategoryRepository), new(cache.Client))
		err := svc.Delete(context.Background(), auth.Identity{UserID: uuid.New(), Role: model.RoleProvider}, categoryID)

		assert.ErrorIs(t, err, errors.ErrForbidden)
	})
}
