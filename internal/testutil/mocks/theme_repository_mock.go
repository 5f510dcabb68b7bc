package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/memorymatch/internal/models"
)

// MockThemeRepository is a mock implementation of repository.ThemeRepository
type MockThemeRepository struct {
	mock.Mock
}

func (m *MockThemeRepository) Get(ctx context.Context, id int64) (*models.Theme, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Theme), args.Error(1)
}

func (m *MockThemeRepository) List(ctx context.Context, activeOnly bool) ([]models.Theme, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Theme), args.Error(1)
}

func (m *MockThemeRepository) Insert(ctx context.Context, theme models.Theme) (int64, error) {
	args := m.Called(ctx, theme)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockThemeRepository) Update(ctx context.Context, theme models.Theme) error {
	args := m.Called(ctx, theme)
	return args.Error(0)
}

func (m *MockThemeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
