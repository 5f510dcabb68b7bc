package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/memorymatch/internal/models"
)

// MockScoreRepository is a mock implementation of repository.ScoreRepository
type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) Insert(ctx context.Context, score models.Score) (int64, error) {
	args := m.Called(ctx, score)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScoreRepository) Get(ctx context.Context, id int64) (*models.Score, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Score), args.Error(1)
}

func (m *MockScoreRepository) List(ctx context.Context, order models.ScoreOrder) ([]models.Score, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Score), args.Error(1)
}

func (m *MockScoreRepository) ListByUser(ctx context.Context, userID int64) ([]models.Score, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Score), args.Error(1)
}

func (m *MockScoreRepository) ListByTheme(ctx context.Context, themeID int64) ([]models.Score, error) {
	args := m.Called(ctx, themeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Score), args.Error(1)
}

func (m *MockScoreRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
