package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/memorymatch/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueScore(score models.Score) error {
	args := m.Called(score)
	return args.Error(0)
}
