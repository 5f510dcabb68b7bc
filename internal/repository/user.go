package repository

import (
	"context"
	"time"

	"github.com/vytor/memorymatch/internal/models"
)

// UserRepository handles user account data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, user models.User) (int64, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetActive(ctx context.Context, id int64, active bool) error
	UpdateRole(ctx context.Context, id int64, role string) error
	// Delete removes the account and, through the foreign key, its scores.
	Delete(ctx context.Context, id int64) (bool, error)
}
