package repository

import (
	"context"

	"github.com/vytor/memorymatch/internal/models"
)

// ThemeRepository handles theme data access
type ThemeRepository interface {
	Get(ctx context.Context, id int64) (*models.Theme, error)
	List(ctx context.Context, activeOnly bool) ([]models.Theme, error)
	Insert(ctx context.Context, theme models.Theme) (int64, error)
	Update(ctx context.Context, theme models.Theme) error
	Delete(ctx context.Context, id int64) (bool, error)
}
