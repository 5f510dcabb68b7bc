package repository

import (
	"context"

	"github.com/vytor/memorymatch/internal/models"
)

// ScoreRepository handles persisted session results
type ScoreRepository interface {
	Insert(ctx context.Context, score models.Score) (int64, error)
	Get(ctx context.Context, id int64) (*models.Score, error)
	List(ctx context.Context, order models.ScoreOrder) ([]models.Score, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Score, error)
	ListByTheme(ctx context.Context, themeID int64) ([]models.Score, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}
