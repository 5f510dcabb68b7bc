package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/vytor/memorymatch/internal/errors"
	"github.com/vytor/memorymatch/internal/leaderboard"
	"github.com/vytor/memorymatch/internal/logger"
	"github.com/vytor/memorymatch/internal/models"
	"github.com/vytor/memorymatch/internal/repository"
)

// ScoreService handles score persistence and leaderboard queries
type ScoreService interface {
	Save(ctx context.Context, score models.Score) (int64, error)
	Get(ctx context.Context, id int64) (*models.Score, error)
	List(ctx context.Context, order models.ScoreOrder) ([]models.Score, error)
	Leaderboard(ctx context.Context, key leaderboard.SortKey, playerID, themeID int64) (leaderboard.View, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
}

type scoreService struct {
	scoreRepo repository.ScoreRepository
}

// NewScoreService creates a new ScoreService
func NewScoreService(scoreRepo repository.ScoreRepository) ScoreService {
	return &scoreService{scoreRepo: scoreRepo}
}

func (s *scoreService) Save(ctx context.Context, score models.Score) (int64, error) {
	log := logger.FromContext(ctx)
	log.Debug("saving score: user_id=%d, theme_id=%d", score.UserID, score.ThemeID)

	switch {
	case score.UserID <= 0:
		return 0, errors.NewValidationError("user_id", "must reference a user")
	case score.ThemeID <= 0:
		return 0, errors.NewValidationError("theme_id", "must reference a theme")
	case score.Attempts < 0:
		return 0, errors.NewValidationError("attempts", "cannot be negative")
	case score.TimeSeconds < 0:
		return 0, errors.NewValidationError("time_seconds", "cannot be negative")
	}

	id, err := s.scoreRepo.Insert(ctx, score)
	if err != nil {
		log.Error("failed to save score: %v", err)
		return 0, errors.NewInternalError(err)
	}
	return id, nil
}

func (s *scoreService) Get(ctx context.Context, id int64) (*models.Score, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting score: id=%d", id)

	score, err := s.scoreRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("score", id)
		}
		log.Error("failed to get score: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return score, nil
}

func (s *scoreService) List(ctx context.Context, order models.ScoreOrder) ([]models.Score, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing scores: order=%s", order)

	if order != models.ScoreOrderScore {
		order = models.ScoreOrderDate
	}
	scores, err := s.scoreRepo.List(ctx, order)
	if err != nil {
		log.Error("failed to list scores: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return scores, nil
}

// Leaderboard narrows the query by player or theme when possible; Compute
// still applies every filter itself.
func (s *scoreService) Leaderboard(ctx context.Context, key leaderboard.SortKey, playerID, themeID int64) (leaderboard.View, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing leaderboard: sort=%s, player=%d, theme=%d", key, playerID, themeID)

	var (
		scores []models.Score
		err    error
	)
	switch {
	case playerID != leaderboard.AllPlayers:
		scores, err = s.scoreRepo.ListByUser(ctx, playerID)
	case themeID != leaderboard.AllThemes:
		scores, err = s.scoreRepo.ListByTheme(ctx, themeID)
	default:
		scores, err = s.scoreRepo.List(ctx, models.ScoreOrderDate)
	}
	if err != nil {
		log.Error("failed to load scores for leaderboard: %v", err)
		return leaderboard.View{}, errors.NewInternalError(err)
	}

	view := leaderboard.Compute(scores, key, playerID, themeID)
	log.Debug("leaderboard computed: %d rows, mode=%s", len(view.Scores), view.Mode)
	return view, nil
}

func (s *scoreService) Delete(ctx context.Context, actor *models.User, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting score: id=%d", id)

	if actor == nil {
		return errors.NewUnauthorizedError("login required")
	}
	if !actor.IsAdmin() {
		log.Warn("non-admin user %s tried to delete score %d", actor.Username, id)
		return errors.NewForbiddenError("only administrators can delete scores")
	}

	removed, err := s.scoreRepo.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete score: %v", err)
		return errors.NewInternalError(err)
	}
	if !removed {
		return errors.NewNotFoundError("score", id)
	}
	log.Info("score %d deleted by %s", id, actor.Username)
	return nil
}
