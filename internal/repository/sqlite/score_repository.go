package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/memorymatch/internal/logger"
	"github.com/vytor/memorymatch/internal/models"
	"github.com/vytor/memorymatch/internal/repository"
)

type scoreRepository struct {
	db *sql.DB
}

// NewScoreRepository creates a new ScoreRepository implementation
func NewScoreRepository(db *sql.DB) repository.ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) selectScores() squirrel.SelectBuilder {
	return sqlBuilder.Select(
		"s.id", "s.user_id", "s.theme_id", "s.attempts", "s.time_seconds", "s.played_at",
		"COALESCE(u.username, '')", "COALESCE(t.name, '')",
	).
		From("scores s").
		LeftJoin("users u ON u.id = s.user_id").
		LeftJoin("themes t ON t.id = s.theme_id")
}

func scanScore(row rowScanner) (models.Score, error) {
	var s models.Score
	err := row.Scan(&s.ID, &s.UserID, &s.ThemeID, &s.Attempts, &s.TimeSeconds, &s.PlayedAt, &s.PlayerName, &s.ThemeName)
	return s, err
}

func (r *scoreRepository) Insert(ctx context.Context, score models.Score) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("inserting score: user_id=%d, theme_id=%d, attempts=%d, time=%ds",
		score.UserID, score.ThemeID, score.Attempts, score.TimeSeconds)

	playedAt := score.PlayedAt.UTC()
	if score.PlayedAt.IsZero() {
		playedAt = utcNow()
	}

	query, args, err := sqlBuilder.Insert("scores").
		Columns("user_id", "theme_id", "attempts", "time_seconds", "played_at").
		Values(score.UserID, score.ThemeID, score.Attempts, score.TimeSeconds, playedAt).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert score: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to read score id: %v", err)
		return 0, err
	}
	log.Debug("score inserted: id=%d", id)
	return id, nil
}

func (r *scoreRepository) Get(ctx context.Context, id int64) (*models.Score, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("getting score: id=%d", id)

	query, args, err := r.selectScores().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	s, err := scanScore(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("score not found: id=%d", id)
		} else {
			log.Error("failed to get score: %v", err)
		}
		return nil, err
	}
	return &s, nil
}

func (r *scoreRepository) List(ctx context.Context, order models.ScoreOrder) ([]models.Score, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("listing scores: order=%s", order)

	query := r.selectScores()
	if order == models.ScoreOrderScore {
		query = query.OrderBy("s.attempts ASC", "s.time_seconds ASC", "s.played_at DESC", "s.id ASC")
	} else {
		query = query.OrderBy("s.played_at DESC", "s.id DESC")
	}
	return r.query(ctx, log, query)
}

func (r *scoreRepository) ListByUser(ctx context.Context, userID int64) ([]models.Score, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("listing scores for user: user_id=%d", userID)

	query := r.selectScores().
		Where(squirrel.Eq{"s.user_id": userID}).
		OrderBy("s.played_at DESC", "s.id DESC")
	return r.query(ctx, log, query)
}

func (r *scoreRepository) ListByTheme(ctx context.Context, themeID int64) ([]models.Score, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("listing scores for theme: theme_id=%d", themeID)

	query := r.selectScores().
		Where(squirrel.Eq{"s.theme_id": themeID}).
		OrderBy("s.played_at DESC", "s.id DESC")
	return r.query(ctx, log, query)
}

func (r *scoreRepository) query(ctx context.Context, log *logger.Logger, builder squirrel.SelectBuilder) ([]models.Score, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list scores: %v", err)
		return nil, err
	}
	defer rows.Close()

	var scores []models.Score
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			log.Error("failed to scan score row: %v", err)
			return nil, err
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating score rows: %v", err)
		return nil, err
	}
	log.Debug("found %d scores", len(scores))
	return scores, nil
}

func (r *scoreRepository) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("deleting score: id=%d", id)

	query, args, err := sqlBuilder.Delete("scores").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return false, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete score: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
