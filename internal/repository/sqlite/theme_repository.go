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

var themeColumns = []string{"id", "name", "description", "image_path", "is_active", "created_at", "updated_at"}

type themeRepository struct {
	db *sql.DB
}

// NewThemeRepository creates a new ThemeRepository implementation
func NewThemeRepository(db *sql.DB) repository.ThemeRepository {
	return &themeRepository{db: db}
}

func scanTheme(row rowScanner) (models.Theme, error) {
	var t models.Theme
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.ImagePath, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *themeRepository) Get(ctx context.Context, id int64) (*models.Theme, error) {
	log := logger.FromContext(ctx).WithPrefix("theme_repo")
	log.Debug("getting theme: id=%d", id)

	query, args, err := sqlBuilder.Select(themeColumns...).From("themes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	t, err := scanTheme(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("theme not found: id=%d", id)
		} else {
			log.Error("failed to get theme: %v", err)
		}
		return nil, err
	}
	log.Debug("theme found: name=%s", t.Name)
	return &t, nil
}

func (r *themeRepository) List(ctx context.Context, activeOnly bool) ([]models.Theme, error) {
	log := logger.FromContext(ctx).WithPrefix("theme_repo")
	log.Debug("listing themes: active_only=%t", activeOnly)

	builder := sqlBuilder.Select(themeColumns...).From("themes").OrderBy("name ASC")
	if activeOnly {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list themes: %v", err)
		return nil, err
	}
	defer rows.Close()

	var themes []models.Theme
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			log.Error("failed to scan theme row: %v", err)
			return nil, err
		}
		themes = append(themes, t)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating theme rows: %v", err)
		return nil, err
	}
	log.Debug("found %d themes", len(themes))
	return themes, nil
}

func (r *themeRepository) Insert(ctx context.Context, theme models.Theme) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("theme_repo")
	log.Debug("inserting theme: name=%s", theme.Name)

	query, args, err := sqlBuilder.Insert("themes").
		Columns("name", "description", "image_path", "is_active", "created_at").
		Values(theme.Name, theme.Description, theme.ImagePath, theme.Active, utcNow()).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert theme: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to read theme id: %v", err)
		return 0, err
	}
	log.Debug("theme inserted: id=%d", id)
	return id, nil
}

// Update returns sql.ErrNoRows when no theme has the given id.
func (r *themeRepository) Update(ctx context.Context, theme models.Theme) error {
	log := logger.FromContext(ctx).WithPrefix("theme_repo")
	log.Debug("updating theme: id=%d", theme.ID)

	query, args, err := sqlBuilder.Update("themes").
		Set("name", theme.Name).
		Set("description", theme.Description).
		Set("image_path", theme.ImagePath).
		Set("is_active", theme.Active).
		Set("updated_at", utcNow()).
		Where(squirrel.Eq{"id": theme.ID}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update theme: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *themeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("theme_repo")
	log.Debug("deleting theme: id=%d", id)

	query, args, err := sqlBuilder.Delete("themes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return false, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete theme: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
