package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/memorymatch/internal/logger"
	"github.com/vytor/memorymatch/internal/models"
	"github.com/vytor/memorymatch/internal/repository"
)

var userColumns = []string{
	"id", "first_name", "last_name", "username", "password_hash", "email",
	"is_active", "role", "last_login", "created_at", "updated_at",
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		u     models.User
		email sql.NullString
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.PasswordHash, &email,
		&u.Active, &u.Role, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	u.Email = email.String
	return u, err
}

func (r *userRepository) getBy(ctx context.Context, column string, value any) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: %s=%v", column, value)

	query, args, err := sqlBuilder.Select(userColumns...).From("users").Where(squirrel.Eq{column: value}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found: %s=%v", column, value)
		} else {
			log.Error("failed to get user: %v", err)
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("listing users")

	query, args, err := sqlBuilder.Select(userColumns...).From("users").OrderBy("username ASC").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating user rows: %v", err)
		return nil, err
	}
	log.Debug("found %d users", len(users))
	return users, nil
}

func (r *userRepository) Insert(ctx context.Context, user models.User) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user: username=%s", user.Username)

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	query, args, err := sqlBuilder.Insert("users").
		Columns("first_name", "last_name", "username", "password_hash", "email", "is_active", "role", "created_at").
		Values(user.FirstName, user.LastName, user.Username, user.PasswordHash, nullString(user.Email), user.Active, role, utcNow()).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert user: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to read user id: %v", err)
		return 0, err
	}
	log.Debug("user inserted: id=%d", id)
	return id, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating last login: user_id=%d", id)

	return r.update(ctx, log, id, map[string]any{"last_login": at.UTC()})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating password: user_id=%d", id)

	return r.update(ctx, log, id, map[string]any{"password_hash": passwordHash, "updated_at": utcNow()})
}

func (r *userRepository) SetActive(ctx context.Context, id int64, active bool) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("setting active: user_id=%d, active=%t", id, active)

	return r.update(ctx, log, id, map[string]any{"is_active": active, "updated_at": utcNow()})
}

func (r *userRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating role: user_id=%d, role=%s", id, role)

	return r.update(ctx, log, id, map[string]any{"role": role, "updated_at": utcNow()})
}

func (r *userRepository) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting user: id=%d", id)

	query, args, err := sqlBuilder.Delete("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return false, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete user: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepository) update(ctx context.Context, log *logger.Logger, id int64, set map[string]any) error {
	query, args, err := sqlBuilder.Update("users").SetMap(set).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update user: %v", err)
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
