package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/vytor/memorymatch/internal/errors"
	"github.com/vytor/memorymatch/internal/logger"
	"github.com/vytor/memorymatch/internal/models"
	"github.com/vytor/memorymatch/internal/repository"
)

// ThemeService handles theme catalog operations
type ThemeService interface {
	List(ctx context.Context, activeOnly bool) ([]models.Theme, error)
	Get(ctx context.Context, id int64) (*models.Theme, error)
	Create(ctx context.Context, actor *models.User, theme models.Theme) (*models.Theme, error)
	Update(ctx context.Context, actor *models.User, theme models.Theme) (*models.Theme, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
}

type themeService struct {
	themeRepo repository.ThemeRepository
}

// NewThemeService creates a new ThemeService
func NewThemeService(themeRepo repository.ThemeRepository) ThemeService {
	return &themeService{themeRepo: themeRepo}
}

func requireAdmin(actor *models.User) error {
	if actor == nil {
		return errors.NewUnauthorizedError("login required")
	}
	if !actor.IsAdmin() {
		return errors.NewForbiddenError("administrator role required")
	}
	return nil
}

func validateTheme(theme *models.Theme) error {
	theme.Name = strings.TrimSpace(theme.Name)
	if n := len(theme.Name); n < 2 || n > 50 {
		return errors.NewValidationError("name", "must be between 2 and 50 characters")
	}
	if len(theme.Description) > 255 {
		return errors.NewValidationError("description", "must be at most 255 characters")
	}
	return nil
}

func (s *themeService) List(ctx context.Context, activeOnly bool) ([]models.Theme, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing themes")

	themes, err := s.themeRepo.List(ctx, activeOnly)
	if err != nil {
		log.Error("failed to list themes: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return themes, nil
}

func (s *themeService) Get(ctx context.Context, id int64) (*models.Theme, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting theme: id=%d", id)

	theme, err := s.themeRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("theme", id)
		}
		log.Error("failed to get theme: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return theme, nil
}

func (s *themeService) Create(ctx context.Context, actor *models.User, theme models.Theme) (*models.Theme, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating theme: name=%s", theme.Name)

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateTheme(&theme); err != nil {
		return nil, err
	}

	id, err := s.themeRepo.Insert(ctx, theme)
	if err != nil {
		log.Error("failed to create theme: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.Get(ctx, id)
}

func (s *themeService) Update(ctx context.Context, actor *models.User, theme models.Theme) (*models.Theme, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating theme: id=%d", theme.ID)

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateTheme(&theme); err != nil {
		return nil, err
	}

	if err := s.themeRepo.Update(ctx, theme); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("theme", theme.ID)
		}
		log.Error("failed to update theme: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.Get(ctx, theme.ID)
}

func (s *themeService) Delete(ctx context.Context, actor *models.User, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting theme: id=%d", id)

	if err := requireAdmin(actor); err != nil {
		return err
	}

	removed, err := s.themeRepo.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete theme: %v", err)
		return errors.NewInternalError(err)
	}
	if !removed {
		return errors.NewNotFoundError("theme", id)
	}
	return nil
}
