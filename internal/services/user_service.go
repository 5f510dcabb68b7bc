package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/memorymatch/internal/errors"
	"github.com/vytor/memorymatch/internal/logger"
	"github.com/vytor/memorymatch/internal/models"
	"github.com/vytor/memorymatch/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// RegisterRequest carries the fields of a new account.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UserService handles accounts, credentials and login sessions
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (token string, user *models.User, err error)
	Logout(ctx context.Context, token string)
	UserForToken(ctx context.Context, token string) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UsernameAvailable(ctx context.Context, username string) (bool, error)

	// Account management, administrators only.
	ListAccounts(ctx context.Context, actor *models.User, role string) ([]models.User, error)
	SetActive(ctx context.Context, actor *models.User, id int64, active bool) (*models.User, error)
	UpdateRole(ctx context.Context, actor *models.User, id int64, role string) (*models.User, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
	// EnsureAdmin promotes the configured administrator account if it
	// already exists.
	EnsureAdmin(ctx context.Context) error
}

// UserOption configures the user service.
type UserOption func(*userService)

// WithAdminUsername names the account that is registered as, or promoted
// to, administrator.
func WithAdminUsername(username string) UserOption {
	return func(s *userService) {
		s.adminUsername = strings.TrimSpace(username)
	}
}

type userService struct {
	userRepo repository.UserRepository
	cost     int
	now      func() time.Time

	adminUsername string

	mu     sync.RWMutex
	tokens map[string]int64
}

// NewUserService creates a new UserService. bcryptCost <= 0 selects
// bcrypt.DefaultCost.
func NewUserService(userRepo repository.UserRepository, bcryptCost int, opts ...UserOption) UserService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	s := &userService{
		userRepo: userRepo,
		cost:     bcryptCost,
		now:      time.Now,
		tokens:   map[string]int64{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validateRegistration(req *RegisterRequest) error {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if n := len(req.FirstName); n < 2 || n > 50 {
		return errors.NewValidationError("first_name", "must be between 2 and 50 characters")
	}
	if n := len(req.LastName); n < 2 || n > 50 {
		return errors.NewValidationError("last_name", "must be between 2 and 50 characters")
	}
	if n := len(req.Username); n < 3 || n > 50 {
		return errors.NewValidationError("username", "must be between 3 and 50 characters")
	}
	if !usernamePattern.MatchString(req.Username) {
		return errors.NewValidationError("username", "may only contain letters, digits, '.', '_' and '-'")
	}
	if req.Email != "" && !emailPattern.MatchString(req.Email) {
		return errors.NewValidationError("email", "is not a valid address")
	}
	return validatePassword(req.Password)
}

func validatePassword(password string) error {
	if n := len(password); n < 6 || n > 100 {
		return errors.NewValidationError("password", "must be between 6 and 100 characters")
	}
	return nil
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("registering user: username=%s", req.Username)

	if err := validateRegistration(&req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, errors.NewConflictError("username already exists")
	} else if !stderrors.Is(err, sql.ErrNoRows) {
		log.Error("failed to check username: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if req.Email != "" {
		if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
			return nil, errors.NewConflictError("email already registered")
		} else if !stderrors.Is(err, sql.ErrNoRows) {
			log.Error("failed to check email: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return nil, errors.NewInternalError(err)
	}

	role := models.RoleUser
	if s.adminUsername != "" && req.Username == s.adminUsername {
		role = models.RoleAdmin
	}

	id, err := s.userRepo.Insert(ctx, models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Active:       true,
		Role:         role,
	})
	if err != nil {
		log.Error("failed to insert user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("user registered: id=%d, username=%s, role=%s", id, req.Username, role)
	return s.Get(ctx, id)
}

// Login checks credentials in order: missing fields, unknown user, disabled
// account, wrong password. On success it records the login time and issues
// a session token.
func (s *userService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	log := logger.FromContext(ctx)
	username = strings.TrimSpace(username)
	log.Debug("login attempt: username=%s", username)

	if username == "" || password == "" {
		return "", nil, errors.NewBadRequestError("username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return "", nil, errors.NewUnauthorizedError("user not found")
		}
		log.Error("failed to load user: %v", err)
		return "", nil, errors.NewInternalError(err)
	}
	if !user.Active {
		return "", nil, errors.NewForbiddenError("account disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("invalid password for user %s", username)
		return "", nil, errors.NewUnauthorizedError("invalid credentials")
	}

	at := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, at); err != nil {
		log.Error("failed to record last login: %v", err)
		return "", nil, errors.NewInternalError(err)
	}
	user.LastLogin = &at

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = user.ID
	s.mu.Unlock()

	log.Info("user logged in: id=%d", user.ID)
	return token, user, nil
}

func (s *userService) Logout(ctx context.Context, token string) {
	logger.FromContext(ctx).Debug("logging out session")
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// UserForToken returns nil without error for unknown tokens.
func (s *userService) UserForToken(ctx context.Context, token string) (*models.User, error) {
	s.mu.RLock()
	id, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			s.Logout(ctx, token)
			return nil, nil
		}
		logger.FromContext(ctx).Error("failed to load session user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !user.Active {
		s.Logout(ctx, token)
		return nil, nil
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	log := logger.FromContext(ctx)
	log.Debug("changing password: user_id=%d", userID)

	if err := validatePassword(next); err != nil {
		return err
	}
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return errors.NewUnauthorizedError("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return errors.NewInternalError(err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		log.Error("failed to update password: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting user: id=%d", id)

	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("user", id)
		}
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing users")

	users, err := s.userRepo.List(ctx)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return users, nil
}

// UsernameAvailable reports false for names that could not be registered.
func (s *userService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if n := len(username); n < 3 || n > 50 || !usernamePattern.MatchString(username) {
		return false, nil
	}

	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	logger.FromContext(ctx).Error("failed to check username: %v", err)
	return false, errors.NewInternalError(err)
}

// ListAccounts returns every account, inactive ones included, optionally
// narrowed to one role.
func (s *userService) ListAccounts(ctx context.Context, actor *models.User, role string) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if role != "" {
		var err error
		if role, err = normalizeRole(role); err != nil {
			return nil, err
		}
	}

	users, err := s.List(ctx)
	if err != nil || role == "" {
		return users, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func normalizeRole(role string) (string, error) {
	switch r := strings.ToUpper(strings.TrimSpace(role)); r {
	case models.RoleUser, models.RoleAdmin:
		return r, nil
	default:
		return "", errors.NewValidationError("role", "must be USER or ADMIN")
	}
}

// SetActive enables or disables an account. Administrators cannot be
// disabled.
func (s *userService) SetActive(ctx context.Context, actor *models.User, id int64, active bool) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("setting account state: id=%d, active=%t", id, active)

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !active && target.IsAdmin() {
		return nil, errors.NewForbiddenError("cannot deactivate an administrator")
	}
	if target.Active == active {
		if active {
			return nil, errors.NewConflictError("user is already active")
		}
		return nil, errors.NewConflictError("user is already inactive")
	}

	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		log.Error("failed to update account state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !active {
		s.revokeSessions(id)
	}
	log.Info("account state changed: id=%d, active=%t, by=%d", id, active, actor.ID)
	return s.Get(ctx, id)
}

// UpdateRole changes another account's role. Setting the current role is a
// no-op.
func (s *userService) UpdateRole(ctx context.Context, actor *models.User, id int64, role string) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("changing role: id=%d, role=%s", id, role)

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	role, err := normalizeRole(role)
	if err != nil {
		return nil, err
	}
	if actor.ID == id {
		return nil, errors.NewForbiddenError("cannot change your own role")
	}
	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if target.Role == role {
		return target, nil
	}

	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		log.Error("failed to update role: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("role changed: id=%d, role=%s, by=%d", id, role, actor.ID)
	return s.Get(ctx, id)
}

// Delete removes an account together with all of its scores.
// Administrators and the caller's own account cannot be deleted.
func (s *userService) Delete(ctx context.Context, actor *models.User, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting user: id=%d", id)

	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return errors.NewForbiddenError("cannot delete your own account")
	}
	target, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return errors.NewForbiddenError("cannot delete an administrator")
	}

	deleted, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete user: %v", err)
		return errors.NewInternalError(err)
	}
	if !deleted {
		return errors.NewNotFoundError("user", id)
	}
	s.revokeSessions(id)
	log.Info("user deleted: id=%d, by=%d", id, actor.ID)
	return nil
}

func (s *userService) revokeSessions(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, id := range s.tokens {
		if id == userID {
			delete(s.tokens, token)
		}
	}
}

func (s *userService) EnsureAdmin(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if s.adminUsername == "" {
		return nil
	}

	user, err := s.userRepo.GetByUsername(ctx, s.adminUsername)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			log.Info("admin account %s not registered yet; it will be created as administrator", s.adminUsername)
			return nil
		}
		log.Error("failed to load admin account: %v", err)
		return errors.NewInternalError(err)
	}
	if user.IsAdmin() {
		return nil
	}
	if err := s.userRepo.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
		log.Error("failed to promote admin account: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("promoted %s to administrator", s.adminUsername)
	return nil
}
