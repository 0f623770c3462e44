package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/storefront/pkg/auth"
	"github.com/example/storefront/pkg/models"
	"go.uber.org/zap"
)

// ErrEmailTaken is returned when registering with an address that already has
// an account.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned on a failed login. It deliberately does
// not say whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrNotCartOwner is returned when a customer touches a cart line that belongs
// to someone else.
var ErrNotCartOwner = errors.New("cart item belongs to another customer")

// ValidationError reports a malformed request field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func errValidation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Service implements the storefront operations on top of a Store. Cache and
// Auditor are optional; pass nil to disable them.
type Service struct {
	store  Store
	cache  Cache
	audit  Auditor
	logger *zap.Logger
}

func NewService(store Store, cache Cache, audit Auditor, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		audit:  audit,
		logger: logger,
	}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, errValidation("name, email and password are required")
	}

	_, err := s.store.UserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("email", email))
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.UserByEmail(ctx, email)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateProfile changes the customer's name and/or password. Empty fields are
// left untouched.
func (s *Service) UpdateProfile(ctx context.Context, userID, name, password string) (*models.User, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hash
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin seeds the bootstrap admin account when no user owns the email
// yet. Called once at startup.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.store.UserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := s.store.CreateUser(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("admin account seeded", zap.String("email", email))
	return nil
}

func (s *Service) auditAsync(action, entityID string, data map[string]interface{}) {
	if s.audit == nil {
		return
	}
	go func() {
		if err := s.audit.Record(context.Background(), action, entityID, data); err != nil {
			s.logger.Warn("audit write failed",
				zap.String("action", action),
				zap.String("entity_id", entityID),
				zap.Error(err))
		}
	}()
}
