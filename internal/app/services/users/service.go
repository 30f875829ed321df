// Package users implements staff account management and password login.
package users

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ombrage/campground/internal/app/domain/user"
	"github.com/ombrage/campground/internal/app/storage"
	"github.com/ombrage/campground/internal/auth"
	apperrors "github.com/ombrage/campground/internal/errors"
	"github.com/ombrage/campground/pkg/logger"
)

// Service coordinates user account operations.
type Service struct {
	users  storage.UserStore
	tokens *auth.TokenIssuer
	logger *logger.Logger
}

// New creates a user service.
func New(users storage.UserStore, tokens *auth.TokenIssuer, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("users")
	}
	return &Service{users: users, tokens: tokens, logger: log}
}

// CreateParams carries the fields accepted when creating a user.
type CreateParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Role      user.Role
	Locale    string
}

// Create registers a new staff account. Email and phone must be unique
// among existing accounts.
func (s *Service) Create(ctx context.Context, params CreateParams) (user.User, error) {
	if params.Email == "" && params.Phone == "" {
		return user.User{}, apperrors.Validation("either email or phone is required")
	}
	if params.Password == "" {
		return user.User{}, apperrors.Validation("password is required")
	}
	if err := s.checkUniqueness(ctx, params.Email, params.Phone, ""); err != nil {
		return user.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, apperrors.Internal(err)
	}

	created, err := s.users.CreateUser(ctx, user.User{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        params.Email,
		Phone:        params.Phone,
		PasswordHash: string(hash),
		Role:         params.Role,
		Locale:       params.Locale,
	})
	if err != nil {
		return user.User{}, apperrors.Internal(err)
	}

	s.logger.WithField("user_id", created.ID).Info("user created")
	return created, nil
}

// UpdateParams carries the fields accepted when updating a user. An empty
// Password leaves the current one in place.
type UpdateParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Locale    string
}

// Update replaces the profile fields of an existing user.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (user.User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	if params.Email == "" && params.Phone == "" {
		return user.User{}, apperrors.Validation("either email or phone is required")
	}
	if err := s.checkUniqueness(ctx, params.Email, params.Phone, id); err != nil {
		return user.User{}, err
	}

	current.FirstName = params.FirstName
	current.LastName = params.LastName
	current.Email = params.Email
	current.Phone = params.Phone
	current.Locale = params.Locale
	if params.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
		if err != nil {
			return user.User{}, apperrors.Internal(err)
		}
		current.PasswordHash = string(hash)
	}

	updated, err := s.users.UpdateUser(ctx, current)
	if err != nil {
		return user.User{}, apperrors.Internal(err)
	}

	s.logger.WithField("user_id", id).Info("user updated")
	return updated, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id string) (user.User, error) {
	got, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, apperrors.NotFound("user")
		}
		return user.User{}, apperrors.Internal(err)
	}
	return got, nil
}

// GetByEmail returns a user by email address.
func (s *Service) GetByEmail(ctx context.Context, email string) (user.User, error) {
	got, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, apperrors.NotFound("user")
		}
		return user.User{}, apperrors.Internal(err)
	}
	return got, nil
}

// GetByPhone returns a user by phone number.
func (s *Service) GetByPhone(ctx context.Context, phone string) (user.User, error) {
	got, err := s.users.GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, apperrors.NotFound("user")
		}
		return user.User{}, apperrors.Internal(err)
	}
	return got, nil
}

// List returns all users, including soft-deleted ones.
func (s *Service) List(ctx context.Context) ([]user.User, error) {
	list, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

// Delete soft-deletes a user. The account can no longer log in but stays
// retrievable by id.
func (s *Service) Delete(ctx context.Context, id string) (user.User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	now := time.Now().UTC()
	current.DeleteDate = &now
	updated, err := s.users.UpdateUser(ctx, current)
	if err != nil {
		return user.User{}, apperrors.Internal(err)
	}

	s.logger.WithField("user_id", id).Info("user deleted")
	return updated, nil
}

// ChangeRole sets the role of a user.
func (s *Service) ChangeRole(ctx context.Context, id string, role user.Role) (user.User, error) {
	if role != user.RoleStaff && role != user.RoleAdmin {
		return user.User{}, apperrors.Validation("invalid role")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	current.Role = role
	updated, err := s.users.UpdateUser(ctx, current)
	if err != nil {
		return user.User{}, apperrors.Internal(err)
	}

	s.logger.WithField("user_id", id).WithField("role", int(role)).Info("user role changed")
	return updated, nil
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	User      user.User
	Token     string
	ExpiresAt time.Time
}

// Login authenticates a user by email or phone and returns a signed staff
// token. Soft-deleted accounts are rejected.
func (s *Service) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	if identifier == "" || password == "" {
		return LoginResult{}, apperrors.Validation("identifier and password are required")
	}

	u, err := s.users.GetUserByEmail(ctx, identifier)
	if errors.Is(err, storage.ErrNotFound) {
		u, err = s.users.GetUserByPhone(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return LoginResult{}, apperrors.Unauthorized("invalid credentials")
		}
		return LoginResult{}, apperrors.Internal(err)
	}
	if u.Deleted() {
		return LoginResult{}, apperrors.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, apperrors.Unauthorized("invalid credentials")
	}

	token, expires, err := s.tokens.IssueStaff(u)
	if err != nil {
		return LoginResult{}, apperrors.Internal(err)
	}

	s.logger.WithField("user_id", u.ID).Info("user logged in")
	return LoginResult{User: u, Token: token, ExpiresAt: expires}, nil
}

func (s *Service) checkUniqueness(ctx context.Context, email, phone, selfID string) error {
	if email != "" {
		existing, err := s.users.GetUserByEmail(ctx, email)
		if err == nil && existing.ID != selfID {
			return apperrors.Conflict("email is already in use")
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return apperrors.Internal(err)
		}
	}
	if phone != "" {
		existing, err := s.users.GetUserByPhone(ctx, phone)
		if err == nil && existing.ID != selfID {
			return apperrors.Conflict("phone is already in use")
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return apperrors.Internal(err)
		}
	}
	return nil
}
