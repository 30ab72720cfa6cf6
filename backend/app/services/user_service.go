package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskmanager/backend/app/models"
	"taskmanager/backend/app/password"
	"taskmanager/backend/app/repo"
	"taskmanager/backend/global"

	"github.com/google/uuid"
)

// ListLimit caps every list and enrichment read.
const ListLimit = 1000

type CreateUserInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Role     string
}

// UpdateUserInput carries only the fields present in the request. Passwords
// cannot be changed through it.
type UpdateUserInput struct {
	Username *string
	Email    *string
	FullName *string
	Role     *string
	IsActive *bool
}

type UserService struct {
	users repo.UserStore
	Now   func() time.Time
}

func NewUserService(users repo.UserStore) *UserService {
	return &UserService{users: users, Now: time.Now}
}

func validRole(role string) bool { return role == models.RoleAdmin || role == models.RoleUser }

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !validRole(in.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
	}
	taken, err := s.users.Taken(ctx, in.Username, in.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Role:         in.Role,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    s.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	global.Logger.Info().Str("user_id", u.ID).Str("username", u.Username).Str("role", u.Role).Msg("user created")
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("user", id)
	}
	return u, err
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx, ListLimit)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	fields := repo.Fields{}
	var username, email string
	if in.Username != nil {
		username = *in.Username
		fields["username"] = username
	}
	if in.Email != nil {
		email = *in.Email
		fields["email"] = email
	}
	if in.FullName != nil {
		fields["full_name"] = *in.FullName
	}
	if in.Role != nil {
		if !validRole(*in.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *in.Role)
		}
		fields["role"] = *in.Role
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}
	taken, err := s.users.Taken(ctx, username, email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict
	}
	if err := s.users.Update(ctx, id, fields); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrConflict
		case errors.Is(err, repo.ErrNotFound):
			return nil, notFound("user", id)
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the user only; tasks that reference it are left in place.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("user", id)
		}
		return err
	}
	global.Logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// Authenticate checks credentials and the active flag. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, plain string) (*models.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !password.Verify(plain, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	return u, nil
}

type AdminSeed struct {
	Username string
	Email    string
	FullName string
	Password string
}

// EnsureAdmin creates the seed admin unless some user already holds the admin
// role. It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	exists, err := s.users.ExistsByRole(ctx, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	u, err := s.Create(ctx, CreateUserInput{
		Username: seed.Username,
		Email:    seed.Email,
		FullName: seed.FullName,
		Password: seed.Password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	global.Logger.Info().Str("user_id", u.ID).Str("username", u.Username).Msg("admin user created")
	return true, nil
}
