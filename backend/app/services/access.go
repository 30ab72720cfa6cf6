package services

import (
	"context"
	"errors"

	jwtutil "taskmanager/backend/app/jwt"
	"taskmanager/backend/app/models"
	"taskmanager/backend/app/repo"
)

// AccessPolicy turns bearer tokens into callers and gates role- and
// ownership-restricted operations.
type AccessPolicy struct {
	signer *jwtutil.Signer
	users  repo.UserStore
}

func NewAccessPolicy(signer *jwtutil.Signer, users repo.UserStore) *AccessPolicy {
	return &AccessPolicy{signer: signer, users: users}
}

// ResolveCaller verifies token and loads its subject. The active flag is not
// consulted here: a user deactivated after login keeps access until the token
// expires.
func (p *AccessPolicy) ResolveCaller(ctx context.Context, token string) (*models.User, error) {
	sub, err := p.signer.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := p.users.FindByID(ctx, sub)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func RequireAdmin(caller *models.User) (*models.User, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminRequired
	}
	return caller, nil
}

// FilterTaskUpdate applies the field-level update rules for caller on task.
// Admins keep every field. The assignee keeps only Status; other fields are
// dropped silently. Anyone else is refused before any filtering.
func FilterTaskUpdate(caller *models.User, task *models.Task, in UpdateTaskInput) (UpdateTaskInput, error) {
	if caller.IsAdmin() {
		return in, nil
	}
	if caller == nil || caller.ID != task.AssignedTo {
		return UpdateTaskInput{}, ErrForbidden
	}
	return UpdateTaskInput{Status: in.Status}, nil
}
