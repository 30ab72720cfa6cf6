package services

import (
	"context"
	"fmt"

	jwtutil "taskmanager/backend/app/jwt"
	"taskmanager/backend/app/models"
)

type AuthService struct {
	users  *UserService
	signer *jwtutil.Signer
}

func NewAuthService(users *UserService, signer *jwtutil.Signer) *AuthService {
	return &AuthService{users: users, signer: signer}
}

// Register is open to anyone and goes through the same path as admin user
// creation, including the optional role.
func (s *AuthService) Register(ctx context.Context, in CreateUserInput) (*models.User, error) {
	return s.users.Create(ctx, in)
}

func (s *AuthService) Login(ctx context.Context, username, plain string) (string, *models.User, error) {
	u, err := s.users.Authenticate(ctx, username, plain)
	if err != nil {
		return "", nil, err
	}
	token, err := s.signer.Sign(u.ID, 0)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, u, nil
}
