package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("username or email already exists")
	ErrForbidden          = errors.New("permission denied")
	ErrAdminRequired      = fmt.Errorf("admin access required: %w", ErrForbidden)
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrValidation         = errors.New("validation failed")
)

// NotFoundError names the missing resource. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Resource, e.ID) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Detail is the short client-facing message, e.g. "Task not found".
func (e *NotFoundError) Detail() string {
	return strings.ToUpper(e.Resource[:1]) + e.Resource[1:] + " not found"
}

func notFound(resource, id string) error { return &NotFoundError{Resource: resource, ID: id} }
