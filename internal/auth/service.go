package auth

import (
	"context"
	"errors"
	"fmt"

	"kanwiki/internal/common"
	"kanwiki/internal/models"
)

// NewUser builds a user record with a freshly derived password hash. It
// neither persists the user nor checks that the name is free.
func NewUser(scheme Scheme, name, password, email string) (*models.User, error) {
	pwHash, err := HashWith(scheme, name, password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:   name,
		PwHash: pwHash,
	}
	if email != "" {
		user.Email = &email
	}
	return user, nil
}

// Service provides user registration and authentication.
type Service struct {
	Repo   *Repository
	Scheme Scheme
}

// NewService creates a new authentication service.
func NewService(repo *Repository, scheme Scheme) *Service {
	if scheme == "" {
		scheme = SchemeSaltedSHA256
	}
	return &Service{Repo: repo, Scheme: scheme}
}

// Register creates a new user. A taken name returns common.ErrAlreadyExists,
// whether it is caught by the lookup or by the unique index on insert.
func (s *Service) Register(ctx context.Context, name, password, email string) (*models.User, error) {
	if _, err := s.Repo.FindByName(ctx, name); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	user, err := NewUser(s.Scheme, name, password, email)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user whose name and password match. Unknown names
// and wrong passwords both return common.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, name, password string) (*models.User, error) {
	user, err := s.Repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(name, password, user.PwHash) {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}
