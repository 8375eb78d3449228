package rms

import (
	"context"
	"fmt"

	"github.com/crglab/rmsctl/internal/gateway"
)

// UsersService is the admin-facing account management surface.
type UsersService struct {
	gw *gateway.Gateway
}

// List returns all accounts.
func (s *UsersService) List(ctx context.Context) ([]ManagedUser, error) {
	var users []ManagedUser
	if err := s.gw.Get(ctx, "/rms/users/", &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get returns one account by id.
func (s *UsersService) Get(ctx context.Context, id int64) (*ManagedUser, error) {
	var user ManagedUser
	if err := s.gw.Get(ctx, fmt.Sprintf("/rms/users/%d/", id), &user); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// UserInput carries the writable account fields.
type UserInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role"`
	Password  string `json:"password,omitempty"`
}

// Create registers a new account.
func (s *UsersService) Create(ctx context.Context, in UserInput) (*ManagedUser, error) {
	var user ManagedUser
	if err := s.gw.Post(ctx, "/rms/users/", in, &user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Update replaces an account's writable fields.
func (s *UsersService) Update(ctx context.Context, id int64, in UserInput) (*ManagedUser, error) {
	var user ManagedUser
	if err := s.gw.Put(ctx, fmt.Sprintf("/rms/users/%d/", id), in, &user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return &user, nil
}

// Delete removes an account.
func (s *UsersService) Delete(ctx context.Context, id int64) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/rms/users/%d/", id)); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}
