package rms

import (
	"context"
	"fmt"

	"github.com/crglab/rmsctl/internal/gateway"
)

// AccountService covers the current user's own profile and password.
type AccountService struct {
	gw *gateway.Gateway
}

// Profile returns the authoritative record for the current credential.
func (s *AccountService) Profile(ctx context.Context) (*ManagedUser, error) {
	var user ManagedUser
	if err := s.gw.Get(ctx, "/rms/auth/profile/", &user); err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &user, nil
}

// ProfileInput carries the self-service editable fields.
type ProfileInput struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UpdateProfile patches the caller's own record. The profile endpoint moved
// between deployments, so the known locations are tried in order.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*ManagedUser, error) {
	candidates := []string{
		fmt.Sprintf("/rms/users/%d/", userID),
		fmt.Sprintf("/auth/users/%d/", userID),
		fmt.Sprintf("/api/users/%d/", userID),
	}

	attempts := make([]gateway.Attempt[*ManagedUser], 0, len(candidates))
	for _, path := range candidates {
		attempts = append(attempts, gateway.Attempt[*ManagedUser]{
			Name: path,
			Call: func(ctx context.Context) (*ManagedUser, error) {
				var user ManagedUser
				if err := s.gw.Patch(ctx, path, in, &user); err != nil {
					return nil, err
				}
				return &user, nil
			},
		})
	}

	user, err := gateway.TryInOrder(ctx, "update profile", attempts...)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ChangePassword updates the caller's password. Two endpoint generations
// exist with slightly different payloads; both candidates are declared in
// order rather than guessed at with nested error handling.
func (s *AccountService) ChangePassword(ctx context.Context, current, next string) error {
	_, err := gateway.TryInOrder(ctx, "change password",
		gateway.Attempt[struct{}]{
			Name: "/rms/auth/change-password/",
			Call: func(ctx context.Context) (struct{}, error) {
				body := map[string]string{
					"current_password": current,
					"new_password":     next,
				}
				return struct{}{}, s.gw.Post(ctx, "/rms/auth/change-password/", body, nil)
			},
		},
		gateway.Attempt[struct{}]{
			Name: "/auth/change-password/",
			Call: func(ctx context.Context) (struct{}, error) {
				body := map[string]string{
					"current_password": current,
					"new_password":     next,
					"confirm_password": next,
				}
				return struct{}{}, s.gw.Post(ctx, "/auth/change-password/", body, nil)
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}
