package rms

import (
	"context"
	"fmt"

	"github.com/crglab/rmsctl/internal/gateway"
)

// NotificationsService manages the caller's in-app notifications.
type NotificationsService struct {
	gw *gateway.Gateway
}

// List returns all notifications for the current user, newest first.
func (s *NotificationsService) List(ctx context.Context) ([]Notification, error) {
	var notifications []Notification
	if err := s.gw.Get(ctx, "/rms/notifications/", &notifications); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns how many notifications are unread.
func (s *NotificationsService) UnreadCount(ctx context.Context) (int, error) {
	notifications, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range notifications {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkRead flags one notification as read. Deployments differ on which
// endpoint serves this, so both candidates are declared in order: the PATCH
// on the resource itself, then the dedicated mark_read action.
func (s *NotificationsService) MarkRead(ctx context.Context, id int64) error {
	_, err := gateway.TryInOrder(ctx, "mark notification read",
		gateway.Attempt[struct{}]{
			Name: fmt.Sprintf("/rms/notifications/%d/", id),
			Call: func(ctx context.Context) (struct{}, error) {
				body := map[string]bool{"is_read": true}
				return struct{}{}, s.gw.Patch(ctx, fmt.Sprintf("/rms/notifications/%d/", id), body, nil)
			},
		},
		gateway.Attempt[struct{}]{
			Name: fmt.Sprintf("/rms/notifications/%d/mark_read/", id),
			Call: func(ctx context.Context) (struct{}, error) {
				return struct{}{}, s.gw.Post(ctx, fmt.Sprintf("/rms/notifications/%d/mark_read/", id), nil, nil)
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification %d read: %w", id, err)
	}
	return nil
}

// MarkAllRead flags every unread notification as read. Partial failure stops
// at the first error so the caller knows the state is incomplete.
func (s *NotificationsService) MarkAllRead(ctx context.Context) (int, error) {
	notifications, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, n := range notifications {
		if n.IsRead {
			continue
		}
		if err := s.MarkRead(ctx, n.ID); err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}

// Delete removes a notification.
func (s *NotificationsService) Delete(ctx context.Context, id int64) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/rms/notifications/%d/", id)); err != nil {
		return fmt.Errorf("failed to delete notification %d: %w", id, err)
	}
	return nil
}
