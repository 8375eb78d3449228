package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/crglab/rmsctl/internal/rms"
)

// NotificationsCmd manages the caller's notifications.
type NotificationsCmd struct {
	List    NotificationsListCmd    `cmd:"" help:"List notifications"`
	Read    NotificationsReadCmd    `cmd:"" help:"Mark a notification read"`
	ReadAll NotificationsReadAllCmd `cmd:"" name:"read-all" help:"Mark all notifications read"`
	Delete  NotificationsDeleteCmd  `cmd:"" help:"Delete a notification"`
	Watch   NotificationsWatchCmd   `cmd:"" help:"Poll for new notifications"`
}

// NotificationsListCmd lists notifications.
type NotificationsListCmd struct {
	Unread bool `help:"Show unread notifications only"`
}

func (c *NotificationsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	notifications, err := app.client.Notifications.List(ctx)
	if err != nil {
		return err
	}

	if c.Unread {
		filtered := notifications[:0]
		for _, n := range notifications {
			if !n.IsRead {
				filtered = append(filtered, n)
			}
		}
		notifications = filtered
	}

	if len(notifications) == 0 {
		fmt.Println("No notifications.")
		return nil
	}

	printNotifications(notifications)
	return nil
}

// NotificationsReadCmd marks one notification read.
type NotificationsReadCmd struct {
	ID int64 `arg:"" help:"Notification ID"`
}

func (c *NotificationsReadCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Notifications.MarkRead(ctx, c.ID); err != nil {
		return err
	}

	fmt.Printf("Notification %d marked read.\n", c.ID)
	return nil
}

// NotificationsReadAllCmd marks every unread notification read.
type NotificationsReadAllCmd struct{}

func (c *NotificationsReadAllCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	marked, err := app.client.Notifications.MarkAllRead(ctx)
	if err != nil {
		return fmt.Errorf("marked %d before failing: %w", marked, err)
	}

	fmt.Printf("Marked %d notification(s) read.\n", marked)
	return nil
}

// NotificationsDeleteCmd deletes a notification.
type NotificationsDeleteCmd struct {
	ID int64 `arg:"" help:"Notification ID"`
}

func (c *NotificationsDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Notifications.Delete(ctx, c.ID); err != nil {
		return err
	}

	fmt.Printf("Notification %d deleted.\n", c.ID)
	return nil
}

// NotificationsWatchCmd polls for new notifications. Retrying a failed poll
// is this command's concern, not the gateway's; transient errors back off
// exponentially before the poll is abandoned.
type NotificationsWatchCmd struct {
	Interval time.Duration `help:"Poll interval" default:"30s"`
}

func (c *NotificationsWatchCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	fmt.Println("Watching notifications (press Ctrl+C to stop)...")

	var lastSeen int64

	poll := func() error {
		notifications, err := backoff.Retry(ctx, func() ([]rms.Notification, error) {
			return app.client.Notifications.List(ctx)
		}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(5))
		if err != nil {
			return err
		}

		for i := len(notifications) - 1; i >= 0; i-- {
			n := notifications[i]
			if n.ID <= lastSeen || n.IsRead {
				continue
			}
			fmt.Printf("[%s] #%d %s\n", n.CreatedAt.Format("15:04:05"), n.ID, n.Message)
		}
		for _, n := range notifications {
			if n.ID > lastSeen {
				lastSeen = n.ID
			}
		}
		return nil
	}

	if err := poll(); err != nil {
		return err
	}

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := poll(); err != nil {
				return err
			}
		}
	}
}

func printNotifications(notifications []rms.Notification) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMESSAGE\tTYPE\tREAD\tCREATED")
	for _, n := range notifications {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			n.ID, truncate(n.Message, 60), n.NotificationType, boolMark(n.IsRead),
			n.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
}
