package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/crglab/rmsctl/internal/session"
)

// LoginCmd authenticates against the backend and stores the session.
type LoginCmd struct {
	Username string `arg:"" help:"Account username"`
	Password string `help:"Account password (prompted when omitted)" env:"RMSCTL_PASSWORD"`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	password := c.Password
	if password == "" {
		fmt.Print("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimSpace(line)
	}

	user, err := app.session.Login(ctx, c.Username, password)
	if err != nil {
		var loginErr *session.LoginError
		if errors.As(err, &loginErr) {
			return errors.New(loginErr.Message)
		}
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", user.Username, roleLabel(user))
	if user.Degraded {
		fmt.Println()
		fmt.Println("Warning: your role could not be confirmed by the backend and was")
		fmt.Println("defaulted to staff. Privileged operations may be refused.")
	}

	return nil
}

// LogoutCmd clears the stored session. Local only; no backend call.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	app.session.Logout()
	fmt.Println("Logged out.")
	return nil
}

// WhoamiCmd shows the logged-in user restored from the stored credential.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	user, err := app.session.Initialize(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("User:  %s (#%d)\n", user.Username, user.ID)
	fmt.Printf("Name:  %s\n", user.FullName())
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Role:  %s\n", roleLabel(user))

	if cred, err := app.store.Load(); err == nil {
		fmt.Printf("Token: %s\n", truncate(session.Fingerprint(cred.Access), 15))
	}

	return nil
}
