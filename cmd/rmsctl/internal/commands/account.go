package commands

import (
	"context"
	"fmt"

	"github.com/crglab/rmsctl/internal/rms"
)

// AccountCmd covers the caller's own profile and password.
type AccountCmd struct {
	Profile        AccountProfileCmd        `cmd:"" help:"Show your profile"`
	Update         AccountUpdateCmd         `cmd:"" help:"Update your profile"`
	ChangePassword AccountChangePasswordCmd `cmd:"" name:"change-password" help:"Change your password"`
}

// AccountProfileCmd shows the authoritative profile record.
type AccountProfileCmd struct{}

func (c *AccountProfileCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	profile, err := app.client.Account.Profile(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Username: %s\n", profile.Username)
	fmt.Printf("Name:     %s %s\n", profile.FirstName, profile.LastName)
	fmt.Printf("Email:    %s\n", profile.Email)
	fmt.Printf("Role:     %s\n", profile.Role)

	return nil
}

// AccountUpdateCmd patches the caller's own record.
type AccountUpdateCmd struct {
	Email     string `help:"New email address"`
	FirstName string `help:"New first name"`
	LastName  string `help:"New last name"`
}

func (c *AccountUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	user, err := app.requireUser(ctx)
	if err != nil {
		return err
	}

	updated, err := app.client.Account.UpdateProfile(ctx, user.ID, rms.ProfileInput{
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Profile updated for %s.\n", updated.Username)
	return nil
}

// AccountChangePasswordCmd changes the caller's password.
type AccountChangePasswordCmd struct {
	Current string `help:"Current password" required:"" env:"RMSCTL_CURRENT_PASSWORD"`
	New     string `help:"New password" required:"" env:"RMSCTL_NEW_PASSWORD"`
}

func (c *AccountChangePasswordCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Account.ChangePassword(ctx, c.Current, c.New); err != nil {
		return err
	}

	fmt.Println("Password changed.")
	return nil
}
