package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/crglab/rmsctl/internal/rms"
)

// UsersCmd is the admin account management surface.
type UsersCmd struct {
	List   UsersListCmd   `cmd:"" help:"List user accounts"`
	Show   UsersShowCmd   `cmd:"" help:"Show one user account"`
	Create UsersCreateCmd `cmd:"" help:"Create a user account"`
	Update UsersUpdateCmd `cmd:"" help:"Update a user account"`
	Delete UsersDeleteCmd `cmd:"" help:"Delete a user account"`
}

// UsersListCmd lists accounts.
type UsersListCmd struct {
	Role string `help:"Filter by role (staff, head, admin)"`
}

func (c *UsersListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	users, err := app.client.Users.List(ctx)
	if err != nil {
		return err
	}

	if c.Role != "" {
		filtered := users[:0]
		for _, u := range users {
			if u.Role == c.Role {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tEMAIL\tROLE\tACTIVE")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s %s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.FirstName, u.LastName, u.Email, u.Role, boolMark(u.IsActive))
	}
	w.Flush()

	return nil
}

// UsersShowCmd shows one account.
type UsersShowCmd struct {
	ID int64 `arg:"" help:"User ID"`
}

func (c *UsersShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	user, err := app.client.Users.Get(ctx, c.ID)
	if err != nil {
		return err
	}

	fmt.Printf("ID:       %d\n", user.ID)
	fmt.Printf("Username: %s\n", user.Username)
	fmt.Printf("Name:     %s %s\n", user.FirstName, user.LastName)
	fmt.Printf("Email:    %s\n", user.Email)
	fmt.Printf("Role:     %s\n", user.Role)
	fmt.Printf("Active:   %v\n", user.IsActive)

	return nil
}

// UsersCreateCmd creates an account.
type UsersCreateCmd struct {
	Username  string `arg:"" help:"Account username"`
	Email     string `help:"Account email" required:""`
	Role      string `help:"Account role" enum:"staff,head,admin" default:"staff"`
	FirstName string `help:"First name"`
	LastName  string `help:"Last name"`
	Password  string `help:"Initial password" required:"" env:"RMSCTL_NEW_PASSWORD"`
}

func (c *UsersCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	user, err := app.client.Users.Create(ctx, rms.UserInput{
		Username:  c.Username,
		Email:     c.Email,
		Role:      c.Role,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Password:  c.Password,
	})
	if err != nil {
		return err
	}

	fmt.Printf("User %s created with ID %d.\n", user.Username, user.ID)
	return nil
}

// UsersUpdateCmd replaces an account's writable fields.
type UsersUpdateCmd struct {
	ID        int64  `arg:"" help:"User ID"`
	Username  string `help:"Account username" required:""`
	Email     string `help:"Account email" required:""`
	Role      string `help:"Account role" enum:"staff,head,admin" required:""`
	FirstName string `help:"First name"`
	LastName  string `help:"Last name"`
}

func (c *UsersUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	user, err := app.client.Users.Update(ctx, c.ID, rms.UserInput{
		Username:  c.Username,
		Email:     c.Email,
		Role:      c.Role,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	})
	if err != nil {
		return err
	}

	fmt.Printf("User %s updated.\n", user.Username)
	return nil
}

// UsersDeleteCmd removes an account.
type UsersDeleteCmd struct {
	ID int64 `arg:"" help:"User ID"`
}

func (c *UsersDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Users.Delete(ctx, c.ID); err != nil {
		return err
	}

	fmt.Printf("User %d deleted.\n", c.ID)
	return nil
}
