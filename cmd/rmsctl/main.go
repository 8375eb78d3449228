package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/crglab/rmsctl/cmd/rmsctl/internal/commands"
	"github.com/crglab/rmsctl/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Login         commands.LoginCmd         `cmd:"" help:"Log in to the RMS backend"`
		Logout        commands.LogoutCmd        `cmd:"" help:"Log out and clear the stored session"`
		Whoami        commands.WhoamiCmd        `cmd:"" help:"Show the logged-in user"`
		Proposals     commands.ProposalsCmd     `cmd:"" help:"Manage research proposals"`
		Projects      commands.ProjectsCmd      `cmd:"" help:"Manage projects and progress"`
		Notifications commands.NotificationsCmd `cmd:"" help:"Manage notifications"`
		Users         commands.UsersCmd         `cmd:"" help:"Manage user accounts"`
		Account       commands.AccountCmd       `cmd:"" help:"Manage your own profile and password"`
		Website       commands.WebsiteCmd       `cmd:"" help:"Manage public website content"`
		Stats         commands.StatsCmd         `cmd:"" help:"Show dashboard statistics"`
		Backup        commands.BackupCmd        `cmd:"" help:"Export and inspect backup archives"`

		Config  string `help:"Config file path" env:"RMSCTL_CONFIG"`
		Server  string `help:"Backend base URL (overrides config)" env:"RMSCTL_SERVER"`
		Debug   bool   `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	logger.Setup(cli.Debug)

	err := cmd.Run(&commands.Globals{
		Debug:   cli.Debug,
		Config:  cli.Config,
		Server:  cli.Server,
		Version: version,
	})
	cmd.FatalIfErrorf(err)
}
