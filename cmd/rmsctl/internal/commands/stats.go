package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/crglab/rmsctl/internal/session"
)

// StatsCmd prints the dashboard counters for the signed-in user.
type StatsCmd struct{}

func (c *StatsCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	user, err := app.requireUser(ctx)
	if err != nil {
		return err
	}

	stats, err := app.client.Stats.Dashboard(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if user.Role == session.RoleStaff {
		fmt.Fprintf(w, "My proposals\t%d\n", stats.MyProposals)
		fmt.Fprintf(w, "Approved\t%d\n", stats.ApprovedMyProposals)
		fmt.Fprintf(w, "Pending\t%d\n", stats.PendingMyProposals)
		fmt.Fprintf(w, "My projects\t%d\n", stats.MyProjects)
		fmt.Fprintf(w, "Active\t%d\n", stats.ActiveMyProjects)
	} else {
		fmt.Fprintf(w, "Pending proposals\t%d\n", stats.PendingProposals)
		fmt.Fprintf(w, "Active projects\t%d\n", stats.ActiveProjects)
		fmt.Fprintf(w, "Total projects\t%d\n", stats.TotalProjects)
		fmt.Fprintf(w, "Staff\t%d\n", stats.StaffCount)
	}
	w.Flush()

	return nil
}
