package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/crglab/rmsctl/internal/rms"
)

// ProjectsCmd tracks projects and their progress updates.
type ProjectsCmd struct {
	List     ProjectsListCmd     `cmd:"" help:"List projects"`
	Progress ProjectsProgressCmd `cmd:"" help:"List progress for a project"`
	Add      ProgressAddCmd      `cmd:"" help:"Add a progress update"`
	Complete ProgressCompleteCmd `cmd:"" help:"Mark a progress update complete"`
}

// ProjectsListCmd lists projects with their completion percentage.
type ProjectsListCmd struct{}

func (c *ProjectsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	projects, err := app.client.Projects.List(ctx)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	updates, err := app.client.Projects.ListProgress(ctx)
	if err != nil {
		return err
	}
	byProject := make(map[int64][]rms.ProgressUpdate)
	for _, u := range updates {
		byProject[u.Project] = append(byProject[u.Project], u)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tSTART\tPROGRESS")
	for _, p := range projects {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d%%\n",
			p.ID, truncate(p.ProposalTitle, 40), p.Status, p.StartDate,
			rms.PercentComplete(byProject[p.ID]))
	}
	w.Flush()

	return nil
}

// ProjectsProgressCmd lists the progress updates of one project.
type ProjectsProgressCmd struct {
	ID int64 `arg:"" help:"Project ID"`
}

func (c *ProjectsProgressCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	updates, err := app.client.Projects.ProgressFor(ctx, c.ID)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		fmt.Println("No progress recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPHASE\tDEADLINE\tDONE")
	for _, u := range updates {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			u.ID, truncate(u.Title, 40), u.Phase, u.Deadline, boolMark(u.Completed))
	}
	w.Flush()

	fmt.Printf("\n%d%% complete\n", rms.PercentComplete(updates))

	return nil
}

// ProgressAddCmd records a new progress update against a project.
type ProgressAddCmd struct {
	Project     int64  `arg:"" help:"Project ID"`
	Title       string `help:"Update title" required:""`
	Description string `help:"Update description"`
	Phase       string `help:"Project phase"`
	Notes       string `help:"Additional notes"`
	Deadline    string `help:"Deadline (YYYY-MM-DD)"`
}

func (c *ProgressAddCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	update, err := app.client.Projects.AddProgress(ctx, rms.ProgressInput{
		Project:     c.Project,
		Title:       c.Title,
		Description: c.Description,
		Phase:       c.Phase,
		Notes:       c.Notes,
		Deadline:    c.Deadline,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Progress update %d recorded.\n", update.ID)
	return nil
}

// ProgressCompleteCmd marks a progress update as done.
type ProgressCompleteCmd struct {
	ID int64 `arg:"" help:"Progress update ID"`
}

func (c *ProgressCompleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Projects.CompleteProgress(ctx, c.ID); err != nil {
		return err
	}

	fmt.Printf("Progress update %d marked complete.\n", c.ID)
	return nil
}
