package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/crglab/rmsctl/internal/backup"
)

// BackupCmd exports and inspects offline snapshots of the managed data.
type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Export a snapshot archive"`
	Inspect BackupInspectCmd `cmd:"" help:"Verify and summarise an archive"`
}

type BackupCreateCmd struct {
	Output string `short:"o" help:"Archive file to write" default:"rms-backup.json.gz"`
}

func (c *BackupCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	archive := backup.NewExporter(app.client).Snapshot(ctx)

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.Output, err)
	}
	defer f.Close()

	if err := backup.Write(f, archive); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", c.Output, err)
	}

	fmt.Printf("Wrote %s: %d users, %d proposals, %d projects, %d progress updates.\n",
		c.Output, len(archive.Users), len(archive.Proposals), len(archive.Projects), len(archive.Progress))
	return nil
}

type BackupInspectCmd struct {
	File string `arg:"" help:"Archive file to inspect" type:"existingfile"`
}

func (c *BackupInspectCmd) Run(ctx context.Context, globals *Globals) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.File, err)
	}
	defer f.Close()

	archive, err := backup.Read(f)
	if err != nil {
		return err
	}

	fmt.Printf("Archive version %d, created %s\n", archive.Version, archive.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("  Users:            %d\n", len(archive.Users))
	fmt.Printf("  Proposals:        %d\n", len(archive.Proposals))
	fmt.Printf("  Projects:         %d\n", len(archive.Projects))
	fmt.Printf("  Progress updates: %d\n", len(archive.Progress))

	return nil
}
