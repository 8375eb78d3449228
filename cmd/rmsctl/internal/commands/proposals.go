package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/crglab/rmsctl/internal/rms"
)

// ProposalsCmd manages the proposal workflow.
type ProposalsCmd struct {
	List    ProposalsListCmd    `cmd:"" help:"List proposals"`
	Show    ProposalsShowCmd    `cmd:"" help:"Show one proposal"`
	Submit  ProposalsSubmitCmd  `cmd:"" help:"Submit a new proposal"`
	Approve ProposalsApproveCmd `cmd:"" help:"Approve a pending proposal"`
	Reject  ProposalsRejectCmd  `cmd:"" help:"Reject a pending proposal"`
}

// ProposalsListCmd lists proposals, optionally filtered by status.
type ProposalsListCmd struct {
	Status string `help:"Filter by status (pending, under_review, approved, rejected)"`
}

func (c *ProposalsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	proposals, err := app.client.Proposals.List(ctx)
	if err != nil {
		return err
	}

	if c.Status != "" {
		filtered := proposals[:0]
		for _, p := range proposals {
			if p.Status == c.Status {
				filtered = append(filtered, p)
			}
		}
		proposals = filtered
	}

	if len(proposals) == 0 {
		fmt.Println("No proposals found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tSTATUS\tSUBMITTED BY\tSUBMITTED")
	for _, p := range proposals {
		submitter := p.SubmittedByName
		if submitter == "" {
			submitter = p.SubmittedByUsername
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, truncate(p.Title, 40), p.Category, p.Status, submitter, p.DateSubmitted)
	}
	w.Flush()

	return nil
}

// ProposalsShowCmd shows the full detail of one proposal.
type ProposalsShowCmd struct {
	ID int64 `arg:"" help:"Proposal ID"`
}

func (c *ProposalsShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	p, err := app.client.Proposals.Get(ctx, c.ID)
	if err != nil {
		return err
	}

	fmt.Printf("ID:        %d\n", p.ID)
	fmt.Printf("Title:     %s\n", p.Title)
	fmt.Printf("Category:  %s\n", p.Category)
	fmt.Printf("Status:    %s\n", p.Status)
	fmt.Printf("Budget:    %s\n", p.Budget)
	fmt.Printf("Duration:  %d months\n", p.DurationMonths)
	if p.SubmittedByName != "" {
		fmt.Printf("Submitted: %s (%s)\n", p.SubmittedByName, p.DateSubmitted)
	}
	if p.IsClientRequest {
		fmt.Printf("Client:    %s <%s> %s\n", p.ClientOrganization, p.ClientEmail, p.ClientPhone)
	}
	if p.Notes != "" {
		fmt.Printf("Notes:     %s\n", p.Notes)
	}
	if p.Abstract != "" {
		fmt.Printf("\n%s\n", p.Abstract)
	}

	return nil
}

// ProposalsSubmitCmd submits a new proposal, optionally with a PDF attachment.
type ProposalsSubmitCmd struct {
	Title          string `help:"Proposal title" required:""`
	Category       string `help:"Proposal category" required:""`
	Abstract       string `help:"Proposal abstract" required:""`
	Budget         string `help:"Requested budget" default:""`
	DurationMonths int    `help:"Duration in months" default:"12"`
	File           string `help:"Path to the proposal document" type:"existingfile"`

	ClientRequest      bool   `help:"Mark as a client-requested proposal"`
	ClientOrganization string `help:"Client organization"`
	ClientEmail        string `help:"Client contact email"`
	ClientPhone        string `help:"Client contact phone"`
}

func (c *ProposalsSubmitCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	in := rms.SubmitInput{
		Title:              c.Title,
		Category:           c.Category,
		Abstract:           c.Abstract,
		Budget:             c.Budget,
		DurationMonths:     c.DurationMonths,
		IsClientRequest:    c.ClientRequest,
		ClientOrganization: c.ClientOrganization,
		ClientEmail:        c.ClientEmail,
		ClientPhone:        c.ClientPhone,
	}

	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open proposal file: %w", err)
		}
		defer f.Close()
		in.File = f
		in.FileName = filepath.Base(c.File)
	}

	proposal, err := app.client.Proposals.Submit(ctx, in)
	if err != nil {
		return err
	}

	fmt.Printf("Proposal submitted with ID %d (status: %s)\n", proposal.ID, proposal.Status)
	return nil
}

// ProposalsApproveCmd approves a proposal. Heads and admins only; the
// backend enforces authorization.
type ProposalsApproveCmd struct {
	ID int64 `arg:"" help:"Proposal ID"`
}

func (c *ProposalsApproveCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Proposals.Approve(ctx, c.ID); err != nil {
		return err
	}

	fmt.Printf("Proposal %d approved.\n", c.ID)
	return nil
}

// ProposalsRejectCmd rejects a proposal with reviewer notes.
type ProposalsRejectCmd struct {
	ID    int64  `arg:"" help:"Proposal ID"`
	Notes string `help:"Reason for rejection" required:""`
}

func (c *ProposalsRejectCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Proposals.Reject(ctx, c.ID, c.Notes); err != nil {
		return err
	}

	fmt.Printf("Proposal %d rejected.\n", c.ID)
	return nil
}
