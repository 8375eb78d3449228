package rms

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/crglab/rmsctl/internal/gateway"
)

// ProposalsService handles the proposal submission and approval workflow.
type ProposalsService struct {
	gw *gateway.Gateway
}

// List returns all proposals visible to the caller.
func (s *ProposalsService) List(ctx context.Context) ([]Proposal, error) {
	var proposals []Proposal
	if err := s.gw.Get(ctx, "/rms/proposals/", &proposals); err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, nil
}

// Get returns one proposal by id.
func (s *ProposalsService) Get(ctx context.Context, id int64) (*Proposal, error) {
	var proposal Proposal
	if err := s.gw.Get(ctx, fmt.Sprintf("/rms/proposals/%d/", id), &proposal); err != nil {
		return nil, fmt.Errorf("failed to get proposal %d: %w", id, err)
	}
	return &proposal, nil
}

// SubmitInput carries the fields of a new proposal. Attachment is optional.
type SubmitInput struct {
	Title           string
	Category        string
	Abstract        string
	Budget          string
	DurationMonths  int
	IsClientRequest bool

	// Client details, sent only for client-requested proposals.
	ClientOrganization string
	ClientEmail        string
	ClientPhone        string

	// Attachment file, usually the full proposal PDF.
	FileName string
	File     io.Reader
}

// Submit creates a new proposal. The backend expects multipart form data
// because of the attachment.
func (s *ProposalsService) Submit(ctx context.Context, in SubmitInput) (*Proposal, error) {
	budget := in.Budget
	if budget == "" {
		budget = "50000.00"
	}
	duration := in.DurationMonths
	if duration == 0 {
		duration = 12
	}

	fields := map[string]string{
		"title":             in.Title,
		"category":          in.Category,
		"abstract":          in.Abstract,
		"budget":            budget,
		"duration_months":   strconv.Itoa(duration),
		"is_client_request": strconv.FormatBool(in.IsClientRequest),
	}
	if in.IsClientRequest {
		fields["client_organization"] = in.ClientOrganization
		fields["client_email"] = in.ClientEmail
		fields["client_phone"] = in.ClientPhone
	}

	var files []gateway.File
	if in.File != nil {
		files = append(files, gateway.File{Field: "file", Name: in.FileName, Content: in.File})
	}

	var proposal Proposal
	if err := s.gw.PostForm(ctx, "/rms/proposals/", fields, files, &proposal); err != nil {
		return nil, fmt.Errorf("failed to submit proposal: %w", err)
	}
	return &proposal, nil
}

// Approve moves a proposal to the approved state.
func (s *ProposalsService) Approve(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/rms/proposals/%d/approve/", id)
	if err := s.gw.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("failed to approve proposal %d: %w", id, err)
	}
	return nil
}

// Reject moves a proposal to the rejected state with reviewer notes.
func (s *ProposalsService) Reject(ctx context.Context, id int64, notes string) error {
	path := fmt.Sprintf("/rms/proposals/%d/reject/", id)
	body := map[string]string{"notes": notes}
	if err := s.gw.Post(ctx, path, body, nil); err != nil {
		return fmt.Errorf("failed to reject proposal %d: %w", id, err)
	}
	return nil
}
