package rms

import (
	"context"
	"fmt"

	"github.com/crglab/rmsctl/internal/gateway"
)

// ProjectsService tracks approved projects and their progress updates.
type ProjectsService struct {
	gw *gateway.Gateway
}

// List returns all projects visible to the caller.
func (s *ProjectsService) List(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := s.gw.Get(ctx, "/rms/projects/", &projects); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ListProgress returns all progress updates. The backend does not filter by
// project, so callers filter client side; ProgressFor does that.
func (s *ProjectsService) ListProgress(ctx context.Context) ([]ProgressUpdate, error) {
	var updates []ProgressUpdate
	if err := s.gw.Get(ctx, "/rms/progress/", &updates); err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return updates, nil
}

// ProgressFor returns the progress updates belonging to one project.
func (s *ProjectsService) ProgressFor(ctx context.Context, projectID int64) ([]ProgressUpdate, error) {
	updates, err := s.ListProgress(ctx)
	if err != nil {
		return nil, err
	}

	filtered := updates[:0]
	for _, u := range updates {
		if u.Project == projectID {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// ProgressInput carries a new milestone entry.
type ProgressInput struct {
	Project     int64  `json:"project"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Phase       string `json:"phase,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
}

// AddProgress records a new progress update against a project.
func (s *ProjectsService) AddProgress(ctx context.Context, in ProgressInput) (*ProgressUpdate, error) {
	var update ProgressUpdate
	if err := s.gw.Post(ctx, "/rms/progress/", in, &update); err != nil {
		return nil, fmt.Errorf("failed to add progress: %w", err)
	}
	return &update, nil
}

// CompleteProgress marks a progress update as done.
func (s *ProjectsService) CompleteProgress(ctx context.Context, progressID int64) error {
	path := fmt.Sprintf("/rms/progress/%d/mark_complete/", progressID)
	if err := s.gw.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("failed to complete progress %d: %w", progressID, err)
	}
	return nil
}

// PercentComplete computes the share of completed updates, for progress bars
// and CLI summaries. Returns 0 for a project with no updates.
func PercentComplete(updates []ProgressUpdate) int {
	if len(updates) == 0 {
		return 0
	}
	done := 0
	for _, u := range updates {
		if u.Completed {
			done++
		}
	}
	return done * 100 / len(updates)
}
