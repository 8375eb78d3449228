package rms

import (
	"context"
	"fmt"

	"github.com/crglab/rmsctl/internal/gateway"
)

// StatsService serves the aggregate counters behind the dashboards.
type StatsService struct {
	gw *gateway.Gateway
}

// Dashboard returns the counters visible to the caller's role.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := s.gw.Get(ctx, "/rms/dashboard-stats/", &stats); err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard stats: %w", err)
	}
	return &stats, nil
}
