package rms

import "github.com/crglab/rmsctl/internal/gateway"

// Client groups the typed RMS resource services over a shared gateway.
type Client struct {
	Proposals     *ProposalsService
	Projects      *ProjectsService
	Notifications *NotificationsService
	Users         *UsersService
	Account       *AccountService
	Website       *WebsiteService
	Stats         *StatsService
}

// NewClient creates the resource services. All requests go through the
// gateway, which owns credential attachment and auth-failure handling.
func NewClient(gw *gateway.Gateway) *Client {
	return &Client{
		Proposals:     &ProposalsService{gw: gw},
		Projects:      &ProjectsService{gw: gw},
		Notifications: &NotificationsService{gw: gw},
		Users:         &UsersService{gw: gw},
		Account:       &AccountService{gw: gw},
		Website:       &WebsiteService{gw: gw},
		Stats:         &StatsService{gw: gw},
	}
}
