package rms

import "time"

// Proposal states used by the backend workflow.
const (
	ProposalPending     = "pending"
	ProposalUnderReview = "under_review"
	ProposalApproved    = "approved"
	ProposalRejected    = "rejected"
)

// Proposal is a research proposal in the approval workflow.
type Proposal struct {
	ID                  int64  `json:"id"`
	Title               string `json:"title"`
	Category            string `json:"category"`
	Abstract            string `json:"abstract"`
	Status              string `json:"status"`
	Budget              string `json:"budget,omitempty"`
	DurationMonths      int    `json:"duration_months,omitempty"`
	File                string `json:"file,omitempty"`
	IsClientRequest     bool   `json:"is_client_request"`
	ClientOrganization  string `json:"client_organization,omitempty"`
	ClientEmail         string `json:"client_email,omitempty"`
	ClientPhone         string `json:"client_phone,omitempty"`
	Notes               string `json:"notes,omitempty"`
	SubmittedBy         int64  `json:"submitted_by,omitempty"`
	SubmittedByName     string `json:"submitted_by_name,omitempty"`
	SubmittedByUsername string `json:"submitted_by_username,omitempty"`
	DateSubmitted       string `json:"date_submitted,omitempty"`
}

// Project is an approved proposal being executed.
type Project struct {
	ID            int64     `json:"id"`
	ProposalID    int64     `json:"proposal,omitempty"`
	ProposalTitle string    `json:"proposal_title"`
	Status        string    `json:"status"`
	StartDate     string    `json:"start_date,omitempty"`
	EndDate       string    `json:"end_date,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// ProgressUpdate is a milestone entry against a project.
type ProgressUpdate struct {
	ID          int64  `json:"id"`
	Project     int64  `json:"project"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Phase       string `json:"phase,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	Completed   bool   `json:"completed"`
	IsOverdue   bool   `json:"is_overdue,omitempty"`
}

// Notification is an in-app notification addressed to the current user.
type Notification struct {
	ID               int64     `json:"id"`
	Message          string    `json:"message"`
	NotificationType string    `json:"notification_type,omitempty"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}

// ManagedUser is the management view of an account, richer than the
// session's own user representation.
type ManagedUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

// DashboardStats is the aggregate counters block backing the dashboards.
// The backend omits counters the caller's role cannot see.
type DashboardStats struct {
	PendingProposals    int `json:"pending_proposals,omitempty"`
	ActiveProjects      int `json:"active_projects,omitempty"`
	TotalProjects       int `json:"total_projects,omitempty"`
	StaffCount          int `json:"staff_count,omitempty"`
	MyProposals         int `json:"my_proposals,omitempty"`
	ApprovedMyProposals int `json:"approved_my_proposals,omitempty"`
	PendingMyProposals  int `json:"pending_my_proposals,omitempty"`
	MyProjects          int `json:"my_projects,omitempty"`
	ActiveMyProjects    int `json:"active_my_projects,omitempty"`
}

// NewsItem is a public news article managed through the CMS endpoints.
type NewsItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// StaffMember is a public staff profile.
type StaffMember struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Department   string `json:"department,omitempty"`
	ResearchArea string `json:"research_area,omitempty"`
	Bio          string `json:"bio,omitempty"`
	Photo        string `json:"photo,omitempty"`
}

// Publication is a published research output.
type Publication struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Abstract string `json:"abstract,omitempty"`
	Journal  string `json:"journal,omitempty"`
	Year     int    `json:"year,omitempty"`
	Link     string `json:"link,omitempty"`
}

// ContactMessage is an inbound message from the public contact form.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// PageContent is an editable block of public website copy.
type PageContent struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// HomeImage is a carousel image on the public home page.
type HomeImage struct {
	ID      int64  `json:"id"`
	Image   string `json:"image"`
	Caption string `json:"caption,omitempty"`
}

// HomeStat is a headline figure displayed on the public home page.
type HomeStat struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}
