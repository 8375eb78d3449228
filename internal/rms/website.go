package rms

import (
	"context"
	"fmt"
	"io"

	"github.com/crglab/rmsctl/internal/gateway"
)

// WebsiteService manages the public website content: news, staff profiles,
// publications, contact messages, and the editable home/about blocks.
type WebsiteService struct {
	gw *gateway.Gateway
}

// NewsInput carries the writable news fields. Image is optional.
type NewsInput struct {
	Title     string
	Content   string
	ImageName string
	Image     io.Reader
}

func (in NewsInput) form() (map[string]string, []gateway.File) {
	fields := map[string]string{
		"title":   in.Title,
		"content": in.Content,
	}
	var files []gateway.File
	if in.Image != nil {
		files = append(files, gateway.File{Field: "image", Name: in.ImageName, Content: in.Image})
	}
	return fields, files
}

// ListNews returns all news articles via the management endpoint.
func (s *WebsiteService) ListNews(ctx context.Context) ([]NewsItem, error) {
	var items []NewsItem
	if err := s.gw.Get(ctx, "/news/management/", &items); err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	return items, nil
}

// GetNews returns one article.
func (s *WebsiteService) GetNews(ctx context.Context, id int64) (*NewsItem, error) {
	var item NewsItem
	if err := s.gw.Get(ctx, fmt.Sprintf("/news/management/%d/", id), &item); err != nil {
		return nil, fmt.Errorf("failed to get news %d: %w", id, err)
	}
	return &item, nil
}

// CreateNews publishes a new article.
func (s *WebsiteService) CreateNews(ctx context.Context, in NewsInput) (*NewsItem, error) {
	fields, files := in.form()
	var item NewsItem
	if err := s.gw.PostForm(ctx, "/news/management/", fields, files, &item); err != nil {
		return nil, fmt.Errorf("failed to create news: %w", err)
	}
	return &item, nil
}

// UpdateNews replaces an article.
func (s *WebsiteService) UpdateNews(ctx context.Context, id int64, in NewsInput) (*NewsItem, error) {
	fields, files := in.form()
	var item NewsItem
	if err := s.gw.PutForm(ctx, fmt.Sprintf("/news/management/%d/", id), fields, files, &item); err != nil {
		return nil, fmt.Errorf("failed to update news %d: %w", id, err)
	}
	return &item, nil
}

// DeleteNews removes an article.
func (s *WebsiteService) DeleteNews(ctx context.Context, id int64) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/news/management/%d/", id)); err != nil {
		return fmt.Errorf("failed to delete news %d: %w", id, err)
	}
	return nil
}

// StaffInput carries the writable staff profile fields. Photo is optional.
type StaffInput struct {
	Name         string
	Position     string
	Email        string
	Phone        string
	Department   string
	ResearchArea string
	Bio          string
	PhotoName    string
	Photo        io.Reader
}

func (in StaffInput) form() (map[string]string, []gateway.File) {
	fields := map[string]string{
		"name":          in.Name,
		"position":      in.Position,
		"email":         in.Email,
		"phone":         in.Phone,
		"department":    in.Department,
		"research_area": in.ResearchArea,
		"bio":           in.Bio,
	}
	var files []gateway.File
	if in.Photo != nil {
		files = append(files, gateway.File{Field: "photo", Name: in.PhotoName, Content: in.Photo})
	}
	return fields, files
}

// ListStaff returns all staff profiles. Reads go through the public
// endpoint, which is cacheable.
func (s *WebsiteService) ListStaff(ctx context.Context) ([]StaffMember, error) {
	var members []StaffMember
	if err := s.gw.Get(ctx, "/staff/", &members); err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return members, nil
}

// GetStaff returns one staff profile via the management endpoint.
func (s *WebsiteService) GetStaff(ctx context.Context, id int64) (*StaffMember, error) {
	var member StaffMember
	if err := s.gw.Get(ctx, fmt.Sprintf("/staff/management/%d/", id), &member); err != nil {
		return nil, fmt.Errorf("failed to get staff %d: %w", id, err)
	}
	return &member, nil
}

// CreateStaff adds a staff profile.
func (s *WebsiteService) CreateStaff(ctx context.Context, in StaffInput) (*StaffMember, error) {
	fields, files := in.form()
	var member StaffMember
	if err := s.gw.PostForm(ctx, "/staff/management/", fields, files, &member); err != nil {
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}
	return &member, nil
}

// UpdateStaff replaces a staff profile.
func (s *WebsiteService) UpdateStaff(ctx context.Context, id int64, in StaffInput) (*StaffMember, error) {
	fields, files := in.form()
	var member StaffMember
	if err := s.gw.PutForm(ctx, fmt.Sprintf("/staff/management/%d/", id), fields, files, &member); err != nil {
		return nil, fmt.Errorf("failed to update staff %d: %w", id, err)
	}
	return &member, nil
}

// DeleteStaff removes a staff profile.
func (s *WebsiteService) DeleteStaff(ctx context.Context, id int64) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/staff/management/%d/", id)); err != nil {
		return fmt.Errorf("failed to delete staff %d: %w", id, err)
	}
	return nil
}

// PublicationInput carries the writable publication fields.
type PublicationInput struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract,omitempty"`
	Journal  string `json:"journal,omitempty"`
	Year     int    `json:"year,omitempty"`
	Link     string `json:"link,omitempty"`
}

// ListPublications returns all publications via the public endpoint.
func (s *WebsiteService) ListPublications(ctx context.Context) ([]Publication, error) {
	var pubs []Publication
	if err := s.gw.Get(ctx, "/publications/publication/", &pubs); err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}
	return pubs, nil
}

// CreatePublication adds a publication.
func (s *WebsiteService) CreatePublication(ctx context.Context, in PublicationInput) (*Publication, error) {
	var pub Publication
	if err := s.gw.Post(ctx, "/publications/management/", in, &pub); err != nil {
		return nil, fmt.Errorf("failed to create publication: %w", err)
	}
	return &pub, nil
}

// UpdatePublication replaces a publication.
func (s *WebsiteService) UpdatePublication(ctx context.Context, id int64, in PublicationInput) (*Publication, error) {
	var pub Publication
	if err := s.gw.Put(ctx, fmt.Sprintf("/publications/management/%d/", id), in, &pub); err != nil {
		return nil, fmt.Errorf("failed to update publication %d: %w", id, err)
	}
	return &pub, nil
}

// DeletePublication removes a publication.
func (s *WebsiteService) DeletePublication(ctx context.Context, id int64) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/publications/management/%d/", id)); err != nil {
		return fmt.Errorf("failed to delete publication %d: %w", id, err)
	}
	return nil
}

// ListMessages returns inbound contact messages.
func (s *WebsiteService) ListMessages(ctx context.Context) ([]ContactMessage, error) {
	var messages []ContactMessage
	if err := s.gw.Get(ctx, "/contact/messages/", &messages); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// GetMessage returns one contact message.
func (s *WebsiteService) GetMessage(ctx context.Context, id int64) (*ContactMessage, error) {
	var message ContactMessage
	if err := s.gw.Get(ctx, fmt.Sprintf("/contact/messages/%d/", id), &message); err != nil {
		return nil, fmt.Errorf("failed to get message %d: %w", id, err)
	}
	return &message, nil
}

// MarkMessageRead flags a contact message as handled.
func (s *WebsiteService) MarkMessageRead(ctx context.Context, id int64) error {
	if err := s.gw.Post(ctx, fmt.Sprintf("/contact/messages/%d/mark_read/", id), nil, nil); err != nil {
		return fmt.Errorf("failed to mark message %d read: %w", id, err)
	}
	return nil
}

// DeleteMessage removes a contact message.
func (s *WebsiteService) DeleteMessage(ctx context.Context, id int64) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/contact/messages/%d/", id)); err != nil {
		return fmt.Errorf("failed to delete message %d: %w", id, err)
	}
	return nil
}

// AboutContent returns the about page block.
func (s *WebsiteService) AboutContent(ctx context.Context) (*PageContent, error) {
	var content PageContent
	if err := s.gw.Get(ctx, "/about/management/content/", &content); err != nil {
		return nil, fmt.Errorf("failed to get about content: %w", err)
	}
	return &content, nil
}

// UpdateAboutContent replaces the about page block.
func (s *WebsiteService) UpdateAboutContent(ctx context.Context, content PageContent) error {
	if err := s.gw.Put(ctx, "/about/management/content/", content, nil); err != nil {
		return fmt.Errorf("failed to update about content: %w", err)
	}
	return nil
}

// HomeContent returns the home page block.
func (s *WebsiteService) HomeContent(ctx context.Context) (*PageContent, error) {
	var content PageContent
	if err := s.gw.Get(ctx, "/home/management/content/", &content); err != nil {
		return nil, fmt.Errorf("failed to get home content: %w", err)
	}
	return &content, nil
}

// UpdateHomeContent replaces the home page block.
func (s *WebsiteService) UpdateHomeContent(ctx context.Context, content PageContent) error {
	if err := s.gw.Put(ctx, "/home/management/content/", content, nil); err != nil {
		return fmt.Errorf("failed to update home content: %w", err)
	}
	return nil
}

// ListHomeImages returns the home page carousel images.
func (s *WebsiteService) ListHomeImages(ctx context.Context) ([]HomeImage, error) {
	var images []HomeImage
	if err := s.gw.Get(ctx, "/home/management/images/", &images); err != nil {
		return nil, fmt.Errorf("failed to list home images: %w", err)
	}
	return images, nil
}

// UploadHomeImage adds a carousel image.
func (s *WebsiteService) UploadHomeImage(ctx context.Context, name string, image io.Reader, caption string) (*HomeImage, error) {
	fields := map[string]string{}
	if caption != "" {
		fields["caption"] = caption
	}
	files := []gateway.File{{Field: "image", Name: name, Content: image}}

	var uploaded HomeImage
	if err := s.gw.PostForm(ctx, "/home/management/images/", fields, files, &uploaded); err != nil {
		return nil, fmt.Errorf("failed to upload home image: %w", err)
	}
	return &uploaded, nil
}

// DeleteHomeImage removes a carousel image.
func (s *WebsiteService) DeleteHomeImage(ctx context.Context, id int64) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/home/management/images/%d/", id)); err != nil {
		return fmt.Errorf("failed to delete home image %d: %w", id, err)
	}
	return nil
}

// ListHomeStats returns the home page headline figures.
func (s *WebsiteService) ListHomeStats(ctx context.Context) ([]HomeStat, error) {
	var stats []HomeStat
	if err := s.gw.Get(ctx, "/home/management/stats/", &stats); err != nil {
		return nil, fmt.Errorf("failed to list home stats: %w", err)
	}
	return stats, nil
}

// CreateHomeStat adds a headline figure.
func (s *WebsiteService) CreateHomeStat(ctx context.Context, label, value string) (*HomeStat, error) {
	body := map[string]string{"label": label, "value": value}
	var stat HomeStat
	if err := s.gw.Post(ctx, "/home/management/stats/", body, &stat); err != nil {
		return nil, fmt.Errorf("failed to create home stat: %w", err)
	}
	return &stat, nil
}

// UpdateHomeStat replaces a headline figure.
func (s *WebsiteService) UpdateHomeStat(ctx context.Context, id int64, label, value string) (*HomeStat, error) {
	body := map[string]string{"label": label, "value": value}
	var stat HomeStat
	if err := s.gw.Put(ctx, fmt.Sprintf("/home/management/stats/%d/", id), body, &stat); err != nil {
		return nil, fmt.Errorf("failed to update home stat %d: %w", id, err)
	}
	return &stat, nil
}

// DeleteHomeStat removes a headline figure.
func (s *WebsiteService) DeleteHomeStat(ctx context.Context, id int64) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/home/management/stats/%d/", id)); err != nil {
		return fmt.Errorf("failed to delete home stat %d: %w", id, err)
	}
	return nil
}
