package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/crglab/rmsctl/internal/rms"
)

// WebsiteCmd manages public website content.
type WebsiteCmd struct {
	News         NewsCmd         `cmd:"" help:"Manage news articles"`
	Staff        StaffCmd        `cmd:"" help:"Manage staff profiles"`
	Publications PublicationsCmd `cmd:"" help:"Manage publications"`
	Messages     MessagesCmd     `cmd:"" help:"Manage contact messages"`
	Content      ContentCmd      `cmd:"" help:"Manage home and about page content"`
}

func openUpload(path string) (io.ReadCloser, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, filepath.Base(path), nil
}

// NewsCmd manages news articles.
type NewsCmd struct {
	List   NewsListCmd   `cmd:"" help:"List news articles"`
	Create NewsCreateCmd `cmd:"" help:"Publish a news article"`
	Update NewsUpdateCmd `cmd:"" help:"Update a news article"`
	Delete NewsDeleteCmd `cmd:"" help:"Delete a news article"`
}

type NewsListCmd struct{}

func (c *NewsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	items, err := app.client.Website.ListNews(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No news articles.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCREATED")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\n", item.ID, truncate(item.Title, 50),
			item.CreatedAt.Format("2006-01-02"))
	}
	w.Flush()

	return nil
}

type NewsCreateCmd struct {
	Title   string `help:"Article title" required:""`
	Content string `help:"Article body" required:""`
	Image   string `help:"Path to an article image" type:"existingfile"`
}

func (c *NewsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	in := rms.NewsInput{Title: c.Title, Content: c.Content}
	if c.Image != "" {
		f, name, err := openUpload(c.Image)
		if err != nil {
			return err
		}
		defer f.Close()
		in.Image = f
		in.ImageName = name
	}

	item, err := app.client.Website.CreateNews(ctx, in)
	if err != nil {
		return err
	}

	fmt.Printf("News article published with ID %d.\n", item.ID)
	return nil
}

type NewsUpdateCmd struct {
	ID      int64  `arg:"" help:"Article ID"`
	Title   string `help:"Article title" required:""`
	Content string `help:"Article body" required:""`
	Image   string `help:"Path to an article image" type:"existingfile"`
}

func (c *NewsUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	in := rms.NewsInput{Title: c.Title, Content: c.Content}
	if c.Image != "" {
		f, name, err := openUpload(c.Image)
		if err != nil {
			return err
		}
		defer f.Close()
		in.Image = f
		in.ImageName = name
	}

	if _, err := app.client.Website.UpdateNews(ctx, c.ID, in); err != nil {
		return err
	}

	fmt.Printf("News article %d updated.\n", c.ID)
	return nil
}

type NewsDeleteCmd struct {
	ID int64 `arg:"" help:"Article ID"`
}

func (c *NewsDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Website.DeleteNews(ctx, c.ID); err != nil {
		return err
	}

	fmt.Printf("News article %d deleted.\n", c.ID)
	return nil
}

// StaffCmd manages staff profiles.
type StaffCmd struct {
	List   StaffListCmd   `cmd:"" help:"List staff profiles"`
	Create StaffCreateCmd `cmd:"" help:"Add a staff profile"`
	Delete StaffDeleteCmd `cmd:"" help:"Remove a staff profile"`
}

type StaffListCmd struct{}

func (c *StaffListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	members, err := app.client.Website.ListStaff(ctx)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		fmt.Println("No staff profiles.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPOSITION\tDEPARTMENT\tEMAIL")
	for _, m := range members {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Position, m.Department, m.Email)
	}
	w.Flush()

	return nil
}

type StaffCreateCmd struct {
	Name         string `arg:"" help:"Staff member name"`
	Position     string `help:"Position title" required:""`
	Email        string `help:"Contact email"`
	Phone        string `help:"Contact phone"`
	Department   string `help:"Department"`
	ResearchArea string `help:"Research area"`
	Bio          string `help:"Short biography"`
	Photo        string `help:"Path to a profile photo" type:"existingfile"`
}

func (c *StaffCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	in := rms.StaffInput{
		Name:         c.Name,
		Position:     c.Position,
		Email:        c.Email,
		Phone:        c.Phone,
		Department:   c.Department,
		ResearchArea: c.ResearchArea,
		Bio:          c.Bio,
	}
	if c.Photo != "" {
		f, name, err := openUpload(c.Photo)
		if err != nil {
			return err
		}
		defer f.Close()
		in.Photo = f
		in.PhotoName = name
	}

	member, err := app.client.Website.CreateStaff(ctx, in)
	if err != nil {
		return err
	}

	fmt.Printf("Staff profile created with ID %d.\n", member.ID)
	return nil
}

type StaffDeleteCmd struct {
	ID int64 `arg:"" help:"Staff profile ID"`
}

func (c *StaffDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Website.DeleteStaff(ctx, c.ID); err != nil {
		return err
	}

	fmt.Printf("Staff profile %d deleted.\n", c.ID)
	return nil
}

// PublicationsCmd manages publications.
type PublicationsCmd struct {
	List   PublicationsListCmd   `cmd:"" help:"List publications"`
	Create PublicationsCreateCmd `cmd:"" help:"Add a publication"`
	Delete PublicationsDeleteCmd `cmd:"" help:"Remove a publication"`
}

type PublicationsListCmd struct{}

func (c *PublicationsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	pubs, err := app.client.Website.ListPublications(ctx)
	if err != nil {
		return err
	}
	if len(pubs) == 0 {
		fmt.Println("No publications.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tJOURNAL\tYEAR")
	for _, p := range pubs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, truncate(p.Title, 50), p.Journal, p.Year)
	}
	w.Flush()

	return nil
}

type PublicationsCreateCmd struct {
	Title    string `arg:"" help:"Publication title"`
	Abstract string `help:"Abstract"`
	Journal  string `help:"Journal name"`
	Year     int    `help:"Publication year"`
	Link     string `help:"External link"`
}

func (c *PublicationsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	pub, err := app.client.Website.CreatePublication(ctx, rms.PublicationInput{
		Title:    c.Title,
		Abstract: c.Abstract,
		Journal:  c.Journal,
		Year:     c.Year,
		Link:     c.Link,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Publication created with ID %d.\n", pub.ID)
	return nil
}

type PublicationsDeleteCmd struct {
	ID int64 `arg:"" help:"Publication ID"`
}

func (c *PublicationsDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Website.DeletePublication(ctx, c.ID); err != nil {
		return err
	}

	fmt.Printf("Publication %d deleted.\n", c.ID)
	return nil
}

// MessagesCmd manages inbound contact messages.
type MessagesCmd struct {
	List   MessagesListCmd   `cmd:"" help:"List contact messages"`
	Show   MessagesShowCmd   `cmd:"" help:"Show one contact message"`
	Read   MessagesReadCmd   `cmd:"" help:"Mark a message read"`
	Delete MessagesDeleteCmd `cmd:"" help:"Delete a message"`
}

type MessagesListCmd struct{}

func (c *MessagesListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	messages, err := app.client.Website.ListMessages(ctx)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		fmt.Println("No contact messages.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFROM\tEMAIL\tSUBJECT\tREAD")
	for _, m := range messages {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			m.ID, m.Name, m.Email, truncate(m.Subject, 40), boolMark(m.IsRead))
	}
	w.Flush()

	return nil
}

type MessagesShowCmd struct {
	ID int64 `arg:"" help:"Message ID"`
}

func (c *MessagesShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	m, err := app.client.Website.GetMessage(ctx, c.ID)
	if err != nil {
		return err
	}

	fmt.Printf("From:    %s <%s>\n", m.Name, m.Email)
	fmt.Printf("Subject: %s\n", m.Subject)
	fmt.Printf("Date:    %s\n", m.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("\n%s\n", m.Message)

	return nil
}

type MessagesReadCmd struct {
	ID int64 `arg:"" help:"Message ID"`
}

func (c *MessagesReadCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Website.MarkMessageRead(ctx, c.ID); err != nil {
		return err
	}

	fmt.Printf("Message %d marked read.\n", c.ID)
	return nil
}

type MessagesDeleteCmd struct {
	ID int64 `arg:"" help:"Message ID"`
}

func (c *MessagesDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Website.DeleteMessage(ctx, c.ID); err != nil {
		return err
	}

	fmt.Printf("Message %d deleted.\n", c.ID)
	return nil
}

// ContentCmd manages the editable home/about blocks, carousel images and
// headline stats.
type ContentCmd struct {
	Show        ContentShowCmd        `cmd:"" help:"Show a content block"`
	Update      ContentUpdateCmd      `cmd:"" help:"Update a content block"`
	Images      ContentImagesCmd      `cmd:"" help:"List home page images"`
	UploadImage ContentUploadImageCmd `cmd:"" name:"upload-image" help:"Upload a home page image"`
	DeleteImage ContentDeleteImageCmd `cmd:"" name:"delete-image" help:"Delete a home page image"`
	Stats       ContentStatsCmd       `cmd:"" help:"List home page headline stats"`
	SetStat     ContentSetStatCmd     `cmd:"" name:"set-stat" help:"Create or update a headline stat"`
}

type ContentShowCmd struct {
	Page string `arg:"" help:"Page to show" enum:"home,about"`
}

func (c *ContentShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	var content *rms.PageContent
	if c.Page == "about" {
		content, err = app.client.Website.AboutContent(ctx)
	} else {
		content, err = app.client.Website.HomeContent(ctx)
	}
	if err != nil {
		return err
	}

	if content.Title != "" {
		fmt.Println(content.Title)
		fmt.Println()
	}
	fmt.Println(content.Content)

	return nil
}

type ContentUpdateCmd struct {
	Page    string `arg:"" help:"Page to update" enum:"home,about"`
	Title   string `help:"Block title"`
	Content string `help:"Block body" required:""`
}

func (c *ContentUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	content := rms.PageContent{Title: c.Title, Content: c.Content}
	if c.Page == "about" {
		err = app.client.Website.UpdateAboutContent(ctx, content)
	} else {
		err = app.client.Website.UpdateHomeContent(ctx, content)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s page content updated.\n", c.Page)
	return nil
}

type ContentImagesCmd struct{}

func (c *ContentImagesCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	images, err := app.client.Website.ListHomeImages(ctx)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		fmt.Println("No home page images.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tIMAGE\tCAPTION")
	for _, img := range images {
		fmt.Fprintf(w, "%d\t%s\t%s\n", img.ID, img.Image, img.Caption)
	}
	w.Flush()

	return nil
}

type ContentUploadImageCmd struct {
	Path    string `arg:"" help:"Path to the image file" type:"existingfile"`
	Caption string `help:"Image caption"`
}

func (c *ContentUploadImageCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	f, name, err := openUpload(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := app.client.Website.UploadHomeImage(ctx, name, f, c.Caption)
	if err != nil {
		return err
	}

	fmt.Printf("Image uploaded with ID %d.\n", img.ID)
	return nil
}

type ContentDeleteImageCmd struct {
	ID int64 `arg:"" help:"Image ID"`
}

func (c *ContentDeleteImageCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if err := app.client.Website.DeleteHomeImage(ctx, c.ID); err != nil {
		return err
	}

	fmt.Printf("Image %d deleted.\n", c.ID)
	return nil
}

type ContentStatsCmd struct{}

func (c *ContentStatsCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	stats, err := app.client.Website.ListHomeStats(ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No headline stats.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tVALUE")
	for _, s := range stats {
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Label, s.Value)
	}
	w.Flush()

	return nil
}

type ContentSetStatCmd struct {
	Label string `arg:"" help:"Stat label"`
	Value string `arg:"" help:"Stat value"`
	ID    int64  `help:"Existing stat ID to update (creates when omitted)"`
}

func (c *ContentSetStatCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if _, err := app.requireUser(ctx); err != nil {
		return err
	}

	if c.ID != 0 {
		if _, err := app.client.Website.UpdateHomeStat(ctx, c.ID, c.Label, c.Value); err != nil {
			return err
		}
		fmt.Printf("Stat %d updated.\n", c.ID)
		return nil
	}

	stat, err := app.client.Website.CreateHomeStat(ctx, c.Label, c.Value)
	if err != nil {
		return err
	}

	fmt.Printf("Stat created with ID %d.\n", stat.ID)
	return nil
}
