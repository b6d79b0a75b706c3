// Package wire defines the JSON shapes exchanged over the HTTP API.
//
// Record types here are conversion-compatible with their domain
// counterparts: DevLog(d) compiles only while both structs carry exactly the
// same fields, which keeps the snake_case/camelCase mappings exhaustive.
package wire

import (
	"time"

	"devfolio/internal/domain"
)

// DevLog is the /api/dev-logs representation (snake_case timestamps and image).
type DevLog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	ImageURL  *string   `json:"image_url"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlogPost is the /api/blog-posts representation of the same record.
type BlogPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	ImageURL  *string   `json:"imageUrl"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Game struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	BuildPath    *string   `json:"buildPath"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	ImageURL     *string   `json:"imageUrl"`
	Technologies []string  `json:"technologies"`
	Platform     *string   `json:"platform"`
	Date         string    `json:"date"`
	CreatedAt    time.Time `json:"createdAt"`
}

func FromDevLog(d domain.DevLog) DevLog     { return DevLog(d) }
func (w DevLog) Domain() domain.DevLog      { return domain.DevLog(w) }
func FromBlogPost(d domain.DevLog) BlogPost { return BlogPost(d) }
func (w BlogPost) Domain() domain.DevLog    { return domain.DevLog(w) }
func FromGame(g domain.Game) Game           { return Game(g) }
func (w Game) Domain() domain.Game          { return domain.Game(w) }
func FromProject(p domain.Project) Project  { return Project(p) }
func (w Project) Domain() domain.Project    { return domain.Project(w) }

// DevLogCreate is the body of POST /api/dev-logs and POST /api/blog-posts.
type DevLogCreate struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags"`
	ImageURL *string  `json:"imageUrl"`
}

func (r DevLogCreate) Input() domain.DevLogInput {
	return domain.DevLogInput{
		Title:    r.Title,
		Content:  r.Content,
		Category: r.Category,
		Tags:     r.Tags,
		ImageURL: r.ImageURL,
	}
}

// DevLogUpdate is the body of PUT /api/dev-logs/:id. Absent fields stay unchanged.
type DevLogUpdate struct {
	Title    *string   `json:"title" binding:"omitempty,min=1"`
	Content  *string   `json:"content" binding:"omitempty,min=1"`
	Category *string   `json:"category" binding:"omitempty,min=1"`
	Tags     *[]string `json:"tags"`
	ImageURL *string   `json:"imageUrl"`
}

func (r DevLogUpdate) Patch() domain.DevLogPatch {
	return domain.DevLogPatch(r)
}

// Message is the confirmation body returned by deletes, view increments and
// the contact form.
type Message struct {
	Message  string   `json:"message"`
	ID       string   `json:"id,omitempty"`
	Views    *int64   `json:"views,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ErrorBody is the uniform failure shape.
type ErrorBody struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
	Detail  string              `json:"detail,omitempty"`
}

// Upload is the response of POST /api/upload.
type Upload struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Path         string `json:"path"`
}
