package postservice

import (
	"database/sql"
	"time"

	"github.com/lazygardenertx/gardenlog/internal/common"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

type Post struct {
	ID    int    `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	// Content is stored in Markdown format and rendered with RenderMarkdown.
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Status      PostStatus `json:"status"`
	PublishedAt string     `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UpdatePostRequest carries a partial update: only non-nil fields are
// written. A non-nil Slug renames the post.
type UpdatePostRequest struct {
	Title       *string     `json:"title"`
	Slug        *string     `json:"slug"`
	Excerpt     *string     `json:"excerpt"`
	Content     *string     `json:"content"`
	CoverImage  *string     `json:"cover_image"`
	Tags        *[]string   `json:"tags"`
	Status      *PostStatus `json:"status"`
	PublishedAt *string     `json:"published_at"`
}

type PostModel struct {
	db *sql.DB
}

type PostService struct {
	m  *PostModel
	mb common.MessageProducer
}
