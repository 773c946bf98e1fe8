package postservice

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lazygardenertx/gardenlog/internal/common"
)

func NewPostService(db *sql.DB, mb common.MessageProducer) *PostService {
	return &PostService{m: newPostModel(db), mb: mb}
}

type CreatePostRequest struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"cover_image"`
	Tags        []string   `json:"tags"`
	Status      PostStatus `json:"status"`
	PublishedAt string     `json:"published_at"`
}

// CreatePost stores a new post and returns it with the server-assigned id
// and timestamps. Status defaults to draft. Creating a post directly in
// published status publishes a post.published event.
func (s *PostService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateSlug(v, req.Slug)
	validateContent(v, req.Content)
	validatePublishedAt(v, req.PublishedAt)
	if req.Status != "" {
		validateStatus(v, req.Status)
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p := Post{
		Slug:        req.Slug,
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		CoverImage:  req.CoverImage,
		Tags:        req.Tags,
		Status:      req.Status,
		PublishedAt: req.PublishedAt,
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}

	if err := s.m.insert(ctx, &p); err != nil {
		return nil, err
	}

	if p.Status == StatusPublished {
		if err := s.notifyPublished(ctx, &p); err != nil {
			return nil, err
		}
	}

	return &p, nil
}

// GetPostBySlug returns the post or ErrRecordNotFound. A draft post is
// treated as not found unless includeAllStatuses is set (admin preview).
func (s *PostService) GetPostBySlug(ctx context.Context, slug string, includeAllStatuses bool) (*Post, error) {
	v := common.NewValidator()
	validateSlug(v, slug)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBySlug(ctx, slug, includeAllStatuses)
}

// GetPosts returns posts ordered by published_at descending, filtered to
// published posts unless includeAllStatuses is set. A nil limit returns all.
func (s *PostService) GetPosts(ctx context.Context, includeAllStatuses bool, limit *int) ([]Post, error) {
	if limit != nil && *limit < 1 {
		limit = nil
	}

	return s.m.getPosts(ctx, includeAllStatuses, limit)
}

// UpdatePost applies the non-nil fields of req to the post known by slug.
// A draft post transitioning to published publishes a post.published event.
func (s *PostService) UpdatePost(ctx context.Context, slug string, req *UpdatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateSlug(v, slug)
	if req.Title != nil {
		validateTitle(v, *req.Title)
	}
	if req.Slug != nil {
		validateSlug(v, *req.Slug)
	}
	if req.Content != nil {
		validateContent(v, *req.Content)
	}
	if req.Status != nil {
		validateStatus(v, *req.Status)
	}
	if req.PublishedAt != nil {
		validatePublishedAt(v, *req.PublishedAt)
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	existing, err := s.m.getBySlug(ctx, slug, true)
	if err != nil {
		return nil, err
	}

	post, err := s.m.update(ctx, slug, req)
	if err != nil {
		return nil, err
	}

	if existing.Status != StatusPublished && post.Status == StatusPublished {
		if err := s.notifyPublished(ctx, post); err != nil {
			return nil, err
		}
	}

	return post, nil
}

// DeletePost removes the post and reports whether anything was deleted.
func (s *PostService) DeletePost(ctx context.Context, slug string) (bool, error) {
	v := common.NewValidator()
	validateSlug(v, slug)
	if !v.Valid() {
		return false, v.ValidationError()
	}

	return s.m.delete(ctx, slug)
}

func (s *PostService) notifyPublished(ctx context.Context, p *Post) error {
	data := struct {
		Slug  string
		Title string
	}{
		Slug:  p.Slug,
		Title: p.Title,
	}

	msg, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return s.mb.Publish(ctx, msg, common.PostPublishedKey, common.PostExchange)
}
