package postservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateSlug  = errors.New("duplicate slug")
)

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

// UniqueConstraintError is a helper function to check if the error is a unique constraint error.
func UniqueConstraintError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// tags are stored as a JSON-encoded array inside a text column; a nil
// slice round-trips as NULL.
func encodeTags(tags []string) (sql.NullString, error) {
	if tags == nil {
		return sql.NullString{}, nil
	}

	b, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, err
	}

	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeTags(s sql.NullString) ([]string, error) {
	if !s.Valid {
		return nil, nil
	}

	var tags []string
	if err := json.Unmarshal([]byte(s.String), &tags); err != nil {
		return nil, err
	}

	return tags, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

const postColumns = `id, slug, title, excerpt, content, cover_image, tags, status, to_char(published_at, 'YYYY-MM-DD'), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var p Post
	var excerpt, coverImage, tags sql.NullString

	err := row.Scan(&p.ID, &p.Slug, &p.Title, &excerpt, &p.Content, &coverImage, &tags, &p.Status, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Excerpt = excerpt.String
	p.CoverImage = coverImage.String

	p.Tags, err = decodeTags(tags)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (m *PostModel) insert(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (slug, title, excerpt, content, cover_image, tags, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}

	args := []any{p.Slug, p.Title, nullString(p.Excerpt), p.Content, nullString(p.CoverImage), tags, p.Status, p.PublishedAt}

	err = m.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		switch {
		case UniqueConstraintError(err, "posts_slug_key"):
			return ErrDuplicateSlug
		default:
			return err
		}
	}

	return nil
}

// getBySlug looks a post up by its slug. A draft post is reported as not
// found unless includeAllStatuses is set.
func (m *PostModel) getBySlug(ctx context.Context, slug string, includeAllStatuses bool) (*Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts
		WHERE slug = $1`, postColumns)

	args := []any{slug}
	if !includeAllStatuses {
		query += " AND status = $2"
		args = append(args, StatusPublished)
	}

	post, err := scanPost(m.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return post, nil
}

// getPosts returns posts ordered by published_at descending. A nil limit
// returns everything.
func (m *PostModel) getPosts(ctx context.Context, includeAllStatuses bool, limit *int) ([]Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts`, postColumns)

	var args []any
	if !includeAllStatuses {
		args = append(args, StatusPublished)
		query += " WHERE status = $1"
	}

	query += " ORDER BY published_at DESC"

	if limit != nil {
		args = append(args, *limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// update applies the non-nil fields of req to the post currently known by
// slug. The whole change, including a rename, is a single UPDATE statement
// so it either fully applies or not at all. updated_at is always refreshed.
func (m *PostModel) update(ctx context.Context, slug string, req *UpdatePostRequest) (*Post, error) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Slug != nil {
		add("slug", *req.Slug)
	}
	if req.Excerpt != nil {
		add("excerpt", nullString(*req.Excerpt))
	}
	if req.Content != nil {
		add("content", *req.Content)
	}
	if req.CoverImage != nil {
		add("cover_image", nullString(*req.CoverImage))
	}
	if req.Tags != nil {
		tags, err := encodeTags(*req.Tags)
		if err != nil {
			return nil, err
		}
		add("tags", tags)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.PublishedAt != nil {
		add("published_at", *req.PublishedAt)
	}

	sets = append(sets, "updated_at = now()")

	args = append(args, slug)
	query := fmt.Sprintf(`
		UPDATE posts
		SET %s
		WHERE slug = $%d
		RETURNING %s`, strings.Join(sets, ", "), len(args), postColumns)

	post, err := scanPost(m.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		case UniqueConstraintError(err, "posts_slug_key"):
			return nil, ErrDuplicateSlug
		default:
			return nil, err
		}
	}

	return post, nil
}

// delete removes the post and reports whether a row was actually removed.
// Deleting an absent slug is a no-op, not an error.
func (m *PostModel) delete(ctx context.Context, slug string) (bool, error) {
	query := `
		DELETE FROM posts
		WHERE slug = $1`

	res, err := m.db.ExecContext(ctx, query, slug)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
