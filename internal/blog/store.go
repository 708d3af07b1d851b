package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a post id does not exist.
var ErrNotFound = errors.New("post not found")

// PostStore provides database operations for posts
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new post store
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// Create inserts a new post with a fresh id and the current timestamp.
func (s *PostStore) Create(ctx context.Context, np NewPost) (*Post, error) {
	post := &Post{
		ID:        uuid.NewString(),
		Title:     np.Title,
		Content:   np.Content,
		Author:    np.Author,
		CreatedAt: time.Now().UTC(),
		ImageURL:  np.ImageURL,
	}

	query := `INSERT INTO posts (id, title, content, author, created_at, image_url)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, post.ID, post.Title, post.Content,
		post.Author, post.CreatedAt, post.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

// List returns all posts ordered by creation time descending.
func (s *PostStore) List(ctx context.Context) ([]*Post, error) {
	return s.query(ctx, `SELECT id, title, content, author, created_at, image_url
		FROM posts ORDER BY created_at DESC`)
}

// Latest returns the newest n posts, newest first.
func (s *PostStore) Latest(ctx context.Context, n int) ([]*Post, error) {
	return s.query(ctx, `SELECT id, title, content, author, created_at, image_url
		FROM posts ORDER BY created_at DESC LIMIT ?`, n)
}

func (s *PostStore) query(ctx context.Context, query string, args ...interface{}) ([]*Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		post := &Post{}
		err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.Author,
			&post.CreatedAt, &post.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Delete removes a post by id. Returns ErrNotFound for an unknown id.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
