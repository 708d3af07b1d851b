package blog

import "time"

// Post is a published entry. Posts are immutable once created; the only
// lifecycle transitions are create and delete.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	ImageURL  *string   `json:"imageUrl"`
}

// NewPost carries the caller-supplied fields of a publish request.
// ID and CreatedAt are assigned by the store.
type NewPost struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Author   string  `json:"author"`
	ImageURL *string `json:"imageUrl"`
}
