package models

import "time"

// Post is a community post. The server owns the record; the client cache
// is a read-through mirror refreshed after every mutation.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Likes      int       `json:"likes"`
	Comments   []Comment `json:"comments,omitempty"`
}

// Comment is a comment on a post.
type Comment struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	PostID     string    `json:"post_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostCreate is the payload for creating a post.
type PostCreate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostUpdate is the payload for a partial post update.
type PostUpdate struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// CommentCreate is the payload for adding a comment to a post. AuthorID is
// filled in by the post store from the current session.
type CommentCreate struct {
	Content  string `json:"content"`
	AuthorID string `json:"author_id"`
}
