// Package store is the parameterized-query facade over the post, comment and
// users tables. Implementations exist for MySQL (gorm), Postgres (pgx) and an
// in-process map used in development and tests.
package store

import (
	"context"
	"errors"

	"github.com/cppla/quill/models"
)

var (
	// ErrNotFound is returned by single-row fetches that match nothing.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("store: duplicate record")
)

// PostStore covers the post table.
type PostStore interface {
	GetPost(ctx context.Context, postID int64) (models.Post, error)
	ListPosts(ctx context.Context, limit int) ([]models.Post, error)
	InsertPost(ctx context.Context, p models.NewPost) (int64, error)
	// UpdatePost sets title and markdown and advances updated_at. It returns
	// the number of affected rows.
	UpdatePost(ctx context.Context, postID int64, title, markdown string) (int64, error)
	DeletePost(ctx context.Context, postID int64) (int64, error)
}

// CommentStore covers the comment table. Every listing is ordered by
// comment_id ascending.
type CommentStore interface {
	GetComment(ctx context.Context, commentID int64) (models.Comment, error)
	ListComments(ctx context.Context, limit int) ([]models.Comment, error)
	ListPostComments(ctx context.Context, postID int64) ([]models.Comment, error)
	ListCommentsForPosts(ctx context.Context, postIDs []int64) ([]models.Comment, error)
	InsertComment(ctx context.Context, c models.NewComment) (int64, error)
	UpdateComment(ctx context.Context, commentID int64, content string) (int64, error)
	DeleteComment(ctx context.Context, commentID int64) (int64, error)
}

// UserStore covers the users table.
type UserStore interface {
	// Usernames returns the names of the given users. Unknown ids are absent
	// from the result.
	Usernames(ctx context.Context, userIDs []int64) (map[int64]string, error)
	InsertUser(ctx context.Context, username, passwordHash string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// Store is the full facade.
type Store interface {
	PostStore
	CommentStore
	UserStore
	Ping(ctx context.Context) error
	Close() error
}
