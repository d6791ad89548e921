package models

import "time"

// Post is a persisted post row. It only exists after insertion, so the
// identifier and timestamps are always set.
type Post struct {
	PostID    int64     `gorm:"column:post_id;primaryKey;autoIncrement" json:"post_id"`
	UserID    int64     `gorm:"column:user_id;index;not null" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Markdown  string    `gorm:"type:text;not null" json:"markdown"`
	CreatedAt time.Time `gorm:"type:datetime(6);index;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime(6);not null;autoUpdateTime:false" json:"updated_at"`
}

// TableName keeps the singular table name used by the queries.
func (Post) TableName() string { return "post" }

// NewPost is the shape submitted for insertion.
type NewPost struct {
	UserID   int64
	Title    string
	Markdown string
}

// PostView is a post decorated with its author name and comments.
type PostView struct {
	PostID    int64         `json:"post_id"`
	UserID    int64         `json:"user_id"`
	Title     string        `json:"title"`
	Markdown  string        `json:"markdown"`
	Author    string        `json:"author"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Comments  []CommentView `json:"comments"`
}

// NewPostView builds the view; a nil comment slice renders as [].
func NewPostView(p Post, author string, comments []CommentView) PostView {
	if comments == nil {
		comments = []CommentView{}
	}
	return PostView{
		PostID:    p.PostID,
		UserID:    p.UserID,
		Title:     p.Title,
		Markdown:  p.Markdown,
		Author:    author,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Comments:  comments,
	}
}
