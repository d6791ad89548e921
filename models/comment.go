package models

import "time"

// Comment is a persisted reply to a post.
type Comment struct {
	CommentID int64     `gorm:"column:comment_id;primaryKey;autoIncrement" json:"comment_id"`
	PostID    int64     `gorm:"column:post_id;index;not null" json:"post_id"`
	UserID    int64     `gorm:"column:user_id;index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"type:datetime(6);not null;autoCreateTime:false" json:"created_at"`
}

func (Comment) TableName() string { return "comment" }

// NewComment is the shape submitted for insertion.
type NewComment struct {
	PostID  int64
	UserID  int64
	Content string
}

// CommentView is a comment decorated with its author name.
type CommentView struct {
	CommentID int64     `json:"comment_id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCommentView pairs a stored comment with its author's username.
func NewCommentView(c Comment, author string) CommentView {
	return CommentView{
		CommentID: c.CommentID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Content:   c.Content,
		Author:    author,
		CreatedAt: c.CreatedAt,
	}
}
