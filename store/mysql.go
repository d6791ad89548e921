package store

import (
	"context"
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/cppla/quill/models"
)

type usernameRow struct {
	UserID   int64  `gorm:"column:user_id"`
	Username string `gorm:"column:username"`
}

// SQLStore runs the verbatim MySQL statements through a shared gorm pool.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore wraps an opened gorm handle.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// fetchOne scans a single row into dest, returning ErrNotFound when nothing matched.
func (s *SQLStore) fetchOne(ctx context.Context, dest any, query string, args ...any) error {
	res := s.db.WithContext(ctx).Raw(query, args...).Scan(dest)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) fetchAll(ctx context.Context, dest any, query string, args ...any) error {
	return s.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error
}

// execute runs a statement and reports the affected row count.
func (s *SQLStore) execute(ctx context.Context, query string, args ...any) (int64, error) {
	res := s.db.WithContext(ctx).Exec(query, args...)
	return res.RowsAffected, res.Error
}

// insert runs an INSERT and reads LAST_INSERT_ID on the same connection.
func (s *SQLStore) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(query, args...).Error; err != nil {
			return err
		}
		return tx.Raw(lastInsertID).Scan(&id).Error
	})
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

func (s *SQLStore) GetPost(ctx context.Context, postID int64) (models.Post, error) {
	var p models.Post
	if err := s.fetchOne(ctx, &p, getPost, postID); err != nil {
		return models.Post{}, wrap("get post", err)
	}
	return p, nil
}

func (s *SQLStore) ListPosts(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	if err := s.fetchAll(ctx, &posts, getPosts, limit); err != nil {
		return nil, wrap("list posts", err)
	}
	return posts, nil
}

func (s *SQLStore) InsertPost(ctx context.Context, p models.NewPost) (int64, error) {
	id, err := s.insert(ctx, addPost, p.Title, p.Markdown, p.UserID)
	return id, wrap("insert post", err)
}

func (s *SQLStore) UpdatePost(ctx context.Context, postID int64, title, markdown string) (int64, error) {
	n, err := s.execute(ctx, updatePost, title, markdown, postID)
	return n, wrap("update post", err)
}

func (s *SQLStore) DeletePost(ctx context.Context, postID int64) (int64, error) {
	n, err := s.execute(ctx, deletePost, postID)
	return n, wrap("delete post", err)
}

func (s *SQLStore) GetComment(ctx context.Context, commentID int64) (models.Comment, error) {
	var c models.Comment
	if err := s.fetchOne(ctx, &c, getComment, commentID); err != nil {
		return models.Comment{}, wrap("get comment", err)
	}
	return c, nil
}

func (s *SQLStore) ListComments(ctx context.Context, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.fetchAll(ctx, &comments, getComments, limit); err != nil {
		return nil, wrap("list comments", err)
	}
	return comments, nil
}

func (s *SQLStore) ListPostComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.fetchAll(ctx, &comments, getPostComments, postID); err != nil {
		return nil, wrap("list post comments", err)
	}
	return comments, nil
}

func (s *SQLStore) ListCommentsForPosts(ctx context.Context, postIDs []int64) ([]models.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	if err := s.fetchAll(ctx, &comments, getCommentsForPosts, postIDs); err != nil {
		return nil, wrap("list comments for posts", err)
	}
	return comments, nil
}

func (s *SQLStore) InsertComment(ctx context.Context, c models.NewComment) (int64, error) {
	id, err := s.insert(ctx, insertComment, c.PostID, c.UserID, c.Content)
	return id, wrap("insert comment", err)
}

func (s *SQLStore) UpdateComment(ctx context.Context, commentID int64, content string) (int64, error) {
	n, err := s.execute(ctx, updateComment, content, commentID)
	return n, wrap("update comment", err)
}

func (s *SQLStore) DeleteComment(ctx context.Context, commentID int64) (int64, error) {
	n, err := s.execute(ctx, deleteComment, commentID)
	return n, wrap("delete comment", err)
}

func (s *SQLStore) Usernames(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}
	var rows []usernameRow
	if err := s.fetchAll(ctx, &rows, getUsernames, userIDs); err != nil {
		return nil, wrap("resolve usernames", err)
	}
	for _, r := range rows {
		names[r.UserID] = r.Username
	}
	return names, nil
}

func (s *SQLStore) InsertUser(ctx context.Context, username, passwordHash string) (int64, error) {
	id, err := s.insert(ctx, insertUser, username, passwordHash)
	return id, wrap("insert user", err)
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	if err := s.fetchOne(ctx, &u, getUserByUsername, username); err != nil {
		return models.User{}, wrap("get user", err)
	}
	return u, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps driver-specific unique violations onto ErrDuplicate.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return ErrDuplicate
	}
	return err
}

// wrap annotates err with the operation while keeping the sentinels matchable.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
