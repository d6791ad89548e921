package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cppla/quill/models"
)

const pgSchema = `
	CREATE TABLE IF NOT EXISTS users (
		user_id BIGSERIAL PRIMARY KEY,
		username VARCHAR(64) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS post (
		post_id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		title VARCHAR(255) NOT NULL,
		markdown TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS comment (
		comment_id BIGSERIAL PRIMARY KEY,
		post_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_post_created_at ON post(created_at);
	CREATE INDEX IF NOT EXISTS idx_comment_post_id ON comment(post_id);
`

const (
	pgGetPost = `
		SELECT post_id, user_id, title, markdown, created_at, updated_at
		FROM post WHERE post_id = $1`
	pgGetPosts = `
		SELECT post_id, user_id, title, markdown, created_at, updated_at
		FROM post ORDER BY created_at DESC, post_id DESC LIMIT $1`
	pgAddPost = `
		INSERT INTO post (title, markdown, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING post_id`
	pgUpdatePost = `
		UPDATE post
		SET title = $1, markdown = $2,
			updated_at = GREATEST(clock_timestamp(), updated_at + INTERVAL '1 microsecond')
		WHERE post_id = $3`
	pgDeletePost = `DELETE FROM post WHERE post_id = $1`

	pgGetComment = `
		SELECT comment_id, post_id, user_id, content, created_at
		FROM comment WHERE comment_id = $1`
	pgGetComments = `
		SELECT comment_id, post_id, user_id, content, created_at
		FROM comment ORDER BY comment_id ASC LIMIT $1`
	pgGetPostComments = `
		SELECT comment_id, post_id, user_id, content, created_at
		FROM comment WHERE post_id = $1 ORDER BY comment_id ASC`
	pgGetCommentsForPosts = `
		SELECT comment_id, post_id, user_id, content, created_at
		FROM comment WHERE post_id = ANY($1) ORDER BY comment_id ASC`
	pgInsertComment = `
		INSERT INTO comment (post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING comment_id`
	pgUpdateComment = `UPDATE comment SET content = $1 WHERE comment_id = $2`
	pgDeleteComment = `DELETE FROM comment WHERE comment_id = $1`

	pgGetUsernames      = `SELECT user_id, username FROM users WHERE user_id = ANY($1)`
	pgGetUserByUsername = `
		SELECT user_id, username, password_hash, created_at
		FROM users WHERE username = $1`
	pgInsertUser = `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, now())
		RETURNING user_id`
)

// PostgresStore runs the same statements as SQLStore against Postgres via pgxpool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects, sizes the pool and ensures the schema exists.
func NewPostgres(ctx context.Context, dsn string, maxConns int32) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema, pgx.QueryExecModeSimpleProtocol); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func scanPost(row pgx.Row) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.PostID, &p.UserID, &p.Title, &p.Markdown, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanComment(row pgx.Row) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.CommentID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt)
	return c, err
}

func (s *PostgresStore) fetchComments(ctx context.Context, op, query string, args ...any) ([]models.Comment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return comments, nil
}

func (s *PostgresStore) execute(ctx context.Context, op, query string, args ...any) (int64, error) {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) insert(ctx context.Context, op, query string, args ...any) (int64, error) {
	var id int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

func (s *PostgresStore) GetPost(ctx context.Context, postID int64) (models.Post, error) {
	p, err := scanPost(s.pool.QueryRow(ctx, pgGetPost, postID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListPosts(ctx context.Context, limit int) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx, pgGetPosts, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostgresStore) InsertPost(ctx context.Context, p models.NewPost) (int64, error) {
	return s.insert(ctx, "insert post", pgAddPost, p.Title, p.Markdown, p.UserID)
}

func (s *PostgresStore) UpdatePost(ctx context.Context, postID int64, title, markdown string) (int64, error) {
	return s.execute(ctx, "update post", pgUpdatePost, title, markdown, postID)
}

func (s *PostgresStore) DeletePost(ctx context.Context, postID int64) (int64, error) {
	return s.execute(ctx, "delete post", pgDeletePost, postID)
}

func (s *PostgresStore) GetComment(ctx context.Context, commentID int64) (models.Comment, error) {
	c, err := scanComment(s.pool.QueryRow(ctx, pgGetComment, commentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Comment{}, ErrNotFound
	}
	if err != nil {
		return models.Comment{}, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListComments(ctx context.Context, limit int) ([]models.Comment, error) {
	return s.fetchComments(ctx, "list comments", pgGetComments, limit)
}

func (s *PostgresStore) ListPostComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	return s.fetchComments(ctx, "list post comments", pgGetPostComments, postID)
}

func (s *PostgresStore) ListCommentsForPosts(ctx context.Context, postIDs []int64) ([]models.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	return s.fetchComments(ctx, "list comments for posts", pgGetCommentsForPosts, postIDs)
}

func (s *PostgresStore) InsertComment(ctx context.Context, c models.NewComment) (int64, error) {
	return s.insert(ctx, "insert comment", pgInsertComment, c.PostID, c.UserID, c.Content)
}

func (s *PostgresStore) UpdateComment(ctx context.Context, commentID int64, content string) (int64, error) {
	return s.execute(ctx, "update comment", pgUpdateComment, content, commentID)
}

func (s *PostgresStore) DeleteComment(ctx context.Context, commentID int64) (int64, error) {
	return s.execute(ctx, "delete comment", pgDeleteComment, commentID)
}

func (s *PostgresStore) Usernames(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}
	rows, err := s.pool.Query(ctx, pgGetUsernames, userIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve usernames: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("resolve usernames: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve usernames: %w", err)
	}
	return names, nil
}

func (s *PostgresStore) InsertUser(ctx context.Context, username, passwordHash string) (int64, error) {
	return s.insert(ctx, "insert user", pgInsertUser, username, passwordHash)
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, pgGetUserByUsername, username).Scan(&u.UserID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
