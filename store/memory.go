package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cppla/quill/models"
)

// Memory is an in-process Store with the same ordering and timestamp rules as
// the SQL stores. It is used for development (-storage memory) and tests.
type Memory struct {
	mu          sync.RWMutex
	posts       map[int64]models.Post
	comments    map[int64]models.Comment
	users       map[int64]models.User
	nextPost    int64
	nextComment int64
	nextUser    int64
	now         func() time.Time
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		posts:    make(map[int64]models.Post),
		comments: make(map[int64]models.Comment),
		users:    make(map[int64]models.User),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (m *Memory) GetPost(ctx context.Context, postID int64) (models.Post, error) {
	if err := ctx.Err(); err != nil {
		return models.Post{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[postID]
	if !ok {
		return models.Post{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) ListPosts(ctx context.Context, limit int) ([]models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	posts := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	m.mu.RUnlock()

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].PostID > posts[j].PostID
	})
	if limit >= 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (m *Memory) InsertPost(ctx context.Context, p models.NewPost) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPost++
	now := m.now()
	m.posts[m.nextPost] = models.Post{
		PostID:    m.nextPost,
		UserID:    p.UserID,
		Title:     p.Title,
		Markdown:  p.Markdown,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return m.nextPost, nil
}

func (m *Memory) UpdatePost(ctx context.Context, postID int64, title, markdown string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return 0, nil
	}
	now := m.now()
	if !now.After(p.UpdatedAt) {
		now = p.UpdatedAt.Add(time.Microsecond)
	}
	p.Title = title
	p.Markdown = markdown
	p.UpdatedAt = now
	m.posts[postID] = p
	return 1, nil
}

func (m *Memory) DeletePost(ctx context.Context, postID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return 0, nil
	}
	delete(m.posts, postID)
	return 1, nil
}

func (m *Memory) GetComment(ctx context.Context, commentID int64) (models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return models.Comment{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.comments[commentID]
	if !ok {
		return models.Comment{}, ErrNotFound
	}
	return c, nil
}

// sortedComments returns the comments accepted by keep, ordered by id.
func (m *Memory) sortedComments(keep func(models.Comment) bool) []models.Comment {
	m.mu.RLock()
	out := make([]models.Comment, 0)
	for _, c := range m.comments {
		if keep(c) {
			out = append(out, c)
		}
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CommentID < out[j].CommentID })
	return out
}

func (m *Memory) ListComments(ctx context.Context, limit int) ([]models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := m.sortedComments(func(models.Comment) bool { return true })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) ListPostComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.sortedComments(func(c models.Comment) bool { return c.PostID == postID }), nil
}

func (m *Memory) ListCommentsForPosts(ctx context.Context, postIDs []int64) ([]models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want := make(map[int64]struct{}, len(postIDs))
	for _, id := range postIDs {
		want[id] = struct{}{}
	}
	return m.sortedComments(func(c models.Comment) bool {
		_, ok := want[c.PostID]
		return ok
	}), nil
}

func (m *Memory) InsertComment(ctx context.Context, c models.NewComment) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextComment++
	m.comments[m.nextComment] = models.Comment{
		CommentID: m.nextComment,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: m.now(),
	}
	return m.nextComment, nil
}

func (m *Memory) UpdateComment(ctx context.Context, commentID int64, content string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[commentID]
	if !ok {
		return 0, nil
	}
	c.Content = content
	m.comments[commentID] = c
	return 1, nil
}

func (m *Memory) DeleteComment(ctx context.Context, commentID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[commentID]; !ok {
		return 0, nil
	}
	delete(m.comments, commentID)
	return 1, nil
}

func (m *Memory) Usernames(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make(map[int64]string, len(userIDs))
	for _, id := range userIDs {
		if u, ok := m.users[id]; ok {
			names[id] = u.Username
		}
	}
	return names, nil
}

func (m *Memory) InsertUser(ctx context.Context, username, passwordHash string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return 0, ErrDuplicate
		}
	}
	m.nextUser++
	m.users[m.nextUser] = models.User{
		UserID:       m.nextUser,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    m.now(),
	}
	return m.nextUser, nil
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) Ping(ctx context.Context) error { return ctx.Err() }

func (m *Memory) Close() error { return nil }
