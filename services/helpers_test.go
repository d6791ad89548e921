package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cppla/quill/models"
	"github.com/cppla/quill/store"
)

// countingDirectory records every username lookup that reaches the store.
type countingDirectory struct {
	inner UserDirectory
	mu    sync.Mutex
	calls [][]int64
	err   error
}

func (d *countingDirectory) Usernames(ctx context.Context, ids []int64) (map[int64]string, error) {
	d.mu.Lock()
	d.calls = append(d.calls, append([]int64(nil), ids...))
	err := d.err
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return d.inner.Usernames(ctx, ids)
}

func (d *countingDirectory) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func (d *countingDirectory) reset() {
	d.mu.Lock()
	d.calls = nil
	d.mu.Unlock()
}

// vanishingStore deletes the target row right before each mutation, as a
// concurrent request would between the ownership check and the write.
type vanishingStore struct {
	*store.Memory
}

func (v vanishingStore) UpdatePost(ctx context.Context, id int64, title, markdown string) (int64, error) {
	_, _ = v.Memory.DeletePost(ctx, id)
	return v.Memory.UpdatePost(ctx, id, title, markdown)
}

func (v vanishingStore) DeletePost(ctx context.Context, id int64) (int64, error) {
	_, _ = v.Memory.DeletePost(ctx, id)
	return v.Memory.DeletePost(ctx, id)
}

func (v vanishingStore) UpdateComment(ctx context.Context, id int64, content string) (int64, error) {
	_, _ = v.Memory.DeleteComment(ctx, id)
	return v.Memory.UpdateComment(ctx, id, content)
}

func (v vanishingStore) DeleteComment(ctx context.Context, id int64) (int64, error) {
	_, _ = v.Memory.DeleteComment(ctx, id)
	return v.Memory.DeleteComment(ctx, id)
}

var errBoom = errors.New("connection refused")

// brokenStore fails every listing.
type brokenStore struct {
	*store.Memory
}

func (brokenStore) ListPosts(context.Context, int) ([]models.Post, error) { return nil, errBoom }

func (brokenStore) ListComments(context.Context, int) ([]models.Comment, error) {
	return nil, errBoom
}

func (brokenStore) InsertComment(context.Context, models.NewComment) (int64, error) {
	return 0, errBoom
}

var zeroIdentity models.Identity

type fixture struct {
	mem      *store.Memory
	dir      *countingDirectory
	authors  *AuthorResolver
	posts    *PostService
	comments *CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	return newFixtureWith(t, mem, mem)
}

func newFixtureWith(t *testing.T, mem *store.Memory, s store.Store) *fixture {
	t.Helper()
	dir := &countingDirectory{inner: mem}
	authors := NewAuthorResolver(dir, time.Millisecond)
	comments := NewCommentService(s, s, authors)
	return &fixture{
		mem:      mem,
		dir:      dir,
		authors:  authors,
		posts:    NewPostService(s, comments, authors),
		comments: comments,
	}
}

func (f *fixture) user(t *testing.T, name string) models.Identity {
	t.Helper()
	id, err := f.mem.InsertUser(context.Background(), name, "hash")
	require.NoError(t, err)
	return models.Identity{UserID: id, Username: name}
}

func (f *fixture) post(t *testing.T, owner models.Identity, title string) models.PostView {
	t.Helper()
	p, err := f.posts.Create(context.Background(), owner, title, "body of "+title)
	require.NoError(t, err)
	return p
}

func (f *fixture) comment(t *testing.T, owner models.Identity, postID int64, content string) models.CommentView {
	t.Helper()
	c, err := f.comments.Create(context.Background(), owner, postID, content)
	require.NoError(t, err)
	return c
}
