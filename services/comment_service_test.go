package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/quill/store"
)

func TestCommentService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	post := f.post(t, alice, "hello")

	t.Run("author is the caller without a lookup", func(t *testing.T) {
		f.dir.reset()
		c, err := f.comments.Create(ctx, bob, post.PostID, "nice post")
		require.NoError(t, err)
		assert.NotZero(t, c.CommentID)
		assert.Equal(t, post.PostID, c.PostID)
		assert.Equal(t, bob.UserID, c.UserID)
		assert.Equal(t, "bob", c.Author)
		assert.Equal(t, "nice post", c.Content)
		assert.False(t, c.CreatedAt.IsZero())
		assert.Zero(t, f.dir.count())
	})

	t.Run("requires identity", func(t *testing.T) {
		_, err := f.comments.Create(ctx, zeroIdentity, post.PostID, "anon")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("rejects blank content", func(t *testing.T) {
		_, err := f.comments.Create(ctx, bob, post.PostID, "  \n")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := f.comments.Create(ctx, bob, 4040, "hello?")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCommentService_Edit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	post := f.post(t, alice, "hello")
	c := f.comment(t, bob, post.PostID, "first")

	t.Run("owner edits content only", func(t *testing.T) {
		f.dir.reset()
		got, err := f.comments.Edit(ctx, bob, c.CommentID, "edited")
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Content)
		assert.Equal(t, "bob", got.Author)
		assert.Equal(t, c.PostID, got.PostID)
		assert.Equal(t, c.CreatedAt, got.CreatedAt)
		assert.Zero(t, f.dir.count())
	})

	t.Run("same content again still succeeds", func(t *testing.T) {
		_, err := f.comments.Edit(ctx, bob, c.CommentID, "edited")
		assert.NoError(t, err)
	})

	t.Run("other user is forbidden and nothing changes", func(t *testing.T) {
		_, err := f.comments.Edit(ctx, alice, c.CommentID, "hijack")
		assert.ErrorIs(t, err, ErrForbidden)
		stored, err := f.mem.GetComment(ctx, c.CommentID)
		require.NoError(t, err)
		assert.Equal(t, "edited", stored.Content)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.comments.Edit(ctx, zeroIdentity, c.CommentID, "x")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("missing comment", func(t *testing.T) {
		_, err := f.comments.Edit(ctx, bob, 999, "x")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCommentService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	post := f.post(t, alice, "hello")
	c := f.comment(t, bob, post.PostID, "first")

	assert.ErrorIs(t, f.comments.Delete(ctx, zeroIdentity, c.CommentID), ErrUnauthenticated)
	assert.ErrorIs(t, f.comments.Delete(ctx, alice, c.CommentID), ErrForbidden)
	require.NoError(t, f.comments.Delete(ctx, bob, c.CommentID))

	_, err := f.mem.GetComment(ctx, c.CommentID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// the row is gone, so the guard reports it missing
	assert.ErrorIs(t, f.comments.Delete(ctx, bob, c.CommentID), ErrNotFound)
}

func TestCommentService_VanishedBetweenCheckAndWrite(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	f := newFixtureWith(t, mem, vanishingStore{mem})
	alice := f.user(t, "alice")
	post := f.post(t, alice, "hello")

	c := f.comment(t, alice, post.PostID, "one")
	_, err := f.comments.Edit(ctx, alice, c.CommentID, "two")
	assert.ErrorIs(t, err, ErrNotFound)

	c = f.comment(t, alice, post.PostID, "three")
	assert.NoError(t, f.comments.Delete(ctx, alice, c.CommentID))
}

func TestCommentService_ListRecent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	post := f.post(t, alice, "hello")

	for i := 0; i < 15; i++ {
		who := alice
		if i%2 == 1 {
			who = bob
		}
		f.comment(t, who, post.PostID, fmt.Sprintf("c%d", i))
	}

	f.dir.reset()
	got, err := f.comments.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, got, RecentLimit)
	for i, c := range got {
		assert.Equal(t, fmt.Sprintf("c%d", i), c.Content)
		if i > 0 {
			assert.Greater(t, c.CommentID, got[i-1].CommentID)
		}
	}
	assert.Equal(t, "alice", got[0].Author)
	assert.Equal(t, "bob", got[1].Author)
	assert.Equal(t, 1, f.dir.count())
}

func TestCommentService_ListForPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	p1 := f.post(t, alice, "one")
	p2 := f.post(t, alice, "two")
	f.comment(t, alice, p1.PostID, "a")
	f.comment(t, alice, p2.PostID, "b")
	f.comment(t, alice, p1.PostID, "c")

	got, err := f.comments.ListForPost(ctx, p1.PostID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Content)
	assert.Equal(t, "c", got[1].Content)

	none, err := f.comments.ListForPost(ctx, 12345)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCommentService_ListForPosts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	p1 := f.post(t, alice, "one")
	p2 := f.post(t, alice, "two")
	f.comment(t, alice, p1.PostID, "a")

	got, err := f.comments.ListForPosts(ctx, []int64{p1.PostID, p2.PostID})
	require.NoError(t, err)
	assert.Len(t, got[p1.PostID], 1)
	assert.NotNil(t, got[p2.PostID])
	assert.Empty(t, got[p2.PostID])
}

func TestCommentService_StoreFailure(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	f := newFixtureWith(t, mem, brokenStore{mem})
	alice := f.user(t, "alice")
	post := f.post(t, alice, "hello")

	_, err := f.comments.ListRecent(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, errBoom)

	_, err = f.comments.Create(ctx, alice, post.PostID, "x")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestCommentService_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.comments.ListRecent(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
