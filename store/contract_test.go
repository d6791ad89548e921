package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/quill/models"
)

// runStoreContract exercises the behaviour every Store implementation shares.
// s must be empty.
func runStoreContract(t *testing.T, s Store) {
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	var alice, bob int64
	t.Run("users", func(t *testing.T) {
		var err error
		alice, err = s.InsertUser(ctx, "alice", "hash-a")
		require.NoError(t, err)
		bob, err = s.InsertUser(ctx, "bob", "hash-b")
		require.NoError(t, err)
		assert.NotEqual(t, alice, bob)

		_, err = s.InsertUser(ctx, "alice", "other")
		assert.ErrorIs(t, err, ErrDuplicate)

		u, err := s.GetUserByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, bob, u.UserID)
		assert.Equal(t, "hash-b", u.PasswordHash)

		_, err = s.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)

		names, err := s.Usernames(ctx, []int64{alice, bob, 9999})
		require.NoError(t, err)
		assert.Equal(t, map[int64]string{alice: "alice", bob: "bob"}, names)
	})

	var first models.Post
	t.Run("posts", func(t *testing.T) {
		id, err := s.InsertPost(ctx, models.NewPost{UserID: alice, Title: "t", Markdown: "m"})
		require.NoError(t, err)
		first, err = s.GetPost(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, first.PostID)
		assert.Equal(t, alice, first.UserID)
		assert.Equal(t, "t", first.Title)
		assert.Equal(t, "m", first.Markdown)
		assert.False(t, first.CreatedAt.IsZero())
		assert.True(t, first.CreatedAt.Equal(first.UpdatedAt))

		_, err = s.GetPost(ctx, id+1000)
		assert.ErrorIs(t, err, ErrNotFound)

		prev := first.UpdatedAt
		for _, title := range []string{"t2", "t2"} {
			n, err := s.UpdatePost(ctx, id, title, "m2")
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			got, err := s.GetPost(ctx, id)
			require.NoError(t, err)
			assert.True(t, got.UpdatedAt.After(prev))
			assert.True(t, got.CreatedAt.Equal(first.CreatedAt))
			assert.Equal(t, alice, got.UserID)
			prev = got.UpdatedAt
		}

		n, err := s.UpdatePost(ctx, id+1000, "x", "y")
		require.NoError(t, err)
		assert.Zero(t, n)

		for i := 0; i < 11; i++ {
			_, err := s.InsertPost(ctx, models.NewPost{UserID: bob, Title: fmt.Sprintf("p%d", i)})
			require.NoError(t, err)
		}
		posts, err := s.ListPosts(ctx, 10)
		require.NoError(t, err)
		require.Len(t, posts, 10)
		assert.Equal(t, "p10", posts[0].Title)
		for i := 1; i < len(posts); i++ {
			assert.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt))
		}
	})

	t.Run("comments", func(t *testing.T) {
		other, err := s.InsertPost(ctx, models.NewPost{UserID: bob, Title: "other"})
		require.NoError(t, err)

		var ids []int64
		for i := 0; i < 12; i++ {
			postID := first.PostID
			if i%3 == 2 {
				postID = other
			}
			id, err := s.InsertComment(ctx, models.NewComment{PostID: postID, UserID: bob, Content: fmt.Sprintf("c%d", i)})
			require.NoError(t, err)
			ids = append(ids, id)
		}

		c, err := s.GetComment(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, first.PostID, c.PostID)
		assert.Equal(t, "c0", c.Content)
		assert.False(t, c.CreatedAt.IsZero())

		_, err = s.GetComment(ctx, ids[11]+1000)
		assert.ErrorIs(t, err, ErrNotFound)

		recent, err := s.ListComments(ctx, 10)
		require.NoError(t, err)
		require.Len(t, recent, 10)
		assert.Equal(t, ids[0], recent[0].CommentID)
		for i := 1; i < len(recent); i++ {
			assert.Greater(t, recent[i].CommentID, recent[i-1].CommentID)
		}

		onFirst, err := s.ListPostComments(ctx, first.PostID)
		require.NoError(t, err)
		assert.Len(t, onFirst, 8)

		both, err := s.ListCommentsForPosts(ctx, []int64{first.PostID, other})
		require.NoError(t, err)
		assert.Len(t, both, 12)

		none, err := s.ListPostComments(ctx, 424242)
		require.NoError(t, err)
		assert.Empty(t, none)

		for i := 0; i < 2; i++ {
			n, err := s.UpdateComment(ctx, ids[0], "same")
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
		}

		n, err := s.DeleteComment(ctx, ids[1])
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		n, err = s.DeleteComment(ctx, ids[1])
		require.NoError(t, err)
		assert.Zero(t, n)

		// deleting a post leaves its comments alone
		n, err = s.DeletePost(ctx, other)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		orphans, err := s.ListPostComments(ctx, other)
		require.NoError(t, err)
		assert.Len(t, orphans, 4)
	})
}
