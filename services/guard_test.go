package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/quill/store"
)

func TestOwns(t *testing.T) {
	ctx := context.Background()
	owner := func(id int64) OwnerFunc {
		return func(context.Context, int64) (int64, error) { return id, nil }
	}

	t.Run("owner is allowed", func(t *testing.T) {
		d, err := Owns(ctx, owner(7), 1, 7)
		require.NoError(t, err)
		assert.Equal(t, Allowed, d)
		assert.NoError(t, d.Err())
	})

	t.Run("other user is denied", func(t *testing.T) {
		d, err := Owns(ctx, owner(7), 1, 8)
		require.NoError(t, err)
		assert.Equal(t, Denied, d)
		assert.ErrorIs(t, d.Err(), ErrForbidden)
	})

	t.Run("missing resource", func(t *testing.T) {
		missing := func(context.Context, int64) (int64, error) { return 0, store.ErrNotFound }
		d, err := Owns(ctx, missing, 1, 7)
		require.NoError(t, err)
		assert.Equal(t, NotFound, d)
		assert.ErrorIs(t, d.Err(), ErrNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		failing := func(context.Context, int64) (int64, error) { return 0, errors.New("timeout") }
		_, err := Owns(ctx, failing, 1, 7)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestAuthorizeChecksIdentityFirst(t *testing.T) {
	called := false
	owner := func(context.Context, int64) (int64, error) {
		called = true
		return 1, nil
	}
	err := authorize(context.Background(), zeroIdentity, owner, 1)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.False(t, called)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allowed", Allowed.String())
	assert.Equal(t, "denied", Denied.String())
	assert.Equal(t, "not_found", NotFound.String())
}

func TestServiceAuthorize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	p := f.post(t, alice, "t")
	c := f.comment(t, alice, p.PostID, "c")

	assert.NoError(t, f.posts.Authorize(ctx, alice, p.PostID))
	assert.ErrorIs(t, f.posts.Authorize(ctx, bob, p.PostID), ErrForbidden)
	assert.ErrorIs(t, f.posts.Authorize(ctx, zeroIdentity, p.PostID), ErrUnauthenticated)
	assert.ErrorIs(t, f.posts.Authorize(ctx, alice, 999), ErrNotFound)

	assert.NoError(t, f.comments.Authorize(ctx, alice, c.CommentID))
	assert.ErrorIs(t, f.comments.Authorize(ctx, bob, c.CommentID), ErrForbidden)
	assert.ErrorIs(t, f.comments.Authorize(ctx, alice, 999), ErrNotFound)
}
