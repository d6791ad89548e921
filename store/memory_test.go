package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/quill/models"
)

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemory())
}

func TestMemoryUpdatedAtAdvancesOnFrozenClock(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return frozen }

	id, err := m.InsertPost(ctx, models.NewPost{UserID: 1, Title: "t"})
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		_, err := m.UpdatePost(ctx, id, "t", "m")
		require.NoError(t, err)
		p, err := m.GetPost(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, frozen.Add(time.Duration(i)*time.Microsecond), p.UpdatedAt)
	}
}

func TestMemoryTieBreaksOnID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.now = func() time.Time { return time.Unix(0, 0).UTC() }
	for i := 0; i < 3; i++ {
		_, err := m.InsertPost(ctx, models.NewPost{UserID: 1, Title: "t"})
		require.NoError(t, err)
	}
	posts, err := m.ListPosts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{posts[0].PostID, posts[1].PostID, posts[2].PostID})
}

func TestMemoryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()
	_, err := m.ListPosts(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = m.InsertComment(ctx, models.NewComment{PostID: 1, UserID: 1, Content: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, m.Ping(ctx), context.Canceled)
}
