package sql

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Brawl345/invitebot/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteLinkService_ListNewestFirst(t *testing.T) {
	links := NewInviteLinkService(newTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(time.Hour),
		base.Add(time.Hour), // tie, broken by id
		base.Add(30 * time.Minute),
	}

	for i, ts := range times {
		links.now = func() time.Time { return ts }
		require.NoError(t, links.Add(ctx, int64(i+1), fmt.Sprintf("https://t.me/+link%d", i+1)))
	}

	list, err := links.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)

	var got []string
	for _, l := range list {
		got = append(got, l.Link)
	}
	assert.Equal(t, []string{
		"https://t.me/+link3",
		"https://t.me/+link2",
		"https://t.me/+link4",
		"https://t.me/+link1",
	}, got)

	assert.Equal(t, int64(3), list[0].SubmitterID)
	assert.True(t, list[0].CreatedAt.Equal(base.Add(time.Hour)))
	assert.Equal(t, time.UTC, list[0].CreatedAt.Location())
}

func TestInviteLinkService_Empty(t *testing.T) {
	links := NewInviteLinkService(newTestDB(t))

	list, err := links.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInviteLinkService_NoDeduplication(t *testing.T) {
	links := NewInviteLinkService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, links.Add(ctx, 42, "https://t.me/+same"))
	require.NoError(t, links.Add(ctx, 42, "https://t.me/+same"))

	list, err := links.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.NotEqual(t, list[0].ID, list[1].ID)
}

func TestInviteLinkService_ConcurrentAdd(t *testing.T) {
	links := NewInviteLinkService(newTestDB(t))
	ctx := context.Background()

	const n = 40
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- links.Add(ctx, int64(i), fmt.Sprintf("https://t.me/joinchat/%d", i))
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	list, err := links.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, n)

	seen := make(map[int64]bool, n)
	for _, l := range list {
		assert.False(t, seen[l.ID], "duplicate id %d", l.ID)
		seen[l.ID] = true
	}

	assert.True(t, sort.SliceIsSorted(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	}), "links must be listed newest first")
}

func TestInviteLinkService_IDsStrictlyIncreasing(t *testing.T) {
	links := NewInviteLinkService(newTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := range 5 {
		links.now = func() time.Time { return base.Add(time.Duration(i) * time.Second) }
		require.NoError(t, links.Add(ctx, 42, "https://t.me/+abc"))
	}

	list, err := links.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)

	// newest first, so ids must be strictly decreasing
	for i := 1; i < len(list); i++ {
		assert.Greater(t, list[i-1].ID, list[i].ID)
	}
}

func TestInviteLinkService_StorageFailure(t *testing.T) {
	db := newTestDB(t)
	links := NewInviteLinkService(db)
	require.NoError(t, db.Close())

	err := links.Add(context.Background(), 42, "https://t.me/+abc")
	assert.True(t, model.IsStorageError(err))

	_, err = links.List(context.Background())
	assert.True(t, model.IsStorageError(err))
}
