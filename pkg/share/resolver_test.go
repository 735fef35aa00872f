package share

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafshare/leafshare/pkg/types"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestResolveBySlugAndShareCode(t *testing.T) {
	store := newMemStore(types.Content{
		ID:         "1",
		OwnerID:    "owner",
		Title:      "Hello",
		Body:       "body",
		Slug:       "hello",
		ShareCode:  "0123456789abcdef0123456789abcdef",
		Permission: types.PERMISSION_UNLISTED,
		IsBlocked:  false,
	})
	r := NewResolver(store, WithClock(fixedClock), WithOwnerDirectory(staticOwners{"owner": "Alice"}))

	bySlug, err := r.Resolve(context.Background(), "hello", "")
	require.NoError(t, err)
	byCode, err := r.Resolve(context.Background(), "0123456789abcdef0123456789abcdef", "")
	require.NoError(t, err)

	assert.Equal(t, bySlug.ID, byCode.ID)
	assert.Equal(t, "Alice", bySlug.OwnerName)
	assert.False(t, bySlug.IsOwner)
	assert.Equal(t, int64(1), bySlug.AccessCount)
	assert.Equal(t, int64(2), byCode.AccessCount)
}

func TestResolveIndistinguishableNotFound(t *testing.T) {
	store := newMemStore(
		types.Content{ID: "blocked", OwnerID: "o", Slug: "blocked", ShareCode: "c1", Permission: types.PERMISSION_PUBLIC, IsBlocked: true},
		types.Content{ID: "expired", OwnerID: "o", Slug: "expired", ShareCode: "c2", Permission: types.PERMISSION_PUBLIC, ExpiresAt: fixedNow.UnixMilli()},
		types.Content{ID: "private", OwnerID: "o", Slug: "private", ShareCode: "c3", Permission: types.PERMISSION_PRIVATE},
	)

	var outcomes []string
	r := NewResolver(store, WithClock(fixedClock), WithObserver(func(o string) { outcomes = append(outcomes, o) }))

	for _, identifier := range []string{"missing", "blocked", "expired", "private", ""} {
		view, err := r.Resolve(context.Background(), identifier, "stranger")
		assert.Nil(t, view, identifier)
		assert.Equal(t, ErrNotFound, err, identifier)
	}
	assert.Equal(t, []string{"not_found", "blocked", "expired", "forbidden", "not_found"}, outcomes)

	// 被拒绝的访问不计数
	for _, id := range []string{"blocked", "expired", "private"} {
		assert.Zero(t, store.accessCount(id))
	}
}

func TestResolvePrivateOwner(t *testing.T) {
	store := newMemStore(types.Content{ID: "1", OwnerID: "owner", Slug: "mine", ShareCode: "c", Permission: types.PERMISSION_PRIVATE})
	r := NewResolver(store, WithClock(fixedClock))

	view, err := r.Resolve(context.Background(), "mine", "owner")
	require.NoError(t, err)
	assert.True(t, view.IsOwner)

	_, err = r.Resolve(context.Background(), "mine", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveBlockedOwner(t *testing.T) {
	store := newMemStore(types.Content{ID: "1", OwnerID: "owner", Slug: "mine", ShareCode: "c", Permission: types.PERMISSION_PUBLIC, IsBlocked: true})
	_, err := NewResolver(store, WithClock(fixedClock)).Resolve(context.Background(), "mine", "owner")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthorizeDoesNotCount(t *testing.T) {
	store := newMemStore(types.Content{ID: "1", Slug: "s", ShareCode: "c", Permission: types.PERMISSION_PUBLIC})
	r := NewResolver(store, WithClock(fixedClock))

	_, err := r.Authorize(context.Background(), "s", "")
	require.NoError(t, err)
	assert.Zero(t, store.accessCount("1"))
}

func TestResolveConcurrentAccessCount(t *testing.T) {
	store := newMemStore(types.Content{ID: "1", Slug: "popular", ShareCode: "c", Permission: types.PERMISSION_PUBLIC, AccessCount: 7})
	r := NewResolver(store, WithClock(fixedClock))

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Resolve(context.Background(), "popular", ""); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatal(err)
	}
	assert.Equal(t, int64(107), store.accessCount("1"))
}

func TestViewOmitsInternalFields(t *testing.T) {
	r := NewResolver(newMemStore())
	view := r.View(context.Background(), &types.Content{ID: "1", OwnerID: "o", IsBlocked: true, BodyKey: "content/1"}, "")
	assert.Equal(t, "1", view.ID)
	assert.Empty(t, view.OwnerName)
}

func TestViewShareCodeOwnerOnly(t *testing.T) {
	const code = "0123456789abcdef0123456789abcdef"
	store := newMemStore(types.Content{ID: "1", OwnerID: "owner", Slug: "pub", ShareCode: code, Permission: types.PERMISSION_PUBLIC})
	r := NewResolver(store, WithClock(fixedClock))

	tests := []struct {
		name       string
		identifier string
		viewer     string
		want       string
	}{
		{name: "anonymous by slug", identifier: "pub", viewer: "", want: ""},
		{name: "stranger by slug", identifier: "pub", viewer: "someone", want: ""},
		{name: "anonymous by code", identifier: code, viewer: "", want: ""},
		{name: "owner", identifier: "pub", viewer: "owner", want: code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := r.Resolve(context.Background(), tt.identifier, tt.viewer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, view.ShareCode)
			assert.Equal(t, tt.viewer == "owner", view.IsOwner)
		})
	}
}
