package share

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/leafshare/leafshare/pkg/types"
)

func folder(id, owner, path string) types.Content {
	return types.Content{ID: id, OwnerID: owner, Title: id, Type: types.CONTENT_TYPE_FOLDER, Path: path, Slug: id, ShareCode: "code-" + id, Permission: types.PERMISSION_UNLISTED}
}

func file(id, owner, title, path string) types.Content {
	return types.Content{ID: id, OwnerID: owner, Title: title, Type: types.CONTENT_TYPE_FILE, Path: path, Slug: id, ShareCode: "code-" + id, Permission: types.PERMISSION_PUBLIC, Size: 10}
}

func newNavigator(store *memStore) *Navigator {
	return NewNavigator(NewResolver(store, WithClock(fixedClock)), store, language.English)
}

// 文件的 path 为其自身位置，与文件夹一致
func names(items []types.ContentSummary) []string {
	res := make([]string, 0, len(items))
	for _, item := range items {
		res = append(res, item.Path)
	}
	return res
}

func TestListChildrenDirectOnly(t *testing.T) {
	store := newMemStore(
		folder("root", "o", "/"),
		folder("a", "o", "/a"),
		folder("b", "o", "/a/b"),
		folder("c", "o", "/a/b/c"),
	)
	got, err := newNavigator(store).ListChildren(context.Background(), "a", "/", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/b"}, names(got))
}

func TestListChildrenRelativePath(t *testing.T) {
	store := newMemStore(
		folder("a", "o", "/a"),
		folder("b", "o", "/a/b"),
		folder("c", "o", "/a/b/c"),
		file("f1", "o", "notes", "/a/b/notes"),
		file("f2", "o", "deep", "/a/b/c/deep"),
	)
	got, err := newNavigator(store).ListChildren(context.Background(), "a", "b", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/b/c", "/a/b/notes"}, names(got))
}

func TestListChildrenRootFolder(t *testing.T) {
	store := newMemStore(
		folder("root", "o", "/"),
		folder("docs", "o", "/docs"),
		file("readme", "o", "README", "/README"),
		file("nested", "o", "nested", "/docs/nested"),
	)
	got, err := newNavigator(store).ListChildren(context.Background(), "root", "/", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/docs", "/README"}, names(got))
}

func TestListChildrenSortAndVisibility(t *testing.T) {
	blocked := file("blocked", "o", "blocked", "/a/blocked")
	blocked.IsBlocked = true
	private := file("private", "o", "private", "/a/private")
	private.Permission = types.PERMISSION_PRIVATE
	expired := file("expired", "o", "expired", "/a/expired")
	expired.ExpiresAt = fixedNow.UnixMilli()

	store := newMemStore(
		folder("a", "o", "/a"),
		file("z", "o", "zeta", "/a/zeta"),
		file("b", "o", "Beta", "/a/beta"),
		file("al", "o", "alpha", "/a/alpha"),
		folder("sub", "o", "/a/sub"),
		file("other", "someone-else", "alpha", "/a/alpha"),
		blocked, private, expired,
	)
	nav := newNavigator(store)

	got, err := nav.ListChildren(context.Background(), "a", "/", "")
	require.NoError(t, err)
	titles := make([]string, 0, len(got))
	for _, item := range got {
		titles = append(titles, item.Name)
		assert.NotEqual(t, "blocked", item.Name)
	}
	assert.Equal(t, []string{"sub", "alpha", "Beta", "zeta"}, titles)
	assert.Equal(t, types.CONTENT_TYPE_FOLDER, got[0].Type)

	// 作者可以看到自己的私有文件
	got, err = nav.ListChildren(context.Background(), "a", "/", "o")
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestListChildrenRejects(t *testing.T) {
	blockedFolder := folder("blocked", "o", "/x")
	blockedFolder.IsBlocked = true
	store := newMemStore(
		folder("a", "o", "/a"),
		file("f", "o", "file", "/file"),
		blockedFolder,
	)
	nav := newNavigator(store)
	ctx := context.Background()

	_, err := nav.ListChildren(ctx, "a", "../etc", "")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = nav.ListChildren(ctx, "f", "/", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = nav.ListChildren(ctx, "blocked", "/", "o")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = nav.ListChildren(ctx, "missing", "/", "")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := nav.ListChildren(ctx, "a", "/nothing-here", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListChildrenDoesNotCount(t *testing.T) {
	store := newMemStore(folder("a", "o", "/a"))
	_, err := newNavigator(store).ListChildren(context.Background(), "a", "/", "")
	require.NoError(t, err)
	assert.Zero(t, store.accessCount("a"))
}
