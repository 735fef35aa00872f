package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafshare/leafshare/pkg/share"
	"github.com/leafshare/leafshare/pkg/testutils"
	"github.com/leafshare/leafshare/pkg/types"
)

type dsn string

func (d dsn) FormatDSN() string { return string(d) }

// setupContentStore 需要设置 LEAFSHARE_POSTGRESQL_DSN 才会运行
func setupContentStore(t *testing.T) *ContentStore {
	t.Helper()
	testutils.LoadEnv()
	conn := os.Getenv("LEAFSHARE_POSTGRESQL_DSN")
	if conn == "" {
		t.Skip("LEAFSHARE_POSTGRESQL_DSN not set")
	}

	p := MustSetup(dsn(conn))()
	require.NoError(t, p.Install())
	return p.ContentStore().(*ContentStore)
}

func newTestContent(title string) types.Content {
	id := fmt.Sprintf("t%d", time.Now().UnixNano())
	return types.Content{
		ID:         id,
		OwnerID:    "store-test",
		Title:      title,
		Slug:       "slug-" + id,
		ShareCode:  "code-" + id,
		Permission: types.PERMISSION_PUBLIC,
		Type:       types.CONTENT_TYPE_FILE,
		Path:       "/",
	}
}

func TestMapWriteError(t *testing.T) {
	assert.ErrorIs(t, mapWriteError(&pq.Error{Code: "23505", Constraint: constraintContentSlug}), share.ErrDuplicateSlug)
	assert.ErrorIs(t, mapWriteError(&pq.Error{Code: "23505", Constraint: constraintContentShareCode}), share.ErrDuplicateShareCode)

	other := &pq.Error{Code: "23505", Constraint: "leaf_content_pkey"}
	assert.Equal(t, error(other), mapWriteError(other))
	assert.Nil(t, mapWriteError(nil))
}

func TestContentStoreUniqueIdentifiers(t *testing.T) {
	s := setupContentStore(t)
	ctx := context.Background()

	first := newTestContent("unique")
	require.NoError(t, s.Create(ctx, first))
	defer s.Delete(ctx, first.ID)

	dupSlug := newTestContent("dup slug")
	dupSlug.Slug = first.Slug
	assert.ErrorIs(t, s.Create(ctx, dupSlug), share.ErrDuplicateSlug)

	dupCode := newTestContent("dup code")
	dupCode.ShareCode = first.ShareCode
	assert.ErrorIs(t, s.Create(ctx, dupCode), share.ErrDuplicateShareCode)

	bySlug, err := s.GetByIdentifier(ctx, first.Slug)
	require.NoError(t, err)
	byCode, err := s.GetByIdentifier(ctx, first.ShareCode)
	require.NoError(t, err)
	assert.Equal(t, bySlug.ID, byCode.ID)

	_, err = s.GetByIdentifier(ctx, "")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestContentStoreIncrAccessCountConcurrent(t *testing.T) {
	s := setupContentStore(t)
	ctx := context.Background()

	c := newTestContent("counter")
	require.NoError(t, s.Create(ctx, c))
	defer s.Delete(ctx, c.ID)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.IncrAccessCount(ctx, c.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.AccessCount)
}

func TestContentStoreListByPathPrefixEscapes(t *testing.T) {
	s := setupContentStore(t)
	ctx := context.Background()
	owner := fmt.Sprintf("owner-%d", time.Now().UnixNano())

	var created []string
	for _, p := range []string{"/100%", "/100%/a", "/100x/b", "/1_0/c", "/100%/a/deep"} {
		c := newTestContent(p)
		c.OwnerID = owner
		c.Path = p
		require.NoError(t, s.Create(ctx, c))
		created = append(created, c.ID)
	}
	defer s.DeleteByIDs(ctx, created)

	res, err := s.ListByPathPrefix(ctx, owner, "/100%/")
	require.NoError(t, err)

	paths := make([]string, 0, len(res))
	for _, r := range res {
		paths = append(paths, r.Path)
	}
	assert.ElementsMatch(t, []string{"/100%", "/100%/a", "/100%/a/deep"}, paths)
}

func TestContentStoreSetIdentifiersOnce(t *testing.T) {
	s := setupContentStore(t)
	ctx := context.Background()

	c := newTestContent("legacy")
	c.Slug, c.ShareCode = "", ""
	require.NoError(t, s.Create(ctx, c))
	defer s.Delete(ctx, c.ID)

	require.NoError(t, s.SetIdentifiers(ctx, c.ID, "legacy-"+c.ID, "code-"+c.ID))
	assert.ErrorIs(t, s.SetIdentifiers(ctx, c.ID, "other-"+c.ID, "other-"+c.ID), sql.ErrNoRows)

	slugs, err := s.ListSlugsWithPrefix(ctx, "legacy-"+c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy-" + c.ID}, slugs)
}

func TestContentStoreSetIdentifiersFillsMissingShareCode(t *testing.T) {
	s := setupContentStore(t)
	ctx := context.Background()

	c := newTestContent("half")
	c.ShareCode = ""
	require.NoError(t, s.Create(ctx, c))
	defer s.Delete(ctx, c.ID)

	require.NoError(t, s.SetIdentifiers(ctx, c.ID, "ignored-"+c.ID, "code-"+c.ID))

	stored, err := s.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Slug, stored.Slug)
	assert.Equal(t, "code-"+c.ID, stored.ShareCode)

	assert.ErrorIs(t, s.SetIdentifiers(ctx, c.ID, "x-"+c.ID, "y-"+c.ID), sql.ErrNoRows)
}

func TestContentStoreIdentifierPrefersShareCode(t *testing.T) {
	s := setupContentStore(t)
	ctx := context.Background()

	victim := newTestContent("victim")
	require.NoError(t, s.Create(ctx, victim))
	defer s.Delete(ctx, victim.ID)

	// 历史数据中 slug 恰好等于另一条记录的 share code
	clash := newTestContent("clash")
	clash.Slug = victim.ShareCode
	require.NoError(t, s.Create(ctx, clash))
	defer s.Delete(ctx, clash.ID)

	for i := 0; i < 20; i++ {
		got, err := s.GetByIdentifier(ctx, victim.ShareCode)
		require.NoError(t, err)
		assert.Equal(t, victim.ID, got.ID)
	}
}
