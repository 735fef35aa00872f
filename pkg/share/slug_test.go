package share

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafshare/leafshare/pkg/types"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
		err   error
	}{
		{name: "basic", title: "My First Note", want: "my-first-note"},
		{name: "punctuation dropped", title: "Hello, World!", want: "hello-world"},
		{name: "apostrophe joins", title: "Don't Panic", want: "dont-panic"},
		{name: "whitespace runs", title: "  a \t\n b  ", want: "a-b"},
		{name: "repeated hyphens", title: "a -- b---c", want: "a-b-c"},
		{name: "leading trailing hyphens", title: "--edge--", want: "edge"},
		{name: "digits", title: "Release 2.0", want: "release-20"},
		{name: "non ascii only", title: "你好", err: ErrInvalidTitle},
		{name: "empty", title: "", err: ErrInvalidTitle},
		{name: "mixed", title: "Go 语言 Notes", want: "go-notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Slugify(tt.title)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, slugPattern, got)
		})
	}
}

func TestSlugifyTruncates(t *testing.T) {
	got, err := Slugify(strings.Repeat("word ", 40))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), MaxSlugLength)
	assert.Regexp(t, slugPattern, got)

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "cut at last hyphen", title: strings.Repeat("a", 78) + " bbbbb", want: strings.Repeat("a", 78)},
		{name: "hyphen right after cap", title: strings.Repeat("a", 80) + " b", want: strings.Repeat("a", 80)},
		{name: "no hyphen", title: strings.Repeat("a", 100), want: strings.Repeat("a", 80)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Slugify(tt.title)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeCustomSlug(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		err  error
	}{
		{name: "case and spaces", raw: "My Custom Slug", want: "my-custom-slug"},
		{name: "already normalised", raw: "release-notes-2", want: "release-notes-2"},
		{name: "surrounding whitespace", raw: "  spaced  out ", want: "spaced-out"},
		{name: "only symbols", raw: "!!!", err: ErrInvalidCustomSlug},
		{name: "dropped punctuation", raw: "hello!", err: ErrInvalidCustomSlug},
		{name: "dropped apostrophe", raw: "don't", err: ErrInvalidCustomSlug},
		{name: "non ascii", raw: "café", err: ErrInvalidCustomSlug},
		{name: "slash", raw: "a/b", err: ErrInvalidCustomSlug},
		{name: "max length", raw: strings.Repeat("a", MaxSlugLength), want: strings.Repeat("a", MaxSlugLength)},
		{name: "too long", raw: strings.Repeat("a", MaxSlugLength+1), err: ErrInvalidCustomSlug},
		{name: "share code shape", raw: "0123456789abcdef0123456789abcdef", err: ErrInvalidCustomSlug},
		{name: "share code shape upper", raw: "0123456789ABCDEF0123456789ABCDEF", err: ErrInvalidCustomSlug},
		{name: "empty", raw: "   ", err: ErrInvalidCustomSlug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCustomSlug(tt.raw)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsShareCodeShape(t *testing.T) {
	code, err := GenerateShareCode()
	require.NoError(t, err)
	assert.True(t, IsShareCodeShape(code))

	assert.False(t, IsShareCodeShape("0123456789abcdef"))
	assert.False(t, IsShareCodeShape("0123456789abcdef0123456789abcdeg"))
	assert.False(t, IsShareCodeShape("0123456789abcdef0123456789abcdef-2"))
}

func TestUniqueSlug(t *testing.T) {
	assert.Equal(t, "note", UniqueSlug("note", nil))
	assert.Equal(t, "note", UniqueSlug("note", []string{"note-2"}))
	assert.Equal(t, "note-2", UniqueSlug("note", []string{"note"}))
	assert.Equal(t, "note-3", UniqueSlug("note", []string{"note", "note-2", "note-4"}))
	// share code 形状保留给 share code
	assert.Equal(t, "0123456789abcdef0123456789abcdef-2", UniqueSlug("0123456789abcdef0123456789abcdef", nil))
	// 与输入顺序无关
	assert.Equal(t,
		UniqueSlug("note", []string{"note-2", "note"}),
		UniqueSlug("note", []string{"note", "note-2"}))
}

func TestGenerateShareCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := GenerateShareCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9a-f]{32}$`, code)
		_, dup := seen[code]
		assert.False(t, dup)
		seen[code] = struct{}{}
	}
}

func TestGeneratorCollidingTitles(t *testing.T) {
	store := newMemStore()
	sharer := NewSharer(store, NewGenerator(store, 0))
	ctx := context.Background()

	slugs := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		ids, err := sharer.CreateOrShare(ctx, types.Content{
			ID:    fmt.Sprintf("c%d", i),
			Title: "Weekly Report",
		}, ShareOptions{})
		require.NoError(t, err)
		assert.Regexp(t, slugPattern, ids.Slug)
		_, dup := slugs[ids.Slug]
		require.False(t, dup, ids.Slug)
		slugs[ids.Slug] = struct{}{}
	}
	assert.Contains(t, slugs, "weekly-report")
	assert.Contains(t, slugs, "weekly-report-2")
	assert.Contains(t, slugs, "weekly-report-20")
}

func TestGeneratorRetriesOnRace(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	// 模拟另一个写入者在检查与插入之间抢占了候选 slug
	raced := 0
	store.beforeWrite = func(slug string) {
		if raced >= 2 {
			return
		}
		raced++
		store.mu.Lock()
		id := fmt.Sprintf("racer-%d", raced)
		store.records[id] = &types.Content{ID: id, Slug: slug, ShareCode: id}
		store.mu.Unlock()
	}

	var retries []string
	gen := NewGenerator(store, 5).OnRetry(func(kind string) { retries = append(retries, kind) })
	ids, err := NewSharer(store, gen).CreateOrShare(ctx, types.Content{ID: "mine", Title: "Hot Title"}, ShareOptions{})
	require.NoError(t, err)
	assert.Equal(t, "hot-title-3", ids.Slug)
	assert.Equal(t, []string{"slug", "slug"}, retries)
}

func TestGeneratorExhausted(t *testing.T) {
	store := newMemStore()
	gen := NewGenerator(store, 3)

	calls := 0
	_, err := gen.Assign(context.Background(), "Anything", "", func(Identifiers) error {
		calls++
		return ErrDuplicateSlug
	})
	assert.ErrorIs(t, err, ErrSlugGenerationExhausted)
	assert.Equal(t, 3, calls)
}

func TestGeneratorRegeneratesShareCode(t *testing.T) {
	store := newMemStore()
	gen := NewGenerator(store, 3)

	var codes []string
	ids, err := gen.Assign(context.Background(), "Title", "", func(ids Identifiers) error {
		codes = append(codes, ids.ShareCode)
		if len(codes) == 1 {
			return ErrDuplicateShareCode
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.NotEqual(t, codes[0], codes[1])
	assert.Equal(t, codes[1], ids.ShareCode)
}

func TestGeneratorCustomSlugTaken(t *testing.T) {
	store := newMemStore(types.Content{ID: "a", Slug: "taken", ShareCode: "code-a"})
	sharer := NewSharer(store, NewGenerator(store, 0))

	_, err := sharer.CreateOrShare(context.Background(), types.Content{ID: "b", Title: "Other"}, ShareOptions{CustomSlug: "Taken"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = sharer.CreateOrShare(context.Background(), types.Content{ID: "c", Title: "Other"}, ShareOptions{CustomSlug: "***"})
	assert.ErrorIs(t, err, ErrInvalidCustomSlug)
}

func TestGeneratorStorageErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := NewGenerator(newMemStore(), 5).Assign(context.Background(), "Title", "", func(Identifiers) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestGeneratorSlugNeverMatchesShareCode(t *testing.T) {
	const victimCode = "0123456789abcdef0123456789abcdef"
	store := newMemStore(types.Content{
		ID:         "victim",
		OwnerID:    "v",
		Slug:       "victim-note",
		ShareCode:  victimCode,
		Permission: types.PERMISSION_UNLISTED,
	})
	sharer := NewSharer(store, NewGenerator(store, 0))
	ctx := context.Background()

	_, err := sharer.CreateOrShare(ctx, types.Content{ID: "a", OwnerID: "a", Title: "Mine"}, ShareOptions{CustomSlug: victimCode})
	assert.ErrorIs(t, err, ErrInvalidCustomSlug)

	// 已有记录改 slug 同样被拒绝
	_, err = sharer.CreateOrShare(ctx, types.Content{ID: "a", OwnerID: "a", Title: "Mine"}, ShareOptions{})
	require.NoError(t, err)
	_, err = sharer.CreateOrShare(ctx, types.Content{ID: "a"}, ShareOptions{CustomSlug: victimCode})
	assert.ErrorIs(t, err, ErrInvalidCustomSlug)

	// 标题本身是 32 位 hex 时生成的 slug 带后缀
	ids, err := sharer.CreateOrShare(ctx, types.Content{ID: "b", OwnerID: "a", Title: victimCode}, ShareOptions{})
	require.NoError(t, err)
	assert.Equal(t, victimCode+"-2", ids.Slug)

	r := NewResolver(store, WithClock(fixedClock))
	for i := 0; i < 20; i++ {
		view, err := r.Resolve(ctx, victimCode, "")
		require.NoError(t, err)
		assert.Equal(t, "victim", view.ID)
	}
}
