package share

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRelativePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "", want: "/"},
		{in: "/", want: "/"},
		{in: "docs", want: "/docs"},
		{in: "/docs/", want: "/docs"},
		{in: "//docs//api/", want: "/docs/api"},
		{in: "/docs/./api", want: "/docs/api"},
		{in: "/docs/../secret", err: true},
		{in: "..", err: true},
		{in: `\docs`, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeRelativePath(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTargetPath(t *testing.T) {
	assert.Equal(t, "/", TargetPath("/", "/"))
	assert.Equal(t, "/docs/", TargetPath("/", "/docs"))
	assert.Equal(t, "/a/", TargetPath("/a", "/"))
	assert.Equal(t, "/a/b/", TargetPath("/a", "/b"))
	assert.Equal(t, "/a/b/", TargetPath("/a/", "/b"))
}

func TestChildDepth(t *testing.T) {
	assert.Equal(t, 0, ChildDepth("/a/", "/a"))
	assert.Equal(t, 0, ChildDepth("/a/", "/a/"))
	assert.Equal(t, 1, ChildDepth("/a/", "/a/b"))
	assert.Equal(t, 2, ChildDepth("/a/", "/a/b/c"))
	assert.Equal(t, -1, ChildDepth("/a/", "/"))
	assert.Equal(t, -1, ChildDepth("/a/", "/ab"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `/100\%\_done/%`, LikePrefixPattern("/100%_done/"))
	assert.Equal(t, `/a\\b/%`, LikePrefixPattern(`/a\b/`))
}
