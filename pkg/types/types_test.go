package types

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentSummaryOmitsBody(t *testing.T) {
	c := Content{Title: "Notes", Body: "secret body", Type: CONTENT_TYPE_FILE, Size: 11, Path: "/notes"}
	s := c.Summary()
	assert.Equal(t, "Notes", s.Name)
	assert.Equal(t, int64(11), s.Size)
}

func TestListContentOptionsApply(t *testing.T) {
	query := sq.Select("id").From(TABLE_CONTENT.Name()).PlaceholderFormat(sq.Dollar)
	ListContentOptions{
		OwnerID:        "u1",
		Permission:     PERMISSION_PUBLIC,
		ExcludeBlocked: true,
		LiveAt:         1000,
	}.Apply(&query)

	sql, args, err := query.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "leaf_content")
	assert.Contains(t, sql, "is_blocked = $3")
	assert.Contains(t, sql, "(expires_at = $4 OR expires_at > $5)")
	assert.Equal(t, []interface{}{"u1", PERMISSION_PUBLIC, false, 0, int64(1000)}, args)
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Alice", (&User{Name: "Alice", Email: "a@example.com"}).DisplayName())
	assert.Equal(t, "bob", (&User{Email: "bob@example.com"}).DisplayName())
}

func TestExpiresAtTime(t *testing.T) {
	assert.Nil(t, (&Content{}).ExpiresAtTime())
	assert.Equal(t, int64(1500), (&Content{ExpiresAt: 1500}).ExpiresAtTime().UnixMilli())
}
