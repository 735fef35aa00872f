package share

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leafshare/leafshare/pkg/types"
)

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour).UnixMilli()
	past := now.Add(-time.Hour).UnixMilli()

	tests := []struct {
		name       string
		permission types.Permission
		blocked    bool
		expiresAt  int64
		viewer     string
		want       Verdict
	}{
		{name: "public anonymous", permission: types.PERMISSION_PUBLIC, want: Verdict{Allowed: true}},
		{name: "public stranger", permission: types.PERMISSION_PUBLIC, viewer: "u2", want: Verdict{Allowed: true}},
		{name: "public owner", permission: types.PERMISSION_PUBLIC, viewer: "owner", want: Verdict{Allowed: true}},
		{name: "unlisted anonymous", permission: types.PERMISSION_UNLISTED, want: Verdict{Allowed: true}},
		{name: "unlisted stranger", permission: types.PERMISSION_UNLISTED, viewer: "u2", want: Verdict{Allowed: true}},
		{name: "unlisted owner", permission: types.PERMISSION_UNLISTED, viewer: "owner", want: Verdict{Allowed: true}},
		{name: "private anonymous", permission: types.PERMISSION_PRIVATE, want: Verdict{Reason: DenyForbidden}},
		{name: "private stranger", permission: types.PERMISSION_PRIVATE, viewer: "u2", want: Verdict{Reason: DenyForbidden}},
		{name: "private owner", permission: types.PERMISSION_PRIVATE, viewer: "owner", want: Verdict{Allowed: true}},
		{name: "blocked public owner", permission: types.PERMISSION_PUBLIC, blocked: true, viewer: "owner", want: Verdict{Reason: DenyBlocked}},
		{name: "blocked private anonymous", permission: types.PERMISSION_PRIVATE, blocked: true, want: Verdict{Reason: DenyBlocked}},
		{name: "blocked wins over expired", permission: types.PERMISSION_PUBLIC, blocked: true, expiresAt: past, want: Verdict{Reason: DenyBlocked}},
		{name: "expired public", permission: types.PERMISSION_PUBLIC, expiresAt: past, want: Verdict{Reason: DenyExpired}},
		{name: "expired private owner", permission: types.PERMISSION_PRIVATE, expiresAt: past, viewer: "owner", want: Verdict{Reason: DenyExpired}},
		{name: "not yet expired", permission: types.PERMISSION_UNLISTED, expiresAt: future, want: Verdict{Allowed: true}},
		{name: "unknown permission", permission: types.Permission("shared"), viewer: "owner", want: Verdict{Reason: DenyForbidden}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &types.Content{
				OwnerID:    "owner",
				Permission: tt.permission,
				IsBlocked:  tt.blocked,
				ExpiresAt:  tt.expiresAt,
			}
			assert.Equal(t, tt.want, Evaluate(record, tt.viewer, now))
		})
	}
}

func TestEvaluateAnonymousOwnerless(t *testing.T) {
	// 匿名创建的私有内容不能被匿名访问者打开
	record := &types.Content{Permission: types.PERMISSION_PRIVATE}
	assert.False(t, Evaluate(record, "", time.Now()).Allowed)
}

func TestIsLiveBoundary(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsLive(&types.Content{}, now))
	assert.False(t, IsLive(&types.Content{ExpiresAt: now.UnixMilli()}, now))
	assert.True(t, IsLive(&types.Content{ExpiresAt: now.Add(time.Millisecond).UnixMilli()}, now))
	assert.False(t, IsLive(&types.Content{ExpiresAt: now.Add(-time.Millisecond).UnixMilli()}, now))
}

func TestPermissionDiscoverable(t *testing.T) {
	assert.True(t, types.PERMISSION_PUBLIC.Discoverable())
	assert.False(t, types.PERMISSION_UNLISTED.Discoverable())
	assert.False(t, types.PERMISSION_PRIVATE.Discoverable())
	assert.False(t, types.Permission("").Valid())
}
