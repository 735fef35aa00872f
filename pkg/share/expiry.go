package share

import (
	"time"

	"github.com/leafshare/leafshare/pkg/types"
)

// IsLive 未设置过期时间或 expires_at > now 时内容有效
// 恰好等于 now 视为已过期
func IsLive(record *types.Content, now time.Time) bool {
	if record.ExpiresAt == 0 {
		return true
	}
	return record.ExpiresAt > now.UnixMilli()
}
