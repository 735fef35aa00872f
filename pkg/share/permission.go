package share

import (
	"time"

	"github.com/leafshare/leafshare/pkg/types"
)

type DenyReason int

const (
	DenyNone DenyReason = iota
	DenyBlocked
	DenyExpired
	DenyForbidden
)

func (r DenyReason) String() string {
	switch r {
	case DenyNone:
		return "allow"
	case DenyBlocked:
		return "blocked"
	case DenyExpired:
		return "expired"
	case DenyForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

type Verdict struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Verdict { return Verdict{Allowed: true} }

func deny(reason DenyReason) Verdict { return Verdict{Reason: reason} }

// Evaluate 依次检查 屏蔽 -> 过期 -> 权限
// viewerID 为空表示匿名访问
func Evaluate(record *types.Content, viewerID string, now time.Time) Verdict {
	if IsBlocked(record) {
		return deny(DenyBlocked)
	}
	if !IsLive(record, now) {
		return deny(DenyExpired)
	}

	switch record.Permission {
	case types.PERMISSION_PUBLIC, types.PERMISSION_UNLISTED:
		return allow()
	case types.PERMISSION_PRIVATE:
		if viewerID != "" && viewerID == record.OwnerID {
			return allow()
		}
		return deny(DenyForbidden)
	default:
		// 未知的权限值按私有处理
		return deny(DenyForbidden)
	}
}
