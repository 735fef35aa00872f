package share

import "github.com/leafshare/leafshare/pkg/types"

// IsBlocked 屏蔽状态优先于任何权限设置，包括作者本人
func IsBlocked(record *types.Content) bool {
	return record.IsBlocked
}
