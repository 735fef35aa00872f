package share

import (
	"strings"

	"github.com/leafshare/leafshare/pkg/types"
)

// NormalizeRelativePath 清理相对路径：统一以 / 开头、去掉重复的 / 和 "."
// 含有 ".." 的路径直接拒绝
func NormalizeRelativePath(rel string) (string, error) {
	if strings.ContainsRune(rel, 0) || strings.Contains(rel, "\\") {
		return "", ErrInvalidPath
	}

	segments := make([]string, 0, 4)
	for _, seg := range strings.Split(rel, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidPath
		default:
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return types.ROOT_PATH, nil
	}
	return "/" + strings.Join(segments, "/"), nil
}

// WithTrailingSlash 保证路径以单个 / 结尾
func WithTrailingSlash(p string) string {
	return strings.TrimRight(p, "/") + "/"
}

// TargetPath 计算文件夹下相对路径对应的绝对目录，结果总是以 / 结尾
func TargetPath(folderPath, rel string) string {
	if folderPath == "" || folderPath == types.ROOT_PATH {
		return WithTrailingSlash(rel)
	}
	if rel == types.ROOT_PATH {
		return WithTrailingSlash(folderPath)
	}
	return WithTrailingSlash(strings.TrimRight(folderPath, "/") + rel)
}

// ChildDepth 返回 candidate 相对 target 目录多出的路径段数
// candidate 不在 target 之下时返回 -1
func ChildDepth(target, candidate string) int {
	if candidate == strings.TrimRight(target, "/") {
		return 0
	}
	if !strings.HasPrefix(candidate, target) {
		return -1
	}
	depth := 0
	for _, seg := range strings.Split(candidate[len(target):], "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike 转义 LIKE 模式中的元字符，调用方需配合 ESCAPE '\' 使用
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// LikePrefixPattern 生成 "前缀匹配" 的 LIKE 模式
func LikePrefixPattern(prefix string) string {
	return EscapeLike(prefix) + "%"
}
