package share

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
)

// MaxSlugLength slug 的最大长度，超出部分在连字符边界处截断
const MaxSlugLength = 80

const shareCodeBytes = 16

// Slugify 将标题转换为 [a-z0-9-]+ 形式的 slug
func Slugify(title string) (string, error) {
	slug := truncateSlug(normalizeSlug(title), MaxSlugLength)
	if slug == "" {
		return "", ErrInvalidTitle
	}
	return slug, nil
}

// normalizeSlug 小写，空白与连字符合并为单个 -，其余字符丢弃
func normalizeSlug(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	pendingHyphen := false
	for _, r := range raw {
		r = unicode.ToLower(r)
		switch {
		case isSlugRune(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case isSlugSeparator(r):
			pendingHyphen = true
		default:
			// 其他字符直接丢弃，不产生分隔
		}
	}
	return b.String()
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func isSlugSeparator(r rune) bool {
	return r == '-' || unicode.IsSpace(r)
}

// truncateSlug 在 max 以内最后一个连字符处截断，没有连字符时硬截断
func truncateSlug(slug string, max int) string {
	if len(slug) <= max {
		return slug
	}
	if slug[max] == '-' {
		return slug[:max]
	}
	cut := slug[:max]
	if i := strings.LastIndexByte(cut, '-'); i > 0 {
		return cut[:i]
	}
	return cut
}

// IsShareCodeShape 32 位小写 hex，这个形状保留给 share code，slug 不能使用
func IsShareCodeShape(s string) bool {
	if len(s) != shareCodeBytes*2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

// NormalizeCustomSlug 用户指定的 slug 只接受大小写与空白的规范化
// 含有其他字符、超长或与 share code 形状相同时返回 ErrInvalidCustomSlug，不会悄悄改写
func NormalizeCustomSlug(raw string) (string, error) {
	for _, r := range raw {
		if isSlugSeparator(r) || isSlugRune(unicode.ToLower(r)) {
			continue
		}
		return "", ErrInvalidCustomSlug
	}

	slug := normalizeSlug(raw)
	if slug == "" || len(slug) > MaxSlugLength || IsShareCodeShape(slug) {
		return "", ErrInvalidCustomSlug
	}
	return slug, nil
}

// UniqueSlug 返回 candidate 本身或第一个未被占用的 candidate-N (N>=2)
// 相同输入总是得到相同输出
func UniqueSlug(candidate string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s] = struct{}{}
	}
	// share code 形状的候选直接追加后缀
	if _, ok := taken[candidate]; !ok && !IsShareCodeShape(candidate) {
		return candidate
	}
	for n := 2; ; n++ {
		next := candidate + "-" + strconv.Itoa(n)
		if _, ok := taken[next]; !ok {
			return next
		}
	}
}

// GenerateShareCode 16 字节随机数的 hex 编码，共 32 个字符
func GenerateShareCode() (string, error) {
	raw := make([]byte, shareCodeBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
