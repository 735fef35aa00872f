package share

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/leafshare/leafshare/pkg/types"
)

// Navigator 在共享文件夹中按路径列出直接子节点
type Navigator struct {
	resolver *Resolver
	store    ContentStore
	lang     language.Tag
}

func NewNavigator(resolver *Resolver, store ContentStore, lang language.Tag) *Navigator {
	return &Navigator{
		resolver: resolver,
		store:    store,
		lang:     lang,
	}
}

// ListChildren folderID 为文件夹的 slug 或 share code，relativePath 为文件夹内的相对目录
// 结果中文件夹在前，同类按名称的本地化排序
func (n *Navigator) ListChildren(ctx context.Context, folderID, relativePath, viewerID string) ([]types.ContentSummary, error) {
	rel, err := NormalizeRelativePath(relativePath)
	if err != nil {
		return nil, err
	}

	folder, err := n.resolver.Authorize(ctx, folderID, viewerID)
	if err != nil {
		return nil, err
	}
	if !folder.IsFolder() {
		return nil, ErrNotFound
	}

	target := TargetPath(folder.Path, rel)
	candidates, err := n.store.ListByPathPrefix(ctx, folder.OwnerID, target)
	if err != nil {
		return nil, err
	}

	now := n.resolver.now()
	children := make([]types.Content, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == folder.ID {
			continue
		}
		depth := ChildDepth(target, c.Path)
		if depth < 0 || depth > 1 {
			continue
		}
		// 目标目录本身对应的文件夹记录不算子节点
		if depth == 0 && c.IsFolder() {
			continue
		}
		if !Evaluate(&c, viewerID, now).Allowed {
			continue
		}
		children = append(children, c)
	}

	SortChildren(children, n.lang)

	res := make([]types.ContentSummary, 0, len(children))
	for _, c := range children {
		res = append(res, c.Summary())
	}
	return res, nil
}

// SortChildren 文件夹优先，其次按标题的本地化顺序，标题相同按 path 保证稳定
func SortChildren(items []types.Content, lang language.Tag) {
	col := collate.New(lang)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		if c := col.CompareString(a.Title, b.Title); c != 0 {
			return c < 0
		}
		return a.Path < b.Path
	})
}
