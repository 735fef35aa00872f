package share

import (
	"context"
	"errors"
	"log/slog"
)

const DefaultSlugRetry = 5

type SlugLister interface {
	ListSlugsWithPrefix(ctx context.Context, base string) ([]string, error)
}

// Generator 负责分配全局唯一的 slug 与 share code
// 唯一性最终由存储层的唯一索引保证，这里只做有限次的重试
type Generator struct {
	slugs    SlugLister
	attempts int
	onRetry  func(kind string)
}

func NewGenerator(slugs SlugLister, attempts int) *Generator {
	if attempts <= 0 {
		attempts = DefaultSlugRetry
	}
	return &Generator{
		slugs:    slugs,
		attempts: attempts,
	}
}

// OnRetry 注册重试回调，kind 为 "slug" 或 "share_code"
func (g *Generator) OnRetry(fn func(kind string)) *Generator {
	g.onRetry = fn
	return g
}

func (g *Generator) retried(kind string) {
	if g.onRetry != nil {
		g.onRetry(kind)
	}
}

// Identifiers 一条内容对外的两个地址
type Identifiers struct {
	Slug      string `json:"slug"`
	ShareCode string `json:"share_code"`
}

// Assign 生成 slug 与 share code 并交给 write 落库
// customSlug 非空时冲突直接返回 ErrSlugTaken，不会自动追加后缀
func (g *Generator) Assign(ctx context.Context, title, customSlug string, write func(Identifiers) error) (Identifiers, error) {
	var (
		base   string
		custom = customSlug != ""
		err    error
	)
	if custom {
		if base, err = NormalizeCustomSlug(customSlug); err != nil {
			return Identifiers{}, err
		}
	} else if base, err = Slugify(title); err != nil {
		return Identifiers{}, err
	}

	code, err := GenerateShareCode()
	if err != nil {
		return Identifiers{}, err
	}

	for attempt := 1; attempt <= g.attempts; attempt++ {
		slug := base
		if !custom {
			existing, err := g.slugs.ListSlugsWithPrefix(ctx, base)
			if err != nil {
				return Identifiers{}, err
			}
			slug = UniqueSlug(base, existing)
		}

		ids := Identifiers{Slug: slug, ShareCode: code}
		err = write(ids)
		switch {
		case err == nil:
			return ids, nil
		case errors.Is(err, ErrDuplicateSlug):
			if custom {
				return Identifiers{}, ErrSlugTaken
			}
			g.retried("slug")
		case errors.Is(err, ErrDuplicateShareCode):
			g.retried("share_code")
			if code, err = GenerateShareCode(); err != nil {
				return Identifiers{}, err
			}
		default:
			return Identifiers{}, err
		}
	}

	slog.Error("slug generation exhausted",
		slog.String("component", "share.generator"),
		slog.String("base", base),
		slog.Int("attempts", g.attempts))
	return Identifiers{}, ErrSlugGenerationExhausted
}

// AssignShareCode 只为已有 slug 的记录补一个 share code
func (g *Generator) AssignShareCode(ctx context.Context, write func(code string) error) (string, error) {
	for attempt := 1; attempt <= g.attempts; attempt++ {
		code, err := GenerateShareCode()
		if err != nil {
			return "", err
		}
		err = write(code)
		switch {
		case err == nil:
			return code, nil
		case errors.Is(err, ErrDuplicateShareCode):
			g.retried("share_code")
		default:
			return "", err
		}
	}

	slog.Error("share code generation exhausted",
		slog.String("component", "share.generator"),
		slog.Int("attempts", g.attempts))
	return "", ErrSlugGenerationExhausted
}
