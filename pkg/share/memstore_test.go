package share

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/leafshare/leafshare/pkg/types"
)

// memStore 测试用内存存储，模拟 slug / share_code 唯一索引与原子自增
type memStore struct {
	mu      sync.Mutex
	records map[string]*types.Content
	// beforeWrite 在唯一性检查前调用，用于模拟并发写入者抢先插入
	beforeWrite func(slug string)
}

func newMemStore(records ...types.Content) *memStore {
	s := &memStore{records: make(map[string]*types.Content)}
	for _, r := range records {
		r := r
		s.records[r.ID] = &r
	}
	return s
}

func (s *memStore) conflict(id, slug, code string) error {
	for _, r := range s.records {
		if r.ID == id {
			continue
		}
		if slug != "" && r.Slug == slug {
			return ErrDuplicateSlug
		}
		if code != "" && r.ShareCode == code {
			return ErrDuplicateShareCode
		}
	}
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*types.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) GetByIdentifier(ctx context.Context, identifier string) (*types.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hit *types.Content
	for _, r := range s.records {
		if r.ShareCode == identifier {
			hit = r
			break
		}
		if r.Slug == identifier {
			hit = r
		}
	}
	if hit == nil {
		return nil, sql.ErrNoRows
	}
	cp := *hit
	return &cp, nil
}

func (s *memStore) IncrAccessCount(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	r.AccessCount++
	return r.AccessCount, nil
}

func (s *memStore) ListByPathPrefix(ctx context.Context, ownerID, prefix string) ([]types.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []types.Content
	self := strings.TrimRight(prefix, "/")
	for _, r := range s.records {
		if r.OwnerID != ownerID {
			continue
		}
		if strings.HasPrefix(r.Path, prefix) || r.Path == self {
			res = append(res, *r)
		}
	}
	return res, nil
}

func (s *memStore) ListSlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []string
	for _, r := range s.records {
		if r.Slug == base || strings.HasPrefix(r.Slug, base+"-") {
			res = append(res, r.Slug)
		}
	}
	return res, nil
}

func (s *memStore) Create(ctx context.Context, data types.Content) error {
	if s.beforeWrite != nil {
		s.beforeWrite(data.Slug)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conflict(data.ID, data.Slug, data.ShareCode); err != nil {
		return err
	}
	s.records[data.ID] = &data
	return nil
}

func (s *memStore) SetIdentifiers(ctx context.Context, id, slug, shareCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok || r.HasIdentifiers() {
		return sql.ErrNoRows
	}
	if r.Slug != "" {
		slug = r.Slug
	}
	if r.ShareCode != "" {
		shareCode = r.ShareCode
	}
	if err := s.conflict(id, slug, shareCode); err != nil {
		return err
	}
	r.Slug, r.ShareCode = slug, shareCode
	return nil
}

func (s *memStore) UpdateSlug(ctx context.Context, id, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conflict(id, slug, ""); err != nil {
		return err
	}
	s.records[id].Slug = slug
	return nil
}

func (s *memStore) UpdatePermission(ctx context.Context, id string, permission types.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id].Permission = permission
	return nil
}

func (s *memStore) setBlocked(id string, blocked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id].IsBlocked = blocked
}

func (s *memStore) accessCount(id string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[id].AccessCount
}

type staticOwners map[string]string

func (o staticOwners) DisplayName(ctx context.Context, userID string) (string, error) {
	name, ok := o[userID]
	if !ok {
		return "", sql.ErrNoRows
	}
	return name, nil
}
