package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/leafshare/leafshare/pkg/register"
	"github.com/leafshare/leafshare/pkg/share"
	"github.com/leafshare/leafshare/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ContentStore = NewContentStore(provider)
	})
}

const (
	constraintContentSlug      = "leaf_content_slug_key"
	constraintContentShareCode = "leaf_content_share_code_key"
)

// ContentStore 处理 leaf_content 表
type ContentStore struct {
	CommonFields
}

func NewContentStore(provider SqlProviderAchieve) *ContentStore {
	repo := &ContentStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CONTENT)
	repo.SetAllColumns("id", "owner_id", "title", "body", "body_key", "slug", "share_code", "permission", "is_blocked",
		"expires_at", "access_count", "path", "type", "size", "created_at", "updated_at")
	return repo
}

// mapWriteError 将唯一索引冲突转换为分享引擎可识别的错误
func mapWriteError(err error) error {
	constraint, ok := UniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case constraintContentSlug:
		return share.ErrDuplicateSlug
	case constraintContentShareCode:
		return share.ErrDuplicateShareCode
	default:
		return err
	}
}

func (s *ContentStore) Create(ctx context.Context, data types.Content) error {
	now := time.Now().Unix()
	if data.CreatedAt == 0 {
		data.CreatedAt = now
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = data.CreatedAt
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "owner_id", "title", "body", "body_key", "slug", "share_code", "permission", "is_blocked",
			"expires_at", "access_count", "path", "type", "size", "created_at", "updated_at").
		Values(data.ID, data.OwnerID, data.Title, data.Body, data.BodyKey, data.Slug, data.ShareCode, data.Permission, data.IsBlocked,
			data.ExpiresAt, data.AccessCount, data.Path, data.Type, data.Size, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return mapWriteError(err)
}

func (s *ContentStore) GetByID(ctx context.Context, id string) (*types.Content, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Content
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetByIdentifier slug 与 share_code 共用同一个查找入口
// 两者同时命中时以 share_code 为准
func (s *ContentStore) GetByIdentifier(ctx context.Context, identifier string) (*types.Content, error) {
	if identifier == "" {
		return nil, sql.ErrNoRows
	}
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Or{sq.Eq{"slug": identifier}, sq.Eq{"share_code": identifier}}).
		OrderByClause("(share_code = ?) DESC", identifier).
		Limit(1)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Content
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// IncrAccessCount 单条 UPDATE 完成自增，避免读改写丢失计数
func (s *ContentStore) IncrAccessCount(ctx context.Context, id string) (int64, error) {
	query := sq.Update(s.GetTable()).
		Set("access_count", sq.Expr("access_count + 1")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING access_count")

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var count int64
	if err = s.GetMaster(ctx).QueryRowx(queryString, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *ContentStore) ListByPathPrefix(ctx context.Context, ownerID, prefix string) ([]types.Content, error) {
	self := strings.TrimRight(prefix, "/")
	conds := sq.Or{sq.Expr("path LIKE ? ESCAPE '\\'", share.LikePrefixPattern(prefix))}
	if self != "" {
		conds = append(conds, sq.Eq{"path": self})
	}

	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"owner_id": ownerID}).
		Where(conds)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Content
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ContentStore) ListSlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	query := sq.Select("slug").From(s.GetTable()).
		Where(sq.Or{
			sq.Eq{"slug": base},
			sq.Expr("slug LIKE ? ESCAPE '\\'", share.LikePrefixPattern(base+"-")),
		})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []string
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

// SetIdentifiers 只补齐为空的 slug / share_code，已有的值保持不变
// 两者都已分配时返回 sql.ErrNoRows
func (s *ContentStore) SetIdentifiers(ctx context.Context, id, slug, shareCode string) error {
	query := sq.Update(s.GetTable()).
		Set("slug", sq.Expr("CASE WHEN slug = '' THEN ? ELSE slug END", slug)).
		Set("share_code", sq.Expr("CASE WHEN share_code = '' THEN ? ELSE share_code END", shareCode)).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id}).
		Where(sq.Or{sq.Eq{"slug": ""}, sq.Eq{"share_code": ""}})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	res, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return mapWriteError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *ContentStore) UpdateSlug(ctx context.Context, id, slug string) error {
	query := sq.Update(s.GetTable()).
		Set("slug", slug).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return mapWriteError(err)
}

func (s *ContentStore) UpdatePermission(ctx context.Context, id string, permission types.Permission) error {
	query := sq.Update(s.GetTable()).
		Set("permission", permission).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentStore) Update(ctx context.Context, id string, data types.UpdateContentArgs) error {
	query := sq.Update(s.GetTable()).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	if data.Title != nil {
		query = query.Set("title", *data.Title)
	}
	if data.Body != nil {
		query = query.Set("body", *data.Body)
	}
	if data.BodyKey != nil {
		query = query.Set("body_key", *data.BodyKey)
	}
	if data.Path != nil {
		query = query.Set("path", *data.Path)
	}
	if data.Permission != nil {
		query = query.Set("permission", *data.Permission)
	}
	if data.ExpiresAt != nil {
		query = query.Set("expires_at", *data.ExpiresAt)
	}
	if data.Size != nil {
		query = query.Set("size", *data.Size)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// SetBlocked 仅供审核使用
func (s *ContentStore) SetBlocked(ctx context.Context, id string, blocked bool) error {
	query := sq.Update(s.GetTable()).
		Set("is_blocked", blocked).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	res, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *ContentStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentStore) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": ids})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// List 列表查询不返回正文
func (s *ContentStore) List(ctx context.Context, opts types.ListContentOptions, page, pageSize uint64) ([]types.Content, error) {
	columns := make([]string, 0, len(s.GetAllColumns()))
	for _, c := range s.GetAllColumns() {
		if c != "body" {
			columns = append(columns, c)
		}
	}
	query := sq.Select(columns...).From(s.GetTable())
	opts.Apply(&query)

	if page > 0 && pageSize > 0 {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}
	query = query.OrderBy("updated_at DESC", "id DESC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Content
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ContentStore) Total(ctx context.Context, opts types.ListContentOptions) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var count int64
	if err = s.GetReplica(ctx).Get(&count, queryString, args...); err != nil {
		return 0, err
	}
	return count, nil
}
