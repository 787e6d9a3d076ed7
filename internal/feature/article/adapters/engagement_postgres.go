package adapters

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"blog_backend/internal/feature/article/domain/entity"
	"blog_backend/internal/feature/article/usecase"
	"blog_backend/internal/platform/db"
)

// engagementPostgres はいいね・ブックマーク・閲覧・コメントの件数を扱います。
// コメントはcommentフィーチャーが書き込むcommentsテーブルを読み取りのみで参照します。
type engagementPostgres struct {
	db *gorm.DB
}

var _ usecase.EngagementRepository = (*engagementPostgres)(nil)

// NewEngagementPostgres はengagementPostgresの新しいインスタンスを生成します。
func NewEngagementPostgres(gdb *gorm.DB) *engagementPostgres {
	return &engagementPostgres{db: gdb}
}

func (r *engagementPostgres) RecordView(ctx context.Context, articleID uint, userID *uint, at time.Time) error {
	return db.Conn(ctx, r.db).Create(&ViewModel{ArticleID: articleID, UserID: userID, CreatedAt: at}).Error
}

func (r *engagementPostgres) HasReaction(ctx context.Context, kind usecase.Reaction, articleID, userID uint) (bool, error) {
	model, err := reactionModel(kind)
	if err != nil {
		return false, err
	}
	var n int64
	err = db.Conn(ctx, r.db).Model(model).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		Count(&n).Error
	return n > 0, err
}

// AddReaction は一意制約違反をusecase.ErrAlreadyReactedに変換します。
// 違反しても外側のトランザクションを続けられるよう、セーブポイント内で挿入します。
func (r *engagementPostgres) AddReaction(ctx context.Context, kind usecase.Reaction, articleID, userID uint, at time.Time) error {
	var row any
	switch kind {
	case usecase.ReactionLike:
		row = &LikeModel{ArticleID: articleID, UserID: userID, CreatedAt: at}
	case usecase.ReactionBookmark:
		row = &BookmarkModel{ArticleID: articleID, UserID: userID, CreatedAt: at}
	default:
		return fmt.Errorf("unknown reaction %q", kind)
	}
	err := db.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(row).Error
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrAlreadyReacted
		}
		return err
	}
	return nil
}

func (r *engagementPostgres) RemoveReaction(ctx context.Context, kind usecase.Reaction, articleID, userID uint) error {
	model, err := reactionModel(kind)
	if err != nil {
		return err
	}
	return db.Conn(ctx, r.db).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		Delete(model).Error
}

func (r *engagementPostgres) CountReactions(ctx context.Context, kind usecase.Reaction, articleID uint) (int64, error) {
	model, err := reactionModel(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.Conn(ctx, r.db).Model(model).Where("article_id = ?", articleID).Count(&n).Error
	return n, err
}

// ViewedSince は削除されていない記事のうち、since以降に閲覧されたもののIDを返します。
func (r *engagementPostgres) ViewedSince(ctx context.Context, since time.Time) ([]uint, error) {
	var ids []uint
	err := db.Conn(ctx, r.db).Model(&ViewModel{}).
		Joins("JOIN articles ON articles.id = views.article_id AND articles.deleted_at IS NULL").
		Where("views.created_at >= ?", since).
		Distinct("views.article_id").
		Order("views.article_id ASC").
		Pluck("views.article_id", &ids).Error
	return ids, err
}

type countRow struct {
	ArticleID uint
	N         int64
}

// Counts は4つのテーブルをそれぞれGROUP BYで数えます。
func (r *engagementPostgres) Counts(ctx context.Context, articleIDs []uint, since *time.Time) (map[uint]entity.Counts, error) {
	out := make(map[uint]entity.Counts, len(articleIDs))
	if len(articleIDs) == 0 {
		return out, nil
	}

	tables := []struct {
		name    string
		softDel bool
		set     func(c *entity.Counts, n int64)
	}{
		{"likes", false, func(c *entity.Counts, n int64) { c.Likes = n }},
		{"comments", true, func(c *entity.Counts, n int64) { c.Comments = n }},
		{"views", false, func(c *entity.Counts, n int64) { c.Views = n }},
		{"bookmarks", false, func(c *entity.Counts, n int64) { c.Bookmarks = n }},
	}

	conn := db.Conn(ctx, r.db)
	for _, t := range tables {
		q := conn.Table(t.name).
			Select("article_id, COUNT(*) AS n").
			Where("article_id IN ?", articleIDs)
		if since != nil {
			q = q.Where("created_at >= ?", *since)
		}
		if t.softDel {
			q = q.Where("deleted_at IS NULL")
		}

		var rows []countRow
		if err := q.Group("article_id").Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", t.name, err)
		}
		for _, row := range rows {
			c := out[row.ArticleID]
			t.set(&c, row.N)
			out[row.ArticleID] = c
		}
	}
	return out, nil
}

func reactionModel(kind usecase.Reaction) (any, error) {
	switch kind {
	case usecase.ReactionLike:
		return &LikeModel{}, nil
	case usecase.ReactionBookmark:
		return &BookmarkModel{}, nil
	default:
		return nil, fmt.Errorf("unknown reaction %q", kind)
	}
}
