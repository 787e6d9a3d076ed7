// Package adapters はcommentフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blog_backend/internal/feature/comment/domain/entity"
	"blog_backend/internal/feature/comment/usecase"
	"blog_backend/internal/platform/db"
)

// commentPostgres はCommentRepositoryのPostgreSQL実装です。
// 投稿者名はauthフィーチャーのusersテーブルを読み取りのみで参照します。
type commentPostgres struct {
	db *gorm.DB
}

var _ usecase.CommentRepository = (*commentPostgres)(nil)

// NewCommentPostgres はcommentPostgresの新しいインスタンスを生成します。
func NewCommentPostgres(gdb *gorm.DB) *commentPostgres {
	return &commentPostgres{db: gdb}
}

func (r *commentPostgres) Create(ctx context.Context, c *entity.Comment) error {
	m := &CommentModel{
		PublicID:  c.PublicID,
		ArticleID: c.ArticleID,
		UserID:    c.UserID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if err := db.Conn(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	c.ID = m.ID
	return nil
}

func (r *commentPostgres) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Comment, error) {
	var m CommentModel
	if err := db.Conn(ctx, r.db).Where("public_id = ?", publicID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCommentNotFound
		}
		return nil, err
	}
	out, err := r.withAuthors(ctx, []CommentModel{m})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *commentPostgres) ListByArticle(ctx context.Context, articleID uint) ([]*entity.Comment, error) {
	var models []CommentModel
	err := db.Conn(ctx, r.db).
		Where("article_id = ?", articleID).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.withAuthors(ctx, models)
}

// Delete はコメントと直下の返信をまとめて論理削除します。
func (r *commentPostgres) Delete(ctx context.Context, id uint) error {
	result := db.Conn(ctx, r.db).Where("id = ? OR parent_id = ?", id, id).Delete(&CommentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrCommentNotFound
	}
	return nil
}

type authorRow struct {
	ID       uint
	PublicID uuid.UUID
	FullName string
}

func (r *commentPostgres) withAuthors(ctx context.Context, models []CommentModel) ([]*entity.Comment, error) {
	out := make([]*entity.Comment, 0, len(models))
	if len(models) == 0 {
		return out, nil
	}

	userIDs := make([]uint, 0, len(models))
	for _, m := range models {
		userIDs = append(userIDs, m.UserID)
	}
	var authors []authorRow
	if err := db.Conn(ctx, r.db).Table("users").Select("id, public_id, full_name").Where("id IN ?", userIDs).Scan(&authors).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]entity.Author, len(authors))
	for _, a := range authors {
		byID[a.ID] = entity.Author(a)
	}

	for i := range models {
		c := models[i].ToEntity()
		c.Author = byID[c.UserID]
		out = append(out, c)
	}
	return out, nil
}

// articleLookup は記事の公開IDをarticlesテーブルから解決します。
type articleLookup struct {
	db *gorm.DB
}

var _ usecase.ArticleLookup = (*articleLookup)(nil)

// NewArticleLookup はarticleLookupの新しいインスタンスを生成します。
func NewArticleLookup(gdb *gorm.DB) *articleLookup {
	return &articleLookup{db: gdb}
}

// ArticleID は削除済みの記事をErrArticleNotFoundとして扱います。
func (r *articleLookup) ArticleID(ctx context.Context, publicID uuid.UUID) (uint, error) {
	var ids []uint
	err := db.Conn(ctx, r.db).Table("articles").
		Where("public_id = ? AND deleted_at IS NULL", publicID).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, usecase.ErrArticleNotFound
	}
	return ids[0], nil
}
