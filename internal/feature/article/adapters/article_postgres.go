// Package adapters はarticleフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blog_backend/internal/feature/article/domain/entity"
	"blog_backend/internal/feature/article/usecase"
	"blog_backend/internal/platform/db"
)

// articlePostgres はArticleRepositoryインターフェースのPostgreSQL実装です。
type articlePostgres struct {
	db *gorm.DB
}

// articlePostgresがArticleRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ArticleRepository = (*articlePostgres)(nil)

// NewArticlePostgres はarticlePostgresの新しいインスタンスを生成します。
func NewArticlePostgres(gdb *gorm.DB) *articlePostgres {
	return &articlePostgres{db: gdb}
}

func (r *articlePostgres) Create(ctx context.Context, a *entity.Article) error {
	m := &ArticleModel{
		PublicID:     a.PublicID,
		AuthorID:     a.AuthorID,
		Title:        a.Title,
		Content:      a.Content,
		ThumbnailKey: a.ThumbnailKey,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if err := db.Conn(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *articlePostgres) Update(ctx context.Context, a *entity.Article) error {
	result := db.Conn(ctx, r.db).Model(&ArticleModel{}).Where("id = ?", a.ID).Updates(map[string]any{
		"title":         a.Title,
		"content":       a.Content,
		"thumbnail_key": a.ThumbnailKey,
		"updated_at":    a.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrArticleNotFound
	}
	return nil
}

// Delete はdeleted_atを設定します。
func (r *articlePostgres) Delete(ctx context.Context, id uint) error {
	result := db.Conn(ctx, r.db).Delete(&ArticleModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrArticleNotFound
	}
	return nil
}

func (r *articlePostgres) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Article, error) {
	var m ArticleModel
	if err := db.Conn(ctx, r.db).Where("public_id = ?", publicID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrArticleNotFound
		}
		return nil, err
	}
	out, err := r.hydrate(ctx, []ArticleModel{m})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *articlePostgres) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []ArticleModel
	if err := db.Conn(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, models)
}

// List は作成日時の新しい順（同時刻はIDの降順）に返します。
func (r *articlePostgres) List(ctx context.Context, f usecase.ListFilter) ([]*entity.Article, int64, error) {
	conn := db.Conn(ctx, r.db)
	q := conn.Model(&ArticleModel{})
	if f.CategoryID != 0 {
		q = q.Where("id IN (?)", conn.Model(&ArticleCategoryModel{}).Select("article_id").Where("category_id = ?", f.CategoryID))
	}
	// CountとFindで条件を共有します。
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []ArticleModel
	if err := q.Order("created_at DESC, id DESC").Offset(f.Offset).Limit(f.Limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	out, err := r.hydrate(ctx, models)
	return out, total, err
}

// ListBookmarkedBy はブックマークした日時の新しい順に返します。
func (r *articlePostgres) ListBookmarkedBy(ctx context.Context, userID uint, offset, limit int) ([]*entity.Article, int64, error) {
	q := db.Conn(ctx, r.db).Model(&ArticleModel{}).
		Joins("JOIN bookmarks ON bookmarks.article_id = articles.id").
		Where("bookmarks.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []ArticleModel
	err := q.Select("articles.*").
		Order("bookmarks.created_at DESC, bookmarks.id DESC").
		Offset(offset).Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}
	out, err := r.hydrate(ctx, models)
	return out, total, err
}

func (r *articlePostgres) ReplaceCategories(ctx context.Context, articleID uint, categoryIDs []uint) error {
	conn := db.Conn(ctx, r.db)
	if err := conn.Where("article_id = ?", articleID).Delete(&ArticleCategoryModel{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]ArticleCategoryModel, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		links = append(links, ArticleCategoryModel{ArticleID: articleID, CategoryID: id})
	}
	return conn.Create(&links).Error
}

type authorRow struct {
	ID       uint
	PublicID uuid.UUID
	FullName string
}

type categoryRow struct {
	ArticleID  uint
	CategoryID uint
	PublicID   uuid.UUID
	Name       string
	CreatedAt  time.Time
}

// hydrate は著者とカテゴリを別クエリでまとめて読み込みます。
func (r *articlePostgres) hydrate(ctx context.Context, models []ArticleModel) ([]*entity.Article, error) {
	if len(models) == 0 {
		return []*entity.Article{}, nil
	}
	conn := db.Conn(ctx, r.db)

	ids := make([]uint, 0, len(models))
	authorIDs := make([]uint, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
		authorIDs = append(authorIDs, m.AuthorID)
	}

	var authors []authorRow
	if err := conn.Table("users").Select("id, public_id, full_name").Where("id IN ?", authorIDs).Scan(&authors).Error; err != nil {
		return nil, err
	}
	authorByID := make(map[uint]entity.Author, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = entity.Author(a)
	}

	var links []categoryRow
	err := conn.Table("article_categories").
		Select("article_categories.article_id, categories.id AS category_id, categories.public_id, categories.name, categories.created_at").
		Joins("JOIN categories ON categories.id = article_categories.category_id").
		Where("article_categories.article_id IN ?", ids).
		Order("categories.name ASC").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	categoriesByArticle := make(map[uint][]entity.Category, len(models))
	for _, l := range links {
		categoriesByArticle[l.ArticleID] = append(categoriesByArticle[l.ArticleID], entity.Category{
			ID:        l.CategoryID,
			PublicID:  l.PublicID,
			Name:      l.Name,
			CreatedAt: l.CreatedAt,
		})
	}

	out := make([]*entity.Article, 0, len(models))
	for i := range models {
		a := models[i].ToEntity()
		a.Author = authorByID[a.AuthorID]
		a.Categories = categoriesByArticle[a.ID]
		if a.Categories == nil {
			a.Categories = []entity.Category{}
		}
		out = append(out, a)
	}
	return out, nil
}
