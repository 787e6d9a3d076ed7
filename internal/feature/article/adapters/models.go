package adapters

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blog_backend/internal/feature/article/domain/entity"
)

// ArticleModel is the GORM model for the articles table.
type ArticleModel struct {
	ID           uint      `gorm:"primaryKey"`
	PublicID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	AuthorID     uint      `gorm:"index;not null"`
	Title        string    `gorm:"size:255;not null"`
	Content      string    `gorm:"type:text;not null"`
	ThumbnailKey string    `gorm:"size:255;not null;default:''"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (ArticleModel) TableName() string {
	return "articles"
}

func (m *ArticleModel) ToEntity() *entity.Article {
	return &entity.Article{
		ID:           m.ID,
		PublicID:     m.PublicID,
		AuthorID:     m.AuthorID,
		Title:        m.Title,
		Content:      m.Content,
		ThumbnailKey: m.ThumbnailKey,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// CategoryModel is the GORM model for the categories table.
type CategoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	PublicID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Name      string    `gorm:"uniqueIndex:idx_categories_name;size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CategoryModel) TableName() string {
	return "categories"
}

func (m *CategoryModel) ToEntity() *entity.Category {
	return &entity.Category{
		ID:        m.ID,
		PublicID:  m.PublicID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

// ArticleCategoryModel links articles and categories.
type ArticleCategoryModel struct {
	ArticleID  uint `gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `gorm:"primaryKey;autoIncrement:false"`
}

func (ArticleCategoryModel) TableName() string {
	return "article_categories"
}

// LikeModel is one like. (article_id, user_id) is unique.
type LikeModel struct {
	ID        uint      `gorm:"primaryKey"`
	ArticleID uint      `gorm:"uniqueIndex:idx_likes_article_user;not null"`
	UserID    uint      `gorm:"uniqueIndex:idx_likes_article_user;not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (LikeModel) TableName() string {
	return "likes"
}

// BookmarkModel is one bookmark. (article_id, user_id) is unique.
type BookmarkModel struct {
	ID        uint      `gorm:"primaryKey"`
	ArticleID uint      `gorm:"uniqueIndex:idx_bookmarks_article_user;not null"`
	UserID    uint      `gorm:"uniqueIndex:idx_bookmarks_article_user;not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (BookmarkModel) TableName() string {
	return "bookmarks"
}

// ViewModel is one read of an article. Anonymous reads have a nil UserID.
type ViewModel struct {
	ID        uint `gorm:"primaryKey"`
	ArticleID uint `gorm:"index:idx_views_article_created;not null"`
	UserID    *uint
	CreatedAt time.Time `gorm:"index:idx_views_article_created"`
}

func (ViewModel) TableName() string {
	return "views"
}

// Models returns the models owned by the article feature, for AutoMigrate in tests.
func Models() []any {
	return []any{
		&ArticleModel{},
		&CategoryModel{},
		&ArticleCategoryModel{},
		&LikeModel{},
		&BookmarkModel{},
		&ViewModel{},
	}
}
