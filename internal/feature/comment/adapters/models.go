package adapters

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blog_backend/internal/feature/comment/domain/entity"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID        uint      `gorm:"primaryKey"`
	PublicID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ArticleID uint      `gorm:"index:idx_comments_article_created;not null"`
	UserID    uint      `gorm:"not null"`
	ParentID  *uint     `gorm:"index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_comments_article_created"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (CommentModel) TableName() string {
	return "comments"
}

func (m *CommentModel) ToEntity() *entity.Comment {
	return &entity.Comment{
		ID:        m.ID,
		PublicID:  m.PublicID,
		ArticleID: m.ArticleID,
		UserID:    m.UserID,
		ParentID:  m.ParentID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Models returns the models owned by the comment feature, for AutoMigrate in tests.
func Models() []any {
	return []any{&CommentModel{}}
}
