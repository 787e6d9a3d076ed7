package usecase

import (
	"context"

	"github.com/google/uuid"

	"blog_backend/internal/feature/comment/domain/entity"
)

// CommentRepository はコメントの永続化を定義します。
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	// FindByPublicID は削除済みのコメントをErrCommentNotFoundとして扱います。
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Comment, error)
	// ListByArticle は作成日時の古い順（同時刻はIDの昇順）に返します。
	ListByArticle(ctx context.Context, articleID uint) ([]*entity.Comment, error)
	// Delete はコメントとその返信を論理削除します。
	Delete(ctx context.Context, id uint) error
}

// ArticleLookup は記事の公開IDを内部IDに解決します。
type ArticleLookup interface {
	ArticleID(ctx context.Context, publicID uuid.UUID) (uint, error)
}

// Transactor はfnを1つのトランザクション内で実行します。
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
