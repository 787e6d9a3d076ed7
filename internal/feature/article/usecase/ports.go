package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"blog_backend/internal/feature/article/domain/entity"
)

// Reaction はユーザーが記事に付ける、1人1回までの反応の種類です。
type Reaction string

const (
	ReactionLike     Reaction = "like"
	ReactionBookmark Reaction = "bookmark"
)

// ListFilter は記事一覧の絞り込み条件です。
type ListFilter struct {
	Offset     int
	Limit      int
	CategoryID uint
}

// ArticleRepository は記事の永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type ArticleRepository interface {
	// Create は記事を保存し、ID・作成日時を設定します。
	Create(ctx context.Context, a *entity.Article) error

	// Update はタイトル・本文・サムネイルを更新します。
	Update(ctx context.Context, a *entity.Article) error

	// Delete は記事を論理削除します。
	Delete(ctx context.Context, id uint) error

	// FindByPublicID は著者とカテゴリを含めて記事を返します。
	// 存在しない場合、ErrArticleNotFoundを返します。
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Article, error)

	// FindByIDs はidsに含まれる記事を返します。順序は保証しません。
	FindByIDs(ctx context.Context, ids []uint) ([]*entity.Article, error)

	// List は新しい順に記事を返し、総件数も返します。
	List(ctx context.Context, f ListFilter) ([]*entity.Article, int64, error)

	// ListBookmarkedBy はユーザーがブックマークした記事を、ブックマークの新しい順に返します。
	ListBookmarkedBy(ctx context.Context, userID uint, offset, limit int) ([]*entity.Article, int64, error)

	// ReplaceCategories は記事のカテゴリを置き換えます。
	ReplaceCategories(ctx context.Context, articleID uint, categoryIDs []uint) error
}

// CategoryRepository はカテゴリの永続化層を抽象化します。
type CategoryRepository interface {
	// Create は同名のカテゴリが存在する場合、ErrCategoryExistsを返します。
	Create(ctx context.Context, c *entity.Category) error
	List(ctx context.Context) ([]*entity.Category, error)
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Category, error)
	// FindByPublicIDs は見つかったカテゴリのみを返します。
	FindByPublicIDs(ctx context.Context, publicIDs []uuid.UUID) ([]entity.Category, error)
}

// EngagementRepository はいいね・ブックマーク・閲覧のイベントを扱います。
type EngagementRepository interface {
	// RecordView は閲覧を1件追加します。未ログインの閲覧はuserIDがnilです。
	RecordView(ctx context.Context, articleID uint, userID *uint, at time.Time) error

	HasReaction(ctx context.Context, kind Reaction, articleID, userID uint) (bool, error)

	// AddReaction は反応を追加します。既に存在する場合、ErrAlreadyReactedを返します。
	AddReaction(ctx context.Context, kind Reaction, articleID, userID uint, at time.Time) error

	RemoveReaction(ctx context.Context, kind Reaction, articleID, userID uint) error

	CountReactions(ctx context.Context, kind Reaction, articleID uint) (int64, error)

	// ViewedSince はsince以降に1件以上閲覧された記事のIDを昇順で返します。
	ViewedSince(ctx context.Context, since time.Time) ([]uint, error)

	// Counts は記事ごとの4種類のカウントを返します。
	// sinceがnilの場合は全期間、そうでなければsince以降のイベントのみを数えます。
	Counts(ctx context.Context, articleIDs []uint, since *time.Time) (map[uint]entity.Counts, error)
}

// Transactor は複数の書き込みを1つのトランザクションにまとめます。
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
