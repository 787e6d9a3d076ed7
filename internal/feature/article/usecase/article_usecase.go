// Package usecase はarticleフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"blog_backend/internal/feature/article/domain/entity"
	"blog_backend/internal/shared/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Actor は操作を行う認証済みユーザーです。
type Actor struct {
	UserID uint
	Admin  bool
}

// PageRequest はページ番号と件数です。0以下の値は既定値になります。
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize は既定値と上限を適用します。
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Limit
}

// ListInput は記事一覧の条件です。
type ListInput struct {
	PageRequest
	Category *uuid.UUID
}

// CreateInput は記事作成の入力です。
type CreateInput struct {
	Title        string
	Content      string
	ThumbnailKey string
	CategoryIDs  []uuid.UUID
}

// UpdateInput は記事更新の入力です。nilのフィールドは変更しません。
type UpdateInput struct {
	Title        *string
	Content      *string
	ThumbnailKey *string
	CategoryIDs  *[]uuid.UUID
}

// ArticleUsecase は記事・カテゴリ・いいね・ブックマークの操作を提供します。
type ArticleUsecase struct {
	articles   ArticleRepository
	categories CategoryRepository
	engagement EngagementRepository
	tx         Transactor
	clock      clockwork.Clock
}

// NewArticleUsecase はArticleUsecaseの新しいインスタンスを生成します。
func NewArticleUsecase(articles ArticleRepository, categories CategoryRepository, engagement EngagementRepository, tx Transactor, clock clockwork.Clock) *ArticleUsecase {
	return &ArticleUsecase{
		articles:   articles,
		categories: categories,
		engagement: engagement,
		tx:         tx,
		clock:      clock,
	}
}

// List は新しい順の記事一覧と総件数を返します。カウントは全期間の値です。
func (u *ArticleUsecase) List(ctx context.Context, in ListInput) ([]*entity.Article, int64, error) {
	page := in.PageRequest.Normalize()
	filter := ListFilter{Offset: page.offset(), Limit: page.Limit}

	if in.Category != nil {
		c, err := u.categories.FindByPublicID(ctx, *in.Category)
		if err != nil {
			return nil, 0, mapNotFound(err)
		}
		filter.CategoryID = c.ID
	}

	articles, total, err := u.articles.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	if err := u.fillCounts(ctx, articles); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// Get は記事を返し、閲覧を1件記録します。viewerは未ログインの場合nilです。
func (u *ArticleUsecase) Get(ctx context.Context, publicID uuid.UUID, viewer *uint) (*entity.Article, error) {
	article, err := u.articles.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if err := u.engagement.RecordView(ctx, article.ID, viewer, u.clock.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to record view: %w", err)
	}

	if err := u.fillCounts(ctx, []*entity.Article{article}); err != nil {
		return nil, err
	}
	return article, nil
}

// Create は記事とカテゴリの紐付けを1つのトランザクションで作成します。
// 存在しないカテゴリが含まれる場合は何も作成しません。
func (u *ArticleUsecase) Create(ctx context.Context, actor Actor, in CreateInput) (*entity.Article, error) {
	now := u.clock.Now().UTC()
	article := &entity.Article{
		PublicID:     uuid.New(),
		AuthorID:     actor.UserID,
		Title:        strings.TrimSpace(in.Title),
		Content:      in.Content,
		ThumbnailKey: in.ThumbnailKey,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		categories, err := u.resolveCategories(ctx, in.CategoryIDs)
		if err != nil {
			return err
		}
		if err := u.articles.Create(ctx, article); err != nil {
			return fmt.Errorf("failed to create article: %w", err)
		}
		if err := u.articles.ReplaceCategories(ctx, article.ID, categoryIDs(categories)); err != nil {
			return fmt.Errorf("failed to link categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.articles.FindByPublicID(ctx, article.PublicID)
}

// Update は著者またはADMINのみが行えます。カテゴリの置き換えも同じトランザクションで行います。
func (u *ArticleUsecase) Update(ctx context.Context, actor Actor, publicID uuid.UUID, in UpdateInput) (*entity.Article, error) {
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		article, err := u.ownedArticle(ctx, actor, publicID)
		if err != nil {
			return err
		}

		if in.Title != nil {
			article.Title = strings.TrimSpace(*in.Title)
		}
		if in.Content != nil {
			article.Content = *in.Content
		}
		if in.ThumbnailKey != nil {
			article.ThumbnailKey = *in.ThumbnailKey
		}
		article.UpdatedAt = u.clock.Now().UTC()
		if err := u.articles.Update(ctx, article); err != nil {
			return fmt.Errorf("failed to update article: %w", err)
		}

		if in.CategoryIDs != nil {
			categories, err := u.resolveCategories(ctx, *in.CategoryIDs)
			if err != nil {
				return err
			}
			if err := u.articles.ReplaceCategories(ctx, article.ID, categoryIDs(categories)); err != nil {
				return fmt.Errorf("failed to replace categories: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	article, err := u.articles.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := u.fillCounts(ctx, []*entity.Article{article}); err != nil {
		return nil, err
	}
	return article, nil
}

// Delete は記事を論理削除します。著者またはADMINのみが行えます。
func (u *ArticleUsecase) Delete(ctx context.Context, actor Actor, publicID uuid.UUID) error {
	article, err := u.ownedArticle(ctx, actor, publicID)
	if err != nil {
		return err
	}
	if err := u.articles.Delete(ctx, article.ID); err != nil {
		return mapNotFound(err)
	}
	return nil
}

// ToggleLike はいいねを付け外しし、操作後の状態と件数を返します。
func (u *ArticleUsecase) ToggleLike(ctx context.Context, actor Actor, publicID uuid.UUID) (entity.Toggle, error) {
	return u.toggle(ctx, ReactionLike, actor, publicID)
}

// ToggleBookmark はブックマークを付け外しし、操作後の状態と件数を返します。
func (u *ArticleUsecase) ToggleBookmark(ctx context.Context, actor Actor, publicID uuid.UUID) (entity.Toggle, error) {
	return u.toggle(ctx, ReactionBookmark, actor, publicID)
}

// toggle は存在確認・書き込み・件数の読み直しを1つのトランザクションで行います。
// 同時に追加された場合は一意制約違反をErrAlreadyReactedとして受け取り、付いている状態として扱います。
func (u *ArticleUsecase) toggle(ctx context.Context, kind Reaction, actor Actor, publicID uuid.UUID) (entity.Toggle, error) {
	article, err := u.articles.FindByPublicID(ctx, publicID)
	if err != nil {
		return entity.Toggle{}, mapNotFound(err)
	}

	var out entity.Toggle
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := u.engagement.HasReaction(ctx, kind, article.ID, actor.UserID)
		if err != nil {
			return err
		}

		if exists {
			err = u.engagement.RemoveReaction(ctx, kind, article.ID, actor.UserID)
		} else {
			err = u.engagement.AddReaction(ctx, kind, article.ID, actor.UserID, u.clock.Now().UTC())
			if errors.Is(err, ErrAlreadyReacted) {
				err = nil
			}
		}
		if err != nil {
			return fmt.Errorf("failed to toggle %s: %w", kind, err)
		}

		count, err := u.engagement.CountReactions(ctx, kind, article.ID)
		if err != nil {
			return err
		}
		out = entity.Toggle{Active: !exists, Count: count}
		return nil
	})
	if err != nil {
		return entity.Toggle{}, err
	}
	return out, nil
}

// Bookmarks はユーザーのブックマーク一覧を返します。
func (u *ArticleUsecase) Bookmarks(ctx context.Context, actor Actor, p PageRequest) ([]*entity.Article, int64, error) {
	p = p.Normalize()
	articles, total, err := u.articles.ListBookmarkedBy(ctx, actor.UserID, p.offset(), p.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	if err := u.fillCounts(ctx, articles); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// Categories は全カテゴリを返します。
func (u *ArticleUsecase) Categories(ctx context.Context) ([]*entity.Category, error) {
	return u.categories.List(ctx)
}

// CreateCategory はカテゴリを作成します。同名が存在する場合は409です。
func (u *ArticleUsecase) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	c := &entity.Category{
		PublicID:  uuid.New(),
		Name:      strings.TrimSpace(name),
		CreatedAt: u.clock.Now().UTC(),
	}
	if c.Name == "" {
		return nil, apperror.InvalidArgument("Validation Error", "name must not be blank")
	}
	if err := u.categories.Create(ctx, c); err != nil {
		if errors.Is(err, ErrCategoryExists) {
			return nil, apperror.Conflict("Category already exists")
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

func (u *ArticleUsecase) ownedArticle(ctx context.Context, actor Actor, publicID uuid.UUID) (*entity.Article, error) {
	article, err := u.articles.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !actor.Admin && !article.IsOwnedBy(actor.UserID) {
		return nil, apperror.Forbidden(MsgNotOwner)
	}
	return article, nil
}

// resolveCategories は公開IDをカテゴリに解決します。1つでも見つからなければNotFoundです。
func (u *ArticleUsecase) resolveCategories(ctx context.Context, ids []uuid.UUID) ([]entity.Category, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := u.categories.FindByPublicIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(found) != len(ids) {
		return nil, apperror.NotFound(MsgCategoryNotFound)
	}
	return found, nil
}

func (u *ArticleUsecase) fillCounts(ctx context.Context, articles []*entity.Article) error {
	if len(articles) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	counts, err := u.engagement.Counts(ctx, ids, nil)
	if err != nil {
		return fmt.Errorf("failed to count engagement: %w", err)
	}
	for _, a := range articles {
		a.Counts = counts[a.ID]
	}
	return nil
}

func mapNotFound(err error) error {
	switch {
	case errors.Is(err, ErrArticleNotFound):
		return apperror.NotFound(MsgArticleNotFound)
	case errors.Is(err, ErrCategoryNotFound):
		return apperror.NotFound(MsgCategoryNotFound)
	default:
		return err
	}
}

func categoryIDs(cs []entity.Category) []uint {
	out := make([]uint, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
