// Package usecase はcommentフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"blog_backend/internal/feature/comment/domain/entity"
	"blog_backend/internal/shared/apperror"
)

// Actor は操作を行う認証済みユーザーです。
type Actor struct {
	UserID uint
	Admin  bool
}

// CreateInput はコメント投稿の入力です。ParentIDを指定すると返信になります。
type CreateInput struct {
	Content  string
	ParentID *uuid.UUID
}

// CommentUsecase はコメントと返信の操作を提供します。
type CommentUsecase struct {
	comments CommentRepository
	articles ArticleLookup
	tx       Transactor
	clock    clockwork.Clock
}

// NewCommentUsecase はCommentUsecaseの新しいインスタンスを生成します。
func NewCommentUsecase(comments CommentRepository, articles ArticleLookup, tx Transactor, clock clockwork.Clock) *CommentUsecase {
	return &CommentUsecase{comments: comments, articles: articles, tx: tx, clock: clock}
}

// List は記事のコメントを返信を入れ子にした形で返します。
func (u *CommentUsecase) List(ctx context.Context, articlePublicID uuid.UUID) ([]*entity.Comment, error) {
	articleID, err := u.articles.ArticleID(ctx, articlePublicID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	flat, err := u.comments.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return entity.BuildTree(flat), nil
}

// Create はコメントを投稿します。
// 返信先は同じ記事のコメントでなければなりません。返信への返信はスレッドの先頭にぶら下げます。
func (u *CommentUsecase) Create(ctx context.Context, actor Actor, articlePublicID uuid.UUID, in CreateInput) (*entity.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperror.InvalidArgument("Validation Error", "content must not be blank")
	}

	now := u.clock.Now().UTC()
	comment := &entity.Comment{
		PublicID:  uuid.New(),
		UserID:    actor.UserID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Replies:   []*entity.Comment{},
	}

	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		articleID, err := u.articles.ArticleID(ctx, articlePublicID)
		if err != nil {
			return mapNotFound(err)
		}
		comment.ArticleID = articleID

		if in.ParentID != nil {
			parent, err := u.comments.FindByPublicID(ctx, *in.ParentID)
			if err != nil {
				return mapNotFound(err)
			}
			if parent.ArticleID != articleID {
				return apperror.NotFound(MsgCommentNotFound)
			}
			root := parent.ID
			if parent.ParentID != nil {
				root = *parent.ParentID
			}
			comment.ParentID = &root
		}

		if err := u.comments.Create(ctx, comment); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := u.comments.FindByPublicID(ctx, comment.PublicID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	created.Replies = []*entity.Comment{}
	return created, nil
}

// Delete はコメントを論理削除します。投稿者またはADMINのみが行えます。
func (u *CommentUsecase) Delete(ctx context.Context, actor Actor, publicID uuid.UUID) error {
	comment, err := u.comments.FindByPublicID(ctx, publicID)
	if err != nil {
		return mapNotFound(err)
	}
	if !actor.Admin && !comment.IsOwnedBy(actor.UserID) {
		return apperror.Forbidden(MsgNotOwner)
	}
	if err := u.comments.Delete(ctx, comment.ID); err != nil {
		return mapNotFound(err)
	}
	return nil
}

func mapNotFound(err error) error {
	switch {
	case errors.Is(err, ErrCommentNotFound):
		return apperror.NotFound(MsgCommentNotFound)
	case errors.Is(err, ErrArticleNotFound):
		return apperror.NotFound(MsgArticleNotFound)
	default:
		return err
	}
}
