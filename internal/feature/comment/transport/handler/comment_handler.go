// Package handler はcommentフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog_backend/internal/api"
	"blog_backend/internal/feature/comment/domain/entity"
	"blog_backend/internal/feature/comment/transport/http/dto"
	"blog_backend/internal/feature/comment/usecase"
	jwtmw "blog_backend/internal/platform/jwt"
	"blog_backend/internal/shared/apperror"
)

// CommentUsecase はコメント操作のユースケースを定義します。
type CommentUsecase interface {
	List(ctx context.Context, articleID uuid.UUID) ([]*entity.Comment, error)
	Create(ctx context.Context, actor usecase.Actor, articleID uuid.UUID, in usecase.CreateInput) (*entity.Comment, error)
	Delete(ctx context.Context, actor usecase.Actor, commentID uuid.UUID) error
}

// CommentHandler はコメントのHTTPリクエストを処理します。
type CommentHandler struct {
	comments CommentUsecase
}

// NewCommentHandler はCommentHandlerの新しいインスタンスを生成します。
func NewCommentHandler(comments CommentUsecase) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List は記事のコメントを返信付きで返します。
func (h *CommentHandler) List(c *gin.Context) {
	articleID, ok := pathUUID(c)
	if !ok {
		return
	}
	comments, err := h.comments.List(c.Request.Context(), articleID)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	api.OK(c, "Success", dto.NewCommentTree(comments))
}

// Create はコメントまたは返信を投稿します。
func (h *CommentHandler) Create(c *gin.Context) {
	p, ok := jwtmw.CurrentPrincipal(c)
	if !ok {
		api.WriteError(c, apperror.Unauthenticated("Unauthorized", nil))
		return
	}
	articleID, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, api.BindError(err))
		return
	}

	actor := usecase.Actor{UserID: p.User.ID, Admin: p.IsAdmin()}
	comment, err := h.comments.Create(c.Request.Context(), actor, articleID, usecase.CreateInput{
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		api.WriteError(c, err)
		return
	}
	slog.Info("comment created", "comment_id", comment.PublicID, "article_id", articleID, "user_id", p.User.PublicID)
	api.Created(c, "Comment created", dto.NewCommentRes(comment))
}

// Delete はコメントを論理削除します。投稿者またはADMINのみ。
func (h *CommentHandler) Delete(c *gin.Context) {
	p, ok := jwtmw.CurrentPrincipal(c)
	if !ok {
		api.WriteError(c, apperror.Unauthenticated("Unauthorized", nil))
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), usecase.Actor{UserID: p.User.ID, Admin: p.IsAdmin()}, id); err != nil {
		api.WriteError(c, err)
		return
	}
	api.OK(c, "Comment deleted", nil)
}

func pathUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.WriteError(c, apperror.InvalidArgument("Invalid UUID"))
		return uuid.Nil, false
	}
	return id, true
}
