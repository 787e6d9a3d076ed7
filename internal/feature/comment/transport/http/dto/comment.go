// Package dto はcommentフィーチャーのリクエスト/レスポンス形式を定義します。
package dto

import (
	"time"

	"github.com/google/uuid"

	"blog_backend/internal/feature/comment/domain/entity"
)

// CreateCommentReq は POST /articles/:id/comments のリクエストボディです。
type CreateCommentReq struct {
	Content  string     `json:"content" binding:"required,max=5000"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type AuthorRes struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// CommentRes はコメントの公開表現です。repliesは古い順です。
type CommentRes struct {
	ID        uuid.UUID    `json:"id"`
	Content   string       `json:"content"`
	Author    AuthorRes    `json:"author"`
	CreatedAt time.Time    `json:"created_at"`
	Replies   []CommentRes `json:"replies"`
}

func NewCommentRes(c *entity.Comment) CommentRes {
	return CommentRes{
		ID:        c.PublicID,
		Content:   c.Content,
		Author:    AuthorRes{ID: c.Author.PublicID, FullName: c.Author.FullName},
		CreatedAt: c.CreatedAt,
		Replies:   NewCommentTree(c.Replies),
	}
}

func NewCommentTree(cs []*entity.Comment) []CommentRes {
	out := make([]CommentRes, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewCommentRes(c))
	}
	return out
}
