// Package dto はarticleフィーチャーのリクエスト/レスポンス形式を定義します。
package dto

import "github.com/google/uuid"

// ListArticlesQuery は GET /articles のクエリです。
type ListArticlesQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Category string `form:"category" binding:"omitempty,uuid"`
}

// PageQuery は一覧系エンドポイント共通のページ指定です。
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// CreateArticleReq は POST /articles のリクエストボディです。
type CreateArticleReq struct {
	Title        string      `json:"title" binding:"required,max=255"`
	Content      string      `json:"content" binding:"required"`
	ThumbnailKey string      `json:"thumbnail_key" binding:"omitempty,max=255"`
	CategoryIDs  []uuid.UUID `json:"category_ids"`
}

// UpdateArticleReq は PATCH /articles/:id のリクエストボディです。
// 省略したフィールドは変更しません。category_idsに空配列を渡すと全て外れます。
type UpdateArticleReq struct {
	Title        *string      `json:"title" binding:"omitempty,min=1,max=255"`
	Content      *string      `json:"content" binding:"omitempty,min=1"`
	ThumbnailKey *string      `json:"thumbnail_key" binding:"omitempty,max=255"`
	CategoryIDs  *[]uuid.UUID `json:"category_ids"`
}

// CreateCategoryReq は POST /categories のリクエストボディです。
type CreateCategoryReq struct {
	Name string `json:"name" binding:"required,max=100"`
}
