package usecase

import "errors"

var (
	// ErrArticleNotFound は記事が存在しない（または削除済み）ことを表します。
	ErrArticleNotFound = errors.New("article not found")

	// ErrCategoryNotFound はカテゴリが存在しないことを表します。
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryExists は同名のカテゴリが既に存在することを表します。
	ErrCategoryExists = errors.New("category already exists")

	// ErrAlreadyReacted はいいね・ブックマークが既に存在することを表します。
	// 一意制約違反をリポジトリがこのエラーに変換します。
	ErrAlreadyReacted = errors.New("reaction already exists")
)

// クライアントに返すメッセージ。
const (
	MsgArticleNotFound  = "Article not found"
	MsgCategoryNotFound = "Category not found"
	MsgRangeInvalid     = "Range is not valid"
	MsgNoPopular        = "There is no popular article"
	MsgNotOwner         = "You are not allowed to modify this article"
)
