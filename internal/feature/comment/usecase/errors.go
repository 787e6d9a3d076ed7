package usecase

import "errors"

var (
	// ErrCommentNotFound はコメントが存在しないか削除済みの場合に返されます。
	ErrCommentNotFound = errors.New("comment not found")
	// ErrArticleNotFound はコメント先の記事が存在しない場合に返されます。
	ErrArticleNotFound = errors.New("article not found")
)

const (
	MsgCommentNotFound = "Comment not found"
	MsgArticleNotFound = "Article not found"
	MsgNotOwner        = "You are not allowed to modify this comment"
)
