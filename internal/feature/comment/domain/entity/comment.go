// Package entity defines comments and reply threads.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Author is the public view of the commenter.
type Author struct {
	ID       uint
	PublicID uuid.UUID
	FullName string
}

// Comment is a comment on an article, or a reply when ParentID is set.
type Comment struct {
	ID        uint
	PublicID  uuid.UUID
	ArticleID uint
	UserID    uint
	Author    Author
	ParentID  *uint
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Replies   []*Comment
}

// IsOwnedBy reports whether userID wrote the comment.
func (c *Comment) IsOwnedBy(userID uint) bool {
	return c.UserID == userID
}

// BuildTree nests replies under their parents.
// Input order is kept at every level, so a list sorted oldest first yields threads sorted oldest first.
// Replies whose parent is not in the list are dropped.
func BuildTree(flat []*Comment) []*Comment {
	byID := make(map[uint]*Comment, len(flat))
	for _, c := range flat {
		c.Replies = []*Comment{}
		byID[c.ID] = c
	}

	roots := make([]*Comment, 0, len(flat))
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return roots
}
