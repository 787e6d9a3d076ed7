// Package entity defines the article aggregate and its engagement counters.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Author is the public view of the user who wrote an article or comment.
type Author struct {
	ID       uint
	PublicID uuid.UUID
	FullName string
}

// Category groups articles. Names are unique.
type Category struct {
	ID        uint
	PublicID  uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Article is a published post.
type Article struct {
	ID           uint
	PublicID     uuid.UUID
	AuthorID     uint
	Author       Author
	Title        string
	Content      string
	ThumbnailKey string
	Categories   []Category
	Counts       Counts
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOwnedBy reports whether userID wrote the article.
func (a *Article) IsOwnedBy(userID uint) bool {
	return a.AuthorID == userID
}
