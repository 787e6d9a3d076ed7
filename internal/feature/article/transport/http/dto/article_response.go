package dto

import (
	"time"

	"github.com/google/uuid"

	"blog_backend/internal/feature/article/domain/entity"
)

type AuthorRes struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

type CategoryRes struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ArticleRes は記事の公開表現です。カウントは全期間の値です。
type ArticleRes struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	ThumbnailKey  string        `json:"thumbnail_key,omitempty"`
	Author        AuthorRes     `json:"author"`
	Categories    []CategoryRes `json:"categories"`
	LikeCount     int64         `json:"like_count"`
	CommentCount  int64         `json:"comment_count"`
	ViewCount     int64         `json:"view_count"`
	BookmarkCount int64         `json:"bookmark_count"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// PopularItemRes はランキングの1件です。scoreは集計期間内の値です。
type PopularItemRes struct {
	Rank    int        `json:"rank"`
	Score   int64      `json:"score"`
	Article ArticleRes `json:"article"`
}

// PopularRes は GET /articles/popular のレスポンスです。
type PopularRes struct {
	Range       string           `json:"range"`
	Since       time.Time        `json:"since"`
	GeneratedAt time.Time        `json:"generated_at"`
	Items       []PopularItemRes `json:"items"`
}

type LikeRes struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

type BookmarkRes struct {
	Bookmarked    bool  `json:"bookmarked"`
	BookmarkCount int64 `json:"bookmark_count"`
}

func NewCategoryRes(c entity.Category) CategoryRes {
	return CategoryRes{ID: c.PublicID, Name: c.Name}
}

func NewCategoryList(cs []*entity.Category) []CategoryRes {
	out := make([]CategoryRes, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewCategoryRes(*c))
	}
	return out
}

// NewArticleRes はエンティティからレスポンスを組み立てます。内部IDは含めません。
func NewArticleRes(a *entity.Article) ArticleRes {
	categories := make([]CategoryRes, 0, len(a.Categories))
	for _, c := range a.Categories {
		categories = append(categories, NewCategoryRes(c))
	}
	return ArticleRes{
		ID:            a.PublicID,
		Title:         a.Title,
		Content:       a.Content,
		ThumbnailKey:  a.ThumbnailKey,
		Author:        AuthorRes{ID: a.Author.PublicID, FullName: a.Author.FullName},
		Categories:    categories,
		LikeCount:     a.Counts.Likes,
		CommentCount:  a.Counts.Comments,
		ViewCount:     a.Counts.Views,
		BookmarkCount: a.Counts.Bookmarks,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func NewArticleList(as []*entity.Article) []ArticleRes {
	out := make([]ArticleRes, 0, len(as))
	for _, a := range as {
		out = append(out, NewArticleRes(a))
	}
	return out
}

func NewPopularRes(r *entity.Ranking) PopularRes {
	items := make([]PopularItemRes, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, PopularItemRes{Rank: it.Rank, Score: it.Score, Article: NewArticleRes(it.Article)})
	}
	return PopularRes{
		Range:       r.Range,
		Since:       r.Since,
		GeneratedAt: r.GeneratedAt,
		Items:       items,
	}
}
