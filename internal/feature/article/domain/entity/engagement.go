package entity

import "time"

// Counts holds the four engagement counters of an article.
type Counts struct {
	Likes     int64
	Comments  int64
	Views     int64
	Bookmarks int64
}

// Score weights.
const (
	WeightView     = 1
	WeightLike     = 2
	WeightComment  = 3
	WeightBookmark = 4
)

// Score is the popularity score derived from c.
func (c Counts) Score() int64 {
	return WeightView*c.Views + WeightLike*c.Likes + WeightComment*c.Comments + WeightBookmark*c.Bookmarks
}

// Range names accepted by the popularity ranking.
const (
	RangeToday     = "today"
	RangeThreeDays = "3 days"
	RangeOneWeek   = "1 week"
)

// PopularArticle is one entry of a popularity ranking.
// Score is computed over the window; Article.Counts are lifetime totals.
type PopularArticle struct {
	Article *Article
	Score   int64
	Rank    int
}

// Ranking is the ordered result of a popularity query.
type Ranking struct {
	Range       string
	Since       time.Time
	GeneratedAt time.Time
	Items       []PopularArticle
}

// Toggle is the outcome of a like or bookmark toggle.
type Toggle struct {
	Active bool
	Count  int64
}
