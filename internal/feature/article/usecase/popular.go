package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"blog_backend/internal/feature/article/domain/entity"
	"blog_backend/internal/shared/apperror"
)

// Aggregator は閲覧・いいね・コメント・ブックマークから人気記事のランキングを作ります。
type Aggregator struct {
	engagement EngagementRepository
	articles   ArticleRepository
	clock      clockwork.Clock
	loc        *time.Location
}

// NewAggregator はAggregatorを生成します。
// locは"today"の日付境界に使うタイムゾーンで、nilの場合はtime.Localです。
func NewAggregator(engagement EngagementRepository, articles ArticleRepository, clock clockwork.Clock, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{
		engagement: engagement,
		articles:   articles,
		clock:      clock,
		loc:        loc,
	}
}

// WindowStart は範囲名から集計開始時刻を求めます。
func WindowStart(rangeName string, now time.Time, loc *time.Location) (time.Time, error) {
	switch rangeName {
	case entity.RangeToday:
		local := now.In(loc)
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc), nil
	case entity.RangeThreeDays:
		return now.Add(-3 * 24 * time.Hour), nil
	case entity.RangeOneWeek:
		return now.Add(-7 * 24 * time.Hour), nil
	default:
		return time.Time{}, apperror.InvalidArgument(MsgRangeInvalid)
	}
}

// Rank は人気順の記事一覧を返します。
//
// 候補の選定と並び替えは期間内のイベントのみで行い、
// 表示するカウントは期間を限定せずに数え直した全期間の値です。
// 同点の場合は記事の内部IDの昇順に並べます。
func (a *Aggregator) Rank(ctx context.Context, rangeName string) (*entity.Ranking, error) {
	now := a.clock.Now()
	since, err := WindowStart(rangeName, now, a.loc)
	if err != nil {
		return nil, err
	}
	since = since.UTC()

	ids, err := a.engagement.ViewedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to collect candidates: %w", err)
	}
	if len(ids) == 0 {
		return nil, apperror.NotFound(MsgNoPopular)
	}

	windowed, err := a.engagement.Counts(ctx, ids, &since)
	if err != nil {
		return nil, fmt.Errorf("failed to count window engagement: %w", err)
	}

	type scored struct {
		id    uint
		score int64
	}
	ranked := make([]scored, 0, len(ids))
	for _, id := range ids {
		ranked = append(ranked, scored{id: id, score: windowed[id].Score()})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	lifetime, err := a.engagement.Counts(ctx, ids, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count lifetime engagement: %w", err)
	}

	articles, err := a.articles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load articles: %w", err)
	}
	byID := make(map[uint]*entity.Article, len(articles))
	for _, art := range articles {
		byID[art.ID] = art
	}

	items := make([]entity.PopularArticle, 0, len(ranked))
	for _, r := range ranked {
		art, ok := byID[r.id]
		if !ok {
			// 閲覧後に削除された記事
			continue
		}
		art.Counts = lifetime[r.id]
		items = append(items, entity.PopularArticle{
			Article: art,
			Score:   r.score,
			Rank:    len(items) + 1,
		})
	}
	if len(items) == 0 {
		return nil, apperror.NotFound(MsgNoPopular)
	}

	return &entity.Ranking{
		Range:       rangeName,
		Since:       since,
		GeneratedAt: now.UTC(),
		Items:       items,
	}, nil
}
