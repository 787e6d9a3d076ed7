package di

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	articleadapters "blog_backend/internal/feature/article/adapters"
	articlehandler "blog_backend/internal/feature/article/transport/handler"
	articleusecase "blog_backend/internal/feature/article/usecase"
	commentadapters "blog_backend/internal/feature/comment/adapters"
	commenthandler "blog_backend/internal/feature/comment/transport/handler"
	commentusecase "blog_backend/internal/feature/comment/usecase"
	"blog_backend/internal/platform/cache"
	"blog_backend/internal/platform/config"
	"blog_backend/internal/platform/db"
)

// Content bundles the article and comment handlers.
type Content struct {
	Articles *articlehandler.ArticleHandler
	Comments *commenthandler.CommentHandler
}

// NewContent wires the article and comment features.
// rdb may be nil, in which case the popular ranking is computed on every request.
func NewContent(gdb *gorm.DB, rdb *redis.Client, cfg config.Popular, clock clockwork.Clock, loc *time.Location) *Content {
	tx := db.NewTransactor(gdb)
	articles := articleadapters.NewArticlePostgres(gdb)
	engagement := articleadapters.NewEngagementPostgres(gdb)

	articleUC := articleusecase.NewArticleUsecase(articles, articleadapters.NewCategoryPostgres(gdb), engagement, tx, clock)
	aggregator := articleusecase.NewAggregator(engagement, articles, clock, loc)
	ranker := cache.NewCachingRanker(rdb, cfg.CacheTTL, aggregator, "popular", clock, loc)

	commentUC := commentusecase.NewCommentUsecase(
		commentadapters.NewCommentPostgres(gdb),
		commentadapters.NewArticleLookup(gdb),
		tx,
		clock,
	)

	return &Content{
		Articles: articlehandler.NewArticleHandler(articleUC, ranker),
		Comments: commenthandler.NewCommentHandler(commentUC),
	}
}
