// Package handler はarticleフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog_backend/internal/api"
	"blog_backend/internal/feature/article/domain/entity"
	"blog_backend/internal/feature/article/transport/http/dto"
	"blog_backend/internal/feature/article/usecase"
	jwtmw "blog_backend/internal/platform/jwt"
	"blog_backend/internal/shared/apperror"
)

// ArticleUsecase は記事操作のユースケースを定義します。
type ArticleUsecase interface {
	List(ctx context.Context, in usecase.ListInput) ([]*entity.Article, int64, error)
	Get(ctx context.Context, publicID uuid.UUID, viewer *uint) (*entity.Article, error)
	Create(ctx context.Context, actor usecase.Actor, in usecase.CreateInput) (*entity.Article, error)
	Update(ctx context.Context, actor usecase.Actor, publicID uuid.UUID, in usecase.UpdateInput) (*entity.Article, error)
	Delete(ctx context.Context, actor usecase.Actor, publicID uuid.UUID) error
	ToggleLike(ctx context.Context, actor usecase.Actor, publicID uuid.UUID) (entity.Toggle, error)
	ToggleBookmark(ctx context.Context, actor usecase.Actor, publicID uuid.UUID) (entity.Toggle, error)
	Bookmarks(ctx context.Context, actor usecase.Actor, p usecase.PageRequest) ([]*entity.Article, int64, error)
	Categories(ctx context.Context) ([]*entity.Category, error)
	CreateCategory(ctx context.Context, name string) (*entity.Category, error)
}

// PopularRanker は人気記事ランキングを返します。キャッシュ付きの実装も受け付けます。
type PopularRanker interface {
	Rank(ctx context.Context, rangeName string) (*entity.Ranking, error)
}

// ArticleHandler は記事・カテゴリ・いいね・ブックマークのHTTPリクエストを処理します。
type ArticleHandler struct {
	articles ArticleUsecase
	popular  PopularRanker
}

// NewArticleHandler はArticleHandlerの新しいインスタンスを生成します。
func NewArticleHandler(articles ArticleUsecase, popular PopularRanker) *ArticleHandler {
	return &ArticleHandler{articles: articles, popular: popular}
}

// Categories はカテゴリ一覧を返します。
func (h *ArticleHandler) Categories(c *gin.Context) {
	categories, err := h.articles.Categories(c.Request.Context())
	if err != nil {
		api.WriteError(c, err)
		return
	}
	api.OK(c, "Success", dto.NewCategoryList(categories))
}

// CreateCategory はカテゴリを作成します。ADMINのみ。
func (h *ArticleHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, api.BindError(err))
		return
	}
	category, err := h.articles.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	api.Created(c, "Category created", dto.NewCategoryRes(*category))
}

// List は記事一覧APIエンドポイントを処理します。
// - page/limitの既定値は1/10、limitの上限は100
// - categoryを指定した場合はそのカテゴリの記事のみ
func (h *ArticleHandler) List(c *gin.Context) {
	var q dto.ListArticlesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		api.WriteError(c, api.BindError(err))
		return
	}
	in := usecase.ListInput{PageRequest: usecase.PageRequest{Page: q.Page, Limit: q.Limit}}
	if q.Category != "" {
		id := uuid.MustParse(q.Category)
		in.Category = &id
	}

	articles, total, err := h.articles.List(c.Request.Context(), in)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	page := in.PageRequest.Normalize()
	api.OK(c, "Success", api.Page{
		Items:      dto.NewArticleList(articles),
		Pagination: api.Pagination{Page: page.Page, Limit: page.Limit, Total: total},
	})
}

// Popular は人気記事ランキングを返します。
// rangeは "today" / "3 days" / "1 week" のいずれかです。
func (h *ArticleHandler) Popular(c *gin.Context) {
	ranking, err := h.popular.Rank(c.Request.Context(), c.Query("range"))
	if err != nil {
		api.WriteError(c, err)
		return
	}
	api.OK(c, "Success", dto.NewPopularRes(ranking))
}

// Get は記事を返し、閲覧を記録します。ログイン中であれば閲覧者を記録します。
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		return
	}
	var viewer *uint
	if p, ok := jwtmw.CurrentPrincipal(c); ok {
		viewer = &p.User.ID
	}
	article, err := h.articles.Get(c.Request.Context(), id, viewer)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	api.OK(c, "Success", dto.NewArticleRes(article))
}

// Create は記事を作成します。
func (h *ArticleHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.CreateArticleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, api.BindError(err))
		return
	}
	article, err := h.articles.Create(c.Request.Context(), actor, usecase.CreateInput{
		Title:        req.Title,
		Content:      req.Content,
		ThumbnailKey: req.ThumbnailKey,
		CategoryIDs:  req.CategoryIDs,
	})
	if err != nil {
		api.WriteError(c, err)
		return
	}
	slog.Info("article created", "article_id", article.PublicID, "user_id", actor.UserID)
	api.Created(c, "Article created", dto.NewArticleRes(article))
}

// Update は記事を部分更新します。著者またはADMINのみ。
func (h *ArticleHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := articleID(c)
	if !ok {
		return
	}
	var req dto.UpdateArticleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, api.BindError(err))
		return
	}
	article, err := h.articles.Update(c.Request.Context(), actor, id, usecase.UpdateInput{
		Title:        req.Title,
		Content:      req.Content,
		ThumbnailKey: req.ThumbnailKey,
		CategoryIDs:  req.CategoryIDs,
	})
	if err != nil {
		api.WriteError(c, err)
		return
	}
	api.OK(c, "Article updated", dto.NewArticleRes(article))
}

// Delete は記事を論理削除します。著者またはADMINのみ。
func (h *ArticleHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := articleID(c)
	if !ok {
		return
	}
	if err := h.articles.Delete(c.Request.Context(), actor, id); err != nil {
		api.WriteError(c, err)
		return
	}
	slog.Info("article deleted", "article_id", id, "user_id", actor.UserID)
	api.OK(c, "Article deleted", nil)
}

// Like はいいねを付け外しします。
func (h *ArticleHandler) Like(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := articleID(c)
	if !ok {
		return
	}
	t, err := h.articles.ToggleLike(c.Request.Context(), actor, id)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	api.OK(c, "Success", dto.LikeRes{Liked: t.Active, LikeCount: t.Count})
}

// Bookmark はブックマークを付け外しします。
func (h *ArticleHandler) Bookmark(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := articleID(c)
	if !ok {
		return
	}
	t, err := h.articles.ToggleBookmark(c.Request.Context(), actor, id)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	api.OK(c, "Success", dto.BookmarkRes{Bookmarked: t.Active, BookmarkCount: t.Count})
}

// MyBookmarks はログインユーザーのブックマーク一覧を返します。
func (h *ArticleHandler) MyBookmarks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		api.WriteError(c, api.BindError(err))
		return
	}
	p := usecase.PageRequest{Page: q.Page, Limit: q.Limit}
	articles, total, err := h.articles.Bookmarks(c.Request.Context(), actor, p)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	p = p.Normalize()
	api.OK(c, "Success", api.Page{
		Items:      dto.NewArticleList(articles),
		Pagination: api.Pagination{Page: p.Page, Limit: p.Limit, Total: total},
	})
}

// currentActor は認証済み主体をActorに変換します。主体がなければ401を書き込みます。
func currentActor(c *gin.Context) (usecase.Actor, bool) {
	p, ok := jwtmw.CurrentPrincipal(c)
	if !ok {
		api.WriteError(c, apperror.Unauthenticated("Unauthorized", nil))
		return usecase.Actor{}, false
	}
	return usecase.Actor{UserID: p.User.ID, Admin: p.IsAdmin()}, true
}

func articleID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.WriteError(c, apperror.InvalidArgument("Invalid UUID"))
		return uuid.Nil, false
	}
	return id, true
}
