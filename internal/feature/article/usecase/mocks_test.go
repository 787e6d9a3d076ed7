package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"blog_backend/internal/feature/article/domain/entity"
)

type event struct {
	kind      string
	articleID uint
	userID    uint
	at        time.Time
}

// fakeEngagement keeps engagement events in memory and counts them like the SQL implementation.
type fakeEngagement struct {
	events   []event
	countErr error
	addErr   error
}

func (f *fakeEngagement) add(kind string, articleID uint, at time.Time, n int) {
	for range n {
		f.events = append(f.events, event{kind: kind, articleID: articleID, at: at})
	}
}

func (f *fakeEngagement) RecordView(ctx context.Context, articleID uint, userID *uint, at time.Time) error {
	e := event{kind: "view", articleID: articleID, at: at}
	if userID != nil {
		e.userID = *userID
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEngagement) HasReaction(ctx context.Context, kind Reaction, articleID, userID uint) (bool, error) {
	for _, e := range f.events {
		if e.kind == string(kind) && e.articleID == articleID && e.userID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEngagement) AddReaction(ctx context.Context, kind Reaction, articleID, userID uint, at time.Time) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.events = append(f.events, event{kind: string(kind), articleID: articleID, userID: userID, at: at})
	return nil
}

func (f *fakeEngagement) RemoveReaction(ctx context.Context, kind Reaction, articleID, userID uint) error {
	f.events = slices.DeleteFunc(f.events, func(e event) bool {
		return e.kind == string(kind) && e.articleID == articleID && e.userID == userID
	})
	return nil
}

func (f *fakeEngagement) CountReactions(ctx context.Context, kind Reaction, articleID uint) (int64, error) {
	var n int64
	for _, e := range f.events {
		if e.kind == string(kind) && e.articleID == articleID {
			n++
		}
	}
	return n, nil
}

func (f *fakeEngagement) ViewedSince(ctx context.Context, since time.Time) ([]uint, error) {
	var ids []uint
	for _, e := range f.events {
		if e.kind == "view" && !e.at.Before(since) && !slices.Contains(ids, e.articleID) {
			ids = append(ids, e.articleID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (f *fakeEngagement) Counts(ctx context.Context, articleIDs []uint, since *time.Time) (map[uint]entity.Counts, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	out := make(map[uint]entity.Counts)
	for _, e := range f.events {
		if !slices.Contains(articleIDs, e.articleID) {
			continue
		}
		if since != nil && e.at.Before(*since) {
			continue
		}
		c := out[e.articleID]
		switch e.kind {
		case "view":
			c.Views++
		case string(ReactionLike):
			c.Likes++
		case "comment":
			c.Comments++
		case string(ReactionBookmark):
			c.Bookmarks++
		}
		out[e.articleID] = c
	}
	return out, nil
}

// mockArticleRepository is a mock implementation of ArticleRepository backed by a map.
type mockArticleRepository struct {
	articles       map[uint]*entity.Article
	nextID         uint
	links          map[uint][]uint
	deleted        []uint
	CreateFunc     func(ctx context.Context, a *entity.Article) error
	ListFunc       func(ctx context.Context, f ListFilter) ([]*entity.Article, int64, error)
	ListBookmarked func(ctx context.Context, userID uint, offset, limit int) ([]*entity.Article, int64, error)
}

func newMockArticleRepository(articles ...*entity.Article) *mockArticleRepository {
	m := &mockArticleRepository{articles: map[uint]*entity.Article{}, links: map[uint][]uint{}}
	for _, a := range articles {
		m.articles[a.ID] = a
		m.nextID = max(m.nextID, a.ID)
	}
	return m
}

func (m *mockArticleRepository) Create(ctx context.Context, a *entity.Article) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, a); err != nil {
			return err
		}
	}
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.articles[a.ID] = &cp
	return nil
}

func (m *mockArticleRepository) Update(ctx context.Context, a *entity.Article) error {
	if _, ok := m.articles[a.ID]; !ok {
		return ErrArticleNotFound
	}
	cp := *a
	m.articles[a.ID] = &cp
	return nil
}

func (m *mockArticleRepository) Delete(ctx context.Context, id uint) error {
	if _, ok := m.articles[id]; !ok {
		return ErrArticleNotFound
	}
	delete(m.articles, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockArticleRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Article, error) {
	for _, a := range m.articles {
		if a.PublicID == publicID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrArticleNotFound
}

func (m *mockArticleRepository) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Article, error) {
	var out []*entity.Article
	for _, id := range ids {
		if a, ok := m.articles[id]; ok {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockArticleRepository) List(ctx context.Context, f ListFilter) ([]*entity.Article, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *mockArticleRepository) ListBookmarkedBy(ctx context.Context, userID uint, offset, limit int) ([]*entity.Article, int64, error) {
	if m.ListBookmarked != nil {
		return m.ListBookmarked(ctx, userID, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockArticleRepository) ReplaceCategories(ctx context.Context, articleID uint, categoryIDs []uint) error {
	m.links[articleID] = categoryIDs
	return nil
}

// mockCategoryRepository is a mock implementation of CategoryRepository.
type mockCategoryRepository struct {
	categories []entity.Category
	CreateFunc func(ctx context.Context, c *entity.Category) error
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	c.ID = uint(len(m.categories) + 1)
	m.categories = append(m.categories, *c)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(m.categories))
	for i := range m.categories {
		out = append(out, &m.categories[i])
	}
	return out, nil
}

func (m *mockCategoryRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Category, error) {
	for i := range m.categories {
		if m.categories[i].PublicID == publicID {
			return &m.categories[i], nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (m *mockCategoryRepository) FindByPublicIDs(ctx context.Context, publicIDs []uuid.UUID) ([]entity.Category, error) {
	var out []entity.Category
	for _, c := range m.categories {
		if slices.Contains(publicIDs, c.PublicID) {
			out = append(out, c)
		}
	}
	return out, nil
}

// recordingTx runs fn directly and records whether it failed.
type recordingTx struct {
	calls      int
	rolledBack int
}

func (r *recordingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	err := fn(ctx)
	if err != nil {
		r.rolledBack++
	}
	return err
}
