package usecase

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"blog_backend/internal/feature/comment/domain/entity"
)

// memoryComments keeps comments in a map so the tree behaviour can be checked end to end.
type memoryComments struct {
	rows    map[uint]*entity.Comment
	deleted map[uint]bool
	nextID  uint
}

func newMemoryComments() *memoryComments {
	return &memoryComments{rows: map[uint]*entity.Comment{}, deleted: map[uint]bool{}}
}

func (m *memoryComments) Create(ctx context.Context, c *entity.Comment) error {
	m.nextID++
	c.ID = m.nextID
	cp := *c
	m.rows[c.ID] = &cp
	return nil
}

func (m *memoryComments) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Comment, error) {
	for id, c := range m.rows {
		if c.PublicID == publicID && !m.deleted[id] {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrCommentNotFound
}

func (m *memoryComments) ListByArticle(ctx context.Context, articleID uint) ([]*entity.Comment, error) {
	var out []*entity.Comment
	for id, c := range m.rows {
		if c.ArticleID == articleID && !m.deleted[id] {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memoryComments) Delete(ctx context.Context, id uint) error {
	if _, ok := m.rows[id]; !ok || m.deleted[id] {
		return ErrCommentNotFound
	}
	m.deleted[id] = true
	for rid, c := range m.rows {
		if c.ParentID != nil && *c.ParentID == id {
			m.deleted[rid] = true
		}
	}
	return nil
}

// articleMap resolves public ids to internal ids.
type articleMap map[uuid.UUID]uint

func (a articleMap) ArticleID(ctx context.Context, publicID uuid.UUID) (uint, error) {
	if id, ok := a[publicID]; ok {
		return id, nil
	}
	return 0, ErrArticleNotFound
}

// recordingTx runs fn directly and counts rollbacks.
type recordingTx struct {
	calls      int
	rolledBack int
}

func (r *recordingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	if err := fn(ctx); err != nil {
		r.rolledBack++
		return err
	}
	return nil
}
