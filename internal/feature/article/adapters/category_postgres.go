package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blog_backend/internal/feature/article/domain/entity"
	"blog_backend/internal/feature/article/usecase"
	"blog_backend/internal/platform/db"
)

type categoryPostgres struct {
	db *gorm.DB
}

var _ usecase.CategoryRepository = (*categoryPostgres)(nil)

// NewCategoryPostgres はcategoryPostgresの新しいインスタンスを生成します。
func NewCategoryPostgres(gdb *gorm.DB) *categoryPostgres {
	return &categoryPostgres{db: gdb}
}

// Create は同名のカテゴリが存在する場合、usecase.ErrCategoryExistsを返します。
func (r *categoryPostgres) Create(ctx context.Context, c *entity.Category) error {
	m := &CategoryModel{PublicID: c.PublicID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.CreatedAt}
	if err := db.Conn(ctx, r.db).Create(m).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrCategoryExists
		}
		return err
	}
	c.ID = m.ID
	return nil
}

func (r *categoryPostgres) List(ctx context.Context) ([]*entity.Category, error) {
	var models []CategoryModel
	if err := db.Conn(ctx, r.db).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Category, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}

func (r *categoryPostgres) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Category, error) {
	var m CategoryModel
	if err := db.Conn(ctx, r.db).Where("public_id = ?", publicID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCategoryNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

func (r *categoryPostgres) FindByPublicIDs(ctx context.Context, publicIDs []uuid.UUID) ([]entity.Category, error) {
	if len(publicIDs) == 0 {
		return nil, nil
	}
	var models []CategoryModel
	if err := db.Conn(ctx, r.db).Where("public_id IN ?", publicIDs).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Category, 0, len(models))
	for i := range models {
		out = append(out, *models[i].ToEntity())
	}
	return out, nil
}
