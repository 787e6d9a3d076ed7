package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blog_backend/internal/feature/auth/domain/entity"
	"blog_backend/internal/feature/auth/usecase"
	"blog_backend/internal/platform/db"
)

// rolePostgres はRoleRepositoryのPostgreSQL実装です。
type rolePostgres struct {
	db *gorm.DB
}

var _ usecase.RoleRepository = (*rolePostgres)(nil)

// NewRolePostgres はrolePostgresの新しいインスタンスを生成します。
func NewRolePostgres(gdb *gorm.DB) *rolePostgres {
	return &rolePostgres{db: gdb}
}

// FindByName は名前でロールを取得します。
func (r *rolePostgres) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	var m RoleModel
	if err := db.Conn(ctx, r.db).Where("name = ?", name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrRoleNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// List は全ロールを名前順に返します。
func (r *rolePostgres) List(ctx context.Context) ([]*entity.Role, error) {
	var models []RoleModel
	if err := db.Conn(ctx, r.db).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	roles := make([]*entity.Role, len(models))
	for i := range models {
		roles[i] = models[i].ToEntity()
	}
	return roles, nil
}

// Assign はロールの割り当てを追加します。
// (user_id, role_id) の一意制約に違反した場合、usecase.ErrRoleAlreadyAssignedを返します。
func (r *rolePostgres) Assign(ctx context.Context, userID, roleID uint) error {
	err := db.Conn(ctx, r.db).Create(&UserRoleModel{UserID: userID, RoleID: roleID}).Error
	if db.IsUniqueViolation(err) {
		return usecase.ErrRoleAlreadyAssigned
	}
	return err
}

// NamesByUserID はユーザーが持つロール名を名前順に返します。
func (r *rolePostgres) NamesByUserID(ctx context.Context, userID uint) ([]string, error) {
	var names []string
	err := db.Conn(ctx, r.db).
		Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Pluck("roles.name", &names).Error
	return names, err
}

// EnsureDefaultRoles はUSERとADMINのロールが存在することを保証します。
// マイグレーションでも投入されますが、起動時にも冪等に確認します。
func EnsureDefaultRoles(ctx context.Context, gdb *gorm.DB) error {
	for _, name := range []string{entity.RoleUser, entity.RoleAdmin} {
		m := RoleModel{}
		err := gdb.WithContext(ctx).
			Where(RoleModel{Name: name}).
			Attrs(RoleModel{PublicID: uuid.New()}).
			FirstOrCreate(&m).Error
		if err != nil {
			return err
		}
	}
	return nil
}
