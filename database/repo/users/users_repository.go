package users

import (
	"context"
	"strings"

	"github.com/shareplaces/backend/database/models"
	"gorm.io/gorm"
)

// Repository 用户数据仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建用户仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID 按 ID 查询用户，预加载其地点列表
func (r *Repository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Places").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 按邮箱查询用户，邮箱统一小写存储
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Places").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create 插入新用户
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return r.db.WithContext(ctx).Create(user).Error
}

// Update 更新用户字段
func (r *Repository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePassword 更新密码哈希
func (r *Repository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	return r.Update(ctx, id, map[string]interface{}{"password": hashedPassword})
}

// ListImageKeys 查询全部用户引用的头像键
func (r *Repository) ListImageKeys(ctx context.Context) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("image <> ''").
		Pluck("image", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// ListAll 查询全部用户，预加载地点列表
func (r *Repository) ListAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Preload("Places").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
