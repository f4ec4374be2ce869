package places

import (
	"context"

	"github.com/shareplaces/backend/database/models"
	"gorm.io/gorm"
)

// Repository 地点数据仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建地点仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID 按 ID 查询地点，预加载点赞用户
func (r *Repository) GetByID(ctx context.Context, id uint) (*models.Place, error) {
	var place models.Place
	err := r.db.WithContext(ctx).Preload("LikedUsers").First(&place, id).Error
	if err != nil {
		return nil, err
	}
	return &place, nil
}

// ListAll 查询全部地点
func (r *Repository) ListAll(ctx context.Context) ([]models.Place, error) {
	var places []models.Place
	err := r.db.WithContext(ctx).Preload("LikedUsers").Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

// ListByUser 查询指定用户的地点
func (r *Repository) ListByUser(ctx context.Context, userID uint) ([]models.Place, error) {
	var places []models.Place
	err := r.db.WithContext(ctx).Preload("LikedUsers").Where("user_id = ?", userID).Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

// ListImageKeys 查询全部地点引用的图片键
func (r *Repository) ListImageKeys(ctx context.Context) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&models.Place{}).
		Where("image <> ''").
		Pluck("image", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// CreateForOwner 在单个事务中插入地点并校验归属用户仍然存在，
// 并发读取方不会观察到半挂接的地点记录。
func (r *Repository) CreateForOwner(ctx context.Context, place *models.Place) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.User
		if err := tx.Select("id").First(&owner, place.UserID).Error; err != nil {
			return err
		}
		return tx.Create(place).Error
	})
}

// Update 更新地点字段
func (r *Repository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Place{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteWithLikes 在单个事务中删除地点及其点赞关联，
// 归属用户的 places 列表通过外键同一事务内收回。
func (r *Repository) DeleteWithLikes(ctx context.Context, place *models.Place) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(place).Association("LikedUsers").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Place{}, place.ID).Error
	})
}

// ToggleLike 原子地切换用户对地点的点赞，返回切换后是否点赞
func (r *Repository) ToggleLike(ctx context.Context, placeID, userID uint) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("place_likes").
			Where("place_id = ? AND user_id = ?", placeID, userID).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return tx.Exec("DELETE FROM place_likes WHERE place_id = ? AND user_id = ?", placeID, userID).Error
		}

		liked = true
		return tx.Table("place_likes").Create(map[string]interface{}{
			"place_id": placeID,
			"user_id":  userID,
		}).Error
	})
	return liked, err
}
