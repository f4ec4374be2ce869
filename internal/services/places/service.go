package places

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shareplaces/backend/database/models"
	placesrepo "github.com/shareplaces/backend/database/repo/places"
	usersrepo "github.com/shareplaces/backend/database/repo/users"
	"github.com/shareplaces/backend/internal/apperr"
	"github.com/shareplaces/backend/internal/geocode"
	"github.com/shareplaces/backend/internal/janitor"
	"github.com/shareplaces/backend/storage"
	"gorm.io/gorm"
)

// Service 编排地点的 上传-编码-持久化 管线。
// 每个请求按固定顺序执行外部调用和数据库事务，保证不产生半挂接记录；
// 已知的孤儿 blob 窗口（持久化前失败）由后台扫描器补偿。
type Service struct {
	placesRepo     *placesrepo.Repository
	usersRepo      *usersrepo.Repository
	geocoder       geocode.Resolver
	store          storage.Provider
	jan            *janitor.Janitor
	storageTimeout time.Duration
}

// NewService 创建地点服务
func NewService(
	placesRepo *placesrepo.Repository,
	usersRepo *usersrepo.Repository,
	geocoder geocode.Resolver,
	store storage.Provider,
	jan *janitor.Janitor,
	storageTimeout time.Duration,
) *Service {
	if storageTimeout <= 0 {
		storageTimeout = 30 * time.Second
	}
	return &Service{
		placesRepo:     placesRepo,
		usersRepo:      usersRepo,
		geocoder:       geocoder,
		store:          store,
		jan:            jan,
		storageTimeout: storageTimeout,
	}
}

// CreateInput 创建地点的输入
type CreateInput struct {
	Title       string
	Description string
	Address     string
	OwnerID     uint

	// 上传中间件暂存的本地文件
	ImagePath      string
	ImageExtension string
}

// UpdateInput 更新地点的输入
type UpdateInput struct {
	Title       string
	Description string
	Address     string

	// 为空表示本次未上传新图片
	ImagePath      string
	ImageExtension string
}

// Create 创建地点。
// 顺序：地理编码 → 上传 blob → 删除临时文件 → 加载归属用户 → 事务写库。
// 地理编码失败时未上传任何内容，只清理临时文件；
// 写库阶段失败时不回删已上传的 blob，交由孤儿扫描器处理。
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Place, error) {
	result, err := s.geocoder.Resolve(ctx, in.Address)
	if err != nil {
		s.jan.Release(in.ImagePath)
		return nil, err
	}

	key, err := s.uploadBlob(ctx, in.ImagePath, in.ImageExtension)
	if err != nil {
		s.jan.Release(in.ImagePath)
		return nil, err
	}

	// 上传成功后临时文件即无用，无论后续成败
	s.jan.Release(in.ImagePath)

	if _, err := s.usersRepo.GetByID(ctx, in.OwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.BadRequest("User does not exist")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}

	place := &models.Place{
		Title:       in.Title,
		Description: in.Description,
		Address:     result.FormattedAddress,
		Lat:         result.Lat,
		Lng:         result.Lng,
		Image:       key,
		UserID:      in.OwnerID,
	}

	if err := s.placesRepo.CreateForOwner(ctx, place); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.BadRequest("User does not exist")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}

	return place, nil
}

// Update 更新地点，仅限归属用户。
// 新图片先上传再尽力删除旧 blob，两个 blob 同时存活的窗口可接受；
// 地址无论是否变化都重新编码。单行更新，无需多行事务。
func (s *Service) Update(ctx context.Context, placeID, requesterID uint, in UpdateInput) (*models.Place, error) {
	place, err := s.loadPlace(ctx, placeID, "Could not find place")
	if err != nil {
		s.releaseIfPresent(in.ImagePath)
		return nil, err
	}
	if place.UserID != requesterID {
		s.releaseIfPresent(in.ImagePath)
		return nil, apperr.Auth("You're not authorized to update this resource")
	}

	imageKey := place.Image
	if in.ImagePath != "" {
		newKey, err := s.uploadBlob(ctx, in.ImagePath, in.ImageExtension)
		if err != nil {
			s.jan.Release(in.ImagePath)
			return nil, err
		}
		s.jan.Release(in.ImagePath)

		s.deleteBlobBestEffort(ctx, place.Image)
		imageKey = newKey
	}

	result, err := s.geocoder.Resolve(ctx, in.Address)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"title":       in.Title,
		"description": in.Description,
		"address":     result.FormattedAddress,
		"lat":         result.Lat,
		"lng":         result.Lng,
		"image":       imageKey,
	}
	if err := s.placesRepo.Update(ctx, placeID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Could not find place")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}

	return s.loadPlace(ctx, placeID, "Could not find place")
}

// Delete 删除地点，仅限归属用户。
// 先删 blob 再删记录：blob 删除失败时保留记录，保证后续仍可重试清理。
func (s *Service) Delete(ctx context.Context, placeID, requesterID uint) error {
	place, err := s.loadPlace(ctx, placeID, "No place found")
	if err != nil {
		return err
	}
	if place.UserID != requesterID {
		return apperr.Auth("You're not authorized to delete this resource")
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	if err := s.store.DeleteWithContext(storeCtx, place.Image); err != nil {
		// 已经不存在的 blob 不阻塞删除
		if !errors.Is(err, storage.ErrNotFound) {
			return apperr.Upstream("Failed to delete place image", err)
		}
	}

	if err := s.placesRepo.DeleteWithLikes(ctx, place); err != nil {
		return apperr.Internal("Something went wrong", err)
	}

	return nil
}

// ToggleLike 切换请求用户对地点的点赞，返回最新状态
func (s *Service) ToggleLike(ctx context.Context, placeID, userID uint) (bool, error) {
	if _, err := s.loadPlace(ctx, placeID, "Place not found"); err != nil {
		return false, err
	}

	liked, err := s.placesRepo.ToggleLike(ctx, placeID, userID)
	if err != nil {
		return false, apperr.Internal("Something went wrong", err)
	}
	return liked, nil
}

// GetAll 查询全部地点
func (s *Service) GetAll(ctx context.Context) ([]models.Place, error) {
	places, err := s.placesRepo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}
	return places, nil
}

// GetByID 按 ID 查询地点
func (s *Service) GetByID(ctx context.Context, placeID uint) (*models.Place, error) {
	return s.loadPlace(ctx, placeID, "No place found")
}

// GetByUser 查询指定用户的地点
func (s *Service) GetByUser(ctx context.Context, userID uint) ([]models.Place, error) {
	places, err := s.placesRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}
	if len(places) == 0 {
		return nil, apperr.NotFound("No places found for user")
	}
	return places, nil
}

func (s *Service) loadPlace(ctx context.Context, placeID uint, notFoundMsg string) (*models.Place, error) {
	place, err := s.placesRepo.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(notFoundMsg)
		}
		return nil, apperr.Internal("Something went wrong", err)
	}
	return place, nil
}

// uploadBlob 将临时文件上传到对象存储，返回生成的 blob key
func (s *Service) uploadBlob(ctx context.Context, localPath, extension string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", apperr.Internal("Failed to read uploaded file", err)
	}
	defer file.Close()

	key := uuid.NewString()
	if extension != "" {
		key = fmt.Sprintf("%s.%s", key, extension)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	if err := s.store.SaveWithContext(storeCtx, key, file); err != nil {
		return "", apperr.Upstream("Failed to store image", err)
	}

	return key, nil
}

// deleteBlobBestEffort 尽力删除旧 blob，失败只记录日志
func (s *Service) deleteBlobBestEffort(ctx context.Context, key string) {
	if key == "" {
		return
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	if err := s.store.DeleteWithContext(storeCtx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("Failed to delete replaced blob %s: %v", key, err)
	}
}

func (s *Service) releaseIfPresent(path string) {
	if path != "" {
		s.jan.Release(path)
	}
}
