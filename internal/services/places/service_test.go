package places

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shareplaces/backend/database/models"
	placesrepo "github.com/shareplaces/backend/database/repo/places"
	usersrepo "github.com/shareplaces/backend/database/repo/users"
	"github.com/shareplaces/backend/internal/apperr"
	"github.com/shareplaces/backend/internal/geocode"
	"github.com/shareplaces/backend/internal/janitor"
	"github.com/shareplaces/backend/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeResolver 返回固定结果或固定错误
type fakeResolver struct {
	result *geocode.Result
	err    error
	calls  int
}

func (f *fakeResolver) Resolve(ctx context.Context, address string) (*geocode.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type testEnv struct {
	db       *gorm.DB
	svc      *Service
	store    *storage.LocalStorage
	resolver *fakeResolver
	tempDir  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Place{}))

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	tempDir := t.TempDir()
	resolver := &fakeResolver{result: &geocode.Result{
		FormattedAddress: "Pariser Platz, 10117 Berlin, Germany",
		Lat:              52.5162746,
		Lng:              13.3777041,
	}}

	svc := NewService(
		placesrepo.NewRepository(db),
		usersrepo.NewRepository(db),
		resolver,
		store,
		janitor.New(tempDir),
		5*time.Second,
	)

	return &testEnv{db: db, svc: svc, store: store, resolver: resolver, tempDir: tempDir}
}

func (e *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username: "tester",
		Email:    email,
		Contact:  "0123456789",
		Password: "hashed",
		Image:    "avatar.png",
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) tempUpload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(e.tempDir, "upload-test")
	require.NoError(t, os.WriteFile(path, []byte("image bytes"), 0644))
	return path
}

func (e *testEnv) storedKeys(t *testing.T) []string {
	t.Helper()
	keys, err := e.store.ListKeys(context.Background())
	require.NoError(t, err)
	return keys
}

func TestCreatePlace(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	upload := env.tempUpload(t)

	place, err := env.svc.Create(context.Background(), CreateInput{
		Title:          "Brandenburg Gate",
		Description:    "Iconic landmark in Berlin",
		Address:        "Brandenburg Gate",
		OwnerID:        owner.ID,
		ImagePath:      upload,
		ImageExtension: "png",
	})
	require.NoError(t, err)

	assert.NotZero(t, place.ID)
	assert.Equal(t, "Pariser Platz, 10117 Berlin, Germany", place.Address)
	assert.InDelta(t, 52.5162746, place.Lat, 1e-9)

	// 临时文件已清理，blob 已入库
	assert.NoFileExists(t, upload)
	keys := env.storedKeys(t)
	require.Len(t, keys, 1)
	assert.Equal(t, place.Image, keys[0])
}

func TestCreatePlaceGeocodeFailureLeavesNoTrace(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	upload := env.tempUpload(t)

	env.resolver.err = apperr.NotFound("No coordinates found for address")

	_, err := env.svc.Create(context.Background(), CreateInput{
		Title:          "Nowhere",
		Description:    "A place that cannot be located",
		Address:        "xyzzy",
		OwnerID:        owner.ID,
		ImagePath:      upload,
		ImageExtension: "png",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "No coordinates found for address", apperr.MessageOf(err))

	// 未上传任何 blob，未写库，临时文件已清理
	assert.Empty(t, env.storedKeys(t))
	var count int64
	require.NoError(t, env.db.Model(&models.Place{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.NoFileExists(t, upload)
}

func TestCreatePlaceMissingOwner(t *testing.T) {
	env := setupTestEnv(t)
	upload := env.tempUpload(t)

	_, err := env.svc.Create(context.Background(), CreateInput{
		Title:          "Brandenburg Gate",
		Description:    "Iconic landmark in Berlin",
		Address:        "Brandenburg Gate",
		OwnerID:        999,
		ImagePath:      upload,
		ImageExtension: "png",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.Equal(t, "User does not exist", apperr.MessageOf(err))

	// 记录不存在，但 blob 已上传，留给孤儿扫描器
	var count int64
	require.NoError(t, env.db.Model(&models.Place{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Len(t, env.storedKeys(t), 1)
}

func TestUpdatePlaceByNonOwner(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	intruder := env.createUser(t, "intruder@example.com")
	upload := env.tempUpload(t)

	place, err := env.svc.Create(context.Background(), CreateInput{
		Title:          "Brandenburg Gate",
		Description:    "Iconic landmark in Berlin",
		Address:        "Brandenburg Gate",
		OwnerID:        owner.ID,
		ImagePath:      upload,
		ImageExtension: "png",
	})
	require.NoError(t, err)

	_, err = env.svc.Update(context.Background(), place.ID, intruder.ID, UpdateInput{
		Title:       "Hijacked",
		Description: "Should never be written",
		Address:     "Elsewhere",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	assert.Equal(t, "You're not authorized to update this resource", apperr.MessageOf(err))

	loaded, err := env.svc.GetByID(context.Background(), place.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brandenburg Gate", loaded.Title)
}

func TestUpdatePlaceReplacesImage(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner@example.com")

	place, err := env.svc.Create(context.Background(), CreateInput{
		Title:          "Brandenburg Gate",
		Description:    "Iconic landmark in Berlin",
		Address:        "Brandenburg Gate",
		OwnerID:        owner.ID,
		ImagePath:      env.tempUpload(t),
		ImageExtension: "png",
	})
	require.NoError(t, err)
	oldKey := place.Image

	replacement := env.tempUpload(t)
	updated, err := env.svc.Update(context.Background(), place.ID, owner.ID, UpdateInput{
		Title:          "Brandenburg Gate",
		Description:    "Iconic landmark in Berlin",
		Address:        "Brandenburg Gate",
		ImagePath:      replacement,
		ImageExtension: "png",
	})
	require.NoError(t, err)

	assert.NotEqual(t, oldKey, updated.Image)
	assert.NoFileExists(t, replacement)

	// 旧 blob 已删除，只剩新的
	keys := env.storedKeys(t)
	require.Len(t, keys, 1)
	assert.Equal(t, updated.Image, keys[0])
}

func TestDeletePlace(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner@example.com")

	place, err := env.svc.Create(context.Background(), CreateInput{
		Title:          "Brandenburg Gate",
		Description:    "Iconic landmark in Berlin",
		Address:        "Brandenburg Gate",
		OwnerID:        owner.ID,
		ImagePath:      env.tempUpload(t),
		ImageExtension: "png",
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(context.Background(), place.ID, owner.ID))

	_, err = env.svc.GetByID(context.Background(), place.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "No place found", apperr.MessageOf(err))
	assert.Empty(t, env.storedKeys(t))
}

func TestDeletePlaceByNonOwner(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	intruder := env.createUser(t, "intruder@example.com")

	place, err := env.svc.Create(context.Background(), CreateInput{
		Title:          "Brandenburg Gate",
		Description:    "Iconic landmark in Berlin",
		Address:        "Brandenburg Gate",
		OwnerID:        owner.ID,
		ImagePath:      env.tempUpload(t),
		ImageExtension: "png",
	})
	require.NoError(t, err)

	err = env.svc.Delete(context.Background(), place.ID, intruder.ID)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	assert.Equal(t, "You're not authorized to delete this resource", apperr.MessageOf(err))
}

// failingSaveStore 写入操作始终失败的存储包装
type failingSaveStore struct {
	storage.Provider
}

func (failingSaveStore) SaveWithContext(ctx context.Context, key string, file io.Reader) error {
	return errors.New("backend unavailable")
}

func TestCreatePlaceStoreFailureLeavesNoTrace(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	upload := env.tempUpload(t)

	broken := NewService(
		placesrepo.NewRepository(env.db),
		usersrepo.NewRepository(env.db),
		env.resolver,
		failingSaveStore{Provider: env.store},
		janitor.New(env.tempDir),
		5*time.Second,
	)

	_, err := broken.Create(context.Background(), CreateInput{
		Title:          "Brandenburg Gate",
		Description:    "Iconic landmark in Berlin",
		Address:        "Brandenburg Gate",
		OwnerID:        owner.ID,
		ImagePath:      upload,
		ImageExtension: "png",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Equal(t, "Failed to store image", apperr.MessageOf(err))

	// 存储失败时未写库，临时文件已清理
	var count int64
	require.NoError(t, env.db.Model(&models.Place{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, env.storedKeys(t))
	assert.NoFileExists(t, upload)
}

// failingDeleteStore 删除操作始终失败的存储包装
type failingDeleteStore struct {
	storage.Provider
}

func (failingDeleteStore) DeleteWithContext(ctx context.Context, key string) error {
	return errors.New("backend unavailable")
}

func TestDeletePlaceBlobFailureKeepsRow(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner@example.com")

	place, err := env.svc.Create(context.Background(), CreateInput{
		Title:          "Brandenburg Gate",
		Description:    "Iconic landmark in Berlin",
		Address:        "Brandenburg Gate",
		OwnerID:        owner.ID,
		ImagePath:      env.tempUpload(t),
		ImageExtension: "png",
	})
	require.NoError(t, err)

	broken := NewService(
		placesrepo.NewRepository(env.db),
		usersrepo.NewRepository(env.db),
		env.resolver,
		failingDeleteStore{Provider: env.store},
		janitor.New(env.tempDir),
		5*time.Second,
	)

	err = broken.Delete(context.Background(), place.ID, owner.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Equal(t, "Failed to delete place image", apperr.MessageOf(err))

	// blob 删除失败时记录保留，后续可重试
	loaded, err := env.svc.GetByID(context.Background(), place.ID)
	require.NoError(t, err)
	assert.Equal(t, place.Image, loaded.Image)
}

func TestDeletePlaceToleratesMissingBlob(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner@example.com")

	place, err := env.svc.Create(context.Background(), CreateInput{
		Title:          "Brandenburg Gate",
		Description:    "Iconic landmark in Berlin",
		Address:        "Brandenburg Gate",
		OwnerID:        owner.ID,
		ImagePath:      env.tempUpload(t),
		ImageExtension: "png",
	})
	require.NoError(t, err)

	// blob 已被外部清理
	require.NoError(t, env.store.DeleteWithContext(context.Background(), place.Image))

	require.NoError(t, env.svc.Delete(context.Background(), place.ID, owner.ID))
}

func TestToggleLike(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	fan := env.createUser(t, "fan@example.com")

	place, err := env.svc.Create(context.Background(), CreateInput{
		Title:          "Brandenburg Gate",
		Description:    "Iconic landmark in Berlin",
		Address:        "Brandenburg Gate",
		OwnerID:        owner.ID,
		ImagePath:      env.tempUpload(t),
		ImageExtension: "png",
	})
	require.NoError(t, err)

	liked, err := env.svc.ToggleLike(context.Background(), place.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = env.svc.ToggleLike(context.Background(), place.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = env.svc.ToggleLike(context.Background(), 999, fan.ID)
	assert.Equal(t, "Place not found", apperr.MessageOf(err))
}

func TestGetByUser(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	loner := env.createUser(t, "loner@example.com")

	_, err := env.svc.Create(context.Background(), CreateInput{
		Title:          "Brandenburg Gate",
		Description:    "Iconic landmark in Berlin",
		Address:        "Brandenburg Gate",
		OwnerID:        owner.ID,
		ImagePath:      env.tempUpload(t),
		ImageExtension: "png",
	})
	require.NoError(t, err)

	places, err := env.svc.GetByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Len(t, places, 1)

	_, err = env.svc.GetByUser(context.Background(), loner.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "No places found for user", apperr.MessageOf(err))
}
