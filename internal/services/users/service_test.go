package users

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shareplaces/backend/database/models"
	usersrepo "github.com/shareplaces/backend/database/repo/users"
	"github.com/shareplaces/backend/internal/apperr"
	"github.com/shareplaces/backend/internal/auth"
	"github.com/shareplaces/backend/internal/janitor"
	"github.com/shareplaces/backend/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeMailer 记录发出的邮件
type fakeMailer struct {
	to      string
	subject string
	body    string
	err     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.to = to
	f.subject = subject
	f.body = htmlBody
	return nil
}

type testEnv struct {
	db      *gorm.DB
	svc     *Service
	jwt     *auth.JWTService
	store   *storage.LocalStorage
	mailer  *fakeMailer
	tempDir string
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

	jwtService, err := auth.NewJWTService("test-secret", time.Hour, 5*time.Minute)
	require.NoError(t, err)

	tempDir := t.TempDir()
	mailer := &fakeMailer{}

	svc := NewService(
		usersrepo.NewRepository(db),
		jwtService,
		store,
		janitor.New(tempDir),
		mailer,
		5*time.Second,
	)

	return &testEnv{db: db, svc: svc, jwt: jwtService, store: store, mailer: mailer, tempDir: tempDir}
}

func (e *testEnv) tempUpload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(e.tempDir, "upload-test")
	require.NoError(t, os.WriteFile(path, []byte("avatar bytes"), 0644))
	return path
}

func (e *testEnv) register(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := e.svc.Register(context.Background(), RegisterInput{
		Username:       "tester",
		Email:          email,
		Contact:        "0123456789",
		Password:       "password123",
		ImagePath:      e.tempUpload(t),
		ImageExtension: "png",
	})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	env := setupTestEnv(t)
	upload := env.tempUpload(t)

	user, err := env.svc.Register(context.Background(), RegisterInput{
		Username:       "tester",
		Email:          "User@Example.com",
		Contact:        "0123456789",
		Password:       "password123",
		ImagePath:      upload,
		ImageExtension: "png",
	})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "user@example.com", user.Email)
	assert.NotEqual(t, "password123", user.Password)
	assert.NoFileExists(t, upload)

	keys, err := env.store.ListKeys(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, user.Image, keys[0])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "user@example.com")

	_, err := env.svc.Register(context.Background(), RegisterInput{
		Username:       "second",
		Email:          "user@example.com",
		Contact:        "0123456789",
		Password:       "password123",
		ImagePath:      env.tempUpload(t),
		ImageExtension: "png",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Email already registered", apperr.MessageOf(err))
}

// failingSaveStore 写入操作始终失败的存储包装
type failingSaveStore struct {
	storage.Provider
}

func (failingSaveStore) SaveWithContext(ctx context.Context, key string, file io.Reader) error {
	return errors.New("backend unavailable")
}

func TestRegisterStoreFailureLeavesNoTrace(t *testing.T) {
	env := setupTestEnv(t)
	upload := env.tempUpload(t)

	broken := NewService(
		usersrepo.NewRepository(env.db),
		env.jwt,
		failingSaveStore{Provider: env.store},
		janitor.New(env.tempDir),
		env.mailer,
		5*time.Second,
	)

	_, err := broken.Register(context.Background(), RegisterInput{
		Username:       "tester",
		Email:          "user@example.com",
		Contact:        "0123456789",
		Password:       "password123",
		ImagePath:      upload,
		ImageExtension: "png",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Equal(t, "Failed to store image", apperr.MessageOf(err))

	// 存储失败时未写库，临时文件已清理
	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
	keys, err := env.store.ListKeys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.NoFileExists(t, upload)
}

func TestLogin(t *testing.T) {
	env := setupTestEnv(t)
	registered := env.register(t, "user@example.com")

	result, err := env.svc.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)

	assert.Equal(t, registered.ID, result.UserData.ID)
	assert.NotEmpty(t, result.AccessToken)

	claims, err := env.jwt.ParseAccessToken(result.AccessToken)
	require.NoError(t, err)
	userID, err := auth.UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.svc.Login(context.Background(), "ghost@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	assert.Equal(t, "Invalid email/password", apperr.MessageOf(err))
}

func TestLoginWrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "user@example.com")

	_, err := env.svc.Login(context.Background(), "user@example.com", "not-the-password")
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, "Invalid email/password", apperr.MessageOf(err))
}

func TestUpdateReplacesAvatar(t *testing.T) {
	env := setupTestEnv(t)
	user := env.register(t, "user@example.com")
	oldKey := user.Image

	replacement := env.tempUpload(t)
	updated, err := env.svc.Update(context.Background(), user.ID, UpdateInput{
		Username:       "renamed",
		Contact:        "9876543210",
		ImagePath:      replacement,
		ImageExtension: "png",
	})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Username)
	assert.Equal(t, "9876543210", updated.Contact)
	assert.NotEqual(t, oldKey, updated.Image)
	assert.NoFileExists(t, replacement)

	keys, err := env.store.ListKeys(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, updated.Image, keys[0])
}

func TestUpdateMissingUser(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.svc.Update(context.Background(), 999, UpdateInput{
		Username: "ghost",
		Contact:  "0123456789",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	assert.Equal(t, "User does not exist", apperr.MessageOf(err))
}

func TestForgotPassword(t *testing.T) {
	env := setupTestEnv(t)
	user := env.register(t, "user@example.com")

	result, err := env.svc.ForgotPassword(context.Background(), "user@example.com")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.OTP, 0)
	assert.Less(t, result.OTP, 1000000)
	assert.NotEmpty(t, result.Token)

	assert.Equal(t, "user@example.com", env.mailer.to)
	assert.Equal(t, "OTP for password reset", env.mailer.subject)
	assert.Contains(t, env.mailer.body, "<b>")

	// 令牌绑定当前密码哈希
	claims, err := env.jwt.ParseResetToken(result.Token, user.Password)
	require.NoError(t, err)
	userID, err := auth.UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.svc.ForgotPassword(context.Background(), "ghost@example.com")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Email not registered", apperr.MessageOf(err))
}

func TestResetPasswordInvalidatesOldToken(t *testing.T) {
	env := setupTestEnv(t)
	user := env.register(t, "user@example.com")

	result, err := env.svc.ForgotPassword(context.Background(), "user@example.com")
	require.NoError(t, err)

	require.NoError(t, env.svc.ResetPassword(context.Background(), user.ID, "new-password-123"))

	// 新密码可登录，旧密码失效
	_, err = env.svc.Login(context.Background(), "user@example.com", "new-password-123")
	require.NoError(t, err)
	_, err = env.svc.Login(context.Background(), "user@example.com", "password123")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// 密码哈希已变化，旧重置令牌无法再通过校验
	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, user.ID).Error)
	_, err = env.jwt.ParseResetToken(result.Token, reloaded.Password)
	assert.Error(t, err)
}

func TestResetPasswordMissingUser(t *testing.T) {
	env := setupTestEnv(t)

	err := env.svc.ResetPassword(context.Background(), 999, "new-password-123")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Could not find user", apperr.MessageOf(err))
}

func TestGetAll(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.svc.GetAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, "No users found", apperr.MessageOf(err))

	env.register(t, "a@example.com")
	env.register(t, "b@example.com")

	users, err := env.svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
