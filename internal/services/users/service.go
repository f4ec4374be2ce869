package users

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shareplaces/backend/database/models"
	usersrepo "github.com/shareplaces/backend/database/repo/users"
	"github.com/shareplaces/backend/internal/apperr"
	"github.com/shareplaces/backend/internal/auth"
	"github.com/shareplaces/backend/internal/janitor"
	"github.com/shareplaces/backend/internal/mail"
	"github.com/shareplaces/backend/storage"
	"github.com/shareplaces/backend/utils"
	cryptopackage "github.com/shareplaces/backend/utils/crypto"
	"gorm.io/gorm"
)

// Service 用户注册、登录与密码重置。
// 注册与更新共享地点管线的 上传-持久化 编排形态，只是没有地理编码环节。
type Service struct {
	usersRepo      *usersrepo.Repository
	jwtService     *auth.JWTService
	store          storage.Provider
	jan            *janitor.Janitor
	mailer         mail.Mailer
	storageTimeout time.Duration
}

// NewService 创建用户服务
func NewService(
	usersRepo *usersrepo.Repository,
	jwtService *auth.JWTService,
	store storage.Provider,
	jan *janitor.Janitor,
	mailer mail.Mailer,
	storageTimeout time.Duration,
) *Service {
	if storageTimeout <= 0 {
		storageTimeout = 30 * time.Second
	}
	return &Service{
		usersRepo:      usersRepo,
		jwtService:     jwtService,
		store:          store,
		jan:            jan,
		mailer:         mailer,
		storageTimeout: storageTimeout,
	}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Username string
	Email    string
	Contact  string
	Password string

	ImagePath      string
	ImageExtension string
}

// UpdateInput 更新用户输入
type UpdateInput struct {
	Username string
	Contact  string

	ImagePath      string
	ImageExtension string
}

// LoginResult 登录结果
type LoginResult struct {
	UserData    models.PublicUser `json:"userData"`
	AccessToken string            `json:"accessToken"`
}

// OTPResult 密码重置的一次性凭据
type OTPResult struct {
	OTP   int    `json:"otp"`
	Token string `json:"token"`
}

// Register 注册用户：哈希密码 → 上传头像 → 删除临时文件 → 写库。
// 重复邮箱写库失败时已上传的 blob 成为孤儿，由扫描器补偿。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hashed, err := cryptopackage.GenerateFromPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("Something went wrong. Please try again", err)
	}

	key, err := s.uploadBlob(ctx, in.ImagePath, in.ImageExtension)
	if err != nil {
		s.jan.Release(in.ImagePath)
		return nil, err
	}
	s.jan.Release(in.ImagePath)

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Contact:  in.Contact,
		Password: hashed,
		Image:    key,
	}

	if err := s.usersRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}

	return user, nil
}

// Login 校验凭据并签发 1 小时会话令牌。
// 未注册邮箱返回 401，密码错误返回 403，与既有客户端的约定一致。
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.usersRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Auth("Invalid email/password")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}

	ok, err := cryptopackage.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		return nil, apperr.Internal("Something went wrong. Please try again", err)
	}
	if !ok {
		log.Printf("Failed login attempt for user %s", utils.MaskLogEmail(user.Email))
		return nil, apperr.Forbidden("Invalid email/password")
	}

	tokenPair, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Internal("Could not log you in, Please try again", err)
	}

	return &LoginResult{
		UserData:    user.Public(),
		AccessToken: tokenPair.AccessToken,
	}, nil
}

// Update 更新用户资料，新头像先上传、旧 blob 尽力删除
func (s *Service) Update(ctx context.Context, userID uint, in UpdateInput) (*models.User, error) {
	user, err := s.usersRepo.GetByID(ctx, userID)
	if err != nil {
		s.releaseIfPresent(in.ImagePath)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Auth("User does not exist")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}

	imageKey := user.Image
	if in.ImagePath != "" {
		newKey, err := s.uploadBlob(ctx, in.ImagePath, in.ImageExtension)
		if err != nil {
			s.jan.Release(in.ImagePath)
			return nil, err
		}
		s.jan.Release(in.ImagePath)

		s.deleteBlobBestEffort(ctx, user.Image)
		imageKey = newKey
	}

	fields := map[string]interface{}{
		"username": in.Username,
		"contact":  in.Contact,
		"image":    imageKey,
	}
	if err := s.usersRepo.Update(ctx, userID, fields); err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}

	return s.usersRepo.GetByID(ctx, userID)
}

// ForgotPassword 生成 OTP 并邮件投递，返回盐化的 5 分钟重置令牌
func (s *Service) ForgotPassword(ctx context.Context, email string) (*OTPResult, error) {
	user, err := s.usersRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Email not registered")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}

	token, err := s.jwtService.GenerateResetToken(user.ID, user.Email, user.Password)
	if err != nil {
		return nil, apperr.Internal("Something went wrong. Please try again", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, apperr.Internal("Something went wrong. Please try again", err)
	}

	body := fmt.Sprintf("OTP for resetting your password at SharePlaces is <b>%d</b>", otp)
	if err := s.mailer.Send(ctx, user.Email, "OTP for password reset", body); err != nil {
		return nil, err
	}

	return &OTPResult{OTP: otp, Token: token}, nil
}

// ResetPassword 重置密码，调用方必须已通过重置令牌校验
func (s *Service) ResetPassword(ctx context.Context, userID uint, newPassword string) error {
	hashed, err := cryptopackage.GenerateFromPassword(newPassword)
	if err != nil {
		return apperr.Internal("Something went wrong. Please try again", err)
	}

	if err := s.usersRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Could not find user")
		}
		return apperr.Internal("Something went wrong", err)
	}

	return nil
}

// GetAll 查询全部用户
func (s *Service) GetAll(ctx context.Context) ([]models.User, error) {
	users, err := s.usersRepo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}
	if len(users) == 0 {
		return nil, apperr.NotFound("No users found")
	}
	return users, nil
}

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

func generateOTP() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
