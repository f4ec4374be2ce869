package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair 访问令牌及其过期时间
type TokenPair struct {
	AccessToken       string
	AccessTokenExpiry time.Time
}

// JWTService 签发和校验 JWT
type JWTService struct {
	secret         []byte
	expiresIn      time.Duration
	resetExpiresIn time.Duration
}

// NewJWTService 创建 JWT 服务
func NewJWTService(secret string, expiresIn, resetExpiresIn time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("JWT secret must not be empty")
	}
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	if resetExpiresIn <= 0 {
		resetExpiresIn = 5 * time.Minute
	}

	return &JWTService{
		secret:         []byte(secret),
		expiresIn:      expiresIn,
		resetExpiresIn: resetExpiresIn,
	}, nil
}

// GenerateAccessToken 签发会话令牌
func (s *JWTService) GenerateAccessToken(userID uint, email string) (*TokenPair, error) {
	expiry := time.Now().Add(s.expiresIn)
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"type":    "access",
		"exp":     expiry.Unix(),
		"iat":     time.Now().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &TokenPair{AccessToken: token, AccessTokenExpiry: expiry}, nil
}

// ParseAccessToken 解析并校验会话令牌
func (s *JWTService) ParseAccessToken(tokenString string) (jwt.MapClaims, error) {
	return s.parse(tokenString, s.secret)
}

// GenerateResetToken 签发重置密码令牌。
// 签名密钥混入当前密码哈希，密码一旦修改令牌即自动失效。
func (s *JWTService) GenerateResetToken(userID uint, email, passwordHash string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"type":    "reset",
		"exp":     time.Now().Add(s.resetExpiresIn).Unix(),
		"iat":     time.Now().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.resetSecret(passwordHash))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	return token, nil
}

// ParseResetToken 解析重置令牌，passwordHash 必须是用户当前的密码哈希
func (s *JWTService) ParseResetToken(tokenString, passwordHash string) (jwt.MapClaims, error) {
	return s.parse(tokenString, s.resetSecret(passwordHash))
}

func (s *JWTService) resetSecret(passwordHash string) []byte {
	return append(append([]byte{}, s.secret...), []byte(passwordHash)...)
}

func (s *JWTService) parse(tokenString string, secret []byte) (jwt.MapClaims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// UserIDFromClaims 从 claims 中提取用户 ID
func UserIDFromClaims(claims jwt.MapClaims) (uint, error) {
	value, ok := claims["user_id"]
	if !ok {
		return 0, errors.New("user_id not found in token claims")
	}
	id, ok := value.(float64)
	if !ok {
		return 0, errors.New("user_id in token is not a valid number")
	}
	return uint(id), nil
}
