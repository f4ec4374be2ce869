package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/api/common"
	"github.com/shareplaces/backend/database/repo/users"
	"github.com/shareplaces/backend/internal/auth"
	"gorm.io/gorm"
)

const ContextResetRequestKey = "reset_request"

// ResetPasswordRequest 重置密码请求体，中间件绑定后由 handler 复用
type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPasswordAuth 校验重置令牌。
// 令牌用 密钥+当前密码哈希 验签，因此密码修改后旧令牌立即失效。
func ResetPasswordAuth(jwtService *auth.JWTService, usersRepo *users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			common.RespondError(c, http.StatusForbidden, "Authorization failed")
			c.Abort()
			return
		}

		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondError(c, http.StatusUnprocessableEntity, "Invalid input")
			c.Abort()
			return
		}

		user, err := usersRepo.GetByEmail(c.Request.Context(), req.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				common.RespondError(c, http.StatusNotFound, "User does not exist")
			} else {
				common.RespondError(c, http.StatusInternalServerError, "Internal server error")
			}
			c.Abort()
			return
		}

		claims, err := jwtService.ParseResetToken(token, user.Password)
		if err != nil {
			common.RespondError(c, http.StatusForbidden, "Token invalid/expired")
			c.Abort()
			return
		}

		userID, err := auth.UserIDFromClaims(claims)
		if err != nil {
			common.RespondError(c, http.StatusForbidden, "Token invalid/expired")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextResetRequestKey, &req)

		c.Next()
	}
}
