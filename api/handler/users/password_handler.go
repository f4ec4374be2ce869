package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/api/common"
	"github.com/shareplaces/backend/api/middleware"
)

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword 生成并邮寄密码重置 OTP
// @Summary      Request password reset
// @Description  Email a one-time code and return a short-lived reset token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      forgotPasswordRequest  true  "Registered email"
// @Success      200  {object}  common.ResultResponse  "OTP and reset token"
// @Failure      404  {object}  common.ErrorResponse   "Email not registered"
// @Failure      500  {object}  common.ErrorResponse   "Failed to send mail"
// @Router       /users/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusUnprocessableEntity, "Invalid input")
		return
	}

	result, err := h.svc.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondOK(c, result)
}

// ResetPassword 重置密码，重置令牌校验由中间件完成
// @Summary      Reset password
// @Description  Set a new password using a reset token issued by forgot-password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      middleware.ResetPasswordRequest  true  "Email and new password"
// @Success      200  {object}  common.ResultResponse  "Updated password for user"
// @Failure      403  {object}  common.ErrorResponse   "Token invalid/expired"
// @Failure      404  {object}  common.ErrorResponse   "Could not find user"
// @Router       /users/reset-password [put]
func (h *Handler) ResetPassword(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusForbidden, "Authorization Failed")
		return
	}

	value, exists := c.Get(middleware.ContextResetRequestKey)
	req, ok2 := value.(*middleware.ResetPasswordRequest)
	if !exists || !ok2 {
		common.RespondError(c, http.StatusUnprocessableEntity, "Invalid input")
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), userID, req.Password); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondOK(c, "Updated password for user")
}
