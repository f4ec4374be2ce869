package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/api/common"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
// @Summary      Log in
// @Description  Exchange email and password for a session token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      loginRequest  true  "Credentials"
// @Success      200  {object}  common.ResultResponse  "User data and access token"
// @Failure      401  {object}  common.ErrorResponse   "Unknown email"
// @Failure      403  {object}  common.ErrorResponse   "Wrong password"
// @Router       /users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusUnprocessableEntity, "Invalid input")
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondOK(c, result)
}
