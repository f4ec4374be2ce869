package users

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/api/common"
	"github.com/shareplaces/backend/api/middleware"
	svcUsers "github.com/shareplaces/backend/internal/services/users"
	"github.com/shareplaces/backend/utils/validator"
)

// Register 注册用户
// @Summary      Register user
// @Description  Create an account with an avatar image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        username  formData  string  true  "Display name"
// @Param        email     formData  string  true  "Email address"
// @Param        contact   formData  string  true  "10-digit contact number"
// @Param        password  formData  string  true  "Password, at least 8 characters"
// @Param        image     formData  file    true  "Avatar image (jpeg/png/webp, max 3MB)"
// @Success      201  {object}  common.ResultResponse  "User registered successfully"
// @Failure      422  {object}  common.ErrorResponse   "Invalid input"
// @Failure      500  {object}  common.ErrorResponse   "Email already registered"
// @Router       /users/register [post]
func (h *Handler) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	contact := strings.TrimSpace(c.PostForm("contact"))
	password := c.PostForm("password")

	file, hasFile := middleware.UploadedFileFrom(c)
	if username == "" || !validator.IsEmail(email) || !validator.IsContactNumber(contact) || len(password) < 8 || !hasFile {
		common.RespondError(c, http.StatusUnprocessableEntity, "Invalid input")
		return
	}
	file.Claim()

	user, err := h.svc.Register(c.Request.Context(), svcUsers.RegisterInput{
		Username:       username,
		Email:          email,
		Contact:        contact,
		Password:       password,
		ImagePath:      file.Path,
		ImageExtension: file.Extension,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondCreated(c, gin.H{
		"message": "User registered successfully",
		"user":    user.Public(),
	})
}
