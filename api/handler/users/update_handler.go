package users

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/api/common"
	"github.com/shareplaces/backend/api/middleware"
	svcUsers "github.com/shareplaces/backend/internal/services/users"
	"github.com/shareplaces/backend/utils/validator"
)

// UpdateUser 更新用户资料，仅限本人
// @Summary      Update user
// @Description  Update username and contact, optionally replacing the avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        userId    path      string  true   "User ID"
// @Param        username  formData  string  true   "Display name"
// @Param        contact   formData  string  true   "10-digit contact number"
// @Param        image     formData  file    false  "Replacement avatar"
// @Success      200  {object}  common.ResultResponse  "Updated user"
// @Failure      401  {object}  common.ErrorResponse   "Not the account owner"
// @Failure      422  {object}  common.ErrorResponse   "Invalid input"
// @Security     BearerAuth
// @Router       /users/{userId} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	requesterID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusForbidden, "Authorization Failed")
		return
	}

	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil || uint(userID) != requesterID {
		common.RespondError(c, http.StatusUnauthorized, "You're not authorized to update this resource")
		return
	}

	username := strings.TrimSpace(c.PostForm("username"))
	contact := strings.TrimSpace(c.PostForm("contact"))
	if username == "" || !validator.IsContactNumber(contact) {
		common.RespondError(c, http.StatusUnprocessableEntity, "Invalid input")
		return
	}

	in := svcUsers.UpdateInput{
		Username: username,
		Contact:  contact,
	}
	if file, hasFile := middleware.UploadedFileFrom(c); hasFile {
		file.Claim()
		in.ImagePath = file.Path
		in.ImageExtension = file.Extension
	}

	user, err := h.svc.Update(c.Request.Context(), requesterID, in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondOK(c, user.Public())
}
