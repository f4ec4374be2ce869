package places

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/api/common"
	"github.com/shareplaces/backend/api/middleware"
	svcPlaces "github.com/shareplaces/backend/internal/services/places"
)

// CreatePlace 创建地点
// @Summary      Create place
// @Description  Geocode the address, store the image and persist the place for the authenticated user
// @Tags         places
// @Accept       multipart/form-data
// @Produce      json
// @Param        title        formData  string  true  "Place title"
// @Param        description  formData  string  true  "Description, at least 5 characters"
// @Param        address      formData  string  true  "Postal address to geocode"
// @Param        image        formData  file    true  "Place image (jpeg/png/webp, max 3MB)"
// @Success      201  {object}  common.ResultResponse  "Created place"
// @Failure      422  {object}  common.ErrorResponse   "Invalid input/file size"
// @Failure      404  {object}  common.ErrorResponse   "No coordinates found for address"
// @Failure      500  {object}  common.ErrorResponse   "Upload or persistence failure"
// @Security     BearerAuth
// @Router       /places [post]
func (h *Handler) CreatePlace(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusForbidden, "Authorization Failed")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	address := strings.TrimSpace(c.PostForm("address"))

	file, hasFile := middleware.UploadedFileFrom(c)
	if title == "" || len(description) < 5 || address == "" || !hasFile {
		common.RespondError(c, http.StatusUnprocessableEntity, "Invalid input/file size")
		return
	}
	file.Claim()

	place, err := h.svc.Create(c.Request.Context(), svcPlaces.CreateInput{
		Title:          title,
		Description:    description,
		Address:        address,
		OwnerID:        userID,
		ImagePath:      file.Path,
		ImageExtension: file.Extension,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondCreated(c, place.View())
}
