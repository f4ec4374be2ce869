package places

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/api/common"
	"github.com/shareplaces/backend/api/middleware"
	svcPlaces "github.com/shareplaces/backend/internal/services/places"
)

// UpdatePlace 更新地点，仅限归属用户
// @Summary      Update place
// @Description  Update title/description/address of an owned place, optionally replacing its image
// @Tags         places
// @Accept       multipart/form-data
// @Produce      json
// @Param        placeId      path      string  true   "Place ID"
// @Param        title        formData  string  true   "Place title"
// @Param        description  formData  string  true   "Description, at least 5 characters"
// @Param        address      formData  string  true   "Postal address to geocode"
// @Param        image        formData  file    false  "Replacement image"
// @Success      200  {object}  common.ResultResponse  "Updated place"
// @Failure      401  {object}  common.ErrorResponse   "Not the owner"
// @Failure      404  {object}  common.ErrorResponse   "Could not find place"
// @Failure      422  {object}  common.ErrorResponse   "Invalid input / Wrong number of arguments"
// @Security     BearerAuth
// @Router       /places/{placeId} [put]
func (h *Handler) UpdatePlace(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusForbidden, "Authorization Failed")
		return
	}

	placeID, err := parsePlaceID(c)
	if err != nil {
		common.RespondError(c, http.StatusNotFound, "Could not find place")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	address := strings.TrimSpace(c.PostForm("address"))
	if title == "" || len(description) < 5 || address == "" {
		common.RespondError(c, http.StatusUnprocessableEntity, "Invalid input / Wrong number of arguments")
		return
	}

	in := svcPlaces.UpdateInput{
		Title:       title,
		Description: description,
		Address:     address,
	}
	if file, hasFile := middleware.UploadedFileFrom(c); hasFile {
		file.Claim()
		in.ImagePath = file.Path
		in.ImageExtension = file.Extension
	}

	place, err := h.svc.Update(c.Request.Context(), placeID, userID, in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondOK(c, place.View())
}

func parsePlaceID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("placeId"), 10, 32)
	return uint(id), err
}
