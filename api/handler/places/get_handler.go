package places

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/api/common"
	"github.com/shareplaces/backend/database/models"
)

// GetPlaces 查询全部地点
// @Summary      List places
// @Description  List all places with their like state
// @Tags         places
// @Produce      json
// @Success      200  {object}  common.ResultResponse  "Places"
// @Security     BearerAuth
// @Router       /places [get]
func (h *Handler) GetPlaces(c *gin.Context) {
	places, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondOK(c, placeViews(places))
}

// GetPlace 按 ID 查询地点
// @Summary      Get place
// @Tags         places
// @Produce      json
// @Param        placeId  path  string  true  "Place ID"
// @Success      200  {object}  common.ResultResponse  "Place"
// @Failure      404  {object}  common.ErrorResponse   "No place found"
// @Router       /places/{placeId} [get]
func (h *Handler) GetPlace(c *gin.Context) {
	placeID, err := parsePlaceID(c)
	if err != nil {
		common.RespondError(c, http.StatusNotFound, "No place found")
		return
	}

	place, err := h.svc.GetByID(c.Request.Context(), placeID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondOK(c, place.View())
}

// GetPlacesByUser 查询指定用户的地点
// @Summary      List places by user
// @Tags         places
// @Produce      json
// @Param        userId  path  string  true  "User ID"
// @Success      200  {object}  common.ResultResponse  "Places"
// @Failure      404  {object}  common.ErrorResponse   "No places found for user"
// @Router       /places/user/{userId} [get]
func (h *Handler) GetPlacesByUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		common.RespondError(c, http.StatusNotFound, "No places found for user")
		return
	}

	places, err := h.svc.GetByUser(c.Request.Context(), uint(userID))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondOK(c, placeViews(places))
}

func placeViews(places []models.Place) []models.PlaceView {
	views := make([]models.PlaceView, 0, len(places))
	for i := range places {
		views = append(views, places[i].View())
	}
	return views
}
