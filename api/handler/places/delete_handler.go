package places

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/api/common"
	"github.com/shareplaces/backend/api/middleware"
)

// DeletePlace 删除地点，仅限归属用户
// @Summary      Delete place
// @Description  Delete an owned place together with its image blob and like links
// @Tags         places
// @Produce      json
// @Param        placeId  path  string  true  "Place ID"
// @Success      200  {object}  common.ResultResponse  "Place deleted successfully"
// @Failure      401  {object}  common.ErrorResponse   "Not the owner"
// @Failure      404  {object}  common.ErrorResponse   "No place found"
// @Failure      500  {object}  common.ErrorResponse   "Failed to delete place image"
// @Security     BearerAuth
// @Router       /places/{placeId} [delete]
func (h *Handler) DeletePlace(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusForbidden, "Authorization Failed")
		return
	}

	placeID, err := parsePlaceID(c)
	if err != nil {
		common.RespondError(c, http.StatusNotFound, "No place found")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), placeID, userID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondOK(c, "Place deleted successfully")
}
