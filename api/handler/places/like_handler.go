package places

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/api/common"
	"github.com/shareplaces/backend/api/middleware"
)

// LikePlace 切换点赞状态
// @Summary      Toggle like
// @Description  Like the place if not yet liked by the user, otherwise remove the like
// @Tags         places
// @Produce      json
// @Param        placeId  path  string  true  "Place ID"
// @Success      200  {object}  common.ResultResponse  "Toggled like state"
// @Failure      404  {object}  common.ErrorResponse   "Place not found"
// @Security     BearerAuth
// @Router       /places/{placeId}/like [put]
func (h *Handler) LikePlace(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusForbidden, "Authorization Failed")
		return
	}

	placeID, err := parsePlaceID(c)
	if err != nil {
		common.RespondError(c, http.StatusNotFound, "Place not found")
		return
	}

	liked, err := h.svc.ToggleLike(c.Request.Context(), placeID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondOK(c, gin.H{"liked": liked})
}
