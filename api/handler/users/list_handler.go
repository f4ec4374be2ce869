package users

import (
	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/api/common"
	"github.com/shareplaces/backend/database/models"
)

// GetUsers 查询全部用户
// @Summary      List users
// @Description  List all users without password hashes
// @Tags         users
// @Produce      json
// @Success      200  {object}  common.ResultResponse  "Users"
// @Failure      404  {object}  common.ErrorResponse   "No users found"
// @Router       /users [get]
func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	views := make([]models.PublicUser, 0, len(users))
	for i := range users {
		views = append(views, users[i].Public())
	}

	common.RespondOK(c, views)
}
