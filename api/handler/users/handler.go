package users

import (
	svcUsers "github.com/shareplaces/backend/internal/services/users"
)

// Handler 用户处理器
type Handler struct {
	svc *svcUsers.Service
}

// NewHandler 创建用户处理器
func NewHandler(svc *svcUsers.Service) *Handler {
	return &Handler{svc: svc}
}
