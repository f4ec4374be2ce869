package places

import (
	svcPlaces "github.com/shareplaces/backend/internal/services/places"
)

// Handler 地点处理器
type Handler struct {
	svc *svcPlaces.Service
}

// NewHandler 创建地点处理器
func NewHandler(svc *svcPlaces.Service) *Handler {
	return &Handler{svc: svc}
}
