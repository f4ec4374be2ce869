package core

import (
	"net/http"

	"github.com/shareplaces/backend/cache"
	"github.com/shareplaces/backend/config"
	usersrepo "github.com/shareplaces/backend/database/repo/users"
	"github.com/shareplaces/backend/internal/auth"
	"github.com/shareplaces/backend/internal/janitor"
	svcPlaces "github.com/shareplaces/backend/internal/services/places"
	svcUsers "github.com/shareplaces/backend/internal/services/users"
	"github.com/shareplaces/backend/storage"
	"gorm.io/gorm"
)

// ServerDependencies 服务器依赖项
type ServerDependencies struct {
	DB            *gorm.DB
	Store         storage.Provider
	Cache         cache.Provider
	JWTService    *auth.JWTService
	Janitor       *janitor.Janitor
	UsersRepo     *usersrepo.Repository
	PlacesService *svcPlaces.Service
	UsersService  *svcUsers.Service
}

// StartServer 创建 http.Server
func StartServer(deps *ServerDependencies) (*http.Server, func()) {
	cfg := config.Get()
	router, clean := setupRouter(deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, clean
}
