package core

import (
	"context"
	"errors"
	"time"

	"github.com/shareplaces/backend/storage"
)

func checkDatabaseHealth(deps *ServerDependencies) string {
	if deps.DB == nil {
		return "not initialized"
	}
	sqlDB, err := deps.DB.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkCacheHealth(deps *ServerDependencies) string {
	if deps.Cache == nil {
		return "not initialized"
	}
	return "ok"
}

func checkStorageHealth(deps *ServerDependencies) string {
	if deps.Store == nil {
		return "not initialized"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 读取一个必然不存在的键，只验证后端可达
	reader, err := deps.Store.GetWithContext(ctx, "healthcheck-probe")
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "error: " + err.Error()
	}
	if reader != nil {
		reader.Close()
	}
	return "ok"
}
