package core

import (
	"context"
	"net/http"
	"time"

	"github.com/anoixa/image-share/config"
	"github.com/anoixa/image-share/internal/app"
	"github.com/gin-gonic/gin"
)

func healthHandler(container *app.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		checks := gin.H{
			"database": checkDatabaseHealth(container),
			"cache":    checkCacheHealth(ctx, container),
			"storage":  checkStorageHealth(ctx, container),
		}

		httpStatus := http.StatusOK
		for _, result := range checks {
			if result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}

		c.JSON(httpStatus, gin.H{
			"status":  statusText(httpStatus),
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks":  checks,
		})
	}
}

func statusText(httpStatus int) string {
	if httpStatus == http.StatusOK {
		return "ok"
	}
	return "degraded"
}

func checkDatabaseHealth(container *app.Container) string {
	sqlDB, err := container.DB.DB()
	if err != nil {
		return err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return err.Error()
	}
	return "ok"
}

func checkCacheHealth(ctx context.Context, container *app.Container) string {
	if container.Cache == nil {
		return "ok"
	}
	if _, err := container.Cache.Exists(ctx, "health:probe"); err != nil {
		return err.Error()
	}
	return "ok"
}

func checkStorageHealth(ctx context.Context, container *app.Container) string {
	if container.Blobs == nil {
		// inline database storage, covered by the database check
		return "ok"
	}
	if err := container.Blobs.Health(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
