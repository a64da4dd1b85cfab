package controller

import (
	"context"
	"net/http"
	"time"

	"skill_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// Liveness godoc
// @Summary 存活检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /healthz [get]
func (c *HealthController) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// HealthCheck godoc
// @Summary 健康检查
// @Description 检查数据库连接
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} util.ErrorResponse
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"database": "up",
		},
	})
}
