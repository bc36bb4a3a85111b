package controller

import (
	"net/http"

	"learngenix_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB          *gorm.DB
	ProjectName string
}

func NewHealthController(db *gorm.DB, projectName string) *HealthController {
	return &HealthController{DB: db, ProjectName: projectName}
}

// @Summary 欢迎信息
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router / [get]
func (c *HealthController) Root(ctx *gin.Context) {
	util.Success(ctx, gin.H{"message": "Welcome to " + c.ProjectName})
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	// 检查数据库连接
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
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
