package controller

import (
	"learngenix_backend/internal/service"
	"learngenix_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 仪表盘概览
// @Description 统计、最近成就、最近作答；教师额外返回创建的题目数
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.DashboardSummary}
// @Router /dashboard/summary [get]
func (c *DashboardController) Summary(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.DashboardService.Summary(ctx.Request.Context(), user)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// @Summary 作答记录
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(100)
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]model.UserProgress}}
// @Router /dashboard/progress [get]
func (c *DashboardController) Progress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	skip, limit, err := util.Pagination(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	progress, err := c.DashboardService.Progress(ctx.Request.Context(), user, skip, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: progress, Skip: skip, Limit: limit})
}

// @Summary 累计统计
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserStats}
// @Router /dashboard/stats [get]
func (c *DashboardController) Stats(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.DashboardService.Stats(ctx.Request.Context(), user)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
