package controller

import (
	"learngenix_backend/internal/service"
	"learngenix_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// @Summary 成就列表
// @Tags 成就
// @Produce json
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(100)
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /dashboard/achievements [get]
func (c *AchievementController) List(ctx *gin.Context) {
	skip, limit, err := util.Pagination(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	achievements, err := c.AchievementService.List(ctx.Request.Context(), skip, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// @Summary 成就详情
// @Tags 成就
// @Produce json
// @Param id path string true "成就ID"
// @Success 200 {object} util.Response{data=model.Achievement}
// @Failure 404 {object} util.Response
// @Router /dashboard/achievements/{id} [get]
func (c *AchievementController) Get(ctx *gin.Context) {
	id, err := util.ParseUUIDParam(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	achievement, err := c.AchievementService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, achievement)
}

// @Summary 创建成就
// @Tags 成就
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.AchievementCreateRequest true "成就"
// @Success 201 {object} util.Response{data=model.Achievement}
// @Failure 403 {object} util.Response
// @Router /dashboard/achievements [post]
func (c *AchievementController) Create(ctx *gin.Context) {
	var req service.AchievementCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	achievement, err := c.AchievementService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, achievement)
}

// @Summary 更新成就
// @Tags 成就
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "成就ID"
// @Param body body service.AchievementUpdateRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Achievement}
// @Router /dashboard/achievements/{id} [put]
func (c *AchievementController) Update(ctx *gin.Context) {
	id, err := util.ParseUUIDParam(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	var req service.AchievementUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	achievement, err := c.AchievementService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, achievement)
}

// @Summary 删除成就
// @Tags 成就
// @Security BearerAuth
// @Param id path string true "成就ID"
// @Success 204
// @Router /dashboard/achievements/{id} [delete]
func (c *AchievementController) Delete(ctx *gin.Context) {
	id, err := util.ParseUUIDParam(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if err := c.AchievementService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
