package controller

import (
	"learngenix_backend/internal/service"
	"learngenix_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TopicController struct {
	TopicService *service.TopicService
}

func NewTopicController(topicService *service.TopicService) *TopicController {
	return &TopicController{TopicService: topicService}
}

// @Summary 主题列表
// @Tags 主题
// @Produce json
// @Param subject_id query string false "学科ID"
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(100)
// @Success 200 {object} util.Response{data=[]model.Topic}
// @Router /dashboard/topics [get]
func (c *TopicController) List(ctx *gin.Context) {
	skip, limit, err := util.Pagination(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	subjectID := ""
	if raw := ctx.Query("subject_id"); raw != "" {
		id := util.NormalizeUUID(&raw)
		if id == nil {
			util.BadRequest(ctx, "Invalid subject_id")
			return
		}
		subjectID = *id
	}

	topics, err := c.TopicService.List(ctx.Request.Context(), subjectID, skip, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

// @Summary 主题详情
// @Tags 主题
// @Produce json
// @Param id path string true "主题ID"
// @Success 200 {object} util.Response{data=model.Topic}
// @Failure 404 {object} util.Response
// @Router /dashboard/topics/{id} [get]
func (c *TopicController) Get(ctx *gin.Context) {
	id, err := util.ParseUUIDParam(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	topic, err := c.TopicService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, topic)
}

// @Summary 创建主题
// @Tags 主题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TopicCreateRequest true "主题"
// @Success 201 {object} util.Response{data=model.Topic}
// @Router /dashboard/topics [post]
func (c *TopicController) Create(ctx *gin.Context) {
	var req service.TopicCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.TopicService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, topic)
}

// @Summary 更新主题
// @Tags 主题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "主题ID"
// @Param body body service.TopicUpdateRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Topic}
// @Router /dashboard/topics/{id} [put]
func (c *TopicController) Update(ctx *gin.Context) {
	id, err := util.ParseUUIDParam(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	var req service.TopicUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.TopicService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, topic)
}

// @Summary 删除主题
// @Tags 主题
// @Security BearerAuth
// @Param id path string true "主题ID"
// @Success 204
// @Router /dashboard/topics/{id} [delete]
func (c *TopicController) Delete(ctx *gin.Context) {
	id, err := util.ParseUUIDParam(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if err := c.TopicService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
