package controller

import (
	"learngenix_backend/internal/service"
	"learngenix_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	SubjectService *service.SubjectService
}

func NewSubjectController(subjectService *service.SubjectService) *SubjectController {
	return &SubjectController{SubjectService: subjectService}
}

// @Summary 学科列表
// @Tags 学科
// @Produce json
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(100)
// @Success 200 {object} util.Response{data=[]model.Subject}
// @Router /dashboard/subjects [get]
func (c *SubjectController) List(ctx *gin.Context) {
	skip, limit, err := util.Pagination(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	subjects, err := c.SubjectService.List(ctx.Request.Context(), skip, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// @Summary 学科详情
// @Tags 学科
// @Produce json
// @Param id path string true "学科ID"
// @Success 200 {object} util.Response{data=model.Subject}
// @Failure 404 {object} util.Response
// @Router /dashboard/subjects/{id} [get]
func (c *SubjectController) Get(ctx *gin.Context) {
	id, err := util.ParseUUIDParam(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	subject, err := c.SubjectService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// @Summary 创建学科
// @Tags 学科
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SubjectCreateRequest true "学科"
// @Success 201 {object} util.Response{data=model.Subject}
// @Failure 403 {object} util.Response
// @Router /dashboard/subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	var req service.SubjectCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.SubjectService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, subject)
}

// @Summary 更新学科
// @Tags 学科
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "学科ID"
// @Param body body service.SubjectUpdateRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Subject}
// @Router /dashboard/subjects/{id} [put]
func (c *SubjectController) Update(ctx *gin.Context) {
	id, err := util.ParseUUIDParam(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	var req service.SubjectUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.SubjectService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// @Summary 删除学科
// @Tags 学科
// @Security BearerAuth
// @Param id path string true "学科ID"
// @Success 204
// @Router /dashboard/subjects/{id} [delete]
func (c *SubjectController) Delete(ctx *gin.Context) {
	id, err := util.ParseUUIDParam(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if err := c.SubjectService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
