package controller

import (
	"errors"
	"io"

	"learngenix_backend/internal/model"
	"learngenix_backend/internal/repository"
	"learngenix_backend/internal/service"
	"learngenix_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExerciseController struct {
	ExerciseService   *service.ExerciseService
	SubmissionService *service.SubmissionService
}

func NewExerciseController(exerciseService *service.ExerciseService, submissionService *service.SubmissionService) *ExerciseController {
	return &ExerciseController{
		ExerciseService:   exerciseService,
		SubmissionService: submissionService,
	}
}

// Create godoc
// @Summary 创建练习题
// @Tags 练习
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ExerciseCreateRequest true "练习题"
// @Success 201 {object} util.Response{data=model.Exercise}
// @Failure 400 {object} util.Response
// @Router /exercises [post]
func (c *ExerciseController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ExerciseCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exercise, err := c.ExerciseService.Create(ctx.Request.Context(), user, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, exercise)
}

// List godoc
// @Summary 练习题列表
// @Tags 练习
// @Produce  json
// @Param   subject_id query string false "学科ID"
// @Param   topic_id query string false "主题ID"
// @Param   difficulty query string false "难度" Enums(easy, medium, hard)
// @Param   type query string false "题型" Enums(multiple_choice, open_ended, true_false, matching)
// @Param   skip query int false "跳过条数" default(0)
// @Param   limit query int false "每页条数" default(100)
// @Success 200 {object} util.Response{data=[]model.Exercise}
// @Router /exercises [get]
func (c *ExerciseController) List(ctx *gin.Context) {
	skip, limit, err := util.Pagination(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	filter, err := exerciseFilter(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	exercises, err := c.ExerciseService.List(ctx.Request.Context(), filter, skip, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exercises)
}

func exerciseFilter(ctx *gin.Context) (repository.ExerciseFilter, error) {
	filter := repository.ExerciseFilter{
		Difficulty: model.Difficulty(ctx.Query("difficulty")),
		Type:       model.ExerciseType(ctx.Query("type")),
	}
	for name, dst := range map[string]*string{"subject_id": &filter.SubjectID, "topic_id": &filter.TopicID} {
		raw := ctx.Query(name)
		if raw == "" {
			continue
		}
		id := util.NormalizeUUID(&raw)
		if id == nil {
			return filter, util.ValidationError("Invalid " + name)
		}
		*dst = *id
	}
	switch filter.Difficulty {
	case "", model.Easy, model.Medium, model.Hard:
	default:
		return filter, util.ValidationError("Invalid difficulty")
	}
	return filter, nil
}

// Get godoc
// @Summary 练习题详情
// @Tags 练习
// @Produce  json
// @Param   id path string true "练习题ID"
// @Success 200 {object} util.Response{data=model.Exercise}
// @Failure 404 {object} util.Response
// @Router /exercises/{id} [get]
func (c *ExerciseController) Get(ctx *gin.Context) {
	id, err := util.ParseUUIDParam(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	exercise, err := c.ExerciseService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exercise)
}

// Update godoc
// @Summary 更新练习题
// @Description 只更新请求中出现的字段
// @Tags 练习
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "练习题ID"
// @Param   body body service.ExerciseUpdateRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Exercise}
// @Failure 404 {object} util.Response
// @Router /exercises/{id} [put]
func (c *ExerciseController) Update(ctx *gin.Context) {
	id, err := util.ParseUUIDParam(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	var req service.ExerciseUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exercise, err := c.ExerciseService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exercise)
}

// Delete godoc
// @Summary 删除练习题
// @Tags 练习
// @Security BearerAuth
// @Param   id path string true "练习题ID"
// @Success 204
// @Failure 404 {object} util.Response
// @Router /exercises/{id} [delete]
func (c *ExerciseController) Delete(ctx *gin.Context) {
	id, err := util.ParseUUIDParam(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if err := c.ExerciseService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// Next godoc
// @Summary 下一道练习题
// @Description 从未作答的题目中随机返回一道；difficulty 缺省为 medium
// @Tags 练习
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.NextRequest false "筛选条件"
// @Success 200 {object} util.Response{data=model.Exercise}
// @Failure 404 {object} util.Response "没有可用的题目"
// @Router /exercises/next [post]
func (c *ExerciseController) Next(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.NextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, err.Error())
		return
	}

	exercise, err := c.ExerciseService.Next(ctx.Request.Context(), user, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exercise)
}

// Submit godoc
// @Summary 提交答案
// @Description 每道题每个用户只能提交一次
// @Tags 练习
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.SubmitRequest true "答案"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response "已作答"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /exercises/submit [post]
func (c *ExerciseController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SubmissionService.Submit(ctx.Request.Context(), user, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
