package controller

import (
	"learngenix_backend/internal/service"
	"learngenix_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary 注册新用户
// @Description 在认证服务创建账号并写入用户资料，返回访问令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "用户注册信息"
// @Success 200 {object} util.Response{data=service.TokenResponse}
// @Failure 400 {object} util.Response "请求参数错误或邮箱已注册"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.Register(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// Login godoc
// @Summary 用户登录
// @Description 支持 JSON {email,password} 或表单 username/password
// @Tags 认证
// @Accept  json,x-www-form-urlencoded
// @Produce  json
// @Param   body body service.LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.TokenResponse}
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	var err error
	if ctx.ContentType() == binding.MIMEJSON {
		err = ctx.ShouldBindJSON(&req)
	} else {
		err = ctx.ShouldBindWith(&req, binding.Form)
	}
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// ResendConfirmation godoc
// @Summary 重新发送确认邮件
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.ResendRequest true "邮箱"
// @Success 200 {object} util.Response{data=service.ResendResponse}
// @Router /auth/resend-confirmation [post]
func (c *AuthController) ResendConfirmation(ctx *gin.Context) {
	var req service.ResendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.ResendConfirmation(ctx.Request.Context(), req.Email)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// Me godoc
// @Summary 当前用户
// @Tags 认证
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, user)
}

// UpdateMe godoc
// @Summary 更新个人资料
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.UpdateProfileRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.User}
// @Router /auth/me [put]
func (c *AuthController) UpdateMe(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.AuthService.UpdateProfile(ctx.Request.Context(), user, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Description 仅支持图片，最大 2 MiB
// @Tags 认证
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "头像图片"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /auth/me/avatar [post]
func (c *AuthController) UploadAvatar(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	updated, err := c.AuthService.UploadAvatar(ctx.Request.Context(), user, file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// ListUsers godoc
// @Summary 用户列表
// @Description 仅管理员可用，按注册时间排序
// @Tags 认证
// @Produce  json
// @Security BearerAuth
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(100)
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]model.User}}
// @Failure 403 {object} util.Response
// @Router /auth/users [get]
func (c *AuthController) ListUsers(ctx *gin.Context) {
	skip, limit, err := util.Pagination(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	users, err := c.AuthService.ListUsers(ctx.Request.Context(), skip, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: users, Skip: skip, Limit: limit})
}
