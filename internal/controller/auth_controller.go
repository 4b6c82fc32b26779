package controller

import (
	"quizmaster_backend/internal/service"
	"quizmaster_backend/internal/session"
	"quizmaster_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// AdminLogin godoc
// @Summary 管理员登录
// @Description 校验固定的管理员账号，首次登录时自动创建管理员身份
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "登录凭据"
// @Success 200 {object} util.Response{data=service.LoginResult} "登录成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "凭据错误"
// @Failure 500 {object} util.Response "管理员账号创建失败"
// @Router /api/admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.AdminLogin(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// StudentLogin godoc
// @Summary 学生登录
// @Description 按用户名查找学生账号，由身份服务校验密码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "登录凭据"
// @Success 200 {object} util.Response{data=service.LoginResult} "登录成功"
// @Failure 401 {object} util.Response "密码错误"
// @Failure 404 {object} util.Response "用户名不存在"
// @Failure 502 {object} util.Response "身份服务错误"
// @Router /api/student/login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.StudentLogin(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// Logout godoc
// @Summary 退出登录
// @Description 结束当前会话，未提交的测验草稿一并丢弃
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.AuthService.Logout(ctx.Request.Context(), session.Current(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CurrentSession godoc
// @Summary 当前会话
// @Description 返回当前登录的角色与用户名
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=session.Session} "成功"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/session [get]
func (c *AuthController) CurrentSession(ctx *gin.Context) {
	sess := session.Current(ctx)
	if sess == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, sess)
}
