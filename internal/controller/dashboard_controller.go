package controller

import (
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/service"
	"quizmaster_backend/internal/session"
	"quizmaster_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
	SettingsService  *service.SettingsService
}

func NewDashboardController(dashboardService *service.DashboardService, settingsService *service.SettingsService) *DashboardController {
	return &DashboardController{
		DashboardService: dashboardService,
		SettingsService:  settingsService,
	}
}

// AdminDashboard godoc
// @Summary 管理员首页
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.AdminDashboard} "成功"
// @Router /api/admin/dashboard [get]
func (c *DashboardController) AdminDashboard(ctx *gin.Context) {
	dashboard, err := c.DashboardService.AdminDashboard(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// Analytics godoc
// @Summary 数据分析
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Analytics} "成功"
// @Router /api/admin/analytics [get]
func (c *DashboardController) Analytics(ctx *gin.Context) {
	analytics, err := c.DashboardService.Analytics(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// StudentDashboard godoc
// @Summary 学生首页
// @Tags 学生
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.StudentDashboard} "成功"
// @Router /api/student/dashboard [get]
func (c *DashboardController) StudentDashboard(ctx *gin.Context) {
	sess := session.Current(ctx)
	if sess == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.DashboardService.StudentDashboard(ctx.Request.Context(), sess.Username)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// GetSettings godoc
// @Summary 平台设置
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.PlatformSettings} "成功"
// @Router /api/admin/settings [get]
func (c *DashboardController) GetSettings(ctx *gin.Context) {
	settings, err := c.SettingsService.Get(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// UpdateSettings godoc
// @Summary 保存平台设置
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body model.PlatformSettings true "设置"
// @Success 200 {object} util.Response{data=model.PlatformSettings} "成功"
// @Failure 400 {object} util.Response "校验失败"
// @Router /api/admin/settings [put]
func (c *DashboardController) UpdateSettings(ctx *gin.Context) {
	var req model.PlatformSettings
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	settings, err := c.SettingsService.Update(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}
