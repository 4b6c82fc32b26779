package controller

import (
	"quizmaster_backend/internal/service"
	"quizmaster_backend/internal/session"
	"quizmaster_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// CreateQuiz godoc
// @Summary 创建测验
// @Description 一次提交测验信息与全部题目，逐题校验后写入一条测验记录
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateQuizRequest true "测验内容"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "校验失败"
// @Router /api/admin/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req service.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// ListQuizzes godoc
// @Summary 测验列表
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   active query bool false "只返回启用的测验"
// @Success 200 {object} util.Response{data=[]model.Quiz} "成功"
// @Router /api/admin/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	activeOnly, _ := strconv.ParseBool(ctx.Query("active"))

	quizzes, err := c.QuizService.ListQuizzes(ctx.Request.Context(), activeOnly)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// GetQuiz godoc
// @Summary 测验详情
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/admin/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuiz(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// ExportQuiz godoc
// @Summary 导出测验
// @Description 把测验以 JSON 写入对象存储并返回地址
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/admin/quizzes/{id}/export [post]
func (c *QuizController) ExportQuiz(ctx *gin.Context) {
	url, err := c.QuizService.ExportQuiz(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// DeleteExport godoc
// @Summary 删除测验导出文件
// @Description 删除对象存储中的测验导出文件
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "测验或导出文件不存在"
// @Router /api/admin/quizzes/{id}/export [delete]
func (c *QuizController) DeleteExport(ctx *gin.Context) {
	if err := c.QuizService.DeleteExport(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateDraft godoc
// @Summary 新建测验草稿
// @Description 草稿只保存在当前会话中，退出登录或会话过期后丢失
// @Tags 测验草稿
// @Produce  json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=service.QuizDraft} "创建成功"
// @Router /api/admin/quiz-drafts [post]
func (c *QuizController) CreateDraft(ctx *gin.Context) {
	draft, err := c.QuizService.CreateDraft(ctx.Request.Context(), session.Current(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, draft)
}

// GetDraft godoc
// @Summary 查看测验草稿
// @Tags 测验草稿
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "草稿ID"
// @Success 200 {object} util.Response{data=service.QuizDraft} "成功"
// @Failure 404 {object} util.Response "草稿不存在"
// @Router /api/admin/quiz-drafts/{id} [get]
func (c *QuizController) GetDraft(ctx *gin.Context) {
	draft, err := c.QuizService.GetDraft(ctx.Request.Context(), session.Current(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, draft)
}

// UpdateDraft godoc
// @Summary 修改草稿基本信息
// @Tags 测验草稿
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "草稿ID"
// @Param   body body service.QuizDetails true "测验信息"
// @Success 200 {object} util.Response{data=service.QuizDraft} "成功"
// @Router /api/admin/quiz-drafts/{id} [put]
func (c *QuizController) UpdateDraft(ctx *gin.Context) {
	var details service.QuizDetails
	if err := ctx.ShouldBindJSON(&details); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	draft, err := c.QuizService.UpdateDraftDetails(ctx.Request.Context(), session.Current(ctx), ctx.Param("id"), details)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, draft)
}

// AddDraftQuestion godoc
// @Summary 向草稿添加题目
// @Description 题干与四个选项均不能为空，失败时草稿不变
// @Tags 测验草稿
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "草稿ID"
// @Param   body body service.QuestionInput true "题目"
// @Success 200 {object} util.Response{data=service.QuizDraft} "成功"
// @Failure 400 {object} util.Response "校验失败"
// @Router /api/admin/quiz-drafts/{id}/questions [post]
func (c *QuizController) AddDraftQuestion(ctx *gin.Context) {
	var in service.QuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	draft, err := c.QuizService.AddDraftQuestion(ctx.Request.Context(), session.Current(ctx), ctx.Param("id"), in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, draft)
}

// RemoveDraftQuestion godoc
// @Summary 从草稿删除题目
// @Tags 测验草稿
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "草稿ID"
// @Param   questionId path string true "题目ID"
// @Success 200 {object} util.Response{data=service.QuizDraft} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/admin/quiz-drafts/{id}/questions/{questionId} [delete]
func (c *QuizController) RemoveDraftQuestion(ctx *gin.Context) {
	draft, err := c.QuizService.RemoveDraftQuestion(ctx.Request.Context(), session.Current(ctx), ctx.Param("id"), ctx.Param("questionId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, draft)
}

// SubmitDraft godoc
// @Summary 提交草稿
// @Description 至少需要一道题；成功后写入测验并删除草稿
// @Tags 测验草稿
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "草稿ID"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "没有题目或信息不完整"
// @Router /api/admin/quiz-drafts/{id}/submit [post]
func (c *QuizController) SubmitDraft(ctx *gin.Context) {
	quiz, err := c.QuizService.SubmitDraft(ctx.Request.Context(), session.Current(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}
