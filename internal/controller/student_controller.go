package controller

import (
	"quizmaster_backend/internal/service"
	"quizmaster_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	StudentService *service.StudentService
}

func NewStudentController(studentService *service.StudentService) *StudentController {
	return &StudentController{StudentService: studentService}
}

// ListStudents godoc
// @Summary 学生列表
// @Description 返回全部学生账号，按创建时间倒序
// @Tags 学生管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Student} "成功"
// @Router /api/admin/students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.StudentService.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// CreateStudent godoc
// @Summary 创建学生账号
// @Description 先创建身份再写学生记录，记录写入失败时回滚身份
// @Tags 学生管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProvisionStudentRequest true "学生信息"
// @Success 201 {object} util.Response{data=model.Student} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名或邮箱已存在"
// @Router /api/admin/students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req service.ProvisionStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.StudentService.Provision(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, student)
}

// DeleteStudent godoc
// @Summary 删除学生账号
// @Description 只删除学生记录，身份服务中的账号保留
// @Tags 学生管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "学生ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/admin/students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	if err := c.StudentService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
