package controller

import (
	"errors"
	"net/http"
	"quizmaster_backend/internal/service"
	"quizmaster_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError 把服务层错误映射为统一响应，未识别的错误记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		util.ErrorWithData(ctx, http.StatusBadRequest, vErr.Message, gin.H{"fields": vErr.Fields})
	case errors.Is(err, util.ErrWeakPassword), errors.Is(err, util.ErrNoQuestions):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials), errors.Is(err, util.ErrWrongPassword),
		errors.Is(err, util.ErrSessionNotFound):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrStudentNotFound), errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrDraftNotFound), errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrFileNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrUsernameTaken), errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrAuthService):
		util.Error(ctx, http.StatusBadGateway, err.Error())
	case errors.Is(err, util.ErrAdminSetupFailed):
		util.Error(ctx, http.StatusInternalServerError, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
