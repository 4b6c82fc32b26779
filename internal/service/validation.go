package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldValidator 服务层共用的校验器，HTTP 之外的调用方（如导入脚本）也经过同一套规则
var fieldValidator = validator.New()

// ValidationError 表示用户输入缺失或不合法，Fields 为出错字段
type ValidationError struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
