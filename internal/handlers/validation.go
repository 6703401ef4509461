package handlers

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindErrorMessage 将绑定失败的校验错误整理为可读消息
func bindErrorMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		var parts []string
		for _, fieldErr := range validationErrors {
			switch fieldErr.Tag() {
			case "required":
				parts = append(parts, fmt.Sprintf("缺少必填字段 %s", fieldErr.Field()))
			default:
				parts = append(parts, fmt.Sprintf("字段 %s 校验失败(%s)", fieldErr.Field(), fieldErr.Tag()))
			}
		}
		return strings.Join(parts, "; ")
	}
	return "请求参数错误"
}
