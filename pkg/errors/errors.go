package errors

// ========== 错误码常量定义 ==========

// CodeSuccess 成功码
const (
	CodeSuccess = 200
)

// HTTP层错误码 (400-599)
const (
	CodeInvalidParam      = 400
	CodeUnauthorized      = 401
	CodeForbidden         = 403
	CodeNotFound          = 404
	CodeConflict          = 409
	CodeInvalidTransition = 409
	CodeServerError       = 500
)

// AppError 业务错误，携带错误码和说明
// 服务层返回AppError，由response.HandleError统一映射为返回格式
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewValidation 参数校验失败
func NewValidation(message string) *AppError {
	return &AppError{Code: CodeInvalidParam, Message: message}
}

// NewUnauthorized 未认证或凭证失效
func NewUnauthorized(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

// NewForbidden 已认证但无权执行该操作
func NewForbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NewNotFound 资源不存在
func NewNotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

// NewConflict 唯一性冲突
func NewConflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// NewInvalidTransition 工作流状态转换非法
func NewInvalidTransition(message string) *AppError {
	return &AppError{Code: CodeInvalidTransition, Message: message}
}
