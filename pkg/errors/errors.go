package errors

import (
	"errors"
	"time"

	"github.com/haierkeys/fast-diary/pkg/code"

	"github.com/gin-gonic/gin"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、详情和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details []string `json:"details,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`

	status int
	ref    *code.Code
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap 支持 errors.Is / errors.As 沿着 Cause 追踪
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.ref != nil {
		errs = append(errs, e.ref)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	appErr := &AppError{
		Code:      c.Code(),
		Message:   c.Msg(),
		Details:   c.Details(),
		Cause:     cause,
		Timestamp: time.Now(),
		status:    c.StatusCode(),
		ref:       c,
	}
	if cause != nil && len(appErr.Details) == 0 {
		appErr.Details = []string{cause.Error()}
	}
	return appErr
}

// IsCode reports whether err carries the given code anywhere in its chain
// IsCode 判断错误链中是否包含指定错误码
func IsCode(err error, c *code.Code) bool {
	return errors.Is(err, c)
}

// GetAppError 从错误链中获取 AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// ErrorResponse 统一错误响应处理
// 将错误转换为 AppError 并返回 JSON 响应
func ErrorResponse(c *gin.Context, err error) {
	if appErr := GetAppError(err); appErr != nil {
		c.JSON(appErr.status, appErr)
		return
	}

	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		c.JSON(codeErr.StatusCode(), NewAppError(codeErr, nil))
		return
	}

	c.JSON(code.ErrorServerInternal.StatusCode(), &AppError{
		Code:      code.ErrorServerInternal.Code(),
		Message:   code.ErrorServerInternal.Msg(),
		Timestamp: time.Now(),
	})
}
