// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"

	"github.com/haierkeys/fast-diary/internal/app"
	apperrors "github.com/haierkeys/fast-diary/pkg/errors"

	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// logError 记录错误日志，AppError 附带错误码
func (h *Handler) logError(ctx context.Context, method string, err error) {
	fields := []zap.Field{zap.String("method", method), zap.Error(err)}
	if appErr := apperrors.GetAppError(err); appErr != nil {
		fields = append(fields, zap.Int("code", appErr.Code))
	}
	if ctx.Err() != nil {
		fields = append(fields, zap.NamedError("ctxErr", ctx.Err()))
	}
	h.App.Logger().Error("api handler error", fields...)
}
