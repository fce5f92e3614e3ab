package api_router

import (
	"github.com/haierkeys/fast-diary/internal/app"
	"github.com/haierkeys/fast-diary/internal/dto"
	pkgapp "github.com/haierkeys/fast-diary/pkg/app"
	"github.com/haierkeys/fast-diary/pkg/code"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// Check 健康检查接口，检查数据库连接
func (h *HealthHandler) Check(c *gin.Context) {
	response := dto.HealthDTO{
		Status:   "healthy",
		Version:  h.App.Version().Version,
		Database: "connected",
		Storage:  h.App.Config().Storage.Type,
	}

	if err := h.App.Ping(c.Request.Context()); err != nil {
		response.Status = "unhealthy"
		response.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(response))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}
