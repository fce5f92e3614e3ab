package api_router

import (
	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-diary/internal/app"
	"github.com/haierkeys/fast-diary/internal/dto"
	pkgapp "github.com/haierkeys/fast-diary/pkg/app"
	"github.com/haierkeys/fast-diary/pkg/code"
	apperrors "github.com/haierkeys/fast-diary/pkg/errors"
	"go.uber.org/zap"
)

// SettingHandler 偏好设置 API 路由处理器
type SettingHandler struct {
	*Handler
}

// NewSettingHandler 创建 SettingHandler 实例
func NewSettingHandler(a *app.App) *SettingHandler {
	return &SettingHandler{Handler: NewHandler(a)}
}

// GetFontSize 获取字号，未设置或读取失败时返回默认值
func (h *SettingHandler) GetFontSize(c *gin.Context) {
	size := h.App.SettingService.FontSize(c.Request.Context())
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(dto.FontSizeDTO{FontSize: size}))
}

// SetFontSize 设置字号
func (h *SettingHandler) SetFontSize(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.FontSizeRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("SettingHandler.SetFontSize.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	if err := h.App.SettingService.SetFontSize(ctx, params.FontSize); err != nil {
		h.logError(ctx, "SettingHandler.SetFontSize", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessFontSizeSet.WithData(dto.FontSizeDTO{FontSize: params.FontSize}))
}
