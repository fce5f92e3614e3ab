package api_router

import (
	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-diary/internal/app"
	"github.com/haierkeys/fast-diary/internal/domain"
	"github.com/haierkeys/fast-diary/internal/dto"
	pkgapp "github.com/haierkeys/fast-diary/pkg/app"
	"github.com/haierkeys/fast-diary/pkg/code"
	apperrors "github.com/haierkeys/fast-diary/pkg/errors"
	"go.uber.org/zap"
)

// EntryHandler 日记 API 路由处理器
type EntryHandler struct {
	*Handler
}

// NewEntryHandler 创建 EntryHandler 实例
func NewEntryHandler(a *app.App) *EntryHandler {
	return &EntryHandler{Handler: NewHandler(a)}
}

// Get 读取指定日期的日记
// 未写过的日期返回 found=false，不视为错误
func (h *EntryHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EntryGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("EntryHandler.Get.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	date, err := domain.ParseDate(params.Date)
	if err != nil {
		apperrors.ErrorResponse(c, err)
		return
	}

	ctx := c.Request.Context()
	text, found, err := h.App.EntryService.Read(ctx, date)
	if err != nil {
		h.logError(ctx, "EntryHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(dto.EntryDTO{
		Date:  date.String(),
		Text:  text,
		Found: found,
	}))
}

// Save 保存日记，携带 fontSize 时与保存按钮一致，同时保存字号
func (h *EntryHandler) Save(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EntryPostRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("EntryHandler.Save.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	date, err := domain.ParseDate(params.Date)
	if err != nil {
		apperrors.ErrorResponse(c, err)
		return
	}

	ctx := c.Request.Context()
	if params.FontSize != nil {
		err = h.App.DiaryService.Save(ctx, date, params.Text, *params.FontSize)
	} else {
		err = h.App.EntryService.Write(ctx, date, params.Text)
	}
	if err != nil {
		h.logError(ctx, "EntryHandler.Save", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessEntrySave.WithData(dto.EntryDTO{
		Date:  date.String(),
		Text:  params.Text,
		Found: true,
	}))
}

// List 分页列出已写日记的日期，按日期升序
func (h *EntryHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	dates, err := h.App.EntryService.ListDates(ctx)
	if err != nil {
		h.logError(ctx, "EntryHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	start, end := pkgapp.PageSlice(len(dates), pkgapp.GetPage(c), pkgapp.GetPageSize(c))
	list := make([]string, 0, end-start)
	for _, d := range dates[start:end] {
		list = append(list, d.String())
	}

	response.ToResponseList(code.Success, list, len(dates))
}
