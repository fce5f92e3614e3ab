package api_router

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-diary/internal/app"
	"github.com/haierkeys/fast-diary/internal/dto"
	"github.com/haierkeys/fast-diary/internal/service"
	pkgapp "github.com/haierkeys/fast-diary/pkg/app"
	"github.com/haierkeys/fast-diary/pkg/code"
	apperrors "github.com/haierkeys/fast-diary/pkg/errors"
)

// BackupHandler 备份 API 路由处理器
type BackupHandler struct {
	*Handler
}

// NewBackupHandler 创建 BackupHandler 实例
func NewBackupHandler(a *app.App) *BackupHandler {
	return &BackupHandler{Handler: NewHandler(a)}
}

// Run 立即执行一次备份
func (h *BackupHandler) Run(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	if h.App.BackupService == nil {
		response.ToResponse(code.ErrorBackupDisabled)
		return
	}

	ctx := c.Request.Context()
	var res *service.BackupResult
	err := h.App.SubmitTask(ctx, func(ctx context.Context) error {
		var runErr error
		res, runErr = h.App.BackupService.Run(ctx)
		return runErr
	})
	if err != nil {
		h.logError(ctx, "BackupHandler.Run", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(dto.BackupDTO{
		ID:      res.ID,
		FileKey: res.FileKey,
		Entries: res.Entries,
		Size:    res.Size,
	}))
}
