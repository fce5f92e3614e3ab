package task

import (
	"context"

	"github.com/haierkeys/fast-diary/internal/app"
	"github.com/haierkeys/fast-diary/pkg/logger"
	"go.uber.org/zap"
)

// BackupTask 定时打包全部日记
type BackupTask struct {
	app    *app.App
	logger *zap.Logger
}

// Name 返回任务名称
func (t *BackupTask) Name() string {
	return "DiaryBackup"
}

// Spec 返回 cron 表达式
func (t *BackupTask) Spec() string {
	return t.app.Config().Backup.Cron
}

// IsStartupRun 是否立即执行一次
func (t *BackupTask) IsStartupRun() bool {
	return t.app.Config().Backup.StartupRun
}

// Run 执行备份
func (t *BackupTask) Run(ctx context.Context) error {
	res, err := t.app.BackupService.Run(ctx)
	if err != nil {
		return err
	}
	t.logger.Info("task log",
		zap.String("task", t.Name()),
		zap.String(logger.FieldFileKey, res.FileKey),
		zap.Int("entries", res.Entries),
		zap.Int(logger.FieldSize, res.Size))
	return nil
}

// NewBackupTask 创建备份任务，备份未启用时返回 nil
func NewBackupTask(appContainer *app.App) (Task, error) {
	if appContainer.BackupService == nil {
		return nil, nil
	}
	return &BackupTask{
		app:    appContainer,
		logger: appContainer.Logger(),
	}, nil
}

func init() {
	RegisterWithApp(NewBackupTask)
}
