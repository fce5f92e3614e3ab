// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/fast-diary/internal/dao"
	"github.com/haierkeys/fast-diary/internal/domain"
	"github.com/haierkeys/fast-diary/internal/service"
	"github.com/haierkeys/fast-diary/pkg/code"
	"github.com/haierkeys/fast-diary/pkg/logger"
	"github.com/haierkeys/fast-diary/pkg/storage"
	"github.com/haierkeys/fast-diary/pkg/storage/local_fs"
	"github.com/haierkeys/fast-diary/pkg/workerpool"
	"github.com/haierkeys/fast-diary/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config  *AppConfig
	logger  *zap.Logger
	DB      *gorm.DB
	Storage storage.Storager
	Dao     *dao.Dao

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// Repository 层
	EntryRepo      domain.EntryRepository
	PreferenceRepo domain.PreferenceRepository

	// Service 层
	EntryService   service.EntryService
	SettingService service.SettingService
	DiaryService   *service.DiaryService
	BackupService  service.BackupService

	// StartTime 容器创建时间
	StartTime time.Time

	// 关闭控制
	shutdownOnce sync.Once
	shutdownErr  error
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, lg *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if lg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	code.SetGlobalDefaultLang(cfg.App.Lang)

	store, err := storage.NewClient(&cfg.Storage, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage %q: %w", cfg.Storage.Type, err)
	}

	a := &App{
		config:    cfg,
		logger:    lg,
		DB:        db,
		Storage:   store,
		StartTime: time.Now(),
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, lg)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, lg)

	// 初始化 DAO（使用依赖注入）
	a.Dao = dao.New(db, store, a.writeQueueMgr, lg)

	// 初始化 Repository 层
	a.EntryRepo = dao.NewEntryRepository(a.Dao)
	a.PreferenceRepo = dao.NewPreferenceRepository(a.Dao)

	// 初始化 Service 层（依赖注入）
	a.EntryService = service.NewEntryService(a.EntryRepo, lg)
	a.SettingService = service.NewSettingService(a.PreferenceRepo, lg)
	a.DiaryService = service.NewDiaryService(a.EntryService, a.SettingService, lg)

	if cfg.Backup.IsEnabled {
		archive, err := local_fs.NewClient(&local_fs.Config{SavePath: cfg.Backup.SavePath})
		if err != nil {
			return nil, fmt.Errorf("failed to create backup dir: %w", err)
		}
		a.BackupService = service.NewBackupService(a.EntryRepo, a.SettingService, archive,
			service.BackupServiceConfig{Keep: cfg.Backup.Keep}, lg)
	}

	lg.Info("App container initialized successfully",
		zap.String(logger.FieldStorage, cfg.Storage.Type),
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// VersionInfo 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

// Version 获取版本信息
func (a *App) Version() VersionInfo {
	return VersionInfo{Version: Version, GitTag: GitTag, BuildTime: BuildTime}
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// SubmitTask 提交任务到 Worker Pool 并等待结果
// 返回错误如果池已满或已关闭
func (a *App) SubmitTask(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.Submit(ctx, task)
}

// WorkerPool 获取 Worker Pool
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// Ping 检查数据库连接
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Worker Pool -> Write Queue Manager -> Database
// 重复调用返回第一次的结果
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownOnce.Do(func() {
		a.shutdownErr = a.shutdown(ctx)
	})
	return a.shutdownErr
}

func (a *App) shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	var errs []error

	// 1. 关闭 Worker Pool（停止接受新任务，等待现有任务完成）
	a.logger.Info("Shutting down worker pool...")
	if err := a.workerPool.Shutdown(ctx); err != nil {
		a.logger.Warn("Worker pool shutdown error", zap.Error(err))
		errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
	}

	// 2. 关闭 Write Queue Manager（排空所有队列）
	a.logger.Info("Shutting down write queue manager...")
	if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
		a.logger.Warn("write queue manager shutdown error", zap.Error(err))
		errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
	}

	// 3. 关闭数据库
	if err := dao.CloseDB(a.DB); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	} else {
		a.logger.Info("Database connection closed")
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	a.logger.Info("App container shutdown completed")
	return nil
}
