package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	internalApp "github.com/haierkeys/fast-diary/internal/app"
	"github.com/haierkeys/fast-diary/internal/dao"
	"github.com/haierkeys/fast-diary/internal/routers"
	"github.com/haierkeys/fast-diary/internal/task"
	pkgapp "github.com/haierkeys/fast-diary/pkg/app"
	"github.com/haierkeys/fast-diary/pkg/logger"
	"github.com/haierkeys/fast-diary/pkg/safe_close"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	logger            *zap.Logger             // 日志对象
	config            *internalApp.AppConfig  // 应用配置（注入的依赖）
	db                *gorm.DB                // 数据库连接
	ut                *ut.UniversalTranslator // 翻译器
	httpServer        *http.Server
	privateHttpServer *http.Server
	sc                *safe_close.SafeClose
	app               *internalApp.App // App Container
	tasksDone         <-chan struct{}  // 定时任务全部停止后关闭
}

func NewServer(runEnv *runFlags) (*Server, error) {

	// 使用 LoadConfig 直接加载配置到 AppConfig
	appConfig, configRealpath, err := internalApp.LoadConfig(runEnv.config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if len(runEnv.port) > 0 {
		appConfig.Server.HttpPort = runEnv.port
	}

	// 确定运行模式
	runMode := runEnv.runMode
	if len(runMode) <= 0 {
		runMode = appConfig.Server.RunMode
	}

	if len(runMode) > 0 {
		gin.SetMode(runMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: appConfig,
		sc:     safe_close.NewSafeClose(),
	}

	// 初始化日志器（使用注入的配置）
	lg, err := logger.NewLogger(logger.Config{
		Level:      appConfig.Log.Level,
		File:       appConfig.Log.File,
		Production: appConfig.Log.Production,
	})
	if err != nil {
		return nil, fmt.Errorf("initLogger: %w", err)
	}
	s.logger = lg

	// 初始化验证器，在打开数据库之前完成
	uni, err := pkgapp.InitValidator()
	if err != nil {
		return nil, fmt.Errorf("initValidator: %w", err)
	}
	s.ut = uni

	// 初始化数据库（使用注入的配置）
	db, err := dao.NewDBEngine(appConfig.Database)
	if err != nil {
		return nil, fmt.Errorf("initDatabase: %w", err)
	}
	s.db = db

	// 初始化 App Container（直接使用 AppConfig）
	app, err := internalApp.NewApp(appConfig, s.logger, db)
	if err != nil {
		_ = dao.CloseDB(db)
		return nil, fmt.Errorf("failed to create app container: %w", err)
	}
	s.app = app

	// 启动调度器
	if err := initScheduler(s); err != nil {
		_ = s.app.Shutdown(context.Background())
		return nil, fmt.Errorf("initScheduler: %w", err)
	}

	banner := `
    ______           __     ____  _
   / ____/___ ______/ /_   / __ \(_)___ ________  __
  / /_  / __ ` + "`" + `/ ___/ __/  / / / / / __ ` + "`" + `/ ___/ / / /
 / __/ / /_/ (__  ) /_   / /_/ / / /_/ / /  / /_/ /
/_/    \__,_/____/\__/  /_____/_/\__,_/_/   \__, /
                                           /____/ `
	s.logger.Warn(fmt.Sprintf("%s\n\n%s v%s\nGit: %s\nBuildTime: %s\n", banner, internalApp.Name, internalApp.Version, internalApp.GitTag, internalApp.BuildTime))

	s.logger.Warn("config loaded", zap.String("path", configRealpath))

	// 启动 HTTP API 服务器
	if httpAddr := appConfig.Server.HttpPort; len(httpAddr) > 0 {
		s.logger.Warn("api_router", zap.String("config.server.HttpPort", appConfig.Server.HttpPort))
		s.httpServer = &http.Server{
			Addr:           appConfig.Server.HttpPort,
			Handler:        routers.NewRouter(s.app, s.ut),
			ReadTimeout:    time.Duration(appConfig.Server.ReadTimeout) * time.Second,
			WriteTimeout:   time.Duration(appConfig.Server.WriteTimeout) * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		s.attachHTTPServer("api service", s.httpServer)
	}

	if httpAddr := appConfig.Server.PrivateHttpListen; len(httpAddr) > 0 {
		s.logger.Info("api_router", zap.String("config.server.PrivateHttpListen", appConfig.Server.PrivateHttpListen))
		s.privateHttpServer = &http.Server{
			Addr:           appConfig.Server.PrivateHttpListen,
			Handler:        routers.NewPrivateRouterWithLogger(runMode, s.logger),
			ReadTimeout:    time.Duration(appConfig.Server.ReadTimeout) * time.Second,
			WriteTimeout:   time.Duration(appConfig.Server.WriteTimeout) * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		s.attachHTTPServer("private api service", s.privateHttpServer)
	}

	// 注册 App Container 的优雅关闭
	s.sc.Attach(func(closeSignal <-chan struct{}) error {
		<-closeSignal
		// 使用带超时的优雅关闭
		ctx, cancel := context.WithTimeout(context.Background(), internalApp.DefaultShutdownTimeout)
		defer cancel()

		// 任务仍在使用数据库和写队列
		select {
		case <-s.tasksDone:
		case <-ctx.Done():
			s.logger.Warn("tasks did not stop before app shutdown")
		}

		if err := s.app.Shutdown(ctx); err != nil {
			s.logger.Error("failed to shutdown app container", zap.Error(err))
			return err
		}
		s.logger.Info("App container shutdown gracefully")
		return nil
	})

	return s, nil
}

// attachHTTPServer 启动 HTTP 服务器，监听失败时触发整体关闭
func (s *Server) attachHTTPServer(name string, srv *http.Server) {
	s.sc.Attach(func(closeSignal <-chan struct{}) error {
		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.ListenAndServe()
		}()
		select {
		case err := <-errChan:
			s.logger.Error(name+" err", zap.Error(err))
			s.sc.SendCloseSignal(err)
			return err
		case <-closeSignal:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// 停止 HTTP 服务器
			if err := srv.Shutdown(ctx); err != nil {
				s.logger.Error(name+" shutdown error", zap.Error(err))
			}
			return nil
		}
	})
}

func initScheduler(s *Server) error {
	// 创建任务管理器
	manager := task.NewManager(s.app, s.sc)

	// 注册所有任务(业务层控制)
	if err := manager.RegisterTasks(); err != nil {
		s.logger.Error("failed to register tasks", zap.Error(err))
		return err
	}

	// 启动任务调度器
	s.tasksDone = manager.Done()
	return manager.Start()
}
