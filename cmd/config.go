package cmd

import (
	"os"

	internalApp "github.com/haierkeys/fast-diary/internal/app"
	"github.com/haierkeys/fast-diary/internal/dao"
	"github.com/haierkeys/fast-diary/pkg/fileurl"
	"github.com/haierkeys/fast-diary/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// prepareEnv 切换工作目录并确定配置文件路径，找不到配置时写出内置默认配置
func prepareEnv(g *globalFlags) error {
	if len(g.dir) > 0 {
		if err := os.Chdir(g.dir); err != nil {
			bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
			return err
		}
		bootstrapLogger.Debug("working directory changed", zap.String("dir", g.dir))
	}

	if len(g.config) > 0 {
		return nil
	}

	switch {
	case fileurl.IsExist("config/config-dev.yaml"):
		g.config = "config/config-dev.yaml"
	case fileurl.IsExist("config.yaml"):
		g.config = "config.yaml"
	case fileurl.IsExist("config/config.yaml"):
		g.config = "config/config.yaml"
	default:
		bootstrapLogger.Warn("config file not found, creating default config")
		g.config = "config/config.yaml"

		if err := fileurl.CreatePath(g.config, 0o700); err != nil {
			return errors.Wrap(err, "config file auto create")
		}
		if err := os.WriteFile(g.config, []byte(configDefault), 0o600); err != nil {
			return errors.Wrap(err, "config file auto create")
		}
		bootstrapLogger.Info("config file auto create successfully", zap.String("path", g.config))
	}
	return nil
}

// openApp 加载配置并创建 App Container，供命令行子命令使用
// 命令行模式下终端只输出 warn 以上日志
func openApp(g *globalFlags) (*internalApp.App, error) {
	if err := prepareEnv(g); err != nil {
		return nil, err
	}

	cfg, _, err := internalApp.LoadConfig(g.config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	level := "warn"
	if os.Getenv("DEBUG") != "" {
		level = "debug"
	}
	lg, err := logger.NewLogger(logger.Config{
		Level:      level,
		File:       cfg.Log.File,
		Production: cfg.Log.Production,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to init logger")
	}

	db, err := dao.NewDBEngine(cfg.Database)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	a, err := internalApp.NewApp(cfg, lg, db)
	if err != nil {
		_ = dao.CloseDB(db)
		return nil, err
	}
	return a, nil
}
