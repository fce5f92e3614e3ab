package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	port    string // 启动端口
	runMode string // 启动模式
	config  string // 配置文件路径
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run local diary API service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prepareEnv(rootFlags); err != nil {
				bootstrapLogger.Error("prepare env err", zap.Error(err))
				return err
			}
			runEnv.config = rootFlags.config

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return err
			}

			// 配置文件变化时重建 server
			restart := make(chan string, 1)
			w := watcher.New()
			// 每个监听周期至多接收 1 个事件
			w.SetMaxEvents(1)
			// 只通知写入事件
			w.FilterOps(watcher.Write)

			go func() {
				for {
					select {
					case event := <-w.Event:
						select {
						case restart <- event.Path:
						default:
						}
					case err := <-w.Error:
						bootstrapLogger.Error("config watcher error", zap.Error(err))
					case <-w.Closed:
						return
					}
				}
			}()

			if err := w.Add(runEnv.config); err != nil {
				s.logger.Error("config watcher file error", zap.Error(err))
			}
			go func() {
				if err := w.Start(time.Second * 5); err != nil {
					s.logger.Error("config watcher start error", zap.Error(err))
				}
			}()
			defer w.Close()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			for {
				select {
				case <-quit:
					s.logger.Info("Received shutdown signal, initiating graceful shutdown...")
					s.sc.SendCloseSignal(nil)
					if err := s.sc.WaitClosed(); err != nil {
						s.logger.Error("Shutdown completed with error", zap.Error(err))
					} else {
						s.logger.Info("Service has been shut down gracefully.")
					}
					return nil

				case <-s.sc.CloseSignal():
					// 监听失败等内部错误触发的关闭
					err := s.sc.WaitClosed()
					s.logger.Error("Service stopped", zap.Error(err))
					return err

				case path := <-restart:
					s.logger.Info("config watcher change", zap.String("file", path))
					// 先释放端口和数据库，再按新配置重建
					s.sc.SendCloseSignal(nil)
					if err := s.sc.WaitClosed(); err != nil {
						s.logger.Warn("previous server closed with error", zap.Error(err))
					}
					ns, err := NewServer(runEnv)
					if err != nil {
						bootstrapLogger.Error("service restart err", zap.Error(err))
						return err
					}
					s = ns
				}
			}
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
}
