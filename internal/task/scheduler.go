package task

import (
	"context"
	"sync"

	"github.com/haierkeys/fast-diary/pkg/safe_close"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	Spec() string                  // cron 表达式，为空则只在启动时执行
	IsStartupRun() bool            // 是否立即执行一次
}

// Scheduler 任务调度器
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
	cron   *cron.Cron

	running sync.WaitGroup // 启动时执行的任务
	done    chan struct{}
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		sc:     sc,
		// 同一任务未结束时跳过本轮
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		done: make(chan struct{}),
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Tasks 返回已添加的任务
func (s *Scheduler) Tasks() []Task {
	return s.tasks
}

// Start 启动所有任务，收到关闭信号后停止 cron 并等待运行中的任务
func (s *Scheduler) Start() error {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		close(s.done)
		return nil
	}

	s.logger.Info("tasks starting ", zap.Int("count", len(s.tasks)))

	ctx, cancel := context.WithCancel(context.Background())

	for _, task := range s.tasks {
		if err := s.startTask(ctx, task); err != nil {
			cancel()
			s.running.Wait()
			return err
		}
	}

	s.cron.Start()

	s.sc.Attach(func(closeSignal <-chan struct{}) error {
		<-closeSignal
		cancel()
		<-s.cron.Stop().Done()
		s.running.Wait()
		s.logger.Info("tasks stopped", zap.Int("count", len(s.tasks)))
		close(s.done)
		return nil
	})
	return nil
}

// Done 在所有任务停止后关闭，之后才能释放任务依赖的资源
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// startTask 启动单个任务
func (s *Scheduler) startTask(ctx context.Context, task Task) error {
	if task.IsStartupRun() {
		s.logger.Info("task running", zap.String("name", task.Name()), zap.Bool("startupRun", true))
		s.running.Add(1)
		go func() {
			defer s.running.Done()
			s.run(ctx, task, "startupRun")
		}()
	}

	if task.Spec() == "" {
		return nil
	}

	_, err := s.cron.AddFunc(task.Spec(), func() {
		s.logger.Info("task running", zap.String("name", task.Name()), zap.Bool("loopRun", true))
		s.run(ctx, task, "loopRun")
	})
	if err != nil {
		s.logger.Error("task schedule invalid",
			zap.String("name", task.Name()),
			zap.String("spec", task.Spec()),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *Scheduler) run(ctx context.Context, task Task, runType string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task "+runType+" panic",
				zap.String("name", task.Name()),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	if err := task.Run(ctx); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.Bool(runType, true),
			zap.Error(err))
	}
}
