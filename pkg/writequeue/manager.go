// Package writequeue provides per-key write queues
// Package writequeue 提供按键划分的写队列
// Writes sharing a key run one at a time in FIFO order; different keys run independently
// 同一个键的写操作按 FIFO 顺序串行执行，不同键之间互不影响
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Error definitions
// 错误定义
var (
	// ErrWriteQueueFull returned when the queue of a key is full
	// ErrWriteQueueFull 当某个键的写队列已满时返回
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed returned when the manager is closed
	// ErrWriteQueueClosed 当写队列管理器已关闭时返回
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout returned when a write does not finish in time
	// ErrWriteTimeout 当写操作超时时返回
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config write queue configuration
// Config 写队列配置
type Config struct {
	// QueueCapacity per-key queue capacity, default 100
	// QueueCapacity 每个键的队列容量，默认 100
	QueueCapacity int
	// WriteTimeout write operation timeout, default 30 seconds
	// WriteTimeout 写操作超时时间，默认 30 秒
	WriteTimeout time.Duration
	// IdleTimeout idle cleanup timeout, default 10 minutes
	// IdleTimeout 空闲清理超时时间，默认 10 分钟
	IdleTimeout time.Duration
}

// DefaultConfig returns default configuration
// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

const (
	opQueued int32 = iota
	opClaimed
	opAbandoned
)

// writeOp is claimed by the worker or abandoned by the caller, never both
// writeOp 要么被 worker 领取，要么被调用方放弃，二者只会发生其一
type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
	state  atomic.Int32
}

// keyQueue single key write queue
// keyQueue 单个键的写队列
type keyQueue struct {
	key string
	ch  chan *writeOp

	// guarded by Manager.mu
	pending  int
	lastUsed time.Time

	stopCh chan struct{}
	done   chan struct{}
}

// Manager manages the write queues of all keys
// Manager 管理所有键的写队列
type Manager struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	queues map[string]*keyQueue
	closed bool

	cleanupWg   sync.WaitGroup
	cleanupDone chan struct{}
}

// New creates a write queue manager
// New 创建写队列管理器
// cfg: configuration, if nil use default configuration
// cfg: 配置，如果为 nil 则使用默认配置
// logger: zap logger, if nil use nop logger
// logger: zap 日志器，如果为 nil 则使用 nop logger
func New(cfg *Config, logger *zap.Logger) *Manager {
	if cfg == nil {
		defaultCfg := DefaultConfig()
		cfg = &defaultCfg
	}
	c := *cfg
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 100
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 10 * time.Minute
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config:      c,
		logger:      logger,
		queues:      make(map[string]*keyQueue),
		cleanupDone: make(chan struct{}),
	}

	m.cleanupWg.Add(1)
	go m.cleanupIdleQueues()

	m.logger.Debug("write queue manager started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout),
		zap.Duration("idleTimeout", c.IdleTimeout))

	return m
}

// Execute runs fn on the queue of key and waits for its result
// Execute 在 key 对应的队列上执行 fn 并等待结果
func (m *Manager) Execute(ctx context.Context, key string, fn func() error) error {
	op := &writeOp{
		ctx:    ctx,
		fn:     fn,
		result: make(chan error, 1),
	}

	// enqueue under mu so Shutdown cannot stop the worker between the check and the send
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrWriteQueueClosed
	}
	queue := m.queues[key]
	if queue == nil {
		queue = m.startQueue(key)
	}
	select {
	case queue.ch <- op:
		queue.pending++
		queue.lastUsed = time.Now()
	default:
		m.mu.Unlock()
		return ErrWriteQueueFull
	}
	m.mu.Unlock()

	timeout := m.config.WriteTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var waitErr error
	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		waitErr = ctx.Err()
	case <-timer.C:
		waitErr = ErrWriteTimeout
	}

	// an op the worker already claimed reports its real outcome
	if op.state.CompareAndSwap(opQueued, opAbandoned) {
		return waitErr
	}
	return <-op.result
}

// startQueue must be called with m.mu held
func (m *Manager) startQueue(key string) *keyQueue {
	queue := &keyQueue{
		key:    key,
		ch:     make(chan *writeOp, m.config.QueueCapacity),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	m.queues[key] = queue
	go m.worker(queue)

	m.logger.Debug("created write queue",
		zap.String("key", key),
		zap.Int("capacity", m.config.QueueCapacity))
	return queue
}

func (m *Manager) release(queue *keyQueue) {
	m.mu.Lock()
	queue.pending--
	queue.lastUsed = time.Now()
	m.mu.Unlock()
}

func (m *Manager) worker(queue *keyQueue) {
	defer close(queue.done)

	for {
		select {
		case op := <-queue.ch:
			m.executeOp(queue, op)
		case <-queue.stopCh:
			// drain whatever was accepted before the stop
			for {
				select {
				case op := <-queue.ch:
					m.executeOp(queue, op)
				default:
					m.logger.Debug("write queue worker stopped", zap.String("key", queue.key))
					return
				}
			}
		}
	}
}

func (m *Manager) executeOp(queue *keyQueue, op *writeOp) {
	defer m.release(queue)

	if !op.state.CompareAndSwap(opQueued, opClaimed) {
		m.logger.Debug("skipping abandoned write", zap.String("key", queue.key))
		return
	}
	if err := op.ctx.Err(); err != nil {
		op.result <- err
		return
	}
	op.result <- op.fn()
}

func (m *Manager) cleanupIdleQueues() {
	defer m.cleanupWg.Done()

	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.cleanupDone:
			return
		case <-ticker.C:
			m.doCleanup()
		}
	}
}

// doCleanup stops queues that have been idle longer than IdleTimeout
// doCleanup 停止空闲超过 IdleTimeout 的队列
func (m *Manager) doCleanup() {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, queue := range m.queues {
		if queue.pending == 0 && now.Sub(queue.lastUsed) > m.config.IdleTimeout {
			m.logger.Debug("cleaning up idle write queue",
				zap.String("key", key),
				zap.Duration("idleTime", now.Sub(queue.lastUsed)))
			close(queue.stopCh)
			delete(m.queues, key)
		}
	}
}

// Shutdown closes the manager and waits for accepted writes to finish
// Shutdown 关闭写队列管理器，等待已接受的写操作完成
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	queues := make([]*keyQueue, 0, len(m.queues))
	for key, queue := range m.queues {
		close(queue.stopCh)
		queues = append(queues, queue)
		delete(m.queues, key)
	}
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down", zap.Int("queues", len(queues)))
	close(m.cleanupDone)

	done := make(chan struct{})
	go func() {
		for _, queue := range queues {
			<-queue.done
		}
		m.cleanupWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}

// QueueCount returns current active queue count
// QueueCount 返回当前活跃队列数量
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues)
}

// QueuedCount returns number of operations waiting or running for key
// QueuedCount 返回指定键队列中等待或执行中的操作数
func (m *Manager) QueuedCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if queue, ok := m.queues[key]; ok {
		return queue.pending
	}
	return 0
}

// IsClosed 返回管理器是否已关闭
func (m *Manager) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
