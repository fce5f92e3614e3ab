// Package safe_close 协调多个后台组件的统一关闭
package safe_close

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// SafeClose 所有组件共享一个关闭信号；任一组件出错时可触发整体关闭
type SafeClose struct {
	closeSignal chan struct{}
	once        sync.Once

	mu  sync.Mutex
	err error

	g errgroup.Group
}

func NewSafeClose() *SafeClose {
	return &SafeClose{closeSignal: make(chan struct{})}
}

// Attach 启动一个组件，组件应在 closeSignal 关闭后返回
func (s *SafeClose) Attach(fn func(closeSignal <-chan struct{}) error) {
	s.g.Go(func() error {
		return fn(s.closeSignal)
	})
}

// SendCloseSignal 发送关闭信号，只有第一次调用生效；err 为触发关闭的原因
func (s *SafeClose) SendCloseSignal(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.closeSignal)
	})
}

// CloseSignal 返回关闭信号通道
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closeSignal
}

// WaitClosed 等待所有组件退出，返回触发关闭的原因或第一个组件错误
func (s *SafeClose) WaitClosed() error {
	gErr := s.g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	return gErr
}
