// Package ui 提供界面侧的会话状态，持久化层不依赖本包
package ui

import (
	"context"
	"errors"
	"sync"

	"github.com/haierkeys/fast-diary/internal/domain"
	"github.com/haierkeys/fast-diary/internal/service"
	"github.com/haierkeys/fast-diary/pkg/code"
	apperrors "github.com/haierkeys/fast-diary/pkg/errors"
	"github.com/haierkeys/fast-diary/pkg/logger"
	"go.uber.org/zap"
)

// ErrNoDateSelected 保存前尚未选择日期
var ErrNoDateSelected = errors.New("no diary date selected")

// Presenter 界面能力：选择日期与提示消息
type Presenter interface {
	PickDate(ctx context.Context) (domain.Date, error)
	Notify(message string)
}

// Runner 在后台执行任务并等待结果
type Runner interface {
	Submit(ctx context.Context, fn func(context.Context) error) error
}

// Session 一次编辑会话：当前日期、文本与字号
type Session struct {
	diary     *service.DiaryService
	presenter Presenter
	runner    Runner
	logger    *zap.Logger

	mu       sync.Mutex
	date     domain.Date
	selected bool
	text     string
	fontSize int
}

func NewSession(diary *service.DiaryService, presenter Presenter, runner Runner, l *zap.Logger) *Session {
	if l == nil {
		l = zap.NewNop()
	}
	return &Session{
		diary:     diary,
		presenter: presenter,
		runner:    runner,
		logger:    l,
		fontSize:  domain.DefaultFontSize,
	}
}

// Open 选择日期并载入该日已有内容与保存的字号
func (s *Session) Open(ctx context.Context) error {
	date, err := s.presenter.PickDate(ctx)
	if err != nil {
		return err
	}
	if err := date.Validate(); err != nil {
		return apperrors.NewAppError(code.ErrorInvalidDate, err)
	}

	text, _, size, err := s.diary.Open(ctx, date)
	if err != nil {
		s.presenter.Notify(failureMessage(err))
		return err
	}

	s.mu.Lock()
	s.date = date
	s.selected = true
	s.text = text
	s.fontSize = domain.ClampFontSize(size)
	s.mu.Unlock()
	return nil
}

func (s *Session) SetText(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *Session) Date() (domain.Date, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.date, s.selected
}

func (s *Session) FontSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fontSize
}

// AdjustFontSize 设置字号，限制在 [12, 30]，只影响显示，保存时才落盘
func (s *Session) AdjustFontSize(size int) int {
	size = domain.ClampFontSize(size)
	s.mu.Lock()
	s.fontSize = size
	s.mu.Unlock()
	return size
}

// Save 在后台保存当前文本与字号，并通过 Presenter 提示结果
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	date, selected, text, size := s.date, s.selected, s.text, s.fontSize
	s.mu.Unlock()

	if !selected {
		s.presenter.Notify(code.ErrorInvalidDate.Msg())
		return ErrNoDateSelected
	}

	err := s.runner.Submit(ctx, func(ctx context.Context) error {
		return s.diary.Save(ctx, date, text, size)
	})
	if err != nil {
		s.logger.Error("diary save failed",
			zap.String(logger.FieldDate, date.String()),
			zap.String(logger.FieldAction, "save"),
			zap.Error(err),
		)
		s.presenter.Notify(failureMessage(err))
		return err
	}

	s.presenter.Notify(code.SuccessEntrySave.Msg())
	return nil
}

func failureMessage(err error) string {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return code.Failed.Msg()
}
