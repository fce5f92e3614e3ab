// Package service 实现业务逻辑层
package service

import (
	"context"
	"time"

	"github.com/haierkeys/fast-diary/internal/domain"
	"github.com/haierkeys/fast-diary/pkg/code"
	apperrors "github.com/haierkeys/fast-diary/pkg/errors"
	"github.com/haierkeys/fast-diary/pkg/logger"
	"go.uber.org/zap"
)

// EntryService 定义日记条目业务服务接口
type EntryService interface {
	// Write 写入某天的日记全文，失败时返回 ErrorEntrySave
	Write(ctx context.Context, date domain.Date, text string) error

	// Read 读取某天的日记，未写过时 found == false
	Read(ctx context.Context, date domain.Date) (text string, found bool, err error)

	// ListDates 列出所有写过日记的日期
	ListDates(ctx context.Context) ([]domain.Date, error)
}

// entryService 实现 EntryService 接口
type entryService struct {
	entryRepo domain.EntryRepository
	logger    *zap.Logger
}

// NewEntryService 创建 EntryService 实例
func NewEntryService(entryRepo domain.EntryRepository, l *zap.Logger) EntryService {
	if l == nil {
		l = zap.NewNop()
	}
	return &entryService{
		entryRepo: entryRepo,
		logger:    l,
	}
}

func (s *entryService) Write(ctx context.Context, date domain.Date, text string) error {
	if err := date.Validate(); err != nil {
		return apperrors.NewAppError(code.ErrorInvalidDate, err)
	}

	start := time.Now()
	err := s.entryRepo.Save(ctx, date, text)
	entryWriteDuration.Observe(time.Since(start).Seconds())
	entryOpsTotal.WithLabelValues("write", resultLabel(err)).Inc()
	if err != nil {
		return apperrors.NewAppError(code.ErrorEntrySave, err)
	}
	entryWriteBytes.Add(float64(len(text)))
	return nil
}

func (s *entryService) Read(ctx context.Context, date domain.Date) (string, bool, error) {
	if err := date.Validate(); err != nil {
		return "", false, apperrors.NewAppError(code.ErrorInvalidDate, err)
	}

	entry, found, err := s.entryRepo.Get(ctx, date)
	entryOpsTotal.WithLabelValues("read", resultLabel(err)).Inc()
	if err != nil {
		s.logger.Warn("entry read failed",
			zap.String(logger.FieldDate, date.String()),
			zap.String(logger.FieldMethod, "entryService.Read"),
			zap.Error(err),
		)
		return "", false, apperrors.NewAppError(code.ErrorEntryRead, err)
	}

	if !found {
		return "", false, nil
	}
	return entry.Text, true, nil
}

func (s *entryService) ListDates(ctx context.Context) ([]domain.Date, error) {
	dates, err := s.entryRepo.ListDates(ctx)
	entryOpsTotal.WithLabelValues("list", resultLabel(err)).Inc()
	if err != nil {
		return nil, apperrors.NewAppError(code.ErrorEntryList, err)
	}
	return dates, nil
}
