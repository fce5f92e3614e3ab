package service

import (
	"context"

	"github.com/haierkeys/fast-diary/internal/domain"
	"github.com/haierkeys/fast-diary/pkg/logger"
	"go.uber.org/zap"
)

// DiaryService 组合条目与设置，对应界面上的保存动作
type DiaryService struct {
	Entries  EntryService
	Settings SettingService
	logger   *zap.Logger
}

func NewDiaryService(entries EntryService, settings SettingService, l *zap.Logger) *DiaryService {
	if l == nil {
		l = zap.NewNop()
	}
	return &DiaryService{Entries: entries, Settings: settings, logger: l}
}

// Save 先写日记，再保存当前字号；日记写失败时不写字号
func (s *DiaryService) Save(ctx context.Context, date domain.Date, text string, fontSize int) error {
	if err := s.Entries.Write(ctx, date, text); err != nil {
		return err
	}
	if err := s.Settings.SetFontSize(ctx, fontSize); err != nil {
		return err
	}
	s.logger.Info("diary saved",
		zap.String(logger.FieldDate, date.String()),
		zap.Int(logger.FieldSize, len(text)),
		zap.Int("fontSize", fontSize),
	)
	return nil
}

// Open 读取某天的日记与当前字号
func (s *DiaryService) Open(ctx context.Context, date domain.Date) (text string, found bool, fontSize int, err error) {
	text, found, err = s.Entries.Read(ctx, date)
	if err != nil {
		return "", false, 0, err
	}
	return text, found, s.Settings.FontSize(ctx), nil
}
