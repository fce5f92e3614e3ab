package service

import (
	"context"

	"github.com/haierkeys/fast-diary/internal/domain"
	"github.com/haierkeys/fast-diary/pkg/code"
	apperrors "github.com/haierkeys/fast-diary/pkg/errors"
	"github.com/haierkeys/fast-diary/pkg/logger"
	"go.uber.org/zap"
)

// SettingService 定义偏好设置业务服务接口
type SettingService interface {
	// FontSize 返回已保存的字号；未设置或读取失败时返回默认值 16
	FontSize(ctx context.Context) int

	// SetFontSize 保存字号，不校验范围
	SetFontSize(ctx context.Context, size int) error
}

// settingService 实现 SettingService 接口
type settingService struct {
	prefRepo domain.PreferenceRepository
	logger   *zap.Logger
}

// NewSettingService 创建 SettingService 实例
func NewSettingService(prefRepo domain.PreferenceRepository, l *zap.Logger) SettingService {
	if l == nil {
		l = zap.NewNop()
	}
	return &settingService{prefRepo: prefRepo, logger: l}
}

func (s *settingService) FontSize(ctx context.Context) int {
	v, found, err := s.prefRepo.GetInt(ctx, domain.FontSizeKey)
	if err != nil {
		settingFallbackTotal.Inc()
		s.logger.Warn("font size read failed, using default",
			zap.String(logger.FieldKey, domain.FontSizeKey),
			zap.Int("default", domain.DefaultFontSize),
			zap.String(logger.FieldMethod, "settingService.FontSize"),
			zap.Error(err),
		)
		return domain.DefaultFontSize
	}
	if !found {
		return domain.DefaultFontSize
	}
	return v
}

func (s *settingService) SetFontSize(ctx context.Context, size int) error {
	err := s.prefRepo.SetInt(ctx, domain.FontSizeKey, size)
	settingWritesTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return apperrors.NewAppError(code.ErrorSettingSave, err)
	}
	return nil
}
