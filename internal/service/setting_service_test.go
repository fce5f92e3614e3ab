package service

import (
	"context"
	"testing"

	"github.com/haierkeys/fast-diary/internal/domain"
	"github.com/haierkeys/fast-diary/pkg/code"
	apperrors "github.com/haierkeys/fast-diary/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSettingService_DefaultWhenUnset(t *testing.T) {
	svc := NewSettingService(newFakePrefRepo(), nil)
	assert.Equal(t, domain.DefaultFontSize, svc.FontSize(context.Background()))
}

func TestSettingService_SetThenGet(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingService(newFakePrefRepo(), nil)

	require.NoError(t, svc.SetFontSize(ctx, 24))
	assert.Equal(t, 24, svc.FontSize(ctx))

	// 存储层接受范围外的值
	require.NoError(t, svc.SetFontSize(ctx, 99))
	assert.Equal(t, 99, svc.FontSize(ctx))
}

func TestSettingService_ReadErrorFallsBackAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := newFakePrefRepo()
	repo.values[domain.FontSizeKey] = 20
	repo.getErr = errDiskFull

	svc := NewSettingService(repo, zap.New(core))
	assert.Equal(t, domain.DefaultFontSize, svc.FontSize(context.Background()))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, domain.FontSizeKey, entry.ContextMap()["key"])
}

func TestSettingService_SetErrorSurfaces(t *testing.T) {
	repo := newFakePrefRepo()
	repo.setErr = errDiskFull
	svc := NewSettingService(repo, nil)

	err := svc.SetFontSize(context.Background(), 18)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, code.ErrorSettingSave))
}
