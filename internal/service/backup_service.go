package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/haierkeys/fast-diary/internal/domain"
	"github.com/haierkeys/fast-diary/pkg/code"
	apperrors "github.com/haierkeys/fast-diary/pkg/errors"
	"github.com/haierkeys/fast-diary/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	backupPrefix   = "diary-backup-"
	backupExt      = ".zip"
	backupManifest = "manifest.json"
)

// ArchiveStore 备份归档的存放位置
type ArchiveStore interface {
	PutContent(ctx context.Context, fileKey string, content []byte) error
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, fileKey string) error
}

// BackupServiceConfig 备份服务配置
type BackupServiceConfig struct {
	// Keep 保留最新的归档数量，<= 0 表示不清理
	Keep int
}

// BackupResult 一次备份的结果
type BackupResult struct {
	ID        string    `json:"id"`
	FileKey   string    `json:"fileKey"`
	Entries   int       `json:"entries"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

type manifest struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	FontSize  int       `json:"fontSize"`
	Entries   []string  `json:"entries"`
}

// BackupService 将全部日记打包为 zip 归档
type BackupService interface {
	Run(ctx context.Context) (*BackupResult, error)
}

type backupService struct {
	entryRepo domain.EntryRepository
	settings  SettingService
	store     ArchiveStore
	config    BackupServiceConfig
	sf        *singleflight.Group
	logger    *zap.Logger
	now       func() time.Time
}

// NewBackupService 创建 BackupService 实例
func NewBackupService(entryRepo domain.EntryRepository, settings SettingService, store ArchiveStore, config BackupServiceConfig, l *zap.Logger) BackupService {
	if l == nil {
		l = zap.NewNop()
	}
	return &backupService{
		entryRepo: entryRepo,
		settings:  settings,
		store:     store,
		config:    config,
		sf:        &singleflight.Group{},
		logger:    l,
		now:       time.Now,
	}
}

// Run 执行一次备份，并发触发时共享同一次执行
func (s *backupService) Run(ctx context.Context) (*BackupResult, error) {
	v, err, _ := s.sf.Do("backup", func() (interface{}, error) {
		return s.run(ctx)
	})
	if err != nil {
		return nil, apperrors.NewAppError(code.ErrorBackupFailed, err)
	}
	return v.(*BackupResult), nil
}

func (s *backupService) run(ctx context.Context) (*BackupResult, error) {
	start := s.now()
	id := uuid.NewString()

	dates, err := s.entryRepo.ListDates(ctx)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	m := manifest{ID: id, CreatedAt: start, Entries: make([]string, 0, len(dates))}
	for _, date := range dates {
		entry, found, err := s.entryRepo.Get(ctx, date)
		if err != nil {
			_ = zw.Close()
			return nil, err
		}
		if !found {
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     date.Key(),
			Method:   zip.Deflate,
			Modified: start,
		})
		if err != nil {
			_ = zw.Close()
			return nil, err
		}
		if _, err := w.Write([]byte(entry.Text)); err != nil {
			_ = zw.Close()
			return nil, err
		}
		m.Entries = append(m.Entries, date.Key())
	}
	m.FontSize = s.settings.FontSize(ctx)

	manifestJSON, err := sonic.Marshal(m)
	if err != nil {
		_ = zw.Close()
		return nil, err
	}
	w, err := zw.Create(backupManifest)
	if err != nil {
		_ = zw.Close()
		return nil, err
	}
	if _, err := w.Write(manifestJSON); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	fileKey := fmt.Sprintf("%s%s-%s%s", backupPrefix, start.Format("20060102T150405.000"), id[:8], backupExt)
	if err := s.store.PutContent(ctx, fileKey, buf.Bytes()); err != nil {
		return nil, err
	}

	s.logger.Info("backup created",
		zap.String(logger.FieldFileKey, fileKey),
		zap.Int("entries", len(m.Entries)),
		zap.Int(logger.FieldSize, buf.Len()),
		zap.Duration(logger.FieldDuration, time.Since(start)),
	)

	if err := s.prune(ctx); err != nil {
		s.logger.Warn("backup prune failed", zap.Error(err))
	}

	return &BackupResult{
		ID:        id,
		FileKey:   fileKey,
		Entries:   len(m.Entries),
		Size:      buf.Len(),
		CreatedAt: start,
	}, nil
}

// prune 删除超出保留数量的旧归档
func (s *backupService) prune(ctx context.Context) error {
	if s.config.Keep <= 0 {
		return nil
	}
	keys, err := s.store.List(ctx, backupPrefix)
	if err != nil {
		return err
	}
	archives := keys[:0]
	for _, k := range keys {
		if strings.HasSuffix(k, backupExt) {
			archives = append(archives, k)
		}
	}
	if len(archives) <= s.config.Keep {
		return nil
	}
	sort.Strings(archives)
	for _, k := range archives[:len(archives)-s.config.Keep] {
		if err := s.store.Delete(ctx, k); err != nil {
			return err
		}
		s.logger.Debug("backup pruned", zap.String(logger.FieldFileKey, k))
	}
	return nil
}
