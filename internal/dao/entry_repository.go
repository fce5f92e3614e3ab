package dao

import (
	"context"
	"sort"
	"time"

	"github.com/haierkeys/fast-diary/internal/domain"
	"github.com/haierkeys/fast-diary/pkg/logger"
	"github.com/haierkeys/fast-diary/pkg/storage"
	"go.uber.org/zap"
)

// entryRepository 实现 domain.EntryRepository 接口，每个日期一个存储对象
type entryRepository struct {
	dao *Dao
}

// NewEntryRepository 创建 EntryRepository 实例
func NewEntryRepository(dao *Dao) domain.EntryRepository {
	return &entryRepository{dao: dao}
}

// Save 写入日记全文，覆盖同日期的旧内容
func (r *entryRepository) Save(ctx context.Context, date domain.Date, text string) error {
	key := date.Key()
	start := time.Now()

	err := r.dao.ExecuteWrite(ctx, key, func() error {
		return r.dao.Storage.PutContent(ctx, key, []byte(text))
	})
	if err != nil {
		r.dao.Logger().Error("entry save failed",
			zap.String(logger.FieldDate, date.String()),
			zap.String(logger.FieldFileKey, key),
			zap.String(logger.FieldMethod, "entryRepository.Save"),
			zap.Error(err),
		)
		return err
	}

	r.dao.Logger().Debug("entry saved",
		zap.String(logger.FieldDate, date.String()),
		zap.Int(logger.FieldSize, len(text)),
		zap.Duration(logger.FieldDuration, time.Since(start)),
	)
	return nil
}

// Get 读取日记，不存在时返回 found == false
func (r *entryRepository) Get(ctx context.Context, date domain.Date) (*domain.Entry, bool, error) {
	content, err := r.dao.Storage.GetContent(ctx, date.Key())
	if err != nil {
		if storage.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &domain.Entry{Date: date, Text: string(content)}, true, nil
}

// ListDates 列出所有日记日期，无法识别的文件名被忽略
func (r *entryRepository) ListDates(ctx context.Context) ([]domain.Date, error) {
	keys, err := r.dao.Storage.List(ctx, domain.EntryKeyPrefix)
	if err != nil {
		return nil, err
	}

	dates := make([]domain.Date, 0, len(keys))
	for _, key := range keys {
		if d, ok := domain.ParseKey(key); ok {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates, nil
}
