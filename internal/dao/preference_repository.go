package dao

import (
	"context"
	"strconv"
	"sync"

	"github.com/haierkeys/fast-diary/internal/domain"
	"github.com/haierkeys/fast-diary/internal/model"
	"github.com/haierkeys/fast-diary/pkg/logger"
	"github.com/haierkeys/fast-diary/pkg/timex"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// preferenceRepository 实现 domain.PreferenceRepository 接口
type preferenceRepository struct {
	dao *Dao

	migrateOnce sync.Once
	migrateErr  error
}

// NewPreferenceRepository 创建 PreferenceRepository 实例
func NewPreferenceRepository(dao *Dao) domain.PreferenceRepository {
	return &preferenceRepository{dao: dao}
}

// db 首次使用时迁移表结构
func (r *preferenceRepository) db(ctx context.Context) (*gorm.DB, error) {
	r.migrateOnce.Do(func() {
		r.migrateErr = model.AutoMigrate(r.dao.Db, "UserPreference")
	})
	if r.migrateErr != nil {
		return nil, errors.Wrap(r.migrateErr, "migrate user_preferences")
	}
	return r.dao.Db.WithContext(ctx), nil
}

// GetInt 读取整型偏好
func (r *preferenceRepository) GetInt(ctx context.Context, key string) (int, bool, error) {
	db, err := r.db(ctx)
	if err != nil {
		return 0, false, err
	}

	var m model.UserPreference
	err = db.Where(&model.UserPreference{Key: key}).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "get preference")
	}

	v, err := strconv.Atoi(m.Value)
	if err != nil {
		return 0, false, errors.Wrapf(err, "preference %s holds non-integer value", key)
	}
	return v, true, nil
}

// SetInt 写入整型偏好，单条语句 upsert，读者只会看到旧值或新值
func (r *preferenceRepository) SetInt(ctx context.Context, key string, value int) error {
	return r.dao.ExecuteWrite(ctx, "preference:"+key, func() error {
		db, err := r.db(ctx)
		if err != nil {
			return err
		}
		m := &model.UserPreference{
			Key:       key,
			Value:     strconv.Itoa(value),
			UpdatedAt: timex.Now(),
		}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pref_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(m).Error
		if err != nil {
			r.dao.Logger().Error("preference save failed",
				zap.String(logger.FieldKey, key),
				zap.String(logger.FieldMethod, "preferenceRepository.SetInt"),
				zap.Error(err),
			)
			return errors.Wrap(err, "set preference")
		}
		return nil
	})
}
