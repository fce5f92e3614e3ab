// Package domain 定义领域模型和接口
package domain

import "context"

// EntryRepository 日记条目仓储接口
type EntryRepository interface {
	// Save 以截断方式写入当天全部文本，同一日期的写入串行执行
	Save(ctx context.Context, date Date, text string) error

	// Get 读取日记，未写过的日期返回 found == false 且 err == nil
	Get(ctx context.Context, date Date) (entry *Entry, found bool, err error)

	// ListDates 按日期升序返回所有已存储的日记日期
	ListDates(ctx context.Context) ([]Date, error)
}

// PreferenceRepository 偏好仓储接口
type PreferenceRepository interface {
	// GetInt 读取整型偏好，未设置时 found == false
	GetInt(ctx context.Context, key string) (value int, found bool, err error)

	// SetInt 写入整型偏好，覆盖旧值
	SetInt(ctx context.Context, key string, value int) error
}
