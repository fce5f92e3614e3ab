// Package domain 定义领域模型和接口
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/haierkeys/fast-diary/pkg/code"
)

const (
	// EntryKeyPrefix 日记存储键前缀
	EntryKeyPrefix = "diary_"
	// EntryKeyExt 日记存储键扩展名
	EntryKeyExt = ".txt"
	// DateLayout 日期的文本格式
	DateLayout = "2006-01-02"
)

// Date 日历日期，不含时间部分
type Date struct {
	Year  int
	Month int
	Day   int
}

// NewDate 校验并创建日期，不存在的日期（如 2023-02-29）返回 ErrorInvalidDate
func NewDate(year, month, day int) (Date, error) {
	if year < 1 || year > 9999 {
		return Date{}, code.ErrorInvalidDate.WithDetails(fmt.Sprintf("year %d out of range", year))
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, code.ErrorInvalidDate.WithDetails(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// DateOf 取 t 所在时区的日历日期，丢弃时分秒
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, code.ErrorInvalidDate.WithDetails(s)
	}
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseKey 从存储键还原日期，非日记键返回 false
func ParseKey(key string) (Date, bool) {
	if !strings.HasPrefix(key, EntryKeyPrefix) || !strings.HasSuffix(key, EntryKeyExt) {
		return Date{}, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(key, EntryKeyPrefix), EntryKeyExt)
	if len(raw) != len(DateLayout) {
		return Date{}, false
	}
	d, err := ParseDate(raw)
	if err != nil {
		return Date{}, false
	}
	return d, true
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Key 返回日期对应的存储键，例如 diary_2024-03-15.txt
func (d Date) Key() string {
	return EntryKeyPrefix + d.String() + EntryKeyExt
}

// Time 返回当天 UTC 零点
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// Before 按日历顺序比较
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Validate 检查日期是否真实存在
func (d Date) Validate() error {
	_, err := NewDate(d.Year, d.Month, d.Day)
	return err
}

// Entry 日记条目领域模型
type Entry struct {
	Date Date
	Text string
}
