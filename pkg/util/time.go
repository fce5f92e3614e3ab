package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a duration that may also use a day suffix, e.g. 7d
// ParseDuration 解析时间长度，额外支持天（d）后缀，例如 7d
// A bare number is treated as seconds
// 纯数字按秒处理
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}
