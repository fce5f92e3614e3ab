package code

import (
	"errors"
	"strings"
	"sync/atomic"
)

// lang stores the English and Chinese text of a code
// lang 存储错误码的英文和中文文本
type lang struct {
	en    string
	zh_cn string
}

const FALLBACK_LNG = "en"

var supported = []string{"en", "zh_cn"}

// lng is read while package-level codes are built, before any init runs
var lng atomic.Value

// GetMessage returns the text for the active language, falling back to English
// GetMessage 返回当前语言的文本，缺失时回退到英文
func (l lang) GetMessage() string {
	if GetGlobalDefaultLang() == "zh_cn" && l.zh_cn != "" {
		return l.zh_cn
	}
	return l.en
}

// GetSupportedLanguages 返回支持的语言列表
func GetSupportedLanguages() []string {
	return append([]string(nil), supported...)
}

// SetGlobalDefaultLang sets the message language; unknown values reset to English
// SetGlobalDefaultLang 设置全局语言，无效值回退到英文
func SetGlobalDefaultLang(language string) error {
	language = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(language)), "-", "_")
	if language == "zh" {
		language = "zh_cn"
	}
	for _, l := range supported {
		if l == language {
			lng.Store(language)
			return nil
		}
	}
	lng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang 获取全局语言
func GetGlobalDefaultLang() string {
	if v, ok := lng.Load().(string); ok {
		return v
	}
	return FALLBACK_LNG
}
