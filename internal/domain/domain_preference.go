package domain

const (
	// PreferenceStoreName 偏好存储名称
	PreferenceStoreName = "user_preferences"
	// FontSizeKey 字号偏好键
	FontSizeKey = "font_size"

	DefaultFontSize = 16
	// MinFontSize/MaxFontSize 只约束界面输入，存储层不校验
	MinFontSize = 12
	MaxFontSize = 30
)

// ClampFontSize 将字号限制在界面允许的范围内
func ClampFontSize(v int) int {
	if v < MinFontSize {
		return MinFontSize
	}
	if v > MaxFontSize {
		return MaxFontSize
	}
	return v
}
