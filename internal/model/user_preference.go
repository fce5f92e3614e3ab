package model

import "github.com/haierkeys/fast-diary/pkg/timex"

const TableNameUserPreference = "user_preferences"

// UserPreference 键值偏好，值以十进制文本保存
type UserPreference struct {
	Key       string     `gorm:"column:pref_key;primaryKey;size:64" json:"key" form:"key"`
	Value     string     `gorm:"column:value;type:varchar(255);not null;default:''" json:"value" form:"value"`
	UpdatedAt timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName UserPreference's table name
func (*UserPreference) TableName() string {
	return TableNameUserPreference
}
