package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模型名迁移表结构
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "UserPreference":
		return db.AutoMigrate(UserPreference{})
	}
	return nil
}
