// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/fast-diary/pkg/fileurl"
	"github.com/haierkeys/fast-diary/pkg/storage"
	"github.com/haierkeys/fast-diary/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Database 数据库配置
type Database struct {
	// 数据库类型：sqlite, mysql, postgres
	Type        string `yaml:"type" default:"sqlite"`
	Path        string `yaml:"path" default:"storage/database/diary.db"`
	UserName    string `yaml:"username"`
	Password    string `yaml:"password"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Name        string `yaml:"name"`
	TablePrefix string `yaml:"table-prefix"`
	Charset     string `yaml:"charset" default:"utf8mb4"`
	ParseTime   bool   `yaml:"parse-time" default:"true"`
	SSLMode     string `yaml:"ssl-mode" default:"disable"`
	// 连接池
	MaxIdleConns int  `yaml:"max-idle-conns" default:"10"`
	MaxOpenConns int  `yaml:"max-open-conns" default:"100"`
	Debug        bool `yaml:"debug"`
}

type Dao struct {
	Db         *gorm.DB
	Storage    storage.Storager
	writeQueue *writequeue.Manager
	logger     *zap.Logger
}

func New(db *gorm.DB, store storage.Storager, wq *writequeue.Manager, l *zap.Logger) *Dao {
	if l == nil {
		l = zap.NewNop()
	}
	return &Dao{Db: db, Storage: store, writeQueue: wq, logger: l}
}

func (d *Dao) Logger() *zap.Logger {
	return d.logger
}

// ExecuteWrite 将同一 key 的写操作串行化
func (d *Dao) ExecuteWrite(ctx context.Context, key string, fn func() error) error {
	if d.writeQueue == nil {
		return fn()
	}
	return d.writeQueue.Execute(ctx, key, fn)
}

func NewDBEngine(c Database) (*gorm.DB, error) {
	dialector, err := useDialector(c)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true, // 使用单数表名
		},
	})
	if err != nil {
		return nil, err
	}
	if c.Debug {
		db.Config.Logger = logger.Default.LogMode(logger.Info)
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if c.Type == "sqlite" {
		// SQLite 只允许一个写连接，统一走单连接避免 SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		// SetMaxIdleConns 用于设置连接池中空闲连接的最大数量。
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
		// SetMaxOpenConns 设置打开数据库连接的最大数量。
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}

	// SetConnMaxLifetime 设置了连接可复用的最大时间。
	sqlDB.SetConnMaxLifetime(time.Minute * 10)

	return db, nil
}

// CloseDB 关闭底层连接
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func useDialector(c Database) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Port,
			c.Name,
			c.Charset,
			c.ParseTime,
		)), nil
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=Local",
			c.Host,
			c.Port,
			c.UserName,
			c.Password,
			c.Name,
			c.SSLMode,
		)), nil
	case "sqlite":
		dir := filepath.Dir(c.Path)
		if !fileurl.IsExist(dir) {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(c.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)"), nil
	}
	return nil, fmt.Errorf("unsupported database type: %s", c.Type)
}
