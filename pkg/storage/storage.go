package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/haierkeys/fast-diary/pkg/code"
	"github.com/haierkeys/fast-diary/pkg/storage/aliyun_oss"
	"github.com/haierkeys/fast-diary/pkg/storage/aws_s3"
	"github.com/haierkeys/fast-diary/pkg/storage/local_fs"
	"github.com/haierkeys/fast-diary/pkg/storage/webdav"
	"go.uber.org/zap"
)

type Type = string
type CloudType = Type

const OSS CloudType = "oss"
const R2 CloudType = "r2"
const S3 CloudType = "s3"
const LOCAL Type = "localfs"
const MinIO CloudType = "minio"
const WebDAV CloudType = "webdav"

var StorageTypeMap = map[Type]bool{
	OSS:    true,
	R2:     true,
	S3:     true,
	LOCAL:  true,
	MinIO:  true,
	WebDAV: true,
}

var CloudStorageTypeMap = map[Type]bool{
	OSS:   true,
	R2:    true,
	S3:    true,
	MinIO: true,
}

// Config 统一存储配置
// Config Unified storage configuration
type Config struct {
	Type Type `yaml:"type" default:"localfs"`

	// Common settings
	IsEnabled  bool   `yaml:"is-enable" default:"true"`
	CustomPath string `yaml:"custom-path"`

	// Cloud Storage (S3/OSS/MinIO/R2)
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	AccountID       string `yaml:"account-id"` // Cloudflare R2 specific

	// WebDAV
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Local FS
	SavePath string `yaml:"save-path" default:"storage/diary"`
}

// Storager 是条目内容的存储后端。
// 缺失的对象以 fs.ErrNotExist 报告（可能被包装）。
type Storager interface {
	// PutContent 原子替换 fileKey 的全部内容
	PutContent(ctx context.Context, fileKey string, content []byte) error
	// GetContent 读取 fileKey 的全部内容
	GetContent(ctx context.Context, fileKey string) ([]byte, error)
	// List 返回以 prefix 开头的所有 key（相对于存储根）
	List(ctx context.Context, prefix string) ([]string, error)
}

// IsNotExist reports whether err means the object is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// NewClient 按 Type 创建存储后端
func NewClient(config *Config, logger *zap.Logger) (Storager, error) {
	if config == nil {
		return nil, code.ErrorInvalidStorageType
	}
	if !config.IsEnabled {
		return nil, code.ErrorStorageDisabled
	}
	if !StorageTypeMap[config.Type] {
		return nil, code.ErrorInvalidStorageType.WithDetails(config.Type)
	}
	if CloudStorageTypeMap[config.Type] && config.BucketName == "" {
		return nil, code.ErrorInvalidParams.WithDetails("storage.bucket-name is required for " + config.Type)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch config.Type {
	case LOCAL:
		return local_fs.NewClient(&local_fs.Config{
			SavePath: config.SavePath,
		})
	case OSS:
		return aliyun_oss.NewClient(&aliyun_oss.Config{
			Endpoint:        config.Endpoint,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		})
	case R2:
		return aws_s3.NewClient(&aws_s3.Config{
			Endpoint:        fmt.Sprintf("https://%s.r2.cloudflarestorage.com", config.AccountID),
			Region:          "auto",
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		}, aws_s3.WithLogger(logger))
	case S3:
		return aws_s3.NewClient(&aws_s3.Config{
			Endpoint:        config.Endpoint,
			Region:          config.Region,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		}, aws_s3.WithLogger(logger))
	case MinIO:
		region := config.Region
		if region == "" {
			region = "us-east-1"
		}
		return aws_s3.NewClient(&aws_s3.Config{
			Endpoint:        config.Endpoint,
			Region:          region,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
			UsePathStyle:    true,
		}, aws_s3.WithLogger(logger))
	case WebDAV:
		return webdav.NewClient(&webdav.Config{
			Endpoint:   config.Endpoint,
			User:       config.User,
			Password:   config.Password,
			CustomPath: config.CustomPath,
		})
	}
	return nil, code.ErrorInvalidStorageType
}
