package aws_s3

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/haierkeys/fast-diary/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Config 同时服务于 AWS S3、MinIO 与 Cloudflare R2
type Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
	UsePathStyle    bool   `yaml:"use-path-style"`
}

type S3 struct {
	S3Client *s3.Client
	Config   *Config
	logger   *zap.Logger
}

// Option 配置选项函数类型
type Option func(*S3)

// WithLogger 设置日志器
func WithLogger(l *zap.Logger) Option {
	return func(s *S3) {
		s.logger = l
	}
}

var (
	clients   = make(map[string]*S3)
	clientsMu sync.Mutex
)

// NewClient 创建 S3 存储实例
// opts 可选参数用于配置日志器等选项
func NewClient(conf *Config, opts ...Option) (*S3, error) {
	if conf == nil || conf.BucketName == "" {
		return nil, errors.New("aws_s3: bucket-name is required")
	}

	cacheKey := conf.Endpoint + "|" + conf.BucketName + "|" + conf.AccessKeyID

	clientsMu.Lock()
	defer clientsMu.Unlock()

	if c, ok := clients[cacheKey]; ok {
		// 应用选项到已存在的客户端
		for _, opt := range opts {
			opt(c)
		}
		return c, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, "")),
		config.WithRegion(conf.Region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
		o.UsePathStyle = conf.UsePathStyle
	})

	c := &S3{
		S3Client: client,
		Config:   conf,
		logger:   zap.NewNop(), // 默认空日志器
	}
	// 应用选项
	for _, opt := range opts {
		opt(c)
	}
	clients[cacheKey] = c
	return c, nil
}

func (p *S3) prefix() string {
	custom := strings.Trim(p.Config.CustomPath, "/")
	if custom == "" {
		return ""
	}
	return custom + "/"
}

func (p *S3) objectKey(fileKey string) string {
	return p.prefix() + fileKey
}

// PutContent 上传完整对象，PUT 在服务端是原子替换
func (p *S3) PutContent(ctx context.Context, fileKey string, content []byte) error {
	start := time.Now()
	_, err := p.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.Config.BucketName),
		Key:           aws.String(p.objectKey(fileKey)),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		p.logger.Warn("s3 put object failed",
			zap.String(logger.FieldBucket, p.Config.BucketName),
			zap.String(logger.FieldFileKey, fileKey),
			zap.Error(err))
		return errors.Wrap(err, "aws_s3")
	}
	p.logger.Debug("s3 put object",
		zap.String(logger.FieldFileKey, fileKey),
		zap.Int(logger.FieldSize, len(content)),
		zap.Duration(logger.FieldDuration, time.Since(start)))
	return nil
}

func (p *S3) GetContent(ctx context.Context, fileKey string) ([]byte, error) {
	out, err := p.S3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(p.objectKey(fileKey)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, errors.Wrap(fs.ErrNotExist, "aws_s3: "+fileKey)
		}
		return nil, errors.Wrap(err, "aws_s3")
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}
	return content, nil
}

func (p *S3) List(ctx context.Context, prefix string) ([]string, error) {
	base := p.prefix()
	paginator := s3.NewListObjectsV2Paginator(p.S3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(p.Config.BucketName),
		Prefix: aws.String(base + prefix),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "aws_s3")
		}
		for _, obj := range page.Contents {
			key := strings.TrimPrefix(aws.ToString(obj.Key), base)
			if key == "" || strings.Contains(key, "/") {
				continue
			}
			keys = append(keys, key)
		}
	}
	return keys, nil
}
