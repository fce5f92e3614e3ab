package aliyun_oss

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
)

type Config struct {
	Endpoint        string `yaml:"endpoint"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type OSS struct {
	Client *oss.Client
	Bucket *oss.Bucket
	Config *Config
}

var (
	clients   = make(map[string]*OSS)
	clientsMu sync.Mutex
)

func NewClient(conf *Config) (*OSS, error) {
	if conf == nil || conf.BucketName == "" || conf.Endpoint == "" {
		return nil, errors.New("aliyun_oss: endpoint and bucket-name are required")
	}

	cacheKey := conf.Endpoint + "|" + conf.BucketName + "|" + conf.AccessKeyID

	clientsMu.Lock()
	defer clientsMu.Unlock()

	if c, ok := clients[cacheKey]; ok {
		return c, nil
	}

	client, err := oss.New(conf.Endpoint, conf.AccessKeyID, conf.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	bucket, err := client.Bucket(conf.BucketName)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}

	clients[cacheKey] = &OSS{
		Client: client,
		Bucket: bucket,
		Config: conf,
	}
	return clients[cacheKey], nil
}

func (p *OSS) prefix() string {
	custom := strings.Trim(p.Config.CustomPath, "/")
	if custom == "" {
		return ""
	}
	return custom + "/"
}

func (p *OSS) objectKey(fileKey string) string {
	return p.prefix() + fileKey
}

// PutContent 上传完整对象
func (p *OSS) PutContent(ctx context.Context, fileKey string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.Bucket.PutObject(p.objectKey(fileKey), bytes.NewReader(content),
		oss.ContentType("text/plain; charset=utf-8"),
		oss.WithContext(ctx),
	)
	if err != nil {
		return errors.Wrap(err, "aliyun_oss")
	}
	return nil
}

func (p *OSS) GetContent(ctx context.Context, fileKey string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := p.Bucket.GetObject(p.objectKey(fileKey), oss.WithContext(ctx))
	if err != nil {
		var se oss.ServiceError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, errors.Wrap(fs.ErrNotExist, "aliyun_oss: "+fileKey)
		}
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	defer body.Close()

	content, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	return content, nil
}

func (p *OSS) List(ctx context.Context, prefix string) ([]string, error) {
	base := p.prefix()
	var keys []string
	token := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opts := []oss.Option{oss.Prefix(base + prefix), oss.MaxKeys(1000), oss.WithContext(ctx)}
		if token != "" {
			opts = append(opts, oss.ContinuationToken(token))
		}
		result, err := p.Bucket.ListObjectsV2(opts...)
		if err != nil {
			return nil, errors.Wrap(err, "aliyun_oss")
		}
		for _, obj := range result.Objects {
			key := strings.TrimPrefix(obj.Key, base)
			if key == "" || strings.Contains(key, "/") {
				continue
			}
			keys = append(keys, key)
		}
		if !result.IsTruncated {
			break
		}
		token = result.NextContinuationToken
	}
	return keys, nil
}
