package webdav

import (
	"context"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/studio-b12/gowebdav"
)

// Config 结构体用于存储 WebDAV 连接信息。
type Config struct {
	Endpoint   string `yaml:"endpoint"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	CustomPath string `yaml:"custom-path"`
}

// WebDAV 结构体表示 WebDAV 客户端。
type WebDAV struct {
	Client *gowebdav.Client
	Config *Config
}

var (
	clients   = make(map[string]*WebDAV)
	clientsMu sync.Mutex
)

// NewClient 创建一个新的 WebDAV 客户端实例，相同连接参数复用同一实例。
func NewClient(conf *Config) (*WebDAV, error) {
	if conf == nil || conf.Endpoint == "" {
		return nil, errors.New("webdav: endpoint is required")
	}

	cacheKey := conf.Endpoint + conf.User + conf.CustomPath

	clientsMu.Lock()
	defer clientsMu.Unlock()

	if c, ok := clients[cacheKey]; ok {
		return c, nil
	}

	c := gowebdav.NewClient(conf.Endpoint, conf.User, conf.Password)

	clients[cacheKey] = &WebDAV{
		Client: c,
		Config: conf,
	}
	return clients[cacheKey], nil
}

func (w *WebDAV) root() string {
	return "/" + strings.Trim(w.Config.CustomPath, "/")
}

func (w *WebDAV) fullKey(fileKey string) string {
	return path.Join(w.root(), fileKey)
}

// PutContent 上传完整内容。WebDAV PUT 在服务端整体替换资源
func (w *WebDAV) PutContent(ctx context.Context, fileKey string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := w.fullKey(fileKey)
	if err := w.Client.MkdirAll(path.Dir(key), 0o755); err != nil {
		return errors.Wrap(err, "webdav")
	}
	if err := w.Client.Write(key, content, 0o644); err != nil {
		return errors.Wrap(err, "webdav")
	}
	return nil
}

func (w *WebDAV) GetContent(ctx context.Context, fileKey string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := w.Client.Read(w.fullKey(fileKey))
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return nil, errors.Wrap(fs.ErrNotExist, "webdav: "+fileKey)
		}
		return nil, errors.Wrap(err, "webdav")
	}
	return content, nil
}

func (w *WebDAV) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := w.Client.ReadDir(w.root())
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "webdav")
	}

	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || !strings.HasPrefix(info.Name(), prefix) {
			continue
		}
		keys = append(keys, info.Name())
	}
	sort.Strings(keys)
	return keys, nil
}
