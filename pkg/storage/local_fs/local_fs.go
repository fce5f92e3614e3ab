package local_fs

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/haierkeys/fast-diary/pkg/fileurl"
	"github.com/pkg/errors"
)

// tmpPrefix 标记尚未完成的写入，List 会跳过它们
const tmpPrefix = ".tmp-"

type Config struct {
	SavePath string `yaml:"save-path"`
}

type LocalFS struct {
	Config *Config
}

// NewClient 创建本地文件系统存储，SavePath 不存在时自动创建
func NewClient(conf *Config) (*LocalFS, error) {
	if conf == nil || conf.SavePath == "" {
		return nil, errors.New("local_fs: save-path is required")
	}
	if !fileurl.IsExist(conf.SavePath) {
		if err := os.MkdirAll(conf.SavePath, 0o700); err != nil {
			return nil, errors.Wrap(err, "local_fs")
		}
	}
	return &LocalFS{Config: conf}, nil
}

func (p *LocalFS) path(fileKey string) string {
	return filepath.Join(p.Config.SavePath, filepath.FromSlash(fileKey))
}

// PutContent 写入临时文件、fsync 后 rename 到目标路径
// 读者只会看到旧内容或新内容的完整版本
func (p *LocalFS) PutContent(ctx context.Context, fileKey string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := p.path(fileKey)
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "local_fs")
	}

	// 临时文件与目标同目录，保证 rename 不跨文件系统
	tmp, err := os.CreateTemp(dir, tmpPrefix+filepath.Base(dst)+"-*")
	if err != nil {
		return errors.Wrap(err, "local_fs")
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "local_fs")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "local_fs")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "local_fs")
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return errors.Wrap(err, "local_fs")
	}
	committed = true

	syncDir(dir)
	return nil
}

// syncDir 持久化目录项。部分平台不支持对目录 fsync，忽略错误
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// GetContent 读取文件，文件不存在时返回的错误满足 errors.Is(err, fs.ErrNotExist)
func (p *LocalFS) GetContent(ctx context.Context, fileKey string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(p.path(fileKey))
	if err != nil {
		return nil, errors.Wrap(err, "local_fs")
	}
	return content, nil
}

func (p *LocalFS) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p.Config.SavePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "local_fs")
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, tmpPrefix) {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete 删除文件，文件不存在时不报错
func (p *LocalFS) Delete(ctx context.Context, fileKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(p.path(fileKey)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "local_fs")
	}
	return nil
}
