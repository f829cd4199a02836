// Package storage 保存用户上传的图片，并以 /uploads 前缀对外提供访问路径。
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PublicPrefix 上传文件的对外 URL 前缀
const PublicPrefix = "/uploads/"

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrInvalidPath     = errors.New("invalid upload path")
	ErrTooLarge        = errors.New("upload exceeds size limit")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store 上传存储接口
type Store interface {
	// Save 写入文件并返回对外路径（/uploads/<name>）
	Save(ctx context.Context, r io.Reader, originalName string) (string, error)
	// Remove 删除由 Save 返回的路径对应的文件，文件不存在时不报错
	Remove(ctx context.Context, publicPath string) error
}

// LocalStore 本地磁盘实现
type LocalStore struct {
	dir      string
	maxBytes int64
}

// NewLocalStore 创建本地存储，目录不存在时自动创建
func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes}, nil
}

// Dir 存储根目录
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(ctx context.Context, r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExt[ext] {
		return "", ErrUnsupportedType
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(s.dir, name)

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("创建上传文件失败: %w", err)
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = fmt.Errorf("%w: %d bytes", ErrTooLarge, s.maxBytes)
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", err
	}

	return PublicPrefix + name, nil
}

func (s *LocalStore) Remove(_ context.Context, publicPath string) error {
	if publicPath == "" {
		return nil
	}
	name := strings.TrimPrefix(publicPath, PublicPrefix)
	if name == publicPath || name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return ErrInvalidPath
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
