package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mygallery-go/pkg/log"
)

// DiskStore 把上传文件直接写到本地目录（缺省后端）。
type DiskStore struct {
	dir string
}

// NewDiskStore 创建一个新的 DiskStore 并确保目录存在。
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save 先写临时文件再改名，避免半截文件以最终名字可见。
func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("写入文件内容失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}

	final := filepath.Join(s.dir, name)
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("落盘改名失败: %w", err)
	}

	log.Infof("[DiskStore] 文件已落盘: %s", final)
	return nil
}
