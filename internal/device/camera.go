package device

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"mygallery-go/internal/config"
)

// ErrCaptureCancelled 表示用户在取材阶段放弃了拍摄。
// 它不是失败：管道收到后直接回到空闲态，不留任何副作用。
var ErrCaptureCancelled = errors.New("capture cancelled")

// Camera 抽象了设备相机能力：授权检查与产出一个本地文件引用。
type Camera interface {
	Authorized() bool
	// Capture 返回一个新拍摄媒体的本地路径；用户放弃时返回 ErrCaptureCancelled。
	Capture(ctx context.Context) (string, error)
}

// SpoolCamera 是 Camera 的文件落盘实现：相机硬件把成片写进 spool 目录，
// Capture 取其中最新的一个文件。目录为空视为用户放弃。
type SpoolCamera struct {
	spool string
}

// NewSpoolCamera 创建一个新的 SpoolCamera 实例。
func NewSpoolCamera(cfg config.DeviceConfig) *SpoolCamera {
	return &SpoolCamera{spool: cfg.CaptureSpool}
}

// Authorized 检查 spool 目录是否可访问。
func (c *SpoolCamera) Authorized() bool {
	info, err := os.Stat(c.spool)
	return err == nil && info.IsDir()
}

// Capture 返回 spool 目录中修改时间最新的文件路径。
func (c *SpoolCamera) Capture(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrCaptureCancelled
	}

	entries, err := os.ReadDir(c.spool)
	if err != nil {
		return "", ErrPermissionDenied
	}

	var newest string
	var newestMod int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, infoErr := e.Info()
		if infoErr != nil {
			continue
		}
		if newest == "" || info.ModTime().UnixNano() > newestMod {
			newest = filepath.Join(c.spool, e.Name())
			newestMod = info.ModTime().UnixNano()
		}
	}
	if newest == "" {
		return "", ErrCaptureCancelled
	}
	return newest, nil
}
