// Package device 封装了设备侧能力：媒体库的枚举与相机取材。
package device

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mygallery-go/internal/config"
	"mygallery-go/internal/model"
	"mygallery-go/pkg/log"
)

// ErrPermissionDenied 表示媒体库或相机的访问被拒绝。
// 它终结当前操作，但不应拖垮其余数据源。
var ErrPermissionDenied = errors.New("permission denied")

// assetKinds 限定枚举只认照片与视频两类扩展名。
var assetKinds = map[string]model.Kind{
	".jpg": model.KindPhoto, ".jpeg": model.KindPhoto, ".png": model.KindPhoto,
	".gif": model.KindPhoto, ".webp": model.KindPhoto, ".heic": model.KindPhoto,
	".mp4": model.KindVideo, ".mov": model.KindVideo, ".m4v": model.KindVideo,
	".webm": model.KindVideo,
}

// Reader 枚举设备媒体库（一个目录树）中的媒体资产。
type Reader struct {
	root string
}

// NewReader 创建一个新的媒体库 Reader。
func NewReader(cfg config.DeviceConfig) *Reader {
	return &Reader{root: cfg.MediaRoot}
}

// RequestAccess 申请媒体库访问权限。根目录缺失或不可读都视为拒绝。
func (r *Reader) RequestAccess() error {
	info, err := os.Stat(r.root)
	if err != nil || !info.IsDir() {
		return ErrPermissionDenied
	}
	f, err := os.Open(r.root)
	if err != nil {
		return ErrPermissionDenied
	}
	_ = f.Close()
	return nil
}

// ListAssets 遍历媒体库并把每个资产规范化为 MediaItem。
// 设备侧标识（相对路径）1:1 映射到 ID，并加 dev- 前缀隔离命名空间。
func (r *Reader) ListAssets(ctx context.Context) ([]model.MediaItem, error) {
	if err := r.RequestAccess(); err != nil {
		return nil, err
	}

	var items []model.MediaItem
	walkErr := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warnf("[DeviceReader] 跳过不可读条目: %s, err=%v", path, err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		kind, ok := assetKinds[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}

		rel, relErr := filepath.Rel(r.root, path)
		if relErr != nil {
			return nil
		}
		nativeID := filepath.ToSlash(rel)

		item := model.MediaItem{
			ID:           "dev-" + nativeID,
			SourceRef:    "file://" + path,
			Kind:         kind,
			DisplayURI:   "file://" + path,
			ThumbnailURI: "file://" + path,
			Origin:       model.OriginDevice,
		}
		if info, infoErr := d.Info(); infoErr == nil {
			mod := info.ModTime()
			item.CapturedAt = &mod
		}
		items = append(items, item)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	// 枚举顺序稳定化：按拍摄时间倒序，缺时间戳的按路径排在末尾
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].CapturedAt, items[j].CapturedAt
		switch {
		case a != nil && b != nil:
			return a.After(*b)
		case a != nil:
			return true
		default:
			return false
		}
	})

	log.Infof("[DeviceReader] 媒体库枚举完成, 共 %d 个资产", len(items))
	return items, nil
}
