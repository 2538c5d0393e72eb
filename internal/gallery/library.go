package gallery

import (
	"sync"

	"mygallery-go/internal/model"
	"mygallery-go/pkg/log"
)

// Library 持有三个数据源的最新快照与合并结果，是展示层读取的唯一入口。
// 数据源各自在启动时并发填充，谁先到谁先合并；晚到的源只是触发一次
// 重合并，不会阻塞先到的。
type Library struct {
	mu sync.Mutex

	deviceItems []model.MediaItem
	remoteItems []model.MediaItem
	localItems  []model.MediaItem

	merged []model.MediaItem
}

// NewLibrary 创建一个空的 Library。
func NewLibrary() *Library {
	return &Library{}
}

// SetDeviceItems 用一次新的设备枚举结果整组替换设备子集并重合并。
func (l *Library) SetDeviceItems(items []model.MediaItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deviceItems = items
	l.remerge()
}

// SetRemoteItems 用一次成功拉取的结果整组替换远端子集并重合并。
// 拉取失败时调用方不应调用本方法（stale-retain 策略）。
func (l *Library) SetRemoteItems(items []model.MediaItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.remoteItems = items
	l.remerge()
}

// SetLocalRecords 用本地记录库的全量读取结果替换上传子集并重合并，
// 用于启动播种。
func (l *Library) SetLocalRecords(records []model.UploadRecord) {
	items := make([]model.MediaItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].ToMediaItem())
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.localItems = items
	l.remerge()
}

// AppendLocalUpload 把一条刚落库的上传记录增量并入合并视图，
// 避免上传成功后再跑一次全量合并。若视图中已有同一 SourceRef 的
// 设备条目，则原地替换为上传条目（优先级规则）。
func (l *Library) AppendLocalUpload(item model.MediaItem) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.localItems = append(l.localItems, item)

	for i := range l.merged {
		if l.merged[i].SourceRef != item.SourceRef {
			continue
		}
		switch l.merged[i].Origin {
		case model.OriginDevice, model.OriginLocalUpload:
			l.merged[i] = item
			return
		}
	}

	// 没有碰撞：插到远端区之前，保持"上传在前、远端在后"的顺序
	insertAt := len(l.merged)
	for i := range l.merged {
		if l.merged[i].Origin == model.OriginRemote {
			insertAt = i
			break
		}
	}
	l.merged = append(l.merged, model.MediaItem{})
	copy(l.merged[insertAt+1:], l.merged[insertAt:])
	l.merged[insertAt] = item
}

// Items 返回当前合并视图的一份拷贝。
func (l *Library) Items() []model.MediaItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.MediaItem, len(l.merged))
	copy(out, l.merged)
	return out
}

// remerge 重算合并视图。调用方必须已持有锁。
func (l *Library) remerge() {
	l.merged = Merge(l.deviceItems, l.remoteItems, l.localItems)
	log.Debugf("[Library] 重合并完成, 视图大小=%d", len(l.merged))
}
