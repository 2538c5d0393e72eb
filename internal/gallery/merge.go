// Package gallery 实现了三个数据源的合并引擎与合并视图的持有者。
package gallery

import (
	"sort"

	"mygallery-go/internal/model"
)

// Merge 把设备枚举、远端图片流、本地上传记录三组条目合并为一个有序去重的集合。
// 它是纯函数：不做 I/O、不会失败，输入相同则输出逐项相同，可以在每次
// 数据源更新时廉价地重算。
//
// 规则：
//  1. 各源内部先按 SourceRef 去重（后见者胜，位置保持首见处）；
//  2. 跨源碰撞时本地上传覆盖设备条目（刚上传的资产应显示为"已上传"，
//     而不是同一文件出现两次）；远端条目的引用是外部 URL，命名空间
//     天然不相交，不参与碰撞；
//  3. 顺序：设备条目在前（有拍摄时间的按时间倒序，无时间戳的保持枚举
//     顺序排在其后），再接未被设备区代表的本地上传，最后是远端条目。
func Merge(deviceItems, remoteItems, localItems []model.MediaItem) []model.MediaItem {
	device := dedupBySourceRef(deviceItems)
	remote := dedupBySourceRef(remoteItems)
	local := dedupBySourceRef(localItems)

	// 设备区排序：时间倒序，稳定排序保证成员不变时不洗牌
	sort.SliceStable(device, func(i, j int) bool {
		a, b := device[i].CapturedAt, device[j].CapturedAt
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})

	localByRef := make(map[string]model.MediaItem, len(local))
	for _, item := range local {
		localByRef[item.SourceRef] = item
	}

	merged := make([]model.MediaItem, 0, len(device)+len(local)+len(remote))
	represented := make(map[string]bool, len(device))

	// 设备区：与本地上传碰撞的槽位原地替换为上传条目
	for _, item := range device {
		if up, ok := localByRef[item.SourceRef]; ok {
			merged = append(merged, up)
		} else {
			merged = append(merged, item)
		}
		represented[item.SourceRef] = true
	}

	// 本地上传区：只补没有被设备区代表的
	for _, item := range local {
		if represented[item.SourceRef] {
			continue
		}
		merged = append(merged, item)
		represented[item.SourceRef] = true
	}

	// 远端区
	merged = append(merged, remote...)
	return merged
}

// dedupBySourceRef 在单个数据源内部按 SourceRef 去重。
// 重复引用以后出现的条目为准，但保留首次出现的位置。
func dedupBySourceRef(items []model.MediaItem) []model.MediaItem {
	out := make([]model.MediaItem, 0, len(items))
	pos := make(map[string]int, len(items))
	for _, item := range items {
		if i, ok := pos[item.SourceRef]; ok {
			out[i] = item
			continue
		}
		pos[item.SourceRef] = len(out)
		out = append(out, item)
	}
	return out
}
