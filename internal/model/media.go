// Package model 定义了在管道中流转的核心数据结构。
package model

import "time"

// Kind 表示媒体的种类（照片 / 视频）。
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

// Origin 标记 MediaItem 来自哪个数据源，合并时的优先级与展示元数据由它决定。
type Origin string

const (
	// OriginDevice 表示条目来自设备本地媒体库的枚举结果。
	OriginDevice Origin = "device"
	// OriginRemote 表示条目来自远端精选图片流。
	OriginRemote Origin = "remote"
	// OriginLocalUpload 表示条目来自本地上传记录（files 表）。
	OriginLocalUpload Origin = "local_upload"
)

// GeoPoint 是可选的地理位置标注，核心逻辑不解释其内容。
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MediaItem 是合并视图中的基本单元。它是一次合并时的投影，
// 不做独立持久化，任何数据源变化后都会被重新计算。
type MediaItem struct {
	// ID 在会话内的合并集合中唯一，按来源加前缀命名空间
	// （dev-/rmt-/up-），不同来源的条目不会发生碰撞。
	ID string `json:"id"`
	// SourceRef 是来源侧的引用（设备 URI、远端 URL 或本地记录路径），
	// 仅用于去重，不直接作为展示标识。
	SourceRef    string     `json:"sourceRef"`
	Kind         Kind       `json:"kind"`
	DisplayURI   string     `json:"displayUri"`
	ThumbnailURI string     `json:"thumbnailUri"`
	CapturedAt   *time.Time `json:"capturedAt,omitempty"`
	Location     *GeoPoint  `json:"location,omitempty"`
	Origin       Origin     `json:"origin"`
}
