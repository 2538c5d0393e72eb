package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// UploadRecord 定义了 files 表的 ORM 模型。
// 每一行对应一次确认成功的上传：filename 为后端生成的存储名，
// filepath 为上传资产在设备侧的引用。记录只增不改不删。
type UploadRecord struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename string `gorm:"type:text;not null" json:"filename"`
	// filepath 上建普通索引用于查重路径；唯一性由先查后插保证。
	Filepath   string `gorm:"type:text;not null;index:idx_files_filepath" json:"filepath"`
	UploadDate string `gorm:"column:upload_date;type:text;not null" json:"uploadDate"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (UploadRecord) TableName() string {
	return "files"
}

// UploadedAt 解析 upload_date 列中的 ISO-8601 时间戳。
// 解析失败时返回 nil（历史数据容错）。
func (r *UploadRecord) UploadedAt() *time.Time {
	t, err := time.Parse(time.RFC3339, r.UploadDate)
	if err != nil {
		return nil
	}
	return &t
}

// kindOf 按扩展名判断媒体种类，未知扩展名按照片处理。
func kindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".m4v", ".webm":
		return KindVideo
	default:
		return KindPhoto
	}
}

// ToMediaItem 把一条上传记录投影为合并视图中的条目。
// ID 由稳定的主键派生，跨重启保持不变，绝不使用集合下标。
func (r *UploadRecord) ToMediaItem() MediaItem {
	return MediaItem{
		ID:           fmt.Sprintf("up-%d", r.ID),
		SourceRef:    r.Filepath,
		Kind:         kindOf(r.Filepath),
		DisplayURI:   r.Filepath,
		ThumbnailURI: r.Filepath,
		CapturedAt:   r.UploadedAt(),
		Origin:       OriginLocalUpload,
	}
}
