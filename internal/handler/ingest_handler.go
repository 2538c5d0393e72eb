package handler

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"mygallery-go/pkg/events"
	"mygallery-go/pkg/log"
	"mygallery-go/pkg/storage"
)

// IngestHandler 实现后端接收端点：接收单文件 multipart 上传，
// 分配唯一存储名并返回。端点不做去重，也不校验内容类型。
type IngestHandler struct {
	store    storage.BlobStore
	producer *events.Producer // 可以为 nil（未启用 Kafka 时）
}

// NewIngestHandler 创建一个新的 IngestHandler 实例。
func NewIngestHandler(store storage.BlobStore, producer *events.Producer) *IngestHandler {
	return &IngestHandler{store: store, producer: producer}
}

// Upload 处理 POST /upload。响应契约固定：
// 成功 200 {"file": "<name>"}，缺少 file 字段 400 {"message": "No file uploaded"}。
func (h *IngestHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	defer file.Close()

	name := generateStoredName(header.Filename)
	contentType := header.Header.Get("Content-Type")

	if err := h.store.Save(c.Request.Context(), name, file, header.Size, contentType); err != nil {
		log.Error("Upload: 存储上传文件失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store file"})
		return
	}

	if h.producer != nil {
		event := events.IngestEvent{File: name, Size: header.Size, StoredAt: time.Now().UTC()}
		// 事件发送失败不影响上传结果
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.producer.Publish(ctx, event); err != nil {
				log.Warnf("[Ingest] 发送入库事件失败: %v", err)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"file": name})
}

// generateStoredName 生成防碰撞的存储名：字段名-毫秒时间戳-随机数.原扩展名。
func generateStoredName(original string) string {
	suffix := fmt.Sprintf("%d-%d", time.Now().UnixMilli(), rand.Intn(1_000_000_000))
	ext := filepath.Ext(original)
	return "file-" + suffix + ext
}
