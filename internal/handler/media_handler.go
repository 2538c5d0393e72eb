// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mygallery-go/internal/device"
	"mygallery-go/internal/gallery"
	"mygallery-go/internal/pipeline"
	"mygallery-go/internal/uploader"
	"mygallery-go/pkg/log"
)

// MediaHandler 负责合并视图的读取与拍摄上传的触发。
type MediaHandler struct {
	library  *gallery.Library
	pipeline *pipeline.Pipeline
}

// NewMediaHandler 创建一个新的 MediaHandler 实例。
func NewMediaHandler(library *gallery.Library, p *pipeline.Pipeline) *MediaHandler {
	return &MediaHandler{library: library, pipeline: p}
}

// ListMedia 返回当前的合并集合。
func (h *MediaHandler) ListMedia(c *gin.Context) {
	items := h.library.Items()
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "获取媒体列表成功",
		"data": gin.H{
			"items": items,
			"total": len(items),
		},
	})
}

// Capture 触发一次拍摄上传流程，按错误类别映射响应。
func (h *MediaHandler) Capture(c *gin.Context) {
	item, err := h.pipeline.Run(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrPipelineBusy):
			c.JSON(http.StatusConflict, gin.H{
				"code":    http.StatusConflict,
				"message": "已有上传在进行中，请稍后再试",
			})
		case errors.Is(err, device.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"code":    http.StatusForbidden,
				"message": "需要相机与媒体库权限",
			})
		case errors.Is(err, device.ErrCaptureCancelled):
			c.JSON(http.StatusOK, gin.H{
				"code":    http.StatusOK,
				"message": "拍摄已取消",
			})
		case errors.Is(err, uploader.ErrUploadFailed):
			// 本地文件未删除，重新触发本接口即可重试
			c.JSON(http.StatusBadGateway, gin.H{
				"code":    http.StatusBadGateway,
				"message": "上传失败，可重试",
			})
		case errors.Is(err, pipeline.ErrPersistFailed):
			// 与上传失败区分呈现：远端已成功，盲目重试会产生重复文件
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "上传已成功但本地记录失败，请勿直接重试",
			})
		default:
			log.Error("Capture: 拍摄上传流程失败", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "服务器内部错误",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "上传成功",
		"data":    item,
	})
}

// Health 健康检查。
func (h *MediaHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
