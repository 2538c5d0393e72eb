// Package uploader 提供了把本地文件传给后端接收端点的客户端。
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"mygallery-go/internal/config"
	"mygallery-go/pkg/log"
)

// ErrUploadFailed 表示传输失败（网络错误或后端非 2xx 响应）。
// 已拍摄的本地文件保留不动，重试由用户重新触发整个流程，客户端不做内部循环。
var ErrUploadFailed = errors.New("upload failed")

// Client defines the interface for the ingest endpoint client.
type Client interface {
	// Upload 以单字段 multipart 形式上传文件，返回后端分配的存储名。
	Upload(ctx context.Context, path string) (string, error)
}

type httpClient struct {
	cfg    config.UploaderConfig
	client *http.Client
}

// NewClient 创建一个新的上传客户端。
func NewClient(cfg config.UploaderConfig) Client {
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// uploadResponse 对应接收端点的成功响应 {"file": "<name>"}。
type uploadResponse struct {
	File string `json:"file"`
}

// Upload 把 path 指向的文件作为 file 字段 POST 到 /upload。
func (c *httpClient) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: 打开待上传文件失败: %v", ErrUploadFailed, err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("%w: 构造 multipart 失败: %v", ErrUploadFailed, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("%w: 读取文件内容失败: %v", ErrUploadFailed, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: 关闭 multipart 失败: %v", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.ServerURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("%w: 创建请求失败: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		log.Errorf("[Uploader] 调用接收端点失败: %v", err)
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		log.Errorf("[Uploader] 接收端点返回非 2xx 状态码: %s, body: %s", resp.Status, string(respBody))
		return "", fmt.Errorf("%w: 状态码 %s", ErrUploadFailed, resp.Status)
	}

	var payload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: 解析响应失败: %v", ErrUploadFailed, err)
	}
	if payload.File == "" {
		return "", fmt.Errorf("%w: 响应缺少 file 字段", ErrUploadFailed)
	}

	log.Infof("[Uploader] 上传成功, 本地文件: %s, 存储名: %s", path, payload.File)
	return payload.File, nil
}
