// Package storage 提供了接收端存放上传文件的后端实现（磁盘 / MinIO）。
package storage

import (
	"context"
	"io"
)

// BlobStore 抽象了接收端的文件存放后端。
type BlobStore interface {
	// Save 以 name 为键存入一个文件。
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
}
