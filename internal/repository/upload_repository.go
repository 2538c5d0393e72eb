// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"mygallery-go/internal/model"
)

var (
	// ErrStorageInit 表示本地记录库无法打开或建表失败。启动期遇到它应当直接退出，
	// 应用不允许在无记录库的降级模式下运行。
	ErrStorageInit = errors.New("storage init failed")
	// ErrStorageWrite 表示写入记录失败（约束冲突或 I/O 错误）。
	ErrStorageWrite = errors.New("storage write failed")
)

// uploadMarkTTL 限定在途上传标记的存活时间，防止进程崩溃后标记永久残留。
const uploadMarkTTL = 10 * time.Minute

// UploadRecordRepository 接口定义了上传记录的持久化操作。
type UploadRecordRepository interface {
	// Init 幂等地创建 files 表，失败时返回 ErrStorageInit。
	Init() error
	// LookupByFilepath 返回指定设备路径最近的一条上传记录；
	// 不存在时返回 gorm.ErrRecordNotFound。
	LookupByFilepath(filepath string) (*model.UploadRecord, error)
	// Insert 写入一条新记录并返回带主键的结果。写入在事务内完成，
	// 失败时不会留下对后续读取可见的半行数据。
	Insert(filename, filepath string, uploadedAt time.Time) (*model.UploadRecord, error)
	// ListAll 按 recordId 升序（即插入顺序）返回全部记录。
	ListAll() ([]model.UploadRecord, error)

	// AcquireUploadMark 为指定设备路径打在途上传标记（SETNX 语义）。
	// 返回 false 表示同一路径已有上传在途。Redis 不可用时恒返回 true，
	// 串行化退化为进程内的管道单例保护。
	AcquireUploadMark(ctx context.Context, filepath string) (bool, error)
	// ReleaseUploadMark 释放在途上传标记。
	ReleaseUploadMark(ctx context.Context, filepath string) error
}

// uploadRecordRepository 是 UploadRecordRepository 接口的 GORM+Redis 实现。
type uploadRecordRepository struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewUploadRecordRepository 创建一个新的 UploadRecordRepository 实例。
// redisClient 可以为 nil（未配置 Redis 时）。
func NewUploadRecordRepository(db *gorm.DB, redisClient *redis.Client) UploadRecordRepository {
	return &uploadRecordRepository{db: db, redisClient: redisClient}
}

// getUploadMarkKey generates the redis key for an in-flight upload mark.
func (r *uploadRecordRepository) getUploadMarkKey(filepath string) string {
	return "upload:inflight:" + filepath
}

// Init 幂等地迁移 files 表结构。
func (r *uploadRecordRepository) Init() error {
	if err := r.db.AutoMigrate(&model.UploadRecord{}); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}
	return nil
}

// LookupByFilepath 查找某个设备路径对应的上传记录。
// 上游的先查后插本应阻止重复，这里仍按 id 倒序取最新一条做防御。
func (r *uploadRecordRepository) LookupByFilepath(filepath string) (*model.UploadRecord, error) {
	var record model.UploadRecord
	err := r.db.Where("filepath = ?", filepath).Order("id DESC").First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Insert 在事务内创建一条上传记录，upload_date 以 ISO-8601 文本落库。
func (r *uploadRecordRepository) Insert(filename, filepath string, uploadedAt time.Time) (*model.UploadRecord, error) {
	record := &model.UploadRecord{
		Filename:   filename,
		Filepath:   filepath,
		UploadDate: uploadedAt.UTC().Format(time.RFC3339),
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return record, nil
}

// ListAll 按插入顺序返回全部上传记录，用于启动时播种合并引擎。
func (r *uploadRecordRepository) ListAll() ([]model.UploadRecord, error) {
	var records []model.UploadRecord
	err := r.db.Order("id ASC").Find(&records).Error
	return records, err
}

// AcquireUploadMark marks a filepath as having an in-flight upload in Redis.
func (r *uploadRecordRepository) AcquireUploadMark(ctx context.Context, filepath string) (bool, error) {
	if r.redisClient == nil {
		return true, nil
	}
	ok, err := r.redisClient.SetNX(ctx, r.getUploadMarkKey(filepath), 1, uploadMarkTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ReleaseUploadMark deletes the in-flight upload mark from Redis.
func (r *uploadRecordRepository) ReleaseUploadMark(ctx context.Context, filepath string) error {
	if r.redisClient == nil {
		return nil
	}
	return r.redisClient.Del(ctx, r.getUploadMarkKey(filepath)).Err()
}
