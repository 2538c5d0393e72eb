// Package pipeline 实现了拍摄→上传→落库的核心流程。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"mygallery-go/internal/device"
	"mygallery-go/internal/gallery"
	"mygallery-go/internal/model"
	"mygallery-go/internal/repository"
	"mygallery-go/internal/uploader"
	"mygallery-go/pkg/log"
)

var (
	// ErrPipelineBusy 表示已有一次拍摄上传在进行中。同一时间只允许
	// 一个管道实例活动，第二次触发直接拒绝，不排队不交错。
	ErrPipelineBusy = errors.New("upload pipeline busy")
	// ErrPersistFailed 表示远端上传已成功但本地记账失败。这是被确认的
	// 不一致窗口，必须与 ErrUploadFailed 区分呈现：对它盲目重试会在
	// 远端产生重复文件。
	ErrPersistFailed = errors.New("persist failed after successful upload")
)

// State 表示一次拍摄上传尝试所处的阶段。
type State int

const (
	StateIdle State = iota
	StatePermissionCheck
	StateCapturing
	StateTransmitting
	StatePersisting
)

// String 返回阶段的可读名称。
func (s State) String() string {
	switch s {
	case StatePermissionCheck:
		return "permission_check"
	case StateCapturing:
		return "capturing"
	case StateTransmitting:
		return "transmitting"
	case StatePersisting:
		return "persisting"
	default:
		return "idle"
	}
}

// Pipeline 把相机、上传客户端、本地记录库与合并视图串成一条管道。
// 每次 Run 是一台完整走完的状态机，任何非空闲阶段出错都会带着
// 对应的错误类别回到空闲态。
type Pipeline struct {
	camera   device.Camera
	reader   *device.Reader
	uploader uploader.Client
	repo     repository.UploadRecordRepository
	library  *gallery.Library

	running int32
}

// New 创建一条新的上传管道。
func New(camera device.Camera, reader *device.Reader, up uploader.Client, repo repository.UploadRecordRepository, library *gallery.Library) *Pipeline {
	return &Pipeline{
		camera:   camera,
		reader:   reader,
		uploader: up,
		repo:     repo,
		library:  library,
	}
}

// Run 执行一次完整的拍摄上传尝试，成功时返回并入视图的条目。
// 同一时间只允许一次尝试在途，并发触发返回 ErrPipelineBusy。
func (p *Pipeline) Run(ctx context.Context) (model.MediaItem, error) {
	if !atomic.CompareAndSwapInt32(&p.running, 0, 1) {
		return model.MediaItem{}, ErrPipelineBusy
	}
	defer atomic.StoreInt32(&p.running, 0)

	// PermissionCheck：相机与媒体库都要授权，缺一即止，不留部分状态
	log.Infof("[Pipeline] 阶段 %s", StatePermissionCheck)
	if !p.camera.Authorized() {
		return model.MediaItem{}, device.ErrPermissionDenied
	}
	if err := p.reader.RequestAccess(); err != nil {
		return model.MediaItem{}, err
	}

	// Capturing：用户放弃时直接回到空闲态，零副作用
	log.Infof("[Pipeline] 阶段 %s", StateCapturing)
	path, err := p.camera.Capture(ctx)
	if err != nil {
		if errors.Is(err, device.ErrCaptureCancelled) {
			log.Info("[Pipeline] 用户放弃拍摄, 回到空闲态")
		}
		return model.MediaItem{}, err
	}
	sourceRef := "file://" + path

	// 同一路径的上传串行化：先抢在途标记，再做先查后插
	acquired, err := p.repo.AcquireUploadMark(ctx, sourceRef)
	if err != nil {
		return model.MediaItem{}, fmt.Errorf("获取在途上传标记失败: %w", err)
	}
	if !acquired {
		return model.MediaItem{}, ErrPipelineBusy
	}
	defer func() {
		if err := p.repo.ReleaseUploadMark(ctx, sourceRef); err != nil {
			log.Warnf("[Pipeline] 释放在途上传标记失败: %v", err)
		}
	}()

	// 查重：该资产已有记录则直接复用，不重复上传
	existing, err := p.repo.LookupByFilepath(sourceRef)
	if err == nil {
		log.Infof("[Pipeline] 资产已有上传记录, 跳过重新上传: %s (recordId=%d)", sourceRef, existing.ID)
		return existing.ToMediaItem(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.MediaItem{}, fmt.Errorf("查重失败: %w", err)
	}

	// Transmitting：失败不删本地文件、不自动重试，等用户重新触发
	log.Infof("[Pipeline] 阶段 %s, 文件: %s", StateTransmitting, path)
	filename, err := p.uploader.Upload(ctx, path)
	if err != nil {
		return model.MediaItem{}, err
	}

	// Persisting：远端已成功, 这里失败就是被确认的不一致窗口
	log.Infof("[Pipeline] 阶段 %s, 存储名: %s", StatePersisting, filename)
	record, err := p.repo.Insert(filename, sourceRef, time.Now())
	if err != nil {
		log.Errorf("[Pipeline] 远端上传已成功但本地记账失败, 存储名: %s, 设备路径: %s, err: %v", filename, sourceRef, err)
		return model.MediaItem{}, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	// 成功：增量并入合并视图，不触发全量重算
	item := record.ToMediaItem()
	p.library.AppendLocalUpload(item)
	log.Infof("[Pipeline] 上传完成, recordId=%d, id=%s", record.ID, item.ID)
	return item, nil
}
