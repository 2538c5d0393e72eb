package feed

import (
	"context"
	"time"

	"mygallery-go/internal/gallery"
	"mygallery-go/internal/repository"
	"mygallery-go/pkg/log"
)

// Poller 周期性地拉取远端图片流，并把结果整组替换进合并视图。
// 拉取失败遵循 stale-retain 策略：旧快照原样保留，下一轮自动重试。
type Poller struct {
	client   Client
	library  *gallery.Library
	cache    repository.FeedCacheRepository
	interval time.Duration
}

// NewPoller 创建一个新的 Poller 实例。
func NewPoller(client Client, library *gallery.Library, cache repository.FeedCacheRepository, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 120 * time.Second
	}
	return &Poller{
		client:   client,
		library:  library,
		cache:    cache,
		interval: interval,
	}
}

// Restore 用上一次成功拉取的缓存快照填充合并视图（若有）。
// 在首轮轮询落地前，旧数据好过没有数据。
func (p *Poller) Restore(ctx context.Context) {
	items, err := p.cache.LoadSnapshot(ctx)
	if err != nil {
		log.Warnf("[FeedPoller] 读取图片流缓存快照失败: %v", err)
		return
	}
	if len(items) == 0 {
		return
	}
	p.library.SetRemoteItems(items)
	log.Infof("[FeedPoller] 已用缓存快照填充远端数据源, 共 %d 条", len(items))
}

// Run 启动轮询循环：启动时拉取一次，然后按固定周期拉取，直到 ctx 结束。
func (p *Poller) Run(ctx context.Context) {
	p.pollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("[FeedPoller] 轮询循环退出")
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce 执行一次拉取。成功则整组替换远端子集并刷新缓存；
// 失败（含超时取消）只记日志，不触碰既有快照。
func (p *Poller) pollOnce(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	items, err := p.client.Fetch(fetchCtx)
	if err != nil {
		log.Warnf("[FeedPoller] 本轮拉取失败, 保留上一次快照: %v", err)
		return
	}

	p.library.SetRemoteItems(items)
	if err := p.cache.SaveSnapshot(ctx, items); err != nil {
		log.Warnf("[FeedPoller] 写入图片流缓存快照失败: %v", err)
	}
}
