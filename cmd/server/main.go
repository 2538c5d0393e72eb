// Package main 是图库服务的入口点。
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"mygallery-go/internal/config"
	"mygallery-go/internal/device"
	"mygallery-go/internal/feed"
	"mygallery-go/internal/gallery"
	"mygallery-go/internal/handler"
	"mygallery-go/internal/middleware"
	"mygallery-go/internal/pipeline"
	"mygallery-go/internal/repository"
	"mygallery-go/internal/uploader"
	"mygallery-go/pkg/database"
	"mygallery-go/pkg/log"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	// 3. 打开本地记录库。没有可用的记录库应用不允许启动。
	db, err := database.OpenSQLite(cfg.Database.SQLite.Path)
	if err != nil {
		log.Fatal("打开本地记录库失败", err)
	}
	log.Info("本地记录库连接成功")

	// Redis 是可选依赖：缺失时退化为进程内锁与无跨重启缓存
	var rdb *redis.Client
	if cfg.Database.Redis.Addr != "" {
		rdb, err = database.OpenRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
		if err != nil {
			log.Warnf("连接 Redis 失败, 以无 Redis 模式继续运行: %v", err)
			rdb = nil
		}
	}

	// 4. 初始化 Repository 并幂等建表（启动期失败直接退出）
	uploadRepo := repository.NewUploadRecordRepository(db, rdb)
	if err := uploadRepo.Init(); err != nil {
		log.Fatal("本地记录库建表失败", err)
	}
	feedCache := repository.NewFeedCacheRepository(rdb)

	// 5. 组装合并视图与各数据源（依赖注入）
	library := gallery.NewLibrary()
	reader := device.NewReader(cfg.Device)
	camera := device.NewSpoolCamera(cfg.Device)
	uploadClient := uploader.NewClient(cfg.Uploader)
	pipe := pipeline.New(camera, reader, uploadClient, uploadRepo, library)
	feedClient := feed.NewClient(cfg.Feed)
	poller := feed.NewPoller(feedClient, library, feedCache, cfg.Feed.PollInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6. 三个数据源并发填充，互不阻塞；晚到的只是触发一次重合并
	go func() {
		records, err := uploadRepo.ListAll()
		if err != nil {
			log.Error("读取上传记录失败", err)
			return
		}
		library.SetLocalRecords(records)
		log.Infof("上传记录播种完成, 共 %d 条", len(records))
	}()

	go func() {
		items, err := reader.ListAssets(ctx)
		if err != nil {
			if errors.Is(err, device.ErrPermissionDenied) {
				// 权限被拒只影响设备源，其余数据源照常填充
				log.Warnf("媒体库访问被拒, 设备数据源为空")
				library.SetDeviceItems(nil)
				return
			}
			log.Error("枚举设备媒体库失败", err)
			return
		}
		library.SetDeviceItems(items)
	}()

	poller.Restore(ctx)
	go poller.Run(ctx)

	// 7. 设置 Gin 模式并注册路由
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	mediaHandler := handler.NewMediaHandler(library, pipe)
	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/media", mediaHandler.ListMedia)
		apiV1.POST("/capture", mediaHandler.Capture)
	}
	r.GET("/healthz", mediaHandler.Health)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	cancel() // 停掉轮询循环

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
