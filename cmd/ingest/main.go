// Package main 是后端接收端点的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mygallery-go/internal/config"
	"mygallery-go/internal/handler"
	"mygallery-go/internal/middleware"
	"mygallery-go/pkg/events"
	"mygallery-go/pkg/log"
	"mygallery-go/pkg/storage"
)

func main() {
	// 1. 初始化配置与日志
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	// 2. 选择文件存放后端（缺省磁盘，可选 MinIO）
	var store storage.BlobStore
	var err error
	switch cfg.Ingest.Backend {
	case "minio":
		store, err = storage.NewMinioStore(cfg.Ingest.MinIO)
	default:
		store, err = storage.NewDiskStore(cfg.Ingest.UploadDir)
	}
	if err != nil {
		log.Fatal("初始化文件存放后端失败", err)
	}

	// 3. 可选的入库事件生产者
	var producer *events.Producer
	if cfg.Ingest.Kafka.Brokers != "" {
		producer = events.NewProducer(cfg.Ingest.Kafka)
		defer producer.Close()
	}

	// 4. 注册路由
	gin.SetMode(cfg.Ingest.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	ingestHandler := handler.NewIngestHandler(store, producer)
	r.POST("/upload", ingestHandler.Upload)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Ingest.Port),
		Handler: r,
	}

	go func() {
		log.Infof("接收端点启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
