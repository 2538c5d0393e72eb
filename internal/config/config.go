// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Device   DeviceConfig   `mapstructure:"device"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Uploader UploaderConfig `mapstructure:"uploader"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig 存储图库服务的 HTTP 配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储本地记录库与 Redis 的连接配置。
type DatabaseConfig struct {
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

// SQLiteConfig 存储本地 SQLite 记录库的配置。
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig 存储 Redis 的配置。Addr 为空时禁用 Redis，
// 上传互斥退化为进程内锁，拉取快照不做跨重启缓存。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DeviceConfig 存储设备媒体库与相机能力的配置。
type DeviceConfig struct {
	// MediaRoot 是设备媒体库的根目录，枚举在其下进行。
	MediaRoot string `mapstructure:"media_root"`
	// CaptureSpool 是相机产出文件的落盘目录。
	CaptureSpool string `mapstructure:"capture_spool"`
}

// FeedConfig 存储远端精选图片流的配置。
type FeedConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	// PollInterval 决定轮询周期，缺省 120s。
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// UploaderConfig 存储上传客户端指向的后端接收端点配置。
type UploaderConfig struct {
	ServerURL string        `mapstructure:"server_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// IngestConfig 存储接收端（cmd/ingest）的配置。
type IngestConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// Backend 可选 disk / minio。
	Backend   string      `mapstructure:"backend"`
	UploadDir string      `mapstructure:"upload_dir"`
	MinIO     MinIOConfig `mapstructure:"minio"`
	Kafka     KafkaConfig `mapstructure:"kafka"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// KafkaConfig 存储入库事件生产者的配置。Brokers 为空时不发事件。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("database.sqlite.path", "uploads.db")
	viper.SetDefault("feed.poll_interval", "120s")
	viper.SetDefault("feed.timeout", "15s")
	viper.SetDefault("uploader.timeout", "60s")
	viper.SetDefault("ingest.port", "5000")
	viper.SetDefault("ingest.backend", "disk")
	viper.SetDefault("ingest.upload_dir", "uploads")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
}
