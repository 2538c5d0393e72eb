// Package events 提供了入库事件的 Kafka 生产者。
// 事件只是通知：下游（缩略图、索引等）是否消费与接收端无关，
// 发送失败不影响上传结果。
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"mygallery-go/internal/config"
	"mygallery-go/pkg/log"
)

// IngestEvent 描述一次成功入库的文件。
type IngestEvent struct {
	File     string    `json:"file"`
	Size     int64     `json:"size"`
	StoredAt time.Time `json:"stored_at"`
}

// Producer 封装了入库事件的 Kafka Writer。
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 创建一个新的入库事件生产者。
func NewProducer(cfg config.KafkaConfig) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("入库事件 Kafka 生产者初始化成功")
	return &Producer{writer: w}
}

// Publish 发送一条入库事件。
func (p *Producer) Publish(ctx context.Context, event IngestEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Value: payload})
}

// Close 关闭底层 Writer。
func (p *Producer) Close() error {
	return p.writer.Close()
}
