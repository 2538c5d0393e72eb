// Package feed 提供了远端精选图片流的客户端与轮询器。
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mygallery-go/internal/config"
	"mygallery-go/internal/model"
	"mygallery-go/pkg/log"
)

// ErrRemoteFetch 表示一次拉取失败（网络错误、非 2xx 状态或响应格式不对）。
// 调用方必须就地消化它：记日志、保留旧快照、等下一轮，绝不冒泡成用户可见错误。
var ErrRemoteFetch = errors.New("remote fetch failed")

// Client defines the interface for a curated feed client.
type Client interface {
	Fetch(ctx context.Context) ([]model.MediaItem, error)
}

type curatedClient struct {
	cfg    config.FeedConfig
	client *http.Client
}

// NewClient 创建一个新的图片流客户端。
func NewClient(cfg config.FeedConfig) Client {
	return &curatedClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// curatedResponse 对应远端精选接口的响应结构。
type curatedResponse struct {
	Photos []struct {
		ID  int64 `json:"id"`
		Src struct {
			Original string `json:"original"`
			Medium   string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

// Fetch 拉取精选图片列表并规范化为 MediaItem。
// 远端条目不带拍摄时间，CapturedAt 保持为空。
func (c *curatedClient) Fetch(ctx context.Context) ([]model.MediaItem, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.cfg.BaseURL+"/curated", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: 创建请求失败: %v", ErrRemoteFetch, err)
	}
	req.Header.Set("Authorization", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warnf("[FeedClient] 调用精选接口失败: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRemoteFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warnf("[FeedClient] 精选接口返回非 2xx 状态码: %s", resp.Status)
		return nil, fmt.Errorf("%w: 状态码 %s", ErrRemoteFetch, resp.Status)
	}

	var payload curatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Warnf("[FeedClient] 解析精选接口响应失败: %v", err)
		return nil, fmt.Errorf("%w: 解析响应失败: %v", ErrRemoteFetch, err)
	}

	items := make([]model.MediaItem, 0, len(payload.Photos))
	for _, p := range payload.Photos {
		thumb := p.Src.Medium
		if thumb == "" {
			thumb = p.Src.Original
		}
		items = append(items, model.MediaItem{
			ID:           fmt.Sprintf("rmt-%d", p.ID),
			SourceRef:    p.Src.Original,
			Kind:         model.KindPhoto,
			DisplayURI:   p.Src.Original,
			ThumbnailURI: thumb,
			Origin:       model.OriginRemote,
		})
	}

	log.Infof("[FeedClient] 成功拉取精选图片流, 共 %d 条", len(items))
	return items, nil
}
