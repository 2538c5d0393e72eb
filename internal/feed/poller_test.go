package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygallery-go/internal/gallery"
	"mygallery-go/internal/model"
	"mygallery-go/internal/repository"
)

// scriptedClient 按脚本依次返回每轮 Fetch 的结果。
type scriptedClient struct {
	rounds []func() ([]model.MediaItem, error)
	calls  int
}

func (c *scriptedClient) Fetch(ctx context.Context) ([]model.MediaItem, error) {
	round := c.rounds[c.calls%len(c.rounds)]
	c.calls++
	return round()
}

func remoteFixture(id string) model.MediaItem {
	return model.MediaItem{
		ID:         id,
		SourceRef:  "https://cdn.example.com/" + id + ".jpg",
		Kind:       model.KindPhoto,
		DisplayURI: "https://cdn.example.com/" + id + ".jpg",
		Origin:     model.OriginRemote,
	}
}

func TestPollOnceReplacesRemoteSubset(t *testing.T) {
	library := gallery.NewLibrary()
	client := &scriptedClient{rounds: []func() ([]model.MediaItem, error){
		func() ([]model.MediaItem, error) {
			return []model.MediaItem{remoteFixture("rmt-a"), remoteFixture("rmt-b")}, nil
		},
	}}
	p := NewPoller(client, library, repository.NewFeedCacheRepository(nil), time.Minute)

	p.pollOnce(context.Background())
	require.Len(t, library.Items(), 2)
}

func TestPollOnceStaleRetainOnFailure(t *testing.T) {
	library := gallery.NewLibrary()
	client := &scriptedClient{rounds: []func() ([]model.MediaItem, error){
		func() ([]model.MediaItem, error) {
			return []model.MediaItem{remoteFixture("rmt-a"), remoteFixture("rmt-b")}, nil
		},
		func() ([]model.MediaItem, error) {
			return nil, fmt.Errorf("%w: 模拟网络故障", ErrRemoteFetch)
		},
	}}
	p := NewPoller(client, library, repository.NewFeedCacheRepository(nil), time.Minute)

	p.pollOnce(context.Background())
	before := library.Items()
	require.Len(t, before, 2)

	// 第二轮失败：旧快照原样保留，不清空
	p.pollOnce(context.Background())
	after := library.Items()
	assert.Equal(t, before, after)
	assert.Equal(t, 2, client.calls)
}

func TestPollerDefaultInterval(t *testing.T) {
	p := NewPoller(&scriptedClient{}, gallery.NewLibrary(), repository.NewFeedCacheRepository(nil), 0)
	assert.Equal(t, 120*time.Second, p.interval)
}
