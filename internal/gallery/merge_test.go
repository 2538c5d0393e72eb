package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygallery-go/internal/model"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func deviceItem(id, ref string, capturedAt *time.Time) model.MediaItem {
	return model.MediaItem{
		ID:         id,
		SourceRef:  ref,
		Kind:       model.KindPhoto,
		DisplayURI: ref,
		CapturedAt: capturedAt,
		Origin:     model.OriginDevice,
	}
}

func localItem(id, ref string) model.MediaItem {
	return model.MediaItem{
		ID:         id,
		SourceRef:  ref,
		Kind:       model.KindPhoto,
		DisplayURI: ref,
		Origin:     model.OriginLocalUpload,
	}
}

func remoteItem(id, ref string) model.MediaItem {
	return model.MediaItem{
		ID:         id,
		SourceRef:  ref,
		Kind:       model.KindPhoto,
		DisplayURI: ref,
		Origin:     model.OriginRemote,
	}
}

func TestMergeIdempotent(t *testing.T) {
	device := []model.MediaItem{
		deviceItem("dev-a", "file:///dev/a.jpg", ts("2024-01-02T00:00:00Z")),
		deviceItem("dev-b", "file:///dev/b.jpg", ts("2024-01-01T00:00:00Z")),
	}
	remote := []model.MediaItem{remoteItem("rmt-1", "https://cdn.example.com/1.jpg")}
	local := []model.MediaItem{localItem("up-1", "file:///dev/c.jpg")}

	first := Merge(device, remote, local)
	second := Merge(device, remote, local)
	require.Equal(t, first, second)
}

func TestMergeLocalUploadPrecedence(t *testing.T) {
	device := []model.MediaItem{deviceItem("dev-1", "file:///dev/IMG001.jpg", nil)}
	local := []model.MediaItem{localItem("up-1", "file:///dev/IMG001.jpg")}

	merged := Merge(device, nil, local)
	require.Len(t, merged, 1)
	assert.Equal(t, model.OriginLocalUpload, merged[0].Origin)
	assert.Equal(t, "up-1", merged[0].ID)
}

func TestMergeOrdering(t *testing.T) {
	device := []model.MediaItem{
		deviceItem("dev-old", "file:///dev/old.jpg", ts("2023-01-01T00:00:00Z")),
		deviceItem("dev-new", "file:///dev/new.jpg", ts("2024-06-01T00:00:00Z")),
		deviceItem("dev-undated", "file:///dev/undated.jpg", nil),
	}
	local := []model.MediaItem{localItem("up-1", "file:///spool/cap.jpg")}
	remote := []model.MediaItem{remoteItem("rmt-1", "https://cdn.example.com/1.jpg")}

	merged := Merge(device, remote, local)
	require.Len(t, merged, 5)

	// 设备区时间倒序，无时间戳的排在设备区末尾
	assert.Equal(t, "dev-new", merged[0].ID)
	assert.Equal(t, "dev-old", merged[1].ID)
	assert.Equal(t, "dev-undated", merged[2].ID)
	// 上传在前，远端收尾
	assert.Equal(t, "up-1", merged[3].ID)
	assert.Equal(t, "rmt-1", merged[4].ID)
}

func TestMergeStableAcrossRemerge(t *testing.T) {
	// 成员不变的重合并不得洗牌（两个同秒条目依赖稳定排序）
	same := ts("2024-01-01T00:00:00Z")
	device := []model.MediaItem{
		deviceItem("dev-a", "file:///dev/a.jpg", same),
		deviceItem("dev-b", "file:///dev/b.jpg", same),
	}
	first := Merge(device, nil, nil)
	second := Merge(device, nil, nil)
	require.Equal(t, first, second)
	assert.Equal(t, "dev-a", first[0].ID)
}

func TestMergeDedupWithinSourceLastWins(t *testing.T) {
	remote := []model.MediaItem{
		remoteItem("rmt-1", "https://cdn.example.com/1.jpg"),
		remoteItem("rmt-2", "https://cdn.example.com/2.jpg"),
		{ID: "rmt-1b", SourceRef: "https://cdn.example.com/1.jpg", DisplayURI: "https://cdn.example.com/1-v2.jpg", Origin: model.OriginRemote},
	}

	merged := Merge(nil, remote, nil)
	require.Len(t, merged, 2)
	// 后见者胜，但位置保持首见处
	assert.Equal(t, "rmt-1b", merged[0].ID)
	assert.Equal(t, "rmt-2", merged[1].ID)
}

func TestMergeEmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil, nil))
}
