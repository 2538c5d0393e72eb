package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygallery-go/internal/model"
)

func TestLibrarySetLocalRecordsProjectsStableIDs(t *testing.T) {
	l := NewLibrary()
	l.SetLocalRecords([]model.UploadRecord{
		{ID: 7, Filename: "media-7.jpg", Filepath: "file:///dev/a.jpg", UploadDate: "2024-01-01T00:00:00Z"},
	})

	items := l.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "up-7", items[0].ID)
	assert.Equal(t, model.OriginLocalUpload, items[0].Origin)
}

func TestLibraryAppendLocalUploadReplacesDeviceEntry(t *testing.T) {
	l := NewLibrary()
	l.SetDeviceItems([]model.MediaItem{
		deviceItem("dev-1", "file:///dev/IMG001.jpg", nil),
		deviceItem("dev-2", "file:///dev/IMG002.jpg", nil),
	})

	l.AppendLocalUpload(localItem("up-1", "file:///dev/IMG001.jpg"))

	items := l.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "up-1", items[0].ID)
	assert.Equal(t, model.OriginLocalUpload, items[0].Origin)
	assert.Equal(t, "dev-2", items[1].ID)
}

func TestLibraryAppendLocalUploadInsertsBeforeRemote(t *testing.T) {
	l := NewLibrary()
	l.SetDeviceItems([]model.MediaItem{deviceItem("dev-1", "file:///dev/a.jpg", nil)})
	l.SetRemoteItems([]model.MediaItem{remoteItem("rmt-1", "https://cdn.example.com/1.jpg")})

	l.AppendLocalUpload(localItem("up-1", "file:///spool/cap.jpg"))

	items := l.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "dev-1", items[0].ID)
	assert.Equal(t, "up-1", items[1].ID)
	assert.Equal(t, "rmt-1", items[2].ID)
}

func TestLibraryAppendSurvivesRemerge(t *testing.T) {
	// 增量并入的条目在下一次全量重合并后仍然在场
	l := NewLibrary()
	l.SetDeviceItems([]model.MediaItem{deviceItem("dev-1", "file:///dev/a.jpg", nil)})
	l.AppendLocalUpload(localItem("up-1", "file:///spool/cap.jpg"))

	l.SetRemoteItems([]model.MediaItem{remoteItem("rmt-1", "https://cdn.example.com/1.jpg")})

	items := l.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "up-1", items[1].ID)
}

func TestLibraryRemoteReplacedWholesale(t *testing.T) {
	l := NewLibrary()
	l.SetRemoteItems([]model.MediaItem{
		remoteItem("rmt-1", "https://cdn.example.com/1.jpg"),
		remoteItem("rmt-2", "https://cdn.example.com/2.jpg"),
	})
	l.SetRemoteItems([]model.MediaItem{remoteItem("rmt-3", "https://cdn.example.com/3.jpg")})

	items := l.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "rmt-3", items[0].ID)
}
