package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MePlay/config"
)

func TestUnconfiguredStorePassesThrough(t *testing.T) {
	s, err := NewObjectStore(&config.Config{})
	require.NoError(t, err)
	assert.False(t, s.Configured())

	for _, p := range []string{"", "assets/songs/a.mp3", "https://cdn.example.com/a.mp3"} {
		got, err := s.URL(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	require.NoError(t, s.EnsureBucket(context.Background(), ""))
	_, _, err = s.ListObjects(context.Background(), "", true)
	assert.Error(t, err)
}

func TestPresignedURL(t *testing.T) {
	client, err := minio.New("play.example.com", &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Secure: true,
		// a fixed region avoids the bucket location lookup
		Region: "us-east-1",
	})
	require.NoError(t, err)
	s := NewObjectStoreWithClient(client, "meplay", time.Hour)

	got, err := s.URL(context.Background(), "/audio/so what.mp3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "https://play.example.com/meplay/audio/so%20what.mp3?"), got)
	assert.Contains(t, got, "X-Amz-Signature=")
	assert.Contains(t, got, "X-Amz-Expires=3600")

	abs, err := s.URL(context.Background(), "HTTP://elsewhere/a.mp3")
	require.NoError(t, err)
	assert.Equal(t, "HTTP://elsewhere/a.mp3", abs)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "3.0 MB", FormatSize(3*1024*1024))
}

func TestInferContentType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", InferContentType("a/b.MP3"))
	assert.Equal(t, "image/jpeg", InferContentType("cover.jpeg"))
	assert.Equal(t, "application/octet-stream", InferContentType("notes"))
}

func TestBucketStats(t *testing.T) {
	b := &BucketStats{ByType: map[string]int64{}}
	now := time.Now()
	b.add(ObjectInfo{Key: "a.mp3", Size: 10, ContentType: "audio/mpeg", LastModified: now})
	b.add(ObjectInfo{Key: "b.mp3", Size: 5, ContentType: "audio/mpeg", LastModified: now.Add(-time.Hour)})
	assert.Equal(t, int64(2), b.TotalObjects)
	assert.Equal(t, int64(15), b.TotalSize)
	assert.Equal(t, now, b.LastModified)
	assert.Equal(t, int64(15), b.ByType["audio/mpeg"])
}
