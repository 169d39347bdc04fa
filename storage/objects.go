package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// ObjectInfo 对象信息
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ContentType  string    `json:"content_type"`
}

// BucketStats 存储桶统计
type BucketStats struct {
	TotalObjects int64
	TotalSize    int64
	LastModified time.Time
	// ByType 按内容类型统计大小
	ByType map[string]int64
}

// ListObjects 列出存储桶中的对象
func (s *ObjectStore) ListObjects(ctx context.Context, prefix string, recursive bool) ([]ObjectInfo, *BucketStats, error) {
	if !s.Configured() {
		return nil, nil, fmt.Errorf("MinIO 客户端未初始化")
	}

	stats := &BucketStats{ByType: map[string]int64{}}
	var objects []ObjectInfo
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: recursive,
	}) {
		if object.Err != nil {
			return nil, nil, fmt.Errorf("列出对象时出错: %w", object.Err)
		}
		info := ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ContentType:  object.ContentType,
		}
		if info.ContentType == "" {
			info.ContentType = InferContentType(object.Key)
		}
		objects = append(objects, info)
		stats.add(info)
	}
	return objects, stats, nil
}

func (b *BucketStats) add(o ObjectInfo) {
	b.TotalObjects++
	b.TotalSize += o.Size
	if o.LastModified.After(b.LastModified) {
		b.LastModified = o.LastModified
	}
	b.ByType[o.ContentType] += o.Size
}

// FormatSize 格式化文件大小
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// InferContentType 从文件名推断内容类型
func InferContentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
