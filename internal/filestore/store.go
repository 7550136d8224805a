// Package filestore publishes generated declaration files to object storage.
//
// Callers depend on the Store interface; minio.New provides the S3-compatible
// implementation and Memory an in-process one.
package filestore

import (
	"context"
	"io"
	"time"
)

// ContentTypeTypeScript is the content type of published declaration files.
const ContentTypeTypeScript = "application/typescript"

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64 // -1 if unknown
	ContentType  string
	ETag         string
	LastModified time.Time
}

// Object is a streaming handle to an object's content. Callers must Close it.
type Object interface {
	io.ReadCloser
	Info() *ObjectInfo
}

// Store is an object storage backend.
type Store interface {
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	Close() error

	// PutObject stores data at key inside bucket, replacing any previous
	// object.
	PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) (*ObjectInfo, error)

	// GetObject opens the object at key inside bucket. A missing object is
	// an errs.ErrKindNotFound error.
	GetObject(ctx context.Context, bucket, key string) (Object, error)

	// StatObject returns metadata for the object without its content.
	StatObject(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// PresignGetURL returns a time-limited download URL for the object.
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
