package filestore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/koustreak/kyselygen/internal/errs"
)

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memObject
	puts    int
}

type memObject struct {
	data []byte
	info ObjectInfo
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memObject)}
}

func memKey(bucket, key string) string { return bucket + "/" + key }

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

// Puts returns how many times PutObject succeeded.
func (m *Memory) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

func (m *Memory) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) (*ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "failed to put object", err)
	}
	sum := md5.Sum(data)
	obj := memObject{
		data: append([]byte(nil), data...),
		info: ObjectInfo{
			Key:          key,
			Size:         int64(len(data)),
			ContentType:  contentType,
			ETag:         hex.EncodeToString(sum[:]),
			LastModified: time.Now().UTC(),
		},
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[memKey(bucket, key)] = obj
	m.puts++
	info := obj.info
	return &info, nil
}

func (m *Memory) lookup(bucket, key string) (memObject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[memKey(bucket, key)]
	if !ok {
		return memObject{}, errs.Newf(errs.ErrKindNotFound, "object %s/%s not found", bucket, key)
	}
	return obj, nil
}

func (m *Memory) GetObject(_ context.Context, bucket, key string) (Object, error) {
	obj, err := m.lookup(bucket, key)
	if err != nil {
		return nil, err
	}
	info := obj.info
	return &memReader{ReadCloser: io.NopCloser(bytes.NewReader(obj.data)), info: &info}, nil
}

func (m *Memory) StatObject(_ context.Context, bucket, key string) (*ObjectInfo, error) {
	obj, err := m.lookup(bucket, key)
	if err != nil {
		return nil, err
	}
	info := obj.info
	return &info, nil
}

// PresignGetURL returns a memory:// URL carrying the expiry.
func (m *Memory) PresignGetURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if _, err := m.lookup(bucket, key); err != nil {
		return "", err
	}
	u := url.URL{Scheme: "memory", Host: bucket, Path: "/" + key}
	u.RawQuery = url.Values{"expires": {fmt.Sprint(int64(ttl.Seconds()))}}.Encode()
	return u.String(), nil
}

type memReader struct {
	io.ReadCloser
	info *ObjectInfo
}

func (r *memReader) Info() *ObjectInfo { return r.info }
