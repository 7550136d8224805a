package filestore

import (
	"bytes"
	"context"
	"io"

	"github.com/koustreak/kyselygen/internal/errs"
)

// PublishResult reports what Publish did.
type PublishResult struct {
	// Uploaded is false when the stored object already had identical content.
	Uploaded bool
	Info     *ObjectInfo

	// URL is a presigned download link, set when cfg.PresignTTL > 0.
	URL string
}

// Publish uploads source to cfg.Bucket/cfg.Key unless the stored object is
// already byte-identical.
func Publish(ctx context.Context, store Store, cfg *Config, source []byte) (*PublishResult, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "upload bucket and key are required")
	}

	current, err := readObject(ctx, store, cfg.Bucket, cfg.Key)
	if err != nil && !errs.IsNotFound(err) {
		return nil, err
	}

	res := &PublishResult{}
	if err == nil && bytes.Equal(current, source) {
		res.Info, err = store.StatObject(ctx, cfg.Bucket, cfg.Key)
		if err != nil {
			return nil, err
		}
	} else {
		res.Info, err = store.PutObject(ctx, cfg.Bucket, cfg.Key, source, ContentTypeTypeScript)
		if err != nil {
			return nil, err
		}
		res.Uploaded = true
	}

	if cfg.PresignTTL > 0 {
		res.URL, err = store.PresignGetURL(ctx, cfg.Bucket, cfg.Key, cfg.PresignTTL)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func readObject(ctx context.Context, store Store, bucket, key string) ([]byte, error) {
	obj, err := store.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to read object", err)
	}
	return data, nil
}
