package filestore

import "time"

// DefaultPresignTTL is the lifetime of presigned download links.
const DefaultPresignTTL = 24 * time.Hour

// Config locates the object store and the object the generated file is
// published to.
type Config struct {
	// Endpoint is host:port of the S3-compatible server, e.g. "localhost:9000".
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool

	// Region is only needed by region-aware backends. Leave empty for MinIO.
	Region string

	// Bucket and Key name the published object, e.g. "schemas" and "db/types.ts".
	Bucket string
	Key    string

	// PresignTTL is how long presigned links stay valid. Zero disables them.
	PresignTTL time.Duration
}

// DefaultConfig returns a local MinIO config that publishes to bucket/key.
func DefaultConfig(endpoint, bucket, key string) *Config {
	return &Config{
		Endpoint: endpoint,
		Bucket:   bucket,
		Key:      key,
	}
}
