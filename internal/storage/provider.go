package storage

import (
	"io"
	"time"
)

// Provider defines the behavior for any storage backend.
type Provider interface {
	// Exists reports whether the key holds an object. A missing key is
	// (false, nil); any transport/auth failure must propagate as an error,
	// never collapse into false.
	Exists(bucket, key string) (bool, error)
	// Put writes the object unconditionally. Dedup policy is the caller's.
	Put(bucket, key string, body io.ReadSeeker, contentType string) error
	Delete(bucket, key string) error
	// Presign returns a time-limited download URL. disposition may be empty.
	Presign(bucket, key, disposition string, ttl time.Duration) (string, error)
	List(bucket, prefix string) ([]ObjectInfo, error)
}

// ObjectInfo is the provider-agnostic listing entry.
type ObjectInfo struct {
	Key          string
	LastModified time.Time
}
