package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalProvider simulates the bucket on the local filesystem. Used for
// development and tests; semantics mirror the S3 backend.
type LocalProvider struct {
	RootPath string
}

func NewLocalProvider(root string) *LocalProvider {
	_ = os.MkdirAll(root, 0755)
	return &LocalProvider{RootPath: root}
}

func (l *LocalProvider) objectPath(bucket, key string) string {
	return filepath.Join(l.RootPath, bucket, filepath.FromSlash(key))
}

func (l *LocalProvider) Exists(bucket, key string) (bool, error) {
	info, err := os.Stat(l.objectPath(bucket, key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (l *LocalProvider) Put(bucket, key string, body io.ReadSeeker, contentType string) error {
	path := l.objectPath(bucket, key)

	// Ensure sub-directories exist (e.g. bucket/songs/file.mp3)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, body)
	return err
}

func (l *LocalProvider) Delete(bucket, key string) error {
	return os.Remove(l.objectPath(bucket, key))
}

// Presign has nothing to sign locally; it hands back a direct file URL that
// expires only with the filesystem.
func (l *LocalProvider) Presign(bucket, key, disposition string, ttl time.Duration) (string, error) {
	abs, err := filepath.Abs(l.objectPath(bucket, key))
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}

func (l *LocalProvider) List(bucket, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	bucketPath := filepath.Join(l.RootPath, bucket)

	err := filepath.Walk(bucketPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}

		// Convert OS path back to S3-style key (forward slashes)
		rel, _ := filepath.Rel(bucketPath, path)
		key := filepath.ToSlash(rel)

		if strings.HasPrefix(key, prefix) {
			objects = append(objects, ObjectInfo{Key: key, LastModified: info.ModTime()})
		}
		return nil
	})

	return objects, err
}
