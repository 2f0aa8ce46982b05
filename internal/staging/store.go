package staging

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound means the token does not reference a staged file, either
// because it never existed or because it was already cleaned up.
var ErrNotFound = errors.New("staged file not found")

// Store holds uploaded audio between the preview and save requests. A
// preview response hands the client an opaque token; save echoes it back so
// the same bytes are reused without a second upload.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Stage writes the upload to disk under a fresh token. fileName must
// already be key-sanitized; it survives inside the token so save can
// recover the storage key later.
func (s *Store) Stage(r io.Reader, fileName string) (token string, size int64, err error) {
	token = uuid.NewString() + "_" + fileName
	f, err := os.Create(filepath.Join(s.dir, token))
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	size, err = io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return "", 0, err
	}
	return token, size, nil
}

// Path resolves a token to its on-disk path. Tokens are opaque client
// input, so anything that could escape the staging dir is rejected.
func (s *Store) Path(token string) (string, error) {
	if token == "" || strings.ContainsAny(token, `/\`) || strings.Contains(token, "..") {
		return "", ErrNotFound
	}
	path := filepath.Join(s.dir, token)
	if _, err := os.Stat(path); err != nil {
		return "", ErrNotFound
	}
	return path, nil
}

// Rename points the token at a replacement file produced next to the staged
// one (the compressor's output) and drops the original.
func (s *Store) Rename(token, newPath string) (string, error) {
	old, err := s.Path(token)
	if err != nil {
		return "", err
	}
	newToken := filepath.Base(newPath)
	if filepath.Dir(newPath) != filepath.Clean(s.dir) {
		return "", fmt.Errorf("replacement %s is outside the staging dir", newPath)
	}
	os.Remove(old)
	return newToken, nil
}

// BaseName recovers the sanitized file name from a token, stripping the
// uuid prefix and any compression suffix.
func BaseName(token string) string {
	if _, name, ok := strings.Cut(token, "_"); ok {
		return strings.Replace(name, "-compressed", "", 1)
	}
	return token
}

// Remove deletes the staged file. Unknown tokens are a no-op.
func (s *Store) Remove(token string) {
	if path, err := s.Path(token); err == nil {
		os.Remove(path)
	}
}

// CleanupExpired drops staged files older than maxAge. Previews the client
// abandoned would otherwise grow the temp dir without bound.
func (s *Store) CleanupExpired(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Printf("Warning: staging cleanup: %v", err)
		return 0
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(s.dir, entry.Name())) == nil {
				removed++
			}
		}
	}
	return removed
}
