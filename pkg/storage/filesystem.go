package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Gobusters/ectologger"
)

// FilesystemStore implements ObjectStore on a local directory tree,
// mirroring the bucket/key namespace as <root>/<bucket>/<key>. Used for
// tests and local pipeline runs.
type FilesystemStore struct {
	root   string
	logger ectologger.Logger
}

// NewFilesystemStore creates a store rooted at dir.
func NewFilesystemStore(dir string, logger ectologger.Logger) *FilesystemStore {
	return &FilesystemStore{
		root:   dir,
		logger: logger,
	}
}

func (s *FilesystemStore) path(bucket, key string) string {
	return filepath.Join(s.root, bucket, filepath.FromSlash(key))
}

func (s *FilesystemStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	body, err := os.ReadFile(s.path(bucket, key))
	if os.IsNotExist(err) {
		return nil, ErrObjectNotFound
	}
	return body, err
}

func (s *FilesystemStore) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	path := s.path(bucket, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

func (s *FilesystemStore) HeadObject(ctx context.Context, bucket, key string) (bool, error) {
	_, err := os.Stat(s.path(bucket, key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *FilesystemStore) ListObjects(ctx context.Context, bucket, prefix string) ([]string, error) {
	bucketRoot := filepath.Join(s.root, bucket)

	// walk from the last full path segment of the prefix; object-store
	// prefixes need not end on a directory boundary
	prefixDir := prefix
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		prefixDir = prefix[:i+1]
	} else {
		prefixDir = ""
	}
	dir := filepath.Join(bucketRoot, filepath.FromSlash(prefixDir))

	keys := []string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(bucketRoot, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	keys = filterPrefix(keys, prefix)

	// stable order like a real object listing
	sort.Strings(keys)
	return keys, nil
}

// ensure listings only return keys under the requested prefix even when the
// prefix does not end at a path boundary
func filterPrefix(keys []string, prefix string) []string {
	out := keys[:0]
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}
