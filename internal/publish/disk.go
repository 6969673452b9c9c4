package publish

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// DiskStore writes published documents below a local directory.
type DiskStore struct {
	dir string
}

type diskMeta struct {
	Key         string            `json:"key"`
	ContentType string            `json:"content_type"`
	Size        int64             `json:"size"`
	StoredAt    time.Time         `json:"stored_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Name implements Store.
func (s *DiskStore) Name() string { return "disk" }

// Dir returns the root directory.
func (s *DiskStore) Dir() string { return s.dir }

// Put writes obj atomically: readers see either the old or the new file.
// A metadata sidecar is written next to it as <key>.meta.
func (s *DiskStore) Put(ctx context.Context, obj Object) (Result, error) {
	key, err := cleanKey(obj.Key)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return Result{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".publish-*")
	if err != nil {
		return Result{}, err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(obj.Body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return Result{}, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return Result{}, err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return Result{}, err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return Result{}, err
	}

	meta := diskMeta{
		Key:         key,
		ContentType: obj.ContentType,
		Size:        int64(len(obj.Body)),
		StoredAt:    time.Now().UTC(),
		Metadata:    obj.Metadata,
	}
	if err := s.saveMeta(dst, meta); err != nil {
		return Result{}, err
	}

	return Result{
		Key:      key,
		Location: dst,
		Size:     meta.Size,
		StoredAt: meta.StoredAt,
	}, nil
}

// Stat returns the metadata recorded for key.
func (s *DiskStore) Stat(key string) (Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return Object{}, err
	}
	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	data, err := os.ReadFile(metaPath(dst))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Object{}, ErrNotFound
		}
		return Object{}, err
	}
	var meta diskMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Object{}, err
	}
	return Object{Key: meta.Key, ContentType: meta.ContentType, Metadata: meta.Metadata}, nil
}

func (s *DiskStore) saveMeta(dst string, meta diskMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(metaPath(dst), data, 0644)
}

func metaPath(dst string) string {
	return dst + ".meta"
}
