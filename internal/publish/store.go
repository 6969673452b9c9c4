package publish

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"
)

// ErrInvalidKey is returned for empty keys and keys that escape the store
// root.
var ErrInvalidKey = errors.New("publish: invalid key")

// ErrNotFound is returned when a published object doesn't exist.
var ErrNotFound = errors.New("publish: object not found")

// Store is the interface for publish targets.
type Store interface {
	// Put stores obj under obj.Key, replacing any previous object.
	Put(ctx context.Context, obj Object) (Result, error)

	// Name identifies the target in logs ("disk", "s3").
	Name() string
}

// Object is one rendered document ready to be stored.
type Object struct {
	// Key is the slash-separated object name, e.g. "docs/index.html".
	Key string

	// ContentType is the MIME type of Body.
	ContentType string

	// Body is the rendered document.
	Body []byte

	// Metadata is stored alongside the object where the target supports it.
	Metadata map[string]string
}

// Result describes a stored object.
type Result struct {
	Key      string
	Location string
	Size     int64
	StoredAt time.Time
}

// cleanKey validates key and returns its canonical form.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
