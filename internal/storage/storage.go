// Package storage implements the flyer object-storage gateway.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage is the interface for the flyer object store.
type Storage interface {
	// Upload stores the file under a freshly generated key and returns the
	// public URL and the key. The key is never reused; an existing object
	// under the same key fails the upload.
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (url, key string, err error)
	// Remove deletes the object at key. An empty key is a no-op returning
	// false; a backend failure is reported as a *DeleteError.
	Remove(ctx context.Context, key string) (bool, error)
	// ExtractKey recovers the object key from a previously issued public
	// URL. It returns "" when the URL matches no known shape; callers must
	// treat that as "nothing to delete", not as a failure.
	ExtractKey(publicURL string) string
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}

// UploadError reports a failed object upload.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload object %q: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// DeleteError reports a failed object deletion.
type DeleteError struct {
	Key string
	Err error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete object %q: %v", e.Key, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// NewObjectKey generates a collision-resistant object key for an uploaded
// file: unix-milli timestamp, a random token, and the original extension.
func NewObjectKey(filename string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), path.Ext(filename))
}

// keyPatterns returns the recognized public-URL shapes for a bucket, most
// specific first: the public-object gateway path, then a bare bucket path.
func keyPatterns(bucket string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(bucket)
	return []*regexp.Regexp{
		regexp.MustCompile(`/storage/v1/object/public/` + quoted + `/(.+)$`),
		regexp.MustCompile(`/` + quoted + `/(.+)$`),
	}
}

// ExtractObjectKey recovers the object key from a public URL issued for the
// given bucket, or "" when the URL matches neither recognized pattern.
func ExtractObjectKey(bucket, publicURL string) string {
	publicURL = strings.TrimSpace(publicURL)
	if publicURL == "" {
		return ""
	}
	for _, p := range keyPatterns(bucket) {
		if m := p.FindStringSubmatch(publicURL); len(m) == 2 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}
