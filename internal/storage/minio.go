package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
	patterns   []*regexp.Regexp
}

// ErrObjectExists is returned when an upload would overwrite an existing key.
// Generated keys make this practically unreachable.
var ErrObjectExists = errors.New("object already exists")

// NewMinioStorage creates a MinIO client, ensures the bucket exists with a
// public-read policy, and returns a ready-to-use MinioStorage.
func NewMinioStorage(endpoint, accessKey, secretKey, bucket, publicBase string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Printf("storage: created bucket %q", bucket)
	}

	if err := client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioStorage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
		patterns:   keyPatterns(bucket),
	}, nil
}

// Upload stores reader under a generated key. size must be the exact byte
// count. Responses are marked no-cache so a replaced flyer is not served
// stale from an intermediary.
func (s *MinioStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, string, error) {
	key := NewObjectKey(filename)

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err == nil {
		return "", "", &UploadError{Key: key, Err: ErrObjectExists}
	} else if resp := minio.ToErrorResponse(err); resp.Code != "NoSuchKey" && resp.StatusCode != 404 {
		return "", "", &UploadError{Key: key, Err: err}
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "no-cache",
	})
	if err != nil {
		return "", "", &UploadError{Key: key, Err: err}
	}

	if s.publicBase == "" {
		return "", "", &UploadError{Key: key, Err: errors.New("no public URL base configured")}
	}
	return s.PublicURL(key), key, nil
}

// Remove deletes the object at key from the bucket.
func (s *MinioStorage) Remove(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return false, &DeleteError{Key: key, Err: err}
	}
	return true, nil
}

// ExtractKey recovers the object key from a previously issued public URL.
func (s *MinioStorage) ExtractKey(publicURL string) string {
	publicURL = strings.TrimSpace(publicURL)
	for _, p := range s.patterns {
		if m := p.FindStringSubmatch(publicURL); len(m) == 2 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

// PublicURL returns the browser-accessible URL for the given key.
func (s *MinioStorage) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
