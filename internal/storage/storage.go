// Package storage keeps uploaded profile pictures in a gocloud blob bucket.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	// URL openers for mem:// and s3:// buckets
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// PicturePrefix is the key prefix of profile pictures.
const PicturePrefix = "profile_pictures/"

type Store struct {
	bucket   *blob.Bucket
	mediaURL string
}

// Open opens the bucket at rawURL. file:// URLs may be relative ("file://./media") and the
// directory is created when missing; every other scheme goes through blob.OpenBucket.
func Open(ctx context.Context, rawURL, mediaURL string) (*Store, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse storage url: %w", err)
	}
	var bucket *blob.Bucket
	if u.Scheme == "file" {
		dir, err := filepath.Abs(filepath.FromSlash(u.Host + u.Path))
		if err != nil {
			return nil, fmt.Errorf("resolve storage dir: %w", err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure storage dir: %w", err)
		}
		bucket, err = fileblob.OpenBucket(dir, nil)
		if err != nil {
			return nil, fmt.Errorf("open file bucket: %w", err)
		}
	} else {
		bucket, err = blob.OpenBucket(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("open bucket: %w", err)
		}
	}
	return New(bucket, mediaURL), nil
}

func New(bucket *blob.Bucket, mediaURL string) *Store {
	if mediaURL == "" {
		mediaURL = "/media/"
	}
	return &Store{bucket: bucket, mediaURL: mediaURL}
}

func (s *Store) Close() error { return s.bucket.Close() }

// Put writes data under key.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	key = sanitizeKey(key)
	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	return nil
}

// SavePicture stores an uploaded image under a fresh key and returns the key.
// The uploaded file name only contributes its extension.
func (s *Store) SavePicture(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(filename)))
	if len(ext) > 10 {
		ext = ""
	}
	key := PicturePrefix + uuid.NewString() + ext
	if err := s.Put(ctx, key, data, http.DetectContentType(data)); err != nil {
		return "", err
	}
	return key, nil
}

// NewReader opens the blob at key. Use IsNotExist on the error for missing keys.
func (s *Store) NewReader(ctx context.Context, key string) (*blob.Reader, error) {
	return s.bucket.NewReader(ctx, sanitizeKey(key), nil)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	key = sanitizeKey(key)
	if err := s.bucket.Delete(ctx, key); err != nil && !IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

// URL returns the public media URL of key.
func (s *Store) URL(key string) string {
	return strings.TrimRight(s.mediaURL, "/") + "/" + sanitizeKey(key)
}

func IsNotExist(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}

// sanitizeKey prevents path traversal.
func sanitizeKey(key string) string {
	key = filepath.ToSlash(key)
	key = strings.TrimLeft(key, "/")
	parts := strings.Split(key, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "/")
}
