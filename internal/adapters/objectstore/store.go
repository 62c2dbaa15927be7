// Package objectstore implements secondary.FileStore on an S3-compatible
// bucket, so a scaffold can be published without a local checkout.
//
// Usage:
//
//	store, err := objectstore.New(ctx, objectstore.Config{
//	    Endpoint: "localhost:9000", AccessKey: "minioadmin", SecretKey: "minioadmin",
//	    Bucket: "scaffolds", Prefix: "team-a",
//	})
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/zeebo/xxh3"

	"github.com/example/crudkit/internal/errs"
	"github.com/example/crudkit/internal/ports/secondary"
)

// hashMeta is the user-metadata key holding the content hash. MinIO returns
// user metadata with canonical header casing.
const hashMeta = "Xxh3"

// Config addresses the bucket. Prefix is prepended to every key.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Bucket    string
	Prefix    string
}

// Store is a bucket-backed FileStore. It is safe for concurrent use.
type Store struct {
	client *miniogo.Client
	bucket string
	prefix string
}

// New connects to the object store and verifies the bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConfiguration, "failed to create object store client", err)
	}

	ok, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, mapError(err, "failed to reach object store")
	}
	if !ok {
		return nil, errs.New(errs.ErrKindConfiguration, fmt.Sprintf("bucket %q does not exist", cfg.Bucket))
	}

	return &Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// ObjectKey maps a host path onto a bucket key under prefix:
// "/work/shop/src/routes.json" with prefix "team-a" -> "team-a/work/shop/src/routes.json".
func ObjectKey(prefix, p string) string {
	key := path.Clean("/" + filepath.ToSlash(p))
	if prefix != "" {
		key = path.Join("/", strings.Trim(prefix, "/"), key)
	}
	return strings.TrimPrefix(key, "/")
}

// WriteFile uploads data unless the stored object already has the same hash.
func (s *Store) WriteFile(ctx context.Context, p string, data []byte) (secondary.WriteResult, error) {
	key := ObjectKey(s.prefix, p)
	sum := strconv.FormatUint(xxh3.Hash(data), 16)

	result := secondary.WriteUpdated
	info, err := s.client.StatObject(ctx, s.bucket, key, miniogo.StatObjectOptions{})
	switch {
	case err == nil:
		if info.Size == int64(len(data)) && info.UserMetadata[hashMeta] == sum {
			return secondary.WriteUnchanged, nil
		}
	case isNotFound(err):
		result = secondary.WriteCreated
	default:
		return "", mapError(err, "failed to stat "+key)
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), miniogo.PutObjectOptions{
		ContentType:  contentType(key),
		UserMetadata: map[string]string{hashMeta: sum},
	})
	if err != nil {
		return "", mapError(err, "failed to upload "+key)
	}
	return result, nil
}

// ReadFile downloads the object for p.
func (s *Store) ReadFile(ctx context.Context, p string) ([]byte, error) {
	key := ObjectKey(s.prefix, p)
	obj, err := s.client.GetObject(ctx, s.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, s.readError(key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.readError(key, err)
	}
	return data, nil
}

func (s *Store) readError(key string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("object %s: %w", key, fs.ErrNotExist)
	}
	return mapError(err, "failed to download "+key)
}

// Exists reports whether p is an object or a prefix holding objects.
func (s *Store) Exists(ctx context.Context, p string) (bool, error) {
	key := ObjectKey(s.prefix, p)
	_, err := s.client.StatObject(ctx, s.bucket, key, miniogo.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if !isNotFound(err) {
		return false, mapError(err, "failed to stat "+key)
	}

	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	for obj := range s.client.ListObjects(listCtx, s.bucket, miniogo.ListObjectsOptions{
		Prefix:  key + "/",
		MaxKeys: 1,
	}) {
		if obj.Err != nil {
			return false, mapError(obj.Err, "failed to list "+key)
		}
		return true, nil
	}
	return false, nil
}

func isNotFound(err error) bool {
	resp := miniogo.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

// mapError translates an SDK error into a kinded error. Credential and
// bucket problems are configuration errors; everything else is persistence.
func mapError(err error, msg string) *errs.Error {
	resp := miniogo.ToErrorResponse(err)
	switch resp.Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "NoSuchBucket", "InvalidBucketName":
		return errs.Wrap(errs.ErrKindConfiguration, msg, err)
	}
	return errs.Wrap(errs.ErrKindPersistence, msg, err)
}

func contentType(key string) string {
	switch path.Ext(key) {
	case ".json":
		return "application/json"
	case ".js", ".jsx":
		return "text/javascript"
	case ".ts":
		return "application/typescript"
	default:
		return "text/plain; charset=utf-8"
	}
}

var _ secondary.FileStore = (*Store)(nil)
