package backblaze

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/kurin/blazer/b2"

	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/storage"
)

// Filesystem implements storage.Filesystem over a Backblaze B2 bucket.
// It serves as an alternative persistence target for index artifacts;
// document loading normally goes through the s3 filesystem.
type Filesystem struct {
	name   string
	client *b2.Client
	bucket *b2.Bucket
	prefix string
}

func init() {
	storage.Register("backblaze", func(ctx context.Context, cfg storage.Config) (storage.Filesystem, error) {
		return New(ctx, cfg)
	})
}

// New creates a new Backblaze B2 filesystem. Unlike the s3 filesystem,
// the B2 client authorizes during construction; a rejected key fails here.
func New(ctx context.Context, cfg storage.Config) (*Filesystem, error) {
	b2Cfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, err
	}

	client, err := b2.NewClient(ctx, b2Cfg.AccountID, b2Cfg.ApplicationKey)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", storage.ErrAccessDenied)
	}

	bucket, err := client.Bucket(ctx, b2Cfg.BucketName)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "get bucket", err)
	}

	return &Filesystem{
		name:   cfg.Name,
		client: client,
		bucket: bucket,
		prefix: strings.Trim(b2Cfg.Prefix, "/"),
	}, nil
}

func (f *Filesystem) Name() string { return f.name }
func (f *Filesystem) Type() string { return "backblaze" }

// Write stores data under path
func (f *Filesystem) Write(ctx context.Context, objectPath string, data []byte) error {
	obj := f.bucket.Object(f.key(objectPath))
	writer := obj.NewWriter(ctx)

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		writer.Close()
		return storage.WrapError(f.name, "write", err)
	}

	if err := writer.Close(); err != nil {
		return storage.WrapError(f.name, "write", err)
	}

	return nil
}

// Read returns the full content of the object at path
func (f *Filesystem) Read(ctx context.Context, objectPath string) ([]byte, error) {
	body, err := f.Open(ctx, objectPath)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, storage.WrapError(f.name, "read", classify(err))
	}
	return data, nil
}

// Open returns a stream over the object at path
func (f *Filesystem) Open(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	obj := f.bucket.Object(f.key(objectPath))
	return obj.NewReader(ctx), nil
}

// Delete removes the object at path
func (f *Filesystem) Delete(ctx context.Context, objectPath string) error {
	obj := f.bucket.Object(f.key(objectPath))
	if err := obj.Delete(ctx); err != nil {
		return storage.WrapError(f.name, "delete", classify(err))
	}
	return nil
}

// List returns objects under prefix
func (f *Filesystem) List(ctx context.Context, prefix string, recursive bool) ([]storage.FileInfo, error) {
	listPrefix := f.key(prefix)
	if listPrefix != "" && !strings.HasSuffix(listPrefix, "/") {
		listPrefix += "/"
	}

	opts := []b2.ListOption{b2.ListPrefix(listPrefix)}
	if !recursive {
		opts = append(opts, b2.ListDelimiter("/"))
	}

	var files []storage.FileInfo

	iter := f.bucket.List(ctx, opts...)
	for iter.Next() {
		obj := iter.Object()

		rel := f.rel(obj.Name())
		if rel == "" || strings.HasSuffix(rel, "/") {
			// Delimiter listings surface child prefixes as "names/"
			continue
		}

		attrs, err := obj.Attrs(ctx)
		if err != nil {
			return nil, storage.WrapError(f.name, "list", classify(err))
		}

		files = append(files, storage.FileInfo{
			Path:    rel,
			Size:    attrs.Size,
			ModTime: attrs.UploadTimestamp,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, storage.WrapError(f.name, "list", classify(err))
	}

	return files, nil
}

// ListDir returns the names of the immediate children of path
func (f *Filesystem) ListDir(ctx context.Context, objectPath string) ([]string, error) {
	listPrefix := f.key(objectPath)
	if listPrefix != "" && !strings.HasSuffix(listPrefix, "/") {
		listPrefix += "/"
	}

	var names []string

	iter := f.bucket.List(ctx, b2.ListPrefix(listPrefix), b2.ListDelimiter("/"))
	for iter.Next() {
		name := strings.TrimSuffix(iter.Object().Name(), "/")
		if name == strings.TrimSuffix(listPrefix, "/") {
			continue
		}
		names = append(names, path.Base(name))
	}
	if err := iter.Err(); err != nil {
		return nil, storage.WrapError(f.name, "listdir", classify(err))
	}

	return names, nil
}

// Stat returns metadata about the object at path
func (f *Filesystem) Stat(ctx context.Context, objectPath string) (*storage.FileInfo, error) {
	obj := f.bucket.Object(f.key(objectPath))

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, storage.WrapError(f.name, "stat", classify(err))
	}

	return &storage.FileInfo{
		Path:    objectPath,
		Size:    attrs.Size,
		ModTime: attrs.UploadTimestamp,
	}, nil
}

// Exists checks whether an object exists at path
func (f *Filesystem) Exists(ctx context.Context, objectPath string) (bool, error) {
	_, err := f.Stat(ctx, objectPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MkdirAll is a no-op: B2 has no directories
func (f *Filesystem) MkdirAll(ctx context.Context, objectPath string) error {
	return nil
}

// Close releases resources
func (f *Filesystem) Close() error {
	return nil
}

func (f *Filesystem) key(objectPath string) string {
	return path.Join(f.prefix, strings.TrimPrefix(objectPath, "/"))
}

func (f *Filesystem) rel(key string) string {
	rel := strings.TrimPrefix(key, f.prefix)
	return strings.TrimPrefix(rel, "/")
}

func classify(err error) error {
	if b2.IsNotExist(err) {
		return fmt.Errorf("%w: %v", storage.ErrNotFound, err)
	}
	return err
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{}

	if v, ok := options["account_id"].(string); ok {
		cfg.AccountID = v
	} else {
		return nil, fmt.Errorf("missing required option: account_id")
	}
	if v, ok := options["application_key"].(string); ok {
		cfg.ApplicationKey = v
	} else {
		return nil, fmt.Errorf("missing required option: application_key")
	}
	if v, ok := options["bucket_name"].(string); ok {
		cfg.BucketName = v
	} else {
		return nil, fmt.Errorf("missing required option: bucket_name")
	}
	if v, ok := options["prefix"].(string); ok {
		cfg.Prefix = v
	}

	return cfg, nil
}
