package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/storage"
)

// Filesystem implements storage.Filesystem over any S3-compatible
// service (AWS S3, DigitalOcean Spaces, MinIO, localstack).
type Filesystem struct {
	name     string
	client   *s3.Client
	bucket   string
	prefix   string
	uploader *manager.Uploader
}

func init() {
	storage.Register("s3", func(ctx context.Context, cfg storage.Config) (storage.Filesystem, error) {
		s3Cfg, err := parseConfig(cfg.Options)
		if err != nil {
			return nil, err
		}
		return New(ctx, cfg.Name, s3Cfg)
	})
}

// New creates a new S3 filesystem. No network call happens here: an
// unreachable endpoint or rejected credentials surface on the first
// operation (or on an explicit Ping).
func New(ctx context.Context, name string, cfg *Config) (*Filesystem, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		),
	)
	if err != nil {
		return nil, storage.WrapError(name, "init", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &Filesystem{
		name:     name,
		client:   client,
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		uploader: manager.NewUploader(client),
	}, nil
}

func (f *Filesystem) Name() string { return f.name }
func (f *Filesystem) Type() string { return "s3" }

// Ping verifies the bucket is reachable with the configured credentials
func (f *Filesystem) Ping(ctx context.Context) error {
	_, err := f.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(f.bucket),
	})
	if err != nil {
		kind := classify(err)
		if errors.Is(kind, storage.ErrNotFound) {
			// A bucket that is not there is an unreachable endpoint, not
			// a missing object
			kind = fmt.Errorf("%w: %v", storage.ErrConnFailed, err)
		}
		return storage.WrapError(f.name, "ping", kind)
	}
	return nil
}

// Write stores data under path
func (f *Filesystem) Write(ctx context.Context, objectPath string, data []byte) error {
	_, err := f.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(objectPath)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return storage.WrapError(f.name, "write", classify(err))
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
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(objectPath)),
	})
	if err != nil {
		return nil, storage.WrapError(f.name, "open", classify(err))
	}
	return out.Body, nil
}

// Delete removes the object at path
func (f *Filesystem) Delete(ctx context.Context, objectPath string) error {
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(objectPath)),
	})
	if err != nil {
		return storage.WrapError(f.name, "delete", classify(err))
	}
	return nil
}

// List returns objects under prefix. Non-recursive listing uses an S3
// delimiter so only the immediate level is returned; sub-prefixes
// (CommonPrefixes) are not objects and are skipped.
func (f *Filesystem) List(ctx context.Context, prefix string, recursive bool) ([]storage.FileInfo, error) {
	listPrefix := f.key(prefix)
	if listPrefix != "" && !strings.HasSuffix(listPrefix, "/") {
		listPrefix += "/"
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(f.bucket),
		Prefix: aws.String(listPrefix),
	}
	if !recursive {
		input.Delimiter = aws.String("/")
	}

	var files []storage.FileInfo

	paginator := s3.NewListObjectsV2Paginator(f.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storage.WrapError(f.name, "list", classify(err))
		}

		for _, obj := range page.Contents {
			relPath := f.rel(aws.ToString(obj.Key))
			if relPath == "" {
				// The prefix itself can appear as a 0-byte "directory" marker
				continue
			}

			files = append(files, storage.FileInfo{
				Path:    relPath,
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
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

	paginator := s3.NewListObjectsV2Paginator(f.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(f.bucket),
		Prefix:    aws.String(listPrefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storage.WrapError(f.name, "listdir", classify(err))
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == listPrefix {
				continue
			}
			names = append(names, path.Base(key))
		}
		for _, cp := range page.CommonPrefixes {
			names = append(names, path.Base(strings.TrimSuffix(aws.ToString(cp.Prefix), "/")))
		}
	}

	return names, nil
}

// Stat returns metadata about the object at path
func (f *Filesystem) Stat(ctx context.Context, objectPath string) (*storage.FileInfo, error) {
	out, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(objectPath)),
	})
	if err != nil {
		return nil, storage.WrapError(f.name, "stat", classify(err))
	}

	return &storage.FileInfo{
		Path:    objectPath,
		Size:    aws.ToInt64(out.ContentLength),
		ModTime: aws.ToTime(out.LastModified),
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

// MkdirAll is a no-op: S3 has no directories
func (f *Filesystem) MkdirAll(ctx context.Context, objectPath string) error {
	return nil
}

// Close is a no-op for S3
func (f *Filesystem) Close() error {
	return nil
}

// key joins the base prefix with an object path
func (f *Filesystem) key(objectPath string) string {
	return path.Join(f.prefix, strings.TrimPrefix(objectPath, "/"))
}

// rel strips the base prefix from a full object key
func (f *Filesystem) rel(key string) string {
	rel := strings.TrimPrefix(key, f.prefix)
	return strings.TrimPrefix(rel, "/")
}

// classify maps SDK errors onto the storage sentinel taxonomy so callers
// can distinguish credential rejection from connectivity from a missing
// object by error kind
func classify(err error) error {
	var notFound *s3types.NotFound
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %v", storage.ErrNotFound, err)
	}

	var noSuchBucket *s3types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return fmt.Errorf("%w: %v", storage.ErrConnFailed, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %v", storage.ErrAccessDenied, err)
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", storage.ErrNotFound, err)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %v", storage.ErrConnFailed, err)
		}
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", storage.ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", storage.ErrConnFailed, err)
	}

	return err
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{
		UseSSL:         true, // Default
		ForcePathStyle: false,
	}

	if v, ok := options["endpoint"].(string); ok {
		cfg.Endpoint = v
	}
	if v, ok := options["region"].(string); ok {
		cfg.Region = v
	} else {
		return nil, fmt.Errorf("missing required option: region")
	}
	if v, ok := options["bucket"].(string); ok {
		cfg.Bucket = v
	} else {
		return nil, fmt.Errorf("missing required option: bucket")
	}
	if v, ok := options["prefix"].(string); ok {
		cfg.Prefix = v
	}
	if v, ok := options["access_key_id"].(string); ok {
		cfg.AccessKeyID = v
	} else {
		return nil, fmt.Errorf("missing required option: access_key_id")
	}
	if v, ok := options["secret_access_key"].(string); ok {
		cfg.SecretAccessKey = v
	} else {
		return nil, fmt.Errorf("missing required option: secret_access_key")
	}
	if v, ok := options["use_ssl"].(bool); ok {
		cfg.UseSSL = v
	}
	if v, ok := options["force_path_style"].(bool); ok {
		cfg.ForcePathStyle = v
	}

	return cfg, nil
}
