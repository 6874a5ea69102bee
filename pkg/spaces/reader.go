// Package spaces reads documents for an indexing framework out of a
// DigitalOcean Spaces (or any S3-compatible) bucket, and exposes the
// underlying bucket as a generic filesystem for persisting index state.
package spaces

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/document"
	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/storage"
	s3fs "github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/storage/s3"
)

// Config identifies the bucket to read and how to reach it. It is
// immutable once a Reader is constructed. Credentials and endpoint are
// not validated eagerly: a missing field surfaces on the first remote
// operation, not at construction.
type Config struct {
	Bucket          string // Bucket name
	Key             string // Optional: load exactly this object instead of iterating
	Prefix          string // Key prefix to iterate when Key is empty
	Region          string // Region; Spaces accepts any non-empty value
	EndpointURL     string // Spaces endpoint (e.g., https://nyc3.digitaloceanspaces.com)
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool // For MinIO/localstack test endpoints
}

// Mode selects how fetched object bytes are interpreted
type Mode int

const (
	// ModeText requires object bytes to be valid UTF-8; anything else
	// fails the object with storage.ErrDecode
	ModeText Mode = iota
	// ModeBinary carries bytes through untouched
	ModeBinary
)

// ErrorPolicy decides what a failed object fetch does to the load
type ErrorPolicy int

const (
	// FailFast aborts the whole load on the first fetch failure
	FailFast ErrorPolicy = iota
	// SkipFailed drops the object, logs a warning and keeps going
	SkipFailed
)

// FilterSpec narrows the candidate object list before any bytes are
// fetched and controls how fetches behave.
type FilterSpec struct {
	RequiredExts     []string              // Keep only keys with one of these suffixes (exact match)
	MaxFiles         int                   // Keep at most this many keys (0 = unlimited)
	Recursive        bool                  // Descend below the immediate prefix level
	FilenameAsID     bool                  // Derive document ids from object keys
	FileMetadata     document.MetadataFunc // Optional extra metadata per key
	Mode             Mode
	ErrorPolicy      ErrorPolicy
	FetchConcurrency int // Parallel object fetches (0 or 1 = sequential)
}

// DefaultFilterSpec returns the filter defaults: recursive iteration,
// key-derived ids, text mode, fail-fast, sequential fetch.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		Recursive:    true,
		FilenameAsID: true,
	}
}

// Reader loads documents from a bucket. It holds no state besides the
// configuration captured at construction; LoadData can be called
// repeatedly and every call is independent.
type Reader struct {
	cfg    Config
	filter FilterSpec
	fs     storage.Filesystem
	log    zerolog.Logger

	// ownsFS is true when the reader built its own remote filesystem
	// from cfg, which makes the connection fields mandatory at call time
	ownsFS bool
}

// New creates a Reader over an S3-compatible bucket. No network call
// happens here. A nil filter means DefaultFilterSpec.
func New(ctx context.Context, cfg Config, filter *FilterSpec, log zerolog.Logger) (*Reader, error) {
	fs, err := s3fs.New(ctx, "spaces_reader", &s3fs.Config{
		Endpoint:        cfg.EndpointURL,
		Region:          cfg.Region,
		Bucket:          cfg.Bucket,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		UseSSL:          true,
		ForcePathStyle:  cfg.ForcePathStyle,
	})
	if err != nil {
		return nil, err
	}

	r := NewWithFilesystem(fs, cfg, filter, log)
	r.ownsFS = true
	return r, nil
}

// NewWithFilesystem creates a Reader over an explicit filesystem. Used
// by tests and by callers that already hold a configured handle.
func NewWithFilesystem(fs storage.Filesystem, cfg Config, filter *FilterSpec, log zerolog.Logger) *Reader {
	f := DefaultFilterSpec()
	if filter != nil {
		f = *filter
	}
	if f.FetchConcurrency < 1 {
		f.FetchConcurrency = 1
	}

	return &Reader{
		cfg:    cfg,
		filter: f,
		fs:     fs,
		log:    log,
	}
}

// AsFilesystem returns the bucket-rooted filesystem handle backing this
// reader, for the framework's persistence routines. Paths are object
// keys relative to the bucket root.
func (r *Reader) AsFilesystem() storage.Filesystem {
	return r.fs
}

// Ping verifies the bucket is reachable with the configured credentials.
// Construction never touches the network, so this is the earliest point
// a bad endpoint or rejected key can be observed.
func (r *Reader) Ping(ctx context.Context) error {
	if err := r.checkConfig(); err != nil {
		return err
	}

	if p, ok := r.fs.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}

	_, err := r.fs.List(ctx, r.cfg.Prefix, false)
	return err
}

// LoadData enumerates objects under the configured prefix (or loads the
// single configured Key), applies the filter, fetches each surviving
// object and wraps it as a document.
//
// Candidate keys are ordered lexicographically ascending; MaxFiles
// truncation and the returned document order both follow that order. A
// prefix matching zero objects is a successful empty result, while a
// named Key that does not exist fails with storage.ErrNotFound.
func (r *Reader) LoadData(ctx context.Context) ([]document.Document, error) {
	if err := r.checkConfig(); err != nil {
		return nil, err
	}

	if r.cfg.Key != "" {
		doc, err := r.fetch(ctx, r.cfg.Key)
		if err != nil {
			return nil, err
		}
		return []document.Document{doc}, nil
	}

	infos, err := r.fs.List(ctx, r.cfg.Prefix, r.filter.Recursive)
	if err != nil {
		return nil, err
	}

	keys := r.selectKeys(infos)
	if len(keys) == 0 {
		return []document.Document{}, nil
	}

	if r.filter.FetchConcurrency > 1 {
		return r.fetchParallel(ctx, keys)
	}

	docs := make([]document.Document, 0, len(keys))
	for _, key := range keys {
		doc, err := r.fetch(ctx, key)
		if err != nil {
			if r.filter.ErrorPolicy == SkipFailed {
				r.log.Warn().Err(err).Str("key", key).Msg("skipping object that failed to load")
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// selectKeys applies extension filtering, the deterministic ordering and
// MaxFiles truncation to a listing
func (r *Reader) selectKeys(infos []storage.FileInfo) []string {
	var keys []string
	for _, info := range infos {
		if !r.matchExt(info.Path) {
			continue
		}
		keys = append(keys, info.Path)
	}

	sort.Strings(keys)

	if r.filter.MaxFiles > 0 && len(keys) > r.filter.MaxFiles {
		keys = keys[:r.filter.MaxFiles]
	}

	return keys
}

func (r *Reader) matchExt(key string) bool {
	if len(r.filter.RequiredExts) == 0 {
		return true
	}
	for _, ext := range r.filter.RequiredExts {
		if strings.HasSuffix(key, ext) {
			return true
		}
	}
	return false
}

// fetch reads one object and wraps it as a document
func (r *Reader) fetch(ctx context.Context, key string) (document.Document, error) {
	info, err := r.fs.Stat(ctx, key)
	if err != nil {
		return document.Document{}, err
	}

	data, err := r.fs.Read(ctx, key)
	if err != nil {
		return document.Document{}, err
	}

	if r.filter.Mode == ModeText && !utf8.Valid(data) {
		return document.Document{}, storage.WrapError(r.fs.Name(), "decode",
			fmt.Errorf("%w: object %s is not valid UTF-8", storage.ErrDecode, key))
	}

	metadata := map[string]interface{}{
		document.MetaFilePath: key,
		document.MetaFileName: path.Base(key),
		document.MetaBucket:   r.cfg.Bucket,
		document.MetaSize:     info.Size,
		document.MetaModTime:  info.ModTime.UTC().Format(time.RFC3339),
	}
	if r.filter.FileMetadata != nil {
		for k, v := range r.filter.FileMetadata(key) {
			metadata[k] = v
		}
	}

	return document.New(key, string(data), r.filter.FilenameAsID, metadata), nil
}

// fetchParallel fetches with bounded concurrency. Output order matches
// the key order exactly as in the sequential path, and SkipFailed drops
// the same objects it would have dropped sequentially.
func (r *Reader) fetchParallel(ctx context.Context, keys []string) ([]document.Document, error) {
	docs := make([]document.Document, len(keys))
	loaded := make([]bool, len(keys))

	sem := semaphore.NewWeighted(int64(r.filter.FetchConcurrency))
	g, gCtx := errgroup.WithContext(ctx)

	for i, key := range keys {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			doc, err := r.fetch(gCtx, key)
			if err != nil {
				if r.filter.ErrorPolicy == SkipFailed {
					r.log.Warn().Err(err).Str("key", key).Msg("skipping object that failed to load")
					return nil
				}
				return err
			}

			docs[i] = doc
			loaded[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]document.Document, 0, len(keys))
	for i := range docs {
		if loaded[i] {
			out = append(out, docs[i])
		}
	}

	return out, nil
}

// checkConfig enforces the call-time requirement that every connection
// field is present before a remote operation. Prefix is exempt: an
// empty prefix means the whole bucket.
func (r *Reader) checkConfig() error {
	if !r.ownsFS {
		return nil
	}

	missing := func(field string) error {
		return storage.WrapError("spaces_reader", "config",
			fmt.Errorf("%w: %s is required", storage.ErrInvalidConfig, field))
	}

	switch {
	case r.cfg.Bucket == "":
		return missing("bucket")
	case r.cfg.AccessKeyID == "":
		return missing("access key id")
	case r.cfg.SecretAccessKey == "":
		return missing("secret access key")
	case r.cfg.EndpointURL == "":
		return missing("endpoint url")
	}
	return nil
}
