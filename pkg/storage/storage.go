package storage

import (
	"context"
	"io"
	"time"
)

// Filesystem is a generic read/write/list capability over a storage
// location. The document reader uses it to enumerate and fetch objects,
// and the indexing framework uses it to persist serialized index
// artifacts under arbitrary sub-paths.
type Filesystem interface {
	// Name returns a human-readable name for this filesystem (e.g., "spaces_docs")
	Name() string

	// Type returns the filesystem type (s3, local, backblaze, ssh)
	Type() string

	// Write stores data under path, creating or replacing the object
	Write(ctx context.Context, path string, data []byte) error

	// Read returns the full content of the object at path
	Read(ctx context.Context, path string) ([]byte, error)

	// Open returns a stream over the object at path; the caller must close it
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path
	Delete(ctx context.Context, path string) error

	// List returns objects whose keys live under prefix. When recursive is
	// false, only objects at the immediate level below prefix are returned.
	// Order is implementation-defined; callers needing a stable order must
	// sort the result themselves.
	List(ctx context.Context, prefix string, recursive bool) ([]FileInfo, error)

	// ListDir returns the names (not full paths) of the immediate children
	// of path, objects and sub-prefixes alike
	ListDir(ctx context.Context, path string) ([]string, error)

	// Stat returns metadata about the object at path
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Exists checks whether an object exists at path
	Exists(ctx context.Context, path string) (bool, error)

	// MkdirAll creates a directory hierarchy where the backing store has
	// real directories; object stores treat it as a no-op
	MkdirAll(ctx context.Context, path string) error

	// Close releases resources (connections, sessions)
	Close() error
}

// FileInfo represents metadata about a stored object
type FileInfo struct {
	Path    string    // Path relative to the filesystem root
	Size    int64     // Size in bytes
	ModTime time.Time // Last modification time
}

// Config represents filesystem configuration
type Config struct {
	Name    string                 `json:"name"`    // User-friendly name (e.g., "spaces_docs")
	Type    string                 `json:"type"`    // Filesystem type: s3, local, backblaze, ssh
	Enabled bool                   `json:"enabled"` // Whether this filesystem is active
	Options map[string]interface{} `json:"options"` // Type-specific options
}
