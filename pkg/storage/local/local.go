package local

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/storage"
)

// Filesystem implements storage.Filesystem over a local directory tree.
// The indexing framework uses it to persist index state on disk, and the
// reader tests use it as an in-process stand-in for a bucket.
type Filesystem struct {
	name     string
	basePath string
}

func init() {
	storage.Register("local", func(ctx context.Context, cfg storage.Config) (storage.Filesystem, error) {
		return New(cfg)
	})
}

// New creates a new local filesystem rooted at options["path"]
func New(cfg storage.Config) (*Filesystem, error) {
	pathVal, ok := cfg.Options["path"]
	if !ok {
		return nil, fmt.Errorf("missing required option: path")
	}

	basePath, ok := pathVal.(string)
	if !ok {
		return nil, fmt.Errorf("path must be a string")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Filesystem{
		name:     cfg.Name,
		basePath: basePath,
	}, nil
}

func (f *Filesystem) Name() string { return f.name }
func (f *Filesystem) Type() string { return "local" }

// Write stores data under path
func (f *Filesystem) Write(ctx context.Context, filePath string, data []byte) error {
	fullPath := filepath.Join(f.basePath, filepath.FromSlash(filePath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return storage.WrapError(f.name, "write", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return storage.WrapError(f.name, "write", err)
	}

	return nil
}

// Read returns the full content of the file at path
func (f *Filesystem) Read(ctx context.Context, filePath string) ([]byte, error) {
	fullPath := filepath.Join(f.basePath, filepath.FromSlash(filePath))

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.WrapError(f.name, "read", storage.ErrNotFound)
		}
		return nil, storage.WrapError(f.name, "read", err)
	}

	return data, nil
}

// Open returns a stream over the file at path
func (f *Filesystem) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	fullPath := filepath.Join(f.basePath, filepath.FromSlash(filePath))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.WrapError(f.name, "open", storage.ErrNotFound)
		}
		return nil, storage.WrapError(f.name, "open", err)
	}

	return file, nil
}

// Delete removes the file at path
func (f *Filesystem) Delete(ctx context.Context, filePath string) error {
	fullPath := filepath.Join(f.basePath, filepath.FromSlash(filePath))
	if err := os.Remove(fullPath); err != nil {
		return storage.WrapError(f.name, "delete", err)
	}
	return nil
}

// List returns files under prefix, paths relative to the filesystem
// root with forward slashes
func (f *Filesystem) List(ctx context.Context, prefix string, recursive bool) ([]storage.FileInfo, error) {
	root := filepath.Join(f.basePath, filepath.FromSlash(prefix))

	var files []storage.FileInfo

	err := filepath.WalkDir(root, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && walkPath != root {
				return fs.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(f.basePath, walkPath)
		if err != nil {
			return err
		}

		files = append(files, storage.FileInfo{
			Path:    filepath.ToSlash(relPath),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing prefix lists as empty, matching object stores
		}
		return nil, storage.WrapError(f.name, "list", err)
	}

	return files, nil
}

// ListDir returns the names of the immediate children of path
func (f *Filesystem) ListDir(ctx context.Context, dirPath string) ([]string, error) {
	fullPath := filepath.Join(f.basePath, filepath.FromSlash(dirPath))

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, storage.WrapError(f.name, "listdir", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names, nil
}

// Stat returns metadata about the file at path
func (f *Filesystem) Stat(ctx context.Context, filePath string) (*storage.FileInfo, error) {
	fullPath := filepath.Join(f.basePath, filepath.FromSlash(filePath))

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.WrapError(f.name, "stat", storage.ErrNotFound)
		}
		return nil, storage.WrapError(f.name, "stat", err)
	}

	return &storage.FileInfo{
		Path:    strings.TrimPrefix(filepath.ToSlash(filePath), "/"),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Exists checks whether a file or directory exists at path
func (f *Filesystem) Exists(ctx context.Context, filePath string) (bool, error) {
	fullPath := filepath.Join(f.basePath, filepath.FromSlash(filePath))

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, storage.WrapError(f.name, "exists", err)
	}

	return true, nil
}

// MkdirAll creates a directory hierarchy under path
func (f *Filesystem) MkdirAll(ctx context.Context, dirPath string) error {
	fullPath := filepath.Join(f.basePath, filepath.FromSlash(dirPath))
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return storage.WrapError(f.name, "mkdir", err)
	}
	return nil
}

// Close is a no-op for local filesystems
func (f *Filesystem) Close() error {
	return nil
}
