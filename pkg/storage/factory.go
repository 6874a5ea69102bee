package storage

import (
	"context"
	"fmt"
)

// Constructor is a function that creates a filesystem instance
type Constructor func(ctx context.Context, cfg Config) (Filesystem, error)

var registry = make(map[string]Constructor)

// Register registers a filesystem constructor under a type name
func Register(fsType string, constructor Constructor) {
	registry[fsType] = constructor
}

// Factory creates filesystems from configuration
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create instantiates a filesystem from config
func (f *Factory) Create(ctx context.Context, cfg Config) (Filesystem, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("filesystem %s is disabled", cfg.Name)
	}

	constructor, ok := registry[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown filesystem type: %s", cfg.Type)
	}

	return constructor(ctx, cfg)
}

// CreateAll creates all enabled filesystems from a slice of configs
func (f *Factory) CreateAll(ctx context.Context, configs []Config) ([]Filesystem, error) {
	filesystems := make([]Filesystem, 0, len(configs))

	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}

		fs, err := f.Create(ctx, cfg)
		if err != nil {
			for _, created := range filesystems {
				created.Close()
			}
			return nil, fmt.Errorf("failed to create filesystem %s: %w", cfg.Name, err)
		}

		filesystems = append(filesystems, fs)
	}

	return filesystems, nil
}
