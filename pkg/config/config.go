package config

import (
	"fmt"

	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/spaces"
	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/storage"
)

// ReaderConfig mirrors spaces.Config in file form
type ReaderConfig struct {
	Bucket          string `json:"bucket"`
	Key             string `json:"key,omitempty"`
	Prefix          string `json:"prefix,omitempty"`
	Region          string `json:"region"`
	EndpointURL     string `json:"endpoint_url"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	ForcePathStyle  bool   `json:"force_path_style,omitempty"`
}

// FilterConfig mirrors spaces.FilterSpec in file form
type FilterConfig struct {
	RequiredExts     []string `json:"required_exts,omitempty"`
	MaxFiles         int      `json:"max_files,omitempty"`
	Recursive        *bool    `json:"recursive,omitempty"`      // default true
	FilenameAsID     *bool    `json:"filename_as_id,omitempty"` // default true
	Mode             string   `json:"mode,omitempty"`           // text, binary (default: text)
	ErrorPolicy      string   `json:"error_policy,omitempty"`   // fail_fast, skip_failed (default: fail_fast)
	FetchConcurrency int      `json:"fetch_concurrency,omitempty"`
}

// Config is the root configuration structure
type Config struct {
	LogLevel    string           `json:"log_level,omitempty"`  // debug, info, warn, error (default: info)
	LogFormat   string           `json:"log_format,omitempty"` // json, console (default: json)
	Reader      ReaderConfig     `json:"reader"`
	Filter      FilterConfig     `json:"filter,omitempty"`
	Persistence []storage.Config `json:"persistence,omitempty"` // Filesystems for index state
}

// GetLogLevel returns the log level (defaults to info)
func (c *Config) GetLogLevel() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	return "info"
}

// GetLogFormat returns the log format (defaults to json)
func (c *Config) GetLogFormat() string {
	if c.LogFormat != "" {
		return c.LogFormat
	}
	return "json"
}

// SpacesConfig converts the file form into the reader's Config
func (c *Config) SpacesConfig() spaces.Config {
	return spaces.Config{
		Bucket:          c.Reader.Bucket,
		Key:             c.Reader.Key,
		Prefix:          c.Reader.Prefix,
		Region:          c.Reader.Region,
		EndpointURL:     c.Reader.EndpointURL,
		AccessKeyID:     c.Reader.AccessKeyID,
		SecretAccessKey: c.Reader.SecretAccessKey,
		ForcePathStyle:  c.Reader.ForcePathStyle,
	}
}

// FilterSpec converts the file form into the reader's FilterSpec
func (c *Config) FilterSpec() (spaces.FilterSpec, error) {
	spec := spaces.DefaultFilterSpec()

	spec.RequiredExts = c.Filter.RequiredExts
	spec.MaxFiles = c.Filter.MaxFiles
	spec.FetchConcurrency = c.Filter.FetchConcurrency

	if c.Filter.Recursive != nil {
		spec.Recursive = *c.Filter.Recursive
	}
	if c.Filter.FilenameAsID != nil {
		spec.FilenameAsID = *c.Filter.FilenameAsID
	}

	switch c.Filter.Mode {
	case "", "text":
		spec.Mode = spaces.ModeText
	case "binary":
		spec.Mode = spaces.ModeBinary
	default:
		return spec, fmt.Errorf("unknown mode: %s", c.Filter.Mode)
	}

	switch c.Filter.ErrorPolicy {
	case "", "fail_fast":
		spec.ErrorPolicy = spaces.FailFast
	case "skip_failed":
		spec.ErrorPolicy = spaces.SkipFailed
	default:
		return spec, fmt.Errorf("unknown error_policy: %s", c.Filter.ErrorPolicy)
	}

	return spec, nil
}
