// Package config loads editkit settings from a YAML file.
//
// Example file:
//
//	scratch_dir: /var/tmp/editkit
//	encoding: utf-8
//	flush: datasync
//	log:
//	  level: info
//	  format: text
//	limits:
//	  max_concurrent_uploads: 2
//	  upload_bytes_per_sec: 1048576
//	upload:
//	  target: s3
//	  bucket: my-bucket
//	  prefix: uploads/
//	  codec: zstd
//	  unique_names: true
//	  revision_table: editkit-revisions
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hupe1980/editkit"
	"github.com/hupe1980/editkit/codec"
	"github.com/hupe1980/editkit/resource"
	"github.com/hupe1980/editkit/store"
	"gopkg.in/yaml.v3"
)

// Upload targets.
const (
	TargetNone  = ""
	TargetHTTP  = "http"
	TargetLocal = "local"
	TargetS3    = "s3"
	TargetMinIO = "minio"
)

// Config is the root of a configuration file.
type Config struct {
	// ScratchDir holds working files. Empty places them next to the edited file.
	ScratchDir string `yaml:"scratch_dir,omitempty"`

	// WorkingPrefix is prepended to the edited file's name to name the working file.
	WorkingPrefix string `yaml:"working_prefix,omitempty"`

	// MemoryWorking keeps the working store in memory.
	MemoryWorking bool `yaml:"memory_working,omitempty"`

	// LineEnding is appended to every written line. Default: "\n".
	LineEnding string `yaml:"line_ending,omitempty"`

	// Encoding is the text encoding of the edited file (see editkit.EncodingByName).
	Encoding string `yaml:"encoding,omitempty"`

	// Flush is the flush mode used on save: none, sync or datasync.
	Flush string `yaml:"flush,omitempty"`

	Log    LogConfig    `yaml:"log,omitempty"`
	Limits LimitsConfig `yaml:"limits,omitempty"`
	Upload UploadConfig `yaml:"upload,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error. Default: info.
	Level string `yaml:"level,omitempty"`
	// Format is text or json. Default: text.
	Format string `yaml:"format,omitempty"`
}

// LimitsConfig bounds uploads across sessions.
type LimitsConfig struct {
	MaxConcurrentUploads int64 `yaml:"max_concurrent_uploads,omitempty"`
	UploadBytesPerSec    int64 `yaml:"upload_bytes_per_sec,omitempty"`
}

// UploadConfig selects where uploads go.
type UploadConfig struct {
	// Target is http, local, s3 or minio. Empty disables uploads.
	Target string `yaml:"target,omitempty"`

	// URL is the endpoint for the http target.
	URL string `yaml:"url,omitempty"`

	// Dir is the directory for the local target.
	Dir string `yaml:"dir,omitempty"`

	// Bucket and Prefix locate objects for the s3 and minio targets.
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`

	// Region overrides the AWS region for the s3 target.
	Region string `yaml:"region,omitempty"`

	// Endpoint, AccessKey, SecretKey and Secure configure the minio target.
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	Secure    bool   `yaml:"secure,omitempty"`

	// Codec compresses blob uploads: none, lz4 or zstd.
	Codec string `yaml:"codec,omitempty"`

	// UniqueNames stores every upload as a new object instead of replacing
	// the previous one.
	UniqueNames bool `yaml:"unique_names,omitempty"`

	// RevisionTable records uploads in this DynamoDB table (s3 target only,
	// requires UniqueNames).
	RevisionTable string `yaml:"revision_table,omitempty"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Flush: store.FlushDataSync.String(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and validates the YAML file at path. Unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML data on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field values and required combinations.
func (c *Config) Validate() error {
	var errs []error

	if _, err := editkit.EncodingByName(c.Encoding); err != nil {
		errs = append(errs, err)
	}
	if _, err := store.ParseFlushMode(c.Flush); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: invalid format %q: must be text or json", c.Log.Format))
	}
	if c.Limits.MaxConcurrentUploads < 0 || c.Limits.UploadBytesPerSec < 0 {
		errs = append(errs, errors.New("limits: values must not be negative"))
	}
	if err := c.Upload.validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (u *UploadConfig) validate() error {
	if _, ok := codec.ByName(u.Codec); !ok {
		return fmt.Errorf("upload.codec: unknown codec %q", u.Codec)
	}

	switch u.Target {
	case TargetNone:
		return nil
	case TargetHTTP:
		if u.URL == "" {
			return errors.New("upload.url is required for target http")
		}
		if u.Codec != "" && u.Codec != "none" {
			return errors.New("upload.codec is not supported for target http")
		}
	case TargetLocal:
		if u.Dir == "" {
			return errors.New("upload.dir is required for target local")
		}
	case TargetS3:
		if u.Bucket == "" {
			return errors.New("upload.bucket is required for target s3")
		}
	case TargetMinIO:
		if u.Bucket == "" || u.Endpoint == "" {
			return errors.New("upload.bucket and upload.endpoint are required for target minio")
		}
	default:
		return fmt.Errorf("upload.target: unknown target %q", u.Target)
	}

	if u.RevisionTable != "" && u.Target != TargetS3 {
		return errors.New("upload.revision_table requires target s3")
	}
	// Revisions must point at distinct objects.
	if u.RevisionTable != "" && !u.UniqueNames {
		return errors.New("upload.revision_table requires upload.unique_names")
	}
	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Logger builds the configured logger. verbose forces debug level.
func (c *Config) Logger(verbose bool) *editkit.Logger {
	level, err := c.Log.level()
	if err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	if strings.ToLower(c.Log.Format) == "json" {
		return editkit.NewJSONLogger(level)
	}
	return editkit.NewTextLogger(level)
}

// Controller builds the resource controller, or nil without limits.
func (c *Config) Controller() *resource.Controller {
	if c.Limits.MaxConcurrentUploads == 0 && c.Limits.UploadBytesPerSec == 0 {
		return nil
	}
	return resource.NewController(resource.Config{
		MaxConcurrentUploads: c.Limits.MaxConcurrentUploads,
		UploadBytesPerSec:    c.Limits.UploadBytesPerSec,
	})
}

// Options converts the configuration into session options.
func (c *Config) Options() ([]editkit.Option, error) {
	enc, err := editkit.EncodingByName(c.Encoding)
	if err != nil {
		return nil, err
	}
	mode, err := store.ParseFlushMode(c.Flush)
	if err != nil {
		return nil, err
	}

	opts := []editkit.Option{
		editkit.WithScratchDir(c.ScratchDir),
		editkit.WithWorkingPrefix(c.WorkingPrefix),
		editkit.WithEncoding(enc),
		editkit.WithFlushMode(mode),
		editkit.WithResourceController(c.Controller()),
	}
	if c.LineEnding != "" {
		opts = append(opts, editkit.WithLineEnding(c.LineEnding))
	}
	if c.MemoryWorking {
		opts = append(opts, editkit.WithMemoryWorkingStore())
	}
	return opts, nil
}
