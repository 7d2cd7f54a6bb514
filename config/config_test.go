package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/editkit/blobstore"
	"github.com/hupe1980/editkit/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "datasync", cfg.Flush)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Nil(t, cfg.Controller())

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.NotEmpty(t, opts)

	_, err = cfg.Consumer(context.Background())
	assert.ErrorIs(t, err, ErrNoUploadTarget)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "editkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scratch_dir: /tmp/scratch
encoding: utf-16le
flush: sync
line_ending: "\r\n"
log:
  level: debug
  format: json
limits:
  max_concurrent_uploads: 2
  upload_bytes_per_sec: 4096
upload:
  target: local
  dir: `+dir+`
  codec: zstd
  unique_names: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/scratch", cfg.ScratchDir)
	assert.Equal(t, "utf-16le", cfg.Encoding)
	assert.Equal(t, "\r\n", cfg.LineEnding)
	assert.Equal(t, TargetLocal, cfg.Upload.Target)
	assert.True(t, cfg.Upload.UniqueNames)

	rc := cfg.Controller()
	require.NotNil(t, rc)
	assert.Equal(t, 4096, rc.Burst())

	consumer, err := cfg.Consumer(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &transport.BlobConsumer{}, consumer)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("scratchdir: /tmp\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"encoding", "encoding: ebcdic\n", "unsupported encoding"},
		{"flush", "flush: sometimes\n", "flush"},
		{"log level", "log:\n  level: loud\n", "log.level"},
		{"log format", "log:\n  format: xml\n", "log.format"},
		{"negative limits", "limits:\n  max_concurrent_uploads: -1\n", "limits"},
		{"unknown target", "upload:\n  target: ftp\n", "unknown target"},
		{"http url", "upload:\n  target: http\n", "upload.url"},
		{"http codec", "upload:\n  target: http\n  url: http://x\n  codec: lz4\n", "not supported"},
		{"local dir", "upload:\n  target: local\n", "upload.dir"},
		{"s3 bucket", "upload:\n  target: s3\n", "upload.bucket"},
		{"minio endpoint", "upload:\n  target: minio\n  bucket: b\n", "upload.endpoint"},
		{"codec", "upload:\n  target: local\n  dir: /tmp\n  codec: gzip\n", "unknown codec"},
		{"revision table", "upload:\n  target: local\n  dir: /tmp\n  revision_table: t\n", "revision_table"},
		{"revision table naming", "upload:\n  target: s3\n  bucket: b\n  revision_table: t\n", "requires upload.unique_names"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestConsumer_HTTP(t *testing.T) {
	cfg, err := Parse([]byte("upload:\n  target: http\n  url: http://localhost:8080/api/upload\n"))
	require.NoError(t, err)

	consumer, err := cfg.Consumer(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &transport.HTTPConsumer{}, consumer)
}

func TestConsumer_MinIO(t *testing.T) {
	cfg, err := Parse([]byte("upload:\n  target: minio\n  endpoint: localhost:9000\n  bucket: b\n  access_key: k\n  secret_key: s\n"))
	require.NoError(t, err)

	consumer, err := cfg.Consumer(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &transport.BlobConsumer{}, consumer)
}

func TestBlobStore(t *testing.T) {
	ctx := context.Background()

	cfg, err := Parse([]byte("upload:\n  target: local\n  dir: " + t.TempDir() + "\n"))
	require.NoError(t, err)
	store, revisions, err := cfg.BlobStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.LocalStore{}, store)
	assert.Nil(t, revisions)

	cfg, err = Parse([]byte("upload:\n  target: http\n  url: http://localhost:8080/api/upload\n"))
	require.NoError(t, err)
	_, _, err = cfg.BlobStore(ctx)
	assert.ErrorContains(t, err, "cannot be read back")

	_, _, err = Default().BlobStore(ctx)
	assert.ErrorIs(t, err, ErrNoUploadTarget)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg.Logger(false))

	cfg.Log.Format = "json"
	assert.NotNil(t, cfg.Logger(true))
}
