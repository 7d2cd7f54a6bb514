package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/editkit/blobstore"
	"github.com/hupe1980/editkit/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zstdText(t *testing.T, text string) string {
	t.Helper()

	var buf bytes.Buffer
	w, err := codec.Zstd{}.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.String()
}

func TestFetchCommand_Flags(t *testing.T) {
	cmd := NewRootCommand()
	fetchCmd, _, err := cmd.Find([]string{"fetch"})
	require.NoError(t, err)

	outFlag := fetchCmd.Flags().Lookup("out")
	require.NotNil(t, outFlag)
	assert.Equal(t, "o", outFlag.Shorthand)
	assert.Equal(t, "", outFlag.DefValue)

	latestFlag := fetchCmd.Flags().Lookup("latest")
	require.NotNil(t, latestFlag)
	assert.Equal(t, "false", latestFlag.DefValue)
}

func TestFetchCommand(t *testing.T) {
	cfgPath, _ := uploadsFixture(t, map[string]string{
		"notes.txt":     "plain\n",
		"notes.txt.zst": zstdText(t, "foo\nbar\n"),
		"empty.txt":     "",
	})

	tests := []struct {
		name   string
		object string
		want   string
	}{
		{"uncompressed", "notes.txt", "plain\n"},
		{"zstd", "notes.txt.zst", "foo\nbar\n"},
		{"empty", "empty.txt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cmd := NewRootCommand()
			cmd.SetOut(out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{"fetch", tt.object, "--config", cfgPath})

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestFetchCommand_OutFile(t *testing.T) {
	cfgPath, _ := uploadsFixture(t, map[string]string{"notes.txt": "saved\n"})
	target := filepath.Join(t.TempDir(), "copy.txt")

	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"fetch", "notes.txt", "-o", target, "--config", cfgPath})

	require.NoError(t, cmd.Execute())
	assert.Empty(t, out.String())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "saved\n", string(data))
}

func TestFetchCommand_Missing(t *testing.T) {
	cfgPath, _ := uploadsFixture(t, nil)

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"fetch", "missing.txt", "--config", cfgPath})

	err := cmd.Execute()
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestFetchCommand_LatestNeedsRevisionLog(t *testing.T) {
	cfgPath, _ := uploadsFixture(t, map[string]string{"notes.txt": "x"})

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"fetch", "notes.txt", "--latest", "--config", cfgPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revision_table")
}

func TestFetch_Latest(t *testing.T) {
	_, uploads := uploadsFixture(t, map[string]string{
		"notes.txt/1.zst": zstdText(t, "first\n"),
		"notes.txt/2.zst": zstdText(t, "second\n"),
	})

	store := blobstore.NewLocalStore(uploads)
	revisions := blobstore.NewMemoryRevisionLog()
	ctx := context.Background()
	_, err := revisions.Commit(ctx, "notes.txt", "notes.txt/1.zst", 1)
	require.NoError(t, err)
	_, err = revisions.Commit(ctx, "notes.txt", "notes.txt/2.zst", 1)
	require.NoError(t, err)

	var out bytes.Buffer
	err = fetchFrom(ctx, store, revisions, &FetchOptions{Latest: true}, "notes.txt", &out)
	require.NoError(t, err)
	assert.Equal(t, "second\n", out.String())
}
