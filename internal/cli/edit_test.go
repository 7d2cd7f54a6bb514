package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/editkit"
	"github.com/hupe1980/editkit/config"
	"github.com/hupe1980/editkit/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newREPL(t *testing.T, input string) (*REPL, *testutil.RecordingConsumer, *bytes.Buffer, string) {
	t.Helper()

	path := testutil.WriteFile(t, t.TempDir(), "notes.txt", "")
	s, err := editkit.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	consumer := testutil.NewRecordingConsumer()
	out := &bytes.Buffer{}
	return &REPL{
		Session:  s,
		Consumer: consumer,
		In:       strings.NewReader(input),
		Out:      out,
	}, consumer, out, path
}

func TestREPL_WriteSavePreview(t *testing.T) {
	repl, _, out, path := newREPL(t, "foo\nbar\nsave\nquit\n")

	require.NoError(t, repl.Run(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "foo\nbar\n", string(data))

	assert.Contains(t, out.String(), "notes.txt > ")
	assert.Contains(t, out.String(), "\n-- notes.txt (Preview) --\n\nfoo\nbar\n\n--\n\n")
}

func TestREPL_Upload(t *testing.T) {
	repl, consumer, out, _ := newREPL(t, "hello\nsave\nupload\nexit\n")

	require.NoError(t, repl.Run(context.Background()))

	require.Len(t, consumer.Uploads(), 1)
	last := consumer.Last()
	assert.Equal(t, "notes.txt", last.Name)
	assert.Equal(t, int64(6), last.Length)
	assert.Equal(t, "hello\n", string(last.Data))
	assert.Contains(t, out.String(), "uploaded notes.txt")
	assert.True(t, repl.Session.IsOpen())
}

func TestREPL_UploadFailureContinues(t *testing.T) {
	repl, _, out, path := newREPL(t, "first\nsave\nupload\nsecond\nsave\nq\n")
	repl.Consumer = testutil.NewFailingConsumer(2)

	require.NoError(t, repl.Run(context.Background()))

	assert.Contains(t, out.String(), "error:")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestREPL_UploadWithoutTarget(t *testing.T) {
	repl, _, out, _ := newREPL(t, "upload\nquit\n")
	repl.Consumer = nil

	require.NoError(t, repl.Run(context.Background()))
	assert.Contains(t, out.String(), "no upload target")
}

func TestREPL_EndOfInput(t *testing.T) {
	repl, _, _, path := newREPL(t, "unsaved line\n")

	require.NoError(t, repl.Run(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, uint64(1), repl.Session.Unsaved())
}

func TestREPL_ExitWordsAreCaseInsensitive(t *testing.T) {
	for _, word := range []string{"quit", "QUIT", "q", "Q", "exit", "Exit"} {
		t.Run(word, func(t *testing.T) {
			assert.True(t, exitRequested(word))
		})
	}
	assert.False(t, exitRequested("quitting"))
	assert.False(t, exitRequested(" q"))
}

func TestEditCommand_LocalUpload(t *testing.T) {
	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads")
	path := testutil.WriteFile(t, dir, "notes.txt", "old content\n")
	cfgPath := testutil.WriteFile(t, dir, "editkit.yaml", "upload:\n  target: local\n  dir: "+uploads+"\n")

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(bytes.NewBufferString("foo\nsave\nupload\nquit\n"))
	cmd.SetArgs([]string{"edit", path, "--config", cfgPath})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "foo\n", string(data))

	uploaded, err := os.ReadFile(filepath.Join(uploads, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "foo\n", string(uploaded))

	_, err = os.Stat(editkit.WorkingPath("", "", path))
	assert.True(t, os.IsNotExist(err), "working file must be removed on exit")
}

func TestEditCommand_MissingFile(t *testing.T) {
	dir := t.TempDir()

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(bytes.NewBufferString("quit\n"))
	cmd.SetArgs([]string{"edit", filepath.Join(dir, "missing.txt")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, editkit.ErrNotFound)
	_, statErr := os.Stat(editkit.WorkingPath("", "", filepath.Join(dir, "missing.txt")))
	assert.True(t, os.IsNotExist(statErr))
}

func TestEditCommand_RequiresFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"edit"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestREPL_CancelWhileWaitingForInput(t *testing.T) {
	repl, _, _, _ := newREPL(t, "")
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	repl.In = pr

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- repl.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunEdit_CancelClosesSession(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "notes.txt", "keep\n")
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runEdit(ctx, &RootOptions{Config: config.Default()}, path, pr, io.Discard)
	}()

	working := editkit.WorkingPath("", "", path)
	require.Eventually(t, func() bool {
		_, err := os.Stat(working)
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("edit did not return after cancel")
	}

	assert.NoFileExists(t, working)
	assert.Equal(t, "keep\n", readText(t, path))
}

func readText(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
