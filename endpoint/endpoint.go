// Package endpoint implements the acceptance endpoint uploads are posted to.
//
// The handler accepts a POST with a multipart/form-data body holding exactly
// one file part, optionally stores the part in a blobstore.BlobStore, and
// acknowledges it with 200 OK.
package endpoint

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/hupe1980/editkit/blobstore"
)

// Path is the route the handler is conventionally mounted at.
const Path = "/api/upload"

var (
	errNoPart       = errors.New("endpoint: request has no file part")
	errTooManyParts = errors.New("endpoint: request has more than one part")
	errNoFileName   = errors.New("endpoint: part has no file name")
)

// Handler accepts single-part uploads.
type Handler struct {
	store  blobstore.BlobStore
	logger *slog.Logger
}

// NewHandler returns a handler storing parts in store. A nil store discards
// the parts after reading them. A nil logger discards logs.
func NewHandler(store blobstore.BlobStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{store: store, logger: logger}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name, n, err := h.accept(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "upload rejected", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.InfoContext(r.Context(), "upload accepted", "name", name, "bytes", n)
	w.WriteHeader(http.StatusOK)
}

// accept reads the single file part and stores it.
func (h *Handler) accept(r *http.Request) (string, int64, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return "", 0, err
	}

	part, err := mr.NextPart()
	if errors.Is(err, io.EOF) {
		return "", 0, errNoPart
	}
	if err != nil {
		return "", 0, err
	}

	name := cleanName(part.FileName())
	if name == "" {
		return "", 0, errNoFileName
	}

	n, err := h.save(r, name, part)
	if err != nil {
		return "", 0, err
	}

	if _, err := mr.NextPart(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTooManyParts
		}
		if h.store != nil {
			_ = h.store.Delete(r.Context(), name)
		}
		return "", 0, err
	}
	return name, n, nil
}

// save copies the part into the store, or discards it without one.
func (h *Handler) save(r *http.Request, name string, part io.Reader) (int64, error) {
	if h.store == nil {
		return io.Copy(io.Discard, part)
	}

	w, err := h.store.Create(r.Context(), name)
	if err != nil {
		return 0, fmt.Errorf("endpoint: create %s: %w", name, err)
	}
	n, err := io.Copy(w, part)
	if err != nil {
		_ = w.Abort()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return n, nil
}

// cleanName reduces a client supplied file name to its base name.
func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(path.Clean("/" + name))
	if name == "/" || name == "." {
		return ""
	}
	return name
}
