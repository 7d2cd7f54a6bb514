package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hupe1980/editkit/blobstore"
	"github.com/hupe1980/editkit/codec"
	"github.com/spf13/cobra"
)

// FetchOptions holds flags for the fetch command.
type FetchOptions struct {
	Out    string
	Latest bool
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch <name>",
		Short: "Download an uploaded object",
		Long: `Download an object from the configured upload target and write its
decompressed content to stdout or --out.

With --latest, name is an edited file name and the object is looked up in
the revision log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			out := cmd.OutOrStdout()
			if opts.Out != "" {
				f, err := os.Create(opts.Out)
				if err != nil {
					return err
				}
				defer func() {
					if cerr := f.Close(); err == nil {
						err = cerr
					}
				}()
				out = f
			}
			return fetch(ctx, rootOpts, opts, args[0], out)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.Latest, "latest", false, "fetch the newest revision of the named file")

	return cmd
}

func fetch(ctx context.Context, rootOpts *RootOptions, opts *FetchOptions, name string, out io.Writer) error {
	store, revisions, err := rootOpts.Config.BlobStore(ctx)
	if err != nil {
		return err
	}
	return fetchFrom(ctx, store, revisions, opts, name, out)
}

// fetchFrom copies the decoded content of an object to out. revisions may be
// nil unless opts.Latest is set.
func fetchFrom(ctx context.Context, store blobstore.BlobStore, revisions blobstore.RevisionLog, opts *FetchOptions, name string, out io.Writer) error {
	object := strings.TrimPrefix(name, "/")
	if opts.Latest {
		if revisions == nil {
			return errors.New("fetch: --latest needs upload.revision_table")
		}
		rev, err := revisions.Latest(ctx, object)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", object, err)
		}
		object = rev.Object
	}

	blob, err := store.Open(ctx, object)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", object, err)
	}
	defer func() { _ = blob.Close() }()

	if blob.Size() == 0 {
		return nil
	}
	body, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return fmt.Errorf("fetch %s: %w", object, err)
	}
	defer func() { _ = body.Close() }()

	r, err := codec.ByExt(object).NewReader(body)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	_, err = io.Copy(out, r)
	return err
}
