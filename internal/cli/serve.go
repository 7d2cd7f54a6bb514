package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/hupe1980/editkit/blobstore"
	"github.com/hupe1980/editkit/endpoint"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Addr string
	Dir  string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload acceptance endpoint",
		Long: `Run an HTTP server accepting uploads at ` + endpoint.Path + `.

Each request must carry exactly one multipart file part. Parts are stored
in --dir, or discarded if no directory is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ln, err := net.Listen("tcp", opts.Addr)
			if err != nil {
				return err
			}
			cmd.Printf("listening on %s\n", ln.Addr())
			return serve(ctx, rootOpts, opts, ln)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "directory to store uploads in")

	return cmd
}

// serve runs the endpoint on ln until ctx is done.
func serve(ctx context.Context, rootOpts *RootOptions, opts *ServeOptions, ln net.Listener) error {
	var store blobstore.BlobStore
	if opts.Dir != "" {
		store = blobstore.NewLocalStore(opts.Dir)
	}

	mux := http.NewServeMux()
	mux.Handle(endpoint.Path, endpoint.NewHandler(store, rootOpts.logger().Logger))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
