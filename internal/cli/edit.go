package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/editkit"
	"github.com/hupe1980/editkit/config"
	"github.com/hupe1980/editkit/transport"
	"github.com/spf13/cobra"
)

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a file interactively",
		Long: `Edit an existing file line by line.

Every input line is appended to the working copy. The commands are:

  save              write the working copy to the file and print it
  upload            upload the saved file to the configured target
  quit | q | exit   close the file and leave (case-insensitive)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.Context(), rootOpts, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	return cmd
}

func runEdit(ctx context.Context, opts *RootOptions, path string, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sessionOpts, err := opts.Config.Options()
	if err != nil {
		return err
	}
	sessionOpts = append(sessionOpts, editkit.WithLogger(opts.logger()))

	consumer, err := opts.Config.Consumer(ctx)
	if err != nil && !errors.Is(err, config.ErrNoUploadTarget) {
		return err
	}

	s, err := editkit.Open(ctx, path, sessionOpts...)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	repl := &REPL{Session: s, Consumer: consumer, In: in, Out: out}
	// An interrupt ends the editor like quit does.
	if err := repl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return s.Close()
}

// REPL reads commands and text lines and applies them to a session.
type REPL struct {
	Session  *editkit.Session
	Consumer transport.Consumer
	In       io.Reader
	Out      io.Writer
}

// Run processes input until an exit command, end of input or ctx is done.
// Failed commands are reported and the loop continues.
//
// Input is read on a separate goroutine, so a blocked read does not delay
// cancellation. A read still pending when Run returns is abandoned.
func (r *REPL) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	lines, readErr := scanLines(r.In, done)

	for {
		fmt.Fprintf(r.Out, "%s > ", r.Session.Name())

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.Out)
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(r.Out)
			return <-readErr
		}

		if exitRequested(line) {
			return nil
		}

		if err := r.apply(ctx, line); err != nil {
			fmt.Fprintf(r.Out, "error: %v\n", err)
		}
	}
}

// scanLines feeds the lines of in to the returned channel, which is closed
// at end of input. The scan error, if any, is sent afterwards. Scanning
// stops once done is closed.
func scanLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

func (r *REPL) apply(ctx context.Context, line string) error {
	switch line {
	case "upload":
		if r.Consumer == nil {
			return config.ErrNoUploadTarget
		}
		if err := r.Session.Upload(ctx, r.Consumer); err != nil {
			return err
		}
		fmt.Fprintf(r.Out, "uploaded %s\n", r.Session.Name())
		return nil
	case "save":
		if err := r.Session.Save(ctx); err != nil {
			return err
		}
		return r.preview(ctx)
	default:
		return r.Session.WriteLine(ctx, line)
	}
}

func (r *REPL) preview(ctx context.Context) error {
	text, err := r.Session.Preview(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.Out)
	fmt.Fprintf(r.Out, "-- %s (Preview) --\n", r.Session.Name())
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, text)
	fmt.Fprintln(r.Out, "--")
	fmt.Fprintln(r.Out)
	return nil
}

// exitRequested reports whether value is an exit command.
func exitRequested(value string) bool {
	switch strings.ToLower(value) {
	case "quit", "q", "exit":
		return true
	}
	return false
}
