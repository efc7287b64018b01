package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/objectfs/bosfs/internal/adapter"
	"github.com/objectfs/bosfs/pkg/types"
)

// putOptions holds the flags of put and mkdir.
type putOptions struct {
	contentType  string
	cacheControl string
	storageClass string
	visibility   string
	headers      []string
	timeout      time.Duration
}

func (o *putOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.visibility, "visibility", "", "Visibility after upload: public or private")
	cmd.Flags().StringArrayVarP(&o.headers, "header", "H", nil, "Extra request header as key=value (repeatable)")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "Upload timeout (default from config)")
}

func (o *putOptions) writeOptions(a *app, cmd *cobra.Command) (*adapter.WriteOptions, error) {
	headers, err := parseHeaders(o.headers)
	if err != nil {
		return nil, err
	}

	timeout := o.timeout
	if !cmd.Flags().Changed("timeout") {
		timeout = a.cfg.Defaults.Timeout
	}

	return &adapter.WriteOptions{
		PutOptions: types.PutOptions{
			ContentType:  o.contentType,
			CacheControl: o.cacheControl,
			StorageClass: o.storageClass,
			Headers:      headers,
		},
		Visibility: types.Visibility(o.visibility),
		Timeout:    timeout,
	}, nil
}

// parseHeaders turns key=value pairs into a header map.
func parseHeaders(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q, expected key=value", pair)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}

// newPutCmd creates the put command
func newPutCmd(a *app) *cobra.Command {
	opts := &putOptions{}
	cmd := &cobra.Command{
		Use:   "put <path> [file|-]",
		Short: "Upload a local file or stdin to path",
		Long: `Upload a local file, or stdin when the file is "-" or omitted, to path.
An existing object at path is replaced.

Examples:
  bosfs put reports/q1.csv ./q1.csv --content-type text/csv
  echo hello | bosfs put greetings/hello.txt --visibility public
  bosfs put site/index.html ./index.html -H "Cache-Control=max-age=300"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(a, opts, cmd, args)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.contentType, "content-type", "", "Content type of the object")
	cmd.Flags().StringVar(&opts.cacheControl, "cache-control", "", "Cache-Control header of the object")
	cmd.Flags().StringVar(&opts.storageClass, "storage-class", "", "Storage class, e.g. STANDARD_IA or COLD")

	return cmd
}

func runPut(a *app, opts *putOptions, cmd *cobra.Command, args []string) error {
	path := args[0]

	var src io.Reader = cmd.InOrStdin()
	if len(args) == 2 && args[1] != "-" {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[1], err)
		}
		defer f.Close()
		src = f
	}

	wopts, err := opts.writeOptions(a, cmd)
	if err != nil {
		return err
	}
	if err := a.fs.WriteStream(cmd.Context(), path, src, wopts); err != nil {
		return err
	}

	success(cmd, "Uploaded %s\n", path)
	return nil
}

// newCatCmd creates the cat command
func newCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Write the contents of path to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := a.fs.ReadStream(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer rc.Close()

			_, err = io.Copy(cmd.OutOrStdout(), rc)
			return err
		},
	}
}

// newCopyCmd creates the cp command
func newCopyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cp <source> <destination>",
		Short: "Copy an object inside the bucket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.fs.Copy(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			success(cmd, "Copied %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

// newMoveCmd creates the mv command
func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <source> <destination>",
		Short: "Move an object inside the bucket",
		Long: `Move an object by copying it to destination and deleting source.
If the delete fails the copy is kept and the command reports an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.fs.Move(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			success(cmd, "Moved %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

// newRemoveCmd creates the rm command
func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>...",
		Short: "Delete one or more objects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := a.fs.Delete(cmd.Context(), path); err != nil {
					return err
				}
				success(cmd, "Deleted %s\n", path)
			}
			return nil
		},
	}
}

func success(cmd *cobra.Command, format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), format, args...)
}
