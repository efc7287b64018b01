package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/objectfs/bosfs/pkg/types"
)

// statResult is the output of stat.
type statResult struct {
	types.Metadata
	Visibility types.Visibility `json:"visibility"`
}

// newStatCmd creates the stat command
func newStatCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Show the metadata of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := a.fs.GetMetadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			visibility, err := a.fs.Visibility(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			result := statResult{Metadata: *md, Visibility: visibility}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			label := color.New(color.Bold).SprintFunc()
			fmt.Fprintf(out, "%s %s\n", label("Path:         "), result.Path)
			fmt.Fprintf(out, "%s %d\n", label("Size:         "), result.Size)
			fmt.Fprintf(out, "%s %s\n", label("MIME type:    "), result.MimeType)
			fmt.Fprintf(out, "%s %s\n", label("Last modified:"), timeColumn(result.LastModified))
			fmt.Fprintf(out, "%s %s\n", label("Visibility:   "), result.Visibility)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

// newExistsCmd creates the exists command
func newExistsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <path>",
		Short: "Report whether path is a file, a directory, or missing",
		Long: `Report whether path is a file, a directory, or missing. A missing path
exits with status 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()
			switch {
			case a.fs.FileExists(cmd.Context(), path):
				fmt.Fprintln(out, "file")
			case a.fs.DirectoryExists(cmd.Context(), path):
				fmt.Fprintln(out, "directory")
			default:
				fmt.Fprintln(out, "missing")
				return fmt.Errorf("%s does not exist", path)
			}
			return nil
		},
	}
}

// newVisibilityCmd creates the visibility command
func newVisibilityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "visibility <path> [public|private]",
		Short: "Show or change the visibility of an object",
		Long: `Show the visibility of an object, or set it when a value is given.
Objects without an ACL of their own report the bucket's visibility.`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{string(types.VisibilityPublic), string(types.VisibilityPrivate)},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if len(args) == 2 {
				if err := a.fs.SetVisibility(cmd.Context(), path, types.Visibility(args[1])); err != nil {
					return err
				}
				success(cmd, "Set %s to %s\n", path, args[1])
				return nil
			}

			visibility, err := a.fs.Visibility(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), visibility)
			return nil
		},
	}
}
