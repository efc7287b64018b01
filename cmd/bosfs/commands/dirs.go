package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/objectfs/bosfs/pkg/types"
	"github.com/objectfs/bosfs/pkg/utils"
)

// newMkdirCmd creates the mkdir command
func newMkdirCmd(a *app) *cobra.Command {
	opts := &putOptions{}
	cmd := &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wopts, err := opts.writeOptions(a, cmd)
			if err != nil {
				return err
			}
			if err := a.fs.CreateDirectory(cmd.Context(), args[0], wopts); err != nil {
				return err
			}
			success(cmd, "Created directory %s\n", args[0])
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

// newRmdirCmd creates the rmdir command
func newRmdirCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir <path>",
		Short: "Delete a directory marker",
		Long: `Delete the marker object of a directory. Objects below the directory
are not removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.fs.DeleteDirectory(cmd.Context(), args[0]); err != nil {
				return err
			}
			success(cmd, "Deleted directory %s\n", args[0])
			return nil
		},
	}
}

// newListCmd creates the ls command
func newListCmd(a *app) *cobra.Command {
	var recursive, long bool
	cmd := &cobra.Command{
		Use:   "ls [directory]",
		Short: "List the contents of a directory",
		Long: `List the contents of a directory, the bucket root by default.

Without --recursive deeper keys are rolled up into directory entries.

Examples:
  bosfs ls
  bosfs ls photos -r -l`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}

			entries, err := a.fs.ListContents(cmd.Context(), dir, recursive)
			if err != nil {
				return err
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

			out := cmd.OutOrStdout()
			for _, e := range entries {
				name := e.Path
				if e.IsDir() {
					name = color.CyanString(e.Path + "/")
				}
				if !long {
					fmt.Fprintln(out, name)
					continue
				}
				fmt.Fprintf(out, "%-4s %10s %20s  %s\n", e.Type, sizeColumn(e), timeColumn(e.LastModified), name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Include every key below the directory")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show type, size and modification time")

	return cmd
}

func sizeColumn(e types.Metadata) string {
	if e.IsDir() {
		return "-"
	}
	return utils.FormatBytes(e.Size)
}

func timeColumn(epoch int64) string {
	if epoch == 0 {
		return "-"
	}
	return time.Unix(epoch, 0).UTC().Format("2006-01-02 15:04:05")
}
