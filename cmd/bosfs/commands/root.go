// Package commands implements the bosfs command line. Each subcommand maps
// onto one adapter operation.
package commands

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/objectfs/bosfs/internal/adapter"
	"github.com/objectfs/bosfs/internal/config"
	"github.com/objectfs/bosfs/internal/metrics"
	"github.com/objectfs/bosfs/internal/storage"
	"github.com/objectfs/bosfs/pkg/types"
	"github.com/objectfs/bosfs/pkg/utils"
)

// Command group IDs for organized help output.
const (
	GroupFiles       = "files"
	GroupDirectories = "directories"
	GroupMetadata    = "metadata"
)

// ClientFactory opens the storage client the commands run against.
type ClientFactory func(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (types.Client, error)

// app carries the global flags and the objects built from them.
type app struct {
	newClient ClientFactory

	configPath string
	logLevel   string
	driver     string
	bucket     string
	region     string
	endpoint   string
	noColor    bool
	stats      bool

	cfg       *config.Configuration
	logger    *slog.Logger
	closer    io.Closer
	collector *metrics.Collector
	fs        *adapter.Adapter
}

// NewRootCmd creates the root command with all subcommands registered. A nil
// factory uses storage.NewClient.
func NewRootCmd(factory ClientFactory) *cobra.Command {
	if factory == nil {
		factory = storage.NewClient
	}
	a := &app{newClient: factory}

	cmd := &cobra.Command{
		Use:   "bosfs",
		Short: "Filesystem operations on a Baidu Object Storage bucket",
		Long: `bosfs exposes a BOS bucket through filesystem verbs.

Directories are emulated with zero-length marker objects whose keys end in "/".
Visibility is either public (anonymous read) or private.

Examples:
  # Upload a file and make it public
  bosfs put docs/readme.md ./README.md --visibility public

  # List a directory recursively
  bosfs ls docs -r

  # Show metadata of an object
  bosfs stat docs/readme.md`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"Log level: DEBUG, INFO, WARN, ERROR")
	cmd.PersistentFlags().StringVar(&a.driver, "driver", "",
		"Storage driver: bos, s3, memory")
	cmd.PersistentFlags().StringVarP(&a.bucket, "bucket", "b", "",
		"Bucket name")
	cmd.PersistentFlags().StringVar(&a.region, "region", "",
		"Region, e.g. bj, gz, su")
	cmd.PersistentFlags().StringVar(&a.endpoint, "endpoint", "",
		"Endpoint override")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().BoolVar(&a.stats, "stats", false,
		"Print an operation summary to stderr when done")

	cmd.AddGroup(&cobra.Group{ID: GroupFiles, Title: "File Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupDirectories, Title: "Directory Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupMetadata, Title: "Metadata Commands:"})

	registerCommands(cmd, a)

	return cmd
}

func registerCommands(rootCmd *cobra.Command, a *app) {
	for _, c := range []*cobra.Command{
		newPutCmd(a), newCatCmd(a), newCopyCmd(a), newMoveCmd(a), newRemoveCmd(a),
	} {
		c.GroupID = GroupFiles
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		newMkdirCmd(a), newRmdirCmd(a), newListCmd(a),
	} {
		c.GroupID = GroupDirectories
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		newStatCmd(a), newExistsCmd(a), newVisibilityCmd(a),
	} {
		c.GroupID = GroupMetadata
		rootCmd.AddCommand(c)
	}
}

// setup loads the configuration and builds the adapter.
// Priority: default < config file < env < flag
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.noColor {
		color.NoColor = true
	}

	cfg := config.NewDefault()
	if a.configPath != "" {
		if err := cfg.LoadFromFile(a.configPath); err != nil {
			return err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return err
	}
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, closer, err := utils.NewLogger(utils.LoggerConfig{
		Level:  cfg.Global.LogLevel,
		Format: cfg.Global.LogFormat,
		File:   cfg.Global.LogFile,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.logger = logger
	a.closer = closer

	collector, err := metrics.NewCollector(&metrics.Config{
		Enabled:   cfg.Monitoring.Metrics.Enabled || a.stats,
		Namespace: cfg.Monitoring.Metrics.Namespace,
		Labels:    cfg.Monitoring.Metrics.CustomLabels,
	})
	if err != nil {
		return err
	}
	a.collector = collector

	client, err := a.newClient(cmd.Context(), cfg.Storage, logger)
	if err != nil {
		return err
	}

	fs, err := adapter.New(client, &adapter.Config{
		Logger:            logger,
		Metrics:           collector,
		DefaultOptions:    cfg.Defaults.PutOptions(),
		DefaultVisibility: types.Visibility(cfg.Defaults.Visibility),
	})
	if err != nil {
		return err
	}
	a.fs = fs

	logger.Debug("bosfs ready", "driver", cfg.Storage.Driver, "bucket", cfg.Storage.Bucket)
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Configuration) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Global.LogLevel = strings.ToUpper(a.logLevel)
	}
	if flags.Changed("driver") {
		cfg.Storage.Driver = a.driver
	}
	if flags.Changed("bucket") {
		cfg.Storage.Bucket = a.bucket
	}
	if flags.Changed("region") {
		cfg.Storage.Region = a.region
	}
	if flags.Changed("endpoint") {
		cfg.Storage.Endpoint = a.endpoint
	}
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.stats && a.collector != nil {
		if err := a.collector.WriteSummary(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}
