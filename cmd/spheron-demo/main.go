// Command spheron-demo uploads ./metadata.json to decentralized storage,
// prints the upload metadata, then fetches the file back from the gateway
// link and prints its contents.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shamank/spheron-storage-go/pkg/config"
	"github.com/shamank/spheron-storage-go/pkg/demo"
	"github.com/shamank/spheron-storage-go/pkg/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	filePath   string
	backend    string
	protocol   string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "spheron-demo",
		Short: "Upload a JSON file to decentralized storage and fetch it back",
		Long: `spheron-demo uploads a local JSON file (./metadata.json by default) through
the Spheron storage API, prints the upload metadata as a table, then downloads
the same file from the returned gateway link and prints it too.

The API token is read from the config file or the SPHERON_TOKEN environment variable.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVarP(&opts.filePath, "file", "f", "", "file to upload (default ./metadata.json)")
	flags.StringVar(&opts.backend, "backend", "", "storage backend: spheron or kubo")
	flags.StringVar(&opts.protocol, "protocol", "", "storage protocol: ipfs, filecoin or arweave")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	if opts.filePath != "" {
		cfg.FilePath = opts.filePath
	}
	if opts.backend != "" {
		cfg.Backend = config.Backend(opts.backend)
	}
	if opts.protocol != "" {
		cfg.Protocol = model.Protocol(opts.protocol)
	}
	if opts.debug {
		cfg.Debug = true
	}

	if cfg.Debug {
		if err = demo.ConfigureLogger(true); err != nil {
			return err
		}
	}

	runner, err := demo.New(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return runner.Run(cmd.Context())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		zap.L().Error("spheron-demo failed", zap.Error(err))
		_ = zap.L().Sync()
		os.Exit(1)
	}
}
