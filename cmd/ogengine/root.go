package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kristoferlund/ogengine"
	"github.com/kristoferlund/ogengine/log"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./ogengine.yaml)")
	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:               "ogengine",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "ogengine renders Open Graph images for blog posts",
	SilenceUsage:      true,
	RunE:              runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve images over HTTP",
	RunE:  runServe,
}

// newApp loads the configuration, letting cmd's changed flags win.
func newApp(cmd *cobra.Command) (*ogengine.App, error) {
	cfg, err := ogengine.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("out") {
		cfg.OutDir, _ = cmd.Flags().GetString("out")
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	}
	return ogengine.New(cfg), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	defer log.Sync()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Start(ctx)
}
