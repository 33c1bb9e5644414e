package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/kristoferlund/ogengine/log"
)

func init() {
	buildCmd.Flags().StringP("out", "o", "", "output directory (default from config, else dist)")
	buildCmd.Flags().IntP("concurrency", "j", 0, "parallel renders (default GOMAXPROCS)")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render every image into the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer log.Sync()

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		report, err := a.Build(ctx)
		if err != nil {
			return err
		}
		log.S().Infof("wrote %d images to %s in %s", len(report.Files), a.Config.OutDir, report.Duration)
		return nil
	},
}
