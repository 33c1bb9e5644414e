package main

import (
	"errors"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kristoferlund/ogengine"
	"github.com/kristoferlund/ogengine/log"
)

func init() {
	importCmd.Flags().Bool("prune", false, "delete stored posts missing from the content directory")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the content directory into the SQLite database",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer log.Sync()

		cfg, err := ogengine.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.DatabasePath == "" {
			return errors.New("import: database_path is not set")
		}
		prune, _ := cmd.Flags().GetBool("prune")

		dst, err := ogengine.NewSQLStore(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer dst.Close()

		src := ogengine.NewDirStore(afero.NewOsFs(), cfg.ContentDir)
		report, err := ogengine.Import(cmd.Context(), src, dst, cfg.Collection, prune)
		if err != nil {
			return err
		}
		log.S().Infof("imported %s into %s: %d added, %d updated, %d unchanged, %d deleted",
			cfg.ContentDir, cfg.DatabasePath, report.Added, report.Updated, report.Unchanged, report.Deleted)
		return nil
	},
}
