package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kristoferlund/ogengine"
)

func init() {
	rootCmd.AddCommand(pathsCmd)
}

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "List the image paths the build would write",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Init(); err != nil {
			return err
		}

		paths, err := a.Endpoint.StaticPaths(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tDATE\tIMAGE")
		for _, p := range paths {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				p.Params.Slug,
				ogengine.Card(a.Config.Author, p.Props).Date,
				ogengine.OGImagePath(a.Endpoint.Collection(), p.Params.Slug),
			)
		}
		return w.Flush()
	},
}
