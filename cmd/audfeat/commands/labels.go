// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/audfeat"
	"github.com/ik5/audfeat/catalog"
	"github.com/ik5/audfeat/dataset"
)

var labelsCached bool

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List labels with their index",
	Long: `List the labels of the data root in index order.

With --cached the order is read from the cache manifest instead, which is
the order the split command uses.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var cat *catalog.Catalog
		switch {
		case labelsCached:
			store, err := audfeat.NewStore(cfg)
			if err != nil {
				return err
			}
			cat, err = dataset.NewAssembler(store, dataset.WithDirsOnly(cfg.DirsOnly)).Labels(cmd.Context(), cfg.DataRoot)
			if err != nil {
				return err
			}
		case cfg.DirsOnly:
			cat, err = catalog.LoadDirs(cfg.DataRoot)
		default:
			cat, err = catalog.Load(cfg.DataRoot)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, l := range cat.Labels {
			fmt.Fprintf(out, "%d\t%s\n", cat.Indices[i], l)
		}
		return nil
	},
}

func init() {
	labelsCmd.Flags().BoolVar(&labelsCached, "cached", false, "read the label order from the cache manifest")
	rootCmd.AddCommand(labelsCmd)
}
