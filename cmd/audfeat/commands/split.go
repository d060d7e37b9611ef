// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/audfeat"
	"github.com/ik5/audfeat/dataset"
)

var (
	splitRatio float64
	splitSeed  int64
	splitOut   string
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Assemble the cache and split it into train and test sets",
	Long: `Load every cached label array in manifest order and shuffle them into a
train and a test set. The same cache, ratio and seed always give the same
split. With --out the split is written as msgpack.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("ratio") {
			cfg.SplitRatio = splitRatio
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = splitSeed
		}

		split, err := audfeat.TrainTestData(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "train %d\ntest  %d\n", len(split.XTrain), len(split.XTest))

		if splitOut == "" {
			return nil
		}
		f, err := os.Create(splitOut)
		if err != nil {
			return fmt.Errorf("%w", err)
		}
		if err := dataset.WriteSplit(f, split); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	splitCmd.Flags().Float64Var(&splitRatio, "ratio", 0.6, "share of samples in the training set, in (0,1)")
	splitCmd.Flags().Int64Var(&splitSeed, "seed", 42, "shuffle seed")
	splitCmd.Flags().StringVarP(&splitOut, "out", "o", "", "write the split to this file")
	rootCmd.AddCommand(splitCmd)
}
