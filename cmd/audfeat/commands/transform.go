// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/audfeat"
	"github.com/ik5/audfeat/corpus"
	"github.com/ik5/audfeat/internal/progress"
)

var (
	onError    string
	noProgress bool
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Extract features and write one cache array per label",
	Long: `Extract a fixed-size MFCC matrix from every file under the data root and
write one array per label, plus manifest.yaml, to the cache.

Existing arrays are overwritten. With --on-error abort (the default) the
first undecodable file stops the run; with skip it is logged and left out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("on-error") {
			if _, err := corpus.ParsePolicy(onError); err != nil {
				return err
			}
			cfg.OnError = onError
		}

		var opts []audfeat.Option
		var bars *progress.Bars
		if !noProgress {
			bars = progress.New(os.Stderr)
			opts = append(opts, audfeat.WithProgress(bars))
		}

		report, err := audfeat.Transform(cmd.Context(), cfg, opts...)
		if bars != nil {
			bars.Wait()
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, l := range report.Labels {
			fmt.Fprintf(out, "%d\t%s\t%d files", l.Index, l.Label, l.Files)
			if len(l.Skipped) > 0 {
				fmt.Fprintf(out, "\t%d skipped", len(l.Skipped))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	transformCmd.Flags().StringVar(&onError, "on-error", "abort", "what to do with undecodable files: abort or skip")
	transformCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable progress bars")
	rootCmd.AddCommand(transformCmd)
}
