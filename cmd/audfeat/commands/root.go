// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/audfeat/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
	dataRoot   string
	cacheRoot  string
)

var rootCmd = &cobra.Command{
	Use:   "audfeat",
	Short: "Cepstral feature extraction for labeled audio",
	Long: `audfeat - turn a directory of labeled recordings into fixed-size
MFCC matrices and a reproducible train/test split.

The data root holds one directory per label:

  data/yes/0001.wav
  data/no/0001.wav

Examples:
  # Show the labels and their indices
  audfeat labels --data ./data/

  # Extract features into ./npy_files/, skipping undecodable files
  audfeat transform --on-error skip

  # Split 60/40 with seed 42 and save the result
  audfeat split --ratio 0.6 --seed 42 --out split.msgpack`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file (default $AUDFEAT_CONFIG, else built-in defaults)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&dataRoot, "data", "", "data root, one directory per label (overrides config)")
	pf.StringVar(&cacheRoot, "cache", "", "cache root for label arrays (overrides config)")
}

func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig resolves the config file and applies the global flag overrides.
// Without --config the path is taken from AUDFEAT_CONFIG.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("AUDFEAT_CONFIG")
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if dataRoot != "" {
		cfg.DataRoot = dataRoot
	}
	if cacheRoot != "" {
		cfg.CacheRoot = cacheRoot
	}
	return cfg, cfg.Validate()
}
