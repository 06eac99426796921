// Command betacalc computes a stock's Beta and Jensen's Alpha against a market index.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"beta_backend/internal/platform/config"
	"beta_backend/internal/platform/logger"
)

var (
	cfg *config.Config
	lg  *zap.SugaredLogger

	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "betacalc",
	Short:         "Beta and Jensen's Alpha calculator",
	Long:          `Fetches adjusted closing prices for a stock and a market index, regresses excess returns and reports Beta, Jensen's Alpha and R².`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			if err := os.Setenv("CONFIG_FILE", configFile); err != nil {
				return err
			}
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		} else if level == "info" {
			// 標準出力の結果を見やすくするため、CLIではinfoログを出さない
			level = "warn"
		}
		lg, err = logger.Setup(level, cfg.Log.Env)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if lg != nil {
			_ = lg.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML configuration file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(computeCmd, indicesCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
