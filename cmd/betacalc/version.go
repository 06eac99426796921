package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version は -ldflags "-X main.version=..." で上書きされます。
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// 設定の読み込みは不要
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "betacalc version %s\n", version)
	},
}
