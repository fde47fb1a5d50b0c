package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DerCoop/logkit/pkg/xlog"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "logkit",
	Short: "Console and file logging configurator",
	Long: `Configure a console sink and two log files (debug and user log) with
independent severity thresholds and a shared message template.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("cli-log-level")
		log, err := xlog.Open(xlog.Config{Level: level, Output: "stderr"})
		if err != nil {
			return err
		}
		cmd.SetContext(xlog.WithContext(cmd.Context(), log))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return xlog.FromContext(cmd.Context()).Close()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "logkit version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().String("cli-log-level", "info", "Level of logkit's own diagnostics")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
