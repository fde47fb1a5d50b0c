package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/DerCoop/logkit/pkg/config"
	"github.com/DerCoop/logkit/pkg/logconf"
	"github.com/DerCoop/logkit/pkg/xlog"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a logging config file by configuring it once",
	Long: `Load a logging config file, open every sink it describes and print the
effective configuration. Nothing is logged to the sinks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := xlog.FromContext(cmd.Context())

		path, _ := cmd.Flags().GetString("config")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		outName, _ := cmd.Flags().GetString("output")

		format, err := config.ParseFormat(outName)
		if err != nil {
			return err
		}

		c := logconf.New(logconf.WithConsole(cmd.ErrOrStderr()))
		defer c.Close()
		if err := c.Load(path); err != nil {
			log.Error("failed to load config", "path", path, "error", err)
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		if err := c.ConfigureContext(ctx); err != nil {
			log.Error("configuration is not usable", "path", path, "error", err)
			return err
		}
		log.Info("configuration ok", "path", path, "sinks", c.Root().Len())

		out, err := c.Export(format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	checkCmd.Flags().StringP("config", "f", "", "Logging config file (.yaml/.yml/.json/.toml)")
	checkCmd.Flags().Duration("timeout", 5*time.Second, "Give up opening sinks after this long")
	checkCmd.Flags().StringP("output", "o", "yaml", "Output format: yaml, json or toml")
	checkCmd.MarkFlagRequired("config")
}
