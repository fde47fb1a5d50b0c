package main

import (
	"log"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/DerCoop/logkit/pkg/logconf"
	"github.com/DerCoop/logkit/pkg/xlog"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Configure the three sinks and emit one message per level",
	Long: `Configure console, debug file and log file sinks, then emit one message
at every level so the effect of each threshold can be inspected.

Flags override values loaded with --config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newConfigurator(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.ConfigureContext(cmd.Context()); err != nil {
			xlog.FromContext(cmd.Context()).Error("failed to configure logging", "error", err)
			return err
		}

		logger := c.Logger()
		defer setDefault(logger.Logger)()

		logger.Trace("trace")
		slog.Debug("debug")
		slog.Info("info")
		slog.Warn("warning")
		slog.Error("error")
		logger.Critical("critical")
		return nil
	},
}

func init() {
	demoCmd.Flags().StringP("config", "f", "", "Logging config file (.yaml/.yml/.json/.toml)")
	demoCmd.Flags().String("debug-file", "logfile.debug", "Debug log file path")
	demoCmd.Flags().String("log-file", "logfile.log", "User log file path")
	demoCmd.Flags().String("format", "[{{.Level}}]: alfred: {{.Message}}", "Message template")
	demoCmd.Flags().String("console-level", "error", "Console threshold")
	demoCmd.Flags().String("debug-level", "debug", "Debug file threshold")
	demoCmd.Flags().String("log-level", "warning", "Log file threshold")
}

// setDefault 将 l 设为进程默认 Logger，返回的函数恢复之前的 slog 默认值和标准库 log 的输出
func setDefault(l *slog.Logger) (restore func()) {
	prev, out, flags := slog.Default(), log.Writer(), log.Flags()
	slog.SetDefault(l)
	return func() {
		slog.SetDefault(prev)
		log.SetOutput(out)
		log.SetFlags(flags)
	}
}

// newConfigurator 先加载 --config，再应用显式设置的 flag；没有配置文件时所有 flag 都生效
func newConfigurator(cmd *cobra.Command) (*logconf.Configurator, error) {
	clilog := xlog.FromContext(cmd.Context())
	c := logconf.New(logconf.WithConsole(cmd.ErrOrStderr()))

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		if err := c.Load(path); err != nil {
			clilog.Error("failed to load config", "path", path, "error", err)
			return nil, err
		}
		clilog.Debug("config loaded", "path", path)
	}
	apply := func(name string) bool {
		return path == "" || cmd.Flags().Changed(name)
	}

	options := map[string]string{
		"debug-file": logconf.KeyDebugFilePath,
		"log-file":   logconf.KeyLogFilePath,
		"format":     logconf.KeyFormatString,
	}
	for flag, key := range options {
		if apply(flag) {
			value, _ := cmd.Flags().GetString(flag)
			c.Set(key, value)
		}
	}

	levels := map[string]logconf.Destination{
		"console-level": logconf.Console,
		"debug-level":   logconf.Debug,
		"log-level":     logconf.Log,
	}
	for flag, dest := range levels {
		if !apply(flag) {
			continue
		}
		name, _ := cmd.Flags().GetString(flag)
		level, err := xlog.ParseLevel(name)
		if err != nil {
			return nil, err
		}
		if err := c.SetLevel(dest, level); err != nil {
			return nil, err
		}
	}
	return c, nil
}
