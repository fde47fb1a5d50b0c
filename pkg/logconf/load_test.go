package logconf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DerCoop/logkit/pkg/config"
	"github.com/DerCoop/logkit/pkg/xlog"
)

func TestLoadBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format config.Format
		data   string
	}{
		{config.FormatYAML, `
debug_file_path: d.log
log_file_path: l.log
format_string: "[{{.Level}}] {{.Message}}"
levels:
  console: error
  debug: trace
  log: warn
`},
		{config.FormatTOML, `
debug_file_path = "d.log"
log_file_path = "l.log"
format_string = "[{{.Level}}] {{.Message}}"

[levels]
console = "error"
debug = "trace"
log = "warn"
`},
		{config.FormatJSON, `{
  "debug_file_path": "d.log",
  "log_file_path": "l.log",
  "format_string": "[{{.Level}}] {{.Message}}",
  "levels": {"console": "error", "debug": "trace", "log": "warn"}
}`},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			c := New()
			if err := c.LoadBytes([]byte(tt.data), tt.format); err != nil {
				t.Fatalf("LoadBytes() error = %v", err)
			}

			if got := c.Get(KeyDebugFilePath, nil); got != "d.log" {
				t.Errorf("debug_file_path = %v", got)
			}
			if got := c.Get(KeyFormatString, nil); got != "[{{.Level}}] {{.Message}}" {
				t.Errorf("format_string = %v", got)
			}
			if c.Get("levels", nil) != nil {
				t.Error("levels section should not be stored as an option")
			}

			want := map[Destination]xlog.Level{
				Console: xlog.LevelError,
				Debug:   xlog.LevelTrace,
				Log:     xlog.LevelWarning,
			}
			for dest, level := range want {
				if got, _ := c.GetLevel(dest); got != level {
					t.Errorf("level %s = %v, want %v", dest, got, level)
				}
			}
		})
	}
}

func TestLoadBytesPartialLevels(t *testing.T) {
	t.Parallel()

	c := New()
	if err := c.LoadBytes([]byte("levels:\n  console: critical\n"), config.FormatYAML); err != nil {
		t.Fatalf("LoadBytes() error = %v", err)
	}
	if got, _ := c.GetLevel(Console); got != xlog.LevelCritical {
		t.Errorf("console = %v", got)
	}
	if got, _ := c.GetLevel(Log); got != xlog.LevelWarning {
		t.Errorf("log should keep its default, got %v", got)
	}
}

func TestLoadBytesRejectsInvalidLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want error
	}{
		{"unknown destination", "log_file_path: x.log\nlevels:\n  syslog: info\n", ErrUnknownDestination},
		{"unknown level", "log_file_path: x.log\nlevels:\n  console: loud\n", xlog.ErrInvalidLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			err := c.LoadBytes([]byte(tt.data), config.FormatYAML)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if c.Get(KeyLogFilePath, nil) != nil {
				t.Error("a rejected document must not change options")
			}
			if got, _ := c.GetLevel(Console); got != xlog.LevelTrace {
				t.Errorf("a rejected document must not change levels, console = %v", got)
			}
		})
	}

	if err := New().LoadBytes([]byte("levels: loud\n"), config.FormatYAML); err == nil {
		t.Error("expected error for a non-map levels section")
	}
}

func TestLoadFileAndConfigure(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOGKIT_LOAD_DIR", dir)

	path := filepath.Join(dir, "logging.yaml")
	data := `
debug_file_path: ${LOGKIT_LOAD_DIR}/app.debug
log_file_path: ${LOGKIT_LOAD_DIR}/app.log
levels:
  console: critical
  log: error
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	c := New(WithConsole(&strings.Builder{}))
	defer c.Close()
	if err := c.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	c.Logger().Warn("warned")
	c.Logger().Error("failed")

	if got := readFile(t, filepath.Join(dir, "app.debug")); got != "[WARNING]: warned\n[ERROR]: failed\n" {
		t.Errorf("debug file = %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "app.log")); got != "[ERROR]: failed\n" {
		t.Errorf("log file = %q", got)
	}

	if err := c.Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExport(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set(KeyLogFilePath, "l.log")
	c.SetLevel(Console, xlog.LevelError)

	for _, format := range []config.Format{config.FormatYAML, config.FormatTOML, config.FormatJSON} {
		out, err := c.Export(format)
		if err != nil {
			t.Fatalf("Export(%s) error = %v", format, err)
		}

		loaded := New()
		if err := loaded.LoadBytes(out, format); err != nil {
			t.Fatalf("LoadBytes(%s) error = %v\n%s", format, err, out)
		}
		if got := loaded.Get(KeyLogFilePath, nil); got != "l.log" {
			t.Errorf("%s: log_file_path = %v", format, got)
		}
		if got, _ := loaded.GetLevel(Console); got != xlog.LevelError {
			t.Errorf("%s: console level = %v", format, got)
		}
	}
}
