package logconf

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DerCoop/logkit/pkg/xlog"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}

// newConfigured 返回已设置两个文件路径、控制台写入 buffer 的 Configurator
func newConfigured(t *testing.T) (*Configurator, *bytes.Buffer, string, string) {
	t.Helper()
	dir := t.TempDir()
	console := &bytes.Buffer{}
	c := New(WithConsole(console))
	debugPath := filepath.Join(dir, "d.log")
	logPath := filepath.Join(dir, "l.log")
	c.Set(KeyDebugFilePath, debugPath)
	c.Set(KeyLogFilePath, logPath)
	t.Cleanup(func() { c.Close() })
	return c, console, debugPath, logPath
}

func TestSetGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"string", "debug_file_path", "d.log"},
		{"int", "retries", 3},
		{"nil", "nothing", nil},
		{"slice", "tags", []string{"a", "b"}},
		{"arbitrary key", "  odd key!", true},
	}

	c := New()
	for _, tt := range tests {
		c.Set(tt.key, tt.value)
		for _, def := range []any{nil, "default", 42} {
			got := c.Get(tt.key, def)
			if tt.name == "slice" {
				if s, ok := got.([]string); !ok || len(s) != 2 {
					t.Errorf("%s: Get() = %v", tt.name, got)
				}
				continue
			}
			if got != tt.value {
				t.Errorf("%s: Get(%q, %v) = %v, want %v", tt.name, tt.key, def, got, tt.value)
			}
		}
	}

	for _, def := range []any{nil, "default", 42} {
		if got := c.Get("unset", def); got != def {
			t.Errorf("Get(unset, %v) = %v", def, got)
		}
	}

	c.Set("retries", 5)
	if got := c.Get("retries", 0); got != 5 {
		t.Errorf("Set should overwrite, got %v", got)
	}
}

func TestSetGetIndependentKeys(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("a", 1)
	c.Set("a.b", 2)
	c.Set("a.b.c", 3)

	tests := []struct {
		key  string
		want any
	}{
		{"a", 1},
		{"a.b", 2},
		{"a.b.c", 3},
	}
	for _, tt := range tests {
		if got := c.Get(tt.key, nil); got != tt.want {
			t.Errorf("Get(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}

	user := map[string]any{"x": 1}
	c.Set("m", user)
	c.Set("m.x", 9)
	if user["x"] != 1 {
		t.Errorf("stored map was modified: %v", user)
	}
	if got := c.Get("m.x", nil); got != 9 {
		t.Errorf("Get(m.x) = %v, want 9", got)
	}
}

func TestDefaultFormatOption(t *testing.T) {
	t.Parallel()

	if got := New().Get(KeyFormatString, ""); got != xlog.DefaultFormat {
		t.Errorf("format_string should default to %q, got %v", xlog.DefaultFormat, got)
	}
}

func TestLevels(t *testing.T) {
	t.Parallel()

	c := New()
	defaults := map[Destination]xlog.Level{
		Console: xlog.LevelTrace,
		Debug:   xlog.LevelDebug,
		Log:     xlog.LevelWarning,
	}
	for dest, want := range defaults {
		if got, ok := c.GetLevel(dest); !ok || got != want {
			t.Errorf("default level for %s = %v, want %v", dest, got, want)
		}
	}

	if err := c.SetLevel(Console, xlog.LevelError); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	if got, _ := c.GetLevel(Console); got != xlog.LevelError {
		t.Errorf("expected ERROR, got %v", got)
	}

	if err := c.SetLevel("syslog", xlog.LevelInfo); !errors.Is(err, ErrUnknownDestination) {
		t.Errorf("expected ErrUnknownDestination, got %v", err)
	}
	if err := c.SetLevel(Log, xlog.Level(99)); !errors.Is(err, xlog.ErrInvalidLevel) {
		t.Errorf("expected ErrInvalidLevel, got %v", err)
	}
	if got, _ := c.GetLevel(Log); got != xlog.LevelWarning {
		t.Errorf("rejected SetLevel must not change the level, got %v", got)
	}

	if _, ok := c.GetLevel("syslog"); ok {
		t.Error("GetLevel of unknown destination should report not found")
	}

	levels := c.Levels()
	levels[Debug] = xlog.LevelCritical
	if got, _ := c.GetLevel(Debug); got != xlog.LevelDebug {
		t.Error("Levels() should return a copy")
	}
}

func TestParseDestination(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"console", "DEBUG", " log "} {
		if _, err := ParseDestination(name); err != nil {
			t.Errorf("ParseDestination(%q) error = %v", name, err)
		}
	}
	if _, err := ParseDestination("file"); !errors.Is(err, ErrUnknownDestination) {
		t.Errorf("expected ErrUnknownDestination, got %v", err)
	}
	if len(Destinations()) != 3 {
		t.Errorf("expected three destinations")
	}
}

func TestConfigureScenario(t *testing.T) {
	t.Parallel()

	c, console, debugPath, logPath := newConfigured(t)
	c.SetLevel(Console, xlog.LevelError)
	c.SetLevel(Debug, xlog.LevelDebug)
	c.SetLevel(Log, xlog.LevelWarning)

	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if n := c.Root().Len(); n != 3 {
		t.Fatalf("expected 3 sinks, got %d", n)
	}

	log := c.Logger()
	log.Warn("warning")
	if got := readFile(t, debugPath); got != "[WARNING]: warning\n" {
		t.Errorf("debug file = %q", got)
	}
	if got := readFile(t, logPath); got != "[WARNING]: warning\n" {
		t.Errorf("log file = %q", got)
	}
	if console.Len() != 0 {
		t.Errorf("console should be empty, got %q", console.String())
	}

	log.Error("error")
	if got := readFile(t, debugPath); got != "[WARNING]: warning\n[ERROR]: error\n" {
		t.Errorf("debug file = %q", got)
	}
	if got := readFile(t, logPath); got != "[WARNING]: warning\n[ERROR]: error\n" {
		t.Errorf("log file = %q", got)
	}
	if console.String() != "[ERROR]: error\n" {
		t.Errorf("console = %q", console.String())
	}
}

func TestConfigureThresholds(t *testing.T) {
	t.Parallel()

	c, console, debugPath, logPath := newConfigured(t)
	c.SetLevel(Console, xlog.LevelError)
	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	log := c.Logger()
	log.Trace("trace")
	log.Debug("debug")
	log.Info("info")
	log.Warn("warning")
	log.Error("error")
	log.Critical("critical")

	if console.String() != "[ERROR]: error\n[CRITICAL]: critical\n" {
		t.Errorf("console = %q", console.String())
	}
	wantDebug := "[DEBUG]: debug\n[INFO]: info\n[WARNING]: warning\n[ERROR]: error\n[CRITICAL]: critical\n"
	if got := readFile(t, debugPath); got != wantDebug {
		t.Errorf("debug file = %q", got)
	}
	if got := readFile(t, logPath); got != "[WARNING]: warning\n[ERROR]: error\n[CRITICAL]: critical\n" {
		t.Errorf("log file = %q", got)
	}
}

func TestConfigureTwice(t *testing.T) {
	t.Parallel()

	c, console, _, logPath := newConfigured(t)
	for i := 0; i < 2; i++ {
		if err := c.Configure(); err != nil {
			t.Fatalf("Configure() #%d error = %v", i+1, err)
		}
		if n := c.Root().Len(); n != 3 {
			t.Fatalf("after Configure() #%d expected 3 sinks, got %d", i+1, n)
		}
	}

	c.Logger().Error("once")
	if strings.Count(console.String(), "once") != 1 {
		t.Errorf("console got duplicated output %q", console.String())
	}
	if got := readFile(t, logPath); strings.Count(got, "once") != 1 {
		t.Errorf("log file got duplicated output %q", got)
	}
}

func TestConfigureMissingPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		unset bool
	}{
		{name: "unset", unset: true},
		{name: "nil", value: nil},
		{name: "empty", value: ""},
		{name: "not a string", value: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := &bytes.Buffer{}
			c := New(WithConsole(console))
			c.Set(KeyDebugFilePath, filepath.Join(t.TempDir(), "d.log"))
			if !tt.unset {
				c.Set(KeyLogFilePath, tt.value)
			}

			err := c.Configure()
			if !errors.Is(err, ErrConfigurationMissing) {
				t.Errorf("expected ErrConfigurationMissing, got %v", err)
			}
			if !errors.Is(err, ErrSinkCreationFailed) {
				t.Errorf("expected ErrSinkCreationFailed, got %v", err)
			}
			if n := c.Root().Len(); n != 0 {
				t.Errorf("failed Configure() must attach no sinks, got %d", n)
			}
		})
	}
}

func TestConfigureUnwritablePathKeepsPreviousSinks(t *testing.T) {
	t.Parallel()

	c, console, debugPath, logPath := newConfigured(t)
	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	before := c.Root().Sinks()

	dir := filepath.Dir(debugPath)
	newDebug := filepath.Join(dir, "d2.log")
	c.Set(KeyDebugFilePath, newDebug)
	c.Set(KeyLogFilePath, filepath.Join(dir, "missing", "l.log"))

	err := c.Configure()
	if !errors.Is(err, ErrSinkCreationFailed) {
		t.Fatalf("expected ErrSinkCreationFailed, got %v", err)
	}
	if errors.Is(err, ErrConfigurationMissing) {
		t.Errorf("an open failure is not a missing configuration: %v", err)
	}

	after := c.Root().Sinks()
	if len(after) != len(before) {
		t.Fatalf("expected %d sinks after rollback, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("sink %d was replaced by a failed Configure()", i)
		}
	}

	c.Logger().Error("still here")
	if !strings.Contains(readFile(t, debugPath), "still here") {
		t.Error("previous debug sink should still receive messages")
	}
	if !strings.Contains(readFile(t, logPath), "still here") {
		t.Error("previous log sink should still receive messages")
	}
	if !strings.Contains(console.String(), "still here") {
		t.Error("previous console sink should still receive messages")
	}
	if content, err := os.ReadFile(newDebug); err == nil && len(content) != 0 {
		t.Errorf("sink from the failed attempt received output: %q", content)
	}
}

func TestConfigureInvalidFormat(t *testing.T) {
	t.Parallel()

	c, _, _, _ := newConfigured(t)

	c.Set(KeyFormatString, "[{{.Level}]")
	if err := c.Configure(); !errors.Is(err, xlog.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}

	c.Set(KeyFormatString, 7)
	if err := c.Configure(); !errors.Is(err, xlog.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat for non-string format, got %v", err)
	}
	if n := c.Root().Len(); n != 0 {
		t.Errorf("expected no sinks, got %d", n)
	}
}

func TestConfigureCustomFormat(t *testing.T) {
	t.Parallel()

	c, console, _, _ := newConfigured(t)
	c.Set(KeyFormatString, "[{{.Level}}]: alfred: {{.Message}}")
	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	c.Logger().Info("hello")
	if console.String() != "[INFO]: alfred: hello\n" {
		t.Errorf("console = %q", console.String())
	}
}

func TestConfigureCanceled(t *testing.T) {
	t.Parallel()

	c, _, _, _ := newConfigured(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.ConfigureContext(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if n := c.Root().Len(); n != 0 {
		t.Errorf("expected no sinks, got %d", n)
	}
}

func TestReconfigureSwitchesFiles(t *testing.T) {
	t.Parallel()

	c, _, _, logPath := newConfigured(t)
	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	log := c.Logger()
	log.Error("first")

	newLog := filepath.Join(filepath.Dir(logPath), "l2.log")
	c.Set(KeyLogFilePath, newLog)
	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	log.Error("second")

	if got := readFile(t, logPath); got != "[ERROR]: first\n" {
		t.Errorf("old log file = %q", got)
	}
	if got := readFile(t, newLog); got != "[ERROR]: second\n" {
		t.Errorf("new log file = %q", got)
	}
}

func TestSharedRoot(t *testing.T) {
	t.Parallel()

	root := xlog.NewRoot()
	c, _, _, _ := newConfigured(t)
	WithRoot(root)(c)
	if c.Root() != root {
		t.Fatal("WithRoot should replace the owned root")
	}
	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if root.Len() != 3 {
		t.Errorf("expected 3 sinks on the shared root, got %d", root.Len())
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if root.Len() != 0 {
		t.Errorf("Close() should detach all sinks, got %d", root.Len())
	}
}

func TestFilePerm(t *testing.T) {
	t.Parallel()

	c, _, debugPath, _ := newConfigured(t)
	WithFilePerm(0o600)(c)
	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	info, err := os.Stat(debugPath)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("expected owner-only permissions, got %v", perm)
	}
}
