package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func setTestConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("APPDATA", dir)
	t.Setenv(envPrefix+"CONFIG", "")
	return dir
}

func newCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	RegisterFlags(cmd)
	RegisterRunFlags(cmd)
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	setTestConfigHome(t)
	cfg, err := Load(newCommand(t))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if math.Abs(cfg.Window-4*math.Pi) > 1e-12 {
		t.Fatalf("expected 4pi window, got %v", cfg.Window)
	}
	if cfg.Step != 0.05 || cfg.Ticks != 1000 || cfg.Interval != 50*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Threshold != 1.2 || cfg.Refractory != 3 {
		t.Fatalf("unexpected detector defaults: %+v", cfg)
	}
	if cfg.Theme != "auto" || cfg.LogLevel != "info" || cfg.Every != 1 {
		t.Fatalf("unexpected ambient defaults: %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	setTestConfigHome(t)
	cmd := newCommand(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "window: 2pi\nstep: 0.1\ninterval: 100ms\nticks: 10\nthreshold: 0.5\nrefractory: 1\ntheme: light\nlog_level: debug\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(envPrefix+"TICKS", "20")
	t.Setenv(envPrefix+"THRESHOLD", "0.9")
	t.Setenv(envPrefix+"THEME", "dark")

	if err := cmd.Flags().Set("config", cfgPath); err != nil {
		t.Fatalf("set config flag: %v", err)
	}
	if err := cmd.Flags().Set("ticks", "30"); err != nil {
		t.Fatalf("set ticks flag: %v", err)
	}
	if err := cmd.Flags().Set("window", "4π"); err != nil {
		t.Fatalf("set window flag: %v", err)
	}

	cfg, err := Load(cmd)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Ticks != 30 {
		t.Fatalf("expected ticks from flag, got %d", cfg.Ticks)
	}
	if math.Abs(cfg.Window-4*math.Pi) > 1e-12 {
		t.Fatalf("expected window from flag, got %v", cfg.Window)
	}
	if cfg.Threshold != 0.9 {
		t.Fatalf("expected threshold from env, got %v", cfg.Threshold)
	}
	if cfg.Theme != "dark" {
		t.Fatalf("expected theme from env, got %s", cfg.Theme)
	}
	if cfg.Step != 0.1 || cfg.Interval != 100*time.Millisecond || cfg.Refractory != 1 {
		t.Fatalf("expected file values, got %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level from file, got %s", cfg.LogLevel)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	home := setTestConfigHome(t)
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if !strings.HasPrefix(path, home) {
		t.Skipf("user config dir %s is outside the test home", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("ticks: 7\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(newCommand(t))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Ticks != 7 {
		t.Fatalf("expected ticks from default path, got %d", cfg.Ticks)
	}
}

func TestLoadTOML(t *testing.T) {
	setTestConfigHome(t)
	cmd := newCommand(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	body := "window = \"3pi\"\nevery = 5\nhold = true\ntelemetry_addr = \"127.0.0.1:9100\"\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := cmd.Flags().Set("config", cfgPath); err != nil {
		t.Fatalf("set config flag: %v", err)
	}
	cfg, err := Load(cmd)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if math.Abs(cfg.Window-3*math.Pi) > 1e-12 || cfg.Every != 5 || !cfg.Hold || cfg.TelemetryAddr != "127.0.0.1:9100" {
		t.Fatalf("unexpected toml config: %+v", cfg)
	}
}

func TestLoadNats(t *testing.T) {
	setTestConfigHome(t)
	cmd := newCommand(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("nats_url: nats://file:4222\nnats_subject: ward.bed3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envPrefix+"NATS_URL", "nats://env:4222")
	_ = cmd.Flags().Set("config", cfgPath)

	cfg, err := Load(cmd)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.NatsURL != "nats://env:4222" || cfg.NatsSubject != "ward.bed3" {
		t.Fatalf("unexpected nats config: %+v", cfg)
	}

	cfg.NatsSubject = " "
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "nats subject") {
		t.Fatalf("expected nats subject error, got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	setTestConfigHome(t)

	cmd := newCommand(t)
	cfgPath := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(cfgPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_ = cmd.Flags().Set("config", cfgPath)
	if _, err := Load(cmd); err == nil || !strings.Contains(err.Error(), "unsupported config extension") {
		t.Fatalf("expected extension error, got %v", err)
	}

	t.Setenv(envPrefix+"STEP", "fast")
	if _, err := Load(newCommand(t)); err == nil || !strings.Contains(err.Error(), "STEP") {
		t.Fatalf("expected env parse error, got %v", err)
	}
	t.Setenv(envPrefix+"STEP", "")

	cmd = newCommand(t)
	if err := cmd.Flags().Set("theme", "sepia"); err == nil {
		t.Fatalf("expected theme flag to reject unknown value")
	}
	if err := cmd.Flags().Set("window", "-2pi"); err == nil {
		t.Fatalf("expected window flag to reject negative span")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cfg.Step = 20
	cfg.Every = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "smaller than window") || !strings.Contains(err.Error(), "every") {
		t.Fatalf("expected joined errors, got %v", err)
	}
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 0.9
	cfg.Ticks = 5
	params := cfg.Params()
	if params.Threshold != 0.9 || params.Ticks != 5 || params.Step != cfg.Step {
		t.Fatalf("unexpected params: %+v", params)
	}
	if params.YRange.Min != -2 || params.YRange.Max != 2 {
		t.Fatalf("unexpected y range: %+v", params.YRange)
	}
}
