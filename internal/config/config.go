package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/adpena/heartscope/internal/flags"
	"github.com/adpena/heartscope/internal/trace"
)

const (
	envPrefix = "HEARTSCOPE_"
)

var (
	Themes    = []string{"auto", "dark", "light"}
	LogLevels = []string{"info", "debug", "warn", "error"}
)

type Config struct {
	Window        float64
	Step          float64
	Interval      time.Duration
	Ticks         int
	Threshold     float64
	Refractory    float64
	Theme         string
	LogFile       string
	LogLevel      string
	TelemetryAddr string
	Every         int
	Hold          bool
	NatsURL       string
	NatsSubject   string
}

type fileConfig struct {
	Window        string   `yaml:"window" toml:"window"`
	Step          *float64 `yaml:"step" toml:"step"`
	Interval      string   `yaml:"interval" toml:"interval"`
	Ticks         *int     `yaml:"ticks" toml:"ticks"`
	Threshold     *float64 `yaml:"threshold" toml:"threshold"`
	Refractory    *float64 `yaml:"refractory" toml:"refractory"`
	Theme         string   `yaml:"theme" toml:"theme"`
	LogFile       string   `yaml:"log_file" toml:"log_file"`
	LogLevel      string   `yaml:"log_level" toml:"log_level"`
	TelemetryAddr string   `yaml:"telemetry_addr" toml:"telemetry_addr"`
	Every         *int     `yaml:"every" toml:"every"`
	Hold          *bool    `yaml:"hold" toml:"hold"`
	NatsURL       string   `yaml:"nats_url" toml:"nats_url"`
	NatsSubject   string   `yaml:"nats_subject" toml:"nats_subject"`
}

func DefaultConfig() Config {
	params := trace.DefaultParams()
	return Config{
		Window:      params.Window,
		Step:        params.Step,
		Interval:    50 * time.Millisecond,
		Ticks:       params.Ticks,
		Threshold:   params.Threshold,
		Refractory:  params.Refractory,
		Theme:       "auto",
		LogLevel:    "info",
		Every:       1,
		NatsSubject: "heartscope",
	}
}

// RegisterFlags adds the flags shared by every command that drives a trace.
func RegisterFlags(cmd *cobra.Command) {
	defaults := DefaultConfig()
	window := flags.Span(defaults.Window)
	cmd.Flags().String("config", "", "Path to YAML/TOML config file")
	cmd.Flags().Var(&window, "window", "Visible time span in seconds (accepts 4pi or 4π)")
	cmd.Flags().Float64("step", defaults.Step, "Simulated seconds per tick")
	cmd.Flags().Duration("interval", defaults.Interval, "Wall-clock time between ticks")
	cmd.Flags().Int("ticks", defaults.Ticks, "Number of ticks to run (0 runs until quit)")
	cmd.Flags().Float64("threshold", defaults.Threshold, "Peak detection threshold")
	cmd.Flags().Float64("refractory", defaults.Refractory, "Minimum seconds between accepted peaks")
	cmd.Flags().Var(flags.NewStringEnum(Themes...), "theme", "Theme: auto, dark, or light")
	cmd.Flags().String("log-file", "", "Write logs to file")
	cmd.Flags().Var(flags.NewStringEnum(LogLevels...), "log-level", "Log level: info, debug, warn, or error")
}

// RegisterRunFlags adds the headless-only flags.
func RegisterRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("telemetry-addr", "", "Serve /metrics and /healthz on this address")
	cmd.Flags().Int("every", 1, "Print every Nth tick (peaks and the final tick are always printed)")
	cmd.Flags().Bool("hold", false, "Keep serving telemetry after the trace completes until interrupted")
	cmd.Flags().String("nats-url", "", "Publish samples and peaks to this NATS server")
	cmd.Flags().String("nats-subject", DefaultConfig().NatsSubject, "Subject prefix for NATS messages")
}

func Load(cmd *cobra.Command) (Config, error) {
	cfg := DefaultConfig()
	filePath := flagString(cmd, "config")
	if filePath == "" {
		filePath = strings.TrimSpace(os.Getenv(envPrefix + "CONFIG"))
	}
	if filePath == "" {
		if defaultPath, err := DefaultConfigPath(); err == nil {
			if _, statErr := os.Stat(defaultPath); statErr == nil {
				filePath = defaultPath
			} else if !os.IsNotExist(statErr) {
				return Config{}, statErr
			}
		}
	}
	if filePath != "" {
		if err := applyFile(&cfg, filePath); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := applyFlags(&cfg, cmd); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "", fmt.Errorf("unable to resolve user config dir")
	}
	return filepath.Join(dir, "heartscope", "config.yaml"), nil
}

// Params converts the loaded configuration into trace parameters.
func (c Config) Params() trace.Params {
	params := trace.DefaultParams()
	params.Window = c.Window
	params.Step = c.Step
	params.Ticks = c.Ticks
	params.Threshold = c.Threshold
	params.Refractory = c.Refractory
	return params
}

func (c Config) Validate() error {
	var errs []error
	if !positive(c.Window) {
		errs = append(errs, fmt.Errorf("window must be positive, got %v", c.Window))
	}
	if !positive(c.Step) {
		errs = append(errs, fmt.Errorf("step must be positive, got %v", c.Step))
	} else if positive(c.Window) && c.Step >= c.Window {
		errs = append(errs, fmt.Errorf("step %v must be smaller than window %v", c.Step, c.Window))
	}
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %s", c.Interval))
	}
	if c.Ticks < 0 {
		errs = append(errs, fmt.Errorf("ticks must not be negative, got %d", c.Ticks))
	}
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
		errs = append(errs, fmt.Errorf("threshold must be finite, got %v", c.Threshold))
	}
	if math.IsNaN(c.Refractory) || math.IsInf(c.Refractory, 0) || c.Refractory < 0 {
		errs = append(errs, fmt.Errorf("refractory must be a non-negative number, got %v", c.Refractory))
	}
	if !oneOf(c.Theme, Themes) {
		errs = append(errs, fmt.Errorf("unknown theme %q", c.Theme))
	}
	if !oneOf(c.LogLevel, LogLevels) {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if c.Every < 1 {
		errs = append(errs, fmt.Errorf("every must be at least 1, got %d", c.Every))
	}
	if c.NatsURL != "" && strings.TrimSpace(c.NatsSubject) == "" {
		errs = append(errs, errors.New("nats subject is required with a nats url"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parse yaml config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parse toml config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config extension: %s", filepath.Ext(path))
	}
	if err := applyFileConfig(cfg, fc); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) error {
	if strings.TrimSpace(fc.Window) != "" {
		span, err := flags.ParseSpan(fc.Window)
		if err != nil {
			return err
		}
		cfg.Window = float64(span)
	}
	if fc.Step != nil {
		cfg.Step = *fc.Step
	}
	if strings.TrimSpace(fc.Interval) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(fc.Interval))
		if err != nil {
			return fmt.Errorf("invalid interval: %w", err)
		}
		cfg.Interval = d
	}
	if fc.Ticks != nil {
		cfg.Ticks = *fc.Ticks
	}
	if fc.Threshold != nil {
		cfg.Threshold = *fc.Threshold
	}
	if fc.Refractory != nil {
		cfg.Refractory = *fc.Refractory
	}
	cfg.Theme = firstNonEmpty(cfg.Theme, strings.ToLower(fc.Theme))
	cfg.LogFile = firstNonEmpty(cfg.LogFile, fc.LogFile)
	cfg.LogLevel = firstNonEmpty(cfg.LogLevel, strings.ToLower(fc.LogLevel))
	cfg.TelemetryAddr = firstNonEmpty(cfg.TelemetryAddr, fc.TelemetryAddr)
	if fc.Every != nil {
		cfg.Every = *fc.Every
	}
	if fc.Hold != nil {
		cfg.Hold = *fc.Hold
	}
	cfg.NatsURL = firstNonEmpty(cfg.NatsURL, fc.NatsURL)
	cfg.NatsSubject = firstNonEmpty(cfg.NatsSubject, fc.NatsSubject)
	return nil
}

func applyEnv(cfg *Config) error {
	if val := env("WINDOW"); val != "" {
		span, err := flags.ParseSpan(val)
		if err != nil {
			return fmt.Errorf("%sWINDOW: %w", envPrefix, err)
		}
		cfg.Window = float64(span)
	}
	if val := env("STEP"); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%sSTEP: %w", envPrefix, err)
		}
		cfg.Step = f
	}
	if val := env("INTERVAL"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%sINTERVAL: %w", envPrefix, err)
		}
		cfg.Interval = d
	}
	if val := env("TICKS"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%sTICKS: %w", envPrefix, err)
		}
		cfg.Ticks = n
	}
	if val := env("THRESHOLD"); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%sTHRESHOLD: %w", envPrefix, err)
		}
		cfg.Threshold = f
	}
	if val := env("REFRACTORY"); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%sREFRACTORY: %w", envPrefix, err)
		}
		cfg.Refractory = f
	}
	if val := env("THEME"); val != "" {
		cfg.Theme = strings.ToLower(val)
	}
	if val := env("LOG_FILE"); val != "" {
		cfg.LogFile = val
	}
	if val := env("LOG_LEVEL"); val != "" {
		cfg.LogLevel = strings.ToLower(val)
	}
	if val := env("TELEMETRY_ADDR"); val != "" {
		cfg.TelemetryAddr = val
	}
	if val := env("EVERY"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%sEVERY: %w", envPrefix, err)
		}
		cfg.Every = n
	}
	if val := env("HOLD"); val != "" {
		cfg.Hold = parseBool(val)
	}
	if val := env("NATS_URL"); val != "" {
		cfg.NatsURL = val
	}
	if val := env("NATS_SUBJECT"); val != "" {
		cfg.NatsSubject = val
	}
	return nil
}

// applyFlags only overrides values whose flag was set explicitly.
func applyFlags(cfg *Config, cmd *cobra.Command) error {
	var err error
	if v, ok := changed(cmd, "window"); ok {
		if span, isSpan := v.(*flags.Span); isSpan {
			cfg.Window = span.Float64()
		}
	}
	if _, ok := changed(cmd, "step"); ok {
		if cfg.Step, err = cmd.Flags().GetFloat64("step"); err != nil {
			return err
		}
	}
	if _, ok := changed(cmd, "interval"); ok {
		if cfg.Interval, err = cmd.Flags().GetDuration("interval"); err != nil {
			return err
		}
	}
	if _, ok := changed(cmd, "ticks"); ok {
		if cfg.Ticks, err = cmd.Flags().GetInt("ticks"); err != nil {
			return err
		}
	}
	if _, ok := changed(cmd, "threshold"); ok {
		if cfg.Threshold, err = cmd.Flags().GetFloat64("threshold"); err != nil {
			return err
		}
	}
	if _, ok := changed(cmd, "refractory"); ok {
		if cfg.Refractory, err = cmd.Flags().GetFloat64("refractory"); err != nil {
			return err
		}
	}
	if v, ok := changed(cmd, "theme"); ok {
		cfg.Theme = v.String()
	}
	if v, ok := changed(cmd, "log-file"); ok {
		cfg.LogFile = v.String()
	}
	if v, ok := changed(cmd, "log-level"); ok {
		cfg.LogLevel = v.String()
	}
	if v, ok := changed(cmd, "telemetry-addr"); ok {
		cfg.TelemetryAddr = v.String()
	}
	if _, ok := changed(cmd, "every"); ok {
		if cfg.Every, err = cmd.Flags().GetInt("every"); err != nil {
			return err
		}
	}
	if _, ok := changed(cmd, "hold"); ok {
		if cfg.Hold, err = cmd.Flags().GetBool("hold"); err != nil {
			return err
		}
	}
	if v, ok := changed(cmd, "nats-url"); ok {
		cfg.NatsURL = v.String()
	}
	if v, ok := changed(cmd, "nats-subject"); ok {
		cfg.NatsSubject = v.String()
	}
	return nil
}

func changed(cmd *cobra.Command, name string) (pflag.Value, bool) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil || !flag.Changed {
		return nil, false
	}
	return flag.Value, true
}

func flagString(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(flag.Value.String())
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func parseBool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func oneOf(val string, allowed []string) bool {
	for _, a := range allowed {
		if val == a {
			return true
		}
	}
	return false
}

func firstNonEmpty(current, next string) string {
	if strings.TrimSpace(next) == "" {
		return current
	}
	return next
}
