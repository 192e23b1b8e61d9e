package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/adpena/heartscope/internal/config"
	"github.com/adpena/heartscope/internal/flags"
)

type setupConfig struct {
	Window        string  `yaml:"window"`
	Step          float64 `yaml:"step"`
	Interval      string  `yaml:"interval"`
	Ticks         int     `yaml:"ticks"`
	Threshold     float64 `yaml:"threshold"`
	Refractory    float64 `yaml:"refractory"`
	Theme         string  `yaml:"theme"`
	LogLevel      string  `yaml:"log_level"`
	LogFile       string  `yaml:"log_file,omitempty"`
	TelemetryAddr string  `yaml:"telemetry_addr,omitempty"`
	Every         int     `yaml:"every,omitempty"`
	Hold          bool    `yaml:"hold,omitempty"`
	NatsURL       string  `yaml:"nats_url,omitempty"`
	NatsSubject   string  `yaml:"nats_subject,omitempty"`
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write the effective settings to a config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, _ := cmd.Flags().GetString("output")
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}
		if output == "" {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			output = path
		}
		if err := writeConfig(output, cfg, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
		fmt.Fprintf(cmd.OutOrStdout(), "Run: heartscope --config %s\n", output)
		return nil
	},
}

func init() {
	config.RegisterFlags(setupCmd)
	config.RegisterRunFlags(setupCmd)
	setupCmd.Flags().StringP("output", "o", "", "Path to write config file (default: user config dir)")
	setupCmd.Flags().Bool("force", false, "Overwrite the config file if it exists")
	RootCmd.AddCommand(setupCmd)
}

func writeConfig(path string, cfg config.Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}
	}
	window := flags.Span(cfg.Window)
	payload, err := yaml.Marshal(setupConfig{
		Window:        window.String(),
		Step:          cfg.Step,
		Interval:      cfg.Interval.String(),
		Ticks:         cfg.Ticks,
		Threshold:     cfg.Threshold,
		Refractory:    cfg.Refractory,
		Theme:         cfg.Theme,
		LogLevel:      cfg.LogLevel,
		LogFile:       cfg.LogFile,
		TelemetryAddr: cfg.TelemetryAddr,
		Every:         cfg.Every,
		Hold:          cfg.Hold,
		NatsURL:       cfg.NatsURL,
		NatsSubject:   cfg.NatsSubject,
	})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}
