package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adpena/heartscope/internal/health"
	"github.com/adpena/heartscope/internal/telemetry"
	"github.com/adpena/heartscope/pkg/client"
)

type statusReport struct {
	Health  health.Status
	Metrics map[string]float64
}

func (r statusReport) String() string {
	progress := fmt.Sprintf("%d", r.Health.Tick)
	if r.Health.Ticks > 0 {
		progress = fmt.Sprintf("%d/%d", r.Health.Tick, r.Health.Ticks)
	}
	parts := []string{
		"status=" + r.Health.Status,
		"run=" + shortID(r.Health.RunID),
		"tick=" + progress,
		fmt.Sprintf("peaks=%.0f", r.Metrics[telemetry.MetricPeaks]),
		fmt.Sprintf("t=%.3f", r.Metrics[telemetry.MetricSimTime]),
		fmt.Sprintf("v=%+.4f", r.Metrics[telemetry.MetricValue]),
	}
	if last, ok := r.Metrics[telemetry.MetricLastPeak]; ok && !math.IsNaN(last) {
		parts = append(parts, fmt.Sprintf("last_peak=%+.4f", last))
	}
	parts = append(parts, fmt.Sprintf("uptime=%.1fs", r.Health.Uptime))
	return strings.Join(parts, " ")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query the telemetry of a running `heartscope run`",
	RunE: func(cmd *cobra.Command, _ []string) error {
		baseURL, _ := cmd.Flags().GetString("url")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		headers, _ := cmd.Flags().GetStringArray("header")

		httpClient := client.New(client.Options{Timeout: timeout, Headers: parseHeaders(headers)})
		report, err := probe(cmd.Context(), httpClient, baseURL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.String())
		if !report.Health.Healthy {
			return fmt.Errorf("unhealthy: %s", report.Health.Message)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().String("url", "http://127.0.0.1:9100", "Base URL of the telemetry server")
	statusCmd.Flags().Duration("timeout", 2*time.Second, "HTTP request timeout")
	statusCmd.Flags().StringArray("header", []string{}, "Request header in 'Key: Value' form (repeatable)")
	RootCmd.AddCommand(statusCmd)
}

// probe reads /healthz and /metrics. A 503 from /healthz still carries a
// status body and is reported rather than returned as an error.
func probe(ctx context.Context, httpClient *client.Client, baseURL string) (statusReport, error) {
	base := strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return statusReport{}, errors.New("telemetry url is required")
	}
	var report statusReport

	body, err := httpClient.Get(ctx, base+"/healthz")
	if err != nil && !client.IsStatus(err, http.StatusServiceUnavailable) {
		return report, fmt.Errorf("health: %w", err)
	}
	if err := json.Unmarshal(body, &report.Health); err != nil {
		return report, fmt.Errorf("decode health: %w", err)
	}

	body, err = httpClient.Get(ctx, base+"/metrics")
	if err != nil {
		return report, fmt.Errorf("metrics: %w", err)
	}
	report.Metrics, err = telemetry.Parse(bytes.NewReader(body))
	if err != nil {
		return report, fmt.Errorf("parse metrics: %w", err)
	}
	return report, nil
}

func parseHeaders(headers []string) map[string]string {
	out := map[string]string{}
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		out[key] = val
	}
	return out
}

func shortID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
