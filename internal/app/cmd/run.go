package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/adpena/heartscope/internal/config"
	"github.com/adpena/heartscope/internal/loop"
	"github.com/adpena/heartscope/internal/publish"
	"github.com/adpena/heartscope/internal/render"
	heartbeat "github.com/adpena/heartscope/internal/signal"
	"github.com/adpena/heartscope/internal/telemetry"
	"github.com/adpena/heartscope/internal/trace"
	"github.com/adpena/heartscope/pkg/models"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the trace without a terminal UI and print ticks to stdout",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}
		logger, closeLog, err := setupLogging(cfg.LogFile, cfg.LogLevel, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var sinks []loop.Sink
		if cfg.NatsURL != "" {
			conn, err := publish.Connect(cfg.NatsURL)
			if err != nil {
				return err
			}
			defer func() {
				if err := conn.Drain(); err != nil {
					logger.Warn("nats drain", "err", err)
				}
			}()
			sink := publish.NewSink(conn, cfg.NatsSubject)
			logger.Info("publishing to nats", "url", conn.ConnectedUrl(), "wave", sink.WaveSubject(), "peaks", sink.PeakSubject())
			sinks = append(sinks, sink)
		}
		return runHeadless(ctx, cfg, loop.NewInterval(cfg.Interval), cmd.OutOrStdout(), logger, sinks...)
	},
}

func init() {
	config.RegisterFlags(runCmd)
	config.RegisterRunFlags(runCmd)
	RootCmd.AddCommand(runCmd)
}

// runHeadless drives the trace from src, printing frames to out and
// feeding extra sinks. With a telemetry address the HTTP server runs
// alongside the loop and both stop together.
func runHeadless(ctx context.Context, cfg config.Config, src loop.Source, out io.Writer, logger *log.Logger, extra ...loop.Sink) error {
	state := trace.NewState(cfg.Params(), heartbeat.Heartbeat)
	recorder := telemetry.NewRecorder()
	sinks := append([]loop.Sink{recorder, render.NewPlain(out, cfg.Every), peakLogger(logger)}, extra...)

	logger.Info("run started", "ticks", cfg.Ticks, "interval", cfg.Interval, "threshold", cfg.Threshold)
	if cfg.TelemetryAddr == "" {
		return finish(ctx, logger, loop.Run(ctx, src, state, loop.Fanout(sinks...)), recorder)
	}

	accessLog := logger.StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel}).Writer()
	server, err := telemetry.Listen(cfg.TelemetryAddr, recorder, staleAfter(cfg.Interval), telemetry.WithAccessLog(accessLog))
	if err != nil {
		return err
	}
	sinks = append(sinks, server.Hub)
	sink := loop.Fanout(sinks...)
	logger.Info("telemetry listening", "metrics", server.MetricsURL, "health", server.HealthURL, "stream", server.StreamURL, "run", server.RunID)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(server.Serve)
	group.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := server.Close(shutdownCtx); err != nil {
				logger.Warn("telemetry shutdown", "err", err)
			}
		}()
		if err := loop.Run(groupCtx, src, state, sink); err != nil {
			return err
		}
		if cfg.Hold {
			logger.Info("trace complete, holding telemetry until interrupted")
			<-groupCtx.Done()
		}
		return nil
	})
	return finish(ctx, logger, group.Wait(), recorder)
}

// finish treats cancellation of the parent context as a clean stop.
func finish(ctx context.Context, logger *log.Logger, err error, recorder *telemetry.Recorder) error {
	snap := recorder.Snapshot()
	if err != nil && errors.Is(err, context.Canceled) && ctx.Err() != nil {
		logger.Info("interrupted", "tick", snap.Tick, "peaks", snap.PeakCount)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("run complete", "ticks", snap.Tick, "peaks", snap.PeakCount)
	return nil
}

func peakLogger(logger *log.Logger) loop.Sink {
	return loop.SinkFunc(func(frame models.Frame) error {
		logger.Debug("tick", "tick", frame.Tick, "t", frame.Time, "v", frame.Value)
		if frame.Marker != nil {
			logger.Info("peak", "t", frame.Marker.Time, "v", frame.Marker.Value, "count", frame.PeakCount)
		}
		return nil
	})
}

func staleAfter(interval time.Duration) time.Duration {
	stale := 20 * interval
	if stale < 2*time.Second {
		stale = 2 * time.Second
	}
	return stale
}
