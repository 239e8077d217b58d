// cmd/rg2/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tamzrod/rg2-gripper/internal/config"
	"github.com/tamzrod/rg2-gripper/internal/gripper"
)

// defaultSteps mirrors the bench check: open wide, then close on a part.
var defaultSteps = []config.StepConfig{
	{Force: 20, Width: 100, SettleMs: 2000},
	{Force: 30, Width: 10, SettleMs: 2000},
}

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("config", "", "Path to config file (YAML)")
	host := flag.String("host", "", "Override gripper host")
	port := flag.Int("port", 0, "Override Modbus TCP port")
	unitID := flag.Uint("unit", 0, "Override Modbus unit id")
	flag.Parse()

	// --------------------
	// Load + normalize + validate config
	// --------------------

	cfg := &config.Config{}
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
			return 1
		}
	}
	if *host != "" {
		cfg.Gripper.Host = *host
	}
	if *port != 0 {
		cfg.Gripper.Port = *port
	}
	if *unitID != 0 {
		if *unitID > 255 {
			fmt.Fprintf(os.Stderr, "unit id %d out of range\n", *unitID)
			return 1
		}
		cfg.Gripper.UnitID = uint8(*unitID)
	}

	config.Normalize(cfg)
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config validation failed: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Build + connect
	// --------------------

	g, err := gripper.Build(cfg.Gripper, logger)
	if err != nil {
		logger.Error("gripper build failed", zap.Error(err))
		return 1
	}
	// Disconnect on every exit path, including a failed connect.
	defer g.Disconnect()

	if err := g.Connect(); err != nil {
		logger.Error("connect failed", zap.Error(err))
		return 1
	}

	steps := cfg.Demo.Steps
	if len(steps) == 0 {
		steps = defaultSteps
	}

	// --------------------
	// Demo sequence
	// --------------------

	if w, ok := g.ReadWidth(); ok {
		logger.Info("current width", zap.Float64("width_mm", w.Millimeters))
	}

	failed := 0
	for i, st := range steps {
		logger.Info("demo step",
			zap.Int("step", i),
			zap.Int("force_n", st.Force),
			zap.Float64("width_mm", st.Width),
		)

		if !g.SetWidthAndForce(st.Force, st.Width) {
			failed++
			continue
		}

		if !settle(ctx, time.Duration(st.SettleMs)*time.Millisecond) {
			logger.Info("interrupted")
			return 130
		}

		if w, ok := g.ReadWidth(); ok {
			logger.Info("new width", zap.Int("step", i), zap.Float64("width_mm", w.Millimeters))
		}
	}

	if failed > 0 {
		logger.Warn("demo finished with failures", zap.Int("failed", failed), zap.Int("steps", len(steps)))
		return 2
	}
	return 0
}

// settle waits for the gripper to move. False means the context ended first.
func settle(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	return zc.Build()
}
