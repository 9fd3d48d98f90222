package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ticksplit/internal/app"
	"ticksplit/internal/infra"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "configuration file")
	date := flag.String("date", "", "trading day to process (YYYYMMDD)")
	flag.Parse()

	if *date == "" {
		fmt.Fprintln(os.Stderr, "usage: app -date YYYYMMDD [-config path]")
		os.Exit(2)
	}

	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Run the daily batch
	result, err := bootstrap.Batch.ProcessDay(ctx, *date, nil)
	if err != nil {
		slog.Error("❌ Day processing failed", slog.String("date", *date), slog.Any("error", err))
		os.Exit(1)
	}

	snap := infra.GlobalMetrics.Snapshot()
	slog.Info("✨ Done",
		slog.String("run_id", result.RunID),
		slog.String("output", result.OutputPath),
		slog.Int("orders", result.Orders),
		slog.Int("trades", result.Trades),
		slog.Uint64("ticks_processed", snap.TicksProcessed),
		slog.Int64("avg_replay_ns", snap.AvgReplayNs),
	)
}
