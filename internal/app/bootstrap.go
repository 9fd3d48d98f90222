package app

import (
	"log/slog"

	"ticksplit/internal/domain"
	"ticksplit/internal/infra"
	"ticksplit/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config *infra.Config
	Batch  *service.BatchService
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping TickSplit...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Pre-warm the accumulator pool before the first replay
	domain.WarmupStatePool()

	// 4. Batch service
	b.Batch = service.NewBatchService(cfg)
	slog.Info("✅ Batch service ready",
		"input_dir", cfg.Batch.InputDir,
		"output_dir", cfg.Batch.OutputDir,
		"concurrency", cfg.Batch.Concurrency,
	)

	return nil
}
