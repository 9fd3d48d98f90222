package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ticksplit/internal/domain"
	"ticksplit/internal/engine"
	"ticksplit/internal/infra"
	"ticksplit/internal/infra/feed"
	"ticksplit/internal/infra/storage"
)

// BatchService runs the daily full-market disaggregation: read the
// merged-day feed, replay every security, merge, persist.
type BatchService struct {
	cfg     *infra.Config
	metrics *infra.Metrics
}

// NewBatchService creates a new BatchService instance.
func NewBatchService(cfg *infra.Config) *BatchService {
	return &BatchService{cfg: cfg, metrics: infra.GlobalMetrics}
}

// Progress is invoked after each finished security replay.
type Progress func(securityID string, current, total int)

// DayResult summarizes one processed trading day.
type DayResult struct {
	RunID      string
	Date       string
	Securities int
	InputRows  int
	BadLines   int

	Orders       int
	Trades       int
	NewOrders    int
	CancelOrders int
	TakerOrders  int
	MakerOrders  int

	MalformedTicks  int
	FallbackCancels int
	SettlementDrops int
	GapSecurities   int // securities whose raw BizIndex run had gaps

	Elapsed    time.Duration
	OutputPath string
}

// InputPath returns the merged-day feed file location for a date.
func (s *BatchService) InputPath(date string) string {
	return filepath.Join(s.cfg.Batch.InputDir, fmt.Sprintf("%s_merged_ticks.jsonl", date))
}

// ValidateDate checks the YYYYMMDD form used in file names.
func ValidateDate(date string) error {
	if len(date) != 8 {
		return fmt.Errorf("date must be YYYYMMDD, got %q", date)
	}
	var year, month, day int
	if _, err := fmt.Sscanf(date, "%4d%2d%2d", &year, &month, &day); err != nil {
		return fmt.Errorf("date must be YYYYMMDD, got %q", date)
	}
	if year < 1990 || year > 2100 {
		return fmt.Errorf("implausible year in date %q", date)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return fmt.Errorf("invalid month/day in date %q", date)
	}
	return nil
}

// ProcessDay disaggregates one trading day. Each security-day replay
// owns its state outright, so replays run concurrently under a bounded
// semaphore; the market-wide merge waits for all of them.
func (s *BatchService) ProcessDay(ctx context.Context, date string, progress Progress) (*DayResult, error) {
	start := time.Now()

	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := slog.With("run_id", runID, "date", date)

	inputPath := s.InputPath(date)
	log.Info("reading merged feed", "file", inputPath)

	ticks, badLines, err := feed.ReadDay(inputPath)
	if err != nil {
		return nil, err
	}

	groups := feed.GroupBySecurity(ticks)
	securityIDs := make([]string, 0, len(groups))
	for id := range groups {
		securityIDs = append(securityIDs, id)
	}
	sort.Strings(securityIDs)
	total := len(securityIDs)

	log.Info("feed loaded", "rows", len(ticks), "bad_lines", badLines, "securities", total)

	result := &DayResult{
		RunID:      runID,
		Date:       date,
		Securities: total,
		InputRows:  len(ticks),
		BadLines:   badLines,
	}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		allOrders []domain.OrderRecord
		allTrades []domain.TradeRecord
		done      int
	)
	sem := make(chan struct{}, s.cfg.Batch.Concurrency)

	for _, securityID := range securityIDs {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		go func(securityID string) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			s.metrics.IncrementReplays()
			defer s.metrics.DecrementReplays()

			orders, trades, stats := s.replaySecurity(log, securityID, groups[securityID])

			mu.Lock()
			allOrders = append(allOrders, orders...)
			allTrades = append(allTrades, trades...)
			result.MalformedTicks += stats.MalformedTicks
			result.FallbackCancels += stats.FallbackCancels
			result.SettlementDrops += stats.SettlementDrops
			result.NewOrders += stats.NewOrders
			result.CancelOrders += stats.CancelOrders
			result.TakerOrders += stats.TakerOrders
			result.MakerOrders += stats.MakerOrders
			if stats.gapRun {
				result.GapSecurities++
			}
			done++
			current := done
			mu.Unlock()

			if progress != nil {
				progress(securityID, current, total)
			}
			if current%100 == 0 || current == total {
				log.Info("replay progress", "done", current, "total", total)
			}
		}(securityID)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Full-market emission order: the per-security sorts are extended
	// with a leading SecurityID key.
	engine.SortOrdersMarket(allOrders)
	engine.SortTradesMarket(allTrades)

	result.Orders = len(allOrders)
	result.Trades = len(allTrades)

	store, err := storage.Open(s.cfg.Batch.OutputDir, date)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.WriteOrders(allOrders, s.cfg.Batch.BatchSize); err != nil {
		return nil, err
	}
	if err := store.WriteTrades(allTrades, s.cfg.Batch.BatchSize); err != nil {
		return nil, err
	}
	result.OutputPath = store.Path()

	result.Elapsed = time.Since(start)
	log.Info("day complete",
		"securities", result.Securities,
		"orders", result.Orders,
		"trades", result.Trades,
		"new", result.NewOrders,
		"cancel", result.CancelOrders,
		"taker", result.TakerOrders,
		"maker", result.MakerOrders,
		"malformed", result.MalformedTicks,
		"fallback_cancels", result.FallbackCancels,
		"gap_securities", result.GapSecurities,
		"elapsed", result.Elapsed,
		"output", result.OutputPath,
	)

	return result, nil
}

// replayStats extends the engine counters with batch-level findings.
type replayStats struct {
	engine.Stats
	gapRun bool
}

// replaySecurity runs one security-day replay plus its verification
// checks. Checks only report; they never fail the replay.
func (s *BatchService) replaySecurity(log *slog.Logger, securityID string, ticks []domain.RawTick) ([]domain.OrderRecord, []domain.TradeRecord, replayStats) {
	start := time.Now()

	report := engine.CheckContinuity(ticks)
	if !report.Continuous() {
		log.Warn("biz index gaps in raw feed", "security", securityID, "report", report.String())
	}

	kept := engine.Prepare(ticks)
	r := engine.NewReplayer(securityID)
	for i := range kept {
		if err := r.Process(&kept[i]); err != nil {
			log.Warn("skipping malformed tick", "security", securityID, "err", err)
		}
	}
	r.Settle()
	orders, trades := r.Results()

	if err := engine.VerifyConservation(orders, r.Totals()); err != nil {
		// Indicates a reconstruction bug, not bad input; surface loudly.
		log.Error("conservation check failed", "security", securityID, "err", err)
	}

	stats := replayStats{Stats: r.Stats(), gapRun: !report.Continuous()}
	stats.InputTicks = len(ticks)
	stats.KeptTicks = len(kept)

	s.metrics.RecordReplay(stats.KeptTicks, len(orders), len(trades), time.Since(start).Nanoseconds())
	s.metrics.RecordMalformed(stats.MalformedTicks)
	s.metrics.RecordFallbackCancels(stats.FallbackCancels)
	s.metrics.RecordSettlementDrops(stats.SettlementDrops)

	return orders, trades, stats
}
