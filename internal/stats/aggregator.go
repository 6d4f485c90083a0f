package stats

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"poolEngine/internal/model"
)

// MetricsWriter persists aggregated window metrics.
type MetricsWriter interface {
	UpsertWindowMetrics(ctx context.Context, metrics []model.PoolWindowMetrics) error
}

// Config controls aggregation behavior.
type Config struct {
	WindowSeconds uint64
	BatchSize     int
	RecomputeFrom uint64
	StateStore    StateStore
}

// Aggregator folds journal events into pool window metrics.
type Aggregator struct {
	cfg    Config
	writer MetricsWriter
	logger *zap.Logger
	acc    *Accumulator
}

func NewAggregator(cfg Config, writer MetricsWriter, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		cfg:    cfg,
		writer: writer,
		logger: logger,
	}
}

// Run executes aggregation over a journal JSONL file.
func (a *Aggregator) Run(ctx context.Context, inputPath string) error {
	if a.writer == nil {
		return fmt.Errorf("metrics writer is nil")
	}
	if a.cfg.WindowSeconds == 0 {
		return fmt.Errorf("window seconds must be > 0")
	}
	if a.cfg.BatchSize <= 0 {
		a.cfg.BatchSize = 1000
	}

	startTs, err := a.loadStartTimestamp(ctx)
	if err != nil {
		return err
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	batch := make([]model.PoolWindowMetrics, 0, a.cfg.BatchSize)
	maxTs := startTs
	var total, aggregated, skipped, failed int

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var record model.EventRecord
		if err := json.Unmarshal(line, &record); err != nil {
			failed++
			a.logger.Warn("decode journal record", zap.Error(err))
			continue
		}

		if record.Timestamp <= startTs {
			skipped++
			continue
		}

		windowStart := windowStart(record.Timestamp, a.cfg.WindowSeconds)
		windowEnd := windowStart + a.cfg.WindowSeconds

		if a.acc == nil {
			a.acc = NewAccumulator(record, windowStart, windowEnd)
		} else if a.acc.WindowStart != windowStart {
			batch = append(batch, a.buildMetrics(a.acc))
			a.acc = NewAccumulator(record, windowStart, windowEnd)
		}

		if err := a.acc.AddEvent(record); err != nil {
			failed++
			a.logger.Warn("aggregate event", zap.Error(err), zap.Uint64("seq", record.Seq), zap.String("event", record.EventName))
			continue
		}
		aggregated++

		if record.Timestamp > maxTs {
			maxTs = record.Timestamp
		}

		if len(batch) >= a.cfg.BatchSize {
			if err := a.writer.UpsertWindowMetrics(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]

			if err := a.saveState(ctx); err != nil {
				return err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	if a.acc != nil {
		batch = append(batch, a.buildMetrics(a.acc))
		a.acc = nil
	}

	if len(batch) > 0 {
		if err := a.writer.UpsertWindowMetrics(ctx, batch); err != nil {
			return err
		}
	}

	a.cfg.RecomputeFrom = maxTs
	if err := a.saveState(ctx); err != nil {
		return err
	}

	a.logger.Info("aggregate complete",
		zap.Int("total", total),
		zap.Int("aggregated", aggregated),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	return nil
}

func (a *Aggregator) loadStartTimestamp(ctx context.Context) (uint64, error) {
	if a.cfg.RecomputeFrom > 0 {
		return a.cfg.RecomputeFrom - 1, nil
	}
	if a.cfg.StateStore == nil {
		return 0, nil
	}
	last, ok, err := a.cfg.StateStore.Load(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return last, nil
}

func (a *Aggregator) saveState(ctx context.Context) error {
	if a.cfg.StateStore == nil {
		return nil
	}

	// Never checkpoint past the open window; it is re-read on the next run.
	if a.acc != nil && a.acc.WindowStart > 0 {
		return a.cfg.StateStore.Save(ctx, a.acc.WindowStart-1)
	}
	return a.cfg.StateStore.Save(ctx, a.cfg.RecomputeFrom)
}

func (a *Aggregator) buildMetrics(acc *Accumulator) model.PoolWindowMetrics {
	return model.PoolWindowMetrics{
		WindowSizeSecs: int64(a.cfg.WindowSeconds),
		WindowStart:    time.Unix(int64(acc.WindowStart), 0).UTC(),
		WindowEnd:      time.Unix(int64(acc.WindowEnd), 0).UTC(),
		SwapCount:      acc.SwapCount,
		AddCount:       acc.AddCount,
		RemoveCount:    acc.RemoveCount,
		VolumeBase:     acc.VolumeBase.String(),
		VolumeQuote:    acc.VolumeQuote.String(),
		FeeBase:        acc.FeeBase.String(),
		FeeQuote:       acc.FeeQuote.String(),
		SharesMinted:   acc.SharesMinted.String(),
		SharesBurned:   acc.SharesBurned.String(),
	}
}

func windowStart(ts uint64, windowSec uint64) uint64 {
	return ts - (ts % windowSec)
}
