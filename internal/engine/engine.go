package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-vakitmatik/internal/config"
)

// GenerateConfig contains all parameters required to produce a schedule.
type GenerateConfig struct {
	Location string         // Display name printed in the device header
	Timezone *time.Location // Zone of the prayer times, used by the calendar export
	Calendar bool           // Also render the iCalendar feed
}

// Result is the output of one generation run.
type Result struct {
	Location string        // Header form of the location name
	Document []byte        // Vakitmatik text file
	Calendar []byte        // iCalendar feed, nil unless requested
	Records  []DailyRecord // Normalized rows in file order
	Stats    Stats
}

// Stats summarizes a generation run for logging.
type Stats struct {
	Rows    int // Rows delivered by the source
	Skipped int // Rows without a recognizable date
	Months  int // Month blocks written
	Unknown int // Records whose month token was passed through verbatim
	Events  int // Calendar events written
}

// Generator is the core service wiring the row source to the encoders.
type Generator struct {
	Clock  Clock     // Interface for time mocking.
	Source RowSource // Interface for spreadsheet abstraction.
}

// Run executes the read, normalize and encode pipeline.
func (g *Generator) Run(ctx context.Context, cfg GenerateConfig) (*Result, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyLocation, cfg.Location,
	)
	log.InfoContext(ctx, config.MsgGenStarted)

	if g.Source == nil {
		return nil, errors.New(config.ErrSourceMissing)
	}

	rows, err := g.Source.Rows(ctx)
	if err != nil {
		// If context error occurred during acquisition, return it directly.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrRowSource, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, stats := normalizeRows(rows)

	res := &Result{
		Location: LocationName(cfg.Location),
		Document: Encode(cfg.Location, records),
		Records:  records,
	}

	if cfg.Calendar {
		now := time.Now()
		if g.Clock != nil {
			now = g.Clock.Now()
		}
		ics, events, err := EncodeCalendar(cfg.Location, records, cfg.Timezone, now)
		if err != nil {
			return nil, err
		}
		res.Calendar = ics
		stats.Events = events
	}

	res.Stats = stats
	logSuccess(stats, len(res.Document))
	log.Debug(config.MsgGenFinished, config.LogKeyDuration, time.Since(start).Milliseconds())
	return res, nil
}

// normalizeRows applies NormalizeRow to every row and gathers the stats.
func normalizeRows(rows []Row) ([]DailyRecord, Stats) {
	stats := Stats{Rows: len(rows)}
	records := make([]DailyRecord, 0, len(rows))
	lastMonth := ""

	for i, row := range rows {
		rec, ok := NormalizeRow(row)
		if !ok {
			stats.Skipped++
			slog.Debug(config.MsgSkippedRow,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyRow, i+1)
			continue
		}

		if !IsCanonicalMonth(rec.Month) {
			stats.Unknown++
			slog.Warn(config.MsgUnknownMonth,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyRow, i+1,
				config.LogKeyMonth, rec.Month)
		}

		if len(records) == 0 || rec.Month != lastMonth {
			stats.Months++
			lastMonth = rec.Month
		}
		records = append(records, rec)
	}
	return records, stats
}

// logSuccess logs the final statistics of the generation process.
func logSuccess(stats Stats, size int) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyRows, stats.Rows),
			slog.Int(config.LogKeyRecords, stats.Rows-stats.Skipped),
			slog.Int(config.LogKeySkipped, stats.Skipped),
			slog.Int(config.LogKeyMonths, stats.Months),
			slog.Int(config.LogKeyUnknown, stats.Unknown),
			slog.Int(config.LogKeyEvents, stats.Events),
			slog.Int(config.LogKeySizeBytes, size),
		),
	)
}
