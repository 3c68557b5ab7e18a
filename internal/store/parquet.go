package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"

	"fxsim/internal/domain"
)

// Compile-time interface check.
var _ TickStore = (*ParquetStore)(nil)

// ParquetStore implements TickStore using Parquet files on disk, one file
// per pair and day.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// TickRecord is the Parquet schema for tick data.
type TickRecord struct {
	Pair      string  `parquet:"pair"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Bid       float64 `parquet:"bid"`
	Ask       float64 `parquet:"ask"`
}

// WriteTicks writes tick quotes for one pair, grouped by date. Existing
// records for the same millisecond are replaced.
//
// Layout: <DataDir>/ticks/<PAIR>/<YYYY-MM-DD>.parquet
func (s *ParquetStore) WriteTicks(_ context.Context, pair string, ticks []domain.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	groups := make(map[string][]TickRecord)
	for _, t := range ticks {
		quote, ok := t.Prices[pair]
		if !ok {
			continue
		}
		date := t.Time.UTC().Format("2006-01-02")
		groups[date] = append(groups[date], TickRecord{
			Pair:      pair,
			Timestamp: t.Time.UnixMilli(),
			Bid:       quote.Bid.InexactFloat64(),
			Ask:       quote.Ask.InexactFloat64(),
		})
	}

	for date, records := range groups {
		day, _ := time.Parse("2006-01-02", date)
		path := s.tickPath(pair, day)

		existing, _ := readParquetFile[TickRecord](path)
		merged := mergeTickRecords(existing, records)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing ticks for %s/%s: %w", pair, date, err)
		}
	}
	return nil
}

// ReadTicks reads ticks for the pair within [start, end], walking one day
// file at a time. Missing days are skipped.
func (s *ParquetStore) ReadTicks(_ context.Context, pair string, start, end time.Time) ([]domain.Tick, error) {
	var ticks []domain.Tick
	for d := start.UTC().Truncate(24 * time.Hour); !d.After(end); d = d.AddDate(0, 0, 1) {
		records, err := readParquetFile[TickRecord](s.tickPath(pair, d))
		if err != nil {
			continue
		}
		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp).UTC()
			if ts.Before(start) || ts.After(end) {
				continue
			}
			ticks = append(ticks, domain.Tick{
				Time: ts,
				Prices: map[string]domain.Price{
					pair: {
						Bid: decimal.NewFromFloat(r.Bid),
						Ask: decimal.NewFromFloat(r.Ask),
					},
				},
			})
		}
	}
	return ticks, nil
}

// ListPairs lists all pairs that have tick data.
func (s *ParquetStore) ListPairs(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.DataDir, "ticks"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var pairs []string
	for _, e := range entries {
		if e.IsDir() {
			pairs = append(pairs, e.Name())
		}
	}
	sort.Strings(pairs)
	return pairs, nil
}

// tickPath returns the filesystem path for one pair-day tick file.
func (s *ParquetStore) tickPath(pair string, t time.Time) string {
	date := t.UTC().Format("2006-01-02")
	return filepath.Join(s.DataDir, "ticks", strings.ToUpper(pair), date+".parquet")
}

// ---------------------------------------------------------------------------
// Parquet file helpers
// ---------------------------------------------------------------------------

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	return parquet.ReadFile[T](path)
}

// mergeTickRecords deduplicates records by timestamp, preferring incoming
// over existing. Results are sorted by timestamp.
func mergeTickRecords(existing, incoming []TickRecord) []TickRecord {
	seen := make(map[int64]TickRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r.Timestamp] = r
	}
	for _, r := range incoming {
		seen[r.Timestamp] = r
	}

	merged := make([]TickRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
