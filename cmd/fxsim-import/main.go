// Command fxsim-import loads tick history from a CSV file into the parquet
// tick store. The CSV is expected to have a header row followed by
// time,bid,ask rows, with time in RFC 3339 or "2006-01-02 15:04:05.000"
// format.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"fxsim/internal/config"
	"fxsim/internal/domain"
	"fxsim/internal/store"
	"fxsim/internal/util"
)

const importBatchSize = 50000

func main() {
	pair := flag.String("pair", "", "instrument pair the CSV belongs to, e.g. EUR_USD")
	csvPath := flag.String("csv", "", "path to the tick CSV file")
	flag.Parse()

	if *pair == "" || *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfgPath := "config/fxsim.yaml"
	if p := os.Getenv("FXSIM_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("failed to open csv: %v", err)
	}
	defer f.Close()

	pstore := store.NewParquetStore(cfg.Storage.DataDir)
	ctx := context.Background()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 3

	// Skip the header row.
	if _, err := reader.Read(); err != nil {
		log.Fatalf("failed to read csv header: %v", err)
	}

	var (
		batch []domain.Tick
		total int
		line  = 1
	)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := pstore.WriteTicks(ctx, *pair, batch); err != nil {
			log.Fatalf("failed to write ticks: %v", err)
		}
		total += len(batch)
		logger.Info("wrote batch", "pair", *pair, "ticks", len(batch), "total", total)
		batch = batch[:0]
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("failed to read csv: %v", err)
		}
		line++

		ts, err := parseTime(record[0])
		if err != nil {
			log.Fatalf("line %d: invalid time %q: %v", line, record[0], err)
		}
		bid, err := decimal.NewFromString(record[1])
		if err != nil {
			log.Fatalf("line %d: invalid bid %q: %v", line, record[1], err)
		}
		ask, err := decimal.NewFromString(record[2])
		if err != nil {
			log.Fatalf("line %d: invalid ask %q: %v", line, record[2], err)
		}

		batch = append(batch, domain.Tick{
			Time: ts,
			Prices: map[string]domain.Price{
				*pair: {Bid: bid, Ask: ask},
			},
		})
		if len(batch) >= importBatchSize {
			flush()
		}
	}
	flush()

	fmt.Printf("imported %d ticks for %s\n", total, *pair)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

func parseTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
