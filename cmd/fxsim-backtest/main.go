package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxsim/internal/config"
	"fxsim/internal/store"
	"fxsim/internal/strategy"
	"fxsim/internal/strategy/builtins"
	"fxsim/internal/util"
)

func main() {
	stratName := flag.String("strategy", "", "strategy name (overrides config)")
	pair := flag.String("pair", "", "instrument pair, e.g. EUR_USD (overrides config)")
	startStr := flag.String("start", "", "range start, YYYY-MM-DD (overrides config)")
	endStr := flag.String("end", "", "range end, YYYY-MM-DD (overrides config)")
	noJournal := flag.Bool("no-journal", false, "skip writing orders and trade events to sqlite")
	flag.Parse()

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

	if *stratName == "" {
		*stratName = cfg.Backtest.Strategy
	}
	if *pair == "" {
		*pair = cfg.Backtest.Pair
	}
	if *startStr == "" {
		*startStr = cfg.Backtest.Start
	}
	if *endStr == "" {
		*endStr = cfg.Backtest.End
	}

	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		log.Fatalf("invalid start date %q: %v", *startStr, err)
	}
	end, err := time.Parse("2006-01-02", *endStr)
	if err != nil {
		log.Fatalf("invalid end date %q: %v", *endStr, err)
	}
	// Make the end date inclusive.
	end = end.Add(24*time.Hour - time.Nanosecond)

	registry := strategy.NewRegistry()
	registry.Register(builtins.NewSMACross(
		*pair,
		cfg.Backtest.Units,
		cfg.Backtest.ShortPeriod,
		cfg.Backtest.LongPeriod,
	))

	tickStore := store.NewParquetStore(cfg.Storage.DataDir)

	var journal store.JournalStore
	if !*noJournal {
		sqliteStore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open sqlite journal: %v", err)
		}
		defer sqliteStore.Close()
		journal = sqliteStore
	}

	bt := strategy.NewBacktester(tickStore, journal, registry)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting backtest",
		"strategy", *stratName, "pair", *pair,
		"start", *startStr, "end", *endStr)

	result, err := bt.Run(ctx, *stratName, *pair, start, end)
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	fmt.Printf("run:          %s\n", result.RunID)
	fmt.Printf("ticks:        %d\n", result.Ticks)
	fmt.Printf("trades:       %d\n", result.TotalTrades)
	fmt.Printf("total profit: %s\n", result.TotalProfit.String())
	fmt.Printf("win rate:     %.2f%%\n", result.WinRate*100)
	fmt.Printf("max drawdown: %s\n", result.MaxDrawdown.String())
}
