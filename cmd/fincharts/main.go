package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FinCharts/internal/chart"
	"FinCharts/internal/collector"
	"FinCharts/internal/config"
	"FinCharts/internal/generator"
	"FinCharts/internal/logger"
	"FinCharts/internal/model"
	"FinCharts/internal/notifier"
	"FinCharts/internal/scheduler"
	"FinCharts/internal/viewer"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code so deferred cleanup always happens.
func run(args []string, stdout, stderr io.Writer) int {
	// .env is optional
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	fs := flag.NewFlagSet("fincharts", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfgPath, "config", cfgPath, "path to the YAML config file")
	months := fs.String("months", "3", "number of past months to chart")
	symbols := fs.String("symbols", "", "comma-separated stock symbols; empty runs scheduled jobs")
	field := fs.String("field", string(model.DefaultField), "price field: Open, High, Low, Close, Adj Close")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config validation: %v\n", err)
		return 1
	}

	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher, closeFetcher, err := buildFetcher(cfg)
	if err != nil {
		log.Error("init data source", zap.Error(err))
		return 1
	}
	defer closeFetcher()
	log.Info("data source ready", zap.String("provider", fetcher.Name()))

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		log.Error("create output dir", zap.String("dir", cfg.Output.Dir), zap.Error(err))
		return 1
	}

	var view generator.Viewer = viewer.NewLauncher(log)
	if cfg.Output.DisableViewer {
		view = viewer.Disabled{}
	}
	gen := generator.New(collector.NewCollector(fetcher, log), chart.NewRenderer(), view, cfg.Output.Dir, log)

	if *symbols != "" {
		res, err := gen.Submit(ctx, model.FormInput{Months: *months, Symbols: *symbols, Field: *field}, time.Now())
		fmt.Fprintln(stdout, generator.StatusMessage(res, err))
		if err != nil {
			return 1
		}
		fmt.Fprintf(stdout, "\n%s\n", res.Report)
		return 0
	}

	if len(cfg.Schedule.Jobs) == 0 && !cfg.TelegramEnabled() {
		fmt.Fprintln(stderr, "nothing to do: pass -symbols, or configure schedule.jobs or telegram")
		fs.Usage()
		return 2
	}
	if err := runDaemon(ctx, cfg, gen, log); err != nil {
		log.Error("daemon", zap.Error(err))
		return 1
	}
	return 0
}

func runDaemon(ctx context.Context, cfg *config.Config, gen *generator.Generator, log *zap.Logger) error {
	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		sender = tn
	}

	sched := scheduler.NewScheduler(ctx, gen, sender, log)
	if err := sched.RegisterJobs(cfg.Schedule.Jobs); err != nil {
		return fmt.Errorf("register cron jobs: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing jobs now")
		go sched.RunAllNow()
	}

	log.Info("FinCharts is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info("shutdown signal received, stopping")
	return nil
}

// buildFetcher selects the market-data backend. The returned func releases its resources.
func buildFetcher(cfg *config.Config) (collector.Fetcher, func(), error) {
	noop := func() {}
	ds := cfg.DataSource
	switch ds.Provider {
	case "rest":
		return collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy), noop, nil
	case "alpaca":
		return collector.NewAlpacaFetcher(ds.APIKey, ds.APISecret, ds.BaseURL), noop, nil
	case "csv":
		return collector.NewCSVFetcher(ds.Dir), noop, nil
	case "parquet":
		return collector.NewParquetFetcher(ds.Dir), noop, nil
	case "sqlite":
		f, err := collector.NewSQLiteFetcher(cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	default:
		f := collector.NewYahooFetcher(cfg.Proxy)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f, noop, nil
	}
}
