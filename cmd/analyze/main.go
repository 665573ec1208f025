package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/aggregate"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/canonical"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/export"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/metrics"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/normalize"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/platform"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/publish"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/pkg/logger"
)

// Config holds CLI flags for the analyze pipeline.
type Config struct {
	UberPath     string
	DoorDashPath string
	GrubhubPath  string
	OutDir       string

	CorruptPolicy  string
	Seed           int64
	WindowStart    string
	WindowEnd      string
	OutlierCeiling string

	Formats  string
	CacheDir string

	// Optional canonical-record sinks
	PublishSink    string // ""|file|kafka|both
	KafkaBootstrap string
	Topic          string

	MetricsAddr string
}

func main() {
	cfg := readFlags()
	log, err := logger.NewZapLoggerFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	if err := run(cfg, log); err != nil {
		log.Fatal("analyze failed", logger.Error(err))
	}
}

func readFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.UberPath, "uber", "", "Uber Eats export CSV")
	flag.StringVar(&cfg.DoorDashPath, "doordash", "", "DoorDash export CSV")
	flag.StringVar(&cfg.GrubhubPath, "grubhub", "", "Grubhub export CSV")
	flag.StringVar(&cfg.OutDir, "out", "./reports", "output directory for reports")
	flag.StringVar(&cfg.CorruptPolicy, "corrupt-policy", "drop-file", "corrupted date handling: drop-file|synthesize")
	flag.Int64Var(&cfg.Seed, "seed", 42, "seed for synthesized timestamps")
	flag.StringVar(&cfg.WindowStart, "window-start", "", "analysis window start (YYYY-MM-DD, default 2025-10-01)")
	flag.StringVar(&cfg.WindowEnd, "window-end", "", "analysis window end (YYYY-MM-DD, default 2025-10-31)")
	flag.StringVar(&cfg.OutlierCeiling, "outlier-ceiling", "", "drop rows with abs(revenue) at or above this (default 10000)")
	flag.StringVar(&cfg.Formats, "formats", "csv,html,xlsx", "report formats to write")
	flag.StringVar(&cfg.CacheDir, "cache-dir", "", "normalization memo cache directory (disabled when empty)")
	flag.StringVar(&cfg.PublishSink, "publish", "", "canonical record sink: file|kafka|both")
	flag.StringVar(&cfg.KafkaBootstrap, "kafka-bootstrap", "", "kafka bootstrap servers, e.g. localhost:9092")
	flag.StringVar(&cfg.Topic, "topic", "orders.canonical", "kafka topic for canonical records")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "address for /metrics and /healthz (disabled when empty)")
	flag.Parse()
	return cfg
}

// input pairs one platform with the path holding its export file.
type input struct {
	platform platform.Platform
	path     string
}

func run(cfg Config, log logger.Logger) error {
	ncfg, err := normalizeConfig(cfg)
	if err != nil {
		return err
	}
	log.Info("starting analyze",
		logger.String("window_start", ncfg.WindowStart.Format("2006-01-02")),
		logger.String("window_end", ncfg.WindowEnd.Format("2006-01-02")),
		logger.Int64("seed", ncfg.Seed),
		logger.String("corrupt_policy", ncfg.CorruptPolicy.String()))

	mreg := metrics.NewRegistry()
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, mreg, log)
	}

	var cache *normalize.Cache
	if cfg.CacheDir != "" {
		cache, err = normalize.OpenCache(cfg.CacheDir)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer cache.Close()
	}

	inputs := []input{
		{platform.UberEats, cfg.UberPath},
		{platform.DoorDash, cfg.DoorDashPath},
		{platform.Grubhub, cfg.GrubhubPath},
	}

	var records []canonical.Record
	var digests []export.InputDigest
	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		res, digest, err := normalizeOne(in, ncfg, cache, mreg, log)
		if err != nil {
			// One bad file must not abort the other platforms.
			log.Error("platform skipped", logger.String("platform", string(in.platform)), logger.Error(err))
		}
		digests = append(digests, digest)
		records = append(records, res.Records...)
	}

	summary := aggregate.Compute(records)
	if summary.NoData {
		log.Warn("no canonical records survived normalization")
	}

	outputs, err := writeReports(cfg.OutDir, cfg.Formats, summary, records)
	if err != nil {
		return err
	}
	manifest := export.RunManifest{
		GeneratedAt: export.Now().Format(time.RFC3339),
		Policy:      ncfg.CorruptPolicy.String(),
		Seed:        ncfg.Seed,
		Inputs:      digests,
		Outputs:     outputs,
	}
	if err := export.WriteManifest(cfg.OutDir, manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	if cfg.PublishSink != "" {
		if err := publishRecords(cfg, records); err != nil {
			return fmt.Errorf("publish records: %w", err)
		}
		log.Info("records published", logger.String("sink", cfg.PublishSink), logger.Int("count", len(records)))
	}

	log.Info("analyze completed",
		logger.Int("records", len(records)),
		logger.Int("orders", summary.Totals.Orders),
		logger.String("revenue", summary.Totals.Revenue.StringFixed(2)),
		logger.String("out", cfg.OutDir))
	return nil
}

func normalizeConfig(cfg Config) (normalize.Config, error) {
	ncfg := normalize.DefaultConfig()
	ncfg.Seed = cfg.Seed
	policy, err := normalize.ParseCorruptPolicy(cfg.CorruptPolicy)
	if err != nil {
		return ncfg, err
	}
	ncfg.CorruptPolicy = policy
	if cfg.WindowStart != "" {
		ts, err := time.ParseInLocation("2006-01-02", cfg.WindowStart, time.UTC)
		if err != nil {
			return ncfg, fmt.Errorf("parse window-start: %w", err)
		}
		ncfg.WindowStart = ts
	}
	if cfg.WindowEnd != "" {
		ts, err := time.ParseInLocation("2006-01-02", cfg.WindowEnd, time.UTC)
		if err != nil {
			return ncfg, fmt.Errorf("parse window-end: %w", err)
		}
		ncfg.WindowEnd = ts
	}
	if ncfg.WindowEnd.Before(ncfg.WindowStart) {
		return ncfg, fmt.Errorf("window-end %s before window-start %s", cfg.WindowEnd, cfg.WindowStart)
	}
	if cfg.OutlierCeiling != "" {
		ceiling, err := decimal.NewFromString(cfg.OutlierCeiling)
		if err != nil {
			return ncfg, fmt.Errorf("parse outlier-ceiling: %w", err)
		}
		if !ceiling.IsPositive() {
			return ncfg, fmt.Errorf("outlier-ceiling must be positive, got %s", ceiling)
		}
		ncfg.OutlierCeiling = ceiling
	}
	return ncfg, nil
}

// normalizeOne runs one platform file through the normalizer, consulting
// the memo cache when one is open. The returned digest always describes
// the file, even when normalization skipped it.
func normalizeOne(in input, ncfg normalize.Config, cache *normalize.Cache,
	mreg *metrics.Registry, log logger.Logger) (normalize.Result, export.InputDigest, error) {

	digest := export.InputDigest{Platform: string(in.platform)}
	raw, err := os.ReadFile(in.path)
	if err != nil {
		digest.Skipped = true
		digest.SkipReason = err.Error()
		mreg.FilesSkipped.WithLabelValues(string(in.platform)).Inc()
		return normalize.Result{}, digest, fmt.Errorf("read %s: %w", in.path, err)
	}
	digest.SHA256 = export.Digest(raw)

	key := normalize.CacheKey(in.platform, ncfg, raw)
	if cache != nil {
		if res, ok := cache.Get(key); ok {
			log.Info("cache hit", logger.String("platform", string(in.platform)))
			accountResult(mreg, in.platform, res)
			fillDigest(&digest, res)
			return res, digest, nil
		}
	}

	n, err := normalize.ForPlatform(in.platform)
	if err != nil {
		digest.Skipped = true
		digest.SkipReason = err.Error()
		return normalize.Result{}, digest, err
	}
	start := time.Now()
	res, err := normalize.Run(n, raw, ncfg)
	mreg.NormalizeSec.Observe(time.Since(start).Seconds())
	if err != nil {
		digest.Skipped = true
		digest.SkipReason = res.SkipReason
		accountResult(mreg, in.platform, res)
		return res, digest, err
	}

	accountResult(mreg, in.platform, res)
	if res.Skipped {
		log.Warn("file skipped",
			logger.String("platform", string(in.platform)),
			logger.String("reason", res.SkipReason))
	}
	for _, w := range res.Warnings {
		log.Warn("normalization warning", logger.String("platform", string(in.platform)), logger.String("warning", w))
	}
	if cache != nil {
		if err := cache.Put(key, res); err != nil {
			log.Warn("cache put failed", logger.Error(err))
		}
	}
	fillDigest(&digest, res)
	return res, digest, nil
}

// accountResult records one file's row and skip counts. Cached and
// fresh results go through the same accounting so identical inputs
// report identical counts.
func accountResult(mreg *metrics.Registry, p platform.Platform, res normalize.Result) {
	mreg.RowsNormalized.WithLabelValues(string(p)).Add(float64(len(res.Records)))
	for reason, count := range res.Dropped {
		mreg.RowsDropped.WithLabelValues(string(p), reason).Add(float64(count))
	}
	if res.Skipped {
		mreg.FilesSkipped.WithLabelValues(string(p)).Inc()
	}
}

func fillDigest(d *export.InputDigest, res normalize.Result) {
	d.Rows = len(res.Records)
	d.Skipped = res.Skipped
	d.SkipReason = res.SkipReason
}

func writeReports(dir, formats string, s aggregate.Summary, recs []canonical.Record) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir out: %w", err)
	}
	reports := map[string]struct {
		name  string
		write func(f *os.File) error
	}{
		"csv":  {"canonical.csv", func(f *os.File) error { return export.WriteCSV(f, recs) }},
		"html": {"report.html", func(f *os.File) error { return export.WriteHTML(f, s) }},
		"xlsx": {"report.xlsx", func(f *os.File) error { return export.WriteXLSX(f, s, recs) }},
	}
	var outputs []string
	for _, format := range strings.Split(formats, ",") {
		r, ok := reports[strings.TrimSpace(strings.ToLower(format))]
		if !ok {
			return nil, fmt.Errorf("unknown report format %q", format)
		}
		f, err := os.Create(filepath.Join(dir, r.name))
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", r.name, err)
		}
		if err := r.write(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("write %s: %w", r.name, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("close %s: %w", r.name, err)
		}
		outputs = append(outputs, r.name)
	}
	return outputs, nil
}

func publishRecords(cfg Config, recs []canonical.Record) error {
	var sinks []publish.Writer
	if cfg.PublishSink == "file" || cfg.PublishSink == "both" {
		fw, err := publish.NewFileWriter(cfg.OutDir, "canonical.jsonl")
		if err != nil {
			return fmt.Errorf("init file sink: %w", err)
		}
		sinks = append(sinks, fw)
	}
	if (cfg.PublishSink == "kafka" || cfg.PublishSink == "both") && cfg.KafkaBootstrap != "" {
		sinks = append(sinks, publish.NewKafkaWriter(cfg.KafkaBootstrap, cfg.Topic))
	}
	if len(sinks) == 0 {
		return fmt.Errorf("no usable sink for -publish=%s", cfg.PublishSink)
	}
	w := publish.NewMultiWriter(sinks...)
	for _, rec := range recs {
		if err := w.Append(rec); err != nil {
			return err
		}
	}
	return nil
}

func serveMetrics(addr string, mreg *metrics.Registry, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", mreg.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	})
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics server stopped", logger.Error(err))
	}
}
