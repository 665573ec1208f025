package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// Config holds CLI flags for the sample-data generator.
type Config struct {
	OutDir         string
	Count          int
	Seed           int64
	CorruptGrubhub bool
}

func main() {
	cfg := readFlags()
	if err := run(cfg); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
}

func readFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.OutDir, "out", "./sample-data", "output directory")
	flag.IntVar(&cfg.Count, "count", 100, "rows per platform file")
	flag.Int64Var(&cfg.Seed, "seed", 42, "random seed")
	flag.BoolVar(&cfg.CorruptGrubhub, "corrupt-grubhub", false, "emit the ##### date-overflow corruption in the Grubhub file")
	flag.Parse()
	return cfg
}

var (
	windowStart = time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	windowDays  = 31

	uberStores = []string{
		"Lucky Kitchen LK001 (2452 Broadway)",
		"Lucky Kitchen LK002 (6th Ave)",
		"Lucky Kitchen LK003 (Maiden Ln)",
		"Lucky Kitchen LK004 (Fulton St)",
		"Lucky Kitchen LK005 (Union Sq)",
		"Lucky Kitchen LK006 (Amsterdam)",
	}
	doordashStores = []string{
		"Lucky Kitchen #001", "Lucky Kitchen #002", "Lucky Kitchen #003",
		"Lucky Kitchen #004", "Lucky Kitchen #005", "Lucky Kitchen #006",
	}
	grubhubStores = []string{
		"lucky kitchen broadway", "lucky kitchen sixth ave", "lucky kitchen maiden lane",
		"lucky kitchen fulton", "lucky kitchen union square", "lucky kitchen amsterdam",
	}
)

func run(cfg Config) error {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("mkdir out: %w", err)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	files := []struct {
		name string
		gen  func(w *csv.Writer, cfg Config, rng *rand.Rand) error
	}{
		{"ubereats.csv", writeUber},
		{"doordash.csv", writeDoorDash},
		{"grubhub.csv", writeGrubhub},
	}
	for _, fl := range files {
		path := filepath.Join(cfg.OutDir, fl.name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", fl.name, err)
		}
		w := csv.NewWriter(f)
		if err := fl.gen(w, cfg, rng); err != nil {
			f.Close()
			return fmt.Errorf("generate %s: %w", fl.name, err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return fmt.Errorf("flush %s: %w", fl.name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", fl.name, err)
		}
		log.Printf("generated %s (%d rows)", path, cfg.Count)
	}
	return nil
}

func randDay(rng *rand.Rand) time.Time {
	return windowStart.AddDate(0, 0, rng.Intn(windowDays))
}

func randClock(rng *rand.Rand) (int, int) {
	return 8 + rng.Intn(14), rng.Intn(60)
}

func randAmount(rng *rand.Rand) string {
	return fmt.Sprintf("%.2f", 8+rng.Float64()*92)
}

// writeUber emits the Chinese-header Uber Eats export shape: a report
// banner row above the real header, date and time in separate columns.
func writeUber(w *csv.Writer, cfg Config, rng *rand.Rand) error {
	if err := w.Write([]string{"Lucky Kitchen 销售报告 2025-10", "", "", "", ""}); err != nil {
		return err
	}
	if err := w.Write([]string{"订单日期", "订单接受时间", "订单状态", "餐厅名称", "销售额（含税）"}); err != nil {
		return err
	}
	for i := 0; i < cfg.Count; i++ {
		day := randDay(rng)
		h, m := randClock(rng)
		status := "已完成"
		if rng.Intn(10) == 0 {
			status = "已取消"
		}
		row := []string{
			day.Format("2006-01-02"),
			fmt.Sprintf("%02d:%02d", h, m),
			status,
			uberStores[rng.Intn(len(uberStores))],
			"$" + randAmount(rng),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeDoorDash emits the single-timestamp DoorDash export shape.
func writeDoorDash(w *csv.Writer, cfg Config, rng *rand.Rand) error {
	if err := w.Write([]string{"接单当地时间", "最终订单状态", "店铺名称", "小计"}); err != nil {
		return err
	}
	for i := 0; i < cfg.Count; i++ {
		day := randDay(rng)
		h, m := randClock(rng)
		status := "Delivered"
		switch rng.Intn(12) {
		case 0:
			status = "Cancelled"
		case 1:
			status = "Merchant Cancelled"
		}
		row := []string{
			fmt.Sprintf("%d/%d/%d %02d:%02d", day.Month(), day.Day(), day.Year(), h, m),
			status,
			doordashStores[rng.Intn(len(doordashStores))],
			randAmount(rng),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeGrubhub emits the statusless Grubhub export shape, optionally
// with the '#' date-overflow corruption on every row.
func writeGrubhub(w *csv.Writer, cfg Config, rng *rand.Rand) error {
	if err := w.Write([]string{"transaction_date", "store_name", "subtotal"}); err != nil {
		return err
	}
	for i := 0; i < cfg.Count; i++ {
		date := randDay(rng).Format("2006-01-02")
		if cfg.CorruptGrubhub {
			date = "########"
		}
		row := []string{
			date,
			grubhubStores[rng.Intn(len(grubhubStores))],
			randAmount(rng),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
