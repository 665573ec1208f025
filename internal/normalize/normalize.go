// Package normalize turns the three delivery platforms' export files
// into the canonical order schema. Each platform has its own
// normalizer handling that platform's column names, languages, status
// vocabulary and date quirks; all of them produce the same output
// contract.
package normalize

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/canonical"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/platform"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/stores"
)

// CorruptPolicy selects how a structurally corrupted date column is
// handled. The two behaviors give materially different guarantees and
// are never merged: DropFile keeps only real data, Synthesize injects
// seeded placeholder timestamps and flags every affected record.
type CorruptPolicy int

const (
	CorruptPolicyDropFile CorruptPolicy = iota
	CorruptPolicySynthesize
)

// ParseCorruptPolicy maps a flag value onto a policy.
func ParseCorruptPolicy(s string) (CorruptPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop", "drop-file":
		return CorruptPolicyDropFile, nil
	case "synthesize", "synth":
		return CorruptPolicySynthesize, nil
	default:
		return CorruptPolicyDropFile, fmt.Errorf("unknown corrupt-date policy %q", s)
	}
}

func (p CorruptPolicy) String() string {
	if p == CorruptPolicySynthesize {
		return "synthesize"
	}
	return "drop-file"
}

// Config carries the normalization policy constants. Seeded fallbacks
// make repeated runs over the same inputs byte-identical.
type Config struct {
	WindowStart    time.Time // first in-scope calendar date, inclusive
	WindowEnd      time.Time // last in-scope calendar date, inclusive
	Seed           int64
	OutlierCeiling decimal.Decimal
	CorruptPolicy  CorruptPolicy
}

// DefaultConfig returns the analysis policy in effect for this
// dataset: October 2025, seed 42, 10000 outlier ceiling, no fabricated
// dates.
func DefaultConfig() Config {
	return Config{
		WindowStart:    time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:      time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC),
		Seed:           42,
		OutlierCeiling: decimal.NewFromInt(10000),
		CorruptPolicy:  CorruptPolicyDropFile,
	}
}

// Fingerprint identifies the policy for cache keying.
func (c Config) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%d|%s|%s",
		c.WindowStart.Format("2006-01-02"), c.WindowEnd.Format("2006-01-02"),
		c.Seed, c.OutlierCeiling.String(), c.CorruptPolicy)
}

// Drop reasons reported in Result.Dropped.
const (
	DropBadDate     = "bad_date"
	DropOutOfWindow = "out_of_window"
	DropOutlier     = "outlier"
)

// Result is one platform file's normalization outcome. A skipped file
// carries no records and names the reason; warnings surface non-fatal
// conditions such as synthesized timestamps.
type Result struct {
	Platform   platform.Platform  `json:"platform"`
	Records    []canonical.Record `json:"records"`
	Dropped    map[string]int     `json:"dropped,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
	Skipped    bool               `json:"skipped,omitempty"`
	SkipReason string             `json:"skipReason,omitempty"`
}

func skipResult(p platform.Platform, reason string) Result {
	return Result{Platform: p, Skipped: true, SkipReason: reason}
}

func (r *Result) drop(reason string) {
	if r.Dropped == nil {
		r.Dropped = make(map[string]int)
	}
	r.Dropped[reason]++
}

// Normalizer produces canonical records from one platform's raw table.
type Normalizer interface {
	Platform() platform.Platform
	Normalize(t RawTable, cfg Config) Result
}

// ForPlatform returns the normalizer handling p's export format.
func ForPlatform(p platform.Platform) (Normalizer, error) {
	switch p {
	case platform.UberEats:
		return UberNormalizer{}, nil
	case platform.DoorDash:
		return DoorDashNormalizer{}, nil
	case platform.Grubhub:
		return GrubhubNormalizer{}, nil
	default:
		return nil, fmt.Errorf("no normalizer for platform %q", p)
	}
}

// Run normalizes one file's bytes, catching any panic at the file
// boundary so a malformed file cannot abort the other platforms.
func Run(n Normalizer, raw []byte, cfg Config) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = skipResult(n.Platform(), fmt.Sprintf("normalization panic: %v", p))
			err = fmt.Errorf("%s normalization failed: %v", n.Platform(), p)
		}
	}()
	t, err := LoadTable(bytes.NewReader(raw))
	if err != nil {
		return skipResult(n.Platform(), err.Error()), fmt.Errorf("%s: %w", n.Platform(), err)
	}
	if t.Empty() {
		return skipResult(n.Platform(), "empty file"), nil
	}
	return n.Normalize(t, cfg), nil
}

// dateLayouts are the explicit format candidates, in priority order.
// Lenient separator and padding variants come last.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	time.RFC3339,
	"2006-1-2",
	"01-02-2006",
}

// parseDate tries the explicit layout candidates in order.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// dateOnly truncates a timestamp to its calendar date.
func dateOnly(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

// inWindow reports whether the date falls inside the analysis month.
func (c Config) inWindow(date time.Time) bool {
	return !date.Before(c.WindowStart) && !date.After(c.WindowEnd)
}

// Synthesized times are confined to plausible business hours.
const (
	synthHourMin = 8
	synthHourMax = 22 // exclusive
)

// synthTime attaches a seeded pseudo-random business-hours time of day
// to a date that arrived without a time component.
func synthTime(date time.Time, rng *rand.Rand) time.Time {
	hour := synthHourMin + rng.Intn(synthHourMax-synthHourMin)
	minute := rng.Intn(60)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
}

// matchStatus reports whether the raw status equals any vocabulary
// entry, case-insensitively after trimming.
func matchStatus(raw string, vocab []string) bool {
	s := strings.TrimSpace(raw)
	for _, v := range vocab {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// appendRecord applies the shared post-normalization policy (outlier
// guard, window filter, store resolution, customer proxy) and appends
// the record when it survives.
func appendRecord(res *Result, cfg Config, date, ts time.Time, synthetic bool,
	p platform.Platform, rawStore string, revenue decimal.Decimal, completed, cancelled bool) {

	if !cfg.inWindow(date) {
		res.drop(DropOutOfWindow)
		return
	}
	if revenue.Abs().GreaterThanOrEqual(cfg.OutlierCeiling) {
		res.drop(DropOutlier)
		return
	}
	store := stores.Resolve(rawStore)
	res.Records = append(res.Records, canonical.Record{
		OrderDate:     date,
		OrderTime:     ts,
		SyntheticTime: synthetic,
		Platform:      p,
		StoreID:       store,
		Revenue:       revenue,
		IsCompleted:   completed,
		IsCancelled:   cancelled,
		CustomerKey:   canonical.CustomerProxy(store, p, revenue),
	})
}
