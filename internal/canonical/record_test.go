package canonical

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/platform"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/stores"
)

func TestCustomerProxy_StableAndBounded(t *testing.T) {
	amount := decimal.RequireFromString("25.99")
	a := CustomerProxy(stores.Broadway, platform.UberEats, amount)
	b := CustomerProxy(stores.Broadway, platform.UberEats, amount)
	if a != b {
		t.Fatalf("proxy not stable: %d vs %d", a, b)
	}
	if a < 0 || a >= 10000 {
		t.Fatalf("proxy %d outside [0,10000)", a)
	}

	c := CustomerProxy(stores.SixthAve, platform.UberEats, amount)
	d := CustomerProxy(stores.Broadway, platform.DoorDash, amount)
	e := CustomerProxy(stores.Broadway, platform.UberEats, decimal.RequireFromString("26.00"))
	if a == c && a == d && a == e {
		t.Fatalf("proxy ignores its inputs")
	}
}

func TestRecord_TimeBuckets(t *testing.T) {
	// 2025-10-06 is a Monday in ISO week 41.
	r := Record{
		OrderDate: time.Date(2025, time.October, 6, 0, 0, 0, 0, time.UTC),
		OrderTime: time.Date(2025, time.October, 6, 18, 45, 0, 0, time.UTC),
	}
	if r.Hour() != 18 {
		t.Fatalf("Hour = %d, want 18", r.Hour())
	}
	if r.Weekday() != time.Monday {
		t.Fatalf("Weekday = %s, want Monday", r.Weekday())
	}
	if r.ISOWeek() != 41 {
		t.Fatalf("ISOWeek = %d, want 41", r.ISOWeek())
	}
}
