package normalize

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/platform"
)

func TestCache_RoundTrip(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer c.Close()

	cfg := DefaultConfig()
	raw := []byte("transaction_date,store_name,subtotal\n2025-10-08,lucky kitchen broadway,22.50\n")
	res := runCSV(t, platform.Grubhub, string(raw), cfg)

	key := CacheKey(platform.Grubhub, cfg, raw)
	if _, ok := c.Get(key); ok {
		t.Fatalf("unexpected hit before Put")
	}
	if err := c.Put(key, res); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := c.Get(key)
	if !ok {
		t.Fatalf("want hit after Put")
	}
	if got.Platform != res.Platform || len(got.Records) != len(res.Records) {
		t.Fatalf("cached result mismatch: %+v vs %+v", got, res)
	}
	if !got.Records[0].Revenue.Equal(res.Records[0].Revenue) {
		t.Fatalf("revenue mismatch: %s vs %s", got.Records[0].Revenue, res.Records[0].Revenue)
	}
}

func TestCacheKey_SensitiveToInputAndPolicy(t *testing.T) {
	cfg := DefaultConfig()
	raw := []byte("transaction_date,store_name,subtotal\n2025-10-08,x,1.00\n")

	base := CacheKey(platform.Grubhub, cfg, raw)

	if k := CacheKey(platform.DoorDash, cfg, raw); bytes.Equal(k, base) {
		t.Fatalf("platform must affect the key")
	}
	if k := CacheKey(platform.Grubhub, cfg, append(raw, '\n')); bytes.Equal(k, base) {
		t.Fatalf("content must affect the key")
	}
	cfg2 := cfg
	cfg2.Seed = 7
	if k := CacheKey(platform.Grubhub, cfg2, raw); bytes.Equal(k, base) {
		t.Fatalf("policy must affect the key")
	}
	if k := CacheKey(platform.Grubhub, cfg, raw); !bytes.Equal(k, base) {
		t.Fatalf("identical inputs must produce identical keys")
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("CacheKey must not mutate the config")
	}
}
