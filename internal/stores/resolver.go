// Package stores resolves the free-text and coded store references
// found in platform exports onto the fixed set of six US storefronts.
package stores

import "strings"

// StoreID is a canonical storefront identifier.
type StoreID string

// The six physical storefronts plus the explicit unknown sentinel.
// Resolution never produces an identifier outside this set.
const (
	Broadway    StoreID = "LK001-BROADWAY"
	SixthAve    StoreID = "LK002-6TH-AVE"
	MaidenLane  StoreID = "LK003-MAIDEN-LN"
	FultonSt    StoreID = "LK004-FULTON-ST"
	UnionSquare StoreID = "LK005-UNION-SQ"
	Amsterdam   StoreID = "LK006-AMSTERDAM"
	Unknown     StoreID = "unknown"
)

// All lists the canonical storefronts in stable report order.
func All() []StoreID {
	return []StoreID{Broadway, SixthAve, MaidenLane, FultonSt, UnionSquare, Amsterdam}
}

// codes maps coded-identifier fragments (the store numbers platforms
// embed in their own naming) to storefronts. Fragments are lowercase
// and probed in order so resolution stays deterministic.
var codes = []struct {
	fragment string
	id       StoreID
}{
	{"lk001", Broadway},
	{"lk002", SixthAve},
	{"lk003", MaidenLane},
	{"lk004", FultonSt},
	{"lk005", UnionSquare},
	{"lk006", Amsterdam},
	{"#001", Broadway},
	{"#002", SixthAve},
	{"#003", MaidenLane},
	{"#004", FultonSt},
	{"#005", UnionSquare},
	{"#006", Amsterdam},
}

// landmarks maps human-readable name fragments to storefronts, for
// platforms that export street addresses or branch nicknames instead
// of codes. Order matters: more specific fragments come first.
var landmarks = []struct {
	fragment string
	id       StoreID
}{
	{"2452 broadway", Broadway},
	{"broadway", Broadway},
	{"6th ave", SixthAve},
	{"sixth ave", SixthAve},
	{"avenue of the americas", SixthAve},
	{"maiden", MaidenLane},
	{"fulton", FultonSt},
	{"union sq", UnionSquare},
	{"union square", UnionSquare},
	{"amsterdam", Amsterdam},
}

// Resolve maps a raw store reference to a canonical StoreID.
// Canonical IDs resolve to themselves, coded identifiers are tried
// first, then landmark fragments; anything unrecognized degrades to
// Unknown rather than guessing a wrong store.
func Resolve(raw string) StoreID {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Unknown
	}
	for _, id := range All() {
		if s == strings.ToLower(string(id)) {
			return id
		}
	}
	for _, c := range codes {
		if strings.Contains(s, c.fragment) {
			return c.id
		}
	}
	for _, lm := range landmarks {
		if strings.Contains(s, lm.fragment) {
			return lm.id
		}
	}
	return Unknown
}
