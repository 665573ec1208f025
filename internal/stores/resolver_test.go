package stores

import "testing"

func TestResolve_CodedIdentifiers(t *testing.T) {
	cases := []struct {
		raw  string
		want StoreID
	}{
		{"Lucky Kitchen LK001 (2452 Broadway)", Broadway},
		{"lk003", MaidenLane},
		{"Lucky Kitchen #002", SixthAve},
		{"Lucky Kitchen #006", Amsterdam},
	}
	for _, c := range cases {
		if got := Resolve(c.raw); got != c.want {
			t.Fatalf("Resolve(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestResolve_Landmarks(t *testing.T) {
	cases := []struct {
		raw  string
		want StoreID
	}{
		{"lucky kitchen broadway", Broadway},
		{"Lucky Kitchen (6th Ave)", SixthAve},
		{"Avenue of the Americas branch", SixthAve},
		{"lucky kitchen maiden lane", MaidenLane},
		{"LUCKY KITCHEN FULTON", FultonSt},
		{"Union Square", UnionSquare},
		{"amsterdam ave", Amsterdam},
	}
	for _, c := range cases {
		if got := Resolve(c.raw); got != c.want {
			t.Fatalf("Resolve(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestResolve_CanonicalIsIdempotent(t *testing.T) {
	for _, id := range All() {
		if got := Resolve(string(id)); got != id {
			t.Fatalf("Resolve(%s) = %s, want itself", id, got)
		}
	}
}

func TestResolve_UnrecognizedIsUnknown(t *testing.T) {
	for _, raw := range []string{"", "   ", "some other restaurant", "LK999"} {
		if got := Resolve(raw); got != Unknown {
			t.Fatalf("Resolve(%q) = %s, want unknown", raw, got)
		}
	}
}
