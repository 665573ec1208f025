package platform

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Platform
	}{
		{"uber", UberEats},
		{"Uber Eats", UberEats},
		{"UBEREATS", UberEats},
		{"doordash", DoorDash},
		{"DoorDash", DoorDash},
		{"grubhub", Grubhub},
		{" Grubhub ", Grubhub},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Parse(%q) = %s, want %s", c.in, got, c.want)
		}
	}
	if _, err := Parse("postmates"); err == nil {
		t.Fatalf("expected error for unsupported platform")
	}
}
