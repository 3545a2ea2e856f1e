package nuc

import "testing"

func TestZA(t *testing.T) {
	if U235.Z() != 92 || U235.A() != 235 {
		t.Errorf("U235: got Z=%d A=%d", U235.Z(), U235.A())
	}
	if Nuc(6000).A() != 0 || !Nuc(6000).Natural() {
		t.Error("6000 should be natural carbon")
	}
}

func TestValid(t *testing.T) {
	for _, n := range []Nuc{1001, 8016, 26000, 92235, 94239} {
		if !n.Valid() {
			t.Errorf("%d should be valid", n)
		}
	}
	for _, n := range []Nuc{0, 999, 92001, 200235} {
		if n.Valid() {
			t.Errorf("%d should be invalid", n)
		}
	}
}

func TestParse(t *testing.T) {
	n, err := Parse("92235.70c")
	if err != nil || n != U235 {
		t.Errorf("Parse(92235.70c) = %v, %v", n, err)
	}
	if _, err := Parse("U235"); err == nil {
		t.Error("expected error for symbolic name")
	}
	if _, err := Parse("1"); err == nil {
		t.Error("expected error for invalid ZAID")
	}
}

func TestBurnOmit(t *testing.T) {
	if len(BurnOmit) != 98 {
		t.Errorf("BurnOmit has %d entries, want 98", len(BurnOmit))
	}
	for _, n := range BurnOmit {
		if !n.Valid() {
			t.Errorf("omit entry %d is not a valid ZAID", n)
		}
	}
	if got := Ints([]Nuc{O18, U238}); got[0] != 8018 || got[1] != 92238 {
		t.Errorf("Ints = %v", got)
	}
}
