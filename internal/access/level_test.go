package access

import "testing"

func TestMerge(t *testing.T) {
	if got := Merge(Read, Full); got != Full {
		t.Errorf("Merge(Read, Full) = %v, want Full", got)
	}
	if got := Merge(Modify, Read); got != Modify {
		t.Errorf("Merge(Modify, Read) = %v, want Modify", got)
	}

	levels := []Level{Read, Modify, Full}
	for _, a := range levels {
		for _, b := range levels {
			if Merge(a, b) != Merge(b, a) {
				t.Errorf("Merge not commutative for %v, %v", a, b)
			}
			for _, c := range levels {
				if Merge(Merge(a, b), c) != Merge(a, Merge(b, c)) {
					t.Errorf("Merge not associative for %v, %v, %v", a, b, c)
				}
			}
		}
	}
}

func TestCovers(t *testing.T) {
	if !Full.Covers(Read) {
		t.Error("Full should cover Read")
	}
	if Read.Covers(Modify) {
		t.Error("Read should not cover Modify")
	}
	if !Modify.Covers(Modify) {
		t.Error("a level should cover itself")
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, l := range []Level{Read, Modify, Full} {
		got, err := Parse(l.String())
		if err != nil || got != l {
			t.Errorf("Parse(%q) = %v, %v", l.String(), got, err)
		}
	}
	if _, err := Parse("root"); err == nil {
		t.Error("Parse should reject unknown names")
	}
}
