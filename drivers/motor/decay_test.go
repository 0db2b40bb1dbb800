package motor

import "testing"

func TestDutyToLevelBounds(t *testing.T) {
	for _, period := range []uint16{1, 100, 5000, 65535} {
		if got := DutyToLevel(0, period); got != 0 {
			t.Fatalf("DutyToLevel(0,%d) = %d, want 0", period, got)
		}
		for _, d := range []float32{-1, -0.5, -0.001, 0.001, 0.5, 1} {
			lv := DutyToLevel(d, period)
			if lv < -int32(period) || lv > int32(period) {
				t.Fatalf("DutyToLevel(%v,%d) = %d outside [-%d,%d]", d, period, lv, period, period)
			}
		}
	}
	if got := DutyToLevel(0.5, 5000); got != 2500 {
		t.Fatalf("DutyToLevel(0.5,5000) = %d, want 2500", got)
	}
	if got := DutyToLevel(-1, 5000); got != -5000 {
		t.Fatalf("DutyToLevel(-1,5000) = %d, want -5000", got)
	}
}

func TestFastDecayOnePinAlwaysOff(t *testing.T) {
	const period = 5000
	for lv := int32(-period); lv <= period; lv += 97 {
		pos, neg := FastDecay.PinLevels(lv, period)
		if pos != 0 && neg != 0 {
			t.Fatalf("FastDecay level %d: pos=%d neg=%d, one side must be 0", lv, pos, neg)
		}
		if lv >= 0 && (int32(pos) != lv || neg != 0) {
			t.Fatalf("FastDecay level %d: got (%d,%d)", lv, pos, neg)
		}
		if lv < 0 && (pos != 0 || int32(neg) != -lv) {
			t.Fatalf("FastDecay level %d: got (%d,%d)", lv, pos, neg)
		}
	}
}

func TestSlowDecayComplementarySum(t *testing.T) {
	const period = 5000
	for lv := int32(-period); lv <= period; lv += 97 {
		pos, neg := SlowDecay.PinLevels(lv, period)
		mag := lv
		if mag < 0 {
			mag = -mag
		}
		// Both branches keep pos+neg = 2*period - |level|: the driven side
		// is fully on, the other carries the complement.
		if int32(pos)+int32(neg) != 2*period-mag {
			t.Fatalf("SlowDecay level %d: pos=%d neg=%d, sum %d want %d",
				lv, pos, neg, int32(pos)+int32(neg), 2*period-mag)
		}
		if lv >= 0 && pos != period {
			t.Fatalf("SlowDecay level %d: positive pin not fully on (%d)", lv, pos)
		}
		if lv < 0 && neg != period {
			t.Fatalf("SlowDecay level %d: negative pin not fully on (%d)", lv, neg)
		}
	}
}

func TestDecayModeStrings(t *testing.T) {
	if SlowDecay.String() != "slow" || FastDecay.String() != "fast" {
		t.Fatalf("unexpected decay mode names %q %q", SlowDecay.String(), FastDecay.String())
	}
}
