package service

import "testing"

func TestSplitRevenueExact(t *testing.T) {
	cases := []struct {
		name         string
		gross        int64
		bps          int64
		wantPlatform int64
		wantOwner    int64
	}{
		{"ten percent of 1000 dollars", 100000, 1000, 10000, 90000},
		{"rounds half up", 105, 1000, 11, 94}, // 10.5 cents -> 11
		{"residual cent stays with platform", 101, 3333, 34, 67},
		{"zero commission", 5000, 0, 0, 5000},
		{"full commission", 5000, 10000, 5000, 0},
		{"one cent gross", 1, 1000, 0, 1},
		{"zero gross", 0, 1000, 0, 0},
	}
	for _, tc := range cases {
		p, o := SplitRevenue(tc.gross, tc.bps)
		if p != tc.wantPlatform || o != tc.wantOwner {
			t.Fatalf("%s: got platform=%d owner=%d, want %d/%d", tc.name, p, o, tc.wantPlatform, tc.wantOwner)
		}
		if p+o != tc.gross {
			t.Fatalf("%s: split does not conserve gross: %d + %d != %d", tc.name, p, o, tc.gross)
		}
	}
}

func TestSplitRevenueConservesEveryPercent(t *testing.T) {
	const gross = 9973 // prime, maximizes rounding cases
	for pct := int64(0); pct <= 100; pct++ {
		p, o := SplitRevenue(gross, pct*100)
		if p+o != gross {
			t.Fatalf("pct=%d: %d + %d != %d", pct, p, o, gross)
		}
		if p < 0 || o < 0 {
			t.Fatalf("pct=%d: negative cut (platform=%d owner=%d)", pct, p, o)
		}
	}
}

func TestSplitRevenueClampsCommission(t *testing.T) {
	if p, o := SplitRevenue(1000, -500); p != 0 || o != 1000 {
		t.Fatalf("negative bps not clamped: platform=%d owner=%d", p, o)
	}
	if p, o := SplitRevenue(1000, 20000); p != 1000 || o != 0 {
		t.Fatalf("oversized bps not clamped: platform=%d owner=%d", p, o)
	}
}

func TestParsePercent(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"10", 1000, false},
		{"12.5", 1250, false},
		{"2.75", 275, false},
		{"0", 0, false},
		{"100", 10000, false},
		{" 10 ", 1000, false},
		{"100.01", 0, true},
		{"10.123", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParsePercent(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParsePercent(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePercent(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePercent(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
