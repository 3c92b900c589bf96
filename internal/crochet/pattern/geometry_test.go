package pattern

import (
	"math"
	"testing"
)

func TestToPolar(t *testing.T) {
	cases := []struct {
		x, y      float64
		wantDist  float64
		wantAngle float64
	}{
		{x: 1, y: 0, wantDist: 1, wantAngle: 0},
		{x: 0, y: 2, wantDist: 2, wantAngle: math.Pi / 2},
		{x: -3, y: 0, wantDist: 3, wantAngle: math.Pi},
		{x: 0, y: -1, wantDist: 1, wantAngle: 3 * math.Pi / 2},
		{x: 0, y: 0, wantDist: 0, wantAngle: 0},
	}
	for _, tc := range cases {
		d, a := ToPolar(tc.x, tc.y)
		if math.Abs(d-tc.wantDist) > 1e-9 || math.Abs(a-tc.wantAngle) > 1e-9 {
			t.Errorf("ToPolar(%v, %v) = (%v, %v), want (%v, %v)", tc.x, tc.y, d, a, tc.wantDist, tc.wantAngle)
		}
	}
}

func TestToPolarAngleRange(t *testing.T) {
	for _, p := range [][2]float64{{1, -1e-300}, {-1, -1e-12}, {1e-9, -1}} {
		_, a := ToPolar(p[0], p[1])
		if a < 0 || a >= FullTurn {
			t.Errorf("ToPolar(%v, %v) angle = %v, want in [0, 2π)", p[0], p[1], a)
		}
	}
}

func TestRingIndexForDistance(t *testing.T) {
	cases := []struct {
		d, spacing float64
		want       int
	}{
		{0, 50, 0},
		{49.999, 50, 0},
		{50, 50, 1}, // граница относится к внешнему кольцу
		{125, 50, 2},
		{10, 0, -1},
	}
	for _, tc := range cases {
		if got := RingIndexForDistance(tc.d, tc.spacing); got != tc.want {
			t.Errorf("RingIndexForDistance(%v, %v) = %d, want %d", tc.d, tc.spacing, got, tc.want)
		}
	}
}

func TestSegmentIndexForAngle(t *testing.T) {
	step := FullTurn / 8
	cases := []struct {
		angle float64
		n     int
		want  int
	}{
		{0, 8, 0},
		{step, 8, 1},
		{step * 3, 8, 3},
		{FullTurn - 1e-12, 8, 7},
		{FullTurn, 8, 0},
		{-1e-12, 8, 7},
		{1, 0, -1},
	}
	for _, tc := range cases {
		if got := SegmentIndexForAngle(tc.angle, tc.n); got != tc.want {
			t.Errorf("SegmentIndexForAngle(%v, %d) = %d, want %d", tc.angle, tc.n, got, tc.want)
		}
	}
}

func TestHitTestingInvertsPlacement(t *testing.T) {
	for n := 1; n <= 30; n++ {
		for seg := 0; seg < n; seg++ {
			if got := SegmentIndexForAngle(MidAngle(seg, n), n); got != seg {
				t.Fatalf("n=%d: SegmentIndexForAngle(MidAngle(%d)) = %d", n, seg, got)
			}
		}
	}
	for ring := 0; ring < 6; ring++ {
		x, y := SlotCenter(ring, 2, 9, 50)
		d, a := ToPolar(x, y)
		if got := RingIndexForDistance(d, 50); got != ring {
			t.Errorf("ring for slot center of ring %d = %d", ring, got)
		}
		if got := SegmentIndexForAngle(a, 9); got != 2 {
			t.Errorf("segment for slot center of ring %d = %d, want 2", ring, got)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0.3, 3); got != 3 {
		t.Errorf("Clamp = %v, want 3", got)
	}
	if got := Clamp(0.1, 0.3, 3); got != 0.3 {
		t.Errorf("Clamp = %v, want 0.3", got)
	}
	if got := ClampInt(30, 4, 24); got != 24 {
		t.Errorf("ClampInt = %d, want 24", got)
	}
	if got := ClampInt(1, 4, 24); got != 4 {
		t.Errorf("ClampInt = %d, want 4", got)
	}
}
