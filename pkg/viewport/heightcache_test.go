package viewport

import (
	"testing"

	"pgregory.net/rapid"
)

func buildCache(heights ...float64) *HeightCache {
	c := &HeightCache{}
	for _, h := range heights {
		c.Append(h)
	}
	return c
}

// TestHeightCacheEmpty verifies the degenerate all-zero behavior
func TestHeightCacheEmpty(t *testing.T) {
	c := &HeightCache{}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got len %d", c.Len())
	}
	if c.Total() != 0 {
		t.Errorf("expected total 0, got %v", c.Total())
	}
	if got := c.RangeHeight(0, 10); got != 0 {
		t.Errorf("expected range 0 on empty cache, got %v", got)
	}
	if got := c.IndexForHeight(5); got != 0 {
		t.Errorf("expected sentinel 0 on empty cache, got %d", got)
	}
}

// TestHeightCacheCumulative verifies the running sums
func TestHeightCacheCumulative(t *testing.T) {
	c := buildCache(10, 20, 5)
	want := []float64{10, 30, 35}
	for i, w := range want {
		if got := c.RangeHeight(0, i); got != w {
			t.Errorf("RangeHeight(0,%d) = %v, want %v", i, got, w)
		}
	}
	if c.Total() != 35 {
		t.Errorf("Total = %v, want 35", c.Total())
	}
}

// TestRangeHeightSymmetry verifies order independence of the index pair
func TestRangeHeightSymmetry(t *testing.T) {
	c := buildCache(10, 10, 10, 10, 10)
	for a := 0; a < 5; a++ {
		for b := 0; b < 5; b++ {
			if c.RangeHeight(a, b) != c.RangeHeight(b, a) {
				t.Errorf("RangeHeight(%d,%d) != RangeHeight(%d,%d)", a, b, b, a)
			}
		}
	}
}

// TestRangeHeightClamping verifies out-of-range indices are clamped
func TestRangeHeightClamping(t *testing.T) {
	c := buildCache(10, 20, 30)
	if got := c.RangeHeight(-5, 100); got != 60 {
		t.Errorf("clamped full range = %v, want 60", got)
	}
	if got := c.RangeHeight(1, 99); got != 50 {
		t.Errorf("clamped tail range = %v, want 50", got)
	}
}

// TestIndexForHeight verifies lower-bound semantics and the past-the-end
// sentinel
func TestIndexForHeight(t *testing.T) {
	c := buildCache(10, 10, 10, 10, 10) // sums 10,20,30,40,50
	cases := []struct {
		target float64
		want   int
	}{
		{0, 0},
		{10, 0},
		{10.5, 1},
		{35, 3},
		{50, 4},
		{50.1, 5}, // sentinel: past the last valid index
	}
	for _, tc := range cases {
		if got := c.IndexForHeight(tc.target); got != tc.want {
			t.Errorf("IndexForHeight(%v) = %d, want %d", tc.target, got, tc.want)
		}
	}
}

// TestHeightCachePropertyCumulative checks that adjacent cumulative entries
// always differ by exactly the appended row height.
func TestHeightCachePropertyCumulative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		heights := rapid.SliceOfN(rapid.Float64Range(0.5, 100), 1, 50).Draw(t, "heights")
		c := &HeightCache{}
		for _, h := range heights {
			c.Append(h)
		}
		for i, h := range heights {
			got := c.RangeHeight(i, i)
			if diff := got - h; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("row %d height %v, want %v", i, got, h)
			}
		}
	})
}

// TestHeightCachePropertySymmetryAndBounds checks symmetry and the
// lower-bound contract on random inputs.
func TestHeightCachePropertySymmetryAndBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		heights := rapid.SliceOfN(rapid.Float64Range(0.5, 100), 1, 50).Draw(t, "heights")
		c := &HeightCache{}
		for _, h := range heights {
			c.Append(h)
		}

		a := rapid.IntRange(-2, len(heights)+2).Draw(t, "a")
		b := rapid.IntRange(-2, len(heights)+2).Draw(t, "b")
		if c.RangeHeight(a, b) != c.RangeHeight(b, a) {
			t.Fatalf("RangeHeight not symmetric for (%d,%d)", a, b)
		}

		target := rapid.Float64Range(0, c.Total()).Draw(t, "target")
		i := c.IndexForHeight(target)
		if i >= c.Len() {
			t.Fatalf("in-range target %v returned sentinel %d", target, i)
		}
		if c.RangeHeight(0, i) < target {
			t.Fatalf("sums[%d] below target %v", i, target)
		}
		if i > 0 && c.RangeHeight(0, i-1) >= target {
			t.Fatalf("index %d not the lower bound for %v", i, target)
		}
	})
}
