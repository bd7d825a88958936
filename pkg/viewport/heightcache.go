package viewport

import "sort"

// HeightCache is a cumulative-sum index over the visible rows' heights.
// Entry i holds the total pixel height of rows [0..i] including inter-row
// spacing. The slice is strictly non-decreasing and always has one entry per
// visible row; the controller rebuilds it wholesale on every visibility pass,
// it is never edited in place.
type HeightCache struct {
	sums []float64
}

// Reset clears the cache, keeping capacity for the rebuild.
func (c *HeightCache) Reset() {
	c.sums = c.sums[:0]
}

// Append adds one row of the given height (spacing included by the caller).
func (c *HeightCache) Append(height float64) {
	c.sums = append(c.sums, c.Total()+height)
}

// Len returns the number of rows indexed.
func (c *HeightCache) Len() int {
	return len(c.sums)
}

// Total returns the cumulative height of all rows, 0 when empty.
func (c *HeightCache) Total() float64 {
	if len(c.sums) == 0 {
		return 0
	}
	return c.sums[len(c.sums)-1]
}

// RangeHeight returns the summed height of the inclusive index range.
// The range is order-independent: if start > end the two are swapped.
// Indices are clamped to [0, Len()-1]. Returns 0 when the cache is empty.
func (c *HeightCache) RangeHeight(start, end int) float64 {
	if len(c.sums) == 0 {
		return 0
	}
	if start > end {
		start, end = end, start
	}
	start = clampIndex(start, len(c.sums))
	end = clampIndex(end, len(c.sums))
	return c.sums[end] - c.before(start)
}

// before returns the cumulative height of all rows above index i,
// i.e. the implicit entry at i-1 with cache[-1] = 0.
func (c *HeightCache) before(i int) float64 {
	if i <= 0 {
		return 0
	}
	return c.sums[i-1]
}

// IndexForHeight returns the smallest index whose cumulative height reaches
// target (lower bound). When target exceeds the total, the result is Len():
// one past the last valid index. Callers that cannot use that as an
// "at the end" sentinel must clamp.
func (c *HeightCache) IndexForHeight(target float64) int {
	return sort.Search(len(c.sums), func(i int) bool {
		return c.sums[i] >= target
	})
}

func clampIndex(i, length int) int {
	if i < 0 {
		return 0
	}
	if i >= length {
		return length - 1
	}
	return i
}
