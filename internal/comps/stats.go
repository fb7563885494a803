package comps

import "sort"

// Median returns the upper median of vs (index n/2 after sorting). The
// input is not modified. Panics on empty input; callers check first.
func Median(vs []int) int {
	s := make([]int, len(vs))
	copy(s, vs)
	sort.Ints(s)
	return s[len(s)/2]
}

// P75 returns the 75th-percentile element of vs by index convention:
// sorted ascending, index int(0.75*n) clamped to the last element. For
// small samples this lands on the higher side, which is intentional — the
// exit estimator prices the new product against the top of the comp set.
func P75(vs []int) int {
	s := make([]int, len(vs))
	copy(s, vs)
	sort.Ints(s)
	i := int(0.75 * float64(len(s)))
	if i >= len(s) {
		i = len(s) - 1
	}
	return s[i]
}

// MedianFloat returns the upper median of vs without modifying the input.
func MedianFloat(vs []float64) float64 {
	s := make([]float64, len(vs))
	copy(s, vs)
	sort.Float64s(s)
	return s[len(s)/2]
}
