package sleep

import "math"

// Series is a day-ordered run of optional values. nil means absent.
type Series []*float64

// RollingAverage averages each position with the window-1 positions before it,
// skipping absent values. A position whose whole window is absent stays absent.
// Windows smaller than one behave as one.
func RollingAverage(s Series, window int) Series {
	window = max(window, 1)

	out := make(Series, len(s))
	for i := range s {
		var (
			sum   float64
			count int
		)
		for _, v := range s[max(0, i-window+1) : i+1] {
			if present(v) {
				sum += *v
				count++
			}
		}
		if count > 0 {
			avg := sum / float64(count)
			out[i] = &avg
		}
	}
	return out
}

// CompositeAverage computes a rolling average for each window independently and
// then, per position, averages whichever of those results are present. It reacts
// faster than a single long window without the noise of a short one.
func CompositeAverage(s Series, windows []int) Series {
	rolled := make([]Series, len(windows))
	for i, w := range windows {
		rolled[i] = RollingAverage(s, w)
	}

	out := make(Series, len(s))
	for i := range s {
		var (
			sum   float64
			count int
		)
		for _, r := range rolled {
			if present(r[i]) {
				sum += *r[i]
				count++
			}
		}
		if count > 0 {
			avg := sum / float64(count)
			out[i] = &avg
		}
	}
	return out
}

// LatestNonNull returns the last present value, or nil.
func LatestNonNull(s Series) *float64 {
	for i := len(s) - 1; i >= 0; i-- {
		if present(s[i]) {
			v := *s[i]
			return &v
		}
	}
	return nil
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}
