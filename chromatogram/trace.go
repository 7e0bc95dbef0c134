// Package chromatogram turns exported absorbance traces into chart-ready series.
//
// The pipeline is Parse (CSV text to points), Downsample (LTTB reduction to a
// fixed point budget) and Align (snap several traces onto the time axis of a
// primary trace). All functions are pure and safe for concurrent use on
// distinct inputs.
package chromatogram

import (
	"encoding/json"
	"math"
	"sort"
)

// Point is a single (time, signal) sample.
type Point struct {
	T float64 `json:"t"`
	V float64 `json:"v"`
}

// Trace is a named series of points sorted non-decreasing by time.
type Trace struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Row is one aligned sample: the primary time key plus one value per trace.
type Row struct {
	T      float64
	Values map[string]float64
}

// MarshalJSON flattens the row into {"t": T, "<trace>": value, ...}.
func (r Row) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, len(r.Values)+1)
	for k, v := range r.Values {
		m[k] = v
	}
	m["t"] = r.T
	return json.Marshal(m)
}

// Overlay is the result of Align.
type Overlay struct {
	Rows []Row   `json:"rows"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

// Summary holds the bounds of a point series.
type Summary struct {
	Count int     `json:"point_count"`
	TMin  float64 `json:"t_min"`
	TMax  float64 `json:"t_max"`
	VMin  float64 `json:"v_min"`
	VMax  float64 `json:"v_max"`
}

// Summarize returns count and bounds of points. An empty series yields a zero Summary.
func Summarize(points []Point) Summary {
	if len(points) == 0 {
		return Summary{}
	}
	s := Summary{
		Count: len(points),
		TMin:  math.Inf(1),
		TMax:  math.Inf(-1),
		VMin:  math.Inf(1),
		VMax:  math.Inf(-1),
	}
	for _, p := range points {
		s.TMin = math.Min(s.TMin, p.T)
		s.TMax = math.Max(s.TMax, p.T)
		s.VMin = math.Min(s.VMin, p.V)
		s.VMax = math.Max(s.VMax, p.V)
	}
	return s
}

// IsSorted reports whether points are non-decreasing by time.
func IsSorted(points []Point) bool {
	for i := 1; i < len(points); i++ {
		if points[i].T < points[i-1].T {
			return false
		}
	}
	return true
}

// SortedCopy returns a copy of points stably sorted by time.
func SortedCopy(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out
}
