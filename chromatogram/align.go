package chromatogram

import "math"

// axisPadding is the share of the value range added above and below the axis.
const axisPadding = 0.05

// Align merges traces onto the time axis of traces[0].
//
// Each primary point yields one row. Every other trace contributes the value of
// its sample nearest in time, found with a forward-only cursor: the cursor moves
// while the next sample is strictly closer, so ties keep the earlier sample.
// All traces must be sorted by time. YMin and YMax bound every contributed value,
// padded by 5% of the range and rounded outward to integers.
func Align(traces []Trace) Overlay {
	if len(traces) == 0 {
		return Overlay{Rows: []Row{}, YMin: 0, YMax: 1}
	}

	primary := traces[0]
	cursors := make([]int, len(traces))
	lo, hi := math.Inf(1), math.Inf(-1)
	observe := func(v float64) {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	rows := make([]Row, 0, len(primary.Points))
	for _, p := range primary.Points {
		row := Row{T: p.T, Values: make(map[string]float64, len(traces))}
		row.Values[primary.Name] = p.V
		observe(p.V)

		for k := 1; k < len(traces); k++ {
			pts := traces[k].Points
			if len(pts) == 0 {
				continue
			}
			c := cursors[k]
			for c+1 < len(pts) && math.Abs(pts[c+1].T-p.T) < math.Abs(pts[c].T-p.T) {
				c++
			}
			cursors[k] = c
			row.Values[traces[k].Name] = pts[c].V
			observe(pts[c].V)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return Overlay{Rows: rows, YMin: 0, YMax: 1}
	}

	span := hi - lo
	if span == 0 {
		span = 1
	}
	return Overlay{
		Rows: rows,
		YMin: math.Floor(lo - axisPadding*span),
		YMax: math.Ceil(hi + axisPadding*span),
	}
}
