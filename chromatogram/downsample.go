package chromatogram

import "math"

// MinTargetPoints is the smallest budget Downsample works with: both
// endpoints plus one interior bucket. Smaller targets are raised to it.
const MinTargetPoints = 3

// Downsample reduces data to targetPoints samples with the
// Largest-Triangle-Three-Buckets algorithm.
//
// If len(data) <= targetPoints, data itself is returned. Otherwise the result
// has exactly targetPoints entries; the first and last are data[0] and
// data[len(data)-1]. Interior points are split into targetPoints-2 buckets and
// from each bucket the point forming the largest triangle with the previously
// selected point and the mean of the following bucket is kept, which keeps peak
// apexes that uniform decimation would drop. data must be sorted by time.
func Downsample(data []Point, targetPoints int) []Point {
	if targetPoints < MinTargetPoints {
		targetPoints = MinTargetPoints
	}
	n := len(data)
	if n <= targetPoints {
		return data
	}

	buckets := targetPoints - 2
	bucketSize := float64(n-2) / float64(buckets)

	out := make([]Point, 0, targetPoints)
	out = append(out, data[0])
	prev := data[0]

	for i := 0; i < buckets; i++ {
		nextStart, nextEnd := bucketBounds(i+1, bucketSize, n)
		next := bucketMean(data, nextStart, nextEnd)

		start, end := bucketBounds(i, bucketSize, n)
		maxArea := -1.0
		chosen := -1
		for j := start; j < end; j++ {
			c := data[j]
			area := math.Abs((prev.T-next.T)*(c.V-prev.V) - (prev.T-c.T)*(next.V-prev.V))
			if area > maxArea {
				maxArea = area
				chosen = j
			}
		}
		if chosen < 0 {
			continue
		}
		out = append(out, data[chosen])
		prev = data[chosen]
	}

	return append(out, data[n-1])
}

// bucketBounds returns the half-open index range of interior bucket i.
// The range after the last interior bucket covers the final point.
func bucketBounds(i int, bucketSize float64, n int) (int, int) {
	start := int(math.Floor(float64(i)*bucketSize)) + 1
	end := int(math.Floor(float64(i+1)*bucketSize)) + 1
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

// bucketMean averages data[start:end]. An empty range falls back to the last point.
func bucketMean(data []Point, start, end int) Point {
	if end <= start {
		return data[len(data)-1]
	}
	var sumT, sumV float64
	for _, p := range data[start:end] {
		sumT += p.T
		sumV += p.V
	}
	cnt := float64(end - start)
	return Point{T: sumT / cnt, V: sumV / cnt}
}
