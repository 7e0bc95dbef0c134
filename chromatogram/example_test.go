package chromatogram_test

import (
	"fmt"

	"github.com/hplc-lab/trace-viewer/chromatogram"
)

func ExampleParse() {
	points := chromatogram.Parse("0.00,1.5\n# footer\n0.01,2.5,extra\n")
	fmt.Println(len(points), points[1].V)

	// Output:
	// 2 2.5
}

func ExampleDownsample() {
	data := make([]chromatogram.Point, 100)
	for i := range data {
		data[i] = chromatogram.Point{T: float64(i), V: float64(i % 10)}
	}
	out := chromatogram.Downsample(data, 12)
	fmt.Println(len(out), out[0].T, out[len(out)-1].T)

	// Output:
	// 12 0 99
}

func ExampleAlign() {
	overlay := chromatogram.Align([]chromatogram.Trace{
		{Name: "Inj 1", Points: []chromatogram.Point{{T: 5, V: 1}}},
		{Name: "Inj 2", Points: []chromatogram.Point{{T: 4, V: 10}, {T: 6, V: 20}}},
	})
	fmt.Println(overlay.Rows[0].Values["Inj 2"], overlay.YMin, overlay.YMax)

	// Output:
	// 10 0 11
}
