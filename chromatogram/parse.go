package chromatogram

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// maxLineBytes bounds a single CSV line; longer lines are discarded whole.
const maxLineBytes = 1 << 20

// Parse reads "<time>,<value>" lines without a header. Lines that do not
// yield two finite numbers are skipped.
func Parse(text string) []Point {
	points, _ := ParseReader(strings.NewReader(text))
	return points
}

// ParseReader is the streaming form of Parse. The returned error only
// reflects a failing reader; points read before the failure are returned.
func ParseReader(r io.Reader) ([]Point, error) {
	points := make([]Point, 0)
	err := eachLine(r, func(line []byte) {
		if p, ok := parseLine(string(line)); ok {
			points = append(points, p)
		}
	})
	return points, err
}

// eachLine calls fn for every line of r with the line terminator removed.
// Lines longer than maxLineBytes are dropped and reading continues.
func eachLine(r io.Reader, fn func(line []byte)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	line := make([]byte, 0, 256)
	overlong := false

	for {
		chunk, err := br.ReadSlice('\n')
		if !overlong {
			line = append(line, chunk...)
			if len(bytes.TrimRight(line, "\r\n")) > maxLineBytes {
				overlong = true
				line = line[:0]
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}

		if !overlong && len(line) > 0 {
			fn(bytes.TrimRight(line, "\r\n"))
		}
		line = line[:0]
		overlong = false

		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
func parseLine(line string) (Point, bool) {
	if strings.TrimSpace(line) == "" {
		return Point{}, false
	}
	comma := strings.IndexByte(line, ',')
	if comma < 0 {
		return Point{}, false
	}
	t, ok := leadingFloat(line[:comma])
	if !ok {
		return Point{}, false
	}
	v, ok := leadingFloat(line[comma+1:])
	if !ok {
		return Point{}, false
	}
	return Point{T: t, V: v}, true
}

// leadingFloat parses the longest decimal prefix of s after leading
// whitespace, ignoring whatever follows it. Non-finite results are rejected.
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\r\n\v\f")
	end := numberPrefix(s)
	if end == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// numberPrefix returns the length of the decimal literal at the start of s,
// or 0 if there is none.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}
	return end
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
