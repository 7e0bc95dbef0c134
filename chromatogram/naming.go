package chromatogram

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var injectionRe = regexp.MustCompile(`(?i)inj_(\d+)`)

// InjectionName derives a trace name from an export file name carrying the
// Inj_<n> convention, e.g. "P-0111_Inj_3_DAD1A.csv" gives ("Inj 3", 3, true).
func InjectionName(fileName string) (string, int, bool) {
	m := injectionRe.FindStringSubmatch(filepath.Base(fileName))
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", 0, false
	}
	return "Inj " + strconv.Itoa(n), n, true
}

// TraceName returns InjectionName's name, or the file stem when the file
// does not follow the injection convention.
func TraceName(fileName string) string {
	if name, _, ok := InjectionName(fileName); ok {
		return name
	}
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DistinctNames returns traces renamed so no two share a name and none
// collides with the "t" row key. Later duplicates get a " (2)", " (3)", ...
// suffix. Points are shared with the input.
func DistinctNames(traces []Trace) []Trace {
	seen := map[string]bool{"t": true}
	out := make([]Trace, len(traces))
	for i, tr := range traces {
		name := tr.Name
		for n := 2; seen[name]; n++ {
			name = tr.Name + " (" + strconv.Itoa(n) + ")"
		}
		seen[name] = true
		out[i] = Trace{Name: name, Points: tr.Points}
	}
	return out
}
