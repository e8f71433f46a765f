package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// dmsTokenRe matches a bare numeric token inside a coordinate block.
var dmsTokenRe = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)

// DMSToDecimal converts a degrees/minutes/seconds triple to decimal degrees.
func DMSToDecimal(d, m, s float64) float64 {
	return d + m/60 + s/3600
}

// Coordinates extracts a latitude/longitude pair from the cell span of one
// source row that sits between the "Координати" and elevation columns. The
// block is positional: an "N" marker followed by three numeric tokens, then
// an "E" marker followed by three more. Cyrillic Е/е variants of the east
// marker are tolerated. Returns (nil, nil) whenever a marker is absent or a
// marker is not followed by three numeric tokens; partial blocks are normal
// source data.
func Coordinates(cells []string) (lat, lon *float64) {
	var seq []string
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		c = strings.NewReplacer("Е", "E", "е", "e").Replace(c)
		seq = append(seq, c)
	}
	if len(seq) == 0 {
		return nil, nil
	}

	nIdx, eIdx := -1, -1
	for i, s := range seq {
		if s == "N" && nIdx < 0 {
			nIdx = i
		}
		if s == "E" && eIdx < 0 {
			eIdx = i
		}
	}
	if nIdx < 0 || eIdx < 0 {
		return nil, nil
	}

	n := takeNumbers(seq, nIdx, 3)
	e := takeNumbers(seq, eIdx, 3)
	if n == nil || e == nil {
		return nil, nil
	}
	la := DMSToDecimal(n[0], n[1], n[2])
	lo := DMSToDecimal(e[0], e[1], e[2])
	return &la, &lo
}

// takeNumbers collects exactly k numeric tokens after position idx, skipping
// non-numeric cells. Returns nil when fewer than k are available.
func takeNumbers(seq []string, idx, k int) []float64 {
	out := make([]float64, 0, k)
	for i := idx + 1; i < len(seq) && len(out) < k; i++ {
		s := strings.ReplaceAll(seq[i], ",", ".")
		if !dmsTokenRe.MatchString(s) {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	if len(out) != k {
		return nil
	}
	return out
}
