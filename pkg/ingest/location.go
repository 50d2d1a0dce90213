package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// Location is a feature span, 1-based and inclusive, with its strand.
type Location struct {
	Start  int64
	End    int64
	Strand string
}

// ParseLocation reads an INSDC location string such as "1000..5000",
// "complement(8600..9900)", "<1..>206" or "join(10..20,30..40)". Split
// locations collapse to their envelope.
func ParseLocation(raw string) (Location, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if s == "" {
		return Location{}, fmt.Errorf("empty location")
	}

	loc := Location{Strand: "+"}
	if inner, ok := unwrap(s, "complement"); ok {
		loc.Strand = "-"
		s = inner
	}
	for _, op := range []string{"join", "order"} {
		if inner, ok := unwrap(s, op); ok {
			s = inner
		}
	}

	complemented := 0
	parts := strings.Split(s, ",")
	for i, part := range parts {
		if inner, ok := unwrap(part, "complement"); ok {
			complemented++
			part = inner
		}
		// Spans on another record ("J00194.1:100..202") keep only the range.
		if idx := strings.LastIndexByte(part, ':'); idx >= 0 {
			part = part[idx+1:]
		}

		start, end, err := parseSpan(part)
		if err != nil {
			return Location{}, fmt.Errorf("location %q: %w", raw, err)
		}
		if i == 0 || start < loc.Start {
			loc.Start = start
		}
		if i == 0 || end > loc.End {
			loc.End = end
		}
	}
	if complemented == len(parts) {
		loc.Strand = "-"
	}
	return loc, nil
}

func parseSpan(part string) (int64, int64, error) {
	bounds := strings.FieldsFunc(part, func(r rune) bool { return r == '.' || r == '^' })
	if len(bounds) == 0 || len(bounds) > 2 {
		return 0, 0, fmt.Errorf("bad span %q", part)
	}

	var vals [2]int64
	for i, b := range bounds {
		v, err := strconv.ParseInt(strings.TrimLeft(b, "<>"), 10, 64)
		if err != nil || v <= 0 {
			return 0, 0, fmt.Errorf("bad position %q", b)
		}
		vals[i] = v
	}
	if len(bounds) == 1 {
		vals[1] = vals[0]
	}
	if vals[0] > vals[1] {
		vals[0], vals[1] = vals[1], vals[0]
	}
	return vals[0], vals[1], nil
}

func unwrap(s, op string) (string, bool) {
	prefix := op + "("
	if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, ")") {
		return s[len(prefix) : len(s)-1], true
	}
	return s, false
}
