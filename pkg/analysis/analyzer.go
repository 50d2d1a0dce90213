// Package analysis computes closed-form physico-chemical properties of a
// protein sequence from fixed per-residue tables.
package analysis

import (
	"encoding/json"
	"math"
	"strings"
)

const (
	HydrophobicWindow    = 7
	HydrophobicThreshold = 1.5
	ChargedWindow        = 5
	ChargedThreshold     = 1.5
)

// Region is a run of windows at or above a threshold. Start and End are
// 0-based inclusive indices into the cleaned sequence.
type Region struct {
	Start int
	End   int
	Score float64
}

// MarshalJSON encodes a region as [start, end, score].
func (r Region) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.Start, r.End, r.Score})
}

func (r *Region) UnmarshalJSON(data []byte) error {
	var raw [3]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Start, r.End, r.Score = int(raw[0]), int(raw[1]), raw[2]
	return nil
}

type ProteinProperties struct {
	Length                int            `json:"length"`
	MolecularWeight       int            `json:"molecularWeight"`
	Composition           map[string]int `json:"composition"`
	AverageHydrophobicity float64        `json:"averageHydrophobicity"`
	NetCharge             float64        `json:"netCharge"`
	// IsoelectricPoint is a linear heuristic over residue counts, not a
	// pKa based solution of the charge equation.
	IsoelectricPoint   float64  `json:"isoelectricPoint"`
	HydrophobicRegions []Region `json:"hydrophobicRegions"`
	ChargedRegions     []Region `json:"chargedRegions"`
}

// CleanSequence drops every non-letter and uppercases the rest.
func CleanSequence(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c)
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		}
	}
	return b.String()
}

// Analyze computes all properties of raw. An empty (or all-invalid) input
// yields a zero result rather than dividing by zero.
func Analyze(raw string) ProteinProperties {
	seq := CleanSequence(raw)
	n := len(seq)

	props := ProteinProperties{
		Length:             n,
		Composition:        Composition(seq),
		HydrophobicRegions: []Region{},
		ChargedRegions:     []Region{},
	}
	if n == 0 {
		return props
	}

	var weight, hydro, charge float64
	for i := 0; i < n; i++ {
		weight += MolecularWeight[seq[i]]
		hydro += Hydrophobicity[seq[i]]
		charge += Charge[seq[i]]
	}

	props.MolecularWeight = int(math.Round(weight - float64(n-1)*WaterWeight))
	props.AverageHydrophobicity = hydro / float64(n)
	props.NetCharge = round(charge, 1)
	props.IsoelectricPoint = IsoelectricPoint(props.Composition, n)
	props.HydrophobicRegions = HydrophobicRegions(seq)
	props.ChargedRegions = ChargedRegions(seq)
	return props
}

// Composition counts each residue letter.
func Composition(seq string) map[string]int {
	comp := make(map[string]int)
	for i := 0; i < len(seq); i++ {
		comp[string(seq[i])]++
	}
	return comp
}

// IsoelectricPoint is 7 + (K + R + H/2 - D - E) / n * 3, two decimals.
func IsoelectricPoint(comp map[string]int, n int) float64 {
	if n == 0 {
		return 0
	}
	pos := float64(comp["K"]+comp["R"]) + 0.5*float64(comp["H"])
	neg := float64(comp["D"] + comp["E"])
	return round(7.0+(pos-neg)/float64(n)*3, 2)
}

// HydrophobicRegions reports runs of 7-residue windows whose mean
// hydropathy is at least 1.5. A run's score is the mean of its window means.
func HydrophobicRegions(seq string) []Region {
	return scanWindows(seq, HydrophobicWindow, HydrophobicThreshold, hydropathyOf, false)
}

// ChargedRegions reports runs of 5-residue windows whose mean absolute charge
// is at least 1.5. A run's score is re-measured over the whole span it covers.
func ChargedRegions(seq string) []Region {
	return scanWindows(seq, ChargedWindow, ChargedThreshold, absChargeOf, true)
}

func hydropathyOf(c byte) float64 { return Hydrophobicity[c] }

func absChargeOf(c byte) float64 { return math.Abs(Charge[c]) }

// scanWindows slides a window over seq. A run opens at the first window
// meeting threshold and closes at the first window that does not; its end is
// the last residue of the last qualifying window, or the last residue of the
// sequence when the run is still open at the end. With rescoreSpan the run's
// score is recomputed over seq[start..end]; otherwise it is the mean of the
// qualifying window means.
func scanWindows(seq string, window int, threshold float64, score func(byte) float64, rescoreSpan bool) []Region {
	regions := []Region{}
	n := len(seq)
	if n < window {
		return regions
	}

	inRun := false
	start := 0
	var windowScores []float64

	closeRun := func(end int) {
		r := Region{Start: start, End: end}
		if rescoreSpan {
			r.Score = meanOver(seq[start:end+1], score)
		} else {
			r.Score = mean(windowScores)
		}
		regions = append(regions, r)
		inRun = false
		windowScores = windowScores[:0]
	}

	for i := 0; i+window <= n; i++ {
		avg := meanOver(seq[i:i+window], score)
		if avg >= threshold {
			if !inRun {
				inRun = true
				start = i
			}
			windowScores = append(windowScores, avg)
			continue
		}
		if inRun {
			closeRun(i + window - 2)
		}
	}
	if inRun {
		closeRun(n - 1)
	}
	return regions
}

func meanOver(s string, score func(byte) float64) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < len(s); i++ {
		sum += score(s[i])
	}
	return sum / float64(len(s))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
