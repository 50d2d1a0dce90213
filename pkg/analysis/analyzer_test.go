package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedSequence = "MLNTLTTKAYIKASEAIRSFRENQAGVTAIEYGLIAIAVAVLIVAVFYSNNGFIANLQSKFNSLASTVASANVTK"

func TestCleanSequence(t *testing.T) {
	assert.Equal(t, "MKVLA", CleanSequence(" mk-v\nl*a1 "))
	assert.Equal(t, "", CleanSequence("12 -*\n"))
}

func TestAnalyzeSeedSequence(t *testing.T) {
	p := Analyze(seedSequence)

	assert.Equal(t, 75, p.Length)
	assert.Equal(t, 7971, p.MolecularWeight)
	assert.InDelta(t, 7840, p.MolecularWeight, 160)
	assert.InDelta(t, 0.516, p.AverageHydrophobicity, 1e-9)
	assert.Equal(t, 3.0, p.NetCharge)
	assert.Equal(t, 7.12, p.IsoelectricPoint)

	require.Len(t, p.HydrophobicRegions, 1)
	assert.Equal(t, 31, p.HydrophobicRegions[0].Start)
	assert.Equal(t, 48, p.HydrophobicRegions[0].End)
	assert.InDelta(t, 3.1119, p.HydrophobicRegions[0].Score, 1e-4)

	// No 5-residue window can average |charge| >= 1.5 with unit charges.
	assert.Empty(t, p.ChargedRegions)
	assert.NotNil(t, p.ChargedRegions)
}

func TestAnalyzeLengthAndWeightProperty(t *testing.T) {
	letters := "ACDEFGHIKLMNPQRSTVWY"
	seqs := []string{"A", "GG", letters, letters + letters, "WWWWWWWWWWKR"}
	for _, s := range seqs {
		p := Analyze(s)
		var sum float64
		for i := 0; i < len(s); i++ {
			sum += MolecularWeight[s[i]]
		}
		want := int(math.Round(sum - float64(len(s)-1)*WaterWeight))
		assert.Equal(t, len(s), p.Length, s)
		assert.Equal(t, want, p.MolecularWeight, s)
	}
}

func TestAnalyzeAllStandardResidues(t *testing.T) {
	p := Analyze("ACDEFGHIKLMNPQRSTVWY")
	assert.Equal(t, 2396, p.MolecularWeight)
	assert.Equal(t, 0.5, p.NetCharge)
	assert.Equal(t, 7.08, p.IsoelectricPoint)
	assert.InDelta(t, -0.49, p.AverageHydrophobicity, 1e-9)
	assert.Len(t, p.Composition, 20)
}

func TestAnalyzeEmpty(t *testing.T) {
	for _, in := range []string{"", "---", "12345"} {
		p := Analyze(in)
		assert.Equal(t, 0, p.Length)
		assert.Equal(t, 0, p.MolecularWeight)
		assert.Equal(t, 0.0, p.AverageHydrophobicity)
		assert.Equal(t, 0.0, p.NetCharge)
		assert.Equal(t, 0.0, p.IsoelectricPoint)
		assert.Empty(t, p.HydrophobicRegions)
		assert.Empty(t, p.ChargedRegions)
		assert.False(t, math.IsNaN(p.IsoelectricPoint))
	}
}

func TestHydrophobicRegions(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want []Region
	}{
		{"too short", "IIIII", []Region{}},
		{"open run closes at sequence end", "GGGGGGIIIIIIII", []Region{{Start: 2, End: 13, Score: 3.3333333333333335}}},
		{"run covering every window", "GGGGIIIIIIIIGGGG", []Region{{Start: 0, End: 15, Score: 3.1000000000000005}}},
		{"hydrophilic", "KKKKKKKKKK", []Region{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HydrophobicRegions(tt.seq)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.Equal(t, tt.want[i].Start, got[i].Start)
				assert.Equal(t, tt.want[i].End, got[i].End)
				assert.InDelta(t, tt.want[i].Score, got[i].Score, 1e-9)
			}
		})
	}
}

func TestHydrophobicRegionClosedMidSequence(t *testing.T) {
	// Windows 0..3 qualify (IIIIIII... then K's pull the mean down).
	seq := "IIIIIIIIIIKKKKKKKKKK"
	got := HydrophobicRegions(seq)
	require.NotEmpty(t, got)
	assert.Equal(t, 0, got[0].Start)
	// The run closes at the first failing window i; its end is i+window-2.
	last := -1
	for i := 0; i+HydrophobicWindow <= len(seq); i++ {
		if meanOver(seq[i:i+HydrophobicWindow], hydropathyOf) < HydrophobicThreshold {
			last = i + HydrophobicWindow - 2
			break
		}
	}
	assert.Equal(t, last, got[0].End)
}

func TestChargedWindowRescoresSpan(t *testing.T) {
	// With a lower threshold the run [1,9] is re-scored over the whole span
	// (7 charged of 9 residues), not the average of qualifying window means.
	got := scanWindows("AAKKKKKDDAA", ChargedWindow, 0.8, absChargeOf, true)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Start)
	assert.Equal(t, 9, got[0].End)
	assert.InDelta(t, 7.0/9.0, got[0].Score, 1e-9)
}

func TestRegionJSON(t *testing.T) {
	raw, err := json.Marshal(Region{Start: 3, End: 10, Score: 2.5})
	require.NoError(t, err)
	assert.JSONEq(t, `[3,10,2.5]`, string(raw))

	var r Region
	require.NoError(t, json.Unmarshal(raw, &r))
	assert.Equal(t, Region{Start: 3, End: 10, Score: 2.5}, r)
}

func TestSelectViews(t *testing.T) {
	p := Analyze(seedSequence)

	v, err := Select(p, ViewProperties)
	require.NoError(t, err)
	assert.Equal(t, 7971, v.(PropertiesView).MolecularWeight)

	v, err = Select(p, ViewComposition)
	require.NoError(t, err)
	assert.Equal(t, 75, v.(CompositionView).Length)

	v, err = Select(p, "")
	require.NoError(t, err)
	assert.IsType(t, ProteinProperties{}, v)

	_, err = Select(p, "folding")
	assert.Error(t, err)
	assert.False(t, ValidView("folding"))
	assert.True(t, ValidView(ViewCharge))
}
