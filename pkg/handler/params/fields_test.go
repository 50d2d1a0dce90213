package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAnalysisType(t *testing.T) {
	assert.Equal(t, AnalysisFull, ParseAnalysisType(""))
	assert.Equal(t, AnalysisCharge, ParseAnalysisType("charge"))
	assert.Equal(t, AnalysisUnknown, ParseAnalysisType("fold"))
	assert.Equal(t, "hydrophobicity", AnalysisHydrophobicity.String())
}

func TestParsePathway(t *testing.T) {
	assert.Equal(t, PathwayAny, ParsePathway(""))
	assert.Equal(t, PathwayT1SS, ParsePathway("t1ss"))
	assert.Equal(t, PathwayTat, ParsePathway("Tat"))
	assert.Equal(t, PathwayUnknown, ParsePathway("T9SS"))
	assert.Equal(t, "OM", PathwayOM.String())
	assert.Equal(t, "", PathwayAny.String())
}
