package params

import (
	"strings"

	"github.com/yumyai/omicsatlas/pkg/analysis"
	"github.com/yumyai/omicsatlas/pkg/secretion"
)

type AnalysisType int

const (
	AnalysisFull AnalysisType = iota
	AnalysisProperties
	AnalysisComposition
	AnalysisHydrophobicity
	AnalysisCharge
	AnalysisUnknown
)

func (a AnalysisType) String() string {
	switch a {
	case AnalysisFull:
		return analysis.ViewFull
	case AnalysisProperties:
		return analysis.ViewProperties
	case AnalysisComposition:
		return analysis.ViewComposition
	case AnalysisHydrophobicity:
		return analysis.ViewHydrophobicity
	case AnalysisCharge:
		return analysis.ViewCharge
	default:
		return "unknown"
	}
}

// ParseAnalysisType maps the analysisType parameter; empty means full.
func ParseAnalysisType(field string) AnalysisType {
	switch field {
	case "", analysis.ViewFull:
		return AnalysisFull
	case analysis.ViewProperties:
		return AnalysisProperties
	case analysis.ViewComposition:
		return AnalysisComposition
	case analysis.ViewHydrophobicity:
		return AnalysisHydrophobicity
	case analysis.ViewCharge:
		return AnalysisCharge
	default:
		return AnalysisUnknown
	}
}

type Pathway int

const (
	PathwayAny Pathway = iota
	PathwayT1SS
	PathwayT2SS
	PathwaySec
	PathwayTat
	PathwayOM
	PathwayUnknown
)

func (p Pathway) String() string {
	switch p {
	case PathwayT1SS:
		return secretion.PathwayT1SS
	case PathwayT2SS:
		return secretion.PathwayT2SS
	case PathwaySec:
		return secretion.PathwaySec
	case PathwayTat:
		return secretion.PathwayTat
	case PathwayOM:
		return secretion.PathwayOM
	default:
		return ""
	}
}

// ParsePathway accepts the pathway tags case-insensitively; empty means any.
func ParsePathway(field string) Pathway {
	switch {
	case field == "":
		return PathwayAny
	case strings.EqualFold(field, secretion.PathwayT1SS):
		return PathwayT1SS
	case strings.EqualFold(field, secretion.PathwayT2SS):
		return PathwayT2SS
	case strings.EqualFold(field, secretion.PathwaySec):
		return PathwaySec
	case strings.EqualFold(field, secretion.PathwayTat):
		return PathwayTat
	case strings.EqualFold(field, secretion.PathwayOM):
		return PathwayOM
	default:
		return PathwayUnknown
	}
}
