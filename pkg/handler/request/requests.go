package request

import (
	"strings"

	"github.com/yumyai/omicsatlas/pkg/chat"
	"github.com/yumyai/omicsatlas/pkg/model"
)

// MaxSequenceLength bounds sequences accepted for on-the-fly analysis.
const MaxSequenceLength = 100000

// Body of POST /api/analysis/protein
type AnalysisRequest struct {
	Sequence     string `json:"sequence"`
	AnalysisType string `json:"analysisType"`
}

func (a AnalysisRequest) Validate() error {
	if strings.TrimSpace(a.Sequence) == "" {
		return Invalid("sequence is required")
	}
	if len(a.Sequence) > MaxSequenceLength {
		return Invalid("sequence is longer than %d characters", MaxSequenceLength)
	}
	return nil
}

// Body of POST /api/secretion/classify
type ClassifyRequest struct {
	Product  string `json:"product"`
	LocusTag string `json:"locusTag"`
}

func (c ClassifyRequest) Validate() error {
	if strings.TrimSpace(c.Product) == "" {
		return Invalid("product is required")
	}
	return nil
}

// Body of POST /api/organisms/{id}/profile. Every phenotype field is
// optional; versionNumber, when sent, must match the stored version.
type ProfileRequest struct {
	GramStain          *string  `json:"gramStain"`
	CellShape          *string  `json:"cellShape"`
	Motility           *string  `json:"motility"`
	OxygenRequirement  *string  `json:"oxygenRequirement"`
	OptimalTemperature *float64 `json:"optimalTemperature"`
	Habitat            *string  `json:"habitat"`
	EcologyDescription *string  `json:"ecologyDescription"`
	VersionNumber      *int     `json:"versionNumber"`

	Reason    string `json:"reason"`
	Source    string `json:"source"`
	ChangedBy string `json:"changedBy"`
}

func (p ProfileRequest) Validate() error {
	if p.VersionNumber != nil && *p.VersionNumber < 1 {
		return Invalid("versionNumber must be positive")
	}
	return nil
}

func (p ProfileRequest) Input() model.ProfileInput {
	return model.ProfileInput{
		GramStain:          p.GramStain,
		CellShape:          p.CellShape,
		Motility:           p.Motility,
		OxygenRequirement:  p.OxygenRequirement,
		OptimalTemperature: p.OptimalTemperature,
		Habitat:            p.Habitat,
		EcologyDescription: p.EcologyDescription,
		ExpectedVersion:    p.VersionNumber,
	}
}

func (p ProfileRequest) Meta() model.ChangeMeta {
	return model.ChangeMeta{Reason: p.Reason, Source: p.Source, ChangedBy: p.ChangedBy}
}

// Body of POST /api/chat
type ChatRequest struct {
	Message string    `json:"message"`
	Context *chat.Ref `json:"context"`
}

func (c ChatRequest) Validate() error {
	if strings.TrimSpace(c.Message) == "" {
		return Invalid("message is required")
	}
	if c.Context != nil && c.Context.Type != "" && c.Context.ID == "" {
		return Invalid("context.id is required when context.type is set")
	}
	return nil
}

// Body of POST /api/vector/query
type VectorQueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}
