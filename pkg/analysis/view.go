package analysis

import "fmt"

// Views selectable through the analysisType parameter.
const (
	ViewFull           = "full"
	ViewProperties     = "properties"
	ViewComposition    = "composition"
	ViewHydrophobicity = "hydrophobicity"
	ViewCharge         = "charge"
)

type PropertiesView struct {
	Length                int     `json:"length"`
	MolecularWeight       int     `json:"molecularWeight"`
	AverageHydrophobicity float64 `json:"averageHydrophobicity"`
	NetCharge             float64 `json:"netCharge"`
	IsoelectricPoint      float64 `json:"isoelectricPoint"`
}

type CompositionView struct {
	Length      int            `json:"length"`
	Composition map[string]int `json:"composition"`
}

type HydrophobicityView struct {
	AverageHydrophobicity float64  `json:"averageHydrophobicity"`
	HydrophobicRegions    []Region `json:"hydrophobicRegions"`
}

type ChargeView struct {
	NetCharge        float64  `json:"netCharge"`
	IsoelectricPoint float64  `json:"isoelectricPoint"`
	ChargedRegions   []Region `json:"chargedRegions"`
}

// ValidView reports whether name selects a known view ("" means full).
func ValidView(name string) bool {
	switch name {
	case "", ViewFull, ViewProperties, ViewComposition, ViewHydrophobicity, ViewCharge:
		return true
	}
	return false
}

// Select narrows p to the named view.
func Select(p ProteinProperties, name string) (any, error) {
	switch name {
	case "", ViewFull:
		return p, nil
	case ViewProperties:
		return PropertiesView{
			Length:                p.Length,
			MolecularWeight:       p.MolecularWeight,
			AverageHydrophobicity: p.AverageHydrophobicity,
			NetCharge:             p.NetCharge,
			IsoelectricPoint:      p.IsoelectricPoint,
		}, nil
	case ViewComposition:
		return CompositionView{Length: p.Length, Composition: p.Composition}, nil
	case ViewHydrophobicity:
		return HydrophobicityView{AverageHydrophobicity: p.AverageHydrophobicity, HydrophobicRegions: p.HydrophobicRegions}, nil
	case ViewCharge:
		return ChargeView{NetCharge: p.NetCharge, IsoelectricPoint: p.IsoelectricPoint, ChargedRegions: p.ChargedRegions}, nil
	}
	return nil, fmt.Errorf("unknown analysis type %q", name)
}
