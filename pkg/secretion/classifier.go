// Package secretion assigns a secretion pathway and component role to a
// protein from its product description using ordered keyword rules.
package secretion

import "strings"

const (
	PathwayT1SS = "T1SS"
	PathwayT2SS = "T2SS"
	PathwaySec  = "Sec"
	PathwayTat  = "Tat"
	PathwayOM   = "OM"
)

// Component types.
const (
	ComponentATPase   = "ATPase"
	ComponentAdaptor  = "Adaptor"
	ComponentCargo    = "Cargo"
	ComponentSecretin = "Secretin"
	ComponentT2SS     = "T2SSComponent"
)

// Predicted subcellular locations.
const (
	LocationExtracellular = "Extracellular"
	LocationOuterMembrane = "OuterMembrane"
	LocationPeriplasmic   = "Periplasmic"
	LocationInnerMembrane = "InnerMembrane"
	LocationCytoplasmic   = "Cytoplasmic"
)

// Pathways lists every pathway tag the classifier can emit.
var Pathways = []string{PathwayT1SS, PathwayT2SS, PathwaySec, PathwayTat, PathwayOM}

type Classification struct {
	Pathway              *string `json:"pathway"`
	IsSecreted           bool    `json:"isSecreted"`
	IsSecretionMachinery bool    `json:"isSecretionMachinery"`
	ComponentType        *string `json:"componentType"`
	PredictedLocation    string  `json:"predictedLocation"`
}

type rule struct {
	pathway  string
	triggers []string
	apply    func(desc string, c *Classification)
}

// Order matters: the first rule with a matching trigger wins.
var rules = []rule{
	{PathwayT1SS, []string{"type i secretion", "hlyd", "rtx"}, classifyT1SS},
	{PathwayT2SS, []string{"type ii secretion", "gsp"}, classifyT2SS},
	{PathwaySec, []string{"signal peptide", "sec-dependent"}, secreted},
	{PathwayTat, []string{"tat ", "twin-arginine"}, secreted},
	{PathwayOM, []string{"outer membrane", "omp", "porin"}, func(string, *Classification) {}},
}

// Classify maps a product description and locus tag to a pathway. The locus
// tag does not influence the rules today; it is accepted so callers classify
// a feature, not a string.
func Classify(product, locusTag string) Classification {
	desc := strings.ToLower(product)

	c := Classification{}
	for _, r := range rules {
		if !containsAny(desc, r.triggers) {
			continue
		}
		pathway := r.pathway
		c.Pathway = &pathway
		r.apply(desc, &c)
		break
	}
	c.PredictedLocation = PredictLocation(c)
	return c
}

func classifyT1SS(desc string, c *Classification) {
	var component string
	switch {
	case strings.Contains(desc, "atpase") || strings.Contains(desc, "abc transporter"):
		component = ComponentATPase
	case strings.Contains(desc, "adaptor") || strings.Contains(desc, "membrane fusion"):
		component = ComponentAdaptor
	case strings.Contains(desc, "hlyd"):
		component = ComponentAdaptor
	case strings.Contains(desc, "toxin"):
		component = ComponentCargo
	}
	if component != "" {
		c.ComponentType = &component
	}
	c.IsSecretionMachinery = component == ComponentATPase || component == ComponentAdaptor
	c.IsSecreted = strings.Contains(desc, "toxin") && !strings.Contains(desc, "secretion system")
}

func classifyT2SS(desc string, c *Classification) {
	component := ComponentT2SS
	if strings.Contains(desc, "secretin") || strings.Contains(desc, "gspd") {
		component = ComponentSecretin
	}
	c.ComponentType = &component
	c.IsSecretionMachinery = true
}

func secreted(_ string, c *Classification) {
	c.IsSecreted = true
}

// PredictLocation derives a subcellular location from a classification.
func PredictLocation(c Classification) string {
	if c.Pathway == nil {
		return LocationCytoplasmic
	}
	component := ""
	if c.ComponentType != nil {
		component = *c.ComponentType
	}
	switch {
	case c.IsSecreted:
		return LocationExtracellular
	case *c.Pathway == PathwayOM:
		return LocationOuterMembrane
	case component == ComponentAdaptor:
		return LocationPeriplasmic
	case component == ComponentATPase:
		return LocationInnerMembrane
	case *c.Pathway == PathwayT2SS:
		return LocationOuterMembrane
	}
	return LocationCytoplasmic
}

// ValidPathway reports whether p is one of the known pathway tags.
func ValidPathway(p string) bool {
	for _, known := range Pathways {
		if p == known {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
