// Package chat answers questions about the record being viewed with fixed
// templates. There is no model behind it: the first matching keyword intent
// picks the template.
package chat

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/jmoiron/sqlx"

	"github.com/yumyai/omicsatlas/pkg/analysis"
	"github.com/yumyai/omicsatlas/pkg/model"
)

// Record kinds accepted as chat context.
const (
	KindOrganism = "organism"
	KindGene     = "gene"
	KindProtein  = "protein"
)

// Intents, in matching order. A greeting only wins when no content
// intent matches.
const (
	IntentLength    = "length"
	IntentWeight    = "weight"
	IntentSecretion = "secretion"
	IntentLocation  = "location"
	IntentFunction  = "function"
	IntentCharge    = "charge"
	IntentGreeting  = "greeting"
	IntentHelp      = "help"
)

type intent struct {
	name     string
	keywords []string
	prefixes []string
}

var intents = []intent{
	{IntentLength, []string{"length", "long", "size", "big"}, nil},
	{IntentWeight, []string{"weight", "mass", "heavy", "kda", "da"}, nil},
	{IntentSecretion, []string{"t1ss", "t2ss", "sec", "tat", "pathway"}, []string{"secret", "export"}},
	{IntentLocation, []string{"where", "location", "localization", "located"}, []string{"local"}},
	{IntentFunction, []string{"function", "role", "does", "description", "describe"}, nil},
	{IntentCharge, []string{"charge", "pi", "isoelectric", "ph"}, nil},
	{IntentGreeting, []string{"hi", "hello", "hey"}, nil},
}

var suggestions = []string{
	"How long is it?",
	"What is its molecular weight?",
	"Is it secreted?",
	"Where is it located?",
	"What does it do?",
	"What is its charge?",
}

// Ref names the record the user is looking at.
type Ref struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Record is a loaded chat context. At most one field is set.
type Record struct {
	Organism *model.Organism
	Gene     *model.Gene
	Protein  *model.Protein
}

type Reply struct {
	Response    string   `json:"response"`
	Intent      string   `json:"intent"`
	Suggestions []string `json:"suggestions"`
}

// Load resolves ref against the store. An empty ref yields an empty record.
func Load(ctx context.Context, q sqlx.ExtContext, ref Ref) (Record, error) {
	var rec Record
	var err error
	switch ref.Type {
	case "":
		return rec, nil
	case KindOrganism:
		rec.Organism, err = model.GetOrganism(ctx, q, ref.ID)
	case KindGene:
		rec.Gene, err = model.GetGene(ctx, q, ref.ID)
	case KindProtein:
		rec.Protein, err = model.GetProtein(ctx, q, ref.ID)
	default:
		return rec, fmt.Errorf("%w: unknown context type %q", model.ErrInvalidInput, ref.Type)
	}
	return rec, err
}

// Classify returns the first intent whose keywords occur in message.
func Classify(message string) string {
	words := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, in := range intents {
		for _, w := range words {
			for _, k := range in.keywords {
				if w == k {
					return in.name
				}
			}
			for _, p := range in.prefixes {
				if strings.HasPrefix(w, p) {
					return in.name
				}
			}
		}
	}
	return IntentHelp
}

// Respond answers message about rec.
func Respond(message string, rec Record) Reply {
	name := Classify(message)
	reply := Reply{Intent: name, Suggestions: suggestions}

	switch {
	case rec.Protein != nil:
		reply.Response = aboutProtein(name, rec.Protein)
	case rec.Gene != nil:
		reply.Response = aboutGene(name, rec.Gene)
	case rec.Organism != nil:
		reply.Response = aboutOrganism(name, rec.Organism)
	default:
		reply.Response = withoutContext(name)
	}
	return reply
}

func withoutContext(name string) string {
	if name == IntentGreeting {
		return "Hello! Open an organism, gene or protein and ask me about it."
	}
	return "I can answer questions about the organism, gene or protein you are viewing. Open a record first."
}

func aboutProtein(name string, p *model.Protein) string {
	label := fmt.Sprintf("%s (%s)", p.Name, p.Accession)

	var props *analysis.ProteinProperties
	if p.Sequence != nil && *p.Sequence != "" {
		a := analysis.Analyze(*p.Sequence)
		props = &a
	}

	switch name {
	case IntentGreeting:
		return fmt.Sprintf("Hello! You are viewing protein %s. Ask about its length, weight, secretion, location or charge.", label)
	case IntentLength:
		return fmt.Sprintf("%s is %d amino acids long.", label, p.SequenceLength)
	case IntentWeight:
		switch {
		case p.MolecularWeight != nil:
			return fmt.Sprintf("%s has a molecular weight of %.0f Da (%.1f kDa).", label, *p.MolecularWeight, *p.MolecularWeight/1000)
		case props != nil:
			return fmt.Sprintf("%s has an estimated molecular weight of %d Da.", label, props.MolecularWeight)
		}
		return fmt.Sprintf("No molecular weight is recorded for %s.", label)
	case IntentSecretion:
		return secretionSentence(label, p.SecretionInfo)
	case IntentLocation:
		if p.SecretionInfo != nil && p.SecretionInfo.PredictedLocation != "" {
			return fmt.Sprintf("%s is predicted to be %s.", label, strings.ToLower(p.SecretionInfo.PredictedLocation))
		}
		if p.Localization != nil {
			return fmt.Sprintf("%s is annotated as %s.", label, *p.Localization)
		}
		return fmt.Sprintf("No localization is recorded for %s.", label)
	case IntentFunction:
		if p.Description != nil && *p.Description != "" {
			return fmt.Sprintf("%s is described as: %s.", label, *p.Description)
		}
		return fmt.Sprintf("%s has no functional description yet.", label)
	case IntentCharge:
		if props == nil {
			return fmt.Sprintf("No sequence is stored for %s, so its charge cannot be estimated.", label)
		}
		return fmt.Sprintf("%s has a net charge of %.1f and an estimated isoelectric point of %.2f.", label, props.NetCharge, props.IsoelectricPoint)
	}
	return fmt.Sprintf("You are viewing protein %s. Try asking about its length, weight, secretion, location, function or charge.", label)
}

func secretionSentence(label string, s *model.SecretionInfo) string {
	switch {
	case s == nil:
		return fmt.Sprintf("No secretion prediction is recorded for %s.", label)
	case s.SecretionPathway == nil:
		return fmt.Sprintf("%s is not assigned to a secretion pathway.", label)
	case s.IsSecreted:
		return fmt.Sprintf("%s is predicted to be secreted through the %s pathway.", label, *s.SecretionPathway)
	case s.IsSecretionMachinery:
		return fmt.Sprintf("%s is part of the %s secretion machinery.", label, *s.SecretionPathway)
	}
	return fmt.Sprintf("%s is associated with the %s pathway but is not predicted to be secreted.", label, *s.SecretionPathway)
}

func aboutGene(name string, g *model.Gene) string {
	label := fmt.Sprintf("%s (%s)", g.Symbol, g.LocusTag)

	switch name {
	case IntentGreeting:
		return fmt.Sprintf("Hello! You are viewing gene %s. Ask about its length, products or function.", label)
	case IntentLength:
		return fmt.Sprintf("%s spans %d bp on the %s strand (%d..%d).", label,
			g.EndPosition-g.StartPosition+1, g.Strand, g.StartPosition, g.EndPosition)
	case IntentWeight, IntentCharge:
		if len(g.Proteins) == 0 {
			return fmt.Sprintf("%s has no recorded protein product.", label)
		}
		return aboutProtein(name, &g.Proteins[0])
	case IntentSecretion:
		if len(g.Proteins) == 0 {
			return fmt.Sprintf("%s has no recorded protein product.", label)
		}
		p := g.Proteins[0]
		return secretionSentence(fmt.Sprintf("%s, the product of %s,", p.Accession, label), p.SecretionInfo)
	case IntentLocation:
		if g.Chromosome != nil {
			return fmt.Sprintf("%s is on %s at %d..%d.", label, g.Chromosome.Name, g.StartPosition, g.EndPosition)
		}
		return fmt.Sprintf("%s is at %d..%d; no chromosome is assigned.", label, g.StartPosition, g.EndPosition)
	case IntentFunction:
		if g.Description != nil && *g.Description != "" {
			return fmt.Sprintf("%s encodes %s: %s.", label, g.Name, *g.Description)
		}
		return fmt.Sprintf("%s encodes %s.", label, g.Name)
	}
	return fmt.Sprintf("You are viewing gene %s with %d protein product(s) and %d linked article(s).", label, len(g.Proteins), len(g.Articles))
}

func aboutOrganism(name string, o *model.Organism) string {
	label := o.ScientificName

	switch name {
	case IntentGreeting:
		return fmt.Sprintf("Hello! You are viewing %s. Ask about its genome, habitat or description.", label)
	case IntentLength, IntentWeight:
		if o.GenomeSizeMb != nil {
			return fmt.Sprintf("The %s genome is %.2f Mb with %d genes on %d chromosome(s).", label, *o.GenomeSizeMb, o.GeneCount, len(o.Chromosomes))
		}
		return fmt.Sprintf("%s has %d genes on %d chromosome(s).", label, o.GeneCount, len(o.Chromosomes))
	case IntentLocation:
		if o.Habitat != nil {
			return fmt.Sprintf("%s is found in: %s.", label, *o.Habitat)
		}
		if o.Profile != nil && o.Profile.Habitat != nil {
			return fmt.Sprintf("%s is found in: %s.", label, *o.Profile.Habitat)
		}
		return fmt.Sprintf("No habitat is recorded for %s.", label)
	case IntentFunction:
		if o.Description != nil {
			return fmt.Sprintf("%s: %s", label, *o.Description)
		}
		if o.Profile != nil && o.Profile.EcologyDescription != nil {
			return fmt.Sprintf("%s: %s", label, *o.Profile.EcologyDescription)
		}
		return fmt.Sprintf("No description is recorded for %s.", label)
	case IntentSecretion:
		return fmt.Sprintf("Open the secretion systems of %s to see its machinery and cargo.", label)
	}
	return fmt.Sprintf("You are viewing %s. Try asking about its genome size, habitat or description.", label)
}
