package render

import "time"

// Views are the flat JSON shapes returned by the API. Optional values are
// pointers without omitempty so they always encode, as null when absent.
// Slices are never nil.

type ChromosomeView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Accession      *string  `json:"accession"`
	SequenceLength *int64   `json:"sequenceLength"`
	GCContent      *float64 `json:"gcContent"`
}

type OrganismSummaryView struct {
	ID             string           `json:"id"`
	ScientificName string           `json:"scientificName"`
	CommonName     *string          `json:"commonName"`
	Habitat        *string          `json:"habitat"`
	GenomeSizeMb   *float64         `json:"genomeSizeMb"`
	TaxonomyID     *string          `json:"taxonomyId"`
	GeneCount      int              `json:"geneCount"`
	Chromosomes    []ChromosomeView `json:"chromosomes"`
	GeneSymbols    []string         `json:"geneSymbols"`
}

type OrganismDetailView struct {
	OrganismSummaryView
	Description *string      `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
	Profile     *ProfileView `json:"profile"`
}

type GeneSummaryView struct {
	ID             string  `json:"id"`
	LocusTag       string  `json:"locusTag"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	StartPosition  int64   `json:"startPosition"`
	EndPosition    int64   `json:"endPosition"`
	Strand         string  `json:"strand"`
	OrganismID     string  `json:"organismId"`
	OrganismName   *string `json:"organismName"`
	ChromosomeID   *string `json:"chromosomeId"`
	ChromosomeName *string `json:"chromosomeName"`
}

type GeneDetailView struct {
	GeneSummaryView
	Proteins []ProteinSummaryView `json:"proteins"`
	Articles []ArticleView        `json:"articles"`
}

type SecretionView struct {
	IsSecreted           bool    `json:"isSecreted"`
	SecretionPathway     *string `json:"secretionPathway"`
	IsSecretionMachinery bool    `json:"isSecretionMachinery"`
	PredictedLocation    string  `json:"predictedLocation"`
}

type ProteinSummaryView struct {
	ID              string         `json:"id"`
	Accession       string         `json:"accession"`
	Name            string         `json:"name"`
	Description     *string        `json:"description"`
	SequenceLength  int            `json:"sequenceLength"`
	MolecularWeight *float64       `json:"molecularWeight"`
	Localization    *string        `json:"localization"`
	FunctionClass   *string        `json:"functionClass"`
	StructureClass  *string        `json:"structureClass"`
	GeneID          string         `json:"geneId"`
	GeneSymbol      *string        `json:"geneSymbol"`
	LocusTag        *string        `json:"locusTag"`
	Secretion       *SecretionView `json:"secretion"`
}

type ProteinDetailView struct {
	ProteinSummaryView
	Sequence     *string `json:"sequence"`
	OrganismID   *string `json:"organismId"`
	OrganismName *string `json:"organismName"`
}

type ArticleView struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Journal        *string  `json:"journal"`
	DOI            *string  `json:"doi"`
	URL            *string  `json:"url"`
	Summary        *string  `json:"summary"`
	PublishedDate  *string  `json:"publishedDate"`
	KeyFinding     *string  `json:"keyFinding"`
	RelevanceScore *float64 `json:"relevanceScore"`
}

type ComponentView struct {
	ID               string  `json:"id"`
	LocusTag         string  `json:"locusTag"`
	ComponentName    string  `json:"componentName"`
	ComponentType    string  `json:"componentType"`
	GenomicStart     int64   `json:"genomicStart"`
	GenomicEnd       int64   `json:"genomicEnd"`
	GeneID           string  `json:"geneId"`
	GeneSymbol       *string `json:"geneSymbol"`
	ProteinID        string  `json:"proteinId"`
	ProteinAccession *string `json:"proteinAccession"`
}

type SecretionSystemView struct {
	ID           string               `json:"id"`
	OrganismID   string               `json:"organismId"`
	ChromosomeID string               `json:"chromosomeId"`
	Name         string               `json:"name"`
	Type         string               `json:"type"`
	Description  string               `json:"description"`
	GenomicStart int64                `json:"genomicStart"`
	GenomicEnd   int64                `json:"genomicEnd"`
	Components   []ComponentView      `json:"components"`
	Cargo        []ProteinSummaryView `json:"cargo"`
}

type ProfileView struct {
	ID                 string    `json:"id"`
	OrganismID         string    `json:"organismId"`
	GramStain          *string   `json:"gramStain"`
	CellShape          *string   `json:"cellShape"`
	Motility           *string   `json:"motility"`
	OxygenRequirement  *string   `json:"oxygenRequirement"`
	OptimalTemperature *float64  `json:"optimalTemperature"`
	Habitat            *string   `json:"habitat"`
	EcologyDescription *string   `json:"ecologyDescription"`
	VersionNumber      int       `json:"versionNumber"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type HistoryView struct {
	ID            string    `json:"id"`
	VersionNumber int       `json:"versionNumber"`
	FieldName     string    `json:"fieldName"`
	OldValue      *string   `json:"oldValue"`
	NewValue      *string   `json:"newValue"`
	Reason        string    `json:"reason"`
	Source        string    `json:"source"`
	ChangedBy     string    `json:"changedBy"`
	ChangedAt     time.Time `json:"changedAt"`
}

type PathwayCountView struct {
	Pathway string `json:"pathway"`
	Count   int    `json:"count"`
}

type StatsView struct {
	OrganismID        string             `json:"organismId"`
	GeneCount         int                `json:"geneCount"`
	ProteinCount      int                `json:"proteinCount"`
	PlusStrandGenes   int                `json:"plusStrandGenes"`
	MinusStrandGenes  int                `json:"minusStrandGenes"`
	MeanProteinLength float64            `json:"meanProteinLength"`
	SecretedProteins  int                `json:"secretedProteins"`
	MachineryProteins int                `json:"machineryProteins"`
	Pathways          []PathwayCountView `json:"pathways"`
}
