package model

import "time"

type Organism struct {
	ID             string    `db:"id"`
	ScientificName string    `db:"scientific_name"`
	CommonName     *string   `db:"common_name"`
	Habitat        *string   `db:"habitat"`
	Description    *string   `db:"description"`
	GenomeSizeMb   *float64  `db:"genome_size_mb"`
	TaxonomyID     *string   `db:"taxonomy_id"`
	CreatedAt      time.Time `db:"created_at"`

	Chromosomes []Chromosome     `db:"-"`
	GeneSymbols []string         `db:"-"`
	GeneCount   int              `db:"-"`
	Profile     *OrganismProfile `db:"-"`
}

type Chromosome struct {
	ID             string   `db:"id"`
	OrganismID     string   `db:"organism_id"`
	Name           string   `db:"name"`
	Accession      *string  `db:"accession"`
	SequenceLength *int64   `db:"sequence_length"`
	GCContent      *float64 `db:"gc_content"`
}

type Gene struct {
	ID            string  `db:"id"`
	OrganismID    string  `db:"organism_id"`
	ChromosomeID  *string `db:"chromosome_id"`
	LocusTag      string  `db:"locus_tag"`
	Symbol        string  `db:"symbol"`
	Name          string  `db:"name"`
	Description   *string `db:"description"`
	StartPosition int64   `db:"start_position"`
	EndPosition   int64   `db:"end_position"`
	Strand        string  `db:"strand"`

	Organism   *Organism     `db:"-"`
	Chromosome *Chromosome   `db:"-"`
	Proteins   []Protein     `db:"-"`
	Articles   []GeneArticle `db:"-"`
}

type Protein struct {
	ID              string   `db:"id"`
	GeneID          string   `db:"gene_id"`
	Accession       string   `db:"accession"`
	Name            string   `db:"name"`
	Description     *string  `db:"description"`
	Sequence        *string  `db:"sequence"`
	SequenceLength  int      `db:"sequence_length"`
	MolecularWeight *float64 `db:"molecular_weight"`
	Localization    *string  `db:"localization"`
	FunctionClass   *string  `db:"function_class"`
	StructureClass  *string  `db:"structure_class"`

	Gene          *Gene          `db:"-"`
	SecretionInfo *SecretionInfo `db:"-"`
}

type SecretionInfo struct {
	ID                   string  `db:"id"`
	ProteinID            string  `db:"protein_id"`
	IsSecreted           bool    `db:"is_secreted"`
	SecretionPathway     *string `db:"secretion_pathway"`
	IsSecretionMachinery bool    `db:"is_secretion_machinery"`
	PredictedLocation    string  `db:"predicted_location"`
}

type SecretionSystem struct {
	ID           string `db:"id"`
	OrganismID   string `db:"organism_id"`
	ChromosomeID string `db:"chromosome_id"`
	Name         string `db:"name"`
	SystemType   string `db:"system_type"`
	Description  string `db:"description"`
	GenomicStart int64  `db:"genomic_start"`
	GenomicEnd   int64  `db:"genomic_end"`

	Components []SecretionComponent `db:"-"`
	Cargo      []Protein            `db:"-"`
}

type SecretionComponent struct {
	ID                string `db:"id"`
	SecretionSystemID string `db:"secretion_system_id"`
	GeneID            string `db:"gene_id"`
	ProteinID         string `db:"protein_id"`
	LocusTag          string `db:"locus_tag"`
	ComponentName     string `db:"component_name"`
	ComponentType     string `db:"component_type"`
	GenomicStart      int64  `db:"genomic_start"`
	GenomicEnd        int64  `db:"genomic_end"`

	// Filled by the component map query.
	GeneSymbol       string `db:"gene_symbol"`
	ProteinAccession string `db:"protein_accession"`
}

type Article struct {
	ID            string     `db:"id"`
	Title         string     `db:"title"`
	Journal       *string    `db:"journal"`
	DOI           *string    `db:"doi"`
	URL           *string    `db:"url"`
	Summary       *string    `db:"summary"`
	PublishedDate *time.Time `db:"published_date"`
}

// GeneArticle is an article as seen from one gene, with the link metadata.
type GeneArticle struct {
	Article
	GeneID         string   `db:"gene_id"`
	KeyFinding     *string  `db:"key_finding"`
	RelevanceScore *float64 `db:"relevance_score"`
}

type OrganismProfile struct {
	ID                 string    `db:"id"`
	OrganismID         string    `db:"organism_id"`
	GramStain          *string   `db:"gram_stain"`
	CellShape          *string   `db:"cell_shape"`
	Motility           *string   `db:"motility"`
	OxygenRequirement  *string   `db:"oxygen_requirement"`
	OptimalTemperature *float64  `db:"optimal_temperature"`
	Habitat            *string   `db:"habitat"`
	EcologyDescription *string   `db:"ecology_description"`
	VersionNumber      int       `db:"version_number"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type ProfileHistory struct {
	ID            string    `db:"id"`
	OrganismID    string    `db:"organism_id"`
	VersionNumber int       `db:"version_number"`
	FieldName     string    `db:"field_name"`
	OldValue      *string   `db:"old_value"`
	NewValue      *string   `db:"new_value"`
	Reason        string    `db:"reason"`
	Source        string    `db:"source"`
	ChangedBy     string    `db:"changed_by"`
	ChangedAt     time.Time `db:"changed_at"`
}
