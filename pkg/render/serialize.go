// Package render shapes model records into the API's JSON views.
package render

import (
	"github.com/yumyai/omicsatlas/pkg/model"
)

const dateLayout = "2006-01-02"

func Chromosome(c model.Chromosome) ChromosomeView {
	return ChromosomeView{
		ID:             c.ID,
		Name:           c.Name,
		Accession:      c.Accession,
		SequenceLength: c.SequenceLength,
		GCContent:      c.GCContent,
	}
}

func OrganismSummary(o model.Organism) OrganismSummaryView {
	v := OrganismSummaryView{
		ID:             o.ID,
		ScientificName: o.ScientificName,
		CommonName:     o.CommonName,
		Habitat:        o.Habitat,
		GenomeSizeMb:   o.GenomeSizeMb,
		TaxonomyID:     o.TaxonomyID,
		GeneCount:      o.GeneCount,
		Chromosomes:    make([]ChromosomeView, 0, len(o.Chromosomes)),
		GeneSymbols:    []string{},
	}
	for _, c := range o.Chromosomes {
		v.Chromosomes = append(v.Chromosomes, Chromosome(c))
	}
	v.GeneSymbols = append(v.GeneSymbols, o.GeneSymbols...)
	return v
}

func OrganismSummaries(organisms []model.Organism) []OrganismSummaryView {
	out := make([]OrganismSummaryView, 0, len(organisms))
	for _, o := range organisms {
		out = append(out, OrganismSummary(o))
	}
	return out
}

func OrganismDetail(o model.Organism) OrganismDetailView {
	v := OrganismDetailView{
		OrganismSummaryView: OrganismSummary(o),
		Description:         o.Description,
		CreatedAt:           o.CreatedAt,
	}
	if o.Profile != nil {
		p := Profile(*o.Profile)
		v.Profile = &p
	}
	return v
}

// GeneSummary flattens a gene with its organism and chromosome names.
// Missing relations become null.
func GeneSummary(g model.Gene) GeneSummaryView {
	v := GeneSummaryView{
		ID:            g.ID,
		LocusTag:      g.LocusTag,
		Symbol:        g.Symbol,
		Name:          g.Name,
		Description:   g.Description,
		StartPosition: g.StartPosition,
		EndPosition:   g.EndPosition,
		Strand:        g.Strand,
		OrganismID:    g.OrganismID,
		ChromosomeID:  g.ChromosomeID,
	}
	if g.Organism != nil {
		v.OrganismName = &g.Organism.ScientificName
	}
	if g.Chromosome != nil {
		v.ChromosomeName = &g.Chromosome.Name
	}
	return v
}

func GeneSummaries(genes []model.Gene) []GeneSummaryView {
	out := make([]GeneSummaryView, 0, len(genes))
	for _, g := range genes {
		out = append(out, GeneSummary(g))
	}
	return out
}

func GeneDetail(g model.Gene) GeneDetailView {
	return GeneDetailView{
		GeneSummaryView: GeneSummary(g),
		Proteins:        ProteinSummaries(g.Proteins),
		Articles:        Articles(g.Articles),
	}
}

func Secretion(s model.SecretionInfo) SecretionView {
	return SecretionView{
		IsSecreted:           s.IsSecreted,
		SecretionPathway:     s.SecretionPathway,
		IsSecretionMachinery: s.IsSecretionMachinery,
		PredictedLocation:    s.PredictedLocation,
	}
}

func ProteinSummary(p model.Protein) ProteinSummaryView {
	v := ProteinSummaryView{
		ID:              p.ID,
		Accession:       p.Accession,
		Name:            p.Name,
		Description:     p.Description,
		SequenceLength:  p.SequenceLength,
		MolecularWeight: p.MolecularWeight,
		Localization:    p.Localization,
		FunctionClass:   p.FunctionClass,
		StructureClass:  p.StructureClass,
		GeneID:          p.GeneID,
	}
	if p.Gene != nil {
		v.GeneSymbol = &p.Gene.Symbol
		v.LocusTag = &p.Gene.LocusTag
	}
	if p.SecretionInfo != nil {
		s := Secretion(*p.SecretionInfo)
		v.Secretion = &s
	}
	return v
}

func ProteinSummaries(proteins []model.Protein) []ProteinSummaryView {
	out := make([]ProteinSummaryView, 0, len(proteins))
	for _, p := range proteins {
		out = append(out, ProteinSummary(p))
	}
	return out
}

func ProteinDetail(p model.Protein) ProteinDetailView {
	v := ProteinDetailView{
		ProteinSummaryView: ProteinSummary(p),
		Sequence:           p.Sequence,
	}
	if p.Gene != nil {
		v.OrganismID = &p.Gene.OrganismID
		if p.Gene.Organism != nil {
			v.OrganismName = &p.Gene.Organism.ScientificName
		}
	}
	return v
}

func Article(a model.GeneArticle) ArticleView {
	v := ArticleView{
		ID:             a.ID,
		Title:          a.Title,
		Journal:        a.Journal,
		DOI:            a.DOI,
		URL:            a.URL,
		Summary:        a.Summary,
		KeyFinding:     a.KeyFinding,
		RelevanceScore: a.RelevanceScore,
	}
	if a.PublishedDate != nil {
		d := a.PublishedDate.Format(dateLayout)
		v.PublishedDate = &d
	}
	return v
}

func Articles(articles []model.GeneArticle) []ArticleView {
	out := make([]ArticleView, 0, len(articles))
	for _, a := range articles {
		out = append(out, Article(a))
	}
	return out
}

func Component(c model.SecretionComponent) ComponentView {
	return ComponentView{
		ID:               c.ID,
		LocusTag:         c.LocusTag,
		ComponentName:    c.ComponentName,
		ComponentType:    c.ComponentType,
		GenomicStart:     c.GenomicStart,
		GenomicEnd:       c.GenomicEnd,
		GeneID:           c.GeneID,
		GeneSymbol:       nonEmpty(c.GeneSymbol),
		ProteinID:        c.ProteinID,
		ProteinAccession: nonEmpty(c.ProteinAccession),
	}
}

func SecretionSystem(s model.SecretionSystem) SecretionSystemView {
	v := SecretionSystemView{
		ID:           s.ID,
		OrganismID:   s.OrganismID,
		ChromosomeID: s.ChromosomeID,
		Name:         s.Name,
		Type:         s.SystemType,
		Description:  s.Description,
		GenomicStart: s.GenomicStart,
		GenomicEnd:   s.GenomicEnd,
		Components:   make([]ComponentView, 0, len(s.Components)),
		Cargo:        ProteinSummaries(s.Cargo),
	}
	for _, c := range s.Components {
		v.Components = append(v.Components, Component(c))
	}
	return v
}

func SecretionSystems(systems []model.SecretionSystem) []SecretionSystemView {
	out := make([]SecretionSystemView, 0, len(systems))
	for _, s := range systems {
		out = append(out, SecretionSystem(s))
	}
	return out
}

func Profile(p model.OrganismProfile) ProfileView {
	return ProfileView{
		ID:                 p.ID,
		OrganismID:         p.OrganismID,
		GramStain:          p.GramStain,
		CellShape:          p.CellShape,
		Motility:           p.Motility,
		OxygenRequirement:  p.OxygenRequirement,
		OptimalTemperature: p.OptimalTemperature,
		Habitat:            p.Habitat,
		EcologyDescription: p.EcologyDescription,
		VersionNumber:      p.VersionNumber,
		UpdatedAt:          p.UpdatedAt,
	}
}

func History(h model.ProfileHistory) HistoryView {
	return HistoryView{
		ID:            h.ID,
		VersionNumber: h.VersionNumber,
		FieldName:     h.FieldName,
		OldValue:      h.OldValue,
		NewValue:      h.NewValue,
		Reason:        h.Reason,
		Source:        h.Source,
		ChangedBy:     h.ChangedBy,
		ChangedAt:     h.ChangedAt,
	}
}

func Histories(history []model.ProfileHistory) []HistoryView {
	out := make([]HistoryView, 0, len(history))
	for _, h := range history {
		out = append(out, History(h))
	}
	return out
}

func Stats(organismID string, s model.Stats) StatsView {
	v := StatsView{
		OrganismID:        organismID,
		GeneCount:         s.GeneCount,
		ProteinCount:      s.ProteinCount,
		PlusStrandGenes:   s.PlusStrandGenes,
		MinusStrandGenes:  s.MinusStrandGenes,
		MeanProteinLength: s.MeanProteinLength,
		SecretedProteins:  s.SecretedProteins,
		MachineryProteins: s.MachineryProteins,
		Pathways:          make([]PathwayCountView, 0, len(s.Pathways)),
	}
	for _, p := range s.Pathways {
		v.Pathways = append(v.Pathways, PathwayCountView{Pathway: p.Pathway, Count: p.Count})
	}
	return v
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
