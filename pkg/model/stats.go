package model

import (
	"context"
	"math"
	"sort"

	"github.com/jmoiron/sqlx"
)

// PathwayCount is the number of proteins assigned to one secretion pathway.
type PathwayCount struct {
	Pathway string
	Count   int
}

// Stats is a read-only summary of an organism's genes and proteins.
type Stats struct {
	GeneCount         int
	ProteinCount      int
	PlusStrandGenes   int
	MinusStrandGenes  int
	MeanProteinLength float64
	SecretedProteins  int
	MachineryProteins int
	Pathways          []PathwayCount
}

// Summarize aggregates genes and proteins without touching its inputs.
// Pathways are ordered by count, then name.
func Summarize(genes []Gene, proteins []Protein) Stats {

	s := Stats{
		GeneCount:    len(genes),
		ProteinCount: len(proteins),
		Pathways:     []PathwayCount{},
	}

	for _, g := range genes {
		switch g.Strand {
		case "+":
			s.PlusStrandGenes++
		case "-":
			s.MinusStrandGenes++
		}
	}

	counts := map[string]int{}
	totalLength := 0
	for _, p := range proteins {
		totalLength += p.SequenceLength
		if p.SecretionInfo == nil {
			continue
		}
		if p.SecretionInfo.IsSecreted {
			s.SecretedProteins++
		}
		if p.SecretionInfo.IsSecretionMachinery {
			s.MachineryProteins++
		}
		if p.SecretionInfo.SecretionPathway != nil {
			counts[*p.SecretionInfo.SecretionPathway]++
		}
	}
	if len(proteins) > 0 {
		s.MeanProteinLength = math.Round(float64(totalLength)/float64(len(proteins))*10) / 10
	}

	for pathway, n := range counts {
		s.Pathways = append(s.Pathways, PathwayCount{Pathway: pathway, Count: n})
	}
	sort.Slice(s.Pathways, func(i, j int) bool {
		if s.Pathways[i].Count != s.Pathways[j].Count {
			return s.Pathways[i].Count > s.Pathways[j].Count
		}
		return s.Pathways[i].Pathway < s.Pathways[j].Pathway
	})

	return s
}

// OrganismStats loads an organism's genes and proteins and summarizes them.
func OrganismStats(ctx context.Context, q sqlx.ExtContext, organismID string) (Stats, error) {

	exists, err := OrganismExists(ctx, q, organismID)
	if err != nil {
		return Stats{}, err
	}
	if !exists {
		return Stats{}, ErrNotFound
	}

	genes, err := ListOrganismGenes(ctx, q, organismID)
	if err != nil {
		return Stats{}, err
	}
	geneIDs := make([]string, len(genes))
	for i, g := range genes {
		geneIDs[i] = g.ID
	}
	proteins, err := ProteinsOfGenes(ctx, q, geneIDs)
	if err != nil {
		return Stats{}, err
	}

	return Summarize(genes, proteins), nil
}
