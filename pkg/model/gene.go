package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const geneColumns = `g.id, g.organism_id, g.chromosome_id, g.locus_tag, g.symbol, g.name, g.description,
	g.start_position, g.end_position, g.strand`

// GeneFilter narrows ListGenes. Empty fields do not filter.
type GeneFilter struct {
	OrganismID   string
	ChromosomeID string
	// Query matches symbol, name or description, case-insensitively.
	Query string
	Page  Page
}

// ListGenes returns one page of genes with organism and chromosome loaded,
// plus the total number of matching genes.
func ListGenes(ctx context.Context, q sqlx.ExtContext, f GeneFilter) ([]Gene, int, error) {

	var w where
	if f.OrganismID != "" {
		w.add("g.organism_id = ?", f.OrganismID)
	}
	if f.ChromosomeID != "" {
		w.add("g.chromosome_id = ?", f.ChromosomeID)
	}
	if strings.TrimSpace(f.Query) != "" {
		p := likePattern(f.Query)
		w.add("(LOWER(g.symbol) LIKE ? OR LOWER(g.name) LIKE ? OR LOWER(COALESCE(g.description, '')) LIKE ?)", p, p, p)
	}

	var total int
	if err := sqlx.GetContext(ctx, q, &total, rebind(q, `SELECT COUNT(*) FROM genes g`+w.String()), w.args...); err != nil {
		return nil, 0, fmt.Errorf("count genes: %w", err)
	}

	args := append(append([]any{}, w.args...), f.Page.Limit, f.Page.Offset())
	genes := []Gene{}
	if err := sqlx.SelectContext(ctx, q, &genes, rebind(q,
		`SELECT `+geneColumns+` FROM genes g`+w.String()+
			` ORDER BY g.start_position, g.symbol, g.id LIMIT ? OFFSET ?`), args...); err != nil {
		return nil, 0, fmt.Errorf("select genes: %w", err)
	}

	if err := attachGeneRelations(ctx, q, genes); err != nil {
		return nil, 0, err
	}
	return genes, total, nil
}

// GetGene loads one gene with organism, chromosome, proteins (with
// secretion info) and linked articles.
func GetGene(ctx context.Context, q sqlx.ExtContext, id string) (*Gene, error) {

	var g Gene
	if err := getOne(ctx, q, &g, rebind(q, `SELECT `+geneColumns+` FROM genes g WHERE g.id = ?`), id); err != nil {
		return nil, err
	}

	genes := []Gene{g}
	if err := attachGeneRelations(ctx, q, genes); err != nil {
		return nil, err
	}
	g = genes[0]

	proteins, err := ProteinsOfGenes(ctx, q, []string{id})
	if err != nil {
		return nil, err
	}
	g.Proteins = proteins

	articles, err := ListArticles(ctx, q, ArticleFilter{GeneID: id})
	if err != nil {
		return nil, err
	}
	g.Articles = articles

	return &g, nil
}

// attachGeneRelations loads each gene's organism and chromosome with one
// query per relation.
func attachGeneRelations(ctx context.Context, q sqlx.ExtContext, genes []Gene) error {
	if len(genes) == 0 {
		return nil
	}

	var organismIDs, chromosomeIDs []string
	for _, g := range genes {
		organismIDs = append(organismIDs, g.OrganismID)
		if g.ChromosomeID != nil {
			chromosomeIDs = append(chromosomeIDs, *g.ChromosomeID)
		}
	}

	var organisms []Organism
	if err := selectIn(ctx, q, &organisms,
		`SELECT `+organismColumns+` FROM organisms WHERE id IN (?)`, uniq(organismIDs)); err != nil {
		return fmt.Errorf("load gene organisms: %w", err)
	}
	var chromosomes []Chromosome
	if err := selectIn(ctx, q, &chromosomes,
		`SELECT id, organism_id, name, accession, sequence_length, gc_content FROM chromosomes WHERE id IN (?)`,
		uniq(chromosomeIDs)); err != nil {
		return fmt.Errorf("load gene chromosomes: %w", err)
	}

	orgByID := make(map[string]*Organism, len(organisms))
	for i := range organisms {
		orgByID[organisms[i].ID] = &organisms[i]
	}
	chrByID := make(map[string]*Chromosome, len(chromosomes))
	for i := range chromosomes {
		chrByID[chromosomes[i].ID] = &chromosomes[i]
	}

	for i := range genes {
		genes[i].Organism = orgByID[genes[i].OrganismID]
		if genes[i].ChromosomeID != nil {
			genes[i].Chromosome = chrByID[*genes[i].ChromosomeID]
		}
	}
	return nil
}

// ListOrganismGenes returns every gene of an organism, unpaginated, for
// aggregation.
func ListOrganismGenes(ctx context.Context, q sqlx.ExtContext, organismID string) ([]Gene, error) {
	genes := []Gene{}
	if err := sqlx.SelectContext(ctx, q, &genes, rebind(q,
		`SELECT `+geneColumns+` FROM genes g WHERE g.organism_id = ? ORDER BY g.start_position`), organismID); err != nil {
		return nil, fmt.Errorf("select genes of %s: %w", organismID, err)
	}
	return genes, nil
}

// FindGeneByLocusTag resolves a locus tag within one organism.
func FindGeneByLocusTag(ctx context.Context, q sqlx.ExtContext, organismID, locusTag string) (*Gene, error) {
	var g Gene
	if err := getOne(ctx, q, &g, rebind(q,
		`SELECT `+geneColumns+` FROM genes g WHERE g.organism_id = ? AND g.locus_tag = ?`), organismID, locusTag); err != nil {
		return nil, err
	}
	return &g, nil
}
