package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const organismColumns = `id, scientific_name, common_name, habitat, description, genome_size_mb, taxonomy_id, created_at`

// ListOrganisms returns every organism ordered by scientific name, each with
// its chromosomes and gene symbols loaded.
func ListOrganisms(ctx context.Context, q sqlx.ExtContext) ([]Organism, error) {

	organisms := []Organism{}
	if err := sqlx.SelectContext(ctx, q, &organisms,
		`SELECT `+organismColumns+` FROM organisms ORDER BY scientific_name, id`); err != nil {
		return nil, fmt.Errorf("select organisms: %w", err)
	}

	ids := make([]string, len(organisms))
	for i := range organisms {
		ids[i] = organisms[i].ID
	}

	var chromosomes []Chromosome
	if err := selectIn(ctx, q, &chromosomes,
		`SELECT id, organism_id, name, accession, sequence_length, gc_content
		 FROM chromosomes WHERE organism_id IN (?) ORDER BY name`, ids); err != nil {
		return nil, fmt.Errorf("select chromosomes: %w", err)
	}

	var symbols []struct {
		OrganismID string `db:"organism_id"`
		Symbol     string `db:"symbol"`
	}
	if err := selectIn(ctx, q, &symbols,
		`SELECT organism_id, symbol FROM genes WHERE organism_id IN (?) ORDER BY start_position, symbol`, ids); err != nil {
		return nil, fmt.Errorf("select gene symbols: %w", err)
	}

	index := make(map[string]*Organism, len(organisms))
	for i := range organisms {
		organisms[i].Chromosomes = []Chromosome{}
		organisms[i].GeneSymbols = []string{}
		index[organisms[i].ID] = &organisms[i]
	}
	for _, c := range chromosomes {
		if o, ok := index[c.OrganismID]; ok {
			o.Chromosomes = append(o.Chromosomes, c)
		}
	}
	for _, s := range symbols {
		if o, ok := index[s.OrganismID]; ok {
			o.GeneSymbols = append(o.GeneSymbols, s.Symbol)
			o.GeneCount++
		}
	}

	return organisms, nil
}

// GetOrganism loads one organism with chromosomes, gene count and profile.
func GetOrganism(ctx context.Context, q sqlx.ExtContext, id string) (*Organism, error) {

	var o Organism
	if err := getOne(ctx, q, &o, rebind(q, `SELECT `+organismColumns+` FROM organisms WHERE id = ?`), id); err != nil {
		return nil, err
	}

	o.Chromosomes = []Chromosome{}
	if err := sqlx.SelectContext(ctx, q, &o.Chromosomes, rebind(q,
		`SELECT id, organism_id, name, accession, sequence_length, gc_content
		 FROM chromosomes WHERE organism_id = ? ORDER BY name`), id); err != nil {
		return nil, fmt.Errorf("select chromosomes of %s: %w", id, err)
	}

	if err := sqlx.GetContext(ctx, q, &o.GeneCount, rebind(q, `SELECT COUNT(*) FROM genes WHERE organism_id = ?`), id); err != nil {
		return nil, fmt.Errorf("count genes of %s: %w", id, err)
	}

	profile, err := GetProfile(ctx, q, id)
	switch {
	case err == nil:
		o.Profile = profile
	case err != ErrNotFound:
		return nil, err
	}

	return &o, nil
}

// OrganismExists reports whether id names an organism.
func OrganismExists(ctx context.Context, q sqlx.ExtContext, id string) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, rebind(q, `SELECT COUNT(*) FROM organisms WHERE id = ?`), id); err != nil {
		return false, fmt.Errorf("check organism %s: %w", id, err)
	}
	return n > 0, nil
}

// FindOrganismByName resolves a scientific name, case-insensitively. When
// duplicates exist the oldest row wins.
func FindOrganismByName(ctx context.Context, q sqlx.ExtContext, name string) (*Organism, error) {
	var o Organism
	if err := getOne(ctx, q, &o, rebind(q,
		`SELECT `+organismColumns+` FROM organisms WHERE LOWER(scientific_name) = LOWER(?) ORDER BY created_at, id LIMIT 1`),
		strings.TrimSpace(name)); err != nil {
		return nil, err
	}
	return &o, nil
}

// FindChromosome resolves a chromosome of one organism by accession or name.
func FindChromosome(ctx context.Context, q sqlx.ExtContext, organismID, ref string) (*Chromosome, error) {
	var c Chromosome
	if err := getOne(ctx, q, &c, rebind(q,
		`SELECT id, organism_id, name, accession, sequence_length, gc_content FROM chromosomes
		 WHERE organism_id = ? AND (accession = ? OR name = ?) ORDER BY id LIMIT 1`),
		organismID, ref, ref); err != nil {
		return nil, err
	}
	return &c, nil
}
