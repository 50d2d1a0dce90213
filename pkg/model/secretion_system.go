package model

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yumyai/omicsatlas/pkg/db"
)

const systemColumns = `id, organism_id, chromosome_id, name, system_type, description, genomic_start, genomic_end`

// ListSecretionSystems lists an organism's systems, optionally by type.
func ListSecretionSystems(ctx context.Context, q sqlx.ExtContext, organismID, systemType string) ([]SecretionSystem, error) {

	var w where
	if organismID != "" {
		w.add("organism_id = ?", organismID)
	}
	if systemType != "" {
		w.add("system_type = ?", systemType)
	}

	systems := []SecretionSystem{}
	if err := sqlx.SelectContext(ctx, q, &systems, rebind(q,
		`SELECT `+systemColumns+` FROM secretion_systems`+w.String()+` ORDER BY genomic_start, name`), w.args...); err != nil {
		return nil, fmt.Errorf("select secretion systems: %w", err)
	}
	for i := range systems {
		systems[i].Components = []SecretionComponent{}
		systems[i].Cargo = []Protein{}
	}
	return systems, nil
}

// GetSecretionSystem loads a system with its component map, ordered along
// the genome, and its cargo proteins.
func GetSecretionSystem(ctx context.Context, q sqlx.ExtContext, id string) (*SecretionSystem, error) {

	var s SecretionSystem
	if err := getOne(ctx, q, &s, rebind(q, `SELECT `+systemColumns+` FROM secretion_systems WHERE id = ?`), id); err != nil {
		return nil, err
	}

	s.Components = []SecretionComponent{}
	if err := sqlx.SelectContext(ctx, q, &s.Components, rebind(q,
		`SELECT c.id, c.secretion_system_id, c.gene_id, c.protein_id, c.locus_tag, c.component_name,
		        c.component_type, c.genomic_start, c.genomic_end,
		        g.symbol AS gene_symbol, p.accession AS protein_accession
		 FROM secretion_system_components c
		 JOIN genes g ON g.id = c.gene_id
		 JOIN proteins p ON p.id = c.protein_id
		 WHERE c.secretion_system_id = ?
		 ORDER BY c.genomic_start, c.locus_tag`), id); err != nil {
		return nil, fmt.Errorf("select components of %s: %w", id, err)
	}

	var cargoIDs []string
	if err := sqlx.SelectContext(ctx, q, &cargoIDs, rebind(q,
		`SELECT protein_id FROM secretion_system_cargo WHERE secretion_system_id = ?`), id); err != nil {
		return nil, fmt.Errorf("select cargo of %s: %w", id, err)
	}
	s.Cargo = []Protein{}
	if len(cargoIDs) > 0 {
		if err := selectIn(ctx, q, &s.Cargo,
			`SELECT `+proteinColumns+` FROM proteins p WHERE p.id IN (?) ORDER BY p.accession`, cargoIDs); err != nil {
			return nil, fmt.Errorf("select cargo proteins of %s: %w", id, err)
		}
		if err := attachProteinRelations(ctx, q, s.Cargo); err != nil {
			return nil, err
		}
	}

	return &s, nil
}

// ComponentInput describes one component by locus tag.
type ComponentInput struct {
	LocusTag      string
	ComponentName string
	ComponentType string
}

// SecretionSystemInput describes a system to create. Components and cargo
// are resolved by locus tag / accession within the system's organism.
type SecretionSystemInput struct {
	OrganismID     string
	ChromosomeID   string
	Name           string
	SystemType     string
	Description    string
	Components     []ComponentInput
	CargoAccession []string
}

// CreateSecretionSystem inserts a system and its components in one
// transaction. Every referenced gene, protein and the chromosome must belong
// to the system's organism, otherwise ErrCrossOrganism is returned. The
// genomic span is the envelope of the component genes.
func CreateSecretionSystem(ctx context.Context, odb *db.OmicsDB, in SecretionSystemInput) (*SecretionSystem, error) {

	if in.OrganismID == "" || in.ChromosomeID == "" || in.Name == "" || in.SystemType == "" {
		return nil, fmt.Errorf("%w: organism, chromosome, name and type are required", ErrInvalidInput)
	}
	if len(in.Components) == 0 {
		return nil, fmt.Errorf("%w: a secretion system needs at least one component", ErrInvalidInput)
	}

	tx, err := odb.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var chromosome Chromosome
	if err := getOne(ctx, tx, &chromosome, tx.Rebind(
		`SELECT id, organism_id, name, accession, sequence_length, gc_content FROM chromosomes WHERE id = ?`), in.ChromosomeID); err != nil {
		return nil, fmt.Errorf("chromosome %s: %w", in.ChromosomeID, err)
	}
	if chromosome.OrganismID != in.OrganismID {
		return nil, fmt.Errorf("%w: chromosome %s", ErrCrossOrganism, in.ChromosomeID)
	}

	system := SecretionSystem{
		ID:           uuid.NewString(),
		OrganismID:   in.OrganismID,
		ChromosomeID: in.ChromosomeID,
		Name:         in.Name,
		SystemType:   in.SystemType,
		Description:  in.Description,
	}

	for i, ci := range in.Components {
		gene, err := FindGeneByLocusTag(ctx, tx, in.OrganismID, ci.LocusTag)
		if err == ErrNotFound {
			return nil, fmt.Errorf("%w: locus tag %s is not a gene of organism %s", ErrCrossOrganism, ci.LocusTag, in.OrganismID)
		}
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", ci.LocusTag, err)
		}
		var proteinID string
		if err := getOne(ctx, tx, &proteinID, tx.Rebind(
			`SELECT id FROM proteins WHERE gene_id = ? ORDER BY accession LIMIT 1`), gene.ID); err != nil {
			return nil, fmt.Errorf("component %s has no protein: %w", ci.LocusTag, err)
		}

		c := SecretionComponent{
			ID:                uuid.NewString(),
			SecretionSystemID: system.ID,
			GeneID:            gene.ID,
			ProteinID:         proteinID,
			LocusTag:          ci.LocusTag,
			ComponentName:     ci.ComponentName,
			ComponentType:     ci.ComponentType,
			GenomicStart:      gene.StartPosition,
			GenomicEnd:        gene.EndPosition,
			GeneSymbol:        gene.Symbol,
		}
		if i == 0 || c.GenomicStart < system.GenomicStart {
			system.GenomicStart = c.GenomicStart
		}
		if c.GenomicEnd > system.GenomicEnd {
			system.GenomicEnd = c.GenomicEnd
		}
		system.Components = append(system.Components, c)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(
		`INSERT INTO secretion_systems (`+systemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		system.ID, system.OrganismID, system.ChromosomeID, system.Name, system.SystemType,
		system.Description, system.GenomicStart, system.GenomicEnd); err != nil {
		return nil, fmt.Errorf("insert secretion system: %w", err)
	}

	for _, c := range system.Components {
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO secretion_system_components
			 (id, secretion_system_id, gene_id, protein_id, locus_tag, component_name, component_type, genomic_start, genomic_end)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			c.ID, c.SecretionSystemID, c.GeneID, c.ProteinID, c.LocusTag, c.ComponentName,
			c.ComponentType, c.GenomicStart, c.GenomicEnd); err != nil {
			return nil, fmt.Errorf("insert component %s: %w", c.LocusTag, err)
		}
	}

	for _, acc := range uniq(in.CargoAccession) {
		var cargo struct {
			ID         string `db:"id"`
			OrganismID string `db:"organism_id"`
		}
		if err := getOne(ctx, tx, &cargo, tx.Rebind(
			`SELECT p.id, g.organism_id FROM proteins p JOIN genes g ON g.id = p.gene_id WHERE p.accession = ?`), acc); err != nil {
			return nil, fmt.Errorf("cargo %s: %w", acc, err)
		}
		if cargo.OrganismID != in.OrganismID {
			return nil, fmt.Errorf("%w: cargo protein %s", ErrCrossOrganism, acc)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO secretion_system_cargo (secretion_system_id, protein_id) VALUES (?, ?)`), system.ID, cargo.ID); err != nil {
			return nil, fmt.Errorf("insert cargo %s: %w", acc, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit secretion system: %w", err)
	}
	system.Cargo = []Protein{}
	return &system, nil
}
