package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/yumyai/omicsatlas/pkg/db"
)

// ConsolidationReport counts what one merge moved.
type ConsolidationReport struct {
	KeepID            string
	Removed           []string
	ChromosomesMoved  int
	ChromosomesMerged int
	GenesMoved        int
	GenesMerged       int
	SystemsMoved      int
	ProfileMoved      bool
}

// FindDuplicateOrganisms groups organisms sharing a scientific name, ignoring
// case and surrounding space. The oldest record of each group comes first.
func FindDuplicateOrganisms(ctx context.Context, q sqlx.ExtContext) ([][]Organism, error) {

	var organisms []Organism
	if err := sqlx.SelectContext(ctx, q, &organisms,
		`SELECT `+organismColumns+` FROM organisms ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("select organisms: %w", err)
	}

	var keys []string
	groups := map[string][]Organism{}
	for _, o := range organisms {
		key := strings.ToLower(strings.TrimSpace(o.ScientificName))
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], o)
	}

	dups := [][]Organism{}
	for _, key := range keys {
		if len(groups[key]) > 1 {
			dups = append(dups, groups[key])
		}
	}
	return dups, nil
}

// ConsolidateOrganisms folds each duplicate into keepID and deletes it, all
// in one transaction. Chromosomes and genes that already exist under keepID
// (same accession or name, same locus tag) are merged, their children
// reassigned. Empty organism fields of keepID are filled from the duplicates.
func ConsolidateOrganisms(ctx context.Context, odb *db.OmicsDB, keepID string, dupIDs []string) (*ConsolidationReport, error) {

	report := &ConsolidationReport{KeepID: keepID, Removed: []string{}}

	tx, err := odb.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, id := range append([]string{keepID}, dupIDs...) {
		ok, err := OrganismExists(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("organism %s: %w", id, ErrNotFound)
		}
	}

	for _, dupID := range uniq(dupIDs) {
		if dupID == keepID {
			continue
		}
		if err := mergeOrganism(ctx, tx, keepID, dupID, report); err != nil {
			return nil, fmt.Errorf("merge %s into %s: %w", dupID, keepID, err)
		}
		report.Removed = append(report.Removed, dupID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit consolidation: %w", err)
	}
	return report, nil
}

func mergeOrganism(ctx context.Context, tx *sqlx.Tx, keepID, dupID string, report *ConsolidationReport) error {

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		return err
	}

	if err := exec(`UPDATE organisms SET
		common_name = COALESCE(common_name, (SELECT common_name FROM organisms WHERE id = ?)),
		habitat = COALESCE(habitat, (SELECT habitat FROM organisms WHERE id = ?)),
		description = COALESCE(description, (SELECT description FROM organisms WHERE id = ?)),
		genome_size_mb = COALESCE(genome_size_mb, (SELECT genome_size_mb FROM organisms WHERE id = ?)),
		taxonomy_id = COALESCE(taxonomy_id, (SELECT taxonomy_id FROM organisms WHERE id = ?))
		WHERE id = ?`, dupID, dupID, dupID, dupID, dupID, keepID); err != nil {
		return fmt.Errorf("fill organism fields: %w", err)
	}

	// Chromosomes
	var chromosomes []Chromosome
	if err := sqlx.SelectContext(ctx, tx, &chromosomes, tx.Rebind(
		`SELECT id, organism_id, name, accession, sequence_length, gc_content FROM chromosomes WHERE organism_id = ?`), dupID); err != nil {
		return fmt.Errorf("select chromosomes: %w", err)
	}
	for _, c := range chromosomes {
		var target string
		err := getOne(ctx, tx, &target, tx.Rebind(
			`SELECT id FROM chromosomes WHERE organism_id = ? AND (name = ? OR (accession IS NOT NULL AND accession = ?))
			 ORDER BY id LIMIT 1`), keepID, c.Name, c.Accession)
		switch {
		case err == ErrNotFound:
			if err := exec(`UPDATE chromosomes SET organism_id = ? WHERE id = ?`, keepID, c.ID); err != nil {
				return fmt.Errorf("move chromosome %s: %w", c.ID, err)
			}
			report.ChromosomesMoved++
			continue
		case err != nil:
			return fmt.Errorf("match chromosome %s: %w", c.ID, err)
		}
		if err := exec(`UPDATE genes SET chromosome_id = ? WHERE chromosome_id = ?`, target, c.ID); err != nil {
			return fmt.Errorf("repoint genes of chromosome %s: %w", c.ID, err)
		}
		if err := exec(`UPDATE secretion_systems SET chromosome_id = ? WHERE chromosome_id = ?`, target, c.ID); err != nil {
			return fmt.Errorf("repoint systems of chromosome %s: %w", c.ID, err)
		}
		if err := exec(`DELETE FROM chromosomes WHERE id = ?`, c.ID); err != nil {
			return fmt.Errorf("delete chromosome %s: %w", c.ID, err)
		}
		report.ChromosomesMerged++
	}

	// Genes
	var genes []Gene
	if err := sqlx.SelectContext(ctx, tx, &genes, tx.Rebind(
		`SELECT `+geneColumns+` FROM genes g WHERE g.organism_id = ?`), dupID); err != nil {
		return fmt.Errorf("select genes: %w", err)
	}
	for _, g := range genes {
		target, err := FindGeneByLocusTag(ctx, tx, keepID, g.LocusTag)
		switch {
		case err == ErrNotFound:
			if err := exec(`UPDATE genes SET organism_id = ? WHERE id = ?`, keepID, g.ID); err != nil {
				return fmt.Errorf("move gene %s: %w", g.LocusTag, err)
			}
			report.GenesMoved++
			continue
		case err != nil:
			return fmt.Errorf("match gene %s: %w", g.LocusTag, err)
		}
		if err := exec(`UPDATE proteins SET gene_id = ? WHERE gene_id = ?`, target.ID, g.ID); err != nil {
			return fmt.Errorf("repoint proteins of %s: %w", g.LocusTag, err)
		}
		if err := exec(`UPDATE secretion_system_components SET gene_id = ? WHERE gene_id = ?`, target.ID, g.ID); err != nil {
			return fmt.Errorf("repoint components of %s: %w", g.LocusTag, err)
		}
		if err := exec(`INSERT INTO gene_articles (gene_id, article_id, key_finding, relevance_score)
			SELECT ?, article_id, key_finding, relevance_score FROM gene_articles
			WHERE gene_id = ? AND article_id NOT IN (SELECT article_id FROM gene_articles WHERE gene_id = ?)`,
			target.ID, g.ID, target.ID); err != nil {
			return fmt.Errorf("copy article links of %s: %w", g.LocusTag, err)
		}
		if err := exec(`DELETE FROM genes WHERE id = ?`, g.ID); err != nil {
			return fmt.Errorf("delete gene %s: %w", g.LocusTag, err)
		}
		report.GenesMerged++
	}

	// Secretion systems
	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE secretion_systems SET organism_id = ? WHERE organism_id = ?`), keepID, dupID)
	if err != nil {
		return fmt.Errorf("move secretion systems: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		report.SystemsMoved += int(n)
	}

	// Profile and its history move only when keepID has none.
	_, err = GetProfile(ctx, tx, keepID)
	switch {
	case err == ErrNotFound:
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE organism_profiles SET organism_id = ? WHERE organism_id = ?`), keepID, dupID)
		if err != nil {
			return fmt.Errorf("move profile: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			if err := exec(`UPDATE profile_history SET organism_id = ? WHERE organism_id = ?`, keepID, dupID); err != nil {
				return fmt.Errorf("move profile history: %w", err)
			}
			report.ProfileMoved = true
		}
	case err != nil:
		return fmt.Errorf("load profile: %w", err)
	}

	if err := exec(`DELETE FROM organisms WHERE id = ?`, dupID); err != nil {
		return fmt.Errorf("delete organism: %w", err)
	}
	return nil
}
