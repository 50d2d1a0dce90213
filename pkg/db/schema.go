package db

import (
	"context"
	"fmt"
	"strings"
)

// The DDL is written in the subset both sqlite and postgres accept.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS organisms (
		id TEXT PRIMARY KEY,
		scientific_name TEXT NOT NULL,
		common_name TEXT,
		habitat TEXT,
		description TEXT,
		genome_size_mb DOUBLE PRECISION,
		taxonomy_id TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_organisms_name ON organisms (scientific_name)`,

	`CREATE TABLE IF NOT EXISTS chromosomes (
		id TEXT PRIMARY KEY,
		organism_id TEXT NOT NULL REFERENCES organisms(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		accession TEXT,
		sequence_length BIGINT,
		gc_content DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chromosomes_organism ON chromosomes (organism_id)`,

	`CREATE TABLE IF NOT EXISTS genes (
		id TEXT PRIMARY KEY,
		organism_id TEXT NOT NULL REFERENCES organisms(id) ON DELETE CASCADE,
		chromosome_id TEXT REFERENCES chromosomes(id) ON DELETE SET NULL,
		locus_tag TEXT NOT NULL,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		start_position BIGINT NOT NULL,
		end_position BIGINT NOT NULL,
		strand TEXT NOT NULL,
		UNIQUE (organism_id, locus_tag)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_genes_chromosome ON genes (chromosome_id)`,

	`CREATE TABLE IF NOT EXISTS proteins (
		id TEXT PRIMARY KEY,
		gene_id TEXT NOT NULL REFERENCES genes(id) ON DELETE CASCADE,
		accession TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		sequence TEXT,
		sequence_length INTEGER NOT NULL,
		molecular_weight DOUBLE PRECISION,
		localization TEXT,
		function_class TEXT,
		structure_class TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_proteins_gene ON proteins (gene_id)`,

	`CREATE TABLE IF NOT EXISTS protein_secretion_info (
		id TEXT PRIMARY KEY,
		protein_id TEXT NOT NULL UNIQUE REFERENCES proteins(id) ON DELETE CASCADE,
		is_secreted BOOLEAN NOT NULL,
		secretion_pathway TEXT,
		is_secretion_machinery BOOLEAN NOT NULL,
		predicted_location TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS secretion_systems (
		id TEXT PRIMARY KEY,
		organism_id TEXT NOT NULL REFERENCES organisms(id) ON DELETE CASCADE,
		chromosome_id TEXT NOT NULL REFERENCES chromosomes(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		system_type TEXT NOT NULL,
		description TEXT NOT NULL,
		genomic_start BIGINT NOT NULL,
		genomic_end BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS secretion_system_components (
		id TEXT PRIMARY KEY,
		secretion_system_id TEXT NOT NULL REFERENCES secretion_systems(id) ON DELETE CASCADE,
		gene_id TEXT NOT NULL REFERENCES genes(id) ON DELETE CASCADE,
		protein_id TEXT NOT NULL REFERENCES proteins(id) ON DELETE CASCADE,
		locus_tag TEXT NOT NULL,
		component_name TEXT NOT NULL,
		component_type TEXT NOT NULL,
		genomic_start BIGINT NOT NULL,
		genomic_end BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS secretion_system_cargo (
		secretion_system_id TEXT NOT NULL REFERENCES secretion_systems(id) ON DELETE CASCADE,
		protein_id TEXT NOT NULL REFERENCES proteins(id) ON DELETE CASCADE,
		PRIMARY KEY (secretion_system_id, protein_id)
	)`,

	`CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		journal TEXT,
		doi TEXT UNIQUE,
		url TEXT,
		summary TEXT,
		published_date TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS gene_articles (
		gene_id TEXT NOT NULL REFERENCES genes(id) ON DELETE CASCADE,
		article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
		key_finding TEXT,
		relevance_score DOUBLE PRECISION,
		PRIMARY KEY (gene_id, article_id)
	)`,

	`CREATE TABLE IF NOT EXISTS organism_profiles (
		id TEXT PRIMARY KEY,
		organism_id TEXT NOT NULL UNIQUE REFERENCES organisms(id) ON DELETE CASCADE,
		gram_stain TEXT,
		cell_shape TEXT,
		motility TEXT,
		oxygen_requirement TEXT,
		optimal_temperature DOUBLE PRECISION,
		habitat TEXT,
		ecology_description TEXT,
		version_number INTEGER NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS profile_history (
		id TEXT PRIMARY KEY,
		organism_id TEXT NOT NULL REFERENCES organisms(id) ON DELETE CASCADE,
		version_number INTEGER NOT NULL,
		field_name TEXT NOT NULL,
		old_value TEXT,
		new_value TEXT,
		reason TEXT NOT NULL,
		source TEXT NOT NULL,
		changed_by TEXT NOT NULL,
		changed_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_profile_history_organism ON profile_history (organism_id)`,
}

// Migrate creates missing tables. It is idempotent.
func (odb *OmicsDB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := odb.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(stmt), "\n")
	return strings.TrimSuffix(line, " (")
}
