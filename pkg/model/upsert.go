package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Upserts used by ingestion. Each returns the row id and whether the row
// was created. Optional fields that are nil on input never overwrite a
// stored value.

// UpsertOrganism matches on scientific name, case-insensitively.
func UpsertOrganism(ctx context.Context, q sqlx.ExtContext, o Organism) (string, bool, error) {

	o.ScientificName = strings.TrimSpace(o.ScientificName)
	if o.ScientificName == "" {
		return "", false, fmt.Errorf("%w: organism needs a scientific name", ErrInvalidInput)
	}

	var id string
	err := getOne(ctx, q, &id, rebind(q,
		`SELECT id FROM organisms WHERE LOWER(scientific_name) = LOWER(?) ORDER BY created_at, id LIMIT 1`), o.ScientificName)
	switch {
	case err == ErrNotFound:
		id = uuid.NewString()
		if _, err := q.ExecContext(ctx, rebind(q,
			`INSERT INTO organisms (`+organismColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			id, o.ScientificName, o.CommonName, o.Habitat, o.Description, o.GenomeSizeMb, o.TaxonomyID,
			time.Now().UTC()); err != nil {
			return "", false, fmt.Errorf("insert organism %s: %w", o.ScientificName, err)
		}
		return id, true, nil
	case err != nil:
		return "", false, fmt.Errorf("find organism %s: %w", o.ScientificName, err)
	}

	if _, err := q.ExecContext(ctx, rebind(q,
		`UPDATE organisms SET common_name = COALESCE(?, common_name), habitat = COALESCE(?, habitat),
		 description = COALESCE(?, description), genome_size_mb = COALESCE(?, genome_size_mb),
		 taxonomy_id = COALESCE(?, taxonomy_id)
		 WHERE id = ?`),
		o.CommonName, o.Habitat, o.Description, o.GenomeSizeMb, o.TaxonomyID, id); err != nil {
		return "", false, fmt.Errorf("update organism %s: %w", id, err)
	}
	return id, false, nil
}

// UpsertChromosome matches on organism plus accession, or name when the
// accession is absent.
func UpsertChromosome(ctx context.Context, q sqlx.ExtContext, c Chromosome) (string, bool, error) {

	if c.OrganismID == "" || c.Name == "" {
		return "", false, fmt.Errorf("%w: chromosome needs an organism and a name", ErrInvalidInput)
	}

	var id string
	var err error
	if c.Accession != nil && *c.Accession != "" {
		err = getOne(ctx, q, &id, rebind(q,
			`SELECT id FROM chromosomes WHERE organism_id = ? AND accession = ? ORDER BY id LIMIT 1`), c.OrganismID, *c.Accession)
	} else {
		err = getOne(ctx, q, &id, rebind(q,
			`SELECT id FROM chromosomes WHERE organism_id = ? AND name = ? ORDER BY id LIMIT 1`), c.OrganismID, c.Name)
	}

	switch {
	case err == ErrNotFound:
		id = uuid.NewString()
		if _, err := q.ExecContext(ctx, rebind(q,
			`INSERT INTO chromosomes (id, organism_id, name, accession, sequence_length, gc_content) VALUES (?, ?, ?, ?, ?, ?)`),
			id, c.OrganismID, c.Name, c.Accession, c.SequenceLength, c.GCContent); err != nil {
			return "", false, fmt.Errorf("insert chromosome %s: %w", c.Name, err)
		}
		return id, true, nil
	case err != nil:
		return "", false, fmt.Errorf("find chromosome %s: %w", c.Name, err)
	}

	if _, err := q.ExecContext(ctx, rebind(q,
		`UPDATE chromosomes SET name = ?, accession = COALESCE(?, accession),
		 sequence_length = COALESCE(?, sequence_length), gc_content = COALESCE(?, gc_content)
		 WHERE id = ?`),
		c.Name, c.Accession, c.SequenceLength, c.GCContent, id); err != nil {
		return "", false, fmt.Errorf("update chromosome %s: %w", id, err)
	}
	return id, false, nil
}

// UpsertGene matches on organism plus locus tag.
func UpsertGene(ctx context.Context, q sqlx.ExtContext, g Gene) (string, bool, error) {

	if g.OrganismID == "" || g.LocusTag == "" {
		return "", false, fmt.Errorf("%w: gene needs an organism and a locus tag", ErrInvalidInput)
	}
	if g.Strand != "+" && g.Strand != "-" {
		return "", false, fmt.Errorf("%w: gene %s has strand %q", ErrInvalidInput, g.LocusTag, g.Strand)
	}
	if g.Symbol == "" {
		g.Symbol = g.LocusTag
	}
	if g.Name == "" {
		g.Name = g.Symbol
	}

	existing, err := FindGeneByLocusTag(ctx, q, g.OrganismID, g.LocusTag)
	switch {
	case err == ErrNotFound:
		id := uuid.NewString()
		if _, err := q.ExecContext(ctx, rebind(q,
			`INSERT INTO genes (id, organism_id, chromosome_id, locus_tag, symbol, name, description,
			 start_position, end_position, strand) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			id, g.OrganismID, g.ChromosomeID, g.LocusTag, g.Symbol, g.Name, g.Description,
			g.StartPosition, g.EndPosition, g.Strand); err != nil {
			return "", false, fmt.Errorf("insert gene %s: %w", g.LocusTag, err)
		}
		return id, true, nil
	case err != nil:
		return "", false, fmt.Errorf("find gene %s: %w", g.LocusTag, err)
	}

	if _, err := q.ExecContext(ctx, rebind(q,
		`UPDATE genes SET chromosome_id = COALESCE(?, chromosome_id), symbol = ?, name = ?,
		 description = COALESCE(?, description), start_position = ?, end_position = ?, strand = ?
		 WHERE id = ?`),
		g.ChromosomeID, g.Symbol, g.Name, g.Description, g.StartPosition, g.EndPosition, g.Strand,
		existing.ID); err != nil {
		return "", false, fmt.Errorf("update gene %s: %w", existing.ID, err)
	}
	return existing.ID, false, nil
}

// UpsertProtein matches on accession. An existing protein may move to
// another gene of the same organism only; ErrCrossOrganism otherwise.
func UpsertProtein(ctx context.Context, q sqlx.ExtContext, p Protein) (string, bool, error) {

	if p.GeneID == "" || p.Accession == "" {
		return "", false, fmt.Errorf("%w: protein needs a gene and an accession", ErrInvalidInput)
	}
	if p.Name == "" {
		p.Name = p.Accession
	}

	existing, err := FindProteinByAccession(ctx, q, p.Accession)
	switch {
	case err == ErrNotFound:
		id := uuid.NewString()
		if _, err := q.ExecContext(ctx, rebind(q,
			`INSERT INTO proteins (id, gene_id, accession, name, description, sequence, sequence_length,
			 molecular_weight, localization, function_class, structure_class)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			id, p.GeneID, p.Accession, p.Name, p.Description, p.Sequence, p.SequenceLength,
			p.MolecularWeight, p.Localization, p.FunctionClass, p.StructureClass); err != nil {
			return "", false, fmt.Errorf("insert protein %s: %w", p.Accession, err)
		}
		return id, true, nil
	case err != nil:
		return "", false, fmt.Errorf("find protein %s: %w", p.Accession, err)
	}

	if existing.GeneID != p.GeneID {
		var owners []struct {
			ID         string `db:"id"`
			OrganismID string `db:"organism_id"`
		}
		if err := selectIn(ctx, q, &owners, `SELECT id, organism_id FROM genes WHERE id IN (?)`,
			[]string{existing.GeneID, p.GeneID}); err != nil {
			return "", false, fmt.Errorf("genes of protein %s: %w", p.Accession, err)
		}
		organismOf := map[string]string{}
		for _, o := range owners {
			organismOf[o.ID] = o.OrganismID
		}
		if _, ok := organismOf[p.GeneID]; !ok {
			return "", false, fmt.Errorf("gene %s: %w", p.GeneID, ErrNotFound)
		}
		if organismOf[existing.GeneID] != organismOf[p.GeneID] {
			return "", false, fmt.Errorf("%w: protein %s belongs to organism %s",
				ErrCrossOrganism, p.Accession, organismOf[existing.GeneID])
		}
	}

	if _, err := q.ExecContext(ctx, rebind(q,
		`UPDATE proteins SET gene_id = ?, name = ?, description = COALESCE(?, description),
		 sequence = COALESCE(?, sequence), sequence_length = ?, molecular_weight = COALESCE(?, molecular_weight),
		 localization = COALESCE(?, localization), function_class = COALESCE(?, function_class),
		 structure_class = COALESCE(?, structure_class)
		 WHERE id = ?`),
		p.GeneID, p.Name, p.Description, p.Sequence, p.SequenceLength, p.MolecularWeight,
		p.Localization, p.FunctionClass, p.StructureClass, existing.ID); err != nil {
		return "", false, fmt.Errorf("update protein %s: %w", existing.ID, err)
	}
	return existing.ID, false, nil
}

// UpsertSecretionInfo keeps one secretion record per protein.
func UpsertSecretionInfo(ctx context.Context, q sqlx.ExtContext, s SecretionInfo) (string, bool, error) {

	if s.ProteinID == "" {
		return "", false, fmt.Errorf("%w: secretion info needs a protein", ErrInvalidInput)
	}

	var id string
	err := getOne(ctx, q, &id, rebind(q, `SELECT id FROM protein_secretion_info WHERE protein_id = ?`), s.ProteinID)
	switch {
	case err == ErrNotFound:
		id = uuid.NewString()
		if _, err := q.ExecContext(ctx, rebind(q,
			`INSERT INTO protein_secretion_info (id, protein_id, is_secreted, secretion_pathway, is_secretion_machinery, predicted_location)
			 VALUES (?, ?, ?, ?, ?, ?)`),
			id, s.ProteinID, s.IsSecreted, s.SecretionPathway, s.IsSecretionMachinery, s.PredictedLocation); err != nil {
			return "", false, fmt.Errorf("insert secretion info of %s: %w", s.ProteinID, err)
		}
		return id, true, nil
	case err != nil:
		return "", false, fmt.Errorf("find secretion info of %s: %w", s.ProteinID, err)
	}

	if _, err := q.ExecContext(ctx, rebind(q,
		`UPDATE protein_secretion_info SET is_secreted = ?, secretion_pathway = ?, is_secretion_machinery = ?,
		 predicted_location = ? WHERE id = ?`),
		s.IsSecreted, s.SecretionPathway, s.IsSecretionMachinery, s.PredictedLocation, id); err != nil {
		return "", false, fmt.Errorf("update secretion info %s: %w", id, err)
	}
	return id, false, nil
}

// UpsertArticle matches on DOI when present, otherwise on title.
func UpsertArticle(ctx context.Context, q sqlx.ExtContext, a Article) (string, bool, error) {

	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return "", false, fmt.Errorf("%w: article needs a title", ErrInvalidInput)
	}

	var id string
	var err error
	if a.DOI != nil && *a.DOI != "" {
		err = getOne(ctx, q, &id, rebind(q, `SELECT id FROM articles WHERE doi = ?`), *a.DOI)
	} else {
		err = getOne(ctx, q, &id, rebind(q, `SELECT id FROM articles WHERE title = ? ORDER BY id LIMIT 1`), a.Title)
	}

	switch {
	case err == ErrNotFound:
		id = uuid.NewString()
		if _, err := q.ExecContext(ctx, rebind(q,
			`INSERT INTO articles (id, title, journal, doi, url, summary, published_date) VALUES (?, ?, ?, ?, ?, ?, ?)`),
			id, a.Title, a.Journal, a.DOI, a.URL, a.Summary, a.PublishedDate); err != nil {
			return "", false, fmt.Errorf("insert article %q: %w", a.Title, err)
		}
		return id, true, nil
	case err != nil:
		return "", false, fmt.Errorf("find article %q: %w", a.Title, err)
	}

	if _, err := q.ExecContext(ctx, rebind(q,
		`UPDATE articles SET title = ?, journal = COALESCE(?, journal), url = COALESCE(?, url),
		 summary = COALESCE(?, summary), published_date = COALESCE(?, published_date)
		 WHERE id = ?`),
		a.Title, a.Journal, a.URL, a.Summary, a.PublishedDate, id); err != nil {
		return "", false, fmt.Errorf("update article %s: %w", id, err)
	}
	return id, false, nil
}

// LinkGeneArticle attaches an article to a gene, replacing the link
// metadata if the pair is already linked.
func LinkGeneArticle(ctx context.Context, q sqlx.ExtContext, geneID, articleID string, keyFinding *string, relevance *float64) (bool, error) {

	var n int
	if err := sqlx.GetContext(ctx, q, &n, rebind(q,
		`SELECT COUNT(*) FROM gene_articles WHERE gene_id = ? AND article_id = ?`), geneID, articleID); err != nil {
		return false, fmt.Errorf("find link %s/%s: %w", geneID, articleID, err)
	}

	if n == 0 {
		if _, err := q.ExecContext(ctx, rebind(q,
			`INSERT INTO gene_articles (gene_id, article_id, key_finding, relevance_score) VALUES (?, ?, ?, ?)`),
			geneID, articleID, keyFinding, relevance); err != nil {
			return false, fmt.Errorf("link %s/%s: %w", geneID, articleID, err)
		}
		return true, nil
	}

	if _, err := q.ExecContext(ctx, rebind(q,
		`UPDATE gene_articles SET key_finding = ?, relevance_score = ? WHERE gene_id = ? AND article_id = ?`),
		keyFinding, relevance, geneID, articleID); err != nil {
		return false, fmt.Errorf("update link %s/%s: %w", geneID, articleID, err)
	}
	return false, nil
}
