package model

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const proteinColumns = `p.id, p.gene_id, p.accession, p.name, p.description, p.sequence, p.sequence_length,
	p.molecular_weight, p.localization, p.function_class, p.structure_class`

type ProteinFilter struct {
	GeneID     string
	OrganismID string
	Page       Page
}

// SecretionFilter narrows ListSecretedProteins.
type SecretionFilter struct {
	OrganismID string
	Pathway    string
	IsSecreted *bool
	Page       Page
}

// ListProteins returns one page of proteins with gene and secretion info.
func ListProteins(ctx context.Context, q sqlx.ExtContext, f ProteinFilter) ([]Protein, int, error) {

	var w where
	if f.GeneID != "" {
		w.add("p.gene_id = ?", f.GeneID)
	}
	if f.OrganismID != "" {
		w.add("g.organism_id = ?", f.OrganismID)
	}

	return listProteins(ctx, q, `FROM proteins p JOIN genes g ON g.id = p.gene_id`+w.String(), w.args, f.Page)
}

// ListSecretedProteins lists proteins that have secretion info, filtered by
// organism, pathway and secreted flag.
func ListSecretedProteins(ctx context.Context, q sqlx.ExtContext, f SecretionFilter) ([]Protein, int, error) {

	var w where
	if f.OrganismID != "" {
		w.add("g.organism_id = ?", f.OrganismID)
	}
	if f.Pathway != "" {
		w.add("s.secretion_pathway = ?", f.Pathway)
	}
	if f.IsSecreted != nil {
		w.add("s.is_secreted = ?", *f.IsSecreted)
	}

	from := `FROM proteins p
		JOIN genes g ON g.id = p.gene_id
		JOIN protein_secretion_info s ON s.protein_id = p.id` + w.String()
	return listProteins(ctx, q, from, w.args, f.Page)
}

func listProteins(ctx context.Context, q sqlx.ExtContext, from string, args []any, page Page) ([]Protein, int, error) {

	var total int
	if err := sqlx.GetContext(ctx, q, &total, rebind(q, `SELECT COUNT(*) `+from), args...); err != nil {
		return nil, 0, fmt.Errorf("count proteins: %w", err)
	}

	pageArgs := append(append([]any{}, args...), page.Limit, page.Offset())
	proteins := []Protein{}
	if err := sqlx.SelectContext(ctx, q, &proteins, rebind(q,
		`SELECT `+proteinColumns+` `+from+` ORDER BY p.accession LIMIT ? OFFSET ?`), pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("select proteins: %w", err)
	}

	if err := attachProteinRelations(ctx, q, proteins); err != nil {
		return nil, 0, err
	}
	return proteins, total, nil
}

// GetProtein loads one protein with its gene (and the gene's organism) and
// secretion info.
func GetProtein(ctx context.Context, q sqlx.ExtContext, id string) (*Protein, error) {
	var p Protein
	if err := getOne(ctx, q, &p, rebind(q, `SELECT `+proteinColumns+` FROM proteins p WHERE p.id = ?`), id); err != nil {
		return nil, err
	}
	proteins := []Protein{p}
	if err := attachProteinRelations(ctx, q, proteins); err != nil {
		return nil, err
	}
	if proteins[0].Gene != nil {
		genes := []Gene{*proteins[0].Gene}
		if err := attachGeneRelations(ctx, q, genes); err != nil {
			return nil, err
		}
		proteins[0].Gene = &genes[0]
	}
	return &proteins[0], nil
}

// FindProteinByAccession resolves a protein by its unique accession.
func FindProteinByAccession(ctx context.Context, q sqlx.ExtContext, accession string) (*Protein, error) {
	var p Protein
	if err := getOne(ctx, q, &p, rebind(q, `SELECT `+proteinColumns+` FROM proteins p WHERE p.accession = ?`), accession); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProteinsOfGenes returns every protein encoded by the given genes.
func ProteinsOfGenes(ctx context.Context, q sqlx.ExtContext, geneIDs []string) ([]Protein, error) {
	proteins := []Protein{}
	if err := selectIn(ctx, q, &proteins,
		`SELECT `+proteinColumns+` FROM proteins p WHERE p.gene_id IN (?) ORDER BY p.accession`, uniq(geneIDs)); err != nil {
		return nil, fmt.Errorf("select proteins of genes: %w", err)
	}
	if err := attachProteinRelations(ctx, q, proteins); err != nil {
		return nil, err
	}
	return proteins, nil
}

func attachProteinRelations(ctx context.Context, q sqlx.ExtContext, proteins []Protein) error {
	if len(proteins) == 0 {
		return nil
	}

	var geneIDs, proteinIDs []string
	for _, p := range proteins {
		geneIDs = append(geneIDs, p.GeneID)
		proteinIDs = append(proteinIDs, p.ID)
	}

	var genes []Gene
	if err := selectIn(ctx, q, &genes, `SELECT `+geneColumns+` FROM genes g WHERE g.id IN (?)`, uniq(geneIDs)); err != nil {
		return fmt.Errorf("load protein genes: %w", err)
	}
	var infos []SecretionInfo
	if err := selectIn(ctx, q, &infos,
		`SELECT id, protein_id, is_secreted, secretion_pathway, is_secretion_machinery, predicted_location
		 FROM protein_secretion_info WHERE protein_id IN (?)`, uniq(proteinIDs)); err != nil {
		return fmt.Errorf("load secretion info: %w", err)
	}

	geneByID := make(map[string]*Gene, len(genes))
	for i := range genes {
		geneByID[genes[i].ID] = &genes[i]
	}
	infoByProtein := make(map[string]*SecretionInfo, len(infos))
	for i := range infos {
		infoByProtein[infos[i].ProteinID] = &infos[i]
	}

	for i := range proteins {
		proteins[i].Gene = geneByID[proteins[i].GeneID]
		proteins[i].SecretionInfo = infoByProtein[proteins[i].ID]
	}
	return nil
}
