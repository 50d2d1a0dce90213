package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/pkg/analysis"
	"github.com/yumyai/omicsatlas/pkg/db"
	"github.com/yumyai/omicsatlas/pkg/model"
	"github.com/yumyai/omicsatlas/pkg/secretion"
)

// Summary counts what one ingestion run did.
type Summary struct {
	Kind    string
	Created int
	Updated int
	Skipped int
}

func (s Summary) String() string {
	return fmt.Sprintf("%s: %s created, %s updated, %s skipped", s.Kind,
		humanize.Comma(int64(s.Created)), humanize.Comma(int64(s.Updated)), humanize.Comma(int64(s.Skipped)))
}

func (s *Summary) count(created bool) {
	if created {
		s.Created++
	} else {
		s.Updated++
	}
}

// Importer loads annotation files into the store. Malformed records are
// counted and logged, not fatal; read and store errors abort the run.
type Importer struct {
	DB      *db.OmicsDB
	Sources *db.SourceStore
	Log     *zap.Logger
}

func NewImporter(odb *db.OmicsDB, sources *db.SourceStore, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{DB: odb, Sources: sources, Log: log}
}

func (im *Importer) open(ctx context.Context, location string) (io.ReadCloser, error) {
	return im.Sources.Open(ctx, location)
}

func (im *Importer) skip(s *Summary, reason error, fields ...zap.Field) {
	s.Skipped++
	im.Log.Warn("skipped record", append(fields, zap.String("kind", s.Kind), zap.Error(reason))...)
}

// inTx runs fn in one transaction, committing only when fn succeeds.
func (im *Importer) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := im.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// skippable reports whether err concerns the record rather than the store.
func skippable(err error) bool {
	return errors.Is(err, model.ErrInvalidInput) || errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrCrossOrganism)
}

// ImportFasta loads an NCBI tagged protein FASTA for an existing organism:
// one gene, protein and secretion record per entry.
func (im *Importer) ImportFasta(ctx context.Context, organismID, location string) (Summary, error) {
	s := Summary{Kind: "fasta"}

	exists, err := model.OrganismExists(ctx, im.DB, organismID)
	if err != nil {
		return s, err
	}
	if !exists {
		return s, fmt.Errorf("organism %s: %w", organismID, model.ErrNotFound)
	}

	rc, err := im.open(ctx, location)
	if err != nil {
		return s, err
	}
	defer rc.Close()

	records, err := ReadFasta(rc)
	if err != nil {
		return s, fmt.Errorf("%s: %w", location, err)
	}

	err = im.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, rec := range records {
			f, err := FeatureFromHeader(rec.Header)
			if err != nil {
				im.skip(&s, err, zap.Int("line", rec.Line))
				continue
			}
			f.Translation = rec.Sequence

			if !f.HasLocation {
				// Reuse coordinates of a gene loaded earlier from GenBank or GFF3.
				g, err := model.FindGeneByLocusTag(ctx, tx, organismID, f.LocusTag)
				if errors.Is(err, model.ErrNotFound) {
					im.skip(&s, fmt.Errorf("%s has no location and no known gene", f.LocusTag), zap.Int("line", rec.Line))
					continue
				}
				if err != nil {
					return err
				}
				f.Location = Location{Start: g.StartPosition, End: g.EndPosition, Strand: g.Strand}
				f.HasLocation = true
			}

			created, err := im.storeFeature(ctx, tx, organismID, nil, f)
			if skippable(err) {
				im.skip(&s, err, zap.Int("line", rec.Line))
				continue
			}
			if err != nil {
				return err
			}
			s.count(created)
		}
		return nil
	})
	return s, err
}

// ImportGenBank loads organisms, chromosomes, genes and translated proteins
// from a GenBank flat file.
func (im *Importer) ImportGenBank(ctx context.Context, location string) (Summary, error) {
	s := Summary{Kind: "genbank"}

	rc, err := im.open(ctx, location)
	if err != nil {
		return s, err
	}
	defer rc.Close()

	records, err := ReadGenBank(rc)
	if err != nil {
		return s, fmt.Errorf("%s: %w", location, err)
	}

	err = im.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, rec := range records {
			for _, reason := range rec.Skipped {
				im.skip(&s, reason, zap.String("locus", rec.Locus))
			}

			organism := model.Organism{ScientificName: rec.Organism}
			if rec.TaxonID != "" {
				organism.TaxonomyID = &rec.TaxonID
			}
			organismID, _, err := model.UpsertOrganism(ctx, tx, organism)
			if skippable(err) {
				im.skip(&s, fmt.Errorf("record %s: %w", rec.Locus, err), zap.String("locus", rec.Locus))
				continue
			}
			if err != nil {
				return err
			}

			accession := rec.ChromosomeAccession()
			chromosome := model.Chromosome{
				OrganismID: organismID,
				Name:       chromosomeName(rec),
				Accession:  &accession,
				GCContent:  rec.GCContent(),
			}
			if rec.Length > 0 {
				chromosome.SequenceLength = &rec.Length
			}
			chromosomeID, _, err := model.UpsertChromosome(ctx, tx, chromosome)
			if err != nil {
				return err
			}

			for _, f := range rec.Features {
				created, err := im.storeFeature(ctx, tx, organismID, &chromosomeID, f)
				if skippable(err) {
					im.skip(&s, err, zap.String("locus_tag", f.LocusTag))
					continue
				}
				if err != nil {
					return err
				}
				s.count(created)
			}
		}
		return nil
	})
	return s, err
}

// ImportGFF3 loads gene features for an existing organism. Each seqid
// resolves to a chromosome by accession or name and is created if missing.
func (im *Importer) ImportGFF3(ctx context.Context, organismID, location string) (Summary, error) {
	s := Summary{Kind: "gff3"}

	exists, err := model.OrganismExists(ctx, im.DB, organismID)
	if err != nil {
		return s, err
	}
	if !exists {
		return s, fmt.Errorf("organism %s: %w", organismID, model.ErrNotFound)
	}

	rc, err := im.open(ctx, location)
	if err != nil {
		return s, err
	}
	defer rc.Close()

	gff, err := ReadGFF3(rc)
	if err != nil {
		return s, fmt.Errorf("%s: %w", location, err)
	}
	for _, reason := range gff.Skipped {
		im.skip(&s, reason)
	}

	err = im.inTx(ctx, func(tx *sqlx.Tx) error {
		chromosomes := map[string]string{}
		for _, f := range gff.Features {
			chromosomeID, ok := chromosomes[f.SeqID]
			if !ok {
				id, err := resolveChromosome(ctx, tx, organismID, f.SeqID)
				if err != nil {
					return err
				}
				chromosomes[f.SeqID] = id
				chromosomeID = id
			}

			gene := geneOf(organismID, &chromosomeID, f)
			_, created, err := model.UpsertGene(ctx, tx, gene)
			if skippable(err) {
				im.skip(&s, err, zap.String("locus_tag", f.LocusTag))
				continue
			}
			if err != nil {
				return err
			}
			s.count(created)
		}
		return nil
	})
	return s, err
}

// ImportSecretionSystems creates the systems of a manifest. A system whose
// organism already has one of the same name is left alone.
func (im *Importer) ImportSecretionSystems(ctx context.Context, location string) (Summary, error) {
	s := Summary{Kind: "secretion-system"}

	rc, err := im.open(ctx, location)
	if err != nil {
		return s, err
	}
	defer rc.Close()

	manifest, err := ReadSystemManifest(rc)
	if err != nil {
		return s, fmt.Errorf("%s: %w", location, err)
	}

	for _, entry := range manifest.Systems {
		fields := []zap.Field{zap.String("system", entry.Name), zap.String("organism", entry.Organism)}

		input, exists, err := im.systemInput(ctx, entry)
		if skippable(err) {
			im.skip(&s, err, fields...)
			continue
		}
		if err != nil {
			return s, err
		}
		if exists {
			s.Skipped++
			im.Log.Info("secretion system already present", fields...)
			continue
		}

		system, err := model.CreateSecretionSystem(ctx, im.DB, input)
		if skippable(err) {
			im.skip(&s, err, fields...)
			continue
		}
		if err != nil {
			return s, err
		}
		im.Log.Debug("created secretion system", append(fields, zap.String("id", system.ID))...)
		s.Created++
	}
	return s, nil
}

func (im *Importer) systemInput(ctx context.Context, entry SystemEntry) (model.SecretionSystemInput, bool, error) {
	organism, err := model.FindOrganismByName(ctx, im.DB, entry.Organism)
	if err != nil {
		return model.SecretionSystemInput{}, false, fmt.Errorf("organism %q: %w", entry.Organism, err)
	}
	chromosome, err := model.FindChromosome(ctx, im.DB, organism.ID, entry.Chromosome)
	if err != nil {
		return model.SecretionSystemInput{}, false, fmt.Errorf("chromosome %q: %w", entry.Chromosome, err)
	}

	existing, err := model.ListSecretionSystems(ctx, im.DB, organism.ID, "")
	if err != nil {
		return model.SecretionSystemInput{}, false, err
	}
	for _, sys := range existing {
		if sys.Name == entry.Name {
			return model.SecretionSystemInput{}, true, nil
		}
	}

	input := model.SecretionSystemInput{
		OrganismID:     organism.ID,
		ChromosomeID:   chromosome.ID,
		Name:           entry.Name,
		SystemType:     entry.Type,
		Description:    entry.Description,
		CargoAccession: entry.Cargo,
	}
	for _, c := range entry.Components {
		input.Components = append(input.Components, model.ComponentInput{
			LocusTag:      c.LocusTag,
			ComponentName: c.Name,
			ComponentType: c.Type,
		})
	}
	return input, false, nil
}

// ImportArticles upserts the articles of a manifest and links each to its
// genes. Links to unknown genes are skipped.
func (im *Importer) ImportArticles(ctx context.Context, location string) (Summary, error) {
	s := Summary{Kind: "articles"}

	rc, err := im.open(ctx, location)
	if err != nil {
		return s, err
	}
	defer rc.Close()

	manifest, err := ReadArticleManifest(rc)
	if err != nil {
		return s, fmt.Errorf("%s: %w", location, err)
	}

	err = im.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, entry := range manifest.Articles {
			published, err := entry.PublishedDate()
			if err != nil {
				im.skip(&s, err, zap.String("title", entry.Title))
				continue
			}

			articleID, created, err := model.UpsertArticle(ctx, tx, model.Article{
				Title:         entry.Title,
				Journal:       nonEmpty(entry.Journal),
				DOI:           nonEmpty(entry.DOI),
				URL:           nonEmpty(entry.URL),
				Summary:       nonEmpty(entry.Summary),
				PublishedDate: published,
			})
			if skippable(err) {
				im.skip(&s, err, zap.String("title", entry.Title))
				continue
			}
			if err != nil {
				return err
			}
			s.count(created)

			for _, link := range entry.Genes {
				geneID, err := findGene(ctx, tx, link.Organism, link.LocusTag)
				if skippable(err) {
					im.skip(&s, err, zap.String("title", entry.Title), zap.String("locus_tag", link.LocusTag))
					continue
				}
				if err != nil {
					return err
				}
				if _, err := model.LinkGeneArticle(ctx, tx, geneID, articleID, nonEmpty(link.KeyFinding), link.Relevance); err != nil {
					return err
				}
			}
		}
		return nil
	})
	return s, err
}

// storeFeature upserts the gene of f and, when f carries a protein id and a
// sequence, its protein and secretion record.
func (im *Importer) storeFeature(ctx context.Context, q sqlx.ExtContext, organismID string, chromosomeID *string, f Feature) (bool, error) {
	withProtein := f.ProteinID != "" && f.Translation != ""
	props := analysis.Analyze(f.Translation)
	if withProtein && props.Length == 0 {
		return false, fmt.Errorf("%w: %s has no amino acids", model.ErrInvalidInput, f.ProteinID)
	}

	geneID, created, err := model.UpsertGene(ctx, q, geneOf(organismID, chromosomeID, f))
	if err != nil {
		return false, err
	}
	if !withProtein {
		return created, nil
	}

	sequence := analysis.CleanSequence(f.Translation)
	weight := float64(props.MolecularWeight)
	class := secretion.Classify(f.Product, f.LocusTag)

	name := f.Product
	if name == "" {
		name = f.Symbol()
	}
	proteinID, _, err := model.UpsertProtein(ctx, q, model.Protein{
		GeneID:          geneID,
		Accession:       f.ProteinID,
		Name:            name,
		Description:     nonEmpty(f.Product),
		Sequence:        &sequence,
		SequenceLength:  props.Length,
		MolecularWeight: &weight,
		Localization:    &class.PredictedLocation,
	})
	if err != nil {
		return false, err
	}

	if _, _, err := model.UpsertSecretionInfo(ctx, q, model.SecretionInfo{
		ProteinID:            proteinID,
		IsSecreted:           class.IsSecreted,
		SecretionPathway:     class.Pathway,
		IsSecretionMachinery: class.IsSecretionMachinery,
		PredictedLocation:    class.PredictedLocation,
	}); err != nil {
		return false, err
	}
	return created, nil
}

func geneOf(organismID string, chromosomeID *string, f Feature) model.Gene {
	return model.Gene{
		OrganismID:    organismID,
		ChromosomeID:  chromosomeID,
		LocusTag:      f.LocusTag,
		Symbol:        f.Symbol(),
		Name:          f.Symbol(),
		Description:   nonEmpty(f.Product),
		StartPosition: f.Location.Start,
		EndPosition:   f.Location.End,
		Strand:        f.Location.Strand,
	}
}

func resolveChromosome(ctx context.Context, q sqlx.ExtContext, organismID, seqID string) (string, error) {
	c, err := model.FindChromosome(ctx, q, organismID, seqID)
	if err == nil {
		return c.ID, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return "", err
	}
	id, _, err := model.UpsertChromosome(ctx, q, model.Chromosome{OrganismID: organismID, Name: seqID, Accession: &seqID})
	return id, err
}

func findGene(ctx context.Context, q sqlx.ExtContext, organismName, locusTag string) (string, error) {
	organism, err := model.FindOrganismByName(ctx, q, organismName)
	if err != nil {
		return "", fmt.Errorf("organism %q: %w", organismName, err)
	}
	g, err := model.FindGeneByLocusTag(ctx, q, organism.ID, locusTag)
	if err != nil {
		return "", fmt.Errorf("gene %s of %s: %w", locusTag, organismName, err)
	}
	return g.ID, nil
}

// chromosomeName derives a replicon label from the DEFINITION line:
// "plasmid pKA1", "chromosome I", "chromosome", or the locus name.
func chromosomeName(rec GenBankRecord) string {
	fields := strings.Fields(rec.Definition)
	for _, keyword := range []string{"plasmid", "chromosome"} {
		for i, field := range fields {
			word := strings.ToLower(strings.TrimRight(field, ",."))
			if word != keyword {
				continue
			}
			if field != word || i+1 == len(fields) {
				return keyword
			}
			next := strings.TrimRight(fields[i+1], ",.")
			if next == "" || strings.EqualFold(next, "complete") {
				return keyword
			}
			return keyword + " " + next
		}
	}
	return rec.Locus
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
