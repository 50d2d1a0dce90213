// Package testdb opens throwaway sqlite stores and fills them with a small
// Kordia / E. coli data set for store and handler tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yumyai/omicsatlas/pkg/analysis"
	"github.com/yumyai/omicsatlas/pkg/db"
	"github.com/yumyai/omicsatlas/pkg/model"
	"github.com/yumyai/omicsatlas/pkg/secretion"
)

// ToxinSequence is the RTX toxin fragment used as seed data.
const ToxinSequence = "MLNTLTTKAYIKASEAIRSFRENQAGVTAIEYGLIAIAVAVLIVAVFYSNNGFIANLQSKFNSLASTVASANVTK"

// Fixture holds the ids created by Seed.
type Fixture struct {
	OrganismID      string
	OtherOrganismID string
	ChromosomeID    string
	SystemID        string
	// Keyed by locus tag.
	GeneIDs map[string]string
	// Keyed by accession.
	ProteinIDs map[string]string
	// Keyed by title.
	ArticleIDs map[string]string
}

// Open returns a migrated store in a temp dir, closed when the test ends.
func Open(t testing.TB) *db.OmicsDB {
	t.Helper()
	odb, err := db.OpenAndMigrate(context.Background(), db.DriverSQLite, filepath.Join(t.TempDir(), "omics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { odb.Close() })
	return odb
}

type seedGene struct {
	locus, symbol, name, product string
	start, end                   int64
	strand                       string
	accession, sequence          string
}

var kordiaGenes = []seedGene{
	{"KO461_06300", "rtxA", "RTX toxin", "RTX family algicidal toxin", 1000, 5000, "+", "WP_000001.1", ToxinSequence},
	{"KO461_06305", "hlyB", "Type I secretion ATPase", "type I secretion system ATPase", 5100, 7200, "+", "WP_000002.1", "MDKKLLVAGALLLSACSTTPE"},
	{"KO461_06310", "hlyD", "HlyD adaptor", "HlyD family type I secretion periplasmic adaptor subunit", 7300, 8500, "+", "WP_000003.1", "MKRLLILVLVAAGAWFY"},
	{"KO461_06315", "tolC", "Outer membrane channel", "outer membrane protein TolC", 8600, 9900, "-", "WP_000004.1", "MQMKKLLPILIGLSLSGFS"},
}

// Seed loads one organism with a chromosome, four genes and their proteins,
// a type I secretion system, two articles and a second organism whose only
// gene has no chromosome and no description.
func Seed(t testing.TB, odb *db.OmicsDB) Fixture {
	t.Helper()
	ctx := context.Background()

	f := Fixture{
		GeneIDs:    map[string]string{},
		ProteinIDs: map[string]string{},
		ArticleIDs: map[string]string{},
	}

	var err error
	f.OrganismID, _, err = model.UpsertOrganism(ctx, odb, model.Organism{
		ScientificName: "Kordia algicida OT-1",
		CommonName:     ptr("Kordia"),
		Habitat:        ptr("Marine"),
		GenomeSizeMb:   ptr(5.2),
		TaxonomyID:     ptr("391587"),
	})
	require.NoError(t, err)

	f.ChromosomeID, _, err = model.UpsertChromosome(ctx, odb, model.Chromosome{
		OrganismID:     f.OrganismID,
		Name:           "chromosome",
		Accession:      ptr("NZ_CP060006.1"),
		SequenceLength: ptr(int64(5200000)),
		GCContent:      ptr(32.5),
	})
	require.NoError(t, err)

	for _, sg := range kordiaGenes {
		geneID, _, err := model.UpsertGene(ctx, odb, model.Gene{
			OrganismID:    f.OrganismID,
			ChromosomeID:  ptr(f.ChromosomeID),
			LocusTag:      sg.locus,
			Symbol:        sg.symbol,
			Name:          sg.name,
			Description:   ptr(sg.product),
			StartPosition: sg.start,
			EndPosition:   sg.end,
			Strand:        sg.strand,
		})
		require.NoError(t, err)
		f.GeneIDs[sg.locus] = geneID
		f.ProteinIDs[sg.accession] = seedProtein(t, odb, geneID, sg)
	}

	f.SystemID = seedSystem(t, odb, f)
	seedArticles(t, odb, &f)

	f.OtherOrganismID, _, err = model.UpsertOrganism(ctx, odb, model.Organism{ScientificName: "Escherichia coli K-12"})
	require.NoError(t, err)
	geneID, _, err := model.UpsertGene(ctx, odb, model.Gene{
		OrganismID:    f.OtherOrganismID,
		LocusTag:      "b0001",
		Symbol:        "thrL",
		Name:          "thr operon leader peptide",
		StartPosition: 190,
		EndPosition:   255,
		Strand:        "+",
	})
	require.NoError(t, err)
	f.GeneIDs["b0001"] = geneID

	return f
}

func seedProtein(t testing.TB, odb *db.OmicsDB, geneID string, sg seedGene) string {
	ctx := context.Background()

	props := analysis.Analyze(sg.sequence)
	mw := float64(props.MolecularWeight)
	class := secretion.Classify(sg.product, sg.locus)

	proteinID, _, err := model.UpsertProtein(ctx, odb, model.Protein{
		GeneID:          geneID,
		Accession:       sg.accession,
		Name:            sg.name,
		Description:     ptr(sg.product),
		Sequence:        ptr(sg.sequence),
		SequenceLength:  props.Length,
		MolecularWeight: &mw,
		Localization:    ptr(class.PredictedLocation),
	})
	require.NoError(t, err)

	_, _, err = model.UpsertSecretionInfo(ctx, odb, model.SecretionInfo{
		ProteinID:            proteinID,
		IsSecreted:           class.IsSecreted,
		SecretionPathway:     class.Pathway,
		IsSecretionMachinery: class.IsSecretionMachinery,
		PredictedLocation:    class.PredictedLocation,
	})
	require.NoError(t, err)
	return proteinID
}

func seedSystem(t testing.TB, odb *db.OmicsDB, f Fixture) string {
	system, err := model.CreateSecretionSystem(context.Background(), odb, model.SecretionSystemInput{
		OrganismID:   f.OrganismID,
		ChromosomeID: f.ChromosomeID,
		Name:         "Kordia T1SS",
		SystemType:   "T1SS",
		Description:  "RTX toxin export machinery",
		Components: []model.ComponentInput{
			{LocusTag: "KO461_06315", ComponentName: "TolC", ComponentType: "OuterMembrane"},
			{LocusTag: "KO461_06305", ComponentName: "HlyB", ComponentType: "ATPase"},
			{LocusTag: "KO461_06310", ComponentName: "HlyD", ComponentType: "Adaptor"},
		},
		CargoAccession: []string{"WP_000001.1"},
	})
	require.NoError(t, err)
	return system.ID
}

func seedArticles(t testing.TB, odb *db.OmicsDB, f *Fixture) {
	ctx := context.Background()
	published := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

	articles := []struct {
		article   model.Article
		finding   string
		relevance float64
	}{
		{model.Article{Title: "An algicidal RTX toxin of Kordia", Journal: ptr("Harmful Algae"), DOI: ptr("10.1000/ko461"), PublishedDate: &published},
			"rtxA is required for algicidal activity", 0.9},
		{model.Article{Title: "Type I secretion in flavobacteria"}, "T1SS exports RTX proteins", 0.5},
	}
	for _, a := range articles {
		id, _, err := model.UpsertArticle(ctx, odb, a.article)
		require.NoError(t, err)
		_, err = model.LinkGeneArticle(ctx, odb, f.GeneIDs["KO461_06300"], id, ptr(a.finding), ptr(a.relevance))
		require.NoError(t, err)
		f.ArticleIDs[a.article.Title] = id
	}
}

func ptr[T any](v T) *T { return &v }
