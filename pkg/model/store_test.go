package model_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/omicsatlas/internal/testdb"
	"github.com/yumyai/omicsatlas/pkg/model"
)

func TestListOrganismsOrderedWithRelations(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)

	organisms, err := model.ListOrganisms(context.Background(), odb)
	require.NoError(t, err)
	require.Len(t, organisms, 2)

	assert.Equal(t, "Escherichia coli K-12", organisms[0].ScientificName)
	assert.Empty(t, organisms[0].Chromosomes)
	assert.NotNil(t, organisms[0].Chromosomes)
	assert.Equal(t, []string{"thrL"}, organisms[0].GeneSymbols)

	kordia := organisms[1]
	assert.Equal(t, f.OrganismID, kordia.ID)
	require.Len(t, kordia.Chromosomes, 1)
	assert.Equal(t, "NZ_CP060006.1", *kordia.Chromosomes[0].Accession)
	assert.Equal(t, []string{"rtxA", "hlyB", "hlyD", "tolC"}, kordia.GeneSymbols)
	assert.Equal(t, 4, kordia.GeneCount)
}

func TestGetOrganism(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()

	o, err := model.GetOrganism(ctx, odb, f.OrganismID)
	require.NoError(t, err)
	assert.Equal(t, 4, o.GeneCount)
	assert.Nil(t, o.Profile)

	_, err = model.GetOrganism(ctx, odb, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListGenesFilters(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()
	page := model.Page{}.Normalize(50)

	tests := []struct {
		name    string
		filter  model.GeneFilter
		symbols []string
	}{
		{"all", model.GeneFilter{}, []string{"thrL", "rtxA", "hlyB", "hlyD", "tolC"}},
		{"organism", model.GeneFilter{OrganismID: f.OtherOrganismID}, []string{"thrL"}},
		{"chromosome", model.GeneFilter{ChromosomeID: f.ChromosomeID}, []string{"rtxA", "hlyB", "hlyD", "tolC"}},
		{"symbol is case insensitive", model.GeneFilter{Query: "HLY"}, []string{"hlyB", "hlyD"}},
		{"description", model.GeneFilter{Query: "algicidal"}, []string{"rtxA"}},
		{"name", model.GeneFilter{Query: "leader peptide"}, []string{"thrL"}},
		{"no match", model.GeneFilter{Query: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Page = page
			genes, total, err := model.ListGenes(ctx, odb, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, len(tt.symbols), total)
			symbols := []string{}
			for _, g := range genes {
				symbols = append(symbols, g.Symbol)
				require.NotNil(t, g.Organism)
				assert.Equal(t, g.OrganismID, g.Organism.ID)
			}
			assert.Equal(t, tt.symbols, symbols)
		})
	}
}

func TestListGenesPagination(t *testing.T) {
	odb := testdb.Open(t)
	testdb.Seed(t, odb)

	genes, total, err := model.ListGenes(context.Background(), odb, model.GeneFilter{Page: model.Page{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, genes, 2)
	assert.Equal(t, "hlyB", genes[0].Symbol)
	assert.Equal(t, 3, model.TotalPages(total, 2))
}

func TestGeneListDetailRoundTrip(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()

	genes, _, err := model.ListGenes(ctx, odb, model.GeneFilter{OrganismID: f.OrganismID, Page: model.Page{}.Normalize(50)})
	require.NoError(t, err)
	require.NotEmpty(t, genes)

	for _, g := range genes {
		detail, err := model.GetGene(ctx, odb, g.ID)
		require.NoError(t, err)
		assert.Equal(t, g.Symbol, detail.Symbol)
		assert.Equal(t, g.OrganismID, detail.OrganismID)
		require.NotNil(t, detail.Chromosome)
		assert.Len(t, detail.Proteins, 1)
	}
}

func TestGetGeneArticlesByRelevance(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)

	g, err := model.GetGene(context.Background(), odb, f.GeneIDs["KO461_06300"])
	require.NoError(t, err)
	require.Len(t, g.Articles, 2)
	assert.Equal(t, "An algicidal RTX toxin of Kordia", g.Articles[0].Title)
	assert.InDelta(t, 0.9, *g.Articles[0].RelevanceScore, 1e-9)
	assert.Nil(t, g.Articles[1].DOI)
}

func TestGeneWithoutChromosome(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)

	g, err := model.GetGene(context.Background(), odb, f.GeneIDs["b0001"])
	require.NoError(t, err)
	assert.Nil(t, g.ChromosomeID)
	assert.Nil(t, g.Chromosome)
	assert.Nil(t, g.Description)
	assert.NotNil(t, g.Proteins)
	assert.NotNil(t, g.Articles)
}

func TestListProteinsAndSecretion(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()
	page := model.Page{}.Normalize(25)

	proteins, total, err := model.ListProteins(ctx, odb, model.ProteinFilter{OrganismID: f.OrganismID, Page: page})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	for _, p := range proteins {
		require.NotNil(t, p.Gene)
		require.NotNil(t, p.SecretionInfo)
	}

	secreted := true
	proteins, total, err = model.ListSecretedProteins(ctx, odb, model.SecretionFilter{IsSecreted: &secreted, Page: page})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "WP_000001.1", proteins[0].Accession)

	_, total, err = model.ListSecretedProteins(ctx, odb, model.SecretionFilter{Pathway: "T1SS", Page: page})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	p, err := model.GetProtein(ctx, odb, f.ProteinIDs["WP_000003.1"])
	require.NoError(t, err)
	require.NotNil(t, p.Gene)
	require.NotNil(t, p.Gene.Organism)
	assert.Equal(t, "Kordia algicida OT-1", p.Gene.Organism.ScientificName)
	assert.Equal(t, "Periplasmic", p.SecretionInfo.PredictedLocation)
}

func TestSecretionSystemComponentMap(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()

	s, err := model.GetSecretionSystem(ctx, odb, f.SystemID)
	require.NoError(t, err)
	assert.Equal(t, int64(5100), s.GenomicStart)
	assert.Equal(t, int64(9900), s.GenomicEnd)

	names := []string{}
	for _, c := range s.Components {
		names = append(names, c.ComponentName)
	}
	assert.Equal(t, []string{"HlyB", "HlyD", "TolC"}, names)
	assert.Equal(t, "hlyB", s.Components[0].GeneSymbol)
	assert.Equal(t, "WP_000002.1", s.Components[0].ProteinAccession)
	require.Len(t, s.Cargo, 1)
	assert.Equal(t, "WP_000001.1", s.Cargo[0].Accession)

	systems, err := model.ListSecretionSystems(ctx, odb, f.OrganismID, "T2SS")
	require.NoError(t, err)
	assert.Empty(t, systems)
}

func TestCreateSecretionSystemRejectsForeignGenes(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)

	_, err := model.CreateSecretionSystem(context.Background(), odb, model.SecretionSystemInput{
		OrganismID:   f.OrganismID,
		ChromosomeID: f.ChromosomeID,
		Name:         "mixed",
		SystemType:   "T1SS",
		Components:   []model.ComponentInput{{LocusTag: "b0001", ComponentName: "ThrL", ComponentType: "Adaptor"}},
	})
	assert.ErrorIs(t, err, model.ErrCrossOrganism)

	systems, err := model.ListSecretionSystems(context.Background(), odb, f.OrganismID, "")
	require.NoError(t, err)
	assert.Len(t, systems, 1)
}

func TestCreateSecretionSystemRepeatedCargo(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()

	s, err := model.CreateSecretionSystem(ctx, odb, model.SecretionSystemInput{
		OrganismID:     f.OrganismID,
		ChromosomeID:   f.ChromosomeID,
		Name:           "Kordia T1SS copy",
		SystemType:     "T1SS",
		Components:     []model.ComponentInput{{LocusTag: "KO461_06305", ComponentName: "HlyB", ComponentType: "ATPase"}},
		CargoAccession: []string{"WP_000001.1", "WP_000001.1"},
	})
	require.NoError(t, err)

	got, err := model.GetSecretionSystem(ctx, odb, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Cargo, 1)
	assert.Equal(t, "WP_000001.1", got.Cargo[0].Accession)
}

func TestUpsertProteinKeepsOrganism(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()

	_, _, err := model.UpsertProtein(ctx, odb, model.Protein{GeneID: f.GeneIDs["b0001"], Accession: "WP_000002.1", SequenceLength: 21})
	assert.ErrorIs(t, err, model.ErrCrossOrganism)

	hlyB, err := model.GetGene(ctx, odb, f.GeneIDs["KO461_06305"])
	require.NoError(t, err)
	require.Len(t, hlyB.Proteins, 1)
	assert.Equal(t, "WP_000002.1", hlyB.Proteins[0].Accession)

	s, err := model.GetSecretionSystem(ctx, odb, f.SystemID)
	require.NoError(t, err)
	for _, c := range s.Components {
		p, err := model.GetProtein(ctx, odb, c.ProteinID)
		require.NoError(t, err)
		assert.Equal(t, s.OrganismID, p.Gene.OrganismID, c.LocusTag)
	}

	// Moving to another gene of the same organism is allowed.
	id, created, err := model.UpsertProtein(ctx, odb, model.Protein{GeneID: f.GeneIDs["KO461_06310"], Accession: "WP_000002.1", SequenceLength: 21})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, f.ProteinIDs["WP_000002.1"], id)

	_, _, err = model.UpsertProtein(ctx, odb, model.Protein{GeneID: "missing", Accession: "WP_000002.1", SequenceLength: 21})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetGeneLoadsEveryProtein(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()
	geneID := f.GeneIDs["KO461_06300"]

	for i := 0; i < model.MaxLimit; i++ {
		_, _, err := model.UpsertProtein(ctx, odb, model.Protein{GeneID: geneID, Accession: fmt.Sprintf("XP_%06d.1", i), SequenceLength: 10})
		require.NoError(t, err)
	}

	g, err := model.GetGene(ctx, odb, geneID)
	require.NoError(t, err)
	assert.Len(t, g.Proteins, model.MaxLimit+1)
}

func TestOrganismStats(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)

	s, err := model.OrganismStats(context.Background(), odb, f.OrganismID)
	require.NoError(t, err)
	assert.Equal(t, 4, s.GeneCount)
	assert.Equal(t, 4, s.ProteinCount)
	assert.Equal(t, 3, s.PlusStrandGenes)
	assert.Equal(t, 1, s.MinusStrandGenes)
	assert.Equal(t, 1, s.SecretedProteins)
	assert.Equal(t, 2, s.MachineryProteins)
	assert.Equal(t, []model.PathwayCount{{Pathway: "T1SS", Count: 3}, {Pathway: "OM", Count: 1}}, s.Pathways)

	_, err = model.OrganismStats(context.Background(), odb, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSummarizeEmpty(t *testing.T) {
	s := model.Summarize(nil, nil)
	assert.Zero(t, s.MeanProteinLength)
	assert.NotNil(t, s.Pathways)
}

func TestUpsertsAreIdempotent(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()

	id, created, err := model.UpsertOrganism(ctx, odb, model.Organism{ScientificName: "kordia algicida ot-1"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, f.OrganismID, id)

	o, err := model.GetOrganism(ctx, odb, f.OrganismID)
	require.NoError(t, err)
	require.NotNil(t, o.CommonName)
	assert.Equal(t, "Kordia", *o.CommonName)

	geneID, created, err := model.UpsertGene(ctx, odb, model.Gene{
		OrganismID: f.OrganismID, LocusTag: "KO461_06300", Symbol: "rtxA", StartPosition: 1000, EndPosition: 5001, Strand: "+",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, f.GeneIDs["KO461_06300"], geneID)

	_, _, err = model.UpsertGene(ctx, odb, model.Gene{OrganismID: f.OrganismID, LocusTag: "x", Strand: "?"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
