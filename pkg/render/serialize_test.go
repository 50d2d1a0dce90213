package render

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/omicsatlas/pkg/model"
)

// jsonKeys lists the json names declared on a struct type, following
// embedded structs.
func jsonKeys(t reflect.Type) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			keys = append(keys, jsonKeys(f.Type)...)
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		keys = append(keys, name)
	}
	return keys
}

func encode(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestGeneSummaryEmitsEveryField(t *testing.T) {
	bare := model.Gene{ID: "g1", OrganismID: "o1", LocusTag: "b0001", Symbol: "thrL", Name: "thrL", Strand: "+"}

	m := encode(t, GeneSummary(bare))
	for _, key := range jsonKeys(reflect.TypeOf(GeneSummaryView{})) {
		assert.Contains(t, m, key)
	}
	for _, key := range []string{"description", "organismName", "chromosomeId", "chromosomeName"} {
		assert.Nil(t, m[key], key)
	}
}

func TestGeneSummaryFlattensRelations(t *testing.T) {
	chr := "c1"
	g := model.Gene{
		ID: "g1", OrganismID: "o1", ChromosomeID: &chr, Symbol: "rtxA",
		Organism:   &model.Organism{ID: "o1", ScientificName: "Kordia algicida OT-1"},
		Chromosome: &model.Chromosome{ID: "c1", Name: "chromosome"},
	}

	v := GeneSummary(g)
	require.NotNil(t, v.OrganismName)
	assert.Equal(t, "Kordia algicida OT-1", *v.OrganismName)
	require.NotNil(t, v.ChromosomeName)
	assert.Equal(t, "chromosome", *v.ChromosomeName)
}

func TestDetailSlicesEncodeAsArrays(t *testing.T) {
	m := encode(t, GeneDetail(model.Gene{ID: "g1"}))
	assert.Equal(t, []any{}, m["proteins"])
	assert.Equal(t, []any{}, m["articles"])

	m = encode(t, OrganismSummary(model.Organism{ID: "o1"}))
	assert.Equal(t, []any{}, m["chromosomes"])
	assert.Equal(t, []any{}, m["geneSymbols"])

	m = encode(t, SecretionSystem(model.SecretionSystem{ID: "s1"}))
	assert.Equal(t, []any{}, m["components"])
	assert.Equal(t, []any{}, m["cargo"])
}

func TestProteinViews(t *testing.T) {
	pathway := "T1SS"
	p := model.Protein{
		ID: "p1", GeneID: "g1", Accession: "WP_000001.1",
		Gene:          &model.Gene{ID: "g1", OrganismID: "o1", Symbol: "rtxA", LocusTag: "KO461_06300"},
		SecretionInfo: &model.SecretionInfo{IsSecreted: true, SecretionPathway: &pathway, PredictedLocation: "Extracellular"},
	}

	v := ProteinDetail(p)
	assert.Equal(t, "rtxA", *v.GeneSymbol)
	assert.Equal(t, "o1", *v.OrganismID)
	assert.Nil(t, v.OrganismName)
	require.NotNil(t, v.Secretion)
	assert.Equal(t, "T1SS", *v.Secretion.SecretionPathway)

	m := encode(t, ProteinSummary(model.Protein{ID: "p2"}))
	for _, key := range []string{"description", "molecularWeight", "geneSymbol", "locusTag", "secretion"} {
		assert.Contains(t, m, key)
		assert.Nil(t, m[key], key)
	}
}

func TestArticleDate(t *testing.T) {
	d := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	v := Article(model.GeneArticle{Article: model.Article{ID: "a1", Title: "x", PublishedDate: &d}})
	require.NotNil(t, v.PublishedDate)
	assert.Equal(t, "2021-06-01", *v.PublishedDate)

	assert.Nil(t, Article(model.GeneArticle{}).PublishedDate)
}

func TestComponentEmptyJoinsAreNull(t *testing.T) {
	v := Component(model.SecretionComponent{ID: "c1", GeneSymbol: "hlyB"})
	assert.Equal(t, "hlyB", *v.GeneSymbol)
	assert.Nil(t, v.ProteinAccession)
}

func TestListEnvelope(t *testing.T) {
	m := encode(t, List(GeneSummaries(nil), model.Page{Page: 2, Limit: 10}, 21))
	assert.Equal(t, []any{}, m["data"])
	assert.Equal(t, map[string]any{"page": 2.0, "limit": 10.0, "total": 21.0, "totalPages": 3.0}, m["pagination"])
}

func TestStatsView(t *testing.T) {
	v := Stats("o1", model.Summarize(nil, nil))
	assert.NotNil(t, v.Pathways)
	assert.Equal(t, "o1", v.OrganismID)
}
