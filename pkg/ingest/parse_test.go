package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw  string
		want Location
	}{
		{"1000..5000", Location{1000, 5000, "+"}},
		{"complement(8600..9900)", Location{8600, 9900, "-"}},
		{"<1..>206", Location{1, 206, "+"}},
		{"join(10..20,30..40)", Location{10, 40, "+"}},
		{"complement(join(100..150,200..260))", Location{100, 260, "-"}},
		{"join(complement(200..260),complement(100..150))", Location{100, 260, "-"}},
		{"467", Location{467, 467, "+"}},
		{"123^124", Location{123, 124, "+"}},
		{"J00194.1:100..202", Location{100, 202, "+"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseLocation(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "abc", "10..x", "0..5", "complement()"} {
		_, err := ParseLocation(bad)
		assert.Error(t, err, bad)
	}
}

func TestReadFasta(t *testing.T) {
	input := `
>lcl|NZ_CP060006.1_prot_WP_000001.1_1 [gene=rtxA] [locus_tag=KO461_06300] [protein=RTX family algicidal toxin] [protein_id=WP_000001.1] [location=1000..5000]
MLNTLTTKAY
IKASEAIRSF

>second
MKV
`
	records, err := ReadFasta(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "MLNTLTTKAYIKASEAIRSF", records[0].Sequence)
	assert.Equal(t, 2, records[0].Line)
	assert.Equal(t, "second", records[1].Header)
	assert.Equal(t, "MKV", records[1].Sequence)

	_, err = ReadFasta(strings.NewReader("MKV\n>late\nMKV\n"))
	assert.Error(t, err)

	records, err = ReadFasta(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFeatureFromHeader(t *testing.T) {
	f, err := FeatureFromHeader(`lcl|x [gene=tolC] [locus_tag=KO461_06315] [protein=outer membrane protein TolC] [protein_id=WP_000004.1] [location=complement(8600..9900)] [gbkey=CDS]`)
	require.NoError(t, err)
	assert.Equal(t, "KO461_06315", f.LocusTag)
	assert.Equal(t, "tolC", f.Symbol())
	assert.Equal(t, "outer membrane protein TolC", f.Product)
	assert.Equal(t, "WP_000004.1", f.ProteinID)
	assert.True(t, f.HasLocation)
	assert.Equal(t, Location{8600, 9900, "-"}, f.Location)

	f, err = FeatureFromHeader(`x [locus_tag=KO461_06320] [protein_id=WP_000005.1]`)
	require.NoError(t, err)
	assert.False(t, f.HasLocation)
	assert.Equal(t, "KO461_06320", f.Symbol())

	_, err = FeatureFromHeader(`x [protein_id=WP_000005.1]`)
	assert.ErrorContains(t, err, "locus_tag")
	_, err = FeatureFromHeader(`x [locus_tag=KO461_06320]`)
	assert.ErrorContains(t, err, "protein_id")
	_, err = FeatureFromHeader(`x [locus_tag=A] [protein_id=B] [location=oops]`)
	assert.Error(t, err)
}

const sampleGenBank = `LOCUS       NZ_CP099999             1200 bp    DNA     circular CON 10-JUN-2021
DEFINITION  Flavobacterium testii strain X1 chromosome, complete
            genome.
ACCESSION   NZ_CP099999
VERSION     NZ_CP099999.1
SOURCE      Flavobacterium testii
  ORGANISM  Flavobacterium testii
            Bacteria; Bacteroidota; Flavobacteriia.
FEATURES             Location/Qualifiers
     source          1..1200
                     /organism="Flavobacterium testii"
                     /db_xref="taxon:999001"
     gene            10..300
                     /gene="hlyA"
                     /locus_tag="FT_00010"
     CDS             10..300
                     /gene="hlyA"
                     /locus_tag="FT_00010"
                     /product="RTX toxin
                     hemolysin"
                     /protein_id="WP_900001.1"
                     /translation="MLNTLTTKAYIKASEAIRSFRENQAGV
                     TAIEYGLIAIAVAV"
     gene            complement(400..900)
                     /locus_tag="FT_00015"
     CDS             complement(400..900)
                     /locus_tag="FT_00015"
                     /product="outer membrane protein TolC"
                     /protein_id="WP_900002.1"
                     /translation="MQMKKLLPILIGLSLSGFS"
     gene            950..bad
                     /locus_tag="FT_00020"
     tRNA            1000..1070
                     /note="no locus"
ORIGIN
        1 atgcgcgcat atat
       61 ggcc
//
`

func TestReadGenBank(t *testing.T) {
	records, err := ReadGenBank(strings.NewReader(sampleGenBank))
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]

	assert.Equal(t, "NZ_CP099999", rec.Locus)
	assert.Equal(t, "NZ_CP099999.1", rec.ChromosomeAccession())
	assert.Equal(t, "Flavobacterium testii strain X1 chromosome, complete genome.", rec.Definition)
	assert.Equal(t, "Flavobacterium testii", rec.Organism)
	assert.Equal(t, "999001", rec.TaxonID)
	assert.Equal(t, int64(1200), rec.Length)
	assert.Equal(t, "ATGCGCGCATATATGGCC", rec.Sequence)
	require.NotNil(t, rec.GCContent())
	assert.InDelta(t, 55.56, *rec.GCContent(), 0.001)
	assert.Len(t, rec.Skipped, 2)

	require.Len(t, rec.Features, 2)
	toxin := rec.Features[0]
	assert.Equal(t, "FT_00010", toxin.LocusTag)
	assert.Equal(t, "hlyA", toxin.Gene)
	assert.Equal(t, "RTX toxin hemolysin", toxin.Product)
	assert.Equal(t, "WP_900001.1", toxin.ProteinID)
	assert.Equal(t, "MLNTLTTKAYIKASEAIRSFRENQAGVTAIEYGLIAIAVAV", toxin.Translation)
	assert.Equal(t, Location{10, 300, "+"}, toxin.Location)
	assert.Equal(t, "NZ_CP099999.1", toxin.SeqID)

	channel := rec.Features[1]
	assert.Equal(t, "FT_00015", channel.Symbol())
	assert.Equal(t, "-", channel.Location.Strand)

	assert.Equal(t, "chromosome", chromosomeName(rec))
}

func TestReadGenBankErrors(t *testing.T) {
	_, err := ReadGenBank(strings.NewReader("DEFINITION  orphan\n"))
	assert.Error(t, err)

	_, err = ReadGenBank(strings.NewReader("LOCUS       X 10 bp DNA\nORIGIN\n        1 acgt\n"))
	assert.ErrorContains(t, err, "terminator")
}

func TestChromosomeName(t *testing.T) {
	tests := []struct{ definition, want string }{
		{"Kordia algicida OT-1 chromosome, complete genome.", "chromosome"},
		{"Vibrio cholerae O1 chromosome I, complete sequence.", "chromosome I"},
		{"Escherichia coli strain K plasmid pKA1, complete sequence.", "plasmid pKA1"},
		{"Escherichia coli contig 7, whole genome shotgun sequence.", "LOC7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chromosomeName(GenBankRecord{Locus: "LOC7", Definition: tt.definition}), tt.definition)
	}
}

const sampleGFF3 = "##gff-version 3\n" +
	"NZ_CP060006.1\tRefSeq\tgene\t10100\t11000\t.\t+\t.\tID=gene-KO461_06320;Name=rtxC;gene=rtxC;locus_tag=KO461_06320\n" +
	"NZ_CP060006.1\tRefSeq\tCDS\t10100\t11000\t.\t+\t0\tID=cds-WP_000005.1;Parent=gene-KO461_06320;product=RTX toxin activating lysine-acyltransferase%2C RtxC;protein_id=WP_000005.1\n" +
	"NZ_CP060006.1\tRefSeq\tgene\t11100\t11900\t.\t-\t.\tID=gene-KO461_06325;Name=KO461_06325;locus_tag=KO461_06325\n" +
	"NZ_CP060006.1\tRefSeq\tmRNA\t11100\t11900\t.\t-\t.\tID=rna-1;Parent=gene-KO461_06325\n" +
	"NZ_CP060006.1\tRefSeq\tCDS\t11100\t11900\t.\t-\t0\tID=cds-2;Parent=rna-1;product=hypothetical protein\n" +
	"NZ_CP060006.1\tRefSeq\tgene\t12000\t12500\t.\t.\t.\tID=gene-x;locus_tag=KO461_06330\n" +
	"NZ_CP060006.1\tRefSeq\tgene\tabc\t12500\t.\t+\t.\tID=gene-y\n" +
	"too\tfew\tcolumns\n" +
	"##FASTA\n" +
	">NZ_CP060006.1\n" +
	"ACGT\n"

func TestReadGFF3(t *testing.T) {
	gff, err := ReadGFF3(strings.NewReader(sampleGFF3))
	require.NoError(t, err)

	assert.Len(t, gff.Skipped, 3)
	require.Len(t, gff.Features, 2)

	first := gff.Features[0]
	assert.Equal(t, "KO461_06320", first.LocusTag)
	assert.Equal(t, "rtxC", first.Gene)
	assert.Equal(t, "RTX toxin activating lysine-acyltransferase, RtxC", first.Product)
	assert.Equal(t, "WP_000005.1", first.ProteinID)
	assert.Equal(t, "NZ_CP060006.1", first.SeqID)
	assert.Equal(t, Location{10100, 11000, "+"}, first.Location)

	second := gff.Features[1]
	assert.Equal(t, "KO461_06325", second.Symbol())
	assert.Empty(t, second.Gene)
	assert.Equal(t, "hypothetical protein", second.Product)
	assert.Equal(t, "-", second.Location.Strand)
}

func TestReadManifests(t *testing.T) {
	systems, err := ReadSystemManifest(strings.NewReader(`
systems:
  - organism: Kordia algicida OT-1
    chromosome: NZ_CP060006.1
    name: Kordia T1SS
    type: T1SS
    components:
      - {locus_tag: KO461_06305, name: HlyB, type: ATPase}
    cargo: [WP_000001.1]
`))
	require.NoError(t, err)
	require.Len(t, systems.Systems, 1)
	assert.Equal(t, "HlyB", systems.Systems[0].Components[0].Name)
	assert.Equal(t, []string{"WP_000001.1"}, systems.Systems[0].Cargo)

	_, err = ReadSystemManifest(strings.NewReader("systems:\n  - nmae: typo\n"))
	assert.Error(t, err)
	_, err = ReadSystemManifest(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty")

	articles, err := ReadArticleManifest(strings.NewReader(`
articles:
  - title: RTX toxins revisited
    published: 2019-03
    genes:
      - {organism: Kordia algicida OT-1, locus_tag: KO461_06300, relevance: 0.7}
`))
	require.NoError(t, err)
	entry := articles.Articles[0]
	published, err := entry.PublishedDate()
	require.NoError(t, err)
	assert.Equal(t, "2019-03-01", published.Format("2006-01-02"))
	require.NotNil(t, entry.Genes[0].Relevance)
	assert.Equal(t, 0.7, *entry.Genes[0].Relevance)

	_, err = ArticleEntry{Title: "x", Published: "March 2019"}.PublishedDate()
	assert.Error(t, err)
	none, err := ArticleEntry{Title: "x"}.PublishedDate()
	require.NoError(t, err)
	assert.Nil(t, none)
}
