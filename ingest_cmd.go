package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/logger"
	"github.com/yumyai/omicsatlas/pkg/db"
	"github.com/yumyai/omicsatlas/pkg/ingest"
)

var (
	organismID string
	source     string
	manifest   string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load annotation files into the store",
	Long: `Load annotation files into the store.

Sources are local paths or s3://bucket/key URIs (set OMICS_S3_BUCKET and the
usual AWS credentials). A directory or an s3 prefix ending in "/" loads every
file below it. Names ending in .gz are decompressed.

Examples:

  # NCBI protein FASTA for an existing organism
  omicsatlas ingest fasta --organism-id 5b1c... --source GCF_019218805_protein.faa.gz

  # GenBank creates the organism and chromosome as needed
  omicsatlas ingest genbank --source s3://raw-genomes/ko461/genomic.gbff`,
}

var ingestFastaCmd = &cobra.Command{
	Use:   "fasta",
	Short: "Genes, proteins and secretion records from NCBI tagged FASTA",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd.Context(), source, func(im *ingest.Importer, loc string) (ingest.Summary, error) {
			return im.ImportFasta(cmd.Context(), organismID, loc)
		})
	},
}

var ingestGenBankCmd = &cobra.Command{
	Use:   "genbank",
	Short: "Organisms, chromosomes, genes and proteins from GenBank flat files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd.Context(), source, func(im *ingest.Importer, loc string) (ingest.Summary, error) {
			return im.ImportGenBank(cmd.Context(), loc)
		})
	},
}

var ingestGFF3Cmd = &cobra.Command{
	Use:   "gff3",
	Short: "Gene coordinates from GFF3",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd.Context(), source, func(im *ingest.Importer, loc string) (ingest.Summary, error) {
			return im.ImportGFF3(cmd.Context(), organismID, loc)
		})
	},
}

var ingestSystemsCmd = &cobra.Command{
	Use:   "secretion-system",
	Short: "Secretion systems and their components from a YAML manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd.Context(), manifest, func(im *ingest.Importer, loc string) (ingest.Summary, error) {
			return im.ImportSecretionSystems(cmd.Context(), loc)
		})
	},
}

var ingestArticlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Articles and gene links from a YAML manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd.Context(), manifest, func(im *ingest.Importer, loc string) (ingest.Summary, error) {
			return im.ImportArticles(cmd.Context(), loc)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{ingestFastaCmd, ingestGenBankCmd, ingestGFF3Cmd} {
		c.Flags().StringVar(&source, "source", "", "input file, directory, s3://bucket/key or s3://bucket/prefix/")
		c.MarkFlagRequired("source")
	}
	for _, c := range []*cobra.Command{ingestFastaCmd, ingestGFF3Cmd} {
		c.Flags().StringVar(&organismID, "organism-id", "", "organism the records belong to")
		c.MarkFlagRequired("organism-id")
	}
	for _, c := range []*cobra.Command{ingestSystemsCmd, ingestArticlesCmd} {
		c.Flags().StringVar(&manifest, "manifest", "", "YAML manifest (local path or s3:// URI)")
		c.MarkFlagRequired("manifest")
	}
	ingestCmd.AddCommand(ingestFastaCmd, ingestGenBankCmd, ingestGFF3Cmd, ingestSystemsCmd, ingestArticlesCmd)
}

// newSourceStore enables s3:// sources when a bucket is configured.
func newSourceStore(ctx context.Context) (*db.SourceStore, error) {
	ss := &db.SourceStore{}
	if cfg.S3.Bucket == "" {
		return ss, nil
	}
	src, err := db.NewS3Source(ctx, db.S3Config{
		Region:    cfg.S3.Region,
		Bucket:    cfg.S3.Bucket,
		Endpoint:  cfg.S3.Endpoint,
		PathStyle: cfg.S3.PathStyle,
	})
	if err != nil {
		return nil, err
	}
	ss.S3 = src
	return ss, nil
}

type importFunc func(im *ingest.Importer, location string) (ingest.Summary, error)

// runIngest expands location, imports each file and prints one summary
// line per file.
func runIngest(ctx context.Context, location string, run importFunc) error {
	defer logger.Sync()

	odb, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer odb.Close()

	sources, err := newSourceStore(ctx)
	if err != nil {
		return err
	}
	files, err := sources.Expand(ctx, location)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%s: no files to load", location)
	}

	im := ingest.NewImporter(odb, sources, logger.L())
	for _, file := range files {
		summary, err := run(im, file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		logger.Info("Ingested", zap.String("source", file), zap.Int("created", summary.Created),
			zap.Int("updated", summary.Updated), zap.Int("skipped", summary.Skipped))
		fmt.Printf("%s\t%s\n", file, summary)
	}
	return nil
}
