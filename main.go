// Command omicsatlas serves the multi-omics explorer API and loads
// annotation data into its store.
//
// Usage:
//
//	omicsatlas serve [--addr 0.0.0.0:8080]
//	omicsatlas ingest fasta --organism-id ID --source proteins.faa
//	omicsatlas ingest genbank --source s3://raw-genomes/ko461/genome.gbff.gz
//	omicsatlas ingest gff3 --organism-id ID --source genes.gff3
//	omicsatlas ingest secretion-system --manifest systems.yaml
//	omicsatlas ingest articles --manifest articles.yaml
//	omicsatlas consolidate --auto
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/internal/config"
	"github.com/yumyai/omicsatlas/internal/util"
	"github.com/yumyai/omicsatlas/logger"
	"github.com/yumyai/omicsatlas/pkg/db"
	"github.com/yumyai/omicsatlas/pkg/handler"
	"github.com/yumyai/omicsatlas/pkg/middle"
)

const version = "0.4.0"

var (
	cfg        *config.Config
	configPath string
	logLevel   string
	dbDriver   string
	dbDSN      string
	addr       string
)

var rootCmd = &cobra.Command{
	Use:           "omicsatlas",
	Short:         "Multi-omics explorer for secretion systems of marine bacteria",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if dbDriver != "" {
			cfg.DBDriver = dbDriver
		}
		if dbDSN != "" {
			cfg.DBDSN = dbDSN
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := logger.InitLogger(logger.ParseLevel(cfg.LogLevel)); err != nil {
			return err
		}
		if !cfg.DotenvLoaded {
			logger.Debug("No .env found, using local environment")
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $OMICS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "sqlite or pgx")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db-dsn", "", "database file (sqlite) or connection string (pgx)")

	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	rootCmd.AddCommand(serveCmd, ingestCmd, consolidateCmd)
}

// openStore opens and migrates the configured store, creating the parent
// directory of a sqlite file when needed.
func openStore(ctx context.Context) (*db.OmicsDB, error) {
	if cfg.DBDriver == db.DriverSQLite && !strings.HasPrefix(cfg.DBDSN, "file:") && !strings.Contains(cfg.DBDSN, ":memory:") {
		if dir := filepath.Dir(cfg.DBDSN); !util.DirExists(dir) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create %s: %w", dir, err)
			}
		}
	}

	odb, err := db.OpenAndMigrate(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	logger.Info("Open database on", zap.String("driver", cfg.DBDriver), zap.String("dsn", redact(cfg.DBDSN)))
	return odb, nil
}

var passwordParam = regexp.MustCompile(`(?i)(password=)('[^']*'|[^\s&]*)`)

// redact hides the password of a postgres URL or key/value DSN.
func redact(dsn string) string {
	dsn = passwordParam.ReplaceAllString(dsn, "${1}***")

	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, _ := strings.Cut(creds, ":")
	return scheme + "://" + user + ":***@" + host
}

func runServe(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	odb, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer odb.Close()

	listen := cfg.Addr
	if addr != "" {
		listen = addr
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           handler.NewRouter(&handler.DBContext{DB: odb}, middle.NewMetrics(), logger.L()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Start:", zap.String("Version", version))
	logger.Info("Server starting", zap.String("addr", listen))

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", listen, err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		logger.Sync()
		os.Exit(1)
	}
}
