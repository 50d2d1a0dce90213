package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/internal/util"
	"github.com/yumyai/omicsatlas/logger"
	"github.com/yumyai/omicsatlas/pkg/db"
	"github.com/yumyai/omicsatlas/pkg/model"
)

var (
	keepID    string
	mergeIDs  string
	autoMerge bool
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Merge duplicate organisms",
	Long: `Merge duplicate organisms into one record.

Either name the organism to keep and the ones to fold into it, or pass --auto
to merge every group of organisms sharing a scientific name into its oldest
record. Without flags the duplicate groups are only listed.

Examples:

  omicsatlas consolidate
  omicsatlas consolidate --keep 5b1c... --merge 77e0...,a913...
  omicsatlas consolidate --auto`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()

		if (keepID == "") != (mergeIDs == "") {
			return errors.New("--keep and --merge go together")
		}
		if keepID != "" && autoMerge {
			return errors.New("--auto cannot be combined with --keep")
		}

		odb, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer odb.Close()

		return consolidate(cmd.Context(), odb, os.Stdout, keepID, util.SplitList(mergeIDs), autoMerge)
	},
}

func init() {
	consolidateCmd.Flags().StringVar(&keepID, "keep", "", "organism id to keep")
	consolidateCmd.Flags().StringVar(&mergeIDs, "merge", "", "comma separated organism ids to merge into --keep")
	consolidateCmd.Flags().BoolVar(&autoMerge, "auto", false, "merge every duplicate group into its oldest record")
}

func consolidate(ctx context.Context, odb *db.OmicsDB, out io.Writer, keep string, merge []string, auto bool) error {

	if keep != "" {
		report, err := model.ConsolidateOrganisms(ctx, odb, keep, merge)
		if err != nil {
			return err
		}
		printReport(out, report)
		return nil
	}

	groups, err := model.FindDuplicateOrganisms(ctx, odb)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(out, "no duplicate organisms")
		return nil
	}

	for _, group := range groups {
		if !auto {
			fmt.Fprintf(out, "%s (%s records)\n", group[0].ScientificName, humanize.Comma(int64(len(group))))
			for _, o := range group {
				fmt.Fprintf(out, "\t%s\tcreated %s\n", o.ID, humanize.Time(o.CreatedAt))
			}
			continue
		}

		var dups []string
		for _, o := range group[1:] {
			dups = append(dups, o.ID)
		}
		report, err := model.ConsolidateOrganisms(ctx, odb, group[0].ID, dups)
		if err != nil {
			return err
		}
		logger.Info("Consolidated organism", zap.String("name", group[0].ScientificName),
			zap.String("keep", report.KeepID), zap.Strings("removed", report.Removed))
		printReport(out, report)
	}
	return nil
}

func printReport(out io.Writer, r *model.ConsolidationReport) {
	fmt.Fprintf(out, "kept %s, removed %s organisms: chromosomes %s moved / %s merged, genes %s moved / %s merged, %s systems moved",
		r.KeepID, humanize.Comma(int64(len(r.Removed))),
		humanize.Comma(int64(r.ChromosomesMoved)), humanize.Comma(int64(r.ChromosomesMerged)),
		humanize.Comma(int64(r.GenesMoved)), humanize.Comma(int64(r.GenesMerged)),
		humanize.Comma(int64(r.SystemsMoved)))
	if r.ProfileMoved {
		fmt.Fprint(out, ", profile moved")
	}
	fmt.Fprintln(out)
}
