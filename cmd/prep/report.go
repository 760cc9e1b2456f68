package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"review_prep/internal/app"
	"review_prep/internal/domain"
	"review_prep/internal/storage/csvfile"
	mysqlrepo "review_prep/internal/storage/mysql"
	"review_prep/internal/storage/postgres"
)

var (
	reportFrom  string
	reportRun   string
	reportStage string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List empty texts, invalid ratings and duplicates in a dataset",
	Example: `  prep report --input data/reviews.csv
  prep report --from mysql --run 2b1f... --stage balance`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&cfg.InputPath, "input", "i", "", "input CSV (default $INPUT_PATH)")
	reportCmd.Flags().StringVar(&reportFrom, "from", "csv", "source: csv, mysql or postgres")
	reportCmd.Flags().StringVar(&reportRun, "run", "", "run id of a stored checkpoint")
	reportCmd.Flags().StringVar(&reportStage, "stage", app.StageClean, "stage of a stored checkpoint")
}

func runReport(cmd *cobra.Command, args []string) error {
	records, err := loadForReport(cmd.Context())
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), app.Inspect(records))
	return nil
}

func loadForReport(ctx context.Context) ([]domain.Review, error) {
	if reportFrom == "csv" {
		return csvfile.ReadFile(cfg.InputPath)
	}
	if reportRun == "" {
		return nil, fmt.Errorf("--run is required with --from %s", reportFrom)
	}

	var src domain.SnapshotReader
	switch reportFrom {
	case "mysql":
		db, err := openMySQL()
		if err != nil {
			return nil, err
		}
		defer db.Close()
		src = mysqlrepo.New(db)
	case "postgres":
		w, err := postgres.NewWriter(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		defer w.Close()
		src = w
	default:
		return nil, fmt.Errorf("unknown source %q", reportFrom)
	}
	return src.ReadSnapshot(ctx, reportRun, reportStage)
}

func printReport(w io.Writer, rep app.DataReport) {
	fmt.Fprintf(w, "records: %d\n", rep.Total)
	if rep.Clean() {
		fmt.Fprintln(w, "no issues found")
		return
	}
	fmt.Fprintf(w, "empty text: %d\n", len(rep.EmptyText))
	for _, p := range rep.EmptyText {
		fmt.Fprintf(w, "  row %d\n", p+1)
	}
	fmt.Fprintf(w, "invalid rating: %d\n", len(rep.InvalidRatings))
	for _, ri := range rep.InvalidRatings {
		fmt.Fprintf(w, "  row %d: %g\n", ri.Position+1, ri.Rating)
	}
	fmt.Fprintf(w, "duplicate groups: %d\n", len(rep.Duplicates))
	for _, g := range rep.Duplicates {
		rows := make([]int, len(g.Positions))
		for i, p := range g.Positions {
			rows[i] = p + 1
		}
		fmt.Fprintf(w, "  %dx rating %g %q rows %v\n", len(rows), g.Rating, g.Text, rows)
	}
}
