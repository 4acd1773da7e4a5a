package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/franz/filmdex/internal/load"
	"github.com/franz/filmdex/internal/report"
	"github.com/franz/filmdex/internal/store"
	"github.com/franz/filmdex/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the dataset dumps into the catalog database",
	Long: `Load the four gzipped TSV dumps into the catalog database.

The loaders run in strict dependency order: persons, titles, ratings,
principals. Re-running against the same or an updated dump never mutates
existing rows: duplicates are skipped, not updated. Rows whose references
were not loaded in a prior phase are skipped and counted, never retried.

A missing source file aborts the run; row- and batch-level failures are
absorbed into the final per-entity report.`,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringP("data-dir", "d", "data", "directory holding the .tsv.gz dumps")
	loadCmd.Flags().String("artifacts", "artifacts", "directory for the run's audit log")
	loadCmd.Flags().String("persons-file", "", "override persons dump file name")
	loadCmd.Flags().String("titles-file", "", "override titles dump file name")
	loadCmd.Flags().String("ratings-file", "", "override ratings dump file name")
	loadCmd.Flags().String("principals-file", "", "override principals dump file name")
	loadCmd.Flags().Int("batch-persons", 0, "persons batch size (default 20000)")
	loadCmd.Flags().Int("batch-titles", 0, "titles batch size (default 10000)")
	loadCmd.Flags().Int("batch-ratings", 0, "ratings batch size (default 10000)")
	loadCmd.Flags().Int("batch-principals", 0, "principals batch size (default 50000)")

	viper.BindPFlag("data-dir", loadCmd.Flags().Lookup("data-dir"))
	viper.BindPFlag("artifacts", loadCmd.Flags().Lookup("artifacts"))
}

func runLoad(cmd *cobra.Command, args []string) error {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	// SIGINT/SIGTERM let the in-flight batch finish, then stop the run
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPath := viper.GetString("db")
	util.InfoLog("Opening database: %s", dbPath)

	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	logLevel := report.LevelInfo
	if viper.GetBool("quiet") {
		logLevel = report.LevelWarning
	} else if viper.GetBool("verbose") {
		logLevel = report.LevelDebug
	}

	events, err := report.NewEventLogger(viper.GetString("artifacts"), logLevel)
	if err != nil {
		util.WarnLog("Failed to create audit log: %v", err)
		events = report.NullLogger()
	}
	defer events.Close()

	if events.Path() != "" {
		util.InfoLog("Audit log: %s (run %s)", events.Path(), events.RunID())
	}

	cfg := load.Config{
		DataDir:        viper.GetString("data-dir"),
		PersonsFile:    mustFlagString(cmd, "persons-file"),
		TitlesFile:     mustFlagString(cmd, "titles-file"),
		RatingsFile:    mustFlagString(cmd, "ratings-file"),
		PrincipalsFile: mustFlagString(cmd, "principals-file"),
		PersonBatch:    mustFlagInt(cmd, "batch-persons"),
		TitleBatch:     mustFlagInt(cmd, "batch-titles"),
		RatingBatch:    mustFlagInt(cmd, "batch-ratings"),
		PrincipalBatch: mustFlagInt(cmd, "batch-principals"),
	}

	coord := load.NewCoordinator(db, cfg, events)

	start := time.Now()
	rep, runErr := coord.Run(ctx)

	printRunReport(rep)

	if runErr != nil {
		events.Log(&report.Event{Level: report.LevelError, Event: report.EventError, Error: runErr.Error()})
		return runErr
	}

	util.SuccessLog("Load complete in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// printRunReport renders the per-entity summary, also for aborted runs
func printRunReport(rep *load.RunReport) {
	if rep == nil || len(rep.Phases) == 0 {
		return
	}

	util.InfoLog("")
	util.SuccessLog("=== Load Summary ===")
	for _, s := range rep.Phases {
		util.InfoLog("%-11s processed %s, loaded %s", s.Entity,
			humanize.Comma(s.Processed), humanize.Comma(s.Loaded))
		if s.Skipped() > 0 {
			util.InfoLog("            skipped: %s duplicate, %s missing-reference, %s malformed, %s batch-failed",
				humanize.Comma(s.SkippedDuplicate), humanize.Comma(s.SkippedMissingRef),
				humanize.Comma(s.SkippedMalformed), humanize.Comma(s.SkippedBatch))
		}
	}
}

func mustFlagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustFlagInt(cmd *cobra.Command, name string) int {
	v, _ := cmd.Flags().GetInt(name)
	return v
}
