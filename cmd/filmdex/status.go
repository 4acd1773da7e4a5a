package main

import (
	"github.com/dustin/go-humanize"
	"github.com/franz/filmdex/internal/store"
	"github.com/franz/filmdex/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-entity row counts of the catalog database",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	rows := []struct {
		name  string
		count func() (int64, error)
	}{
		{"persons", db.CountPersons},
		{"titles", db.CountTitles},
		{"ratings", db.CountRatings},
		{"principals", db.CountPrincipals},
	}

	util.InfoLog("Catalog: %s", viper.GetString("db"))
	for _, r := range rows {
		n, err := r.count()
		if err != nil {
			return err
		}
		util.InfoLog("  %-11s %s rows", r.name, humanize.Comma(n))
	}

	return nil
}
