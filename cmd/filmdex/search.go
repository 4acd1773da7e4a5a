package main

import (
	"fmt"

	"github.com/franz/filmdex/internal/store"
	"github.com/franz/filmdex/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search titles by display name",
	Long: `Search for titles whose display name contains the query string,
case-insensitively. Results include rating info when present.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Int("limit", 50, "maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	results, err := db.SearchTitles(args[0], limit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		util.InfoLog("No titles matching %q", args[0])
		return nil
	}

	for _, r := range results {
		year := "????"
		if r.StartYear.Valid {
			year = fmt.Sprintf("%d", r.StartYear.Int64)
		}
		rating := ""
		if r.AverageRating.Valid {
			rating = fmt.Sprintf("  %.1f (%d votes)", r.AverageRating.Float64, r.NumVotes.Int64)
		}
		fmt.Printf("%s  %s (%s)%s\n", r.TConst, r.PrimaryTitle, year, rating)
	}

	return nil
}
