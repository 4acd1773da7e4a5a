package main

import (
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/franz/filmdex/internal/queryset"
	"github.com/franz/filmdex/internal/store"
	"github.com/franz/filmdex/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Generate a load-test query set from the loaded catalog",
	Long: `Generate search queries by weighted random sampling of title names,
weighted by vote count, so popular titles appear proportionally more often.
One query per line.`,
	RunE: runQueries,
}

func init() {
	rootCmd.AddCommand(queriesCmd)

	queriesCmd.Flags().Int("count", 10000, "number of queries to generate")
	queriesCmd.Flags().StringP("output", "o", "queries.txt", "output file")
	queriesCmd.Flags().Int64("seed", 0, "random seed (0 seeds from the clock)")
}

func runQueries(cmd *cobra.Command, args []string) error {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	titles, err := db.RatedTitles()
	if err != nil {
		return err
	}
	util.InfoLog("Found %s rated titles for sampling", humanize.Comma(int64(len(titles))))

	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	count, _ := cmd.Flags().GetInt("count")
	queries, err := queryset.Generate(titles, count, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if err := queryset.WriteFile(output, queries); err != nil {
		return err
	}

	util.SuccessLog("Wrote %s queries to %s", humanize.Comma(int64(len(queries))), output)
	return nil
}
