package main

import (
	"fmt"

	"github.com/franz/filmdex/internal/store"
	"github.com/franz/filmdex/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var showCmd = &cobra.Command{
	Use:   "show <tconst>",
	Short: "Show the full record of one title",
	Long: `Show a title with its rating and its cast and directors in credit
order.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	detail, err := db.GetTitleDetail(args[0])
	if err != nil {
		return err
	}
	if detail == nil {
		return fmt.Errorf("title %s not found", args[0])
	}

	t := detail.Title
	fmt.Printf("%s (%s)\n", t.PrimaryTitle, t.TConst)
	if t.TitleType.Valid {
		fmt.Printf("  type:    %s\n", t.TitleType.String)
	}
	if t.StartYear.Valid {
		if t.EndYear.Valid {
			fmt.Printf("  years:   %d-%d\n", t.StartYear.Int64, t.EndYear.Int64)
		} else {
			fmt.Printf("  year:    %d\n", t.StartYear.Int64)
		}
	}
	if t.RuntimeMinutes.Valid {
		fmt.Printf("  runtime: %d min\n", t.RuntimeMinutes.Int64)
	}
	if t.Genres.Valid {
		fmt.Printf("  genres:  %s\n", t.Genres.String)
	}
	if detail.Rating != nil && detail.Rating.AverageRating.Valid {
		fmt.Printf("  rating:  %.1f (%d votes)\n",
			detail.Rating.AverageRating.Float64, detail.Rating.NumVotes.Int64)
	}

	if len(detail.Directors) > 0 {
		fmt.Println("  directors:")
		for _, d := range detail.Directors {
			fmt.Printf("    %s\n", d.PrimaryName)
		}
	}
	if len(detail.Actors) > 0 {
		fmt.Println("  cast:")
		for _, a := range detail.Actors {
			if a.Characters.Valid {
				fmt.Printf("    %s as %s\n", a.PrimaryName, a.Characters.String)
			} else {
				fmt.Printf("    %s\n", a.PrimaryName)
			}
		}
	}

	return nil
}
