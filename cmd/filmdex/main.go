package main

import (
	"os"

	"github.com/franz/filmdex/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "filmdex",
		Short: "filmdex - film catalog store and bulk loader",
		Long: `filmdex ingests the IMDb non-commercial dataset dumps (gzipped TSV)
into a local catalog database and serves small lookups over the result.

The load pipeline validates every row against the already-persisted catalog
(duplicates, missing references, malformed rows), commits in atomic batches,
and reports per-entity counts for post-run auditing.`,
		Version: Version,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/filmdex.yaml)")
	rootCmd.PersistentFlags().String("db", "filmdex.db", "catalog database file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	// Bind flags to viper
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("filmdex")
		viper.SetConfigType("yaml")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("FILMDEX")
	viper.AutomaticEnv()

	util.SetColors(util.IsTerminal(os.Stderr.Fd()))

	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		util.ErrorLog("%v", err)
		os.Exit(1)
	}
}
