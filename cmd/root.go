/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/jmreyes/spotify-history-tools/internal/store"
)

var cfgFile string
var databasePath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spotify-history-tools",
	Short: "Analyzes exported Spotify streaming history",
	Long: `Ingests streaming history export files into a local database and
answers questions about them: top artists, songs, podcasts, per-song and
per-artist stats, and naive recommendations.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.spotify-history-tools.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./spotify_history.db", "Path to the SQLite database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".spotify-history-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".spotify-history-tools")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

// openQueryStore opens the database for a read-only command, turning a
// missing database into an actionable message.
func openQueryStore(dbPath string) (*store.Store, error) {
	st, err := store.Open(dbPath)
	if errors.Is(err, store.ErrNoDatabase) {
		return nil, fmt.Errorf("no database at %s - run 'ingest' first", dbPath)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// yearArg converts the -y flag value to an optional year. Zero means
// all-time.
func yearArg(year int) *int {
	if year == 0 {
		return nil
	}
	return &year
}

func formatMinutes(ms int64) string {
	return fmt.Sprintf("%.1f", float64(ms)/60000.0)
}

func formatHours(ms int64) string {
	return fmt.Sprintf("%.2f", float64(ms)/3600000.0)
}
