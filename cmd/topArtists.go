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
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmreyes/spotify-history-tools/internal/store"
)

var topArtistsYear int
var topArtistsNumber int

var topArtistsCmd = &cobra.Command{
	Use:   "top-artists",
	Short: "Ranks artists by total listening time",
	Long:  `All-time by default; -y restricts to one calendar year.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopArtists(viper.GetString("database"), topArtistsYear, topArtistsNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)

	topArtistsCmd.Flags().IntVarP(&topArtistsYear, "year", "y", 0, "calendar year to filter by (default: all-time)")
	topArtistsCmd.Flags().IntVarP(&topArtistsNumber, "top-n", "n", 10, "number of results to return")
}

func printTopArtists(dbPath string, year int, numToReturn int) error {
	db, err := openQueryStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.TopArtists(yearArg(year), numToReturn)
	if errors.Is(err, store.ErrEmptyResult) {
		fmt.Println(noResults("artists", year))
		return nil
	}
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Rank", "Artist", "Hours", "Minutes", "Plays"})
	for i, at := range results {
		row := []string{
			strconv.Itoa(i + 1),
			at.Artist,
			formatHours(at.TotalMS),
			formatMinutes(at.TotalMS),
			strconv.FormatInt(at.Plays, 10),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	fmt.Printf("Top %d artists (%s)\n", len(results), periodLabel(year))
	return nil
}

func periodLabel(year int) string {
	if year == 0 {
		return "all-time"
	}
	return strconv.Itoa(year)
}

func noResults(what string, year int) string {
	return fmt.Sprintf("No %s found for %s", what, periodLabel(year))
}
