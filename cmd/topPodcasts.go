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

var topPodcastsYear int
var topPodcastsNumber int

var topPodcastsCmd = &cobra.Command{
	Use:   "top-podcasts",
	Short: "Ranks podcasts by total listening time",
	Long:  `All-time by default; -y restricts to one calendar year.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopPodcasts(viper.GetString("database"), topPodcastsYear, topPodcastsNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topPodcastsCmd)

	topPodcastsCmd.Flags().IntVarP(&topPodcastsYear, "year", "y", 0, "calendar year to filter by (default: all-time)")
	topPodcastsCmd.Flags().IntVarP(&topPodcastsNumber, "top-n", "n", 10, "number of results to return")
}

func printTopPodcasts(dbPath string, year int, numToReturn int) error {
	db, err := openQueryStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.TopPodcasts(yearArg(year), numToReturn)
	if errors.Is(err, store.ErrEmptyResult) {
		fmt.Println(noResults("podcasts", year))
		return nil
	}
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Rank", "Podcast", "Hours", "Minutes", "Episodes"})
	for i, st := range results {
		row := []string{
			strconv.Itoa(i + 1),
			st.Show,
			formatHours(st.TotalMS),
			formatMinutes(st.TotalMS),
			strconv.FormatInt(st.Episodes, 10),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	fmt.Printf("Top %d podcasts (%s)\n", len(results), periodLabel(year))
	return nil
}
