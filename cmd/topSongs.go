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

var topSongsYear int
var topSongsNumber int
var topSongsBy string

var topSongsCmd = &cobra.Command{
	Use:   "top-songs",
	Short: "Ranks songs by plays or listening time",
	Long:  `All-time by default; -y restricts to one calendar year. --by selects the metric.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopSongs(viper.GetString("database"), topSongsYear, topSongsNumber, topSongsBy)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topSongsCmd)

	topSongsCmd.Flags().IntVarP(&topSongsYear, "year", "y", 0, "calendar year to filter by (default: all-time)")
	topSongsCmd.Flags().IntVarP(&topSongsNumber, "top-n", "n", 10, "number of results to return")
	topSongsCmd.Flags().StringVar(&topSongsBy, "by", "plays", "ranking metric: plays or minutes")
}

func printTopSongs(dbPath string, year int, numToReturn int, by string) error {
	var metric store.SongMetric
	switch by {
	case "plays":
		metric = store.ByPlays
	case "minutes":
		metric = store.ByMinutes
	default:
		return fmt.Errorf("--by must be 'plays' or 'minutes', got %q", by)
	}

	db, err := openQueryStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.TopSongs(yearArg(year), numToReturn, metric)
	if errors.Is(err, store.ErrEmptyResult) {
		fmt.Println(noResults("songs", year))
		return nil
	}
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Rank", "Song", "Artist", "Plays", "Minutes"})
	for i, st := range results {
		row := []string{
			strconv.Itoa(i + 1),
			st.Track,
			st.Artist,
			strconv.FormatInt(st.Plays, 10),
			formatMinutes(st.TotalMS),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	fmt.Printf("Top %d songs by %s (%s)\n", len(results), by, periodLabel(year))
	return nil
}
