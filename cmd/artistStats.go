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

var artistStatsExact bool

var artistStatsCmd = &cobra.Command{
	Use:   "artist-stats [artist name]",
	Short: "Shows play statistics for an artist with a per-track breakdown",
	Long: `Case-insensitive substring match by default; -e requires the whole
name to match. Multiple matches are listed separately.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printArtistStats(viper.GetString("database"), args[0], artistStatsExact)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(artistStatsCmd)

	artistStatsCmd.Flags().BoolVarP(&artistStatsExact, "exact", "e", false, "match the artist name exactly (case-insensitive)")
}

func printArtistStats(dbPath string, name string, exact bool) error {
	db, err := openQueryStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.ArtistStats(name, exact)
	if errors.Is(err, store.ErrEmptyResult) {
		fmt.Printf("No artists found matching %q\n", name)
		return nil
	}
	if err != nil {
		return err
	}

	if len(results) > 1 {
		fmt.Printf("Found %d matching artists:\n\n", len(results))
	}
	for _, ab := range results {
		fmt.Printf("%s\n", ab.Artist)
		fmt.Printf("  Songs played: %d\n", len(ab.Tracks))
		fmt.Printf("  Total plays: %d\n", ab.Plays)
		fmt.Printf("  Total time: %s hours (%s minutes)\n",
			formatHours(ab.TotalMS), formatMinutes(ab.TotalMS))

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Rank", "Song", "Plays", "Minutes"})
		for i, st := range ab.Tracks {
			row := []string{
				strconv.Itoa(i + 1),
				st.Track,
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
		fmt.Println()
	}
	return nil
}
