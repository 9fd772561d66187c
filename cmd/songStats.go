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
	"github.com/spf13/viper"

	"github.com/jmreyes/spotify-history-tools/internal/store"
)

var songStatsExact bool

var songStatsCmd = &cobra.Command{
	Use:   "song-stats [song name]",
	Short: "Shows play statistics for a song",
	Long: `Case-insensitive substring match by default; -e requires the whole
name to match. Multiple matches are listed separately.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printSongStats(viper.GetString("database"), args[0], songStatsExact)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(songStatsCmd)

	songStatsCmd.Flags().BoolVarP(&songStatsExact, "exact", "e", false, "match the song name exactly (case-insensitive)")
}

func printSongStats(dbPath string, name string, exact bool) error {
	db, err := openQueryStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.SongStats(name, exact)
	if errors.Is(err, store.ErrEmptyResult) {
		fmt.Printf("No songs found matching %q\n", name)
		return nil
	}
	if err != nil {
		return err
	}

	if len(results) > 1 {
		fmt.Printf("Found %d matching songs:\n", len(results))
	}
	for i, st := range results {
		fmt.Printf("\n%d. %s\n", i+1, st.Track)
		fmt.Printf("   Artist: %s\n", st.Artist)
		fmt.Printf("   Times played: %d\n", st.Plays)
		fmt.Printf("   Total time: %s hours (%s minutes)\n",
			formatHours(st.TotalMS), formatMinutes(st.TotalMS))
		fmt.Printf("   Average per play: %s minutes\n",
			formatMinutes(st.TotalMS/st.Plays))
	}
	return nil
}
