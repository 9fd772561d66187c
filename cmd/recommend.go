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
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmreyes/spotify-history-tools/internal/recommend"
)

var recommendNumber int
var recommendIncludePlayed bool

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggests tracks based on your listening history",
	Long: `Resolves your most-played tracks to their artists and collects those
artists' current top tracks, excluding anything you've already played.
Requires SPOTIFY_ID and SPOTIFY_SECRET in the environment (or a .env file).`,
	Run: func(cmd *cobra.Command, args []string) {
		err := printRecommendations(viper.GetString("database"), recommendNumber, !recommendIncludePlayed)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().IntVarP(&recommendNumber, "top-n", "n", 20, "number of recommendations to return")
	recommendCmd.Flags().BoolVar(&recommendIncludePlayed, "include-played", false, "include tracks already in the listening history")
}

func printRecommendations(dbPath string, n int, excludePlayed bool) error {
	ctx := context.Background()

	client, err := recommend.NewClient(ctx)
	if errors.Is(err, recommend.ErrMissingCredentials) {
		return fmt.Errorf("%w\nCreate an app at https://developer.spotify.com/dashboard and set both variables", err)
	}
	if err != nil {
		return err
	}

	db, err := openQueryStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Analyzing your listening history...")
	engine := recommend.NewEngine(db, client)
	tracks, err := engine.Recommend(ctx, n, excludePlayed)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		fmt.Println("No recommendations found")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Rank", "Song", "Artist", "Popularity"})
	for i, t := range tracks {
		row := []string{
			strconv.Itoa(i + 1),
			t.Name,
			strings.Join(t.Artists, ", "),
			strconv.Itoa(t.Popularity),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	fmt.Println("\nLinks:")
	for i, t := range tracks {
		if t.ExternalURL != "" {
			fmt.Printf("%d. %s: %s\n", i+1, t.Name, t.ExternalURL)
		}
	}
	return nil
}
