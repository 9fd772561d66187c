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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmreyes/spotify-history-tools/internal/ingest"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Parses streaming history export files into a local database",
	Long: `Reads Streaming_History_Audio_*.json and Streaming_History_Video_*.json
files from the data directory, normalizes and deduplicates them, and writes
the result to SQLite, Parquet, and CSV.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := ingest.Config{
			DataDir:     viper.GetString("data-dir"),
			DBPath:      viper.GetString("database"),
			ParquetPath: viper.GetString("parquet"),
			CSVPath:     viper.GetString("csv"),
		}

		summary, err := ingest.Run(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println()
		fmt.Print(summary.Report())
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	var dataDir string
	ingestCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Directory containing export files")
	viper.BindPFlag("data-dir", ingestCmd.Flags().Lookup("data-dir"))

	var parquetPath string
	ingestCmd.Flags().StringVar(&parquetPath, "parquet", "./spotify_history.parquet", "Path for the Parquet output (empty to skip)")
	viper.BindPFlag("parquet", ingestCmd.Flags().Lookup("parquet"))

	var csvPath string
	ingestCmd.Flags().StringVar(&csvPath, "csv", "./spotify_history.csv", "Path for the CSV output (empty to skip)")
	viper.BindPFlag("csv", ingestCmd.Flags().Lookup("csv"))
}
