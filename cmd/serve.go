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
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmreyes/spotify-history-tools/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the listening history dashboard over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		err := runServer(viper.GetString("database"), viper.GetString("addr"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	var addr string
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
}

func runServer(dbPath string, addr string) error {
	db, err := openQueryStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	server := web.New(db)
	fmt.Printf("Dashboard listening on %s\n", addr)
	return http.ListenAndServe(addr, server.Router())
}
