package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/dms-app/dms-backend/client"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
)

const defaultAPIURL = "http://127.0.0.1:8000/api/"

var rootCmd = &cobra.Command{
	Use:   "dmsctl",
	Short: "CLI for the document management service",
	Long: `dmsctl drives the document management API: upload documents, request
replace/delete, and (as an admin) review pending permission requests.

Environment Variables:
  DMS_API_URL  API root (default: ` + defaultAPIURL + `)`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API root URL (overrides DMS_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

func resolveAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("DMS_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// newClient builds the API client with the file-backed token store, so
// the session survives across dmsctl invocations.
func newClient() *client.Client {
	path, err := client.DefaultTokenPath()
	if err != nil {
		log.Fatal("token path:", err)
	}
	c := client.New(resolveAPIURL(), client.NewFileTokenStore(path))
	c.OnUnauthorized = func() {
		fmt.Fprintln(os.Stderr, "session expired; run 'dmsctl login'")
	}
	return c
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
