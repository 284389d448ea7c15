package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retrieva-cli/internal/adapters/driving/httpapi"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP question answering API",
	Long: `Starts an HTTP server exposing POST /ask. The endpoint accepts a
JSON body with a "question" field and returns the answer with its
sources. Stop with Ctrl+C; in-flight requests are drained first.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "listen port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := initClients(cmd); err != nil {
		return err
	}
	if askService == nil {
		return errors.New("ask service not configured")
	}

	server := httpapi.NewServer(askService, log)
	addr := fmt.Sprintf(":%d", servePort)
	cmd.Printf("Listening on http://localhost%s\n", addr)
	return server.Run(cmd.Context(), addr)
}
