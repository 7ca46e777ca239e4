package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexbase/internal/adapters/driving/rest"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP import API",
	Long: `Start the HTTP API. Requests to /api/v1/rag must carry an HS256 bearer
token signed with server.jwt_secret; only auth.admin_email may import.

Routes:
  POST /api/v1/rag/import                multipart upload
  GET  /api/v1/rag/documents             list documents
  GET  /api/v1/rag/documents/:id         document details
  POST /api/v1/rag/documents/:id/embed   retry embedding
  GET  /healthz                          liveness`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := services(cmd)
	if err != nil {
		return err
	}
	if a.Tokens == nil {
		return errors.New("server.jwt_secret is not set; run 'lexbase settings show' to review")
	}

	server, err := rest.NewServer(&rest.Ports{
		Ingestion: a.Ingestion,
		Documents: a.Documents,
		Tokens:    a.Tokens,
	})
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = a.Settings.Server.Addr
	}
	cmd.Printf("Listening on %s\n", addr)
	return server.Run(cmd.Context(), addr)
}
