package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage API bearer tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a bearer token for the HTTP API",
	Long: `Sign an HS256 token with server.jwt_secret. The email claim decides
whether the caller may import; only auth.admin_email is granted import.`,
	Args: cobra.NoArgs,
	RunE: runTokenIssue,
}

var tokenEmail string

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim (default auth.admin_email)")
	tokenCmd.AddCommand(tokenIssueCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runTokenIssue(cmd *cobra.Command, _ []string) error {
	a, err := services(cmd)
	if err != nil {
		return err
	}
	if a.Tokens == nil {
		return errors.New("server.jwt_secret is not set")
	}

	email := strings.TrimSpace(tokenEmail)
	if email == "" {
		email = a.Settings.Auth.AdminEmail
	}
	if email == "" {
		return errors.New("no --email given and auth.admin_email is not set")
	}

	token, err := a.Tokens.Issue(domain.Principal{Subject: email, Email: email})
	if err != nil {
		return err
	}
	cmd.Println(token)
	return nil
}
