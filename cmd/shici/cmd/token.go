package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shicihub/internal/auth"
	"shicihub/pkg/utils"
)

var tokenName string

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint a bearer token for a user id",
	Long:  "Signs a token with SHICI_JWT_SECRET so search history can be exercised without the session provider.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens := auth.NewTokenService(utils.LoadAuthConfig())
		tok, exp, err := tokens.Sign(args[0], tokenName)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "Username claim")
}
