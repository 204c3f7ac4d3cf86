package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/pkg/config"
	"github.com/marmos91/dittodrive/pkg/drive/identity"
)

var (
	tokenUserID string
	tokenEmail  string
	tokenName   string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for development",
	Long: `Mint a signed bearer token for development and testing.

In production, tokens come from the external identity provider. This
command signs a token locally using the configured identity secret so
the API can be exercised without a running provider.

Examples:
  dittodrive token --user alice --email alice@example.com
  dittodrive token --user alice --email alice@example.com --name "Alice Smith"`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "Subject user ID (required)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "User email (required)")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "Display name (default: user ID)")
	_ = tokenCmd.MarkFlagRequired("user")
	_ = tokenCmd.MarkFlagRequired("email")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return err
	}

	tokens, err := identity.NewTokenService(identity.Config{
		Secret:        cfg.Identity.Secret,
		Issuer:        cfg.Identity.Issuer,
		TokenDuration: cfg.Identity.TokenDuration,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	name := tokenName
	if name == "" {
		name = tokenUserID
	}

	token, err := tokens.GenerateToken(tokenUserID, tokenEmail, name)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Println(token)
	return nil
}
