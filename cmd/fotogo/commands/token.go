package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Roky360/fotogo-bakcend/pkg/config"
	"github.com/Roky360/fotogo-bakcend/pkg/identity"
)

var (
	tokenEmail string
	tokenName  string
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue a credential token for local development",
	Long: `Issue a signed credential token for the given user id, using the JWT
secret from the configuration. Useful for driving the server from scripts
or manual testing without an external identity provider.

Examples:
  fotogo token alice
  fotogo token alice --email alice@example.com --name "Alice"`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim for the token")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "display name claim for the token")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	verifier, err := identity.NewJWTVerifier(identity.JWTConfig{
		Secret:        cfg.Identity.JWTSecret,
		Issuer:        cfg.Identity.Issuer,
		TokenDuration: cfg.Identity.TokenDuration,
	})
	if err != nil {
		return fmt.Errorf("invalid identity configuration: %w", err)
	}

	token, err := verifier.IssueToken(identity.Identity{
		UserID:      args[0],
		Email:       tokenEmail,
		DisplayName: tokenName,
	})
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Println(token)
	return nil
}
