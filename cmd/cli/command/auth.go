package command

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/Naicocircus/blog-tech/cmd/cli/authentication"
	"github.com/Naicocircus/blog-tech/internal/client"
)

// auth.go handles authentication commands for the blogtech CLI application.
// auth login, register, logout and whoami commands live here.

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the blog-tech API server. Supports login, registration, logout.`,
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new blog-tech account",
	RunE: func(cmd *cobra.Command, args []string) error {
		// get data from flags
		var req client.RegisterRequest
		req.Name, _ = cmd.Flags().GetString("name")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")

		httpClient := getClient()
		resp, err := httpClient.Register(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("registration process failed: %w", err)
		}

		if err := saveSession(resp); err != nil {
			return fmt.Errorf("could not store session: %w", err)
		}

		fmt.Println("✓ Registration successful!")
		fmt.Printf("Logged in as %s <%s>\n", resp.User.Name, resp.User.Email)
		return nil
	},
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your blog-tech account",
	RunE: func(cmd *cobra.Command, args []string) error {
		// get data from flags
		var creds client.Credentials
		creds.Email, _ = cmd.Flags().GetString("email")
		creds.Password, _ = cmd.Flags().GetString("password")

		httpClient := getClient()
		resp, err := httpClient.Login(cmd.Context(), creds)
		if err != nil {
			return fmt.Errorf("login process failed: %w", err)
		}

		if err := saveSession(resp); err != nil {
			return fmt.Errorf("could not store session: %w", err)
		}

		fmt.Println("✓ Successfully logged in!")
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from your blog-tech account",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Best effort server-side logout; the local session is cleared anyway.
		if httpClient, err := getAuthenticatedClient(); err == nil {
			httpClient.Logout(cmd.Context())
		}
		authentication.DeleteTokens()
		fmt.Println("✓ Successfully logged out.")
		return nil
	},
}

// whoamiCmd shows the stored session and the account the server sees
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		user, err := httpClient.Me(cmd.Context())
		if err != nil {
			return fmt.Errorf("could not fetch account: %w", err)
		}
		fmt.Printf("%s <%s> (ID: %s)\n", user.Name, user.Email, user.ID)
		return nil
	},
}

// init function to add auth commands to root command
func init() {
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)

	registerCmd.Flags().StringP("name", "n", "", "Display name for the new account")
	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account")
	registerCmd.MarkFlagRequired("name")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringP("email", "e", "", "Email address for the account")
	loginCmd.Flags().StringP("password", "p", "", "Password for the account")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(authCmd)
}

// saveSession stores the token in the OS keyring. The expiry is read from
// the token itself; the signature is the server's business, not ours.
func saveSession(resp *client.AuthResponse) error {
	creds := &authentication.StoredCredentials{
		Token:  resp.Token,
		UserID: resp.User.ID,
		Name:   resp.User.Name,
		Email:  resp.User.Email,
	}

	parser := jwt.NewParser()
	if parsed, _, err := parser.ParseUnverified(resp.Token, jwt.MapClaims{}); err == nil {
		if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
			creds.ExpiresAt = exp.Unix()
		}
	}

	return authentication.StoreTokens(creds)
}
