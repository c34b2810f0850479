package command

// root.go defines the root command for the blogtech CLI application.
// set up the global flags and shared client helpers here.

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Naicocircus/blog-tech/cmd/cli/authentication"
	"github.com/Naicocircus/blog-tech/internal/client"
	"github.com/Naicocircus/blog-tech/internal/config"
)

var (
	apiURL      string        // Global flag for API server URL
	httpTimeout time.Duration // Global flag for request timeout

	// cliCfg seeds the flag defaults from the environment (.env included);
	// flags override it per invocation.
	cliCfg = loadCLIConfig()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blogtech",
	Short: "blogtech - blog engagement command line client",
	Long: `blogtech is a terminal client for the blog-tech API. It keeps your
notification, reaction and share state in sync with the server. Use it to:
- Browse posts and comments
- Like, react to and share posts
- Read and manage your notifications
- Watch for new notifications in real time

Use "blogtech [command] -h" to see all available commands.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", cliCfg.APIBaseURL, "API server URL")
	rootCmd.PersistentFlags().DurationVar(&httpTimeout, "timeout", cliCfg.HTTPTimeout, "request timeout")
}

func loadCLIConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	return cfg
}

// getClient builds an anonymous API client from the global flags.
func getClient() *client.Client {
	return client.New(apiURL,
		client.WithTimeout(httpTimeout),
		client.WithRateLimit(cliCfg.RequestsPerSecond),
	)
}

// getAuthenticatedClient builds a client carrying the stored session token.
// It fails when no session is stored, and clears the session if the server
// rejects the token mid-command.
func getAuthenticatedClient() (*client.Client, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, fmt.Errorf("not logged in, please run 'blogtech auth login' first")
	}
	if creds.ExpiresAt > 0 && time.Now().Unix() >= creds.ExpiresAt {
		authentication.DeleteTokens()
		return nil, fmt.Errorf("session expired, please run 'blogtech auth login' again")
	}

	c := getClient()
	c.SetToken(creds.Token)
	c.SetOnUnauthorized(func() {
		authentication.DeleteTokens()
		color.Red("Session rejected by server; you have been logged out.")
	})
	return c, nil
}
