package command

// root.go defines the root command for the recipehub CLI and its global flags.

import (
	"fmt"
	"io"
	"os"

	"recipehub/cmd/cli/authentication"
	"recipehub/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var apiURL string // Global flag for API server URL

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recipehub",
	Short: "recipehub - command line client for the recipe sharing API",
	Long: `recipehub talks to a running recipehub API server. Use it to:
- Register, log in and out
- Browse, search, publish and delete recipes
- Rate recipes and read their rating breakdown

Use "recipehub [command] --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("RECIPEHUB_API")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API server URL")

	rootCmd.AddCommand(authCmd, recipeCmd, ratingCmd)
}

// GetAuthenticatedClient returns a client carrying the stored session.
func GetAuthenticatedClient() (*client.HTTPClient, error) {
	creds, err := authentication.GetSession()
	if err != nil {
		return nil, err
	}
	c := client.NewHTTPClient(apiURL)
	c.SetSession(creds.Token, creds.CSRFToken)
	return c, nil
}

// success prints a green check-marked confirmation line.
func success(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(w, "✓ "+format+"\n", args...)
}

func warn(w io.Writer, format string, args ...any) {
	color.New(color.FgYellow).Fprintf(w, "warning: "+format+"\n", args...)
}
