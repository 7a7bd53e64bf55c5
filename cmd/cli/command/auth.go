package command

import (
	"fmt"

	"recipehub/cmd/cli/authentication"
	"recipehub/cmd/cli/command/client"
	"recipehub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the recipehub API server. Supports register, login, logout and whoami.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.RegisterRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")
		req.Email, _ = cmd.Flags().GetString("email")
		req.FirstName, _ = cmd.Flags().GetString("first-name")
		req.LastName, _ = cmd.Flags().GetString("last-name")

		response, err := client.NewHTTPClient(apiURL).Register(req)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		if err := saveSession(response); err != nil {
			return err
		}

		success(cmd.OutOrStdout(), "Registered and logged in as %s", response.User.Username)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a username or email",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Login, _ = cmd.Flags().GetString("login")
		req.Password, _ = cmd.Flags().GetString("password")

		response, err := client.NewHTTPClient(apiURL).Login(req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := saveSession(response); err != nil {
			return err
		}

		success(cmd.OutOrStdout(), "Logged in as %s", response.User.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient()
		if err == nil {
			// the server may already have expired it
			if err := c.Logout(); err != nil {
				warn(cmd.ErrOrStderr(), "%v", err)
			}
		}
		if err := authentication.DeleteSession(); err != nil {
			return fmt.Errorf("clear stored session: %w", err)
		}

		success(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		me, err := c.Me()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Username: %s\n", me.Username)
		fmt.Fprintf(out, "Email:    %s\n", me.Email)
		if name := fullName(me.FirstName, me.LastName); name != "" {
			fmt.Fprintf(out, "Name:     %s\n", name)
		}
		fmt.Fprintf(out, "ID:       %s\n", me.ID)
		return nil
	},
}

func init() {
	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)

	registerCmd.Flags().StringP("username", "u", "", "Username for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account")
	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	registerCmd.Flags().String("first-name", "", "First name")
	registerCmd.Flags().String("last-name", "", "Last name")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("first-name")
	registerCmd.MarkFlagRequired("last-name")

	loginCmd.Flags().StringP("login", "u", "", "Username or email")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.MarkFlagRequired("login")
	loginCmd.MarkFlagRequired("password")
}

func saveSession(resp *dto.AuthResponse) error {
	err := authentication.StoreSession(&authentication.StoredCredentials{
		Token:     resp.Token,
		CSRFToken: resp.CSRFToken,
		UserID:    resp.User.ID,
		Username:  resp.User.Username,
		ExpiresAt: resp.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func fullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
