package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/cv-screener/internal/models"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Long:  "Sign in with a username and password. With --token an existing API token is stored instead and no request is made.",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the signed in user",
	RunE:  runWhoami,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a username or email is still free",
}

var checkUsernameCmd = &cobra.Command{
	Use:   "username <username>",
	Short: "Check username availability",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckUsername,
}

var checkEmailCmd = &cobra.Command{
	Use:   "email <email>",
	Short: "Check email availability",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckEmail,
}

var (
	loginUsername string
	loginPassword string
	loginToken    string

	registerData models.RegisterData
)

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (read from stdin when empty)")
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Store this API token instead of signing in")

	registerCmd.Flags().StringVar(&registerData.Username, "username", "", "Username (required)")
	registerCmd.Flags().StringVar(&registerData.Email, "email", "", "Email (required)")
	registerCmd.Flags().StringVar(&registerData.FirstName, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&registerData.LastName, "last-name", "", "Last name")
	registerCmd.Flags().StringVar(&registerData.Password, "password", "", "Password (required)")
	registerCmd.Flags().StringVar(&registerData.PasswordConfirm, "password-confirm", "", "Password confirmation (defaults to --password)")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	checkCmd.AddCommand(checkUsernameCmd, checkEmailCmd)
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, checkCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if loginToken != "" {
		if err := a.client.Utils.SetAuthData(models.AuthData{AuthToken: loginToken, Username: loginUsername}); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token stored")
		return nil
	}

	if loginUsername == "" {
		return fmt.Errorf("--username is required")
	}
	password := loginPassword
	if password == "" {
		password, err = readLine(cmd, "Password: ")
		if err != nil {
			return err
		}
	}

	result := a.client.Auth.Authenticate(cmd.Context(), loginUsername, password)
	if err := resultError(result); err != nil {
		return err
	}
	if result.Token == "" {
		return fmt.Errorf("login response carried no token")
	}

	name, _ := a.client.Utils.Username()
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
	return nil
}

func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	data := registerData
	if data.PasswordConfirm == "" {
		data.PasswordConfirm = data.Password
	}

	result := a.client.Auth.Register(cmd.Context(), data)
	if err := resultError(result); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registered %s, run 'cvscreen login' to sign in\n", data.Username)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.client.Auth.Logout()
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	a, err := newAuthedApp()
	if err != nil {
		return err
	}
	defer a.Close()

	name, ok := a.client.Utils.Username()
	if !ok {
		name = "(unknown user)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s @ %s\n", name, a.client.BaseURL())
	return nil
}

func runCheckUsername(cmd *cobra.Command, args []string) error {
	return runCheck(cmd, args[0], func(ctx context.Context, a *app, v string) (*models.Availability, error) {
		return a.client.Auth.CheckUsername(ctx, v)
	})
}

func runCheckEmail(cmd *cobra.Command, args []string) error {
	return runCheck(cmd, args[0], func(ctx context.Context, a *app, v string) (*models.Availability, error) {
		return a.client.Auth.CheckEmail(ctx, v)
	})
}

func runCheck(cmd *cobra.Command, value string, check func(context.Context, *app, string) (*models.Availability, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	avail, err := check(cmd.Context(), a, value)
	if err != nil {
		return fmt.Errorf("availability check failed: %s", a.client.Utils.FormatError(err))
	}
	state := "taken"
	if avail.Available {
		state = "available"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", value, state)
	return nil
}
