package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"igoauth/pkg/auth"
	"igoauth/pkg/config"
	"igoauth/pkg/instagram"
	"igoauth/pkg/ui"
)

var (
	authScope string
	authState string
)

// authorizeCmd represents the authorize-url command
var authorizeCmd = &cobra.Command{
	Use:   "authorize-url",
	Short: "Print the URL that starts the OAuth flow",
	Long: `Print the Instagram authorization URL for the configured app.

The redirect URI is remembered for the account, since the code exchange
must send the same value.`,
	Example: `  # Default scopes
  igoauth authorize-url --redirect-uri https://example.com/auth

  # Custom scopes and a random state value
  igoauth authorize-url --scope user_profile,user_media --state`,
	Args: cobra.NoArgs,
	RunE: runAuthorize,
}

// exchangeCmd represents the exchange command
var exchangeCmd = &cobra.Command{
	Use:   "exchange <code>",
	Short: "Exchange an authorization code for a short-lived token",
	Long: `Exchange the code from the redirect URL for a short-lived access token.

If no client secret is configured and stdin is a terminal, the secret is
read interactively without echo.`,
	Args: cobra.ExactArgs(1),
	RunE: runExchange,
}

// longLivedCmd represents the long-lived command
var longLivedCmd = &cobra.Command{
	Use:   "long-lived",
	Short: "Exchange the short-lived token for a long-lived token",
	Args:  cobra.NoArgs,
	RunE:  runLongLived,
}

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the long-lived token",
	Args:  cobra.NoArgs,
	RunE:  runRefresh,
}

func init() {
	authorizeCmd.Flags().StringVar(&authScope, "scope", "", "comma separated scopes (default from config)")
	authorizeCmd.Flags().StringVar(&authState, "state", "", "state value echoed back on redirect; without a value a random one is used")
	authorizeCmd.Flags().Lookup("state").NoOptDefVal = randomState

	rootCmd.AddCommand(authorizeCmd)
	rootCmd.AddCommand(exchangeCmd)
	rootCmd.AddCommand(longLivedCmd)
	rootCmd.AddCommand(refreshCmd)
}

const randomState = "random"

func runAuthorize(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireWritable("authorize-url"); err != nil {
		return err
	}

	redirect := a.client.RedirectURI()
	if redirect == "" {
		return errors.New("redirect URI is required (use --redirect-uri or IGOAUTH_REDIRECT_URI)")
	}

	scope := a.cfg.Instagram.Scopes
	if authScope != "" {
		scope = config.SplitList(authScope)
	}

	state := authState
	if state == randomState {
		state = instagram.NewState()
	}

	authURL := a.client.BuildAuthorizeURLWithState(redirect, scope, state)
	if err := a.save(); err != nil {
		return err
	}

	auth.ShowAuthorizationGuide(ui.Output(), authURL, redirect)
	if state != "" {
		ui.PrintInfo("State", state)
	}
	return nil
}

func runExchange(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireWritable("exchange"); err != nil {
		return err
	}

	if a.client.RedirectURI() == "" {
		return errors.New("redirect URI is required; run authorize-url first or pass --redirect-uri")
	}

	if a.cfg.Instagram.ClientSecret == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(ui.Output(), "Client secret: ")
		secret, err := readPassword()
		if err != nil {
			return fmt.Errorf("failed to read client secret: %w", err)
		}
		a.client = a.newClient(secret)
	}

	result, err := a.client.ExchangeCodeForShortLivedToken(cmd.Context(), auth.CleanCode(args[0]))
	if err != nil {
		return err
	}
	if err := checkResult(result); err != nil {
		return err
	}
	if err := a.save(); err != nil {
		return err
	}

	ui.PrintSuccess("Short-lived token stored")
	if userID := result.Int64("user_id"); userID != 0 {
		ui.PrintInfo("User ID", strconv.FormatInt(userID, 10))
	}
	ui.PrintInfo("Token", auth.SanitizeSession(a.session).Tokens.ShortLivedAccessToken)
	return nil
}

func runLongLived(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireWritable("long-lived"); err != nil {
		return err
	}

	if a.client.ShortLivedAccessToken() == "" {
		return errors.New("no short-lived token stored; run exchange first")
	}

	result, err := a.client.ExchangeShortLivedForLongLivedToken(cmd.Context())
	if err != nil {
		return err
	}
	return a.storeLongLived(result, "Long-lived token stored")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireWritable("refresh"); err != nil {
		return err
	}

	if a.client.LongLivedAccessToken() == "" {
		return errors.New("no long-lived token stored; run long-lived first")
	}
	if a.client.IsLongLivedTokenExpired() {
		ui.PrintWarning("The stored long-lived token has expired; Instagram will likely reject the refresh")
	}

	result, err := a.client.RefreshLongLivedToken(cmd.Context())
	if err != nil {
		return err
	}
	return a.storeLongLived(result, "Long-lived token refreshed")
}

// storeLongLived derives the absolute expiry from expires_in and persists the state
func (a *app) storeLongLived(result instagram.Result, msg string) error {
	if err := checkResult(result); err != nil {
		return err
	}

	a.client.SetLongLivedAccessTokenExpiresWhen(a.client.TokenState().ExpiresWhenFrom(now()))
	if err := a.save(); err != nil {
		return err
	}

	ui.PrintSuccess(msg)
	ui.PrintInfo("Expires", formatExpiry(a.client.LongLivedAccessTokenExpiresWhen()))
	return nil
}

// readPassword reads a secret from stdin without echoing
func readPassword() (string, error) {
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(ui.Output())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}
