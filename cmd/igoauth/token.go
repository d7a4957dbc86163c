package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"igoauth/pkg/auth"
	"igoauth/pkg/ui"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect or remove stored tokens",
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored tokens of the account (masked)",
	Args:  cobra.NoArgs,
	RunE:  runTokenShow,
}

var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts with stored tokens",
	Args:  cobra.NoArgs,
	RunE:  runTokenList,
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored tokens of the account",
	Args:  cobra.NoArgs,
	RunE:  runTokenClear,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenShowCmd)
	tokenCmd.AddCommand(tokenListCmd)
	tokenCmd.AddCommand(tokenClearCmd)
}

func runTokenShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	session, err := a.manager.Retrieve(a.cfg.Storage.Account)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			ui.PrintWarning("No tokens stored for account", a.cfg.Storage.Account)
			return nil
		}
		return err
	}

	printSession(session, a.client.IsLongLivedTokenExpired())
	return nil
}

func runTokenList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	sessions, err := a.manager.List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		ui.PrintInfo("No stored accounts", "use 'igoauth authorize-url' to start")
		return nil
	}

	ui.PrintHighlight("Stored Accounts")
	for _, session := range sessions {
		printSession(session, session.Tokens.IsLongLivedTokenExpired(now()))
	}
	return nil
}

func runTokenClear(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if err := a.manager.Delete(a.cfg.Storage.Account); err != nil {
		return err
	}
	ui.PrintSuccess("Tokens removed: " + a.cfg.Storage.Account)
	return nil
}

func printSession(session *auth.Session, expired bool) {
	s := auth.SanitizeSession(session)
	fmt.Fprintln(ui.Output())
	ui.PrintInfo("Account", s.Account)
	ui.PrintInfo("Redirect URI", s.Tokens.RedirectURI)
	ui.PrintInfo("Short-lived token", s.Tokens.ShortLivedAccessToken)
	ui.PrintInfo("Long-lived token", s.Tokens.LongLivedAccessToken)
	ui.PrintInfo("Expires", formatExpiry(s.Tokens.LongLivedAccessTokenExpiresWhen))
	ui.PrintInfo("Expired", fmt.Sprintf("%t", expired))
	if !s.LastModified.IsZero() {
		ui.PrintInfo("Last modified", s.LastModified.Format("2006-01-02 15:04:05"))
	}
}
