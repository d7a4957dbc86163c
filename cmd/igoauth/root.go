package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	errs "igoauth/pkg/errors"
	"igoauth/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile   string
	logLevel     string
	account      string
	clientID     string
	clientSecret string
	redirectURI  string
	noColor      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "igoauth",
	Short: "Instagram Basic Display OAuth client",
	Long: `igoauth walks an Instagram account through the OAuth flow and reads its media.

Typical flow:
  1. igoauth authorize-url       open the printed URL and approve access
  2. igoauth exchange <code>     trade the redirect code for a short-lived token
  3. igoauth long-lived          trade it for a 60 day long-lived token
  4. igoauth media               list the account's media
  5. igoauth refresh             extend the long-lived token before it expires

Tokens are stored per account in the system keychain when available,
otherwise in an encrypted file.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.SetNoColor(true)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		if hint := errorHint(err); hint != "" {
			ui.PrintWarning(hint)
		}
		os.Exit(1)
	}
}

// errorHint suggests a next step for the failure classes the client reports
func errorHint(err error) string {
	switch errs.TypeOf(err) {
	case errs.ErrorTypeNetwork:
		return "Could not reach Instagram; check the network connection and --log-level debug output"
	case errs.ErrorTypeParsing:
		return "Instagram sent a response that is not a JSON object; run with --log-level debug to see it"
	case errs.ErrorTypeAPI:
		return "Instagram rejected the request; check the app credentials, redirect URI and stored tokens"
	default:
		return ""
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.igoauth.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&account, "account", "a", "", "account name the tokens are stored under")
	rootCmd.PersistentFlags().StringVar(&clientID, "client-id", "", "Instagram app client ID")
	rootCmd.PersistentFlags().StringVar(&clientSecret, "client-secret", "", "Instagram app client secret")
	rootCmd.PersistentFlags().StringVar(&redirectURI, "redirect-uri", "", "OAuth redirect URI registered for the app")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.SetVersionTemplate(`igoauth {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
