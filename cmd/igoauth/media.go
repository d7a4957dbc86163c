package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"igoauth/pkg/config"
	"igoauth/pkg/instagram"
	"igoauth/pkg/ui"
)

var (
	mediaFields string
	mediaLimit  int
	mediaJSON   bool
)

// mediaCmd represents the media command
var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "List the account's media",
	Long: `List the media of the authorized account.

The long-lived token is used unless it is known to be expired, in which
case the short-lived token is sent instead.`,
	Example: `  igoauth media
  igoauth media --fields id,caption --limit 5
  igoauth media --json`,
	Args: cobra.NoArgs,
	RunE: runMedia,
}

func init() {
	mediaCmd.Flags().StringVar(&mediaFields, "fields", "", "comma separated fields (default: all known media fields)")
	mediaCmd.Flags().IntVar(&mediaLimit, "limit", 0, "maximum number of items to return")
	mediaCmd.Flags().BoolVar(&mediaJSON, "json", false, "print the raw JSON response")

	rootCmd.AddCommand(mediaCmd)
}

func runMedia(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if a.client.IsLongLivedTokenExpired() {
		ui.PrintWarning("Long-lived token expired; falling back to the short-lived token")
	}

	var limit *int
	if cmd.Flags().Changed("limit") {
		limit = instagram.Limit(mediaLimit)
	}

	result, err := a.client.FetchMyMedia(cmd.Context(), config.SplitList(mediaFields), limit)
	if err != nil {
		return err
	}
	if err := checkResult(result); err != nil {
		return err
	}

	if mediaJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format response: %w", err)
		}
		ui.PrintRaw(string(data))
		return nil
	}

	media, err := result.Media()
	if err != nil {
		return err
	}
	ui.PrintMediaTable(media)
	return nil
}
