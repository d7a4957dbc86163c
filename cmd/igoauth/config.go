package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igoauth/pkg/config"
	"igoauth/pkg/logger"
	"igoauth/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage igoauth configuration.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (IGOAUTH_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	Long: `Write a configuration file with default values and any flags given.

The file is created as 'igoauth.yaml' in the current directory unless
--config names another path. Existing files are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the configuration after merging all sources. The client secret is masked.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = "igoauth.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	cfg := config.DefaultConfig()
	cfg.MergeFlags(config.Flags{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		Account:      account,
		LogLevel:     logLevel,
	})
	if err := cfg.Save(path); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration written: " + path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	display := *cfg
	display.Instagram.ClientSecret = logger.Mask(cfg.Instagram.ClientSecret)

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Fprint(ui.Output(), string(data))
	return nil
}
