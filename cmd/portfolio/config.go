package main

import (
	"fmt"
	"os"

	"github.com/robertozapata/portfolio/internal/config"
	envfiles "github.com/robertozapata/portfolio/internal/config/env"
	"github.com/robertozapata/portfolio/internal/mail"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect portfolio configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openPreferences()
		if err != nil {
			return err
		}
		fmt.Printf("Preferences file: %s\n", store.Path())
		if _, err := os.Stat(store.Path()); os.IsNotExist(err) {
			fmt.Println("  (not created yet; run 'portfolio lang toggle' or 'portfolio theme toggle')")
		}
		fmt.Printf("Server env dir:   %s\n", envfiles.Dir)
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the server configuration",
	Long: `Validate the server configuration and report whether the email provider
is ready. Without --env the process environment and .env files are read,
as the server does. With --env only internal/config/env/.env.<name> is read.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadServerConfig(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("Environment:    %s\n", cfg.Environment)
		fmt.Printf("Language:       %s\n", cfg.Language())
		fmt.Printf("Rate limit:     1 per %s per email (%s store)\n", cfg.ContactRateWindow, cfg.RateLimitStore)

		dispatcher, err := mail.New(cfg.Mail(), catalog)
		if err != nil {
			return err
		}
		fmt.Printf("Email provider: %s\n", dispatcher.Provider())
		if err := dispatcher.Check(); err != nil {
			fmt.Printf("  Status: ❌ %v\n", err)
			return fmt.Errorf("email provider is not ready")
		}
		fmt.Println("  Status: ✅ ready")
		return nil
	},
}

func loadServerConfig(cmd *cobra.Command) (*config.Config, error) {
	name, _ := cmd.Flags().GetString("env")
	if name == "" {
		return config.Load()
	}
	vars, err := envfiles.Read(name)
	if err != nil {
		return nil, err
	}
	if _, ok := vars["ENV"]; !ok {
		vars["ENV"] = name
	}
	return config.ParseEnv(vars)
}

// initConfigCommands sets up all config-related commands
func initConfigCommands() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configCheckCmd)

	configCheckCmd.Flags().String("env", "", "Read internal/config/env/.env.<name> instead of the environment")
}
