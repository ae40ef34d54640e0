package main

import (
	"fmt"
	"os"

	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/logging"
	"github.com/robertozapata/portfolio/internal/preference"
	"github.com/robertozapata/portfolio/internal/version"

	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080"

var (
	logger  *logging.Logger
	catalog *i18n.Catalog
)

func initLogger() {
	// Initialize logger configuration
	logConfig := &logging.LogConfig{
		Level:      os.Getenv("LOG_LEVEL"),
		File:       "~/.portfolio/cli.log",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
	}

	// Initialize the global logger
	if err := logging.InitLogger(logConfig); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Get the logger instance
	logger = logging.GetGlobalLogger()
}

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio CLI - contact form and preferences client",
	Long: `Portfolio CLI talks to a portfolio server: it sends contact messages,
shows the contact endpoint description and keeps your language and theme
preferences.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print version information. With --check the server's version is
fetched and compared.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Portfolio CLI version: %s\n", version.Info())

		check, _ := cmd.Flags().GetBool("check")
		if !check {
			return nil
		}

		info, err := version.FetchServerInfo(cmd.Context(), serverURL(cmd))
		if err != nil {
			return fmt.Errorf("failed to check server version: %w", err)
		}
		fmt.Printf("Server status:  %s\n", info.Status)
		fmt.Printf("Server version: %s (API %s)\n", info.Build.Version, info.Build.APIVersion)
		if version.IsUpdateAvailable(version.Version, info.Build.Version) {
			fmt.Println("A newer version is running on the server")
		}
		return nil
	},
}

// serverURL resolves --server, then PORTFOLIO_SERVER, then the default
func serverURL(cmd *cobra.Command) string {
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		return s
	}
	if s := os.Getenv("PORTFOLIO_SERVER"); s != "" {
		return s
	}
	return defaultServer
}

// openPreferences mounts the language and theme contexts backed by the
// preferences file
func openPreferences() (*preference.Preferences, *preference.FileStore, error) {
	path, err := preference.DefaultFilePath()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to locate preferences: %w", err)
	}
	store := preference.NewFileStore(path)
	return preference.New(store, preference.NopDocument{}, i18n.DefaultLanguage), store, nil
}

// currentLanguage is --lang when given, otherwise the stored language
func currentLanguage(cmd *cobra.Command) (i18n.Language, error) {
	if s, _ := cmd.Flags().GetString("lang"); s != "" {
		return i18n.ParseLanguage(s)
	}
	prefs, _, err := openPreferences()
	if err != nil {
		return "", err
	}
	return prefs.Language.Language(), nil
}

func init() {
	// Initialize logger first
	initLogger()
	catalog = i18n.MustLoad()

	rootCmd.PersistentFlags().String("server", "", "Portfolio server URL (default: $PORTFOLIO_SERVER or "+defaultServer+")")
	rootCmd.PersistentFlags().String("lang", "", "Language for messages (es or en; default: stored preference)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(langCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(configCmd)

	versionCmd.Flags().Bool("check", false, "Compare with the server's version")

	initContactCommands()
	initPreferenceCommands()
	initConfigCommands()

	logger.Debug("CLI commands and flags initialized")
}

func main() {
	defer logger.Close()

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}
