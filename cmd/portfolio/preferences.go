package main

import (
	"fmt"

	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/preference"

	"github.com/spf13/cobra"
)

var langCmd = &cobra.Command{
	Use:   "lang",
	Short: "Show or change the preferred language",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, _, err := openPreferences()
		if err != nil {
			return err
		}
		fmt.Println(prefs.Language.Language())
		return nil
	},
}

var langToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between Spanish and English",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, _, err := openPreferences()
		if err != nil {
			return err
		}
		lang, err := prefs.Language.ToggleLanguage()
		if err != nil {
			return fmt.Errorf("failed to save language: %w", err)
		}
		fmt.Println(lang)
		return nil
	},
}

var langSetCmd = &cobra.Command{
	Use:       "set <es|en>",
	Short:     "Set the preferred language",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"es", "en"},
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := i18n.ParseLanguage(args[0])
		if err != nil {
			return err
		}
		prefs, _, err := openPreferences()
		if err != nil {
			return err
		}
		if err := prefs.Language.SetLanguage(lang); err != nil {
			return fmt.Errorf("failed to save language: %w", err)
		}
		fmt.Println(lang)
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the preferred theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, _, err := openPreferences()
		if err != nil {
			return err
		}
		fmt.Println(prefs.Theme.Theme())
		return nil
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between dark and light",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, _, err := openPreferences()
		if err != nil {
			return err
		}
		theme, err := prefs.Theme.ToggleTheme()
		if err != nil {
			return fmt.Errorf("failed to save theme: %w", err)
		}
		fmt.Println(theme)
		return nil
	},
}

var themeSetCmd = &cobra.Command{
	Use:       "set <light|dark|system>",
	Short:     "Set the preferred theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"light", "dark", "system"},
	RunE: func(cmd *cobra.Command, args []string) error {
		theme, err := preference.ParseTheme(args[0])
		if err != nil {
			return err
		}
		prefs, _, err := openPreferences()
		if err != nil {
			return err
		}
		if err := prefs.Theme.SetTheme(theme); err != nil {
			return fmt.Errorf("failed to save theme: %w", err)
		}
		fmt.Println(theme)
		return nil
	},
}

// initPreferenceCommands sets up the lang and theme commands
func initPreferenceCommands() {
	langCmd.AddCommand(langToggleCmd)
	langCmd.AddCommand(langSetCmd)
	themeCmd.AddCommand(themeToggleCmd)
	themeCmd.AddCommand(themeSetCmd)
}
