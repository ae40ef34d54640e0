package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/robertozapata/portfolio/internal/contact"
	"github.com/robertozapata/portfolio/internal/contactform"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// errNotSent makes the process exit non-zero after the banner was printed
var errNotSent = errors.New("message not sent")

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Use the portfolio contact form",
}

var contactSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a message through the contact form",
	Long: `Send a message through the portfolio contact form. Fields are validated
locally first, exactly as the web form does.

Example:
  portfolio contact send --name "Ana" --email ana@example.com \
    --subject "Hello there" --message "I'd like to talk about a project."
  echo "Long message..." | portfolio contact send --name Ana --email ana@example.com --subject Hello --message -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := currentLanguage(cmd)
		if err != nil {
			return err
		}

		message, _ := cmd.Flags().GetString("message")
		if message == "-" {
			data, err := io.ReadAll(io.LimitReader(os.Stdin, 64<<10))
			if err != nil {
				return fmt.Errorf("failed to read message from stdin: %w", err)
			}
			message = string(data)
		}

		// Spinner while submitting
		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = " " + catalog.T(lang, "form.submitting")

		client := contactform.NewClient(serverURL(cmd))
		form := contactform.NewForm(client, contact.NewSchema(catalog), catalog, lang,
			contactform.WithObserver(func(snap contactform.Snapshot) {
				if snap.State == contactform.StateSubmitting {
					s.Start()
				} else {
					s.Stop()
				}
			}),
		)

		values := map[string]string{
			contact.FieldName:    flagString(cmd, "name"),
			contact.FieldEmail:   flagString(cmd, "email"),
			contact.FieldSubject: flagString(cmd, "subject"),
			contact.FieldMessage: message,
		}
		for _, field := range contact.Fields {
			if err := form.SetField(field, values[field]); err != nil {
				return err
			}
		}

		snap, err := form.Submit(cmd.Context())
		if err != nil {
			return err
		}

		if len(snap.Errors) > 0 {
			for _, field := range contact.Fields {
				if msg, ok := snap.Errors[field]; ok {
					fmt.Fprintf(os.Stderr, "  %-8s %s\n", field+":", msg)
				}
			}
			return errNotSent
		}

		if snap.Status == nil {
			return errNotSent
		}
		logger.Debug("Contact form finished in state %s (%s)", snap.State, snap.Status.Kind)
		if snap.Status.Kind != contactform.StatusSuccess {
			fmt.Fprintln(os.Stderr, "❌ "+snap.Status.Message)
			return errNotSent
		}
		fmt.Println("✅ " + snap.Status.Message)
		return nil
	},
}

var contactInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe the server's contact endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := currentLanguage(cmd)
		if err != nil {
			return err
		}

		info, err := contactform.NewClient(serverURL(cmd)).Info(cmd.Context(), lang)
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", info.Name, info.Version)
		fmt.Printf("  %s\n", info.Description)
		fmt.Printf("  Method:          %s %s\n", info.Method, contactform.ContactPath)
		fmt.Printf("  Required fields: %s\n", strings.Join(info.RequiredFields, ", "))
		fmt.Printf("  Rate limit:      %s\n", info.RateLimit)
		return nil
	},
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

// initContactCommands sets up all contact-related commands
func initContactCommands() {
	contactCmd.AddCommand(contactSendCmd)
	contactCmd.AddCommand(contactInfoCmd)

	contactSendCmd.Flags().String("name", "", "Your name")
	contactSendCmd.Flags().String("email", "", "Your email address")
	contactSendCmd.Flags().String("subject", "", "Message subject")
	contactSendCmd.Flags().String("message", "", "Message body, or - to read it from stdin")
}
