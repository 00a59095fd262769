package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/varunkk24/portfolio/internal/contact"
)

var mailtoSub contact.Submission

var mailtoCmd = &cobra.Command{
	Use:   "mailto",
	Short: "Print the mail link a contact submission would open",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mailtoSub.Validate(); err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		recipient := cfg.Recipient
		if recipient == "" {
			store, err := loadContent(cfg)
			if err != nil {
				return err
			}
			recipient = store.Profile().Email
		}
		fmt.Fprintln(cmd.OutOrStdout(), contact.MailtoURL(recipient, mailtoSub))
		return nil
	},
}

func init() {
	mailtoCmd.Flags().StringVar(&mailtoSub.Name, "name", "", "sender name")
	mailtoCmd.Flags().StringVar(&mailtoSub.Email, "email", "", "sender email")
	mailtoCmd.Flags().StringVar(&mailtoSub.Message, "message", "", "message body")
	rootCmd.AddCommand(mailtoCmd)
}
