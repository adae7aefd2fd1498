package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/export"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/pipeline"
)

var (
	contactsFilters filterFlags
	contactsSearch  string
	contactsLimit   int
	contactsEmails  bool
	contactsPhones  bool
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Find contacts by name or company, best score first",
	Long:  "Prints contact cards for the filtered view, highest score first. With --emails or --phones prints a comma-separated list for pasting into a mail client or dialer instead.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, res, err := contactsFilters.explore(cmd.Context())
		if err != nil {
			return err
		}

		switch {
		case contactsEmails:
			fmt.Fprintln(os.Stdout, export.EmailList(res.Rows))
			return nil
		case contactsPhones:
			fmt.Fprintln(os.Stdout, export.PhoneList(res.Rows))
			return nil
		}

		rows := pipeline.Contacts(res.Rows, contactsSearch, contactsLimit)
		if len(rows) == 0 {
			fmt.Fprintln(os.Stderr, "No contacts match your search or filters.")
			return nil
		}
		formatContacts(os.Stdout, rows)
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatContacts(out io.Writer, rows []model.Prospect) {
	for i := range rows {
		p := &rows[i]
		channel, addr := pipeline.PreferredContact(p)
		_, _ = fmt.Fprintf(out, "%s  [score %.2f]\n", p.Name, p.Score)
		_, _ = fmt.Fprintf(out, "  %s @ %s\n", orDash(p.Role), p.Company)
		_, _ = fmt.Fprintf(out, "  %s | Owner: %s | CRM: %s\n", p.Country, orDash(p.Owner), orDash(p.PresentInCRM))
		_, _ = fmt.Fprintf(out, "  %s: %s\n", channel, orDash(addr))
		next := orDash(model.FormatDate(p.NextFollowUp))
		if p.Overdue {
			next += " OVERDUE"
		}
		_, _ = fmt.Fprintf(out, "  Last contacted: %s | Next follow-up: %s\n", orDash(model.FormatDate(p.LastContactedAt)), next)
		if p.Notes != "" {
			_, _ = fmt.Fprintf(out, "  %s\n", p.Notes)
		}
		_, _ = fmt.Fprintln(out)
	}
}

func init() {
	contactsFilters.register(contactsCmd)
	contactsCmd.Flags().StringVar(&contactsSearch, "search", "", "name or company contains")
	contactsCmd.Flags().IntVar(&contactsLimit, "limit", 60, "maximum contacts to print (0 = all)")
	contactsCmd.Flags().BoolVar(&contactsEmails, "emails", false, "print the email list of the filtered view")
	contactsCmd.Flags().BoolVar(&contactsPhones, "phones", false, "print the phone list of the filtered view")
	rootCmd.AddCommand(contactsCmd)
}
