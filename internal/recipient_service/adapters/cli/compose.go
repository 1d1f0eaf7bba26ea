package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aradsms/recipient_intake/internal/recipient_service/app"
	"github.com/aradsms/recipient_intake/internal/recipient_service/domain"
)

type composeOutput struct {
	Summary    app.Summary         `json:"summary"`
	Entries    []domain.PhoneEntry `json:"entries"`
	Send       *app.SendResult     `json:"send,omitempty"`
	ExportPath string              `json:"export_path,omitempty"`
}

func newComposeCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Build a recipient list for a message and show its cost",
		Long: `Collect recipients from --numbers, --numbers-file and --import, then summarize
validity, segments and cost against --balance. With --send the request is
validated, charged and handed to the log dispatcher.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers, _ := cmd.Flags().GetString("numbers")
			numbersFile, _ := cmd.Flags().GetString("numbers-file")
			imports, _ := cmd.Flags().GetStringSlice("import")
			message, _ := cmd.Flags().GetString("message")
			sender, _ := cmd.Flags().GetString("sender")
			balance, _ := cmd.Flags().GetInt64("balance")
			export, _ := cmd.Flags().GetBool("export")
			send, _ := cmd.Flags().GetBool("send")

			reg := a.newRegistry()
			if numbers != "" {
				reg.AddPaste(numbers)
			}
			if numbersFile != "" {
				data, err := os.ReadFile(numbersFile)
				if err != nil {
					return fmt.Errorf("reading %s: %w", numbersFile, err)
				}
				reg.AddPaste(string(data))
			}
			if len(imports) > 0 {
				files, err := a.importFiles(cmd.Context(), imports)
				if err != nil {
					return err
				}
				mergeImports(reg, files)
			}

			tariff := app.Tariff{PricePerSegment: a.cfg.PricePerSegment, Currency: a.cfg.Currency}
			session := app.NewSession(reg, a.classifier, tariff, balance, a.logger)
			session.SetSender(sender)
			session.SetContent(message)

			out := composeOutput{Summary: session.Summary(), Entries: reg.Entries()}
			if export {
				path, err := a.exporter.ExportEntriesToCSV(cmd.Context(), "compose", out.Entries)
				if err != nil {
					return err
				}
				out.ExportPath = path
			}
			if send {
				result, err := session.Send(cmd.Context(), newLogDispatcher(a.logger))
				if err != nil {
					return err
				}
				out.Send = result
			}

			if outputFormat(cmd) != "table" {
				return render(cmd, out, entryColumns, entryRows(out.Entries))
			}
			return writeComposeTables(cmd, out)
		},
	}
	cmd.Flags().String("numbers", "", "Numbers as free text or a pasted table")
	cmd.Flags().String("numbers-file", "", "File holding numbers as free text or a table")
	cmd.Flags().StringSlice("import", nil, "Contact files to import (.csv, .txt, .xlsx)")
	cmd.Flags().String("message", "", "Message body")
	cmd.Flags().String("sender", "", "Sender ID")
	cmd.Flags().Int64("balance", 0, "Available balance in the smallest currency unit")
	cmd.Flags().Bool("export", false, "Write the recipient list to a CSV file under EXPORT_PATH")
	cmd.Flags().Bool("send", false, "Validate, charge and dispatch the message")
	return cmd
}

func writeComposeTables(cmd *cobra.Command, out composeOutput) error {
	w := cmd.OutOrStdout()
	s := out.Summary
	summary := [][]string{
		{"Recipients", strconv.Itoa(s.Recipients)},
		{"Valid", strconv.Itoa(s.Valid)},
		{"Invalid", strconv.Itoa(s.Invalid)},
		{"Encoding", string(s.Encoding)},
		{"Characters", strconv.Itoa(s.Characters)},
		{"Segments per recipient", strconv.Itoa(s.SegmentsPerRecipient)},
		{"Total segments", strconv.Itoa(s.TotalSegments)},
		{"Cost", fmt.Sprintf("%d %s", s.Cost, s.Currency)},
		{"Balance", fmt.Sprintf("%d %s", s.Balance, s.Currency)},
		{"Balance after", fmt.Sprintf("%d %s", s.BalanceAfter, s.Currency)},
		{"Sufficient", strconv.FormatBool(s.Sufficient)},
	}
	if err := writeTable(w, []string{"Field", "Value"}, summary); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if len(out.Entries) == 0 {
		fmt.Fprintln(w, "No recipients.")
	} else if err := writeTable(w, entryColumns, entryRows(out.Entries)); err != nil {
		return err
	}
	if out.ExportPath != "" {
		fmt.Fprintf(w, "\nExported %d entries to %s\n", len(out.Entries), out.ExportPath)
	}
	if out.Send != nil {
		fmt.Fprintf(w, "\nSent batch %s to %d recipients (%d segments, %d %s charged)\n",
			out.Send.BatchID, out.Send.Recipients, out.Send.Segments, out.Send.Cost, s.Currency)
	}
	return nil
}
