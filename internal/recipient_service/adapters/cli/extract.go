package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aradsms/recipient_intake/internal/recipient_service/extractor"
)

type extractOutput struct {
	Numbers  []string `json:"numbers"`
	Rejected []string `json:"rejected"`
}

func newExtractCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [text]...",
		Short: "Extract phone numbers from free text or pasted tables",
		Long: `Extract phone numbers from the arguments, a file (--file) or stdin.
Tabular input (tab or comma separated, two or more lines) is reduced to its
phone column unless --free-text is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			freeText, _ := cmd.Flags().GetBool("free-text")

			text, err := readInput(cmd, file, args)
			if err != nil {
				return err
			}

			var scan extractor.ScanResult
			if freeText {
				scan = extractor.ScanFreeText(text)
			} else {
				scan = extractor.ScanPaste(text)
			}

			out := extractOutput{Numbers: scan.Numbers, Rejected: scan.Rejected}
			if out.Numbers == nil {
				out.Numbers = []string{}
			}
			if out.Rejected == nil {
				out.Rejected = []string{}
			}

			rows := make([][]string, 0, len(scan.Numbers)+len(scan.Rejected))
			for _, n := range scan.Numbers {
				c := a.classifier.Classify(n)
				rows = append(rows, []string{n, string(c.Operator), string(c.Status)})
			}
			for _, r := range scan.Rejected {
				rows = append(rows, []string{r, "-", "REJECTED"})
			}
			return render(cmd, out, []string{"Number", "Operator", "Status"}, rows)
		},
	}
	cmd.Flags().String("file", "", "Read input from a file (- for stdin)")
	cmd.Flags().Bool("free-text", false, "Skip column detection and scan as free text")
	return cmd
}

// readInput resolves text from --file, the arguments, or stdin, in that order.
func readInput(cmd *cobra.Command, file string, args []string) (string, error) {
	switch {
	case file == "-":
		return readAllFrom(cmd.InOrStdin())
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, "\n"), nil
	default:
		return readAllFrom(cmd.InOrStdin())
	}
}

func readAllFrom(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
