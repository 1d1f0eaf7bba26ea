package cli

import (
	"github.com/spf13/cobra"

	"github.com/aradsms/recipient_intake/internal/recipient_service/domain"
	"github.com/aradsms/recipient_intake/internal/recipient_service/extractor"
)

type classifyRow struct {
	Input      string                  `json:"input"`
	Normalized string                  `json:"normalized"`
	Operator   domain.OperatorTag      `json:"operator"`
	Status     domain.ValidationStatus `json:"status"`
	E164       string                  `json:"e164,omitempty"`
}

func newClassifyCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <number>...",
		Short: "Show operator and validation status of phone numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]classifyRow, 0, len(args))
			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				normalized := extractor.Normalize(arg)
				c := a.classifier.Classify(normalized)
				row := classifyRow{
					Input:      arg,
					Normalized: normalized,
					Operator:   c.Operator,
					Status:     c.Status,
				}
				if c.IsValid() {
					row.E164, _ = a.classifier.ToE164(normalized)
				}
				results = append(results, row)
				rows = append(rows, []string{row.Input, row.Normalized, string(row.Operator), string(row.Status), row.E164})
			}
			return render(cmd, results, []string{"Input", "Normalized", "Operator", "Status", "E164"}, rows)
		},
	}
}
