package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aradsms/recipient_intake/internal/platform/config"
	"github.com/aradsms/recipient_intake/internal/recipient_service/app"
	"github.com/aradsms/recipient_intake/internal/recipient_service/classifier"
	"github.com/aradsms/recipient_intake/internal/recipient_service/domain"
	"github.com/aradsms/recipient_intake/internal/recipient_service/extractor"
	"github.com/aradsms/recipient_intake/internal/recipient_service/registry"
)

// App holds the components shared by every command.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	classifier *classifier.Classifier
	importer   *extractor.Importer
	exporter   *app.ExportService
}

// NewApp wires the classifier, importer and exporter from cfg.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	plan := classifier.DefaultPlan()
	if cfg.NumberingPlanFile != "" {
		loaded, err := classifier.LoadPlanWithDefaultRegion(cfg.NumberingPlanFile, cfg.DefaultRegion)
		if err != nil {
			return nil, fmt.Errorf("loading numbering plan: %w", err)
		}
		plan = loaded
		logger.Info("Numbering plan loaded", "path", cfg.NumberingPlanFile, "region", plan.Region, "operators", len(plan.Operators))
	} else if cfg.DefaultRegion != "" && cfg.DefaultRegion != plan.Region {
		logger.Warn("DEFAULT_REGION only applies to numbering plan files; using built-in plan",
			"default_region", cfg.DefaultRegion, "plan_region", plan.Region)
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		classifier: classifier.NewWithOptions(plan, classifier.Options{StrictValidation: cfg.StrictValidation}),
		importer:   extractor.NewImporter(logger, cfg.MaxImportBytes),
		exporter:   app.NewExportService(logger, cfg.ExportPath),
	}, nil
}

func (a *App) newRegistry() *registry.Registry {
	return registry.New(a.classifier, a.logger)
}

// NewRootCommand builds a fresh command tree bound to a.
func NewRootCommand(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "recipients",
		Short: "Collect, classify and deduplicate SMS recipient phone numbers",
		Long: `recipients turns typed numbers, pasted lists and contact files into a clean,
duplicate-free recipient list, tagging each number with its operator and validity.

Examples:
  recipients classify 670000001 +237699887766
  recipients extract "670000001, 699887766; abc"
  recipients import contacts.csv team.xlsx
  recipients compose --numbers "670000001,699887766" --sender ARADSMS --message "Hello" --balance 500`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat(cmd) {
			case "table", "json", "csv":
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (want table, json or csv)", outputFormat(cmd))
			}
		},
	}
	root.PersistentFlags().Bool("json", false, "Output in JSON format (shorthand for --output json)")
	root.PersistentFlags().String("output", "table", "Output format: table, json, or csv")

	root.AddCommand(newClassifyCmd(a))
	root.AddCommand(newExtractCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newComposeCmd(a))
	return root
}

// outputFormat returns the resolved output format from flags.
// --json is a shorthand for --output json.
func outputFormat(cmd *cobra.Command) string {
	jsonFlag, _ := cmd.Flags().GetBool("json")
	if jsonFlag {
		return "json"
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return "table"
	}
	return strings.ToLower(out)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeCSV writes rows as CSV to the given writer.
func writeCSV(w io.Writer, cols []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeTable(w io.Writer, cols []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	fmt.Fprintln(tw, strings.Repeat("---\t", len(cols)))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// render writes v as JSON, or cols/rows as CSV or an aligned table.
func render(cmd *cobra.Command, v any, cols []string, rows [][]string) error {
	w := cmd.OutOrStdout()
	switch outputFormat(cmd) {
	case "json":
		return writeJSON(w, v)
	case "csv":
		return writeCSV(w, cols, rows)
	default:
		return writeTable(w, cols, rows)
	}
}

var entryColumns = []string{"ID", "PhoneNumber", "Name", "Operator", "Valid"}

func entryRows(entries []domain.PhoneEntry) [][]string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.ID.String(), e.PhoneNumber, e.Name, string(e.Operator), strconv.FormatBool(e.IsValid)}
	}
	return rows
}
