package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aradsms/recipient_intake/internal/recipient_service/domain"
	"github.com/aradsms/recipient_intake/internal/recipient_service/registry"
)

const maxParallelImports = 4

type fileImport struct {
	File   string               `json:"file"`
	Result *domain.ImportResult `json:"result"`
}

type importOutput struct {
	Files      []fileImport        `json:"files"`
	Entries    []domain.PhoneEntry `json:"entries"`
	ExportPath string              `json:"export_path,omitempty"`
}

func newImportCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import contact files (.csv, .txt, .xlsx) into one recipient list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			export, _ := cmd.Flags().GetBool("export")
			label, _ := cmd.Flags().GetString("label")

			files, err := a.importFiles(cmd.Context(), args)
			if err != nil {
				return err
			}

			reg := a.newRegistry()
			mergeImports(reg, files)

			out := importOutput{Files: files, Entries: reg.Entries()}
			if export {
				out.ExportPath, err = a.exporter.ExportEntriesToCSV(cmd.Context(), label, out.Entries)
				if err != nil {
					return err
				}
			}

			if outputFormat(cmd) != "table" {
				return render(cmd, out, entryColumns, entryRows(out.Entries))
			}
			return writeImportTables(cmd, out)
		},
	}
	cmd.Flags().Bool("export", false, "Write the merged list to a CSV file under EXPORT_PATH")
	cmd.Flags().String("label", "recipients", "Name prefix of the exported file")
	return cmd
}

// importFiles reads every file concurrently. Results keep argument order.
func (a *App) importFiles(ctx context.Context, paths []string) ([]fileImport, error) {
	files := make([]fileImport, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelImports)
	for i, path := range paths {
		g.Go(func() error {
			result, err := a.importFile(gctx, path)
			if err != nil {
				return fmt.Errorf("importing %s: %w", path, err)
			}
			files[i] = fileImport{File: path, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func (a *App) importFile(ctx context.Context, path string) (*domain.ImportResult, error) {
	kind, err := domain.KindFromFilename(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
	}
	defer f.Close()
	return a.importer.Import(ctx, f, kind)
}

func mergeImports(reg *registry.Registry, files []fileImport) {
	for _, f := range files {
		reg.AddFromImport(f.Result)
	}
}

func writeImportTables(cmd *cobra.Command, out importOutput) error {
	w := cmd.OutOrStdout()

	summary := make([][]string, 0, len(out.Files))
	var rowErrors [][]string
	for _, f := range out.Files {
		name := filepath.Base(f.File)
		summary = append(summary, []string{
			name,
			strconv.Itoa(len(f.Result.ValidRecords)),
			strconv.Itoa(len(f.Result.RowErrors)),
			strconv.Itoa(len(f.Result.StructuralErrors)),
		})
		for _, re := range f.Result.RowErrors {
			rowErrors = append(rowErrors, []string{name, strconv.Itoa(re.Row), re.RawValue, string(re.Reason)})
		}
	}
	if err := writeTable(w, []string{"File", "Records", "RowErrors", "StructuralErrors"}, summary); err != nil {
		return err
	}

	for _, f := range out.Files {
		for _, msg := range f.Result.StructuralErrors {
			fmt.Fprintf(w, "\n%s: %s\n", filepath.Base(f.File), msg)
		}
	}

	if len(rowErrors) > 0 {
		fmt.Fprintln(w)
		if err := writeTable(w, []string{"File", "Row", "Value", "Reason"}, rowErrors); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	if len(out.Entries) == 0 {
		fmt.Fprintln(w, "No recipients imported.")
	} else if err := writeTable(w, entryColumns, entryRows(out.Entries)); err != nil {
		return err
	}
	if out.ExportPath != "" {
		fmt.Fprintf(w, "\nExported %d entries to %s\n", len(out.Entries), out.ExportPath)
	}
	return nil
}
