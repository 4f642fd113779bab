package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"feedjoin/internal"
	"feedjoin/internal/storage"
)

// ExportCSV writes target field names as the header line and every value
// double-quoted, with embedded quotes doubled.
func ExportCSV(w io.Writer, p internal.Projection) error {
	bw := bufio.NewWriter(w)
	if err := writeCSVLine(bw, p.Columns, false); err != nil {
		return err
	}
	for _, row := range p.Rows {
		values := make([]string, len(p.Columns))
		for i, col := range p.Columns {
			values[i] = row[col]
		}
		if err := writeCSVLine(bw, values, true); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeCSVLine(w *bufio.Writer, values []string, quoteAll bool) error {
	for i, v := range values {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if quoteAll || strings.ContainsAny(v, ",\"\r\n") {
			v = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
		}
		if _, err := w.WriteString(v); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}

func ExportXLSX(p internal.Projection, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(p.Template)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	for i, h := range p.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, row := range p.Rows {
		r := i + 2
		for j, col := range p.Columns {
			cell, _ := excelize.CoordinatesToCellName(j+1, r)
			_ = f.SetCellStr(sheet, cell, row[col])
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// ExportAll writes every projection of a run. csv and xlsx produce one file
// per template in dir; sqlite writes into db and returns no paths. A failed
// export leaves dir and db as they were.
func ExportAll(result *RunResult, dir, format string, db *storage.DB) ([]string, error) {
	switch format {
	case "", "csv":
		return exportFiles(result.Projections, dir, "csv", writeCSVFile)
	case "xlsx":
		return exportFiles(result.Projections, dir, "xlsx", ExportXLSX)
	case "sqlite":
		if db == nil {
			return nil, fmt.Errorf("sqlite export needs an open database")
		}
		err := db.StoreRun(result.TraceID, string(result.Detection.Vendor), result.Timings(), result.Counts(), result.Projections)
		return nil, err
	default:
		return nil, fmt.Errorf("%w: output format %s", ErrUnsupportedFormat, format)
	}
}

// exportFiles writes every projection into a staging directory next to dir
// and only moves the files into dir once all of them were written.
func exportFiles(projections []internal.Projection, dir, ext string, write func(internal.Projection, string) error) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	staging, err := os.MkdirTemp(dir, ".export-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(staging)

	names := make([]string, 0, len(projections))
	for _, p := range projections {
		name := exportFileName(p.Template, ext)
		if err := write(p, filepath.Join(staging, name)); err != nil {
			return nil, fmt.Errorf("export %s: %w", p.Template.Key, err)
		}
		names = append(names, name)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.Rename(filepath.Join(staging, name), path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSVFile(p internal.Projection, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportCSV(f, p); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func exportFileName(tpl internal.TemplateDefinition, ext string) string {
	key := strings.TrimSpace(tpl.Key)
	if key == "" {
		key = "template"
	}
	return fmt.Sprintf("%s_export.%s", key, ext)
}

// sheetName trims a template name to the 31 characters excel allows.
func sheetName(tpl internal.TemplateDefinition) string {
	name := strings.TrimSpace(tpl.Name)
	if name == "" {
		name = "Sheet1"
	}
	name = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ").Replace(name)
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
