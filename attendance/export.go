package attendance

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"checkin-server-go/models"
)

// Export content types.
const (
	CSVContentType  = "text/csv"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []string{"名字", "學號", "系級", "簽到時間"}

// Export is a file ready to be downloaded.
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

// pathSeparators are replaced in tab names so an export name is always a
// single path element.
var pathSeparators = strings.NewReplacer("/", "_", "\\", "_")

// ExportFileName returns attendance_list.<ext>, or attendance_list_<tab>.<ext>
// for a tab's list. Path separators in tab become underscores.
func ExportFileName(tab, ext string) string {
	if tab == "" {
		return "attendance_list." + ext
	}
	return "attendance_list_" + pathSeparators.Replace(tab) + "." + ext
}

// BuildCSV renders entries under the fixed four-column header, one row per
// entry, rows separated by "\n" with no trailing newline.
//
// Without quote, fields are joined with commas as-is, so a comma, quote or
// newline inside a field breaks the column layout for spreadsheet readers.
// That is the historical export format and stays the default; quote switches
// to RFC 4180 quoting.
func BuildCSV(entries []models.Entry, quote bool) string {
	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	b.WriteString("\n")
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(csvRow([]string{e.Name, e.StudentID, e.ClassYear, e.Timestamp}, quote))
	}
	return b.String()
}

func csvRow(fields []string, quote bool) string {
	if !quote {
		return strings.Join(fields, ",")
	}
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(fields)
	w.Flush()
	return strings.TrimSuffix(b.String(), "\n")
}

func csvExport(entries []models.Entry, tab string, quote bool) Export {
	return Export{
		FileName:    ExportFileName(tab, "csv"),
		ContentType: CSVContentType,
		Data:        []byte(BuildCSV(entries, quote)),
	}
}

const xlsxSheet = "Sheet1"

// BuildXLSX renders entries into a workbook with the same columns as BuildCSV.
func BuildXLSX(entries []models.Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{e.Name, e.StudentID, e.ClassYear, e.Timestamp}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func xlsxExport(entries []models.Entry, tab string) (Export, error) {
	data, err := BuildXLSX(entries)
	if err != nil {
		return Export{}, err
	}
	return Export{
		FileName:    ExportFileName(tab, "xlsx"),
		ContentType: XLSXContentType,
		Data:        data,
	}, nil
}

// ImportResult reports what a spreadsheet import did.
type ImportResult struct {
	Imported int `json:"importedCount"`
	Skipped  int `json:"skippedCount"`
}

// ReadXLSX reads entries from the first sheet of a workbook laid out like
// BuildXLSX: a header row, then name, student ID, class and an optional
// timestamp. Rows missing one of the first three columns are skipped.
// Rows without a timestamp get stamp().
func ReadXLSX(r io.Reader, stamp func() string) ([]models.Entry, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	// Assuming data is in the first sheet
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("excel file does not contain any sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	var (
		entries []models.Entry
		skipped int
	)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		cell := func(n int) string {
			if len(row) > n {
				return row[n]
			}
			return ""
		}
		e := models.Entry{
			Name:      cell(0),
			StudentID: cell(1),
			ClassYear: cell(2),
			Timestamp: cell(3),
		}
		if e.Name == "" || e.StudentID == "" || e.ClassYear == "" {
			skipped++
			continue
		}
		if e.Timestamp == "" {
			e.Timestamp = stamp()
		}
		entries = append(entries, e)
	}
	return entries, skipped, nil
}
