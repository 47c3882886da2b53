package export

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

func writeCSVFile(dir, base string, table *Table) (*Result, error) {
	name := base + ".csv"
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := writeCSV(f, table); err != nil {
		return nil, err
	}
	return &Result{FilePath: path, FileName: name, ContentType: "text/csv"}, nil
}

func writeCSV(w io.Writer, table *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeZIPFile bundles one CSV per table.
func writeZIPFile(dir, base string, tables []*Table) (*Result, error) {
	name := base + ".zip"
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, table := range tables {
		entry, err := zw.Create(table.Name + ".csv")
		if err != nil {
			return nil, err
		}
		if err := writeCSV(entry, table); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return &Result{FilePath: path, FileName: name, ContentType: "application/zip"}, nil
}

// writeExcelFile renders one sheet per table.
func writeExcelFile(dir, base string, tables []*Table) (*Result, error) {
	name := base + ".xlsx"
	path := filepath.Join(dir, name)

	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		sheet := table.Name
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}

		header := make([]interface{}, len(table.Header))
		for j, h := range table.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return nil, err
		}

		for r, row := range table.Rows {
			cells := make([]interface{}, len(row))
			for j, v := range row {
				cells[j] = v
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return nil, err
	}
	return &Result{
		FilePath:    path,
		FileName:    name,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, nil
}

// writePDFFile renders one titled section per table in landscape A4.
func writePDFFile(dir, base string, tables []*Table) (*Result, error) {
	name := base + ".pdf"
	path := filepath.Join(dir, name)

	pdf := gofpdf.New("L", "mm", "A4", "")
	for _, table := range tables {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 10, table.Name)
		pdf.Ln(12)

		colWidth := 270.0 / float64(len(table.Header))

		pdf.SetFont("Arial", "B", 8)
		for _, h := range table.Header {
			pdf.CellFormat(colWidth, 7, h, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 8)
		for _, row := range table.Rows {
			for _, v := range row {
				if len(v) > 40 {
					v = v[:37] + "..."
				}
				pdf.CellFormat(colWidth, 6, v, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return nil, err
	}
	return &Result{FilePath: path, FileName: name, ContentType: "application/pdf"}, nil
}

// writeJSONFile maps each table to a list of header-keyed objects.
func writeJSONFile(dir, base string, tables []*Table) (*Result, error) {
	name := base + ".json"
	path := filepath.Join(dir, name)

	doc := make(map[string][]map[string]string, len(tables))
	for _, table := range tables {
		records := make([]map[string]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			record := make(map[string]string, len(table.Header))
			for i, h := range table.Header {
				if i < len(row) {
					record[h] = row[i]
				}
			}
			records = append(records, record)
		}
		doc[table.Name] = records
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return &Result{FilePath: path, FileName: name, ContentType: "application/json"}, nil
}
