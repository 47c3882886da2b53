package export

import (
	"time"

	"github.com/rachmanhakim/hr-management/internal"
)

// Data types.
const (
	TypeEmployees  = "employees"
	TypePayroll    = "payroll"
	TypeOvertime   = "overtime"
	TypeActivities = "activities"
	TypeAll        = "all"
)

// Output formats.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
	FormatJSON  = "json"
	FormatZIP   = "zip"
)

// Filters narrow the exported rows. Empty fields are ignored; a filter that
// matches nothing still produces a file with headers only.
type Filters struct {
	From         *time.Time
	To           *time.Time
	DepartmentID *int64
	UserID       int64
	Status       string
	Action       string
}

// Table is a flattened dataset ready for any renderer.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Result points at the materialized file; callers stream it and the age sweep
// deletes it later.
type Result struct {
	FilePath    string
	FileName    string
	ContentType string
}

var (
	ErrUnsupportedType   = internal.NewValidationError("unsupported export data type", internal.ErrCodeExportFailed)
	ErrUnsupportedFormat = internal.NewValidationError("unsupported export format", internal.ErrCodeExportFailed)
)

func validDataType(dataType string) bool {
	switch dataType {
	case TypeEmployees, TypePayroll, TypeOvertime, TypeActivities, TypeAll:
		return true
	}
	return false
}

func validFormat(format string) bool {
	switch format {
	case FormatCSV, FormatExcel, FormatPDF, FormatJSON, FormatZIP:
		return true
	}
	return false
}
