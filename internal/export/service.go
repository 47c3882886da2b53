package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rachmanhakim/hr-management/internal/core/events"

	"github.com/google/uuid"
)

type Repository interface {
	Employees(filters Filters) (*Table, error)
	Payroll(filters Filters) (*Table, error)
	Overtime(filters Filters) (*Table, error)
	Activities(filters Filters) (*Table, error)
}

type Service struct {
	repo   Repository
	dir    string
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, dir string, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, dir: dir, bus: bus, logger: logger}
}

// Export materializes the requested dataset into a file under the export dir.
// `all` exports every dataset: as a zip of CSVs, a multi-sheet workbook, a
// multi-section PDF, or one JSON document, depending on the format.
func (s *Service) Export(dataType, format string, filters Filters) (*Result, error) {
	if !validDataType(dataType) {
		return nil, ErrUnsupportedType
	}
	if !validFormat(format) {
		return nil, ErrUnsupportedFormat
	}

	tables, err := s.collect(dataType, filters)
	if err != nil {
		s.logger.Error("export data collection failed", "error", err, "data_type", dataType)
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}

	// a multi-table CSV export has no single-file shape, so it bundles
	if format == FormatCSV && len(tables) > 1 {
		format = FormatZIP
	}

	stamp := time.Now().Format("20060102")
	base := fmt.Sprintf("%s-%s-%s", dataType, stamp, uuid.New().String())

	var result *Result
	switch format {
	case FormatCSV:
		result, err = writeCSVFile(s.dir, base, tables[0])
	case FormatZIP:
		result, err = writeZIPFile(s.dir, base, tables)
	case FormatExcel:
		result, err = writeExcelFile(s.dir, base, tables)
	case FormatPDF:
		result, err = writePDFFile(s.dir, base, tables)
	case FormatJSON:
		result, err = writeJSONFile(s.dir, base, tables)
	}
	if err != nil {
		s.logger.Error("export rendering failed", "error", err, "data_type", dataType, "format", format)
		return nil, err
	}

	if s.bus != nil {
		_ = s.bus.Publish(context.Background(), events.NewExportGeneratedEvent(dataType, format, result.FileName))
	}

	s.logger.Info("export generated",
		"data_type", dataType,
		"format", format,
		"file", result.FileName)
	return result, nil
}

func (s *Service) collect(dataType string, filters Filters) ([]*Table, error) {
	fetch := map[string]func(Filters) (*Table, error){
		TypeEmployees:  s.repo.Employees,
		TypePayroll:    s.repo.Payroll,
		TypeOvertime:   s.repo.Overtime,
		TypeActivities: s.repo.Activities,
	}

	if dataType != TypeAll {
		table, err := fetch[dataType](filters)
		if err != nil {
			return nil, err
		}
		return []*Table{table}, nil
	}

	var tables []*Table
	for _, name := range []string{TypeEmployees, TypePayroll, TypeOvertime, TypeActivities} {
		table, err := fetch[name](filters)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// CleanupOldFiles removes export artifacts older than maxAge and reports how
// many were deleted.
func (s *Service) CleanupOldFiles(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(s.dir, entry.Name())
			if err := os.Remove(path); err != nil {
				s.logger.Warn("failed to remove stale export file", "file", path, "error", err)
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("stale export files removed", "count", removed)
	}
	return removed, nil
}
