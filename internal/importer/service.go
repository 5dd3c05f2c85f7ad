package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/timebank/internal/importer/timesheet"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
	"github.com/MrJamesThe3rd/timebank/internal/metrics"
)

type Service struct {
	importers map[Format]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Format]Importer{
			FormatTimesheet: timesheet.NewParser(),
		},
	}
}

// Import parses r with the importer registered for format. An empty format
// means a timesheet.
func (s *Service) Import(format Format, r io.Reader) ([]ledger.ExpenditureParams, error) {
	if format == "" {
		format = FormatTimesheet
	}

	importer, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	params, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	metrics.ImportedRows.Add(float64(len(params)))

	return params, nil
}
