// Package importer turns uploaded timesheet files into expenditure batches.
package importer

import (
	"io"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

type Format string

const (
	FormatTimesheet Format = "timesheet"
)

type Importer interface {
	Parse(r io.Reader) ([]ledger.ExpenditureParams, error)
}
