// Package timesheet parses support timesheet CSV exports into expenditures.
package timesheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/timebank/internal/encoding"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

// Parser reads `;` or `,` separated timesheets in any known profile. Lines
// before the header are ignored, as are rows whose date cell is not a date.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]ledger.ExpenditureParams, error) {
	utf8r, _, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read timesheet: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	for _, comma := range []rune{';', ','} {
		rows, err := readRows(data, comma)
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx)
	}

	return nil, fmt.Errorf("no timesheet header found: expected at least date, hours and activity columns")
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	return reader.ReadAll()
}

type colIndex map[string]int

// detectProfile returns the first row matching a profile, with its columns.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows converts data rows. headerRowNum is the 0-based index of the
// header in the file; reported row numbers are 1-based file lines.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]ledger.ExpenditureParams, error) {
	var (
		out  []ledger.ExpenditureParams
		errs ledger.ValidationError
	)

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(cell(row, cols, p.Date))
		if !ok {
			continue
		}

		params, rowErrs := parseRow(p, cols, row, date)
		if rowErrs != nil {
			errs.Merge(fmt.Sprintf("rows[%d].", rowNum), rowErrs)
			continue
		}

		out = append(out, params)
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func parseRow(p *Profile, cols colIndex, row []string, date time.Time) (ledger.ExpenditureParams, *ledger.ValidationError) {
	var v ledger.ValidationError

	params := ledger.ExpenditureParams{
		Date:    date,
		User:    cell(row, cols, p.User),
		Comment: cell(row, cols, p.Comment),
	}

	var err error

	if params.HoursSpent, err = parseHours(cell(row, cols, p.Hours)); err != nil {
		v.Add("hours", err.Error())
	}

	if params.Activity, err = parseActivity(cell(row, cols, p.Activity)); err != nil {
		v.Add("activity", err.Error())
	}

	if params.TaskType, err = parseTaskType(cell(row, cols, p.TaskType)); err != nil {
		v.Add("task_type", err.Error())
	}

	if params.IsGoodwill, err = parseFlag(cell(row, cols, p.Goodwill)); err != nil {
		v.Add("goodwill", err.Error())
	}

	if s := cell(row, cols, p.Time); s != "" {
		tod, err := ledger.ParseTimeOfDay(s)
		if err != nil {
			v.Add("time", err.Error())
		} else {
			params.Time = &tod
		}
	}

	if len(v.Fields) > 0 {
		return params, &v
	}

	return params, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// cell returns the trimmed value of the named column, or "" when the profile
// or the row lacks it.
func cell(row []string, cols colIndex, name string) string {
	if name == "" {
		return ""
	}

	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
