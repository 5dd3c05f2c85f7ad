package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// HoursPrecision is the number of decimal places stored for hour amounts.
const HoursPrecision = 2

func (p CreditParams) Validate() error {
	var v ValidationError

	switch {
	case p.CreditHours.IsNegative():
		v.Add("credit_hours", "must not be negative")
	case !hasPrecision(p.CreditHours):
		v.Add("credit_hours", fmt.Sprintf("must have at most %d decimal places", HoursPrecision))
	}

	if p.StartDate.IsZero() {
		v.Add("start_date", "is required")
	}

	if p.EndDate.IsZero() {
		v.Add("end_date", "is required")
	}

	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && Day(p.EndDate).Before(Day(p.StartDate)) {
		v.Add("end_date", "must not be before start_date")
	}

	return v.Err()
}

func (p ExpenditureParams) Validate() error {
	var v ValidationError

	switch {
	case !p.HoursSpent.IsPositive():
		v.Add("hours_spent", "must be greater than zero")
	case !hasPrecision(p.HoursSpent):
		v.Add("hours_spent", fmt.Sprintf("must have at most %d decimal places", HoursPrecision))
	}

	if p.Date.IsZero() {
		v.Add("date", "is required")
	}

	if p.Time != nil && !p.Time.Valid() {
		v.Add("time", "must be between 00:00 and 23:59")
	}

	switch {
	case p.Activity == ActivityUnknown:
		v.Add("activity", "is required")
	case !p.Activity.Valid():
		v.Add("activity", fmt.Sprintf("unknown value %q", p.Activity))
	}

	switch {
	case p.TaskType == TaskTypeUnknown:
		v.Add("task_type", "is required")
	case !p.TaskType.Valid():
		v.Add("task_type", fmt.Sprintf("unknown value %q", p.TaskType))
	}

	return v.Err()
}

// validateBatch validates every row and reports failures prefixed by the row index.
func validateBatch(params []ExpenditureParams) error {
	var v ValidationError

	for i, p := range params {
		err := p.Validate()
		if err == nil {
			continue
		}

		if ve, ok := err.(*ValidationError); ok {
			v.Merge(fmt.Sprintf("[%d].", i), ve)
		}
	}

	return v.Err()
}

func hasPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(HoursPrecision))
}
