package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Activity is the support channel an expenditure was delivered through.
type Activity string

const (
	ActivityUnknown       Activity = ""
	ActivityEmailSupport  Activity = "email_support"
	ActivityRemoteSupport Activity = "remote_support"
	ActivityPhoneSupport  Activity = "phone_support"
)

// Activities lists every valid Activity in display order.
var Activities = []Activity{ActivityEmailSupport, ActivityRemoteSupport, ActivityPhoneSupport}

func (a Activity) Valid() bool {
	switch a {
	case ActivityEmailSupport, ActivityRemoteSupport, ActivityPhoneSupport:
		return true
	}

	return false
}

// TaskType classifies the work an expenditure was spent on.
type TaskType string

const (
	TaskTypeUnknown  TaskType = ""
	TaskTypeTraining TaskType = "training"
	TaskTypeTesting  TaskType = "testing"
	TaskTypeBugs     TaskType = "bugs"
	TaskTypeOther    TaskType = "other"
)

// TaskTypes lists every valid TaskType in display order.
var TaskTypes = []TaskType{TaskTypeTraining, TaskTypeTesting, TaskTypeBugs, TaskTypeOther}

func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeTraining, TaskTypeTesting, TaskTypeBugs, TaskTypeOther:
		return true
	}

	return false
}

// TimeOfDay is a wall-clock time expressed as minutes after midnight.
type TimeOfDay int

// ParseTimeOfDay parses "15:04" or "15:04:05" (seconds are dropped).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", time.TimeOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), nil
		}
	}

	return 0, fmt.Errorf("invalid time of day %q", s)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < 24*60
}

// TimeCredit is a grant of prepaid support hours valid in [StartDate, EndDate].
type TimeCredit struct {
	ID          uuid.UUID
	LicenseID   uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
	GrantedBy   string
	CreditHours decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// IsExpired reports whether the validity window ended before today.
func (c *TimeCredit) IsExpired(today time.Time) bool {
	return c.EndDate.Before(Day(today))
}

// IsActive reports whether today falls inside the validity window.
func (c *TimeCredit) IsActive(today time.Time) bool {
	return c.Covers(today)
}

// Covers reports whether the given date falls inside the validity window.
func (c *TimeCredit) Covers(date time.Time) bool {
	d := Day(date)
	return !d.Before(c.StartDate) && !d.After(c.EndDate)
}

// TimeExpenditure is a debit of support hours actually worked.
type TimeExpenditure struct {
	ID         uuid.UUID
	LicenseID  uuid.UUID
	Date       time.Time
	Time       *TimeOfDay
	User       string
	Activity   Activity
	TaskType   TaskType
	HoursSpent decimal.Decimal
	Comment    string
	IsGoodwill bool
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// Deduction records that an expenditure consumed hours from a credit.
// A nil CreditID is unmet demand: hours no credit could cover.
type Deduction struct {
	ExpenditureID uuid.UUID
	CreditID      *uuid.UUID
	HoursDeducted decimal.Decimal
}

// IsDebt reports whether the deduction is not backed by any credit.
func (d Deduction) IsDebt() bool {
	return d.CreditID == nil
}

// Snapshot is a consistent view of one license's ledger.
type Snapshot struct {
	LicenseID    uuid.UUID
	Credits      []*TimeCredit
	Expenditures []*TimeExpenditure
	Deductions   []Deduction
}

// CreditParams holds the operator-supplied fields of a credit.
type CreditParams struct {
	StartDate   time.Time
	EndDate     time.Time
	GrantedBy   string
	CreditHours decimal.Decimal
}

// ExpenditureParams holds the operator-supplied fields of an expenditure.
type ExpenditureParams struct {
	Date       time.Time
	Time       *TimeOfDay
	User       string
	Activity   Activity
	TaskType   TaskType
	HoursSpent decimal.Decimal
	Comment    string
	IsGoodwill bool
}

// Day truncates t to a UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (p CreditParams) apply(c *TimeCredit) {
	c.StartDate = Day(p.StartDate)
	c.EndDate = Day(p.EndDate)
	c.GrantedBy = p.GrantedBy
	c.CreditHours = p.CreditHours
}

func (p ExpenditureParams) apply(e *TimeExpenditure) {
	e.Date = Day(p.Date)
	e.Time = p.Time
	e.User = p.User
	e.Activity = p.Activity
	e.TaskType = p.TaskType
	e.HoursSpent = p.HoursSpent
	e.Comment = p.Comment
	e.IsGoodwill = p.IsGoodwill
}

// Params returns the editable fields of the credit.
func (c *TimeCredit) Params() CreditParams {
	return CreditParams{
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		GrantedBy:   c.GrantedBy,
		CreditHours: c.CreditHours,
	}
}

// Params returns the editable fields of the expenditure.
func (e *TimeExpenditure) Params() ExpenditureParams {
	return ExpenditureParams{
		Date:       e.Date,
		Time:       e.Time,
		User:       e.User,
		Activity:   e.Activity,
		TaskType:   e.TaskType,
		HoursSpent: e.HoursSpent,
		Comment:    e.Comment,
		IsGoodwill: e.IsGoodwill,
	}
}
