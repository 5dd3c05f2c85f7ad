package timesheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

var dateLayouts = []string{time.DateOnly, "02-01-2006", "02.01.2006"}

// parseHours accepts "1.5", "1,5" and "1:30".
func parseHours(s string) (decimal.Decimal, error) {
	if h, m, ok := strings.Cut(s, ":"); ok {
		hh, err := strconv.Atoi(h)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("invalid hours %q", s)
		}

		mm, err := strconv.Atoi(m)
		if err != nil || mm < 0 || mm >= 60 {
			return decimal.Decimal{}, fmt.Errorf("invalid minutes %q", s)
		}

		return decimal.NewFromInt(int64(hh)).Add(decimal.NewFromInt(int64(mm)).Div(decimal.NewFromInt(60))).Round(ledger.HoursPrecision), nil
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid hours %q", s)
	}

	return d, nil
}

var activityAliases = map[string]ledger.Activity{
	"email":  ledger.ActivityEmailSupport,
	"e_mail": ledger.ActivityEmailSupport,
	"mail":   ledger.ActivityEmailSupport,
	"remote": ledger.ActivityRemoteSupport,
	"phone":  ledger.ActivityPhoneSupport,
	"call":   ledger.ActivityPhoneSupport,
}

func parseActivity(s string) (ledger.Activity, error) {
	key := normalize(s)

	if a := ledger.Activity(key); a.Valid() {
		return a, nil
	}

	if a, ok := activityAliases[strings.TrimSuffix(key, "_support")]; ok {
		return a, nil
	}

	return ledger.ActivityUnknown, fmt.Errorf("unknown activity %q", s)
}

var taskTypeAliases = map[string]ledger.TaskType{
	"bug":    ledger.TaskTypeBugs,
	"bugfix": ledger.TaskTypeBugs,
	"test":   ledger.TaskTypeTesting,
}

func parseTaskType(s string) (ledger.TaskType, error) {
	if s == "" {
		return ledger.TaskTypeOther, nil
	}

	key := normalize(s)

	if t := ledger.TaskType(key); t.Valid() {
		return t, nil
	}

	if t, ok := taskTypeAliases[key]; ok {
		return t, nil
	}

	return ledger.TaskTypeUnknown, fmt.Errorf("unknown task type %q", s)
}

func parseFlag(s string) (bool, error) {
	switch normalize(s) {
	case "", "false", "no", "0", "n":
		return false, nil
	case "true", "yes", "1", "x", "y":
		return true, nil
	}

	return false, fmt.Errorf("invalid flag %q", s)
}

// normalize lowercases s and folds spaces and dashes into underscores.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
