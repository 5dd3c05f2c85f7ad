package timesheet

// Profile describes the header layout of a timesheet export. Header names are
// matched case-insensitively; empty optional columns are simply not read.
type Profile struct {
	Name     string
	Date     string
	Hours    string
	Activity string
	Time     string
	User     string
	TaskType string
	Comment  string
	Goodwill string
}

func (p Profile) requiredCols() []string {
	return []string{p.Date, p.Hours, p.Activity}
}

// profiles is tried in order during detection.
var profiles = []Profile{
	{
		Name:     "timebank",
		Date:     "date",
		Hours:    "hours",
		Activity: "activity",
		Time:     "time",
		User:     "user",
		TaskType: "task_type",
		Comment:  "comment",
		Goodwill: "goodwill",
	},
	{
		Name:     "tracker",
		Date:     "day",
		Hours:    "duration",
		Activity: "channel",
		Time:     "start",
		User:     "employee",
		TaskType: "category",
		Comment:  "notes",
		Goodwill: "free of charge",
	},
}
