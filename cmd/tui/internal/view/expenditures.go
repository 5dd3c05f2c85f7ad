package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

type expendituresState int

const (
	expendituresStateBrowse expendituresState = iota
	expendituresStateForm
)

type ExpendituresModel struct {
	CommonModel
	ledgerService *ledger.Service

	state        expendituresState
	table        table.Model
	expenditures []ledger.ExpenditureView
	form         *huh.Form
	editing      *ledger.ExpenditureView

	loading bool
	err     error
	status  string

	// Form bindings, shared by every copy of the model.
	values *expenditureFormValues
}

type expenditureFormValues struct {
	date     string
	time     string
	hours    string
	activity ledger.Activity
	taskType ledger.TaskType
	user     string
	comment  string
	goodwill bool
}

func NewExpendituresModel(licenseID uuid.UUID, svc *ledger.Service) ExpendituresModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Time", Width: 6},
		{Title: "Hours", Width: 7},
		{Title: "Uncovered", Width: 10},
		{Title: "Activity", Width: 15},
		{Title: "Task", Width: 9},
		{Title: "User", Width: 12},
		{Title: "Comment", Width: 30},
	}

	return ExpendituresModel{
		CommonModel:   CommonModel{LicenseID: licenseID},
		ledgerService: svc,
		table:         newTable(columns, 15),
		loading:       true,
	}
}

func (m ExpendituresModel) Title() string { return "Expenditures" }

func (m ExpendituresModel) ShortHelp() string {
	if m.state == expendituresStateForm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | e: edit | g: toggle goodwill | x: delete | r: refresh"
}

func (m ExpendituresModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ExpendituresModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case expendituresLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.expenditures = msg.expenditures
		m.refreshTable()

		return m, nil

	case expenditureSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = expendituresStateBrowse
		m.form = nil
		m.editing = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == expendituresStateForm {
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m ExpendituresModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.openForm(nil)
		case "e":
			if e := m.selected(); e != nil {
				return m.openForm(e)
			}
		case "g":
			if e := m.selected(); e != nil {
				return m, m.toggleGoodwillCmd(e.ID)
			}
		case "x":
			if e := m.selected(); e != nil {
				return m, m.deleteCmd(e.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExpendituresModel) selected() *ledger.ExpenditureView {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenditures) {
		return nil
	}

	return &m.expenditures[idx]
}

func (m ExpendituresModel) openForm(e *ledger.ExpenditureView) (tea.Model, tea.Cmd) {
	m.editing = e

	if e != nil {
		m.values = &expenditureFormValues{
			date:     FormatDate(e.Date),
			hours:    FormatHours(e.HoursSpent),
			activity: e.Activity,
			taskType: e.TaskType,
			user:     e.User,
			comment:  e.Comment,
			goodwill: e.IsGoodwill,
		}

		if e.Time != nil {
			m.values.time = e.Time.String()
		}
	} else {
		m.values = &expenditureFormValues{
			date:     FormatDate(time.Now()),
			activity: ledger.ActivityRemoteSupport,
			taskType: ledger.TaskTypeOther,
		}
	}

	activities := make([]huh.Option[ledger.Activity], len(ledger.Activities))
	for i, a := range ledger.Activities {
		activities[i] = huh.NewOption(string(a), a)
	}

	taskTypes := make([]huh.Option[ledger.TaskType], len(ledger.TaskTypes))
	for i, t := range ledger.TaskTypes {
		taskTypes[i] = huh.NewOption(string(t), t)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Value(&m.values.date).
				Validate(validateDate),
			huh.NewInput().
				Key("time").
				Title("Time").
				Placeholder("HH:MM (optional)").
				Value(&m.values.time).
				Validate(validateOptionalTime),
			huh.NewInput().
				Key("hours_spent").
				Title("Hours").
				Value(&m.values.hours).
				Validate(validateHours),
			huh.NewInput().
				Key("user").
				Title("User").
				Value(&m.values.user),
		),
		huh.NewGroup(
			huh.NewSelect[ledger.Activity]().
				Key("activity").
				Title("Activity").
				Options(activities...).
				Value(&m.values.activity),
			huh.NewSelect[ledger.TaskType]().
				Key("task_type").
				Title("Task type").
				Options(taskTypes...).
				Value(&m.values.taskType),
			huh.NewInput().
				Key("comment").
				Title("Comment").
				Value(&m.values.comment),
			huh.NewConfirm().
				Key("is_goodwill").
				Title("Goodwill?").
				Value(&m.values.goodwill),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = expendituresStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExpendituresModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = expendituresStateBrowse
		m.form = nil
		m.editing = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m *ExpendituresModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.expenditures))
	for _, e := range m.expenditures {
		tod := ""
		if e.Time != nil {
			tod = e.Time.String()
		}

		uncovered := decimal.Zero
		for _, d := range e.Deductions {
			if d.IsDebt() {
				uncovered = uncovered.Add(d.HoursDeducted)
			}
		}

		hours := FormatHours(e.HoursSpent)
		if e.IsGoodwill {
			hours += "*"
		}

		rows = append(rows, table.Row{
			FormatDate(e.Date),
			tod,
			hours,
			FormatHours(uncovered),
			string(e.Activity),
			string(e.TaskType),
			e.User,
			e.Comment,
		})
	}

	m.table.SetRows(rows)
}

func (m ExpendituresModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading expenditures...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		tableBorder.Render(m.table.View()),
		lipgloss.NewStyle().Faint(true).Render("* goodwill, not deducted"),
	)

	if m.state == expendituresStateForm && m.form != nil {
		title := "New Expenditure"
		if m.editing != nil {
			title = "Edit Expenditure"
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Render(title+"\n\n"+m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, content, lipgloss.NewStyle().Faint(true).Render(m.ShortHelp())),
	)
}

func validateOptionalTime(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if _, err := ledger.ParseTimeOfDay(s); err != nil {
		return errors.New("use HH:MM")
	}

	return nil
}

// Messages

type expendituresLoadedMsg struct {
	expenditures []ledger.ExpenditureView
	err          error
}

type expenditureSavedMsg struct {
	status string
	err    error
}

func (m ExpendituresModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		exps, err := m.ledgerService.ListExpenditures(ctx, m.LicenseID)

		return expendituresLoadedMsg{expenditures: exps, err: err}
	}
}

func (m ExpendituresModel) saveCmd() tea.Cmd {
	v := m.values

	// Form values were validated by the form.
	date, _ := time.Parse(time.DateOnly, v.date)
	hours, _ := decimal.NewFromString(v.hours)

	params := ledger.ExpenditureParams{
		Date:       date,
		User:       strings.TrimSpace(v.user),
		Activity:   v.activity,
		TaskType:   v.taskType,
		HoursSpent: hours,
		Comment:    strings.TrimSpace(v.comment),
		IsGoodwill: v.goodwill,
	}

	if s := strings.TrimSpace(v.time); s != "" {
		if tod, err := ledger.ParseTimeOfDay(s); err == nil {
			params.Time = &tod
		}
	}

	editing := m.editing

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if editing != nil {
			_, err := m.ledgerService.UpdateExpenditure(ctx, m.LicenseID, editing.ID, params)
			return expenditureSavedMsg{status: "Expenditure updated.", err: err}
		}

		_, err := m.ledgerService.AddExpenditure(ctx, m.LicenseID, params)

		return expenditureSavedMsg{status: "Expenditure added.", err: err}
	}
}

func (m ExpendituresModel) toggleGoodwillCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.ledgerService.PatchExpenditure(ctx, m.LicenseID, id, func(p *ledger.ExpenditureParams) {
			p.IsGoodwill = !p.IsGoodwill
		})

		return expenditureSavedMsg{status: "Goodwill toggled.", err: err}
	}
}

func (m ExpendituresModel) deleteCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.ledgerService.DeleteExpenditure(ctx, m.LicenseID, id)

		return expenditureSavedMsg{status: "Expenditure deleted.", err: err}
	}
}
