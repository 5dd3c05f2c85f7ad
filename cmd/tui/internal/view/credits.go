package view

import (
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

type creditsState int

const (
	creditsStateBrowse creditsState = iota
	creditsStateForm
)

type CreditsModel struct {
	CommonModel
	ledgerService *ledger.Service

	state   creditsState
	table   table.Model
	credits []ledger.CreditView
	form    *huh.Form
	editing *ledger.CreditView

	loading bool
	err     error
	status  string

	// Form bindings, shared by every copy of the model.
	values *creditFormValues
}

type creditFormValues struct {
	start     string
	end       string
	grantedBy string
	hours     string
}

func NewCreditsModel(licenseID uuid.UUID, svc *ledger.Service) CreditsModel {
	columns := []table.Column{
		{Title: "Start", Width: 12},
		{Title: "End", Width: 12},
		{Title: "Hours", Width: 8},
		{Title: "Remaining", Width: 10},
		{Title: "Status", Width: 10},
		{Title: "Granted By", Width: 25},
	}

	return CreditsModel{
		CommonModel:   CommonModel{LicenseID: licenseID},
		ledgerService: svc,
		table:         newTable(columns, 15),
		loading:       true,
	}
}

func (m CreditsModel) Title() string { return "Credits" }

func (m CreditsModel) ShortHelp() string {
	if m.state == creditsStateForm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | e: edit | x: delete | r: refresh"
}

func (m CreditsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CreditsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case creditsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.credits = msg.credits
		m.refreshTable()

		return m, nil

	case creditSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = creditsStateBrowse
		m.form = nil
		m.editing = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == creditsStateForm {
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m CreditsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if c := m.selected(); c != nil {
				return m.openForm(c)
			}
		case "x":
			if c := m.selected(); c != nil {
				return m, m.deleteCmd(c.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CreditsModel) selected() *ledger.CreditView {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.credits) {
		return nil
	}

	return &m.credits[idx]
}

func (m CreditsModel) openForm(c *ledger.CreditView) (tea.Model, tea.Cmd) {
	m.editing = c

	if c != nil {
		m.values = &creditFormValues{
			start:     FormatDate(c.StartDate),
			end:       FormatDate(c.EndDate),
			grantedBy: c.GrantedBy,
			hours:     FormatHours(c.CreditHours),
		}
	} else {
		now := time.Now()
		m.values = &creditFormValues{
			start: FormatDate(now),
			end:   FormatDate(now.AddDate(1, 0, -1)),
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("start_date").
				Title("Start date").
				Value(&m.values.start).
				Validate(validateDate),
			huh.NewInput().
				Key("end_date").
				Title("End date").
				Value(&m.values.end).
				Validate(validateDate),
			huh.NewInput().
				Key("credit_hours").
				Title("Hours").
				Value(&m.values.hours).
				Validate(validateHours),
			huh.NewInput().
				Key("granted_by").
				Title("Granted by").
				Value(&m.values.grantedBy),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = creditsStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m CreditsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = creditsStateBrowse
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

func (m *CreditsModel) refreshTable() {
	today := time.Now()

	rows := make([]table.Row, 0, len(m.credits))
	for _, c := range m.credits {
		rows = append(rows, table.Row{
			FormatDate(c.StartDate),
			FormatDate(c.EndDate),
			FormatHours(c.CreditHours),
			FormatHours(c.RemainingHours),
			creditStatus(c.TimeCredit, today),
			c.GrantedBy,
		})
	}

	m.table.SetRows(rows)
}

func (m CreditsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading credits...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	content := tableBorder.Render(m.table.View())

	if m.state == creditsStateForm && m.form != nil {
		title := "New Credit"
		if m.editing != nil {
			title = "Edit Credit"
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

// creditStatus labels a credit by its position relative to today.
func creditStatus(c *ledger.TimeCredit, today time.Time) string {
	switch {
	case c.IsExpired(today):
		return "expired"
	case c.IsActive(today):
		return "active"
	}

	return "upcoming"
}

// Messages

type creditsLoadedMsg struct {
	credits []ledger.CreditView
	err     error
}

type creditSavedMsg struct {
	status string
	err    error
}

func (m CreditsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		credits, err := m.ledgerService.ListCredits(ctx, m.LicenseID, time.Time{})

		return creditsLoadedMsg{credits: credits, err: err}
	}
}

func (m CreditsModel) saveCmd() tea.Cmd {
	// Form values were validated by the form.
	start, _ := time.Parse(time.DateOnly, m.values.start)
	end, _ := time.Parse(time.DateOnly, m.values.end)
	hours, _ := decimal.NewFromString(m.values.hours)

	params := ledger.CreditParams{
		StartDate:   start,
		EndDate:     end,
		GrantedBy:   strings.TrimSpace(m.values.grantedBy),
		CreditHours: hours,
	}

	editing := m.editing

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if editing != nil {
			_, err := m.ledgerService.UpdateCredit(ctx, m.LicenseID, editing.ID, params)
			return creditSavedMsg{status: "Credit updated.", err: err}
		}

		_, err := m.ledgerService.AddCredit(ctx, m.LicenseID, params)

		return creditSavedMsg{status: "Credit added.", err: err}
	}
}

func (m CreditsModel) deleteCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.ledgerService.DeleteCredit(ctx, m.LicenseID, id)

		return creditSavedMsg{status: "Credit deleted, expenditures reallocated.", err: err}
	}
}
