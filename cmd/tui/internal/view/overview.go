package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

// OverviewModel shows the balance of a license and its settlement periods.
type OverviewModel struct {
	CommonModel
	ledgerService *ledger.Service

	table   table.Model
	balance ledger.Balance
	debt    string
	periods []ledger.Settlement

	loading bool
	err     error
}

func NewOverviewModel(licenseID uuid.UUID, svc *ledger.Service) OverviewModel {
	columns := []table.Column{
		{Title: "Period", Width: 25},
		{Title: "Granted", Width: 9},
		{Title: "Carry In", Width: 9},
		{Title: "Used", Width: 9},
		{Title: "Balance", Width: 9},
		{Title: "Carry Out", Width: 9},
		{Title: "Entries", Width: 8},
	}

	return OverviewModel{
		CommonModel:   CommonModel{LicenseID: licenseID},
		ledgerService: svc,
		table:         newTable(columns, 12),
		loading:       true,
	}
}

func (m OverviewModel) Title() string { return "Overview" }

func (m OverviewModel) ShortHelp() string {
	return "Esc: back | r: refresh | a: reallocate"
}

func (m OverviewModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m OverviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err != nil {
			return m, nil
		}

		m.balance = msg.snap.Balance()
		m.debt = FormatHours(ledger.Debt(msg.snap.Deductions))
		m.periods = msg.snap.Settlements()
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			m.loading = true
			return m, m.reallocateCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *OverviewModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.periods))
	for _, p := range m.periods {
		label := "Uncovered"
		if p.Credit != nil {
			label = fmt.Sprintf("%s .. %s", FormatDate(p.Credit.StartDate), FormatDate(p.Credit.EndDate))
		}

		rows = append(rows, table.Row{
			label,
			FormatHours(p.CreditAmount),
			FormatHours(p.CarryOverIn),
			FormatHours(p.ExpenditureTotal),
			FormatHours(p.Balance),
			FormatHours(p.CarryOverOut),
			fmt.Sprintf("%d", len(p.Expenditures)),
		})
	}

	m.table.SetRows(rows)
}

func (m OverviewModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading ledger...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	header := fmt.Sprintf(
		"License %s\n\nGranted: %s | Used: %s | Balance: %s | Uncovered: %s",
		activeStyle.Render(m.LicenseID.String()),
		FormatHours(m.balance.TotalCredits),
		FormatHours(m.balance.TotalExpenditures),
		FormatBalance(m.balance.CurrentBalance),
		m.debt,
	)

	body := "No credits or expenditures yet."
	if len(m.periods) > 0 {
		body = tableBorder.Render(m.table.View())
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			body,
			lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
		),
	)
}

type overviewLoadedMsg struct {
	snap *ledger.Snapshot
	err  error
}

func (m OverviewModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		snap, err := m.ledgerService.Snapshot(ctx, m.LicenseID)

		return overviewLoadedMsg{snap: snap, err: err}
	}
}

func (m OverviewModel) reallocateCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.ledgerService.Reallocate(ctx, m.LicenseID); err != nil {
			return overviewLoadedMsg{err: err}
		}

		snap, err := m.ledgerService.Snapshot(ctx, m.LicenseID)

		return overviewLoadedMsg{snap: snap, err: err}
	}
}
