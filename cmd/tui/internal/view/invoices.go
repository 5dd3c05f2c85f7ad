package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timebank/internal/invoice"
)

// Rendering the document can be slow.
const generateTimeout = time.Minute

type invoicesState int

const (
	invoicesStateBrowse invoicesState = iota
	invoicesStateTimeframe
	invoicesStateNumber
	invoicesStateGenerating
)

type InvoicesModel struct {
	CommonModel
	invoiceService *invoice.Service

	state    invoicesState
	table    table.Model
	invoices []*invoice.MaintenanceInvoice
	picker   TimeframePicker
	form     *huh.Form
	spinner  spinner.Model

	window TimeframeSelectedMsg
	number *string

	loading bool
	err     error
	status  string
}

func NewInvoicesModel(licenseID uuid.UUID, svc *invoice.Service) InvoicesModel {
	columns := []table.Column{
		{Title: "Number", Width: 14},
		{Title: "From", Width: 12},
		{Title: "To", Width: 12},
		{Title: "Credits", Width: 9},
		{Title: "Used", Width: 9},
		{Title: "Balance", Width: 9},
		{Title: "Created", Width: 17},
		{Title: "Document", Width: 30},
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = activeStyle

	return InvoicesModel{
		CommonModel:    CommonModel{LicenseID: licenseID},
		invoiceService: svc,
		table:          newTable(columns, 15),
		picker:         NewTimeframePicker(),
		spinner:        s,
		loading:        true,
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }

func (m InvoicesModel) ShortHelp() string {
	return "Esc: back | g: generate | x: delete | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case invoicesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.invoices = msg.invoices
		m.refreshTable()

		return m, nil

	case invoiceDoneMsg:
		m.state = invoicesStateBrowse
		m.status = msg.status

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
		}

		m.table.Focus()

		return m, m.loadCmd()

	case TimeframeSelectedMsg:
		m.window = msg
		return m.openNumberForm()

	case spinner.TickMsg:
		if m.state != invoicesStateGenerating {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case invoicesStateTimeframe:
		return m.updateTimeframe(msg)
	case invoicesStateNumber:
		return m.updateNumber(msg)
	case invoicesStateGenerating:
		return m, nil
	}

	return m.updateBrowse(msg)
}

func (m InvoicesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "g":
			m.state = invoicesStateTimeframe
			m.picker.Reset()
			m.table.Blur()

			return m, m.picker.Init()
		case "x":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.invoices) {
				return m, m.deleteCmd(m.invoices[idx].ID)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoicesModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
		m.state = invoicesStateBrowse
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m InvoicesModel) openNumberForm() (tea.Model, tea.Cmd) {
	m.number = new("")
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("invoice_number").
				Title("Invoice number").
				Placeholder("optional").
				Value(m.number),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = invoicesStateNumber

	return m, m.form.Init()
}

func (m InvoicesModel) updateNumber(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = invoicesStateTimeframe
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	params := invoice.GenerateParams{
		StartDate: m.window.Start,
		EndDate:   m.window.End,
	}

	if n := strings.TrimSpace(*m.number); n != "" {
		params.InvoiceNumber = &n
	}

	m.state = invoicesStateGenerating
	m.form = nil

	return m, tea.Batch(m.spinner.Tick, m.generateCmd(params))
}

func (m *InvoicesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		number := "-"
		if inv.InvoiceNumber != nil {
			number = *inv.InvoiceNumber
		}

		rows = append(rows, table.Row{
			number,
			FormatOptionalDate(inv.StartDate),
			FormatOptionalDate(inv.EndDate),
			FormatHours(inv.TotalCredits),
			FormatHours(inv.TotalExpenditures),
			FormatHours(inv.Balance),
			inv.CreatedAt.Local().Format("2006-01-02 15:04"),
			inv.DocumentReference,
		})
	}

	m.table.SetRows(rows)
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	switch m.state {
	case invoicesStateTimeframe:
		return lipgloss.NewStyle().Padding(2).Render(m.picker.View())
	case invoicesStateNumber:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Window: %s .. %s\n\n%s\n\n(Enter to generate, Esc to back)",
				FormatOptionalDate(m.window.Start), FormatOptionalDate(m.window.End), m.form.View()),
		)
	case invoicesStateGenerating:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Generating invoice...", m.spinner.View()),
		)
	}

	content := "No invoices yet."
	if len(m.invoices) > 0 {
		content = tableBorder.Render(m.table.View())
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, content, lipgloss.NewStyle().Faint(true).Render(m.ShortHelp())),
	)
}

// Messages

type invoicesLoadedMsg struct {
	invoices []*invoice.MaintenanceInvoice
	err      error
}

type invoiceDoneMsg struct {
	status string
	err    error
}

func (m InvoicesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invs, err := m.invoiceService.List(ctx, m.LicenseID)

		return invoicesLoadedMsg{invoices: invs, err: err}
	}
}

func (m InvoicesModel) generateCmd(params invoice.GenerateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		inv, err := m.invoiceService.Generate(ctx, m.LicenseID, params)
		if err != nil {
			return invoiceDoneMsg{err: err}
		}

		return invoiceDoneMsg{status: fmt.Sprintf("Invoice generated, balance %s.", FormatHours(inv.Balance))}
	}
}

func (m InvoicesModel) deleteCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.invoiceService.Delete(ctx, id)

		return invoiceDoneMsg{status: "Invoice deleted.", err: err}
	}
}
