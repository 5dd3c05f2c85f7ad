package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/timebank/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/timebank/internal/config"
	"github.com/MrJamesThe3rd/timebank/internal/database"
	"github.com/MrJamesThe3rd/timebank/internal/document"
	"github.com/MrJamesThe3rd/timebank/internal/importer"
	"github.com/MrJamesThe3rd/timebank/internal/invoice"
	invoiceMemstore "github.com/MrJamesThe3rd/timebank/internal/invoice/memstore"
	invoiceStore "github.com/MrJamesThe3rd/timebank/internal/invoice/store"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
	ledgerMemstore "github.com/MrJamesThe3rd/timebank/internal/ledger/memstore"
	ledgerStore "github.com/MrJamesThe3rd/timebank/internal/ledger/store"
)

type model struct {
	ledgerService  *ledger.Service
	invoiceService *invoice.Service
	importService  *importer.Service

	currentView View
	licenseID   uuid.UUID

	licenseInput textinput.Model
	licenseErr   error

	overviewView     view.OverviewModel
	creditsView      view.CreditsModel
	expendituresView view.ExpendituresModel
	importView       view.ImportModel
	invoicesView     view.InvoicesModel
}

type View int

const (
	ViewLicense      View = 0
	ViewMenu         View = 1
	ViewOverview     View = 2
	ViewCredits      View = 3
	ViewExpenditures View = 4
	ViewImport       View = 5
	ViewInvoices     View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var (
		ledgerRepo  ledger.Repository
		invoiceRepo invoice.Repository
	)

	switch cfg.Store.Driver {
	case config.DriverMemory:
		ledgerRepo = ledgerMemstore.New()
		invoiceRepo = invoiceMemstore.New()
	default:
		db, err := database.New(context.Background(), cfg.ConnectionString(), database.Pool{
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			MaxIdleConns:    cfg.DB.MaxIdleConns,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		})
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}

		ledgerRepo = ledgerStore.New(db)
		invoiceRepo = invoiceStore.New(db)
	}

	// The TUI owns the terminal; keep service logs out of it.
	quiet := slog.New(slog.DiscardHandler)

	invoiceOpts := []invoice.Option{invoice.WithLogger(quiet)}
	if cfg.Renderer.URL != "" {
		invoiceOpts = append(invoiceOpts, invoice.WithRenderer(
			document.NewClient(cfg.Renderer.URL, cfg.Renderer.Token, cfg.Renderer.Timeout),
		))
	}

	ledgerSvc := ledger.NewService(ledgerRepo, ledger.WithLogger(quiet))

	ti := textinput.New()
	ti.Placeholder = "00000000-0000-0000-0000-000000000000"
	ti.CharLimit = 36
	ti.Width = 40
	ti.SetValue(cfg.TUI.LicenseID)
	ti.Focus()

	m := model{
		ledgerService:  ledgerSvc,
		invoiceService: invoice.NewService(invoiceRepo, ledgerSvc, invoiceOpts...),
		importService:  importer.NewService(),
		currentView:    ViewLicense,
		licenseInput:   ti,
	}

	if id, err := uuid.Parse(cfg.TUI.LicenseID); err == nil {
		m.licenseID = id
		m.currentView = ViewMenu
	}

	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.currentView {
		case ViewLicense:
			return m.updateLicense(msg)
		case ViewMenu:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "l":
				m.currentView = ViewLicense
				m.licenseInput.Focus()

				return m, textinput.Blink
			case "1":
				m.currentView = ViewOverview
				m.overviewView = view.NewOverviewModel(m.licenseID, m.ledgerService)

				return m, m.overviewView.Init()
			case "2":
				m.currentView = ViewCredits
				m.creditsView = view.NewCreditsModel(m.licenseID, m.ledgerService)

				return m, m.creditsView.Init()
			case "3":
				m.currentView = ViewExpenditures
				m.expendituresView = view.NewExpendituresModel(m.licenseID, m.ledgerService)

				return m, m.expendituresView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.licenseID, m.ledgerService, m.importService)

				return m, m.importView.Init()
			case "5":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.licenseID, m.invoiceService)

				return m, m.invoicesView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewOverview:
		var newModel tea.Model
		newModel, cmd = m.overviewView.Update(msg)
		m.overviewView = newModel.(view.OverviewModel)
	case ViewCredits:
		var newModel tea.Model
		newModel, cmd = m.creditsView.Update(msg)
		m.creditsView = newModel.(view.CreditsModel)
	case ViewExpenditures:
		var newModel tea.Model
		newModel, cmd = m.expendituresView.Update(msg)
		m.expendituresView = newModel.(view.ExpendituresModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	}

	return m, cmd
}

func (m model) updateLicense(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		id, err := uuid.Parse(m.licenseInput.Value())
		if err != nil {
			m.licenseErr = fmt.Errorf("not a license id")
			return m, nil
		}

		m.licenseID = id
		m.licenseErr = nil
		m.currentView = ViewMenu
		m.licenseInput.Blur()

		return m, nil
	case tea.KeyEsc:
		if m.licenseID != uuid.Nil {
			m.currentView = ViewMenu
			return m, nil
		}

		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.licenseInput, cmd = m.licenseInput.Update(msg)

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewLicense:
		s := "Timebank TUI\n\nLicense ID:\n" + m.licenseInput.View()
		if m.licenseErr != nil {
			s += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.licenseErr.Error())
		}

		return lipgloss.NewStyle().Padding(2).Render(s + "\n\n(Enter to open, Esc to quit)")
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Timebank TUI\n" +
				"License " + m.licenseID.String() + "\n\n" +
				"1. Overview\n" +
				"2. Credits\n" +
				"3. Expenditures\n" +
				"4. Import Timesheet\n" +
				"5. Invoices\n\n" +
				"l. Switch License\n" +
				"q. Quit",
		)
	case ViewOverview:
		return m.overviewView.View()
	case ViewCredits:
		return m.creditsView.View()
	case ViewExpenditures:
		return m.expendituresView.View()
	case ViewImport:
		return m.importView.View()
	case ViewInvoices:
		return m.invoicesView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
