package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timebank/internal/importer"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	ledgerService *ledger.Service
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	path       string

	status string
	err    error
}

func NewImportModel(licenseID uuid.UUID, ledgerSvc *ledger.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = activeStyle

	return ImportModel{
		CommonModel:   CommonModel{LicenseID: licenseID},
		ledgerService: ledgerSvc,
		importService: impSvc,
		filePicker:    fp,
		spinner:       s,
	}
}

func (m ImportModel) Title() string { return "Import Timesheet" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err

		if msg.err != nil {
			m.status = describeImportError(msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d expenditures from %s.", msg.count, m.path)

		return m, nil

	case spinner.TickMsg:
		if m.state != importStateImporting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.path = path

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateResult:
		m.state = importStateFilePick
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select timesheet to import:\n\n%s", m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Importing %s...", m.spinner.View(), m.path),
		)
	case importStateResult:
		style := successStyle
		if m.err != nil {
			style = errorStyle
		}

		return lipgloss.NewStyle().Padding(2).Render(style.Render(m.status) + "\n\n(Esc to go back)")
	}

	return ""
}

// describeImportError lists every rejected cell when the file failed validation.
func describeImportError(err error) string {
	var ve *ledger.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Sprintf("Error: %v", err)
	}

	lines := make([]string, 0, len(ve.Fields)+1)
	lines = append(lines, "Nothing imported, the file has errors:")

	for _, f := range ve.Fields {
		lines = append(lines, fmt.Sprintf("  %s: %s", f.Field, f.Reason))
	}

	return strings.Join(lines, "\n")
}

// Messages

type importResultMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(importer.FormatTimesheet, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		if len(params) == 0 {
			return importResultMsg{err: errors.New("file contains no expenditures")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		exps, err := m.ledgerService.AddExpenditures(ctx, m.LicenseID, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{count: len(exps)}
	}
}
