// Package tui is an interactive browser over a generated report: a company
// list ranked by top job score, with a detail pane for each company's jobs.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwrona/jobscout/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 1, 2)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			Padding(0, 0, 0, 2)

	scoreHighStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	scoreLowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Padding(1, 0, 1, 2)

	notesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 0, 0, 6)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

type view int

const (
	viewCompanies view = iota
	viewJobs
)

type browseModel struct {
	report   *model.Report
	cursor   int
	active   view
	detail   viewport.Model
	width    int
	height   int
	detailOK bool
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail = viewport.New(msg.Width, msg.Height-6)
		m.detailOK = true
		if m.active == viewJobs {
			m.detail.SetContent(m.jobsContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.active == viewCompanies && m.cursor > 0 {
				m.cursor--
				return m, nil
			}
		case "down", "j":
			if m.active == viewCompanies && m.cursor < len(m.report.Companies)-1 {
				m.cursor++
				return m, nil
			}
		case "enter":
			if m.active == viewCompanies && len(m.report.Companies) > 0 {
				m.active = viewJobs
				if m.detailOK {
					m.detail.SetContent(m.jobsContent())
					m.detail.SetYOffset(0)
				}
				return m, nil
			}
		case "esc":
			m.active = viewCompanies
			return m, nil
		}

		// Forward remaining keys (arrows, pgup/pgdn) to the detail pane.
		if m.active == viewJobs && m.detailOK {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m browseModel) View() string {
	if m.active == viewJobs {
		return m.jobsView()
	}
	return m.companiesView()
}

func (m browseModel) companiesView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Job Report — Companies"))
	b.WriteString("\n")

	if len(m.report.Companies) == 0 {
		b.WriteString(itemStyle.Render("No reportable postings yet."))
		b.WriteString("\n")
	}

	for i, c := range m.report.Companies {
		label := fmt.Sprintf("%s  %s", scoreLabel(c.TopJobScore), c.Company)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + label))
		} else {
			b.WriteString(itemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("↑/↓/j/k navigate  enter open  q quit"))
	return b.String()
}

func (m browseModel) jobsView() string {
	company := m.report.Companies[m.cursor]
	header := detailTitleStyle.Render(
		fmt.Sprintf("%s — top score %.2f", company.Company, company.TopJobScore))

	body := m.jobsContent()
	if m.detailOK {
		body = m.detail.View()
	}

	return header + "\n" + body + "\n" +
		hintStyle.Render("↑/↓ scroll  esc back  q quit")
}

func (m browseModel) jobsContent() string {
	company := m.report.Companies[m.cursor]

	var b strings.Builder
	for _, job := range company.Jobs {
		b.WriteString(itemStyle.Render(
			fmt.Sprintf("%s  %s", scoreLabel(job.Score), job.Position)))
		b.WriteString("\n")
		b.WriteString(itemStyle.Render("    " + job.URL))
		b.WriteString("\n")
		if job.Notes != "" {
			b.WriteString(notesStyle.Render(job.Notes))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func scoreLabel(score float64) string {
	label := fmt.Sprintf("%.2f", score)
	if score >= 2.5 {
		return scoreHighStyle.Render(label)
	}
	return scoreLowStyle.Render(label)
}

// Browse opens the interactive report browser and blocks until the user
// quits.
func Browse(report *model.Report) error {
	m := browseModel{report: report}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running report browser: %w", err)
	}
	return nil
}
