package listing

import (
	"errors"
	"io"

	"github.com/bnema/observation-displayer/internal/application"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrUnexpectedListingModel = errors.New("listing program finished with a foreign model")

// pageMsg hands the page to the model once the program is running.
type pageMsg struct {
	page application.ListingPage
}

// listingModel holds a laid out page: the header carries the title and the
// active filters, rows hold one rendered entry each and the footer carries
// the pagination summary. The footer stays empty for an empty page.
type listingModel struct {
	opts   RenderOptions
	styles styles

	header []string
	rows   []string
	footer string
	loaded bool
}

func newListingModel(opts RenderOptions) listingModel {
	return listingModel{opts: opts, styles: newStyles()}
}

func (m listingModel) Init() tea.Cmd {
	return nil
}

func (m listingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	page, ok := msg.(pageMsg)
	if !ok {
		return m, nil
	}

	m.header = headerLines(page.page.Filter, m.styles)
	m.rows = m.rows[:0]
	for _, entry := range page.page.Entries {
		m.rows = append(m.rows, renderEntry(entry, m.opts, m.styles))
	}
	m.footer = ""
	if len(m.rows) > 0 {
		m.footer = footerLine(page.page, m.styles)
	}
	m.loaded = true
	return m, tea.Quit
}

func (m listingModel) View() string {
	if !m.loaded {
		return ""
	}

	lines := append([]string(nil), m.header...)
	if len(m.rows) == 0 {
		lines = append(lines, m.styles.empty.Render("No observations found."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	lines = append(lines, m.rows...)
	lines = append(lines, m.footer)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Render lays out one listing page.
func Render(page application.ListingPage, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newListingModel(opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
	)
	go p.Send(pageMsg{page: page})

	final, err := p.Run()
	if err != nil {
		return "", err
	}

	laidOut, ok := final.(listingModel)
	if !ok {
		return "", ErrUnexpectedListingModel
	}
	return laidOut.View(), nil
}
