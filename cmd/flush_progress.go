package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const flushPollInterval = 50 * time.Millisecond

// drainer is the part of the persistence gateway a flush watches.
type drainer interface {
	Pending() int
	Close(ctx context.Context) error
}

type drainedMsg struct {
	err error
}

type queuePolledMsg struct {
	pending int
}

// flushModel shows how many storage writes are still queued while the
// gateway drains.
type flushModel struct {
	spinner spinner.Model
	count   lipgloss.Style
	gateway drainer
	ctx     context.Context

	queued  int
	pending int
	err     error
	done    bool
}

func newFlushModel(ctx context.Context, gateway drainer) flushModel {
	queued := gateway.Pending()

	return flushModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		count:   lipgloss.NewStyle().Faint(true),
		gateway: gateway,
		ctx:     ctx,
		queued:  queued,
		pending: queued,
	}
}

func (m flushModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.drain(), m.poll())
}

func (m flushModel) drain() tea.Cmd {
	return func() tea.Msg {
		return drainedMsg{err: m.gateway.Close(m.ctx)}
	}
}

func (m flushModel) poll() tea.Cmd {
	return tea.Tick(flushPollInterval, func(time.Time) tea.Msg {
		return queuePolledMsg{pending: m.gateway.Pending()}
	})
}

func (m flushModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case queuePolledMsg:
		if m.done {
			return m, nil
		}
		m.pending = msg.pending
		if m.pending > m.queued {
			m.queued = m.pending
		}
		return m, m.poll()
	case drainedMsg:
		m.done = true
		m.pending = 0
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m flushModel) View() string {
	if m.done {
		return ""
	}
	if m.queued == 0 {
		return m.spinner.View() + " Saving observations..."
	}

	written := m.queued - m.pending
	return fmt.Sprintf("%s Saving observations... %s", m.spinner.View(), m.count.Render(fmt.Sprintf("%d/%d written", written, m.queued)))
}

// runFlush closes gateway and waits for its queue to drain, drawing progress
// on output.
func runFlush(ctx context.Context, output io.Writer, gateway drainer) error {
	p := tea.NewProgram(
		newFlushModel(ctx, gateway),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("wait for storage: %w", err)
	}

	result, ok := final.(flushModel)
	if !ok {
		return fmt.Errorf("unexpected final flush model type %T", final)
	}

	return result.err
}
