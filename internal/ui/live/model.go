package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultTick = 200 * time.Millisecond

// Options configures the live table.
type Options struct {
	NoColor      bool
	TickInterval time.Duration
}

// Model is the Bubble Tea model behind the live run table.
type Model struct {
	state  State
	table  table.Model
	styles styles
	events <-chan Event
	tick   time.Duration
	now    time.Time
}

// EventMsg delivers one observer event to the program.
type EventMsg struct {
	Event Event
}

type tickMsg time.Time

// NewModel reads events until the channel is closed.
func NewModel(events <-chan Event, opts Options) Model {
	st := newStyles(opts.NoColor)
	t := table.New(
		table.WithColumns(columnsForWidth(120)),
		table.WithFocused(false),
	)
	t.SetStyles(st.table)
	m := Model{table: t, styles: st, events: events, tick: opts.TickInterval, now: time.Now()}
	if m.tick <= 0 {
		m.tick = defaultTick
	}
	return m
}

func (m Model) State() State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.next(), m.schedule())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return applyEvent(m, msg.Event), m.next()
	case tickMsg:
		m.now = time.Time(msg)
		m.refresh()
		return m, m.schedule()
	case tea.WindowSizeMsg:
		m.table.SetColumns(columnsForWidth(msg.Width))
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-4, 1))
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.header.Render(headerLine(m.state, m.now)),
		m.styles.summary.Render(summaryLine(m.state)),
		m.table.View(),
		m.styles.footer.Render(footerLine(m.state)),
	)
}

// next waits for one event; a closed channel ends the program.
func (m Model) next() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		event, ok := <-events
		if !ok {
			return tea.Quit()
		}
		return EventMsg{Event: event}
	}
}

func (m Model) schedule() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) refresh() {
	m.table.SetRows(tableRows(m.state, m.now, m.styles))
}

func applyEvent(m Model, event Event) Model {
	if !event.At.IsZero() {
		m.now = event.At
	}
	m.state = Reduce(m.state, event)
	m.refresh()
	return m
}
