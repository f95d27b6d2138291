// Package tui implements the interactive store console: search the weakness
// index by id, run full-text searches and rebuild the store.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vecstore"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultTopK is the number of results fetched per search.
const DefaultTopK = 3

const help = "<weakness-id> search   !text <query> full-text   !rebuild   !exit"

// StorePort is the console-facing subset of vecstore.Store.
type StorePort interface {
	SearchByWeakness(ctx context.Context, weaknessID string, k int) ([]vecstore.Result, error)
	SearchByText(ctx context.Context, query string, k int, language string) ([]vecstore.Result, error)
	Rebuild(ctx context.Context) error
	Len() int
}

type searchMsg struct {
	query   string
	results []vecstore.Result
	err     error
}

type rebuildMsg struct {
	documents int
	err       error
}

// Model is the Bubble Tea model for the console.
type Model struct {
	ctx      context.Context
	store    StorePort
	topK     int
	input    textinput.Model
	viewport viewport.Model
	results  []vecstore.Result
	query    string
	status   string
	cursor   int
	busy     bool
	ready    bool
}

// New creates a console over store.
func New(ctx context.Context, store StorePort, topK int) Model {
	if topK <= 0 {
		topK = DefaultTopK
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "CWE-89"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		ctx:      ctx,
		store:    store,
		topK:     topK,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   fmt.Sprintf("Loaded %d recipes.", store.Len()),
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and command-result events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case searchMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.results = nil
		} else if len(msg.results) == 0 {
			m.status = fmt.Sprintf("No results found for %q.", msg.query)
			m.results = nil
		} else {
			m.status = fmt.Sprintf("Results for %q", msg.query)
			m.results = msg.results
		}
		m.query, m.cursor = msg.query, 0
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case rebuildMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Rebuild failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Store rebuilt with %d recipes.", msg.documents)
		}
		m.results = nil
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			if line == "" || m.busy {
				return m, nil
			}
			m.input.SetValue("")
			return m.run(line)
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) run(line string) (tea.Model, tea.Cmd) {
	lower := strings.ToLower(line)
	switch {
	case lower == "!exit":
		return m, tea.Quit
	case lower == "!rebuild":
		m.busy = true
		m.status = "Rebuilding store..."
		return m, m.rebuild()
	case strings.HasPrefix(lower, "!text "):
		m.busy = true
		query := strings.TrimSpace(line[len("!text "):])
		return m, m.search(query, func(ctx context.Context) ([]vecstore.Result, error) {
			return m.store.SearchByText(ctx, query, m.topK, "")
		})
	case strings.HasPrefix(lower, "!"):
		m.status = "Unknown command. " + help
		return m, nil
	default:
		m.busy = true
		return m, m.search(line, func(ctx context.Context) ([]vecstore.Result, error) {
			return m.store.SearchByWeakness(ctx, line, m.topK)
		})
	}
}

func (m Model) search(query string, fn func(context.Context) ([]vecstore.Result, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		results, err := fn(ctx)
		return searchMsg{query: query, results: results, err: err}
	}
}

func (m Model) rebuild() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		if err := store.Rebuild(ctx); err != nil {
			return rebuildMsg{err: err}
		}
		return rebuildMsg{documents: store.Len()}
	}
}

// View renders the console.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Recipe Store Console")
	sub := helpStyle.Render(help)
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + sub + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	meta := r.Document.Metadata
	var b strings.Builder
	fmt.Fprintf(&b, "Result %d/%d  distance=%.4f\n", m.cursor+1, len(m.results), r.Distance)
	b.WriteString(labelStyle.Render("weakness: "+meta.WeaknessID) + "\n")
	if len(meta.Languages) > 0 {
		b.WriteString(labelStyle.Render("languages: "+strings.Join(meta.Languages, ", ")) + "\n")
	}
	if len(meta.Tags) > 0 {
		b.WriteString(labelStyle.Render("tags: "+strings.Join(meta.Tags, ", ")) + "\n")
	}
	b.WriteString("\n" + r.Document.Content)
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
