package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vecstore"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	docs       int
	rebuilds   int
	rebuildErr error
	lastText   string
}

func (f *fakeStore) SearchByWeakness(_ context.Context, id string, k int) ([]vecstore.Result, error) {
	if id == "CWE-0" {
		return nil, nil
	}
	return []vecstore.Result{
		{Document: vector.Document{ID: 0, Metadata: vector.Metadata{WeaknessID: id, Languages: []string{"java"}}, Content: "name: match"}},
		{Document: vector.Document{ID: 1, Metadata: vector.Metadata{WeaknessID: "CWE-1"}, Content: "name: other"}, Distance: 0.5},
	}[:min(k, 2)], nil
}

func (f *fakeStore) SearchByText(_ context.Context, query string, _ int, _ string) ([]vecstore.Result, error) {
	f.lastText = query
	return nil, nil
}

func (f *fakeStore) Rebuild(context.Context) error {
	f.rebuilds++
	if f.rebuildErr == nil {
		f.docs++
	}
	return f.rebuildErr
}

func (f *fakeStore) Len() int { return f.docs }

func enter(t *testing.T, m Model, line string) Model {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd != nil {
		msg := cmd()
		if _, quit := msg.(tea.QuitMsg); quit {
			return m
		}
		next, _ = m.Update(msg)
		m = next.(Model)
	}
	return m
}

func newModel(store *fakeStore) Model {
	m := New(context.Background(), store, 2)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model)
}

func TestConsoleSearch(t *testing.T) {
	m := newModel(&fakeStore{docs: 2})
	assert.Contains(t, m.View(), "Loaded 2 recipes.")

	m = enter(t, m, "CWE-89")
	require.Len(t, m.results, 2)
	assert.Contains(t, m.status, `Results for "CWE-89"`)
	assert.Contains(t, m.renderCurrentResult(), "weakness: CWE-89")
	assert.Contains(t, m.renderCurrentResult(), "languages: java")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Contains(t, m.renderCurrentResult(), "Result 2/2")

	m = enter(t, m, "CWE-0")
	assert.Empty(t, m.results)
	assert.Contains(t, m.status, "No results found")
}

func TestConsoleTextSearch(t *testing.T) {
	store := &fakeStore{}
	m := enter(t, newModel(store), "!text sql injection")
	assert.Equal(t, "sql injection", store.lastText)
	assert.Contains(t, m.status, "No results found")
}

func TestConsoleRebuild(t *testing.T) {
	store := &fakeStore{docs: 1}
	m := enter(t, newModel(store), "!rebuild")
	assert.Equal(t, 1, store.rebuilds)
	assert.Equal(t, "Store rebuilt with 2 recipes.", m.status)

	store.rebuildErr = errors.New("no corpus")
	m = enter(t, m, "!REBUILD")
	assert.Contains(t, m.status, "Rebuild failed: no corpus")
}

func TestConsoleCommands(t *testing.T) {
	m := newModel(&fakeStore{})
	m.input.SetValue("!exit")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m = enter(t, m, "!bogus")
	assert.Contains(t, m.status, "Unknown command")
}
