package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T, list TaskList) (model, *Store) {
	t.Helper()
	store := newTestStore(t, filepath.Join(t.TempDir(), "todos.json"))
	return newModel(list, store, modelOptions{keys: DefaultKeyMap(), showDates: true}), store
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func loadTexts(t *testing.T, store *Store) []string {
	t.Helper()
	list, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return texts(list)
}

func TestModelAddSavesImmediately(t *testing.T) {
	m, store := newTestModel(t, TaskList{Tasks: []Task{}})

	m = send(m, keyRunes("a"), keyRunes("Buy milk"))
	if m.input.Mode != ModeInserting {
		t.Fatalf("Expected insert mode, got %s", m.input.Mode)
	}

	// Nothing is written until the task is committed
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Errorf("Expected no file before commit, got %v", err)
	}

	m = send(m, keyType(tea.KeyEnter))

	if got := loadTexts(t, store); !equalStrings(got, []string{"Buy milk"}) {
		t.Errorf("Expected saved [Buy milk], got %v", got)
	}
	if m.list.Cursor != 0 || m.dirty {
		t.Errorf("Expected clean model on new task, got cursor %d dirty %v", m.list.Cursor, m.dirty)
	}
}

func TestModelScenario(t *testing.T) {
	m, store := newTestModel(t, TaskList{Tasks: []Task{}})

	m = send(m,
		keyRunes("a"), keyRunes("a"), keyType(tea.KeyEnter),
		keyRunes("a"), keyRunes("b"), keyType(tea.KeyEnter),
		keyRunes(" "),
		keyType(tea.KeyUp),
		keyType(tea.KeyTab),
	)

	list, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if list.Len() != 1 || list.Tasks[0].Text != "b" || !list.Tasks[0].Done {
		t.Errorf("Expected [b done] on disk, got %+v", list.Tasks)
	}
	if m.list.Cursor != 0 {
		t.Errorf("Expected cursor 0, got %d", m.list.Cursor)
	}
}

func TestModelNavigationDoesNotSave(t *testing.T) {
	m, store := newTestModel(t, newList("a", "b"))

	m = send(m, keyType(tea.KeyDown), keyType(tea.KeyUp), keyRunes("G"))

	if m.list.Cursor != 1 {
		t.Errorf("Expected cursor 1, got %d", m.list.Cursor)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Errorf("Expected navigation to leave disk untouched, got %v", err)
	}
}

func TestModelEdit(t *testing.T) {
	m, store := newTestModel(t, newList("old"))

	m = send(m, keyRunes("e"))
	if m.input.Mode != ModeEditing {
		t.Fatalf("Expected edit mode, got %s", m.input.Mode)
	}

	m = send(m, keyRunes("er"), keyType(tea.KeyEnter))

	if got := loadTexts(t, store); !equalStrings(got, []string{"older"}) {
		t.Errorf("Expected saved [older], got %v", got)
	}
	if m.editingID != "" {
		t.Errorf("Expected edit target cleared, got %q", m.editingID)
	}
}

func TestModelUndo(t *testing.T) {
	m, store := newTestModel(t, newList("a", "b"))

	m = send(m, keyRunes("d"))
	if got := loadTexts(t, store); !equalStrings(got, []string{"b"}) {
		t.Fatalf("Expected [b] after delete, got %v", got)
	}

	m = send(m, keyRunes("u"))
	if got := loadTexts(t, store); !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("Expected [a b] after undo, got %v", got)
	}

	m = send(m, keyRunes("u"))
	if m.status.text != "nothing to undo" {
		t.Errorf("Expected nothing to undo, got %q", m.status.text)
	}
}

func TestModelReorder(t *testing.T) {
	m, store := newTestModel(t, newList("a", "b", "c"))

	m = send(m, keyRunes("J"), keyRunes("J"))

	if got := loadTexts(t, store); !equalStrings(got, []string{"b", "c", "a"}) {
		t.Errorf("Expected [b c a], got %v", got)
	}
	if m.list.Cursor != 2 {
		t.Errorf("Expected cursor to follow task, got %d", m.list.Cursor)
	}
}

func TestModelQuitFlushes(t *testing.T) {
	m, store := newTestModel(t, newList("a"))
	m.dirty = true

	next, cmd := m.Update(keyRunes("q"))
	m = next.(model)

	if !m.quitting {
		t.Error("Expected model to be quitting")
	}
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if m.err != nil {
		t.Errorf("Expected no error, got %v", m.err)
	}
	if got := loadTexts(t, store); !equalStrings(got, []string{"a"}) {
		t.Errorf("Expected pending changes flushed, got %v", got)
	}
	if m.View() != "" {
		t.Error("Expected empty view after quit")
	}
}

func TestModelCtrlCWhileTyping(t *testing.T) {
	m, _ := newTestModel(t, TaskList{Tasks: []Task{}})

	m = send(m, keyRunes("a"), keyRunes("half"), keyType(tea.KeyCtrlC))

	if !m.quitting {
		t.Error("Expected ctrl+c to quit while typing")
	}
	if m.list.Len() != 0 {
		t.Errorf("Expected uncommitted text dropped, got %d tasks", m.list.Len())
	}
}

func TestModelSaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatalf("Failed to create blocker: %v", err)
	}

	store := newTestStore(t, filepath.Join(blocker, "todos.json"))
	m := newModel(TaskList{Tasks: []Task{}}, store, modelOptions{keys: DefaultKeyMap()})

	m = send(m, keyRunes("a"), keyRunes("x"), keyType(tea.KeyEnter))

	if !m.dirty {
		t.Error("Expected model to stay dirty after a failed save")
	}
	if m.status.kind != statusError {
		t.Errorf("Expected error status, got %+v", m.status)
	}
	if m.list.Len() != 1 {
		t.Errorf("Expected task kept in memory, got %d", m.list.Len())
	}

	m = send(m, keyRunes("q"))
	if !errors.Is(m.err, ErrStoreIO) {
		t.Errorf("Expected final save error, got %v", m.err)
	}
}

func TestModelToggleHelp(t *testing.T) {
	m, _ := newTestModel(t, newList("a"))

	m = send(m, keyRunes("?"))
	if !m.help.ShowAll {
		t.Error("Expected full help")
	}
	m = send(m, keyRunes("?"))
	if m.help.ShowAll {
		t.Error("Expected short help")
	}
}

func TestModelReloadOnExternalChange(t *testing.T) {
	m, store := newTestModel(t, newList("a", "b"))
	m.list.Cursor = 1
	selected := m.list.Tasks[1]

	external := TaskList{Tasks: []Task{NewTask("new"), m.list.Tasks[0], selected}}
	if err := store.Save(external); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	m = send(m, FileChangeMsg{Path: store.Path()})
	if m.reloadGeneration != 1 {
		t.Fatalf("Expected reload scheduled, got generation %d", m.reloadGeneration)
	}

	// A stale timer does nothing
	m = send(m, reloadMsg{generation: 0})
	if m.list.Len() != 2 {
		t.Errorf("Expected stale reload ignored, got %d tasks", m.list.Len())
	}

	m = send(m, reloadMsg{generation: 1})
	if got := texts(m.list); !equalStrings(got, []string{"new", "a", "b"}) {
		t.Errorf("Expected reloaded list, got %v", got)
	}
	if m.list.Cursor != 2 {
		t.Errorf("Expected cursor to stay on the same task, got %d", m.list.Cursor)
	}
}

func TestModelIgnoresOwnWrites(t *testing.T) {
	m, store := newTestModel(t, newList("a"))

	m = send(m, keyRunes(" "))
	m = send(m, FileChangeMsg{Path: store.Path()})

	if m.reloadGeneration != 0 {
		t.Errorf("Expected own save to be ignored, got generation %d", m.reloadGeneration)
	}
}

func TestModelReloadKeepsUnsavedChanges(t *testing.T) {
	m, _ := newTestModel(t, newList("mine"))
	m.dirty = true

	m.reload("test")

	if got := texts(m.list); !equalStrings(got, []string{"mine"}) {
		t.Errorf("Expected unsaved list kept, got %v", got)
	}
	if m.status.kind != statusWarning {
		t.Errorf("Expected warning, got %+v", m.status)
	}
}

func TestModelReloadCorruptFile(t *testing.T) {
	withFixedNow(t, time.Date(2025, 6, 7, 8, 9, 10, 0, time.Local))

	m, store := newTestModel(t, newList("mine"))
	if err := os.WriteFile(store.Path(), []byte("{oops"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	m.reload("test")

	if got := loadTexts(t, store); !equalStrings(got, []string{"mine"}) {
		t.Errorf("Expected current list written back, got %v", got)
	}
	if _, err := os.Stat(store.Path() + ".corrupt-20250607-080910"); err != nil {
		t.Errorf("Expected quarantined copy: %v", err)
	}
	if m.status.kind != statusWarning {
		t.Errorf("Expected warning, got %+v", m.status)
	}
}

func TestModelView(t *testing.T) {
	m, _ := newTestModel(t, TaskList{Tasks: []Task{}})
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 12})

	view := m.View()
	if !strings.Contains(view, appName) {
		t.Errorf("Expected header in view, got %q", view)
	}
	if !strings.Contains(view, "No tasks yet") {
		t.Errorf("Expected empty list text, got %q", view)
	}
}

func TestModelViewScrolls(t *testing.T) {
	var names []string
	for i := 0; i < 30; i++ {
		names = append(names, "task")
	}
	m, _ := newTestModel(t, newList(names...))
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 12}, keyRunes("G"))

	view := m.View()
	if !strings.Contains(view, "of 30") {
		t.Errorf("Expected scroll position in view, got %q", view)
	}
	if h := strings.Count(view, "\n") + 1; h > 12 {
		t.Errorf("Expected view to fit 12 rows, got %d", h)
	}
}

func TestModelAddToggleDeleteLeavesEmptyFile(t *testing.T) {
	m, store := newTestModel(t, TaskList{Tasks: []Task{}})

	m = send(m, keyRunes("a"), keyRunes("buy milk"), keyType(tea.KeyEnter), keyRunes("x"), keyType(tea.KeyTab))

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("Failed to read store: %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("Expected empty array on disk, got %q", data)
	}
	if m.list.Len() != 0 || m.list.Cursor != 0 {
		t.Errorf("Expected empty list with cursor 0, got %d/%d", m.list.Len(), m.list.Cursor)
	}
}

func TestModelShowDetail(t *testing.T) {
	var names []string
	for i := 0; i < 30; i++ {
		names = append(names, fmt.Sprintf("task%02d %s END%02d", i, strings.Repeat("word ", 38), i))
	}
	m, _ := newTestModel(t, newList(names...))
	m = send(m, tea.WindowSizeMsg{Width: 60, Height: 15}, keyRunes("G"))

	if strings.Contains(m.View(), "END29") {
		t.Fatal("Expected long row to be cut in the list view")
	}

	m = send(m, keyRunes("v"))
	if !m.showDetail {
		t.Fatal("Expected detail popup to open")
	}

	view := m.View()
	if !strings.Contains(view, "task29") || !strings.Contains(view, "END29") {
		t.Errorf("Expected full selected task in popup, got %q", view)
	}
	if !strings.Contains(view, "Status:  open") || !strings.Contains(view, "Created:") {
		t.Errorf("Expected status and created date, got %q", view)
	}

	// Other keys are swallowed while the popup is open
	m = send(m, keyRunes("k"), keyRunes("d"))
	if m.list.Cursor != 29 || m.list.Len() != 30 {
		t.Errorf("Expected list untouched, got cursor %d len %d", m.list.Cursor, m.list.Len())
	}

	m = send(m, keyType(tea.KeyEsc))
	if m.showDetail {
		t.Error("Expected esc to close the popup")
	}
	if m.quitting {
		t.Error("Expected esc to close the popup without quitting")
	}
}

func TestModelShowDetailDoneTask(t *testing.T) {
	m, _ := newTestModel(t, newList("finished"))
	m = send(m, keyRunes("x"), keyRunes("v"))

	if view := m.View(); !strings.Contains(view, "Status:  done") || !strings.Contains(view, "Done:") {
		t.Errorf("Expected done details, got %q", view)
	}

	m = send(m, keyRunes("v"))
	if m.showDetail {
		t.Error("Expected detail key to close the popup")
	}
}

func TestModelShowDetailEmptyList(t *testing.T) {
	m, _ := newTestModel(t, TaskList{Tasks: []Task{}})

	m = send(m, keyRunes("v"))
	if m.showDetail {
		t.Error("Expected no popup on an empty list")
	}
}

func TestModelShowDetailCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t, newList("a"))

	m = send(m, keyRunes("v"), keyType(tea.KeyCtrlC))
	if !m.quitting {
		t.Error("Expected ctrl+c to quit from the popup")
	}
}
