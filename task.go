package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// now is swapped out in tests
var now = time.Now

// Task represents a single to-do entry
type Task struct {
	ID        string     `json:"id,omitempty"`
	Text      string     `json:"text"`
	Done      bool       `json:"done"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
}

// normalizeText folds control characters and runs of whitespace into single
// spaces so a task always paints as one row
func normalizeText(text string) string {
	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

// NewTask creates an undone task stamped with the current time
func NewTask(text string) Task {
	created := now().UTC().Truncate(time.Second)
	return Task{
		ID:        uuid.NewString(),
		Text:      normalizeText(text),
		CreatedAt: &created,
	}
}

// Toggle switches the task between done and not done
func (t *Task) Toggle() {
	t.Done = !t.Done
	if t.Done {
		doneAt := now().UTC().Truncate(time.Second)
		t.DoneAt = &doneAt
	} else {
		t.DoneAt = nil
	}
}

// editorFinishedMsg is sent when the external editor closes
type editorFinishedMsg struct {
	err error
}

// openInEditor opens the store file in an external editor
func openInEditor(path string) tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	c := exec.Command(editor, path)

	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			err = fmt.Errorf("editor %s: %w", editor, err)
		}
		return editorFinishedMsg{err: err}
	})
}
