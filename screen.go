package main

import (
	"fmt"
	"io"
	"strings"
)

// Screen is the drawing surface task rows are painted onto
type Screen interface {
	Clear()
	DrawLine(row int, text string)
	Flush() error
}

// frame buffers rows in memory; the TUI turns it into the view string
type frame struct {
	rows []string
}

func (f *frame) Clear() {
	f.rows = f.rows[:0]
}

func (f *frame) DrawLine(row int, text string) {
	if row < 0 {
		return
	}
	for len(f.rows) <= row {
		f.rows = append(f.rows, "")
	}
	f.rows[row] = text
}

func (f *frame) Flush() error {
	return nil
}

func (f *frame) Lines() []string {
	return f.rows
}

func (f *frame) String() string {
	return strings.Join(f.rows, "\n")
}

// writerScreen writes rows as plain lines on Flush
type writerScreen struct {
	frame
	w io.Writer
}

func newWriterScreen(w io.Writer) *writerScreen {
	return &writerScreen{w: w}
}

func (s *writerScreen) Flush() error {
	for _, row := range s.rows {
		if _, err := fmt.Fprintln(s.w, row); err != nil {
			return err
		}
	}
	s.Clear()
	return nil
}

// paintOptions controls how task rows look
type paintOptions struct {
	plain     bool // plain checkbox glyphs, no styles
	showDates bool
	cursor    bool // draw the cursor marker
}

const (
	cursorCharacter = ">"
	dateLayout      = "Jan 02 03:04 PM"
	emptyListText   = "No tasks yet. Press a to add one."
)

// paintTasks draws one row per task starting at row 0
func paintTasks(s Screen, list TaskList, opts paintOptions) {
	s.Clear()

	if list.Len() == 0 {
		text := emptyListText
		if !opts.plain {
			text = fileStyle.Render(text)
		}
		s.DrawLine(0, text)
		return
	}

	for i, task := range list.Tasks {
		s.DrawLine(i, taskRow(task, opts.cursor && i == list.Cursor, opts))
	}
}

func taskRow(task Task, selected bool, opts paintOptions) string {
	marker := " "
	if selected {
		marker = cursorCharacter
	}

	date := ""
	if opts.showDates && task.CreatedAt != nil {
		date = fmt.Sprintf(" (%s)", task.CreatedAt.Local().Format(dateLayout))
	}

	if opts.plain {
		return fmt.Sprintf("%s %s %s%s", marker, plainCheckbox(task.Done), normalizeText(task.Text), date)
	}

	line := renderTask(task.Done, normalizeText(task.Text))

	switch {
	case selected:
		line = selectedStyle.Render(line)
	case task.Done:
		line = doneStyle.Render(line)
	}

	if selected {
		marker = cursorStyle.Render(marker)
	}

	return marker + " " + line + fileStyle.Render(date)
}

func plainCheckbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
