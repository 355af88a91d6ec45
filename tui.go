package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	defaultWindowHeight = 24
	defaultWindowWidth  = 80
	minVisibleHeight    = 3
	maxInputWidth       = 70
	minInputWidth       = 30
	maxDetailWidth      = 72
	minDetailWidth      = 24
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarning
	statusError
)

// status is the one-line message shown above the help bar
type status struct {
	text string
	kind statusKind
}

// model is the BubbleTea model. It is the only owner of the task list.
type model struct {
	list     TaskList
	store    *Store
	logger   *log.Logger
	input    Input
	keys     KeyMap
	help     help.Model
	history  undoStack
	viewport viewport.Model

	// id of the task being edited, so an edit lands on the right task even
	// if the list was reloaded meanwhile
	editingID string

	// File watching
	watcher          *Watcher
	reloadGeneration int
	lastSave         time.Time

	showDates  bool
	showDetail bool
	status     status
	dirty      bool  // the list differs from what is on disk
	err        error // final save failed; reported on exit
	quitting   bool

	windowHeight int
	windowWidth  int
}

type modelOptions struct {
	keys      KeyMap
	logger    *log.Logger
	watcher   *Watcher
	showDates bool
	warning   string
}

func newModel(list TaskList, store *Store, opts modelOptions) model {
	logger := opts.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	list.clampCursor()

	m := model{
		list:         list,
		store:        store,
		logger:       logger,
		input:        NewInput(opts.keys),
		keys:         opts.keys,
		help:         help.New(),
		viewport:     viewport.New(defaultWindowWidth, defaultWindowHeight),
		watcher:      opts.watcher,
		showDates:    opts.showDates,
		windowHeight: defaultWindowHeight,
		windowWidth:  defaultWindowWidth,
	}

	if opts.warning != "" {
		m.setWarning(opts.warning)
	}

	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.WindowSize()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.WatchCmd())
	}
	return tea.Batch(cmds...)
}

func (m *model) setInfo(text string) {
	m.status = status{text: text, kind: statusInfo}
}

func (m *model) setWarning(text string) {
	m.status = status{text: text, kind: statusWarning}
}

func (m *model) setError(err error) {
	m.status = status{text: err.Error(), kind: statusError}
}

// persist saves the list. On failure the model stays dirty and the next
// mutation or quit retries.
func (m *model) persist() error {
	if err := m.store.Save(m.list); err != nil {
		m.dirty = true
		m.logger.Error("save failed", "path", m.store.Path(), "err", err)
		m.setError(err)
		return err
	}

	m.dirty = false
	m.lastSave = now()
	if m.status.kind == statusError {
		m.status = status{}
	}
	m.logger.Debug("saved", "path", m.store.Path(), "tasks", m.list.Len())
	return nil
}

// flush writes pending changes, if any
func (m *model) flush() error {
	if !m.dirty {
		return nil
	}
	return m.persist()
}

// reload replaces the list with what is on disk, keeping the cursor on
// the same task when it still exists
func (m *model) reload(reason string) {
	if m.dirty {
		m.setWarning("file changed on disk; keeping unsaved changes")
		m.logger.Warn("reload skipped, unsaved changes", "reason", reason)
		return
	}

	list, err := m.store.Load()
	if err != nil {
		if !errors.Is(err, ErrCorruptStore) {
			m.logger.Error("reload failed", "reason", reason, "err", err)
			m.setError(err)
			return
		}

		m.logger.Warn("corrupt store on reload", "reason", reason, "err", err)
		dest, qerr := m.store.Quarantine()
		if qerr != nil {
			m.logger.Error("quarantine failed", "err", qerr)
			m.setError(qerr)
			return
		}

		m.dirty = true
		if m.persist() == nil {
			m.setWarning(fmt.Sprintf("file was not valid; moved to %s and kept the current list", dest))
		}
		return
	}

	list.Cursor = m.list.Cursor
	if task, ok := m.list.Selected(); ok {
		if i := list.Find(task.ID); i >= 0 {
			list.Cursor = i
		}
	}
	list.clampCursor()

	m.list = list
	if list.Len() == 0 {
		m.showDetail = false
	}
	m.history.clear()
	m.logger.Info("reloaded", "reason", reason, "tasks", list.Len())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowHeight = msg.Height
		m.windowWidth = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			m.logger.Error("editor failed", "err", msg.err)
			m.setError(msg.err)
		}
		m.reload("editor")
		return m, nil

	case FileChangeMsg:
		var cmds []tea.Cmd
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.WatchCmd())
		}

		// Skip self-triggered changes
		if now().Sub(m.lastSave) < selfWriteWindow {
			return m, tea.Batch(cmds...)
		}

		m.reloadGeneration++
		cmds = append(cmds, scheduleReload(m.reloadGeneration))
		return m, tea.Batch(cmds...)

	case reloadMsg:
		if msg.generation != m.reloadGeneration {
			return m, nil
		}
		m.reload("watch")
		return m, nil

	case tea.KeyMsg:
		if m.showDetail {
			switch {
			case key.Matches(msg, m.keys.Abort):
				cmd := m.apply(Command{Kind: CmdQuit})
				return m, cmd
			case key.Matches(msg, m.keys.Detail, m.keys.Cancel, m.keys.Quit):
				m.showDetail = false
			}
			return m, nil
		}

		if m.status.kind != statusError {
			m.status = status{}
		}

		var command Command
		var cmd tea.Cmd
		m.input, command, cmd = m.input.Map(msg)
		next := m.apply(command)
		return m, tea.Batch(cmd, next)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// apply runs one command against the list, saving after every mutation
func (m *model) apply(c Command) tea.Cmd {
	switch c.Kind {
	case CmdQuit:
		if err := m.flush(); err != nil {
			m.err = err
		}
		m.quitting = true
		return tea.Quit

	case CmdMoveUp:
		m.list.MoveUp()

	case CmdMoveDown:
		m.list.MoveDown()

	case CmdMoveTop:
		m.list.MoveTop()

	case CmdMoveBottom:
		m.list.MoveBottom()

	case CmdToggleDone:
		task, ok := m.list.Selected()
		if !ok {
			return nil
		}
		entry := UndoEntry{Type: OpToggle, TaskID: task.ID, Index: m.list.Cursor, Task: *task}
		m.list.Toggle()
		m.history.push(entry)
		m.persist()

	case CmdAddTask:
		task := NewTask(c.Text)
		m.list.Add(task)
		m.history.push(UndoEntry{Type: OpAdd, TaskID: task.ID, Index: m.list.Cursor})
		m.persist()

	case CmdBeginEdit:
		task, ok := m.list.Selected()
		if !ok {
			return nil
		}
		m.editingID = task.ID
		var cmd tea.Cmd
		m.input, cmd = m.input.StartEditing(task.Text)
		return cmd

	case CmdEditTask:
		if i := m.list.Find(m.editingID); i >= 0 {
			m.list.Cursor = i
		}
		m.editingID = ""

		task, ok := m.list.Selected()
		if !ok {
			return nil
		}
		entry := UndoEntry{Type: OpEdit, TaskID: task.ID, Index: m.list.Cursor, Task: *task}
		if _, changed := m.list.Edit(c.Text); changed {
			m.history.push(entry)
			m.persist()
		}

	case CmdDeleteTask:
		removed, i, ok := m.list.Delete()
		if !ok {
			return nil
		}
		m.history.push(UndoEntry{Type: OpDelete, TaskID: removed.ID, Index: i, Task: removed})
		m.persist()

	case CmdMoveTaskUp, CmdMoveTaskDown:
		task, ok := m.list.Selected()
		if !ok {
			return nil
		}
		entry := UndoEntry{Type: OpMove, TaskID: task.ID, Index: m.list.Cursor}
		var moved bool
		if c.Kind == CmdMoveTaskUp {
			moved = m.list.MoveTaskUp()
		} else {
			moved = m.list.MoveTaskDown()
		}
		if moved {
			m.history.push(entry)
			m.persist()
		}

	case CmdUndo:
		entry := m.history.pop()
		if entry == nil {
			m.setInfo("nothing to undo")
			return nil
		}
		if revert(&m.list, entry) {
			m.persist()
		}

	case CmdYank:
		task, ok := m.list.Selected()
		if !ok {
			return nil
		}
		if err := clipboard.WriteAll(task.Text); err != nil {
			m.logger.Warn("clipboard write failed", "err", err)
			m.setWarning(fmt.Sprintf("copy failed: %v", err))
			return nil
		}
		m.setInfo("copied to clipboard")

	case CmdOpenEditor:
		// Unsaved changes would be lost by the reload that follows
		if err := m.flush(); err != nil {
			return nil
		}
		m.logger.Info("opening editor", "path", m.store.Path())
		return openInEditor(m.store.Path())

	case CmdToggleHelp:
		m.help.ShowAll = !m.help.ShowAll

	case CmdShowDetail:
		if _, ok := m.list.Selected(); ok {
			m.showDetail = true
		}
	}

	return nil
}

func (m model) inputWidth() int {
	return max(minInputWidth, min(maxInputWidth, m.windowWidth-10))
}

func (m model) renderHeader() string {
	title := titleStyle.Render(appName)
	arrow := barColor.Render(" → ")
	name := titleNameStyle.Render(filepath.Base(m.store.Path()))

	left := title + arrow + name
	switch m.input.Mode {
	case ModeInserting:
		left += barColor.Render(" ") + insertModeStyle.Render("add")
	case ModeEditing:
		left += barColor.Render(" ") + editModeStyle.Render("edit")
	}

	right := countStyle.Render(fmt.Sprintf("%d/%d done ", m.list.DoneCount(), m.list.Len()))

	spacing := max(0, m.windowWidth-lipgloss.Width(left)-lipgloss.Width(right))
	return headerBarStyle.Width(m.windowWidth).Render(left + barColor.Render(strings.Repeat(" ", spacing)) + right)
}

func (m model) renderInputLine() string {
	field := m.input.Field
	field.Width = m.inputWidth() - 6

	label := confirmLabel(m.input.Mode)
	return label + " " + inputStyle.Render(field.View())
}

func confirmLabel(mode Mode) string {
	if mode == ModeEditing {
		return editModeStyle.Render("edit")
	}
	return insertModeStyle.Render("+ add")
}

func (m model) renderStatus() string {
	switch m.status.kind {
	case statusError:
		return dangerStyle.Render("Error: " + m.status.text)
	case statusWarning:
		return warningStyle.Render("⚠ " + m.status.text)
	default:
		return infoStyle.Render(m.status.text)
	}
}

func (m model) renderHelp() string {
	var view string
	if m.input.Typing() {
		view = m.help.View(insertHelp{keys: m.keys})
	} else {
		view = m.help.View(m.keys)
	}
	return helpBarStyle.Width(m.windowWidth).Render(view)
}

// renderDetail draws the selected task in full, wrapped inside a centered box
func (m model) renderDetail(task Task) string {
	width := max(minDetailWidth, min(maxDetailWidth, m.windowWidth-4))
	inner := max(1, width-detailBoxStyle.GetHorizontalFrameSize())

	state := "open"
	if task.Done {
		state = "done"
	}

	lines := []string{
		detailTitleStyle.Render("Task"),
		"",
		lipgloss.NewStyle().Width(inner).Render(normalizeText(task.Text)),
		"",
		fileStyle.Render("Status:  " + state),
	}
	if task.CreatedAt != nil {
		lines = append(lines, fileStyle.Render("Created: "+task.CreatedAt.Local().Format(dateLayout)))
	}
	if task.DoneAt != nil {
		lines = append(lines, fileStyle.Render("Done:    "+task.DoneAt.Local().Format(dateLayout)))
	}
	lines = append(lines, "", helpBarStyle.Render(m.keys.Detail.Help().Key+"/esc close"))

	box := detailBoxStyle.Render(strings.Join(lines, "\n"))

	height := m.windowHeight
	if height <= 0 {
		height = defaultWindowHeight
	}
	return lipgloss.Place(max(m.windowWidth, lipgloss.Width(box)), height, lipgloss.Center, lipgloss.Center, box)
}

func (m model) buildViewport(lines []string, cursor int, contentHeight int) string {
	if contentHeight < minVisibleHeight {
		contentHeight = minVisibleHeight
	}

	width := m.windowWidth
	if width <= 0 {
		width = defaultWindowWidth
	}

	vp := m.viewport
	vp.Width = width
	vp.Height = contentHeight

	startLine, _ := visibleRange(cursor, len(lines), contentHeight)

	vp.SetContent(strings.Join(lines, "\n"))
	vp.SetYOffset(startLine)

	view := lipgloss.NewStyle().Width(width).Height(contentHeight).Render(vp.View())
	return normalizeViewHeight(view, contentHeight)
}

// visibleRange returns the [start, end) rows to show so the cursor stays
// on screen
func visibleRange(cursor, total, height int) (int, int) {
	if total <= height || height <= 0 {
		return 0, total
	}

	cursor = max(0, min(cursor, total-1))
	start := max(0, cursor-(height-1))
	end := min(total, start+height)
	return start, end
}

func normalizeViewHeight(view string, height int) string {
	if height <= 0 {
		return ""
	}

	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	if m.showDetail {
		if task, ok := m.list.Selected(); ok {
			return m.renderDetail(*task)
		}
	}

	windowHeight := m.windowHeight
	if windowHeight <= 0 {
		windowHeight = defaultWindowHeight
	}

	var footerLines []string
	if m.input.Typing() {
		footerLines = append(footerLines, m.renderInputLine())
	}
	if m.status.text != "" {
		footerLines = append(footerLines, m.renderStatus())
	}
	footerLines = append(footerLines, m.renderHelp())
	footer := strings.Join(footerLines, "\n")

	header := m.renderHeader()
	contentHeight := max(minVisibleHeight, windowHeight-lipgloss.Height(header)-lipgloss.Height(footer))

	if m.list.Len() > contentHeight {
		contentHeight = max(minVisibleHeight, contentHeight-1)
		start, end := visibleRange(m.list.Cursor, m.list.Len(), contentHeight)
		scrollInfo := fmt.Sprintf("%d-%d of %d", start+1, end, m.list.Len())
		footer = helpBarStyle.Width(m.windowWidth).Render(scrollInfo) + "\n" + footer
	}

	f := &frame{}
	paintTasks(f, m.list, paintOptions{
		showDates: m.showDates,
		cursor:    m.input.Mode != ModeInserting,
	})

	body := m.buildViewport(f.Lines(), m.list.Cursor, contentHeight)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
