package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode is the input sub-state of the mapper
type Mode int

const (
	ModeNavigation Mode = iota
	ModeInserting
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeInserting:
		return "insert"
	case ModeEditing:
		return "edit"
	default:
		return "navigation"
	}
}

// CommandKind identifies a semantic edit command
type CommandKind int

const (
	CmdNoop CommandKind = iota
	CmdMoveUp
	CmdMoveDown
	CmdMoveTop
	CmdMoveBottom
	CmdToggleDone
	CmdAddTask
	CmdBeginEdit
	CmdEditTask
	CmdDeleteTask
	CmdMoveTaskUp
	CmdMoveTaskDown
	CmdUndo
	CmdYank
	CmdOpenEditor
	CmdToggleHelp
	CmdShowDetail
	CmdQuit
)

var commandNames = map[CommandKind]string{
	CmdNoop:         "noop",
	CmdMoveUp:       "move_up",
	CmdMoveDown:     "move_down",
	CmdMoveTop:      "move_top",
	CmdMoveBottom:   "move_bottom",
	CmdToggleDone:   "toggle_done",
	CmdAddTask:      "add_task",
	CmdBeginEdit:    "begin_edit",
	CmdEditTask:     "edit_task",
	CmdDeleteTask:   "delete_task",
	CmdMoveTaskUp:   "move_task_up",
	CmdMoveTaskDown: "move_task_down",
	CmdUndo:         "undo",
	CmdYank:         "yank",
	CmdOpenEditor:   "open_editor",
	CmdToggleHelp:   "toggle_help",
	CmdShowDetail:   "show_detail",
	CmdQuit:         "quit",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is the result of mapping one key event. Text is set for
// CmdAddTask and CmdEditTask.
type Command struct {
	Kind CommandKind
	Text string
}

const inputCharLimit = 500

// Input is the mapper state: the current mode and the text buffer used
// while inserting or editing.
type Input struct {
	Mode  Mode
	Field textinput.Model
	keys  KeyMap
}

func NewInput(keys KeyMap) Input {
	field := textinput.New()
	field.Prompt = ""
	field.CharLimit = inputCharLimit

	return Input{Mode: ModeNavigation, Field: field, keys: keys}
}

// Map translates one key event into a command and the next mapper state
func (in Input) Map(msg tea.KeyMsg) (Input, Command, tea.Cmd) {
	switch in.Mode {
	case ModeInserting, ModeEditing:
		return in.mapTyping(msg)
	default:
		return in.mapNavigation(msg)
	}
}

func (in Input) mapNavigation(msg tea.KeyMsg) (Input, Command, tea.Cmd) {
	k := in.keys

	switch {
	case key.Matches(msg, k.Quit):
		return in, Command{Kind: CmdQuit}, nil
	case key.Matches(msg, k.Up):
		return in, Command{Kind: CmdMoveUp}, nil
	case key.Matches(msg, k.Down):
		return in, Command{Kind: CmdMoveDown}, nil
	case key.Matches(msg, k.Top):
		return in, Command{Kind: CmdMoveTop}, nil
	case key.Matches(msg, k.Bottom):
		return in, Command{Kind: CmdMoveBottom}, nil
	case key.Matches(msg, k.MoveTaskUp):
		return in, Command{Kind: CmdMoveTaskUp}, nil
	case key.Matches(msg, k.MoveTaskDown):
		return in, Command{Kind: CmdMoveTaskDown}, nil
	case key.Matches(msg, k.Toggle):
		return in, Command{Kind: CmdToggleDone}, nil
	case key.Matches(msg, k.Add):
		in.Mode = ModeInserting
		in.Field.Reset()
		in.Field.Placeholder = "New task..."
		cmd := in.Field.Focus()
		return in, Command{Kind: CmdNoop}, cmd
	case key.Matches(msg, k.Edit):
		return in, Command{Kind: CmdBeginEdit}, nil
	case key.Matches(msg, k.Delete):
		return in, Command{Kind: CmdDeleteTask}, nil
	case key.Matches(msg, k.Undo):
		return in, Command{Kind: CmdUndo}, nil
	case key.Matches(msg, k.Yank):
		return in, Command{Kind: CmdYank}, nil
	case key.Matches(msg, k.OpenEditor):
		return in, Command{Kind: CmdOpenEditor}, nil
	case key.Matches(msg, k.Help):
		return in, Command{Kind: CmdToggleHelp}, nil
	case key.Matches(msg, k.Detail):
		return in, Command{Kind: CmdShowDetail}, nil
	}

	return in, Command{Kind: CmdNoop}, nil
}

func (in Input) mapTyping(msg tea.KeyMsg) (Input, Command, tea.Cmd) {
	k := in.keys

	switch {
	case key.Matches(msg, k.Abort):
		in = in.leave()
		return in, Command{Kind: CmdQuit}, nil

	case key.Matches(msg, k.Cancel):
		in = in.leave()
		return in, Command{Kind: CmdNoop}, nil

	case key.Matches(msg, k.Confirm):
		text := normalizeText(in.Field.Value())
		mode := in.Mode
		in = in.leave()

		if text == "" {
			return in, Command{Kind: CmdNoop}, nil
		}
		if mode == ModeEditing {
			return in, Command{Kind: CmdEditTask, Text: text}, nil
		}
		return in, Command{Kind: CmdAddTask, Text: text}, nil
	}

	var cmd tea.Cmd
	in.Field, cmd = in.Field.Update(msg)
	return in, Command{Kind: CmdNoop}, cmd
}

// StartEditing enters edit mode with the buffer seeded from text
func (in Input) StartEditing(text string) (Input, tea.Cmd) {
	in.Mode = ModeEditing
	in.Field.Reset()
	in.Field.Placeholder = ""
	in.Field.SetValue(text)
	in.Field.CursorEnd()
	return in, in.Field.Focus()
}

// Update forwards non-key messages such as cursor blinks to the buffer
func (in Input) Update(msg tea.Msg) (Input, tea.Cmd) {
	if in.Mode == ModeNavigation {
		return in, nil
	}
	var cmd tea.Cmd
	in.Field, cmd = in.Field.Update(msg)
	return in, cmd
}

// Typing reports whether the buffer is active
func (in Input) Typing() bool {
	return in.Mode != ModeNavigation
}

func (in Input) leave() Input {
	in.Mode = ModeNavigation
	in.Field.Blur()
	in.Field.Reset()
	return in
}
