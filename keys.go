package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the navigation-mode bindings
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	Toggle       key.Binding
	Add          key.Binding
	Edit         key.Binding
	Delete       key.Binding
	MoveTaskUp   key.Binding
	MoveTaskDown key.Binding
	Undo         key.Binding
	Yank         key.Binding
	OpenEditor   key.Binding
	Detail       key.Binding
	Help         key.Binding
	Quit         key.Binding

	// Insert and edit mode
	Confirm key.Binding
	Cancel  key.Binding
	Abort   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:          key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:       key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Toggle:       key.NewBinding(key.WithKeys("enter", " ", "x"), key.WithHelp("space/x", "toggle")),
		Add:          key.NewBinding(key.WithKeys("a", "n", "i"), key.WithHelp("a", "add")),
		Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:       key.NewBinding(key.WithKeys("d", "tab", "delete"), key.WithHelp("d/tab", "delete")),
		MoveTaskUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveTaskDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Undo:         key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Yank:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		OpenEditor:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "$EDITOR")),
		Detail:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "details")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "quit")),

		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "ctrl+["), key.WithHelp("esc", "cancel")),
		Abort:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Delete, k.Undo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Toggle, k.Add, k.Edit, k.Delete},
		{k.MoveTaskUp, k.MoveTaskDown, k.Undo, k.Yank},
		{k.OpenEditor, k.Detail, k.Help, k.Quit},
	}
}

// insertHelp is the help.KeyMap shown while typing
type insertHelp struct {
	keys KeyMap
}

func (h insertHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Confirm, h.keys.Cancel}
}

func (h insertHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// bindings maps config action names to their binding
func (k *KeyMap) bindings() map[string]*key.Binding {
	return map[string]*key.Binding{
		"up":             &k.Up,
		"down":           &k.Down,
		"top":            &k.Top,
		"bottom":         &k.Bottom,
		"toggle":         &k.Toggle,
		"add":            &k.Add,
		"edit":           &k.Edit,
		"delete":         &k.Delete,
		"move_task_up":   &k.MoveTaskUp,
		"move_task_down": &k.MoveTaskDown,
		"undo":           &k.Undo,
		"yank":           &k.Yank,
		"open_editor":    &k.OpenEditor,
		"detail":         &k.Detail,
		"help":           &k.Help,
		"quit":           &k.Quit,
		"confirm":        &k.Confirm,
		"cancel":         &k.Cancel,
	}
}

// Apply replaces the keys of the named actions. The help label shows the
// first key of each override.
func (k *KeyMap) Apply(overrides map[string][]string) error {
	bindings := k.bindings()

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		keys := overrides[name]

		b, ok := bindings[name]
		if !ok {
			return &ConfigError{Field: "keys." + name, Err: ErrUnknownAction}
		}

		if len(keys) == 0 {
			return &ConfigError{Field: "keys." + name, Err: fmt.Errorf("%w: no keys", ErrInvalidValue)}
		}

		b.SetKeys(keys...)
		b.SetHelp(keys[0], b.Help().Desc)
	}

	return nil
}
