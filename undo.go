package main

import "time"

// OperationType represents the type of operation that can be undone
type OperationType int

const (
	OpToggle OperationType = iota
	OpAdd
	OpDelete
	OpEdit
	OpMove
)

// UndoEntry represents a single undoable operation
type UndoEntry struct {
	Type      OperationType
	Timestamp time.Time
	TaskID    string
	Index     int  // position before the operation
	Task      Task // deleted task, or the task as it was before toggle/edit
}

const maxUndoStackSize = 50

type undoStack struct {
	entries []UndoEntry
}

// push adds an entry, dropping the oldest once the stack is full
func (s *undoStack) push(entry UndoEntry) {
	entry.Timestamp = now()
	s.entries = append(s.entries, entry)
	if len(s.entries) > maxUndoStackSize {
		s.entries = s.entries[len(s.entries)-maxUndoStackSize:]
	}
}

// pop removes and returns the most recent entry
func (s *undoStack) pop() *UndoEntry {
	if len(s.entries) == 0 {
		return nil
	}
	entry := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return &entry
}

func (s *undoStack) len() int {
	return len(s.entries)
}

func (s *undoStack) clear() {
	s.entries = nil
}

// revert applies the inverse of entry to list. The task is located by id
// first so reverts stay correct after the cursor moved.
func revert(list *TaskList, entry *UndoEntry) bool {
	locate := func() int {
		if i := list.Find(entry.TaskID); i >= 0 {
			return i
		}
		if entry.Index >= 0 && entry.Index < list.Len() {
			return entry.Index
		}
		return -1
	}

	switch entry.Type {
	case OpToggle, OpEdit:
		i := locate()
		if i < 0 {
			return false
		}
		list.Tasks[i] = entry.Task
		list.Cursor = i
		return true

	case OpAdd:
		i := locate()
		if i < 0 {
			return false
		}
		list.Cursor = i
		_, _, ok := list.Delete()
		return ok

	case OpDelete:
		list.Insert(entry.Index, entry.Task)
		return true

	case OpMove:
		i := locate()
		if i < 0 {
			return false
		}
		target := max(0, min(entry.Index, list.Len()-1))
		task := list.Tasks[i]
		list.Tasks = append(list.Tasks[:i], list.Tasks[i+1:]...)
		list.Insert(target, task)
		return true
	}

	return false
}
