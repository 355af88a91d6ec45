package main

// TaskList is the ordered set of tasks plus the selected row.
// Cursor is always within [0, len(Tasks)) or 0 when the list is empty.
type TaskList struct {
	Tasks  []Task
	Cursor int
}

func (l *TaskList) Len() int {
	return len(l.Tasks)
}

// Selected returns the task under the cursor
func (l *TaskList) Selected() (*Task, bool) {
	if len(l.Tasks) == 0 {
		return nil, false
	}
	return &l.Tasks[l.Cursor], true
}

func (l *TaskList) clampCursor() {
	l.Cursor = max(0, min(l.Cursor, len(l.Tasks)-1))
}

func (l *TaskList) MoveUp() {
	if l.Cursor > 0 {
		l.Cursor--
	}
	l.clampCursor()
}

func (l *TaskList) MoveDown() {
	if l.Cursor < len(l.Tasks)-1 {
		l.Cursor++
	}
	l.clampCursor()
}

func (l *TaskList) MoveTop() {
	l.Cursor = 0
}

func (l *TaskList) MoveBottom() {
	l.Cursor = len(l.Tasks) - 1
	l.clampCursor()
}

// Toggle flips the done state of the selected task
func (l *TaskList) Toggle() bool {
	task, ok := l.Selected()
	if !ok {
		return false
	}
	task.Toggle()
	return true
}

// Add appends a task and selects it
func (l *TaskList) Add(task Task) {
	l.Tasks = append(l.Tasks, task)
	l.Cursor = len(l.Tasks) - 1
}

// Insert places a task at index i (clamped) and selects it
func (l *TaskList) Insert(i int, task Task) {
	i = max(0, min(i, len(l.Tasks)))
	l.Tasks = append(l.Tasks, Task{})
	copy(l.Tasks[i+1:], l.Tasks[i:])
	l.Tasks[i] = task
	l.Cursor = i
}

// Delete removes the selected task and returns it with its former index
func (l *TaskList) Delete() (Task, int, bool) {
	if len(l.Tasks) == 0 {
		return Task{}, 0, false
	}
	i := l.Cursor
	removed := l.Tasks[i]
	l.Tasks = append(l.Tasks[:i], l.Tasks[i+1:]...)
	l.clampCursor()
	return removed, i, true
}

// Edit replaces the text of the selected task and returns the previous text
func (l *TaskList) Edit(text string) (string, bool) {
	text = normalizeText(text)
	task, ok := l.Selected()
	if !ok || task.Text == text {
		return "", false
	}
	prev := task.Text
	task.Text = text
	return prev, true
}

// MoveTaskUp swaps the selected task with the one above it
func (l *TaskList) MoveTaskUp() bool {
	if len(l.Tasks) < 2 || l.Cursor == 0 {
		return false
	}
	l.swap(l.Cursor, l.Cursor-1)
	l.Cursor--
	return true
}

// MoveTaskDown swaps the selected task with the one below it
func (l *TaskList) MoveTaskDown() bool {
	if len(l.Tasks) < 2 || l.Cursor >= len(l.Tasks)-1 {
		return false
	}
	l.swap(l.Cursor, l.Cursor+1)
	l.Cursor++
	return true
}

func (l *TaskList) swap(i, j int) {
	l.Tasks[i], l.Tasks[j] = l.Tasks[j], l.Tasks[i]
}

// Find returns the index of the task with the given id, or -1
func (l *TaskList) Find(id string) int {
	if id == "" {
		return -1
	}
	for i, task := range l.Tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

// DoneCount returns how many tasks are completed
func (l *TaskList) DoneCount() int {
	n := 0
	for _, task := range l.Tasks {
		if task.Done {
			n++
		}
	}
	return n
}

// Clone returns a copy that shares no task storage with l
func (l TaskList) Clone() TaskList {
	tasks := make([]Task, len(l.Tasks))
	copy(tasks, l.Tasks)
	return TaskList{Tasks: tasks, Cursor: l.Cursor}
}
