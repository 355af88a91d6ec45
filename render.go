package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	defaultTheme = "dracula"

	// renderedLines is dropped wholesale once it holds this many lines
	maxRenderedLines = 512
)

var glamourRenderer *glamour.TermRenderer

// renderedLines memoizes glamour output; it is reset with the renderer
var renderedLines = make(map[renderKey]string)

type renderKey struct {
	done bool
	text string
}

func init() {
	initRenderer(defaultTheme)
}

func initRenderer(theme string) {
	if theme == "" {
		theme = defaultTheme
	}
	glamourRenderer, _ = glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(0),
	)
	clear(renderedLines)
}

// renderTask renders a full task line with checkbox using Glamour
func renderTask(done bool, description string) string {
	k := renderKey{done: done, text: description}
	if line, ok := renderedLines[k]; ok {
		return line
	}

	checkbox := "- [ ]"
	if done {
		checkbox = "- [x]"
	}

	taskLine := fmt.Sprintf("%s %s", checkbox, description)

	if glamourRenderer == nil {
		return taskLine
	}

	rendered, err := glamourRenderer.Render(taskLine)
	if err != nil {
		return taskLine
	}

	// Keep as single line
	rendered = strings.TrimSpace(rendered)
	if strings.Contains(rendered, "\n") {
		rendered = strings.Join(strings.Fields(rendered), " ")
	}

	if len(renderedLines) >= maxRenderedLines {
		clear(renderedLines)
	}
	renderedLines[k] = rendered
	return rendered
}
