package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/savioxavier/termlink"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func versionString() string {
	sha := strings.TrimSpace(buildSHA)
	if sha == "" {
		sha = "unknown"
	}
	return fmt.Sprintf("%s v%s (%s)", appName, strings.TrimSpace(version), sha)
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	filePath := fs.String("file", "", "Path to the task file (default <config-dir>/todos.json)")
	configFile := fs.String("config", "", "Path to config.toml (default <config-dir>/tuido/config.toml)")
	listOnly := fs.Bool("list", false, "List tasks without TUI (non-interactive)")
	addText := fs.String("add", "", "Append a task and exit")
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *showVersion {
		fmt.Fprintln(stdout, versionString())
		return 0
	}

	cfg, cfgPath, err := readConfig(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config %s: %v\n", cfgPath, err)
		return 1
	}

	keys := DefaultKeyMap()
	if err := keys.Apply(cfg.Keys); err != nil {
		fmt.Fprintf(stderr, "Error loading config %s: %v\n", cfgPath, err)
		return 1
	}

	initRenderer(cfg.Theme)

	logger, closer, err := openLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: logging disabled: %v\n", err)
	}
	defer closer.Close()

	path, err := resolveStorePath(*filePath, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error resolving task file: %v\n", err)
		return 1
	}

	store, err := NewStore(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger.Info("starting", "version", version, "file", path, "config", cfgPath)

	// -list only reads, so it leaves a corrupt file where it is
	list, warning, err := loadList(store, logger, !*listOnly)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading tasks: %v\n", err)
		return 1
	}

	if *addText != "" {
		text := normalizeText(*addText)
		if text == "" {
			fmt.Fprintln(stderr, "Error: task text is empty")
			return 1
		}

		list.Add(NewTask(text))
		if err := store.Save(list); err != nil {
			logger.Error("save failed", "path", path, "err", err)
			fmt.Fprintf(stderr, "Error saving tasks: %v\n", err)
			return 1
		}

		fmt.Fprintf(stdout, "Added: %s\n", text)
		return 0
	}

	if *listOnly {
		if warning != "" {
			fmt.Fprintf(stderr, "Warning: %s\n", warning)
		}
		if err := printList(stdout, store.Path(), list, cfg.showDates()); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	var watcher *Watcher
	if cfg.Watch {
		watcher, err = NewWatcher(path)
		if err != nil {
			logger.Warn("watch disabled", "err", err)
		} else {
			defer watcher.Close()
		}
	}

	m := newModel(list, store, modelOptions{
		keys:      keys,
		logger:    logger,
		watcher:   watcher,
		showDates: cfg.showDates(),
		warning:   warning,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, runErr := p.Run()
	if runErr != nil {
		logger.Error("tui stopped", "err", runErr)
		fmt.Fprintf(stderr, "Error running TUI: %v\n", runErr)
	}

	if fm, ok := final.(model); ok {
		saveErr := fm.err
		if saveErr == nil {
			saveErr = fm.flush()
		}
		if saveErr != nil {
			fmt.Fprintf(stderr, "Error saving tasks to %s: %v\n", linkPath(path), saveErr)
			return 1
		}
		logger.Info("exiting", "tasks", fm.list.Len())
	}

	if runErr != nil {
		return 1
	}

	return 0
}

func readConfig(flagPath string) (Config, string, error) {
	if strings.TrimSpace(flagPath) == "" {
		return loadConfig()
	}

	path, err := expandPath(flagPath)
	if err != nil {
		return Config{}, flagPath, err
	}

	if _, err := os.Stat(path); err != nil {
		return Config{}, path, err
	}

	cfg, err := loadConfigFrom(path)
	return cfg, path, err
}

// loadList loads the store, falling back to an empty list when the file is
// corrupt. The returned warning is shown to the user.
func loadList(store *Store, logger *log.Logger, quarantine bool) (TaskList, string, error) {
	list, err := store.Load()
	if err == nil {
		logger.Info("loaded tasks", "path", store.Path(), "tasks", list.Len())
		return list, "", nil
	}

	if !errors.Is(err, ErrCorruptStore) {
		logger.Error("load failed", "path", store.Path(), "err", err)
		return list, "", err
	}

	logger.Warn("corrupt task file", "path", store.Path(), "err", err)

	if !quarantine {
		return TaskList{Tasks: []Task{}}, fmt.Sprintf("%s is not valid JSON task data", store.Path()), nil
	}

	dest, qerr := store.Quarantine()
	if qerr != nil {
		logger.Error("quarantine failed", "err", qerr)
		return TaskList{Tasks: []Task{}}, fmt.Sprintf("%s is not valid JSON task data; starting with an empty list", store.Path()), nil
	}

	logger.Warn("moved corrupt task file", "from", store.Path(), "to", dest)
	return TaskList{Tasks: []Task{}}, fmt.Sprintf("task file was not valid and was moved to %s; starting with an empty list", dest), nil
}

// printList writes the tasks as plain rows
func printList(w io.Writer, path string, list TaskList, showDates bool) error {
	if _, err := fmt.Fprintf(w, "%s (%d/%d done)\n\n", linkPath(path), list.DoneCount(), list.Len()); err != nil {
		return err
	}

	screen := newWriterScreen(w)
	paintTasks(screen, list, paintOptions{plain: true, showDates: showDates})
	return screen.Flush()
}

// linkPath renders path as a terminal hyperlink when supported
func linkPath(path string) string {
	if !termlink.SupportsHyperlinks() {
		return path
	}
	return termlink.Link(path, "file://"+path)
}
