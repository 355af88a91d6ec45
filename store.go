package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed todos.schema.json
var storeSchema string

const storeSchemaURL = "todos.schema.json"

// legacyIDSpace seeds ids for rows that were saved without one
var legacyIDSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/rv178/tuido"))

var (
	ErrEmptyStore   = errors.New("store file is empty")
	ErrCorruptStore = errors.New("store file is corrupt")
	ErrStoreIO      = errors.New("store i/o failed")
)

// StoreError describes a failed load, save or quarantine of the task file
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func corruptError(path string, err error) error {
	return &StoreError{Op: "load", Path: path, Err: fmt.Errorf("%w: %w", ErrCorruptStore, err)}
}

func ioError(op, path string, err error) error {
	return &StoreError{Op: op, Path: path, Err: fmt.Errorf("%w: %w", ErrStoreIO, err)}
}

// Store persists a TaskList as a JSON array at a fixed path
type Store struct {
	path   string
	schema *jsonschema.Schema
}

// NewStore prepares a store for path with the embedded schema compiled
func NewStore(path string) (*Store, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if err := compiler.AddResource(storeSchemaURL, strings.NewReader(storeSchema)); err != nil {
		return nil, fmt.Errorf("add store schema: %w", err)
	}

	schema, err := compiler.Compile(storeSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile store schema: %w", err)
	}

	return &Store{path: path, schema: schema}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the task file. A missing file is an empty list. Blank or
// malformed content returns an empty list with an ErrCorruptStore error.
func (s *Store) Load() (TaskList, error) {
	data, err := os.ReadFile(s.path)

	if err != nil {
		if os.IsNotExist(err) {
			return TaskList{Tasks: []Task{}}, nil
		}

		return TaskList{Tasks: []Task{}}, ioError("load", s.path, err)
	}

	tasks, err := s.decode(data)
	if err != nil {
		return TaskList{Tasks: []Task{}}, corruptError(s.path, err)
	}

	return TaskList{Tasks: tasks}, nil
}

func (s *Store) decode(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyStore
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if err := s.schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(items))

	for i, item := range items {
		var task Task

		// Bare strings are the format older releases wrote
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			task = Task{Text: text}
		} else if err := json.Unmarshal(item, &task); err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}

		task.Text = normalizeText(task.Text)

		// Stable across reloads so the cursor can follow the row
		if task.ID == "" {
			task.ID = uuid.NewSHA1(legacyIDSpace, []byte(fmt.Sprintf("%d\x00%s", i, task.Text))).String()
		}

		tasks = append(tasks, task)
	}

	return tasks, nil
}

// schemaError flattens a jsonschema validation error into its leaf causes
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	var msgs []string
	collectSchemaCauses(ve, &msgs)

	if len(msgs) == 0 {
		return err
	}

	return errors.New(strings.Join(msgs, "; "))
}

func collectSchemaCauses(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		location := ve.InstanceLocation
		if location == "" {
			location = "/"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", location, ve.Message))
		return
	}

	for _, cause := range ve.Causes {
		collectSchemaCauses(cause, msgs)
	}
}

func encodeTasks(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

// Save writes the list to a temp file next to the target and renames it
// into place, creating parent directories as needed.
func (s *Store) Save(list TaskList) error {
	data, err := encodeTasks(list.Tasks)
	if err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return ioError("save", s.path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return ioError("save", s.path, err)
	}

	tempPath := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tempPath)
		return ioError("save", s.path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}

	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}

	if err := tmp.Chmod(0644); err != nil {
		return cleanup(err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return ioError("save", s.path, err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return ioError("save", s.path, err)
	}

	return nil
}

// Quarantine moves the current file aside so a corrupt store is not
// overwritten by the next save. It returns the new location.
func (s *Store) Quarantine() (string, error) {
	dest := fmt.Sprintf("%s.corrupt-%s", s.path, now().Format("20060102-150405"))

	if err := os.Rename(s.path, dest); err != nil {
		return "", ioError("quarantine", s.path, err)
	}

	return dest, nil
}
