package metadata

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"reelforge/internal/services"
)

const (
	// NotesFile is the optional structured notes document in a session.
	NotesFile = "notes.json"
	// NotesTextFile is the optional free-text notes document in a session.
	NotesTextFile = "notes.txt"
)

//go:embed notes.schema.json
var notesSchemaJSON []byte

var (
	notesSchemaOnce sync.Once
	notesSchema     *jsonschema.Schema
	notesSchemaErr  error
)

func compiledNotesSchema() (*jsonschema.Schema, error) {
	notesSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		notesSchema, notesSchemaErr = compiler.Compile(notesSchemaJSON)
	})
	return notesSchema, notesSchemaErr
}

// ParseNotes validates and decodes a notes.json payload.
func ParseNotes(data []byte) (map[string]any, error) {
	var notes map[string]any
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, services.Wrap(services.ErrNotesParse, "metadata", "decode notes", "", err)
	}
	if notes == nil {
		return nil, services.Wrap(services.ErrNotesParse, "metadata", "decode notes", "notes must be a JSON object", nil)
	}
	schema, err := compiledNotesSchema()
	if err != nil {
		return nil, fmt.Errorf("compile notes schema: %w", err)
	}
	result := schema.ValidateJSON(data)
	if !result.IsValid() {
		return nil, services.Wrap(services.ErrNotesParse, "metadata", "validate notes",
			fmt.Sprintf("schema validation failed: %v", result.Errors), nil)
	}
	return notes, nil
}

// LoadNotes reads notes.json from a session directory. A missing file yields
// an empty object and found=false.
func LoadNotes(sessionDir string) (map[string]any, bool, error) {
	path := filepath.Join(sessionDir, NotesFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, false, nil
	}
	if err != nil {
		return nil, false, services.Wrap(services.ErrNotesParse, "metadata", "read notes", path, err)
	}
	notes, err := ParseNotes(data)
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", path, err)
	}
	return notes, true, nil
}

// LoadNotesText reads notes.txt from a session directory, trimmed. Missing or
// unreadable files yield "".
func LoadNotesText(sessionDir string) string {
	data, err := os.ReadFile(filepath.Join(sessionDir, NotesTextFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func notesHighlight(notes map[string]any) string {
	if value, ok := notes["highlight"].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func notesTags(notes map[string]any) []string {
	raw, ok := notes["tags"].([]any)
	if !ok {
		return []string{}
	}
	tags := make([]string, 0, len(raw))
	for _, item := range raw {
		if tag, ok := item.(string); ok && strings.TrimSpace(tag) != "" {
			tags = append(tags, strings.TrimSpace(tag))
		}
	}
	return tags
}
