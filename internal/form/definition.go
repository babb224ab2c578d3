// internal/form/definition.go
//
// Contact form – YAML definition loader.
//
// Context
//   A form definition names the fields a block collects, which of them are
//   required, their types, and the authored block configuration (endpoint,
//   labels, success copy) that ResolveSpec turns into a FormSpec.  The
//   relay parses every “*.yaml” under its forms directory at start-up and
//   stores the result in an in-memory registry keyed by ID.  The built-in
//   “contact” definition is always present so a bare install still serves
//   the standard block.
//
// Workflow
//   •  LoadFormDef parses a single YAML file and validates structural rules.
//   •  RegisterForms walks a directory, loads each YAML, and registers it.
//      Later files with the same ID override earlier ones.
//   •  GetFormDef offers read-only access to a parsed form by ID.
//
// Style
//   Full sentences, two spaces after periods, Oxford commas.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Field types understood by the validation engine.
const (
	TypeText     = "text"
	TypeEmail    = "email"
	TypeTel      = "tel"
	TypeTextarea = "textarea"
)

// Canonical field names of the standard contact block.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldMessage   = "message"
	FieldSource    = "source"
)

// DefaultFormID identifies the built-in contact definition.
const DefaultFormID = "contact"

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
type FormDef struct {
	ID     string            `yaml:"id"`     // Registry key, e.g. “contact”.
	Title  string            `yaml:"title"`  // Display title, optional.
	Fields []FieldDef        `yaml:"fields"` // Ordered; order drives error reporting.
	Config map[string]string `yaml:"config"` // Authored block config for ResolveSpec.
}

// FieldDef describes a single input.  Validation metadata lives inline so
// the engine enforces the same rules the surface hints at.
type FieldDef struct {
	Name      string `yaml:"name" json:"name"`                     // Payload key.  Required.
	Label     string `yaml:"label" json:"label"`                   // Human-readable label.  Required.
	Type      string `yaml:"type" json:"type"`                     // text, email, tel, or textarea.
	Required  bool   `yaml:"required" json:"required"`             // True if input is mandatory.
	MaxLength int    `yaml:"maxlength" json:"maxLength,omitempty"` // ≥ 0, 0 means unset.
	ErrorMsg  string `yaml:"error" json:"-"`                       // Custom format message, optional.
}

// DefaultContactForm returns the standard contact block definition.
func DefaultContactForm() *FormDef {
	return &FormDef{
		ID:    DefaultFormID,
		Title: "Contact us",
		Fields: []FieldDef{
			{Name: FieldFirstName, Label: "First name", Type: TypeText, Required: true},
			{Name: FieldLastName, Label: "Last name", Type: TypeText, Required: true},
			{Name: FieldEmail, Label: "Email", Type: TypeEmail, Required: true},
			{Name: FieldPhone, Label: "Phone", Type: TypeTel, Required: true},
			{Name: FieldMessage, Label: "Message", Type: TypeTextarea, MaxLength: 5000},
		},
	}
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

var (
	registryMu sync.RWMutex
	registry   = map[string]*FormDef{DefaultFormID: DefaultContactForm()}
)

// GetFormDef returns a parsed FormDef by ID.  The boolean is false when the
// ID is unknown.
func GetFormDef(id string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fd, ok := registry[id]
	return fd, ok
}

// FormIDs lists registered IDs in sorted order.
func FormIDs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Register inserts or overrides fd.  Caller must ensure fd passed
// validation.
func Register(fd *FormDef) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[fd.ID] = fd
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// LoadFormDef parses one YAML file, validates its structure, and returns a
// populated FormDef.  It never mutates the registry.
func LoadFormDef(path string) (*FormDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}

	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", path, err)
	}

	if err := validateFormDef(&fd, path); err != nil {
		return nil, err
	}
	return &fd, nil
}

// RegisterForms loads every “*.yaml” under dir and returns the number of
// forms registered.  A missing dir is not an error.
func RegisterForms(dir string) (int, error) {
	if dir == "" {
		return 0, errors.New("RegisterForms: no directory provided")
	}

	var n int
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}
		fd, err := LoadFormDef(path)
		if err != nil {
			return err // fail fast so issues surface loudly.
		}
		Register(fd)
		n++
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return n, err
	}
	return n, nil
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

func validateFormDef(fd *FormDef, path string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", path)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", path)
	}

	seen := make(map[string]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, path); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", path, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	if _, clash := seen[FieldSource]; clash {
		return fmt.Errorf("form %s: field name '%s' is reserved", path, FieldSource)
	}
	return nil
}

func validateField(f *FieldDef, path string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", path)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", path, f.Name)
	}
	switch f.Type {
	case TypeText, TypeEmail, TypeTel, TypeTextarea:
	case "":
		return fmt.Errorf("form %s: field '%s' missing 'type'", path, f.Name)
	default:
		return fmt.Errorf("form %s: field '%s' unsupported type '%s'", path, f.Name, f.Type)
	}
	if f.MaxLength < 0 {
		return fmt.Errorf("form %s: field '%s' maxlength cannot be negative", path, f.Name)
	}
	return nil
}
