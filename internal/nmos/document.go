package nmos

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"nmosconn/util"
)

//go:embed templates/*.json
var templates embed.FS

// Document is a staged-parameters JSON object.  It is kept generic so
// keys nmosconn does not manage (activation, master_enable, ...)
// survive a load/patch/save cycle.
type Document map[string]any

// SDP is a session description exactly as served by the sender.
type SDP string

// DefaultTemplate returns the built-in staged document for role.
func DefaultTemplate(role Role) (Document, error) {
	data, err := templates.ReadFile("templates/" + string(role) + ".json")
	if err != nil {
		return nil, fmt.Errorf("no template for role %q: %w", role, err)
	}
	return decodeDocument(data)
}

// LoadDocument reads the staged document at path.  A missing file
// yields the built-in template for role.
func LoadDocument(path string, role Role) (Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultTemplate(role)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// SaveDocument writes doc to path in one piece, indented by four spaces.
func SaveDocument(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return util.WriteFileAtomic(path, append(data, '\n'), 0o644)
}

// SaveSDP writes the transport file verbatim.
func SaveSDP(path string, s SDP) error {
	return util.WriteFileAtomic(path, []byte(s), 0o644)
}

func decodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc == nil {
		return nil, errors.New("decode document: not a JSON object")
	}
	return doc, nil
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	return Document(cloneValue(map[string]any(d)).(map[string]any))
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case Document:
		return cloneValue(map[string]any(t))
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}
