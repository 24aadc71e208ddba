// Package codec reads, writes, and validates project documents.
//
// Documents are the planner.Document tree. On disk they are JSON (the
// default), JSONC (JSON with comments and trailing commas, for hand-written
// plans), YAML, or CBOR. The format is picked from the file extension.
package codec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/capplan-go/internal/planner"
)

// Format names an on-disk encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatYAML  Format = "yaml"
	FormatCBOR  Format = "cbor"
)

// cborEnc uses Core Deterministic Encoding so that equal documents always
// produce identical bytes.
var cborEnc cbor.EncMode

var cborDec cbor.DecMode

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		// metadata values decode as map[string]any, like encoding/json
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONC, FormatYAML, FormatCBOR:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q, must be one of: json, jsonc, yaml, cbor", s)
	}
}

// FormatFromPath picks the format from the file extension, defaulting to
// JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonc":
		return FormatJSONC
	case ".yaml", ".yml":
		return FormatYAML
	case ".cbor":
		return FormatCBOR
	default:
		return FormatJSON
	}
}

// Marshal encodes doc. JSON and JSONC output is indented with two spaces and
// ends with a newline.
func Marshal(doc *planner.Document, f Format) ([]byte, error) {
	switch f {
	case FormatJSON, FormatJSONC, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return data, nil
	case FormatCBOR:
		data, err := cborEnc.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal cbor: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("marshal: unknown format %q", f)
	}
}

// Unmarshal decodes a document.
func Unmarshal(data []byte, f Format) (*planner.Document, error) {
	var doc planner.Document
	switch f {
	case FormatJSON, "":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case FormatJSONC:
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("parse jsonc: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatCBOR:
		if err := cborDec.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse cbor: %w", err)
		}
	default:
		return nil, fmt.Errorf("parse: unknown format %q", f)
	}
	return &doc, nil
}

// LoadFile reads and parses a document from path.
func LoadFile(path string) (*planner.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := Unmarshal(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// SaveFile writes doc to path in the format matching its extension.
// JSONC files are written as plain JSON, which is valid JSONC.
func SaveFile(path string, doc *planner.Document) error {
	data, err := Marshal(doc, FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// LoadProject reads path and rebuilds the project it holds.
func LoadProject(path string) (*planner.Project, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := planner.DeserializeProject(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// SaveProject serializes p and writes it to path.
func SaveProject(path string, p *planner.Project) error {
	return SaveFile(path, planner.Serialize(p))
}
