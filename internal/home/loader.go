package home

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

// Format identifies the encoding of a snapshot document.
type Format string

// Supported snapshot encodings. JSON input may contain comments and
// trailing commas.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document is the wire shape of a snapshot. Services may be listed flat or
// nested under their accessory; nested services inherit the accessory's
// room and name when they do not carry their own.
type document struct {
	Rooms       []Room      `json:"rooms"`
	Services    []Service   `json:"services"`
	Accessories []accessory `json:"accessories"`
	Scenes      []Scene     `json:"scenes"`
}

type accessory struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	RoomID   *string   `json:"room_id"`
	Services []Service `json:"services"`
}

// LoadFile reads a snapshot document from disk. The format is chosen by
// extension: .json and .jsonc are JSON, .yaml and .yml are YAML.
func LoadFile(path string) (*Snapshot, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}

	snap, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return snap, nil
}

// Decode parses and validates a snapshot document.
//
// The document is normalised to plain JSON, checked against the embedded
// schema, then decoded. Service types must be one of AllServiceTypes; type
// names are case-sensitive. Any failure wraps ErrInvalidSnapshot.
func Decode(data []byte, format Format) (*Snapshot, error) {
	raw, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	services := make([]Service, 0, len(doc.Services))
	services = append(services, doc.Services...)
	for _, acc := range doc.Accessories {
		for _, svc := range acc.Services {
			if svc.RoomID == nil {
				svc.RoomID = acc.RoomID
			}
			if svc.AccessoryName == "" {
				svc.AccessoryName = acc.Name
			}
			services = append(services, svc)
		}
	}

	for _, svc := range services {
		if !svc.Type.Valid() {
			return nil, fmt.Errorf("%w: service %q has unknown type %q", ErrInvalidSnapshot, svc.ID, svc.Type)
		}
	}

	return NewSnapshot(doc.Rooms, services, doc.Scenes), nil
}

func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return jsonc.ToJSON(data), nil
	case FormatYAML:
		var obj interface{}
		if err := yaml.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("%w: parsing YAML: %v", ErrInvalidSnapshot, err)
		}
		if obj == nil {
			obj = map[string]interface{}{}
		}
		raw, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("%w: converting YAML: %v", ErrInvalidSnapshot, err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func validate(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(problems, "; "))
}
