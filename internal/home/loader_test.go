package home

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const yamlDoc = `
rooms:
  - id: r1
    name: Bedroom
  - id: r2
    name: Office
accessories:
  - id: a1
    name: Ceiling Fixture
    room_id: r2
    services:
      - id: 11111111-aaaa
        name: Spotlights
        type: lightbulb
services:
  - id: 22222222-bbbb
    name: Bedroom Light
    type: lightbulb
    room_id: r1
scenes:
  - id: 33333333-cccc
    name: Goodnight
`

func TestDecode_YAMLWithAccessories(t *testing.T) {
	snap, err := Decode([]byte(yamlDoc), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	rooms, services, scenes := snap.Counts()
	if rooms != 2 || services != 2 || scenes != 1 {
		t.Fatalf("Counts() = %d,%d,%d, want 2,2,1", rooms, services, scenes)
	}

	spot, ok := snap.Service("11111111-AAAA")
	if !ok {
		t.Fatal("nested service not flattened")
	}
	if spot.RoomID == nil || *spot.RoomID != "r2" {
		t.Errorf("nested service RoomID = %v, want inherited r2", spot.RoomID)
	}
	if spot.AccessoryName != "Ceiling Fixture" {
		t.Errorf("AccessoryName = %q, want Ceiling Fixture", spot.AccessoryName)
	}
}

func TestDecode_JSONWithComments(t *testing.T) {
	doc := `{
		// exported from the platform
		"rooms": [{"id": "r1", "name": "Kitchen"}],
		"services": [
			{"id": "s1", "name": "Kitchen Light", "type": "lightbulb", "room_id": "r1"},
		],
	}`

	snap, err := Decode([]byte(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if _, ok := snap.Service("s1"); !ok {
		t.Error("service s1 missing")
	}
}

func TestDecode_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"service without type", `{"services": [{"id": "s1", "name": "Lamp"}]}`},
		{"empty id", `{"rooms": [{"id": "", "name": "Kitchen"}]}`},
		{"unknown top-level key", `{"devices": []}`},
		{"wrong type", `{"scenes": {"id": "x"}}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), FormatJSON)
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("Decode() error = %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}

func TestDecode_UnknownServiceType(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
		want   string
	}{
		{"wrong case", `{"services": [{"id": "s1", "name": "Lamp", "type": "Lightbulb"}]}`, FormatJSON, `"Lightbulb"`},
		{"not a service type", `{"services": [{"id": "s1", "name": "Toast", "type": "toaster"}]}`, FormatJSON, `"toaster"`},
		{"nested under accessory", `
accessories:
  - name: Kitchen Bench
    services:
      - id: s2
        name: Toast
        type: toaster
`, FormatYAML, `"s2"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Decode([]byte(tt.doc), tt.format)
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Fatalf("Decode() error = %v, want ErrInvalidSnapshot", err)
			}
			if snap != nil {
				t.Error("Decode() returned a snapshot alongside the error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Decode() error = %q, want it to mention %s", err, tt.want)
			}
		})
	}
}

func TestDecode_EveryKnownServiceType(t *testing.T) {
	for _, st := range AllServiceTypes() {
		doc := `{"services": [{"id": "s1", "name": "Thing", "type": "` + string(st) + `"}]}`
		if _, err := Decode([]byte(doc), FormatJSON); err != nil {
			t.Errorf("Decode(type %q) error = %v", st, err)
		}
	}
}

func TestDecode_EmptyYAML(t *testing.T) {
	snap, err := Decode([]byte(""), FormatYAML)
	if err != nil {
		t.Fatalf("Decode(empty) error = %v", err)
	}
	if _, s, _ := snap.Counts(); s != 0 {
		t.Errorf("services = %d, want 0", s)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "home.yml")
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadFile(yamlPath); err != nil {
		t.Errorf("LoadFile(yaml) error = %v", err)
	}

	txtPath := filepath.Join(dir, "home.txt")
	if err := os.WriteFile(txtPath, []byte("x"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadFile(txtPath); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadFile(txt) error = %v, want ErrUnsupportedFormat", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadFile(missing) expected error")
	}
}
