package receipt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const validReceipt = `schema = 1

[tool]
name = "black"
requirement = "black==24.2.0"
version = "24.2.0"
python_version = "3.12.1"
installer = "toolenv 0.1.0"
`

func TestDecodeValid(t *testing.T) {
	got, err := Decode([]byte(validReceipt))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := Receipt{
		Name:          "black",
		Requirement:   "black==24.2.0",
		Version:       "24.2.0",
		PythonVersion: "3.12.1",
		Installer:     "toolenv 0.1.0",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("receipt mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDecodeFullReceipt(t *testing.T) {
	in := Receipt{
		Name:          "ruff",
		Requirement:   "ruff==0.3.4",
		Version:       "0.3.4",
		PythonVersion: "3.12.1",
		Installer:     "toolenv 0.1.0",
		InstalledAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Entrypoints: []Entrypoint{
			{Name: "ruff", Path: "/home/u/.local/bin/ruff"},
		},
	}

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(string(data), "schema = 1") {
		t.Fatalf("expected schema first, got:\n%s", data)
	}

	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, data)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "syntax", data: "schema = \n[tool"},
		{name: "missing schema", data: strings.Replace(validReceipt, "schema = 1\n", "", 1)},
		{name: "future schema", data: strings.Replace(validReceipt, "schema = 1", "schema = 2", 1)},
		{name: "missing version", data: strings.Replace(validReceipt, "version = \"24.2.0\"\n", "", 1)},
		{name: "blank installer", data: strings.Replace(validReceipt, "toolenv 0.1.0", " ", 1)},
		{name: "unknown key", data: validReceipt + "extra = true\n"},
		{name: "wrong type", data: strings.Replace(validReceipt, "version = \"24.2.0\"", "version = 24", 1)},
		{name: "incomplete entrypoint", data: validReceipt + "\n[[tool.entrypoints]]\nname = \"black\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data))
			if err == nil {
				t.Fatalf("expected error, got %+v", got)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			if diff := cmp.Diff(Receipt{}, got); diff != "" {
				t.Fatalf("expected zero receipt on failure, got diff:\n%s", diff)
			}
		})
	}
}

func TestEncodeRejectsIncompleteReceipt(t *testing.T) {
	_, err := Encode(Receipt{Name: "black"})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
