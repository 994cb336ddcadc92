package cmdutil

import (
	"bytes"
	"testing"

	"github.com/marmos91/someip/internal/cli/output"
)

func TestPrinter_DefaultsToTableOnUnparsableFormat(t *testing.T) {
	Flags.Output = "not-a-format"
	defer func() { Flags.Output = "" }()

	var buf bytes.Buffer
	p := Printer(&buf)
	if p == nil {
		t.Fatal("Printer returned nil")
	}
}

func TestPrinter_HonorsOutputFlag(t *testing.T) {
	Flags.Output = "json"
	defer func() { Flags.Output = "" }()

	var buf bytes.Buffer
	p := Printer(&buf)
	p.Println("hello")
	if buf.Len() == 0 {
		t.Fatal("expected output to be written")
	}
}

func TestPrinter_HonorsNoColor(t *testing.T) {
	Flags.Output = "table"
	Flags.NoColor = true
	defer func() { Flags.Output = ""; Flags.NoColor = false }()

	var buf bytes.Buffer
	p := Printer(&buf)
	format, _ := output.ParseFormat(Flags.Output)
	if format != output.FormatTable {
		t.Fatalf("expected table format, got %v", format)
	}
	p.Success("ok")
	if bytes.Contains(buf.Bytes(), []byte("\x1b[")) {
		t.Fatalf("expected no ANSI color codes with NoColor set, got %q", buf.String())
	}
}
