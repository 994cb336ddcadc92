package commands

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	encodeSchemaFile = writeFixtureSchema(t)
	encodeTypeName = "Point"
	encodeOutFile = ""
	withOutputFormat(t, "json")

	dir := t.TempDir()
	dataFile := filepath.Join(dir, "point.json")
	if err := os.WriteFile(dataFile, []byte(`{"x": 3, "y": -7}`), 0o644); err != nil {
		t.Fatalf("writing fixture data: %v", err)
	}
	encodeDataFile = dataFile

	var encodeOut bytes.Buffer
	cmd := encodeCmd
	cmd.SetOut(&encodeOut)
	if err := runEncode(cmd, nil); err != nil {
		t.Fatalf("runEncode: %v", err)
	}

	hexBytes := bytes.TrimSpace(encodeOut.Bytes())
	raw, err := hex.DecodeString(string(hexBytes))
	if err != nil {
		t.Fatalf("decoding hex output %q: %v", hexBytes, err)
	}
	if len(raw) != 8 {
		t.Fatalf("expected 8 bytes for two i32 fields, got %d: %x", len(raw), raw)
	}

	decodeSchemaFile = encodeSchemaFile
	decodeTypeName = "Point"
	decodeInFile = ""
	decodeHex = string(hexBytes)

	var decodeOut bytes.Buffer
	decodeCmdCopy := decodeCmd
	decodeCmdCopy.SetOut(&decodeOut)
	if err := runDecode(decodeCmdCopy, nil); err != nil {
		t.Fatalf("runDecode: %v", err)
	}

	if !bytes.Contains(decodeOut.Bytes(), []byte(`"x": 3`)) || !bytes.Contains(decodeOut.Bytes(), []byte(`"y": -7`)) {
		t.Fatalf("unexpected decoded output: %s", decodeOut.String())
	}
}

func TestRunEncode_MissingRequiredField(t *testing.T) {
	encodeSchemaFile = writeFixtureSchema(t)
	encodeTypeName = "Point"
	encodeOutFile = ""
	withOutputFormat(t, "json")

	dir := t.TempDir()
	dataFile := filepath.Join(dir, "point.json")
	if err := os.WriteFile(dataFile, []byte(`{"x": 3}`), 0o644); err != nil {
		t.Fatalf("writing fixture data: %v", err)
	}
	encodeDataFile = dataFile

	var buf bytes.Buffer
	cmd := encodeCmd
	cmd.SetOut(&buf)
	if err := runEncode(cmd, nil); err == nil {
		t.Fatal("expected an error for a payload missing the y field")
	}
}

func TestRunDecode_InvalidHex(t *testing.T) {
	decodeSchemaFile = writeFixtureSchema(t)
	decodeTypeName = "Point"
	decodeInFile = ""
	decodeHex = "not-hex"

	var buf bytes.Buffer
	cmd := decodeCmd
	cmd.SetOut(&buf)
	if err := runDecode(cmd, nil); err == nil {
		t.Fatal("expected an error for invalid hex input")
	}
}
