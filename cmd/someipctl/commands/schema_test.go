package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/marmos91/someip/cmd/someipctl/cmdutil"
)

const fixtureSchema = `
types:
  Point:
    kind: struct
    fields:
      - {name: x, type: I32}
      - {name: y, type: I32}
  I32:
    kind: primitive
    primitive: i32
`

func writeFixtureSchema(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(path, []byte(fixtureSchema), 0o644); err != nil {
		t.Fatalf("writing fixture schema: %v", err)
	}
	return path
}

func withOutputFormat(t *testing.T, format string) {
	t.Helper()
	prev := cmdutil.Flags.Output
	cmdutil.Flags.Output = format
	t.Cleanup(func() { cmdutil.Flags.Output = prev })
}

func TestRunSchemaDescribe_Summary(t *testing.T) {
	schemaFile = writeFixtureSchema(t)
	schemaTypeFlag = ""
	withOutputFormat(t, "json")

	var buf bytes.Buffer
	cmd := schemaDescribeCmd
	cmd.SetOut(&buf)
	if err := runSchemaDescribe(cmd, nil); err != nil {
		t.Fatalf("runSchemaDescribe: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Point")) {
		t.Fatalf("expected summary to mention Point, got %q", buf.String())
	}
}

func TestRunSchemaDescribe_OneType(t *testing.T) {
	schemaFile = writeFixtureSchema(t)
	schemaTypeFlag = "Point"
	withOutputFormat(t, "json")

	var buf bytes.Buffer
	cmd := schemaDescribeCmd
	cmd.SetOut(&buf)
	if err := runSchemaDescribe(cmd, nil); err != nil {
		t.Fatalf("runSchemaDescribe: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"x\"")) || !bytes.Contains(buf.Bytes(), []byte("\"y\"")) {
		t.Fatalf("expected field rows for x and y, got %q", buf.String())
	}
}

func TestRunSchemaDescribe_UnknownType(t *testing.T) {
	schemaFile = writeFixtureSchema(t)
	schemaTypeFlag = "DoesNotExist"
	withOutputFormat(t, "json")

	var buf bytes.Buffer
	cmd := schemaDescribeCmd
	cmd.SetOut(&buf)
	if err := runSchemaDescribe(cmd, nil); err == nil {
		t.Fatal("expected an error for an unknown type name")
	}
}
