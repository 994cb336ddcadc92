package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/marmos91/someip/cmd/someipctl/cmdutil"
	"github.com/marmos91/someip/pkg/schema"
	"github.com/spf13/cobra"
)

var schemaFile string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect schema files",
}

var schemaDescribeCmd = &cobra.Command{
	Use:   "describe",
	Short: "List the types defined by a schema file, or describe one",
	Long: `Describe loads a schema YAML file and prints every type it
defines. Pass --type to print one type's fields instead of the summary
table.

Example:
  someipctl schema describe --schema service.yaml
  someipctl schema describe --schema service.yaml --type Event`,
	RunE: runSchemaDescribe,
}

func init() {
	schemaDescribeCmd.Flags().StringVar(&schemaFile, "schema", "", "path to the schema YAML file (required)")
	schemaDescribeCmd.Flags().StringVar(&schemaTypeFlag, "type", "", "name of one type to describe in detail")
	_ = schemaDescribeCmd.MarkFlagRequired("schema")
	schemaCmd.AddCommand(schemaDescribeCmd)
}

var schemaTypeFlag string

func runSchemaDescribe(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("reading schema file %s: %w", schemaFile, err)
	}
	types, err := schema.LoadYAML(data)
	if err != nil {
		return fmt.Errorf("parsing schema file %s: %w", schemaFile, err)
	}

	p := cmdutil.Printer(cmd.OutOrStdout())

	if schemaTypeFlag != "" {
		t, ok := types[schemaTypeFlag]
		if !ok {
			return fmt.Errorf("schema file %s defines no type named %q", schemaFile, schemaTypeFlag)
		}
		return p.Print(describeType(schemaTypeFlag, t))
	}
	return p.Print(summarizeTypes(types))
}

type typeSummaryRow struct {
	Name      string
	Kind      string
	ConstSize bool
}

type typeSummaryTable []typeSummaryRow

func (t typeSummaryTable) Headers() []string { return []string{"NAME", "KIND", "CONST-SIZE"} }

func (t typeSummaryTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, r := range t {
		rows[i] = []string{r.Name, r.Kind, fmt.Sprintf("%t", r.ConstSize)}
	}
	return rows
}

func summarizeTypes(types map[string]*schema.Type) typeSummaryTable {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make(typeSummaryTable, 0, len(names))
	for _, name := range names {
		t := types[name]
		rows = append(rows, typeSummaryRow{Name: name, Kind: t.Describe(), ConstSize: t.IsConstSize()})
	}
	return rows
}

type fieldRow struct {
	Name     string
	ID       string
	Type     string
	WireType string
	Optional bool
}

type fieldTable []fieldRow

func (t fieldTable) Headers() []string { return []string{"FIELD", "ID", "TYPE", "WIRE-TYPE", "OPTIONAL"} }

func (t fieldTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, r := range t {
		rows[i] = []string{r.Name, r.ID, r.Type, r.WireType, fmt.Sprintf("%t", r.Optional)}
	}
	return rows
}

func describeType(name string, t *schema.Type) fieldTable {
	if t.Kind != schema.KindStruct {
		return fieldTable{{Name: name, ID: "-", Type: t.Describe(), WireType: t.WireType().String(), Optional: false}}
	}

	rows := make(fieldTable, 0, len(t.Struct.Fields))
	for _, f := range t.Struct.Fields {
		id := "-"
		if f.ID != nil {
			id = fmt.Sprintf("%d", *f.ID)
		}
		rows = append(rows, fieldRow{
			Name:     f.Name,
			ID:       id,
			Type:     f.FieldType.Describe(),
			WireType: f.FieldType.WireType().String(),
			Optional: f.Optional,
		})
	}
	return rows
}
