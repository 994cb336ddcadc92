package commands

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/marmos91/someip/internal/logger"
	"github.com/marmos91/someip/internal/telemetry"
	"github.com/marmos91/someip/pkg/dynamic"
	"github.com/marmos91/someip/pkg/metrics"
	"github.com/spf13/cobra"
)

var (
	encodeSchemaFile string
	encodeTypeName   string
	encodeDataFile   string
	encodeOutFile    string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a JSON value into SOME/IP wire bytes",
	Long: `Encode reads a JSON document describing a value, serializes it
against a named type from a schema file, and writes the resulting bytes
as hex (or to a binary file with --out).

Example:
  someipctl encode --schema service.yaml --type Event --data event.json`,
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVar(&encodeSchemaFile, "schema", "", "path to the schema YAML file (required)")
	encodeCmd.Flags().StringVar(&encodeTypeName, "type", "", "name of the type to encode as (required)")
	encodeCmd.Flags().StringVar(&encodeDataFile, "data", "", "path to a JSON file with the value to encode (default: stdin)")
	encodeCmd.Flags().StringVar(&encodeOutFile, "out", "", "write the encoded bytes to this file instead of printing hex")
	_ = encodeCmd.MarkFlagRequired("schema")
	_ = encodeCmd.MarkFlagRequired("type")
}

func runEncode(cmd *cobra.Command, args []string) error {
	root, err := loadSchemaType(encodeSchemaFile, encodeTypeName)
	if err != nil {
		return err
	}
	opts, err := loadCodecOptions()
	if err != nil {
		return err
	}

	in, err := openInput(encodeDataFile)
	if err != nil {
		return err
	}
	defer in.Close()

	dec := json.NewDecoder(in)
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return fmt.Errorf("parsing input JSON: %w", err)
	}

	ctx, span := telemetry.StartCodecSpan(context.Background(), telemetry.SpanCodecEncode, "encode", encodeTypeName)
	defer span.End()

	start := time.Now()
	raw, err := dynamic.Encode(opts, root, value)
	duration := time.Since(start)

	metrics.RecordEncode(metrics.NewCodecMetrics(), encodeTypeName, len(raw), duration, err)
	if err != nil {
		telemetry.RecordError(ctx, err)
		logger.ErrorCtx(ctx, "encode failed", logger.Schema(encodeTypeName), logger.Err(err))
		return fmt.Errorf("encoding %s: %w", encodeTypeName, err)
	}
	logger.InfoCtx(ctx, "encoded value", logger.Schema(encodeTypeName), logger.BytesOut(len(raw)))

	if encodeOutFile != "" {
		if err := os.WriteFile(encodeOutFile, raw, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", encodeOutFile, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(raw), encodeOutFile)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(raw))
	return nil
}

func openInput(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}
