// Package output renders scan results as tables, JSON, SARIF, CycloneDX or HTML.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces/gateways"
)

// Format selects a renderer
type Format string

// Supported formats
const (
	FormatTable     Format = "table"
	FormatJSON      Format = "json"
	FormatSARIF     Format = "sarif"
	FormatCycloneDX Format = "cyclonedx"
	FormatHTML      Format = "html"
)

// ParseFormat converts a --format value, accepting cdx and sbom as CycloneDX aliases
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	case "cyclonedx", "cdx", "sbom":
		return FormatCycloneDX, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("Unknown format: %s. Use 'table', 'json', 'sarif', 'cyclonedx', or 'html'", s) //nolint:staticcheck // user-facing message
	}
}

// Writer renders scan results
type Writer struct {
	sbom        gateways.SBOMGateway
	toolVersion string
	color       bool
}

// NewWriter creates a writer. sbom builds the CycloneDX document.
func NewWriter(sbom gateways.SBOMGateway, toolVersion string) *Writer {
	return &Writer{sbom: sbom, toolVersion: toolVersion}
}

// WithColor enables ANSI colour in the table format
func (w *Writer) WithColor(color bool) *Writer {
	w.color = color
	return w
}

// Write renders result to out in the given format
func (w *Writer) Write(ctx context.Context, out io.Writer, result *entities.ScanResult, format Format) error {
	switch format {
	case FormatTable:
		return w.writeTable(out, result)
	case FormatJSON:
		return writeJSON(out, result)
	case FormatSARIF:
		return writeJSON(out, w.buildSARIF(result))
	case FormatCycloneDX:
		bom, err := w.buildCycloneDX(ctx, result)
		if err != nil {
			return err
		}
		return writeJSON(out, bom)
	case FormatHTML:
		return writeHTML(out, result)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteFile renders result for a report file. Tables are not a file
// format, so they are written as JSON.
func (w *Writer) WriteFile(ctx context.Context, out io.Writer, result *entities.ScanResult, format Format) error {
	if format == FormatTable {
		format = FormatJSON
	}
	return w.Write(ctx, out, result, format)
}

func writeJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
