// Package render writes lookup reports as tables, JSON, CSV or plain
// identifier lists.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/yairfalse/etsi/search"
	"github.com/yairfalse/etsi/types"
)

// Format names accepted on the command line.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatSimple = "simple"
)

// Render writes the report to w in the given format.
func Render(w io.Writer, format string, report *search.Report) error {
	switch format {
	case FormatTable:
		return Table(w, report)
	case FormatJSON:
		return JSON(w, report)
	case FormatCSV:
		return CSV(w, report)
	case FormatSimple:
		return Simple(w, report)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// ToFile renders into path instead of a stream.
func ToFile(path, format string, report *search.Report) error {
	var buf bytes.Buffer
	if err := Render(&buf, format, report); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

// collectWarnings flattens provider warnings, prefixing each scope with
// the provider name. Failed credential checks count as warnings too so
// the table never hides why a provider contributed nothing.
func collectWarnings(report *search.Report) []types.Warning {
	var all []types.Warning
	for _, pr := range report.Providers {
		if pr.Status == search.StatusAuthFailed && pr.Err != "" {
			all = append(all, types.Warning{Scope: pr.Provider + " auth", Err: pr.Err})
		}
		for _, w := range pr.Warnings {
			all = append(all, types.Warning{Scope: pr.Provider + " " + w.Scope, Err: w.Err})
		}
	}
	return all
}
