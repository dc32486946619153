package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/roomeo/internal/criteria"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func validOutput(format string) error {
	switch format {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", format, outputTable, outputJSON)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func tagLine(tags []criteria.Tag) string {
	if len(tags) == 0 {
		return "Filters: none"
	}
	labels := make([]string, 0, len(tags))
	for _, t := range tags {
		labels = append(labels, t.Label)
	}
	return "Filters: " + strings.Join(labels, ", ")
}

func mark(b bool) string {
	if b {
		return "*"
	}
	return ""
}
