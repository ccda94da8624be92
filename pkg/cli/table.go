package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Table renders column-aligned output for the report commands. Headers
// and a dash divider are written lazily on the first Row, so a command
// that found nothing prints nothing instead of an empty header block.
type Table struct {
	w       *tabwriter.Writer
	headers []string
	written bool
}

// NewTable builds a table printing to stdout with the given column
// headers.
func NewTable(headers ...string) *Table {
	return newTable(os.Stdout, headers...)
}

func newTable(w io.Writer, headers ...string) *Table {
	return &Table{
		w:       tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		headers: headers,
	}
}

// Row writes one record. Rows shorter than the header count are padded
// with empty cells so sparse records, such as a device result with no
// error column, keep the table aligned.
func (t *Table) Row(values ...string) {
	if !t.written {
		t.written = true
		fmt.Fprintln(t.w, strings.Join(t.headers, "\t"))
		dividers := make([]string, len(t.headers))
		for i, h := range t.headers {
			dividers[i] = strings.Repeat("-", len(h))
		}
		fmt.Fprintln(t.w, strings.Join(dividers, "\t"))
	}
	for len(values) < len(t.headers) {
		values = append(values, "")
	}
	fmt.Fprintln(t.w, strings.Join(values, "\t"))
}

// Flush writes the buffered table. A table with no rows stays silent.
func (t *Table) Flush() {
	if !t.written {
		return
	}
	t.w.Flush()
}
