package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	tbl := newTable(&buf, "DEVICE", "STATUS", "ERROR")
	tbl.Row("edge-sw1", "ok", "")
	tbl.Row("agg-sw9.example.net", "failed", "dial tcp: i/o timeout")
	tbl.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "DEVICE") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "------") {
		t.Errorf("divider line = %q", lines[1])
	}
	// Column two must start at the same offset on every line.
	col := strings.Index(lines[0], "STATUS")
	if col < 0 {
		t.Fatalf("no STATUS column in header %q", lines[0])
	}
	if got := strings.Index(lines[3], "failed"); got != col {
		t.Errorf("failed cell at offset %d, want %d:\n%s", got, col, buf.String())
	}
}

func TestTableEmptyPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	tbl := newTable(&buf, "PHASE", "CREATED")
	tbl.Flush()
	if buf.Len() != 0 {
		t.Errorf("empty table produced output: %q", buf.String())
	}
}

func TestTablePadsShortRows(t *testing.T) {
	var buf bytes.Buffer
	tbl := newTable(&buf, "RUN", "COMMAND", "RESULT")
	tbl.Row("1a2b3c4d", "collect devices")
	tbl.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], "collect devices") {
		t.Errorf("row line = %q", lines[2])
	}
}
