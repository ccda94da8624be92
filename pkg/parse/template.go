// Package parse turns raw CLI output into string-keyed rows using a
// library of per-platform templates. Resolution order for a (platform,
// command) pair: custom override templates first, then the shared
// family library, then a regex fallback for the devices and interfaces
// commands. The first stage that yields rows wins; a stage that yields
// none hands the output to the next. An empty chain result is not an
// error; collectors treat missing rows as a degraded result.
package parse

import (
	"regexp"
	"strings"
)

// Row is one parsed record. Keys are the named capture groups of the
// template that produced it. Rows do not escape the normalizer layer.
type Row map[string]string

// Mode selects how a template walks the raw text.
type Mode string

const (
	// ModeLine applies one row pattern per line.
	ModeLine Mode = "line"

	// ModeBlock opens a record at each record-start match, fills it
	// from field patterns on the following lines, and flushes it at
	// the next record start or EOF.
	ModeBlock Mode = "block"

	// ModeDoc treats the whole output as one record: field patterns
	// are matched anywhere, first match wins. Used for single-record
	// commands like "show version".
	ModeDoc Mode = "doc"
)

// Template extracts rows from raw CLI output.
//
// In block mode, fields use first-match-wins semantics: a field
// already captured for the current record is not overwritten. Append
// patterns concatenate their capture onto the existing value instead,
// which reassembles values that the device wrapped across lines
// (NX-OS trunk VLAN lists wrap mid-token; plain concatenation repairs
// them). When a child pattern is set, each child match emits one row
// merging the record's fields with the child's captures, and the
// record itself emits nothing — used for outputs that nest members
// under a parent, like LACP bundles.
type Template struct {
	key  string
	mode Mode

	line *regexp.Regexp // line mode row pattern

	start   *regexp.Regexp // block mode record opener
	fields  []*regexp.Regexp
	appends []*regexp.Regexp
	child   *regexp.Regexp

	skip []*regexp.Regexp
}

// Key returns the lookup key this template is registered under.
func (t *Template) Key() string {
	return t.key
}

// Run extracts all rows from raw.
func (t *Template) Run(raw string) []Row {
	switch t.mode {
	case ModeLine:
		return t.runLine(raw)
	case ModeBlock:
		return t.runBlock(raw)
	case ModeDoc:
		return t.runDoc(raw)
	}
	return nil
}

func (t *Template) runLine(raw string) []Row {
	var rows []Row
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if t.skipped(line) {
			continue
		}
		m := t.line.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		row := captures(t.line, m, nil)
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

func (t *Template) runBlock(raw string) []Row {
	var rows []Row
	var current Row

	flush := func() {
		// With a child pattern, rows are emitted per child match and
		// the enclosing record is only context.
		if current != nil && t.child == nil {
			rows = append(rows, current)
		}
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if t.skipped(line) {
			continue
		}

		if m := t.start.FindStringSubmatch(line); m != nil {
			flush()
			current = captures(t.start, m, nil)
			continue
		}
		if current == nil {
			continue
		}

		if t.child != nil {
			if m := t.child.FindStringSubmatch(line); m != nil {
				row := make(Row, len(current)+2)
				for k, v := range current {
					row[k] = v
				}
				captures(t.child, m, row)
				rows = append(rows, row)
				continue
			}
		}

		matched := false
		for _, f := range t.fields {
			m := f.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			for i, name := range f.SubexpNames() {
				if name == "" || m[i] == "" {
					continue
				}
				if _, ok := current[name]; !ok {
					current[name] = m[i]
				}
			}
			matched = true
			break
		}
		if matched {
			continue
		}

		for _, a := range t.appends {
			m := a.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			for i, name := range a.SubexpNames() {
				if name == "" || m[i] == "" {
					continue
				}
				current[name] += m[i]
			}
			break
		}
	}
	flush()
	return rows
}

func (t *Template) runDoc(raw string) []Row {
	row := Row{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if t.skipped(line) {
			continue
		}
		for _, f := range t.fields {
			m := f.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			for i, name := range f.SubexpNames() {
				if name == "" || m[i] == "" {
					continue
				}
				if _, ok := row[name]; !ok {
					row[name] = m[i]
				}
			}
		}
	}
	if len(row) == 0 {
		return nil
	}
	return []Row{row}
}

func (t *Template) skipped(line string) bool {
	for _, s := range t.skip {
		if s.MatchString(line) {
			return true
		}
	}
	return false
}

// captures builds (or extends) a row from a regexp match, keeping only
// named, non-empty groups.
func captures(re *regexp.Regexp, m []string, row Row) Row {
	if row == nil {
		row = make(Row, len(m))
	}
	for i, name := range re.SubexpNames() {
		if name == "" || m[i] == "" {
			continue
		}
		row[name] = m[i]
	}
	return row
}

// lineTemplate builds a line-mode template. Panics on a bad pattern;
// built-in templates are compiled at init and a bad one is a
// programmer error.
func lineTemplate(key, pattern string, skip ...string) *Template {
	return &Template{
		key:  key,
		mode: ModeLine,
		line: regexp.MustCompile(pattern),
		skip: compileAll(skip),
	}
}

// docTemplate builds a doc-mode template from field patterns.
func docTemplate(key string, fields ...string) *Template {
	return &Template{
		key:    key,
		mode:   ModeDoc,
		fields: compileAll(fields),
	}
}

// blockSpec declares a block-mode template before compilation.
type blockSpec struct {
	start   string
	fields  []string
	appends []string
	child   string
	skip    []string
}

func blockTemplate(key string, spec blockSpec) *Template {
	t := &Template{
		key:     key,
		mode:    ModeBlock,
		start:   regexp.MustCompile(spec.start),
		fields:  compileAll(spec.fields),
		appends: compileAll(spec.appends),
		skip:    compileAll(spec.skip),
	}
	if spec.child != "" {
		t.child = regexp.MustCompile(spec.child)
	}
	return t
}

func compileAll(patterns []string) []*regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}
