package parse

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/netherd-io/netherd/pkg/platform"
	"github.com/netherd-io/netherd/pkg/util"
)

// Custom templates are keyed tag_show_command and consulted before the
// shared library, so a platform can override one command's parsing
// without leaving its template family. QTech ships as built-in customs:
// its RGOS-derived CLI is close enough to IOS for most commands but
// prints interface names with an interior space and uses its own
// tabular switchport and aggregate-port layouts.

var builtinCustom = map[string]*Template{}

func registerCustom(t *Template) {
	if _, dup := builtinCustom[t.key]; dup {
		panic("parse: duplicate custom template " + t.key)
	}
	builtinCustom[t.key] = t
}

func init() {
	registerCustom(docTemplate("qtech_show_version",
		`^System description\s*:\s*(?P<model>.+?)\s*$`,
		`^System software version\s*:\s*(?P<version>.+?)\s*$`,
		`^System serial number\s*:\s*(?P<serial>\S+)`,
		`^System uptime\s*:\s*(?P<uptime>\S+)`,
		`^Hostname\s*:\s*(?P<hostname>\S+)`,
	))

	registerCustom(blockTemplate("qtech_show_interface", blockSpec{
		start: `^(?P<name>[A-Za-z]+ ?\d\S*) is (?P<status>\S+)\s*,\s*line protocol is (?P<protocol>\S+)`,
		fields: []string{
			`^\s+Hardware is (?P<hardware_type>[^,]+?)(?:, address is (?P<mac>[0-9a-fA-F.]+))?\s*(?:\(|$)`,
			`^\s+Description\s*:\s*(?P<description>.+?)\s*$`,
			`^\s+Interface address is\s*:?\s*(?P<ip>[\d./]+)`,
			`^\s+MTU (?P<mtu>\d+) bytes\s*,\s*BW (?P<bandwidth>\d+) Kbit`,
			`^\s+Medi(?:a|um)[- ]type is (?P<media_type>.+?)\.?\s*$`,
		},
	}))

	registerCustom(lineTemplate("qtech_show_interface_switchport",
		`^(?P<interface>[A-Za-z]+ ?\d\S*)\s+(?P<switchport>enabled|disabled)\s+(?P<MODE>\S+)\s+(?P<access_vlan>\d+)\s+(?P<native_vlan>\d+)\s+(?P<protected>\S+)\s+(?P<VLAN_LISTS>\S+)\s*$`,
		`^Interface\s+Switchport`, `^-{5,}`))

	registerCustom(lineTemplate("qtech_show_aggregateport_summary",
		`^(?P<bundle>Ag\d+)\s+\d+\s+\S+\s+(?P<mode>\S+)\s+(?:(?P<balance>[a-z][a-z-]+)\s+)?(?P<members>[A-Z][A-Za-z]*\d\S*(?:,\S+)*)\s*$`,
		`^AggregatePort\s+MaxPorts`, `^-{5,}`))

	registerCustom(lineTemplate("qtech_show_mac_address_table",
		`^\s*(?P<vlan>\d+)\s+(?P<mac>[0-9a-fA-F]{4}\.[0-9a-fA-F]{4}\.[0-9a-fA-F]{4})\s+(?P<type>\S+)\s+(?P<interface>[A-Za-z]+ ?\d\S*)\s*$`,
		`^Vlan\s+MAC Address`, `^-{4,}`))

	registerCustom(lineTemplate("qtech_show_lldp_neighbors",
		`^(?P<local_interface>[A-Za-z]\S*\d)\s+(?P<remote_interface>\S+)\s+(?P<remote_name>\S+)\s+(?P<holdtime>\d+)\s+(?P<capabilities>\S+)\s*$`,
		`^Capability codes:`, `^\s+\([A-Z]\)`, `^Local Intf`, `^-{5,}`))
}

// TemplateError reports a custom template file that cannot be used.
// Loading happens before any device is contacted, so a bad template
// fails the run as a configuration error rather than poisoning
// per-device parsing later.
type TemplateError struct {
	File string
	Name string
	Err  error
}

func (e *TemplateError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("template %s (%s): %v", e.Name, e.File, e.Err)
	}
	return fmt.Sprintf("template file %s: %v", e.File, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

func (e *TemplateError) Category() util.Category { return util.CategoryConfig }

// templateFile is the on-disk YAML shape for custom template overrides.
type templateFile struct {
	Templates []templateSpec `yaml:"templates"`
}

type templateSpec struct {
	Platform string   `yaml:"platform"`
	Command  string   `yaml:"command"`
	Mode     string   `yaml:"mode"`
	Pattern  string   `yaml:"pattern"`
	Start    string   `yaml:"start"`
	Fields   []string `yaml:"fields"`
	Appends  []string `yaml:"appends"`
	Child    string   `yaml:"child"`
	Skip     []string `yaml:"skip"`
}

// LoadTemplateDir reads every *.yml / *.yaml file under dir and compiles
// the template overrides it declares, keyed tag_show_command.
func LoadTemplateDir(dir string) (map[string]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &TemplateError{File: dir, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(ent.Name()))
		if ext == ".yml" || ext == ".yaml" {
			names = append(names, ent.Name())
		}
	}
	sort.Strings(names)

	out := map[string]*Template{}
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &TemplateError{File: path, Err: err}
		}
		var file templateFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, &TemplateError{File: path, Err: err}
		}
		for _, spec := range file.Templates {
			t, err := compileSpec(spec)
			if err != nil {
				return nil, &TemplateError{File: path, Name: spec.Command, Err: err}
			}
			out[t.key] = t
		}
	}
	return out, nil
}

func compileSpec(spec templateSpec) (*Template, error) {
	if spec.Platform == "" || spec.Command == "" {
		return nil, fmt.Errorf("platform and command are required")
	}
	plat, err := platform.Resolve(spec.Platform)
	if err != nil {
		return nil, err
	}
	t := &Template{
		key:  plat.Tag + "_" + platform.CommandSlug(spec.Command),
		mode: Mode(spec.Mode),
	}

	var compileErr error
	compile := func(pattern string) *regexp.Regexp {
		if compileErr != nil {
			return nil
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			compileErr = err
		}
		return re
	}
	compileList := func(patterns []string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			if re := compile(p); re != nil {
				out = append(out, re)
			}
		}
		return out
	}

	switch t.mode {
	case ModeLine:
		if spec.Pattern == "" {
			return nil, fmt.Errorf("line mode requires pattern")
		}
		t.line = compile(spec.Pattern)
	case ModeBlock:
		if spec.Start == "" || len(spec.Fields) == 0 && spec.Child == "" {
			return nil, fmt.Errorf("block mode requires start and fields or child")
		}
		t.start = compile(spec.Start)
		t.fields = compileList(spec.Fields)
		t.appends = compileList(spec.Appends)
		if spec.Child != "" {
			t.child = compile(spec.Child)
		}
	case ModeDoc:
		if len(spec.Fields) == 0 {
			return nil, fmt.Errorf("doc mode requires fields")
		}
		t.fields = compileList(spec.Fields)
	default:
		return nil, fmt.Errorf("unknown mode %q", spec.Mode)
	}
	if compileErr != nil {
		return nil, compileErr
	}
	if !hasNamedGroup(t) {
		return nil, fmt.Errorf("no named capture groups")
	}
	t.skip = compileList(spec.Skip)
	if compileErr != nil {
		return nil, compileErr
	}
	return t, nil
}

func hasNamedGroup(t *Template) bool {
	res := []*regexp.Regexp{t.line, t.start, t.child}
	res = append(res, t.fields...)
	for _, re := range res {
		if re == nil {
			continue
		}
		for _, name := range re.SubexpNames() {
			if name != "" {
				return true
			}
		}
	}
	return false
}
