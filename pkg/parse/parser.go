package parse

import (
	"fmt"

	"github.com/netherd-io/netherd/pkg/platform"
	"github.com/netherd-io/netherd/pkg/util"
)

// Parser turns raw command output into rows. For each (platform,
// command) pair the chain is: custom override, then the shared family
// library, then the regex fallback for intents that have one. A stage
// that yields zero rows does not stop resolution; the next stage gets
// a chance at the same output. Zero rows from the whole chain is still
// a valid result; the caller decides whether an empty table is
// suspicious.
type Parser struct {
	custom map[string]*Template
}

// NewParser builds a parser with the built-in custom templates plus any
// overrides found in templatesDir. A malformed override file is a
// configuration error and fails construction; templatesDir may be empty.
func NewParser(templatesDir string) (*Parser, error) {
	p := &Parser{custom: make(map[string]*Template, len(builtinCustom))}
	for k, t := range builtinCustom {
		p.custom[k] = t
	}
	if templatesDir != "" {
		loaded, err := LoadTemplateDir(templatesDir)
		if err != nil {
			return nil, err
		}
		for k, t := range loaded {
			p.custom[k] = t
		}
	}
	return p, nil
}

// MissingTemplateError reports a command with no template coverage on
// its platform and no applicable fallback.
type MissingTemplateError struct {
	Platform string
	Command  string
}

func (e *MissingTemplateError) Error() string {
	return fmt.Sprintf("no template for %q on platform %s", e.Command, e.Platform)
}

func (e *MissingTemplateError) Category() util.Category { return util.CategoryParse }

// Stage is one step of the parse chain. Source is "custom", "library"
// or "fallback"; Key names the template.
type Stage struct {
	Source string
	Key    string
	tmpl   *Template
}

// chain returns the templates Parse will try for a command, in order.
func (p *Parser) chain(plat *platform.Platform, command string) []Stage {
	slug := platform.CommandSlug(command)
	var stages []Stage
	if t, ok := p.custom[plat.Tag+"_"+slug]; ok {
		stages = append(stages, Stage{Source: "custom", Key: t.key, tmpl: t})
	}
	if t, ok := library[plat.TemplateFamily+"_"+slug]; ok {
		stages = append(stages, Stage{Source: "library", Key: t.key, tmpl: t})
	}
	if intent, ok := plat.IntentFor(command); ok {
		if t := fallbackFor(intent); t != nil {
			stages = append(stages, Stage{Source: "fallback", Key: t.key, tmpl: t})
		}
	}
	return stages
}

// Parse extracts rows from raw output of command as produced by a
// device of the given platform. It walks the chain and returns the
// first non-empty result; when every stage comes up empty it returns
// the empty result rather than an error.
func (p *Parser) Parse(raw, platformTag, command string) ([]Row, error) {
	plat, err := platform.Resolve(platformTag)
	if err != nil {
		return nil, err
	}
	stages := p.chain(plat, command)
	if len(stages) == 0 {
		return nil, &MissingTemplateError{Platform: plat.Tag, Command: command}
	}
	var rows []Row
	for i, s := range stages {
		rows = s.tmpl.Run(raw)
		if len(rows) > 0 {
			if s.Source == "fallback" {
				util.WithFields(map[string]interface{}{
					"platform": plat.Tag,
					"command":  command,
				}).Warn("no template matched, using regex fallback")
			}
			return rows, nil
		}
		if i < len(stages)-1 {
			util.WithFields(map[string]interface{}{
				"platform": plat.Tag,
				"command":  command,
				"template": s.Key,
			}).Debug("template yielded no rows, trying next")
		}
	}
	return rows, nil
}

// Resolve reports the chain Parse walks for a command, in preference
// order, for diagnostics. Parse runs later stages only when earlier
// ones yield no rows.
func (p *Parser) Resolve(platformTag, command string) ([]Stage, error) {
	plat, err := platform.Resolve(platformTag)
	if err != nil {
		return nil, err
	}
	stages := p.chain(plat, command)
	if len(stages) == 0 {
		return nil, &MissingTemplateError{Platform: plat.Tag, Command: command}
	}
	return stages, nil
}
