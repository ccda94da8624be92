// Package fleet loads the device inventory file and turns it into
// model.Device records the collectors run over.
package fleet

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/platform"
	"github.com/netherd-io/netherd/pkg/util"
)

// entry is one record of the devices file. Enabled is a pointer so an
// absent key defaults to true rather than false.
type entry struct {
	Host       string `yaml:"host"`
	Platform   string `yaml:"platform"`
	DeviceType string `yaml:"device_type"`
	Site       string `yaml:"site"`
	Role       string `yaml:"role"`
	Name       string `yaml:"name"`
	Enabled    *bool  `yaml:"enabled"`
}

// file is the devices.yaml shape: either a bare list or a document
// with a top-level "devices" key.
type file struct {
	Devices []entry `yaml:"devices"`
}

// Filter narrows a loaded fleet. Zero value selects everything.
type Filter struct {
	Site  string
	Role  string
	Limit int // 0 = no limit
}

// Load reads and validates a devices file.
func Load(path string) ([]model.Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading devices file: %w", err)
	}
	devices, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("devices file %s: %w", path, err)
	}
	return devices, nil
}

// Parse decodes devices from YAML and validates every record. Any
// invalid record fails the whole load: a run over a half-read fleet
// would silently miss devices.
func Parse(data []byte) ([]model.Device, error) {
	var entries []entry

	var doc file
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Devices) > 0 {
		entries = doc.Devices
	} else if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
	}

	var v util.ValidationBuilder
	devices := make([]model.Device, 0, len(entries))
	for i, e := range entries {
		v.Add(e.Host != "", fmt.Sprintf("device %d: host is required", i+1))
		v.Add(e.Platform != "", fmt.Sprintf("device %d (%s): platform is required", i+1, e.Host))
		if e.Platform != "" {
			if _, err := platform.Resolve(e.Platform); err != nil {
				v.AddErrorf("device %d (%s): %v", i+1, e.Host, err)
			}
		}

		enabled := true
		if e.Enabled != nil {
			enabled = *e.Enabled
		}
		devices = append(devices, model.Device{
			Host:       strings.TrimSpace(e.Host),
			Platform:   e.Platform,
			DeviceType: e.DeviceType,
			Site:       e.Site,
			Role:       e.Role,
			Name:       e.Name,
			Enabled:    enabled,
		})
	}
	if err := v.Build(); err != nil {
		return nil, err
	}
	return devices, nil
}

// Apply narrows devices to those matching the filter, preserving file
// order. Site and role matching is case-insensitive.
func Apply(devices []model.Device, f Filter) []model.Device {
	out := make([]model.Device, 0, len(devices))
	for _, d := range devices {
		if f.Site != "" && !strings.EqualFold(d.Site, f.Site) {
			continue
		}
		if f.Role != "" && !strings.EqualFold(d.Role, f.Role) {
			continue
		}
		out = append(out, d)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}
