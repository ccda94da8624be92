// Package platform maps fleet platform tags to the SSH driver flavor,
// template family, and CLI commands used to collect from them.
package platform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/netherd-io/netherd/pkg/util"
)

// Intent names one kind of collection a command serves.
type Intent string

const (
	IntentDevices    Intent = "devices"
	IntentInterfaces Intent = "interfaces"
	IntentMAC        Intent = "mac"
	IntentLLDP       Intent = "lldp"
	IntentCDP        Intent = "cdp"
	IntentInventory  Intent = "inventory"
	IntentBackup     Intent = "backup"

	// Secondary intents enrich a primary collection. A platform with no
	// command for a secondary intent simply skips that enrichment.
	IntentLAG         Intent = "lag"
	IntentSwitchport  Intent = "switchport"
	IntentMedia       Intent = "media_type"
	IntentTransceiver Intent = "transceiver"
)

// Primary reports whether an intent is a device-facing collection of its
// own rather than an enrichment pass.
func (i Intent) Primary() bool {
	switch i {
	case IntentLAG, IntentSwitchport, IntentMedia, IntentTransceiver:
		return false
	}
	return true
}

// Driver selects the SSH session dialect: prompt shapes, pager-off
// commands, and error markers.
type Driver string

const (
	DriverIOSLike   Driver = "ios-like"
	DriverNXOSLike  Driver = "nxos-like"
	DriverEOSLike   Driver = "eos-like"
	DriverJunosLike Driver = "junos-like"

	// DriverWLCLike is defined for wireless controllers but no
	// registered platform uses it yet.
	DriverWLCLike Driver = "wlc-like"
)

// Platform describes one supported network OS.
type Platform struct {
	Tag            string
	Vendor         string
	Driver         Driver
	TemplateFamily string
	Commands       map[Intent]string
}

// CommandFor returns the CLI command serving the given intent. The
// second return is false when the platform has no command for it;
// callers treat that as "skip", not as an error.
func (p *Platform) CommandFor(intent Intent) (string, bool) {
	cmd, ok := p.Commands[intent]
	return cmd, ok
}

// TemplateKey derives the template lookup key for an intent, following
// the family_show_command convention: cisco_ios + "show interfaces"
// yields "cisco_ios_show_interfaces".
func (p *Platform) TemplateKey(intent Intent) string {
	cmd, ok := p.Commands[intent]
	if !ok {
		return ""
	}
	return p.TemplateFamily + "_" + CommandSlug(cmd)
}

// IntentFor reports which intent a command serves on this platform,
// matching on the folded slug so spelling variants agree.
func (p *Platform) IntentFor(command string) (Intent, bool) {
	slug := CommandSlug(command)
	for intent, cmd := range p.Commands {
		if CommandSlug(cmd) == slug {
			return intent, true
		}
	}
	return "", false
}

// CommandSlug folds a CLI command into the underscore form used in
// template keys: lowercase, spaces and hyphens to underscores, pipe
// modifiers dropped.
func CommandSlug(cmd string) string {
	cmd = strings.ToLower(cmd)
	cmd = strings.ReplaceAll(cmd, " ", "_")
	cmd = strings.ReplaceAll(cmd, "-", "_")
	cmd = strings.ReplaceAll(cmd, "|", "")
	for strings.Contains(cmd, "__") {
		cmd = strings.ReplaceAll(cmd, "__", "_")
	}
	return strings.Trim(cmd, "_")
}

// UnknownPlatformError reports a platform tag with no registry entry.
type UnknownPlatformError struct {
	Tag string
}

func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown platform %q (known: %s)", e.Tag, strings.Join(Tags(), ", "))
}

func (e *UnknownPlatformError) Category() util.Category {
	return util.CategoryConfig
}

var registry = map[string]*Platform{
	"cisco_ios": {
		Tag:            "cisco_ios",
		Vendor:         "Cisco",
		Driver:         DriverIOSLike,
		TemplateFamily: "cisco_ios",
		Commands: map[Intent]string{
			IntentDevices:    "show version",
			IntentInterfaces: "show interfaces",
			IntentSwitchport: "show interfaces switchport",
			IntentLAG:        "show etherchannel summary",
			IntentMedia:      "show interfaces status",
			IntentMAC:        "show mac address-table",
			IntentLLDP:       "show lldp neighbors detail",
			IntentCDP:        "show cdp neighbors detail",
			IntentInventory:  "show inventory",
			IntentBackup:     "show running-config",
		},
	},
	"cisco_xe": {
		Tag:            "cisco_xe",
		Vendor:         "Cisco",
		Driver:         DriverIOSLike,
		TemplateFamily: "cisco_ios", // IOS-XE output matches classic IOS
		Commands: map[Intent]string{
			IntentDevices:    "show version",
			IntentInterfaces: "show interfaces",
			IntentSwitchport: "show interfaces switchport",
			IntentLAG:        "show etherchannel summary",
			IntentMedia:      "show interfaces status",
			IntentMAC:        "show mac address-table",
			IntentLLDP:       "show lldp neighbors detail",
			IntentCDP:        "show cdp neighbors detail",
			IntentInventory:  "show inventory",
			IntentBackup:     "show running-config",
		},
	},
	"cisco_nxos": {
		Tag:            "cisco_nxos",
		Vendor:         "Cisco",
		Driver:         DriverNXOSLike,
		TemplateFamily: "cisco_nxos",
		Commands: map[Intent]string{
			IntentDevices:     "show version",
			IntentInterfaces:  "show interface",
			IntentSwitchport:  "show interface switchport",
			IntentLAG:         "show port-channel summary",
			IntentMedia:       "show interface transceiver",
			IntentTransceiver: "show interface transceiver",
			IntentMAC:         "show mac address-table",
			IntentLLDP:        "show lldp neighbors detail",
			IntentCDP:         "show cdp neighbors detail",
			IntentInventory:   "show inventory",
			IntentBackup:      "show running-config",
		},
	},
	"cisco_xr": {
		Tag:    "cisco_xr",
		Vendor: "Cisco",
		Driver: DriverIOSLike,
		// XR output for the commands we template matches classic IOS
		// closely enough; XR-only tables ship as custom templates.
		TemplateFamily: "cisco_ios",
		Commands: map[Intent]string{
			IntentDevices:    "show version",
			IntentInterfaces: "show interfaces",
			IntentLAG:        "show bundle",
			IntentLLDP:       "show lldp neighbors detail",
			IntentCDP:        "show cdp neighbors detail",
			IntentInventory:  "show inventory",
			IntentBackup:     "show running-config",
		},
	},
	"arista_eos": {
		Tag:            "arista_eos",
		Vendor:         "Arista",
		Driver:         DriverEOSLike,
		TemplateFamily: "arista_eos",
		Commands: map[Intent]string{
			IntentDevices:    "show version",
			IntentInterfaces: "show interfaces",
			IntentSwitchport: "show interfaces switchport",
			IntentLAG:        "show port-channel summary",
			// EOS prints transceiver DOM values without a media column;
			// the status table carries the Type field instead.
			IntentMedia:     "show interfaces status",
			IntentMAC:       "show mac address-table",
			IntentLLDP:      "show lldp neighbors detail",
			IntentInventory: "show inventory",
			IntentBackup:    "show running-config",
		},
	},
	"juniper_junos": {
		Tag:            "juniper_junos",
		Vendor:         "Juniper",
		Driver:         DriverJunosLike,
		TemplateFamily: "juniper_junos",
		Commands: map[Intent]string{
			IntentDevices:    "show version",
			IntentInterfaces: "show interfaces",
			IntentLAG:        "show lacp interfaces",
			IntentMAC:        "show ethernet-switching table",
			IntentLLDP:       "show lldp neighbors",
			IntentInventory:  "show chassis hardware",
			IntentBackup:     "show configuration | display set",
		},
	},
	"qtech": {
		Tag:    "qtech",
		Vendor: "QTech",
		Driver: DriverIOSLike,
		// QTech output is Cisco-shaped; qtech-only tables (switchport,
		// aggregatePort, version) ship as custom templates.
		TemplateFamily: "cisco_ios",
		Commands: map[Intent]string{
			IntentDevices:    "show version",
			IntentInterfaces: "show interface",
			IntentSwitchport: "show interface switchport",
			IntentLAG:        "show aggregatePort summary",
			IntentMAC:        "show mac-address-table",
			IntentLLDP:       "show lldp neighbors",
			IntentBackup:     "show running-config",
		},
	},
}

// tagAliases accepts common shorthand in fleet files.
var tagAliases = map[string]string{
	"ios":     "cisco_ios",
	"iosxe":   "cisco_xe",
	"ios-xe":  "cisco_xe",
	"ios_xe":  "cisco_xe",
	"nxos":    "cisco_nxos",
	"nx-os":   "cisco_nxos",
	"iosxr":   "cisco_xr",
	"ios-xr":  "cisco_xr",
	"ios_xr":  "cisco_xr",
	"eos":     "arista_eos",
	"arista":  "arista_eos",
	"junos":   "juniper_junos",
	"juniper": "juniper_junos",
}

func init() {
	// A platform without a devices command cannot be collected at
	// all; fail loudly if the table regresses.
	for tag, p := range registry {
		if _, ok := p.Commands[IntentDevices]; !ok {
			panic(fmt.Sprintf("platform %s registered without a devices command", tag))
		}
		if p.Driver == "" || p.TemplateFamily == "" {
			panic(fmt.Sprintf("platform %s registered with empty driver or template family", tag))
		}
	}
}

// Resolve looks up a platform by tag or alias, case-insensitively.
func Resolve(tag string) (*Platform, error) {
	key := strings.ToLower(strings.TrimSpace(tag))
	if canonical, ok := tagAliases[key]; ok {
		key = canonical
	}
	p, ok := registry[key]
	if !ok {
		return nil, &UnknownPlatformError{Tag: tag}
	}
	return p, nil
}

// Tags returns all registered platform tags, sorted.
func Tags() []string {
	tags := make([]string, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
