package normalize

import (
	"strconv"
	"strings"

	"github.com/netherd-io/netherd/pkg/ifname"
	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/parse"
	"github.com/netherd-io/netherd/pkg/util"
)

// MACs normalizes MAC table rows. Addresses are canonicalized, rows
// with an unparseable address are dropped, and numeric VLANs outside
// [1,4094] are rejected. Platforms that report no numeric VLAN for an
// entry (Junos names, NX-OS static "-") keep VLAN 0. Duplicate
// entries collapse on the forwarding key.
func MACs(rows []parse.Row, dev model.Device) []model.MACEntry {
	out := make([]model.MACEntry, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		mac, err := util.CanonicalMAC(row["mac"])
		if err != nil {
			util.WithDevice(dev.DisplayName()).Debugf("mac table: dropping row with bad address %q", row["mac"])
			continue
		}
		if systemPort(row["interface"]) {
			continue
		}
		entry := model.MACEntry{
			Device:    dev.DisplayName(),
			MAC:       mac,
			Interface: ifname.Normalize(row["interface"]),
			Type:      macType(row["type"]),
		}
		if raw := strings.TrimSpace(row["vlan"]); raw != "" {
			if vid, err := strconv.Atoi(raw); err == nil {
				if util.ValidateVLANID(vid) != nil {
					util.WithDevice(dev.DisplayName()).Warnf("mac table: VLAN %d out of range, dropping %s", vid, mac)
					continue
				}
				entry.VLAN = vid
			}
		}
		if key := entry.Key(); !seen[key] {
			seen[key] = true
			out = append(out, entry)
		}
	}
	return out
}

// systemPort reports whether a MAC table row points at the device's
// own control plane rather than a forwarding port.
func systemPort(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "cpu", "switch", "router", "drop", "self", "static":
		return true
	}
	return strings.HasPrefix(n, "sup-eth") || strings.HasPrefix(n, "vpc peer-link")
}

// macType folds vendor entry types into dynamic/static/sticky. Junos
// prints single-letter flags.
func macType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	switch t {
	case "":
		return ""
	case "d":
		return "dynamic"
	case "s", "p":
		return "static"
	}
	switch {
	case strings.Contains(t, "dynamic"):
		return "dynamic"
	case strings.Contains(t, "secure") || strings.Contains(t, "sticky"):
		return "sticky"
	case strings.Contains(t, "static"):
		return "static"
	}
	return t
}

// ExcludeTrunks filters out MAC entries learned on trunk ports. Trunks
// flood every downstream station's address, so their entries say
// nothing about where a station is attached. The trunk set is alias
// expanded before matching.
func ExcludeTrunks(entries []model.MACEntry, ports map[string]Switchport) []model.MACEntry {
	if len(ports) == 0 {
		return entries
	}
	trunk := make(map[string]bool)
	for _, sw := range ports {
		if sw.Mode != model.ModeTagged && sw.Mode != model.ModeTaggedAll {
			continue
		}
		for _, alias := range ifname.Aliases(sw.Interface) {
			trunk[alias] = true
		}
	}
	if len(trunk) == 0 {
		return entries
	}
	out := entries[:0]
	for _, e := range entries {
		if trunk[e.Interface] {
			continue
		}
		out = append(out, e)
	}
	return out
}
