package normalize

import (
	"strconv"
	"strings"

	"github.com/netherd-io/netherd/pkg/ifname"
	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/parse"
	"github.com/netherd-io/netherd/pkg/util"
)

// Interfaces turns parsed interface rows into canonical records. Rows
// without an interface name are dropped. Port classification follows
// the priority ladder: explicit port_type field, media hint, hardware
// hint, then name prefix.
func Interfaces(rows []parse.Row, dev model.Device) []model.Interface {
	out := make([]model.Interface, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		name := ifname.Normalize(row["name"])
		if name == "" {
			name = ifname.Normalize(row["interface"])
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		iface := model.Interface{
			Name:        name,
			Short:       ifname.Shorten(name),
			Aliases:     ifname.Aliases(name),
			Device:      dev.DisplayName(),
			Enabled:     interfaceEnabled(row),
			Description: strings.TrimSpace(row["description"]),
			MTU:         atoiOrZero(row["mtu"]),
			Speed:       interfaceSpeed(row),
			Media:       strings.TrimSpace(row["media_type"]),
			Mode:        model.ModeUnset,
		}
		if mac, err := util.CanonicalMAC(row["mac"]); err == nil {
			iface.MAC = mac
		}
		setIP(&iface, row["ip"])

		iface.PortType = classifyPort(row, name)
		iface.NBType = NBType(iface.PortType, iface.Speed, iface.Media)
		out = append(out, iface)
	}
	return out
}

// interfaceEnabled folds the vendor-specific admin status fields into
// a single flag. Anything explicitly administratively down is
// disabled; lack of signal means enabled.
func interfaceEnabled(row parse.Row) bool {
	status := strings.ToLower(row["status"])
	if strings.Contains(status, "administratively down") || status == "disabled" {
		return false
	}
	if admin, ok := row["admin_state"]; ok {
		a := strings.ToLower(admin)
		if a == "down" || strings.Contains(a, "administratively down") || a == "admin down" {
			return false
		}
	}
	return true
}

// interfaceSpeed prefers the explicit speed field over the bandwidth
// counter; bandwidth is reported in Kbit.
func interfaceSpeed(row parse.Row) int64 {
	if s := parseSpeed(row["speed"]); s > 0 {
		return s
	}
	if bw := atoiOrZero(row["bandwidth"]); bw > 0 {
		return int64(bw) * 1000
	}
	return 0
}

// parseSpeed converts the many vendor spellings of link speed into
// bits per second: "1000Mb/s", "10Gb/s", "a-1000", "10G", "1000mbps",
// "auto". Bare numbers are megabits. Returns 0 when unknown.
func parseSpeed(raw string) int64 {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "a-") // negotiated, from status tables
	switch s {
	case "", "auto", "unknown", "unlimited", "n/a", "--", "-":
		return 0
	}
	for _, suffix := range []string{"b/s", "bps", "bit/s", "bit"} {
		s = strings.TrimSuffix(s, suffix)
	}
	mult := int64(1000 * 1000)
	switch {
	case strings.HasSuffix(s, "g"):
		mult = 1000 * 1000 * 1000
		s = strings.TrimSuffix(s, "g")
	case strings.HasSuffix(s, "m"):
		s = strings.TrimSuffix(s, "m")
	case strings.HasSuffix(s, "k"):
		mult = 1000
		s = strings.TrimSuffix(s, "k")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n <= 0 {
		return 0
	}
	return int64(n * float64(mult))
}

func setIP(iface *model.Interface, raw string) {
	addr := strings.TrimSpace(raw)
	if addr == "" {
		return
	}
	if strings.Contains(addr, ":") {
		iface.IP6 = addr
		return
	}
	if util.IsValidIPv4CIDR(addr) || util.IsValidIPv4(addr) {
		iface.IP4 = addr
	}
}

// classifyPort walks the priority ladder for one row.
func classifyPort(row parse.Row, name string) model.PortType {
	if pt := portTypeFromField(row["port_type"]); pt != model.PortUnknown {
		return pt
	}
	if pt := portTypeFromMedia(row["media_type"]); pt != model.PortUnknown {
		return pt
	}
	if pt := portTypeFromHardware(row["hardware_type"]); pt != model.PortUnknown {
		return pt
	}
	return PortTypeFromName(name)
}

func portTypeFromField(raw string) model.PortType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(model.PortAccessCopper), "copper", "rj45":
		return model.PortAccessCopper
	case string(model.PortSFP):
		return model.PortSFP
	case string(model.PortSFPPlus), "sfpplus", "sfp-plus":
		return model.PortSFPPlus
	case string(model.PortSFP28):
		return model.PortSFP28
	case string(model.PortQSFP28), "qsfp":
		return model.PortQSFP28
	case string(model.PortQSFPDD), "qsfp-dd":
		return model.PortQSFPDD
	case string(model.PortLAG):
		return model.PortLAG
	case string(model.PortVirtual):
		return model.PortVirtual
	case string(model.PortLoopback):
		return model.PortLoopback
	case string(model.PortMgmt), "management":
		return model.PortMgmt
	}
	return model.PortUnknown
}

// portTypeFromMedia maps transceiver and media descriptions to a port
// class. Empty or absent media gives no signal.
func portTypeFromMedia(raw string) model.PortType {
	m := strings.ToLower(strings.TrimSpace(raw))
	switch m {
	case "", "unknown", "n/a", "not present", "none", "--":
		return model.PortUnknown
	}
	switch {
	case strings.Contains(m, "400g") || strings.Contains(m, "qsfp-dd") || strings.Contains(m, "qsfpdd"):
		return model.PortQSFPDD
	case strings.Contains(m, "100g") || strings.Contains(m, "qsfp28"):
		return model.PortQSFP28
	case strings.Contains(m, "40g") || strings.Contains(m, "qsfp"):
		return model.PortQSFP28
	case strings.Contains(m, "25g") || strings.Contains(m, "sfp28"):
		return model.PortSFP28
	case strings.Contains(m, "10g"):
		return model.PortSFPPlus
	case strings.Contains(m, "basetx") || strings.Contains(m, "base-t") ||
		strings.Contains(m, "baset") || strings.Contains(m, "rj45") ||
		strings.Contains(m, "copper"):
		return model.PortAccessCopper
	case strings.Contains(m, "sfp") || strings.Contains(m, "1000base"):
		return model.PortSFP
	}
	return model.PortUnknown
}

// portTypeFromHardware reads the coarse hardware descriptions from
// show interfaces ("EtherSVI", "EtherChannel", "C6k 10000Mb 802.3").
func portTypeFromHardware(raw string) model.PortType {
	h := strings.ToLower(strings.TrimSpace(raw))
	if h == "" {
		return model.PortUnknown
	}
	switch {
	case strings.Contains(h, "svi") || strings.Contains(h, "vlan"):
		return model.PortVirtual
	case strings.Contains(h, "etherchannel") || strings.Contains(h, "port-channel") ||
		strings.Contains(h, "aggregat"):
		return model.PortLAG
	case strings.Contains(h, "loopback"):
		return model.PortLoopback
	case strings.Contains(h, "tunnel"):
		return model.PortVirtual
	case strings.Contains(h, "management"):
		return model.PortMgmt
	case strings.Contains(h, "10/100/1000") || strings.Contains(h, "10/100"):
		return model.PortAccessCopper
	case strings.Contains(h, "400g"):
		return model.PortQSFPDD
	case strings.Contains(h, "100g") || strings.Contains(h, "100000mb"):
		return model.PortQSFP28
	case strings.Contains(h, "25g") || strings.Contains(h, "25000mb"):
		return model.PortSFP28
	case strings.Contains(h, "10g") || strings.Contains(h, "10000mb"):
		return model.PortSFPPlus
	}
	return model.PortUnknown
}

// PortTypeFromName is the final rung of the ladder: classification by
// interface name prefix alone.
func PortTypeFromName(name string) model.PortType {
	switch ifname.Classify(name) {
	case ifname.KindLAG:
		return model.PortLAG
	case ifname.KindSVI, ifname.KindTunnel, ifname.KindVirtual, ifname.KindSubinterface:
		return model.PortVirtual
	case ifname.KindLoopback:
		return model.PortLoopback
	case ifname.KindMgmt:
		return model.PortMgmt
	case ifname.KindPhysical:
		prefix, _ := ifname.Split(ifname.Normalize(name))
		switch prefix {
		case "TFGigabitEthernet", "TenGigabitEthernet", "xe-":
			return model.PortSFPPlus
		case "TwentyFiveGigE":
			return model.PortSFP28
		case "HundredGigabitEthernet", "FortyGigabitEthernet", "et-":
			return model.PortQSFP28
		case "FourHundredGigE":
			return model.PortQSFPDD
		case "GigabitEthernet", "FastEthernet", "Ethernet",
			"TwoGigabitEthernet", "FiveGigabitEthernet", "ge-":
			return model.PortAccessCopper
		}
	}
	return model.PortUnknown
}

// LAGMembership distills LAG summary rows into a member → bundle map,
// both sides as reported by the device. Rows produced by child
// patterns carry one member each; tabular rows carry a delimited
// members list with per-member state flags like "Gi0/1(P)".
func LAGMembership(rows []parse.Row) map[string]string {
	out := make(map[string]string)
	for _, row := range rows {
		bundle := strings.TrimSpace(row["bundle"])
		if bundle == "" {
			continue
		}
		if member := strings.TrimSpace(row["member"]); member != "" {
			out[stripMemberFlags(member)] = bundle
			continue
		}
		// Closing parens double as separators: wrapped member lists
		// come back from the parser as "Gi0/4(P)Gi0/5(P)".
		for _, member := range strings.FieldsFunc(row["members"], func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t' || r == ')'
		}) {
			if m := stripMemberFlags(member); m != "" {
				out[m] = bundle
			}
		}
	}
	return out
}

func stripMemberFlags(member string) string {
	if i := strings.IndexByte(member, '('); i >= 0 {
		member = member[:i]
	}
	return strings.TrimSpace(member)
}

// EnrichLAG links member interfaces to their parent LAG. Both the
// membership map and the records may use any alias of a name, so the
// index is expanded over every alias before lookup. Returns the
// number of members linked.
func EnrichLAG(ifaces []model.Interface, membership map[string]string) int {
	if len(membership) == 0 {
		return 0
	}
	index := make(map[string]string, len(membership)*4)
	for member, bundle := range membership {
		parent := ifname.Normalize(bundle)
		for _, alias := range ifname.Aliases(member) {
			index[alias] = parent
		}
	}
	linked := 0
	for i := range ifaces {
		if ifaces[i].IsLAG() {
			continue
		}
		parent, ok := index[ifaces[i].Name]
		if !ok {
			continue
		}
		ifaces[i].LAGParent = parent
		linked++
	}
	return linked
}

// EnrichSwitchport applies normalized switchport modes onto interface
// records, honoring the mode invariants: access and tagged-all carry
// no explicit tagged set. Returns the number of records updated.
func EnrichSwitchport(ifaces []model.Interface, ports map[string]Switchport) int {
	if len(ports) == 0 {
		return 0
	}
	index := make(map[string]Switchport, len(ports)*4)
	for _, sw := range ports {
		for _, alias := range ifname.Aliases(sw.Interface) {
			index[alias] = sw
		}
	}
	updated := 0
	for i := range ifaces {
		sw, ok := index[ifaces[i].Name]
		if !ok || sw.Routed || sw.Mode == model.ModeUnset {
			continue
		}
		ifaces[i].Mode = sw.Mode
		ifaces[i].UntaggedVLAN = sw.UntaggedVLAN
		if sw.Mode == model.ModeTagged {
			ifaces[i].TaggedVLANs = append([]int(nil), sw.TaggedVLANs...)
			ifaces[i].SortVLANs()
		} else {
			ifaces[i].TaggedVLANs = nil
		}
		updated++
	}
	return updated
}

// MediaTypes distills status or transceiver rows into a canonical
// name → media description map.
func MediaTypes(rows []parse.Row) map[string]string {
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		name := ifname.Normalize(row["interface"])
		media := strings.TrimSpace(row["media_type"])
		if name == "" || media == "" {
			continue
		}
		switch strings.ToLower(media) {
		case "unknown", "n/a", "not present", "none", "--":
			continue
		}
		out[name] = media
	}
	return out
}

// EnrichMediaType refines port classification from observed media.
// Media only upgrades a record: it never downgrades an explicit or
// media-derived class to unknown. Returns the number updated.
func EnrichMediaType(ifaces []model.Interface, media map[string]string) int {
	if len(media) == 0 {
		return 0
	}
	index := make(map[string]string, len(media)*4)
	for name, m := range media {
		for _, alias := range ifname.Aliases(name) {
			index[alias] = m
		}
	}
	updated := 0
	for i := range ifaces {
		switch ifaces[i].PortType {
		case model.PortLAG, model.PortVirtual, model.PortLoopback:
			continue
		}
		m, ok := index[ifaces[i].Name]
		if !ok {
			continue
		}
		pt := portTypeFromMedia(m)
		if pt == model.PortUnknown {
			continue
		}
		ifaces[i].Media = m
		ifaces[i].PortType = pt
		ifaces[i].NBType = NBType(pt, ifaces[i].Speed, m)
		updated++
	}
	return updated
}

// NBType maps a port class plus speed/media refinement to the
// inventory system's interface type slug.
func NBType(pt model.PortType, speed int64, media string) string {
	const gig = 1000 * 1000 * 1000
	switch pt {
	case model.PortLAG:
		return "lag"
	case model.PortVirtual, model.PortLoopback:
		return "virtual"
	case model.PortMgmt:
		return "1000base-t"
	case model.PortAccessCopper:
		switch {
		case speed == 10*gig:
			return "10gbase-t"
		case speed == 5*gig:
			return "5gbase-t"
		case speed == 2500*1000*1000:
			return "2.5gbase-t"
		default:
			return "1000base-t"
		}
	case model.PortSFP:
		return "1000base-x-sfp"
	case model.PortSFPPlus:
		return "10gbase-x-sfpp"
	case model.PortSFP28:
		return "25gbase-x-sfp28"
	case model.PortQSFP28:
		if strings.Contains(strings.ToLower(media), "40g") {
			return "40gbase-x-qsfpp"
		}
		return "100gbase-x-qsfp28"
	case model.PortQSFPDD:
		return "400gbase-x-qsfpdd"
	}
	return "other"
}
