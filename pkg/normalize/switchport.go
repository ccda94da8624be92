package normalize

import (
	"strconv"
	"strings"

	"github.com/netherd-io/netherd/pkg/ifname"
	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/parse"
	"github.com/netherd-io/netherd/pkg/util"
)

// Dialect identifies which vendor's switchport output shape produced a
// row. The tag is computed once from field presence, so downstream
// normalization is a deterministic match instead of a conditional
// cascade whose order silently matters.
type Dialect string

const (
	// DialectIOS covers IOS/IOS-XE/EOS blocks: Administrative Mode /
	// Operational Mode lines captured as admin_mode / oper_mode.
	DialectIOS Dialect = "ios_like"

	// DialectNXOS covers NX-OS blocks: a single Operational Mode line
	// captured as mode, plus Trunking VLANs Allowed.
	DialectNXOS Dialect = "nxos_like"

	// DialectQTech covers the QTech tabular layout with MODE and
	// VLAN_LISTS columns.
	DialectQTech Dialect = "qtech_like"

	DialectUnknown Dialect = "unknown"
)

// DetectDialect classifies a parsed switchport row by field shape.
// The NX-OS check runs before the QTech check: both shapes carry a
// switchport field, and an NX-OS trunk row tested against the QTech
// shape first would normalize with the wrong VLAN source.
func DetectDialect(row parse.Row) Dialect {
	if _, ok := row["admin_mode"]; ok {
		return DialectIOS
	}
	if _, ok := row["mode"]; ok {
		return DialectNXOS
	}
	if _, ok := row["MODE"]; ok {
		return DialectQTech
	}
	return DialectUnknown
}

// Switchport is the normalized L2 mode of one interface.
type Switchport struct {
	Interface    string // canonical long form
	Dialect      Dialect
	Routed       bool // switchport disabled, L3 port
	Mode         model.SwitchMode
	UntaggedVLAN int
	TaggedVLANs  []int
}

// Switchports normalizes parsed switchport rows into a map keyed by
// canonical interface name. Rows with no recognizable shape or no
// interface name are dropped.
func Switchports(rows []parse.Row) map[string]Switchport {
	out := make(map[string]Switchport, len(rows))
	for _, row := range rows {
		sw, ok := switchportFromRow(row)
		if !ok {
			continue
		}
		out[sw.Interface] = sw
	}
	return out
}

func switchportFromRow(row parse.Row) (Switchport, bool) {
	name := ifname.Normalize(row["interface"])
	if name == "" {
		return Switchport{}, false
	}

	sw := Switchport{
		Interface: name,
		Dialect:   DetectDialect(row),
		Mode:      model.ModeUnset,
	}

	switch sw.Dialect {
	case DialectIOS:
		// Routed ports print Switchport: Disabled and keep stale
		// mode/VLAN fields; they carry no L2 configuration.
		if strings.EqualFold(row["switchport"], "disabled") {
			sw.Routed = true
			return sw, true
		}
		mode := strings.ToLower(row["admin_mode"])
		// Dynamic ports negotiate; the operational mode is what the
		// port actually runs.
		if strings.Contains(mode, "dynamic") {
			mode = strings.ToLower(row["oper_mode"])
		}
		switch {
		case strings.Contains(mode, "access"):
			sw.Mode = model.ModeAccess
			sw.UntaggedVLAN = atoiOrZero(row["access_vlan"])
		case strings.Contains(mode, "trunk"):
			applyTrunk(&sw, row["trunking_vlans"], row["native_vlan"])
		}

	case DialectNXOS:
		if strings.EqualFold(row["switchport"], "disabled") {
			sw.Routed = true
			return sw, true
		}
		switch strings.ToLower(row["mode"]) {
		case "access":
			sw.Mode = model.ModeAccess
			sw.UntaggedVLAN = atoiOrZero(row["access_vlan"])
		case "trunk":
			applyTrunk(&sw, row["trunking_vlans"], row["native_vlan"])
		}

	case DialectQTech:
		if strings.EqualFold(row["switchport"], "disabled") {
			sw.Routed = true
			return sw, true
		}
		switch strings.ToUpper(row["MODE"]) {
		case "ACCESS":
			sw.Mode = model.ModeAccess
			sw.UntaggedVLAN = atoiOrZero(row["access_vlan"])
		case "TRUNK", "HYBRID":
			applyTrunk(&sw, row["VLAN_LISTS"], row["native_vlan"])
		}

	default:
		return Switchport{}, false
	}

	return sw, true
}

// applyTrunk fills a trunk-mode Switchport from a raw VLAN list. A
// list covering every VLAN collapses to tagged-all with an empty set.
func applyTrunk(sw *Switchport, rawVLANs, rawNative string) {
	sw.UntaggedVLAN = atoiOrZero(rawNative)
	mode, vlans, err := ParseVLANList(rawVLANs)
	if err != nil {
		util.Warnf("switchport %s: unparseable VLAN list %q: %v", sw.Interface, rawVLANs, err)
		sw.Mode = model.ModeTagged
		return
	}
	sw.Mode = mode
	sw.TaggedVLANs = vlans
}

// ParseVLANList interprets a trunk VLAN specification: comma lists,
// hyphen ranges, and the literal ALL. A list spanning the full
// 1-4094 space means the trunk carries everything, which is the
// tagged-all mode with an implicit (empty) VLAN set.
func ParseVLANList(raw string) (model.SwitchMode, []int, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToUpper(raw) {
	case "", "NONE":
		return model.ModeTagged, nil, nil
	case "ALL", "1-4094":
		return model.ModeTaggedAll, nil, nil
	}
	vlans, err := util.ExpandVLANRange(raw)
	if err != nil {
		return model.ModeTagged, nil, err
	}
	if len(vlans) >= 4094 {
		return model.ModeTaggedAll, nil, nil
	}
	return model.ModeTagged, vlans, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
