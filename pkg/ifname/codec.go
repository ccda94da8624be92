// Package ifname canonicalizes network interface names across vendor
// CLI dialects. Every command on a device may spell the same port
// differently (Gi0/1, GigabitEthernet0/1, gigabitEthernet 0/1); the
// codec maps all spellings to one canonical form so rows from
// different commands can be joined.
package ifname

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Kind classifies an interface by its name.
type Kind string

const (
	KindPhysical     Kind = "physical"
	KindLAG          Kind = "lag"
	KindSVI          Kind = "svi"
	KindLoopback     Kind = "loopback"
	KindMgmt         Kind = "mgmt"
	KindTunnel       Kind = "tunnel"
	KindSubinterface Kind = "subinterface"
	KindVirtual      Kind = "virtual"
	KindUnknown      Kind = "unknown"
)

// nameType describes one interface type: its canonical long form, its
// short form, every spelling devices emit for it, and its kind.
type nameType struct {
	long    string
	short   string
	aliases []string // lowercase spellings, including long and short
	kind    Kind
}

// nameTypes is the vendor dialect table. Spellings come from Cisco
// IOS/IOS-XE, NX-OS, IOS-XR, Arista EOS, Juniper, and QTech CLI
// output. Juniper media-prefixed names (ge-, xe-, et-) keep their
// native form as canonical.
var nameTypes = []nameType{
	{"FastEthernet", "Fa", []string{"fastethernet", "fa"}, KindPhysical},
	{"GigabitEthernet", "Gi", []string{"gigabitethernet", "gige", "gi"}, KindPhysical},
	{"TwoGigabitEthernet", "Tw", []string{"twogigabitethernet", "tw"}, KindPhysical},
	{"FiveGigabitEthernet", "Fi", []string{"fivegigabitethernet", "fi"}, KindPhysical},
	{"TenGigabitEthernet", "Te", []string{"tengigabitethernet", "tengige", "tengig", "te"}, KindPhysical},
	{"TwentyFiveGigE", "Twe", []string{"twentyfivegige", "twentyfivegigabitethernet", "twe"}, KindPhysical},
	{"TFGigabitEthernet", "TFGi", []string{"tfgigabitethernet", "tfgi", "tf"}, KindPhysical},
	{"FortyGigabitEthernet", "Fo", []string{"fortygigabitethernet", "fortygige", "fo"}, KindPhysical},
	{"HundredGigabitEthernet", "Hu", []string{"hundredgigabitethernet", "hundredgige", "hu"}, KindPhysical},
	{"FourHundredGigE", "FH", []string{"fourhundredgige", "fourhundredgigabitethernet", "fh"}, KindPhysical},
	{"Ethernet", "Eth", []string{"ethernet", "eth", "et"}, KindPhysical},
	{"ge-", "ge-", []string{"ge-"}, KindPhysical},
	{"xe-", "xe-", []string{"xe-"}, KindPhysical},
	{"et-", "et-", []string{"et-"}, KindPhysical},
	{"Port-channel", "Po", []string{"port-channel", "portchannel", "po"}, KindLAG},
	{"AggregatePort", "Ag", []string{"aggregateport", "ag"}, KindLAG},
	{"Bundle-Ether", "BE", []string{"bundle-ether", "bundleether", "be"}, KindLAG},
	{"ae", "ae", []string{"ae"}, KindLAG},
	{"Vlan", "Vl", []string{"vlan", "vl"}, KindSVI},
	{"Loopback", "Lo", []string{"loopback", "loop", "lo"}, KindLoopback},
	{"Management", "Ma", []string{"management", "mgmt", "mgmteth", "ma"}, KindMgmt},
	{"Tunnel", "Tu", []string{"tunnel", "tu"}, KindTunnel},
	{"Null", "Nu", []string{"null", "nu"}, KindVirtual},
	{"Virtual-Access", "Vi", []string{"virtual-access", "vi"}, KindVirtual},
	{"Virtual-Template", "Vt", []string{"virtual-template", "vt"}, KindVirtual},
}

var (
	// aliasToType maps every lowercase spelling to its table entry.
	aliasToType map[string]*nameType

	// aliasesSorted contains spelling keys sorted longest-first so
	// prefix matching tries "port-channel" before "po".
	aliasesSorted []string

	// splitRegexp separates the alphabetic type prefix from the
	// numeric remainder. The optional interior whitespace absorbs the
	// QTech habit of printing "GigabitEthernet 0/1".
	splitRegexp = regexp.MustCompile(`^([a-zA-Z][a-zA-Z-]*?)\s*(\d.*)$`)

	leadingIntRegexp = regexp.MustCompile(`^(\d+)`)
)

func init() {
	aliasToType = make(map[string]*nameType)
	for i := range nameTypes {
		nt := &nameTypes[i]
		for _, a := range nt.aliases {
			aliasToType[a] = nt
		}
	}
	aliasesSorted = make([]string, 0, len(aliasToType))
	for k := range aliasToType {
		aliasesSorted = append(aliasesSorted, k)
	}
	sort.Slice(aliasesSorted, func(i, j int) bool {
		return len(aliasesSorted[i]) > len(aliasesSorted[j])
	})
}

// Split separates an interface name into its type prefix and numeric
// remainder. "GigabitEthernet 0/1" splits into ("GigabitEthernet",
// "0/1"); names with no numeric part return ("", name).
func Split(name string) (prefix, rest string) {
	name = strings.TrimSpace(name)
	m := splitRegexp.FindStringSubmatch(name)
	if len(m) == 3 {
		return m[1], m[2]
	}
	return "", name
}

// lookup resolves a name to its type entry and numeric remainder.
// Exact spellings match first; otherwise the longest alias the prefix
// starts with wins, which accepts truncated CLI spellings like gig0/1
// or HundredGigabitEth0/55.
func lookup(name string) (*nameType, string, bool) {
	prefix, rest := Split(name)
	if prefix == "" {
		return nil, rest, false
	}
	lower := strings.ToLower(prefix)
	if nt, ok := aliasToType[lower]; ok {
		return nt, rest, true
	}
	for _, a := range aliasesSorted {
		if strings.HasPrefix(lower, a) {
			return aliasToType[a], rest, true
		}
	}
	return nil, rest, false
}

// Normalize converts any recognized spelling of an interface name to
// its canonical long form. Unrecognized names are returned trimmed,
// with any interior whitespace between prefix and number removed.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	nt, rest, ok := lookup(name)
	if !ok {
		if prefix, num := Split(name); prefix != "" {
			return prefix + num
		}
		return name
	}
	return nt.long + rest
}

// Shorten converts an interface name to its abbreviated form.
// Unrecognized names pass through unchanged.
func Shorten(name string) string {
	nt, rest, ok := lookup(name)
	if !ok {
		return strings.TrimSpace(name)
	}
	return nt.short + rest
}

// Aliases returns every spelling the fleet may use for the given
// interface: the canonical long form first, then the short form and
// each dialect spelling, all with the same numeric remainder. The
// input spelling is included. Lookups that join rows from different
// commands should try each alias.
func Aliases(name string) []string {
	name = strings.TrimSpace(name)
	nt, rest, ok := lookup(name)
	if !ok {
		norm := Normalize(name)
		if norm != name {
			return []string{norm, name}
		}
		return []string{name}
	}

	out := []string{nt.long + rest, nt.short + rest}
	for _, a := range nt.aliases {
		out = append(out, a+rest)
	}
	out = append(out, strings.ToLower(nt.long)+rest, name)

	seen := make(map[string]bool, len(out))
	uniq := out[:0]
	for _, s := range out {
		if !seen[s] {
			seen[s] = true
			uniq = append(uniq, s)
		}
	}
	return uniq
}

// Classify reports what kind of interface the name denotes. A dotted
// numeric remainder on a physical or LAG type is a subinterface.
func Classify(name string) Kind {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "irb.") || lower == "irb" {
		return KindSVI
	}
	nt, rest, ok := lookup(name)
	if !ok {
		return KindUnknown
	}
	if strings.Contains(rest, ".") && (nt.kind == KindPhysical || nt.kind == KindLAG) {
		return KindSubinterface
	}
	return nt.kind
}

// LAGNumber extracts the aggregation group number from a LAG name.
// It accepts any dialect spelling (Port-channel10, po10, ae0,
// AggregatePort 2, Bundle-Ether100) case-insensitively. The second
// return is false when the name is not a LAG.
func LAGNumber(name string) (int, bool) {
	nt, rest, ok := lookup(name)
	if !ok || nt.kind != KindLAG {
		return 0, false
	}
	m := leadingIntRegexp.FindStringSubmatch(rest)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SVIVID extracts the VLAN id from an SVI name such as Vlan100,
// vl200, or the Juniper irb.300 form. The second return is false when
// the name is not an SVI.
func SVIVID(name string) (int, bool) {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	if after, ok := strings.CutPrefix(lower, "irb."); ok {
		n, err := strconv.Atoi(after)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	nt, rest, ok := lookup(name)
	if !ok || nt.kind != KindSVI {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
