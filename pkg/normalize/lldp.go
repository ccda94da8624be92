package normalize

import (
	"net"
	"strings"

	"github.com/netherd-io/netherd/pkg/ifname"
	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/parse"
	"github.com/netherd-io/netherd/pkg/util"
)

// Neighbors normalizes LLDP or CDP rows into adjacency records.
// protocol tags the source ("lldp" or "cdp"); rows without a local
// interface are dropped. Remote system names are shortened to the
// bare hostname, and the neighbor type records whether the remote
// identified itself by hostname, MAC, or IP.
func Neighbors(rows []parse.Row, dev model.Device, protocol string) []model.LLDPNeighbor {
	out := make([]model.LLDPNeighbor, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		local := ifname.Normalize(row["local_interface"])
		if local == "" {
			continue
		}
		n := model.LLDPNeighbor{
			Device:          dev.DisplayName(),
			LocalInterface:  local,
			RemoteInterface: ifname.Normalize(row["remote_interface"]),
			RemoteMgmtIP:    strings.TrimSpace(row["remote_mgmt_ip"]),
			RemotePlatform:  strings.TrimSpace(row["remote_platform"]),
			Capabilities:    splitCapabilities(row["capabilities"]),
			Protocol:        protocol,
		}
		n.RemoteName, n.RemoteType = remoteIdentity(row["remote_name"], row["chassis_id"])
		if n.RemoteName == "" {
			util.WithDevice(dev.DisplayName()).Debugf("%s: neighbor on %s has no identity, dropping", protocol, local)
			continue
		}
		if key := n.Key(); !seen[key] {
			seen[key] = true
			out = append(out, n)
		}
	}
	return out
}

// MergeNeighbors combines adjacencies from multiple protocols,
// keeping the first record seen for each link. Callers pass LLDP
// first so it wins over CDP for the same adjacency.
func MergeNeighbors(sets ...[]model.LLDPNeighbor) []model.LLDPNeighbor {
	var out []model.LLDPNeighbor
	seen := make(map[string]bool)
	for _, set := range sets {
		for _, n := range set {
			if key := n.Key(); !seen[key] {
				seen[key] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// remoteIdentity picks the best remote identifier. A system name wins
// and is shortened to its bare hostname; otherwise the chassis id is
// classified as MAC or IP.
func remoteIdentity(name, chassisID string) (string, model.NeighborType) {
	name = strings.TrimSpace(name)
	if name != "" {
		if net.ParseIP(name) != nil {
			return name, model.NeighborIP
		}
		return shortHostname(name), model.NeighborHostname
	}
	chassisID = strings.TrimSpace(chassisID)
	if chassisID == "" {
		return "", model.NeighborUnknown
	}
	if mac, err := util.CanonicalMAC(chassisID); err == nil {
		return mac, model.NeighborMAC
	}
	if net.ParseIP(chassisID) != nil {
		return chassisID, model.NeighborIP
	}
	return shortHostname(chassisID), model.NeighborUnknown
}

// shortHostname strips the domain part of a FQDN. CDP reports
// "leaf1.example.net" while the device itself registers as "leaf1";
// cable matching needs the two to agree.
func shortHostname(name string) string {
	if net.ParseIP(name) != nil {
		return name
	}
	// Cisco wraps serial-bearing CDP names as "SN(hostname)".
	if i := strings.IndexByte(name, '('); i >= 0 && strings.HasSuffix(name, ")") {
		inner := name[i+1 : len(name)-1]
		if inner != "" {
			name = inner
		}
	}
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

func splitCapabilities(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	if len(fields) == 0 {
		return nil
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
