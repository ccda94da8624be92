package model

import "fmt"

// NeighborType classifies how a discovery protocol identified the
// remote system.
type NeighborType string

const (
	NeighborHostname NeighborType = "hostname"
	NeighborMAC      NeighborType = "mac"
	NeighborIP       NeighborType = "ip"
	NeighborUnknown  NeighborType = "unknown"
)

// LLDPNeighbor is one adjacency learned via LLDP or CDP.
type LLDPNeighbor struct {
	Device          string       `json:"device"`           // local device hostname
	LocalInterface  string       `json:"local_interface"`  // canonical long form
	RemoteName      string       `json:"remote_name"`      // remote system identifier
	RemoteInterface string       `json:"remote_interface"` // canonical long form when parseable
	RemoteType      NeighborType `json:"remote_type"`
	RemoteMgmtIP    string       `json:"remote_mgmt_ip,omitempty"`
	RemotePlatform  string       `json:"remote_platform,omitempty"`
	Capabilities    []string     `json:"capabilities,omitempty"`
	Protocol        string       `json:"protocol"` // lldp or cdp
}

// Key identifies an adjacency for dedup. The same link seen by both
// LLDP and CDP collapses to one entry.
func (n *LLDPNeighbor) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s", n.Device, n.LocalInterface, n.RemoteName, n.RemoteInterface)
}
