package model

import "fmt"

// MACEntry is a single row of a device MAC address table.
type MACEntry struct {
	Device    string `json:"device"`
	MAC       string `json:"mac"`  // canonical AA:BB:CC:DD:EE:FF
	VLAN      int    `json:"vlan"` // 0 when the platform reports none
	Interface string `json:"interface"`
	Type      string `json:"type,omitempty"` // dynamic, static, secure
}

// Key identifies an entry for dedup purposes. Two rows with the same
// key are the same forwarding entry regardless of which command
// emitted them.
func (m *MACEntry) Key() string {
	return fmt.Sprintf("%s|%d|%s|%s", m.Device, m.VLAN, m.MAC, m.Interface)
}
