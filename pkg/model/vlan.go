package model

import "fmt"

// VLAN is a VLAN derived from device configuration, usually from an
// SVI definition.
type VLAN struct {
	VID    int    `json:"vid"`
	Name   string `json:"name"`
	Site   string `json:"site,omitempty"`
	Device string `json:"device,omitempty"` // device the VLAN was learned from
}

// DisplayName returns the configured name or a generated one.
func (v *VLAN) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("VLAN %d", v.VID)
}
