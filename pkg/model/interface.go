package model

import (
	"fmt"
	"sort"
)

// PortType classifies an interface into a platform-neutral hardware class.
type PortType string

const (
	PortAccessCopper PortType = "access-copper"
	PortSFP          PortType = "sfp"
	PortSFPPlus      PortType = "sfp+"
	PortSFP28        PortType = "sfp28"
	PortQSFP28       PortType = "qsfp28"
	PortQSFPDD       PortType = "qsfpdd"
	PortLAG          PortType = "lag"
	PortVirtual      PortType = "virtual"
	PortLoopback     PortType = "loopback"
	PortMgmt         PortType = "mgmt"
	PortUnknown      PortType = "unknown"
)

// SwitchMode is the L2 switching mode of an interface.
type SwitchMode string

const (
	ModeAccess    SwitchMode = "access"
	ModeTagged    SwitchMode = "tagged"
	ModeTaggedAll SwitchMode = "tagged-all"
	ModeUnset     SwitchMode = "unset"
)

// Interface is the canonical interface record.
type Interface struct {
	Name        string   `json:"name"`            // canonical long form, e.g. "GigabitEthernet0/1"
	Short       string   `json:"short"`           // derived short form, e.g. "Gi0/1"
	Aliases     []string `json:"aliases"`         // every form other sources may use
	Device      string   `json:"device"`          // owning device hostname
	Enabled     bool     `json:"enabled"`
	Description string   `json:"description,omitempty"`
	MAC         string   `json:"mac,omitempty"`
	MTU         int      `json:"mtu,omitempty"`
	Speed       int64    `json:"speed,omitempty"` // bits per second
	IP4         string   `json:"ip4,omitempty"`   // with prefix length
	IP6         string   `json:"ip6,omitempty"`
	Media       string   `json:"media,omitempty"` // transceiver hint, e.g. "SFP-10GBase-LR"

	PortType PortType `json:"port_type"`
	NBType   string   `json:"nb_type"` // inventory-system type string

	Mode         SwitchMode `json:"mode"`
	UntaggedVLAN int        `json:"untagged_vlan,omitempty"` // 0 = unset
	TaggedVLANs  []int      `json:"tagged_vlans,omitempty"`  // sorted, set semantics
	LAGParent    string     `json:"lag_parent,omitempty"`    // canonical parent name
}

// IsLAG reports whether this interface is itself a link aggregation group.
func (i *Interface) IsLAG() bool {
	return i.PortType == PortLAG
}

// IsLAGMember reports whether this interface belongs to a LAG.
func (i *Interface) IsLAGMember() bool {
	return i.LAGParent != ""
}

// SortVLANs normalizes TaggedVLANs into sorted set form.
func (i *Interface) SortVLANs() {
	if len(i.TaggedVLANs) < 2 {
		return
	}
	sort.Ints(i.TaggedVLANs)
	out := i.TaggedVLANs[:1]
	for _, v := range i.TaggedVLANs[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	i.TaggedVLANs = out
}

// Validate enforces the canonical record invariants.
func (i *Interface) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("interface on %s: name is empty", i.Device)
	}
	if i.Mode == ModeAccess && len(i.TaggedVLANs) > 0 {
		return fmt.Errorf("interface %s: access mode with tagged VLANs", i.Name)
	}
	if i.Mode == ModeTaggedAll && len(i.TaggedVLANs) > 0 {
		return fmt.Errorf("interface %s: tagged-all mode with explicit tagged VLANs", i.Name)
	}
	if i.PortType == PortLAG && i.LAGParent != "" {
		return fmt.Errorf("interface %s: LAG cannot have a LAG parent", i.Name)
	}
	if i.UntaggedVLAN != 0 && (i.UntaggedVLAN < 1 || i.UntaggedVLAN > 4094) {
		return fmt.Errorf("interface %s: untagged VLAN %d out of range", i.Name, i.UntaggedVLAN)
	}
	for _, v := range i.TaggedVLANs {
		if v < 1 || v > 4094 {
			return fmt.Errorf("interface %s: tagged VLAN %d out of range", i.Name, v)
		}
	}
	return nil
}
