package netbox

import (
	"net/url"
	"strconv"
)

// Ref is a nested reference object as NetBox returns it inside other
// records. Only the fields reconciliation reads are kept.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// DeviceTypeRef is the nested device-type shape; it carries a model
// string where other references carry a name.
type DeviceTypeRef struct {
	ID    int    `json:"id"`
	Model string `json:"model,omitempty"`
	Slug  string `json:"slug,omitempty"`
}

// Choice is a value/label pair used for status, interface type, and
// 802.1Q mode fields. Writes send the bare value string.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// Val returns the choice value, tolerating a nil receiver so callers
// can compare unset fields directly.
func (c *Choice) Val() string {
	if c == nil {
		return ""
	}
	return c.Value
}

// IPRef is the nested IP shape on a device's primary_ip4.
type IPRef struct {
	ID      int    `json:"id"`
	Address string `json:"address,omitempty"`
}

// InterfaceRef is the nested interface shape on lag links.
type InterfaceRef struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// VLANRef is the nested VLAN shape on interface 802.1Q fields.
type VLANRef struct {
	ID   int    `json:"id"`
	VID  int    `json:"vid"`
	Name string `json:"name,omitempty"`
}

// Device is a dcim.device record.
type Device struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	DeviceType *DeviceTypeRef `json:"device_type,omitempty"`
	Role       *Ref           `json:"role,omitempty"`
	Tenant     *Ref           `json:"tenant,omitempty"`
	Platform   *Ref           `json:"platform,omitempty"`
	Serial     string         `json:"serial,omitempty"`
	Site       *Ref           `json:"site,omitempty"`
	Status     *Choice        `json:"status,omitempty"`
	PrimaryIP4 *IPRef         `json:"primary_ip4,omitempty"`
}

// DeviceWrite is the create payload for a device; references are ids.
type DeviceWrite struct {
	Name       string `json:"name"`
	DeviceType int    `json:"device_type"`
	Role       int    `json:"role"`
	Site       int    `json:"site"`
	Platform   int    `json:"platform,omitempty"`
	Tenant     int    `json:"tenant,omitempty"`
	Serial     string `json:"serial,omitempty"`
	Status     string `json:"status,omitempty"`
}

// DeviceFilter narrows device list calls. All fields are optional;
// site, role, and tenant match on slug.
type DeviceFilter struct {
	Name   string
	Site   string
	Role   string
	Tenant string
	Status string
}

func (f DeviceFilter) values() url.Values {
	q := url.Values{}
	setIf(q, "name", f.Name)
	setIf(q, "site", f.Site)
	setIf(q, "role", f.Role)
	setIf(q, "tenant", f.Tenant)
	setIf(q, "status", f.Status)
	return q
}

// Interface is a dcim.interface record.
type Interface struct {
	ID           int           `json:"id"`
	Device       Ref           `json:"device"`
	Name         string        `json:"name"`
	Type         *Choice       `json:"type,omitempty"`
	Enabled      bool          `json:"enabled"`
	MTU          int           `json:"mtu,omitempty"`
	MACAddress   string        `json:"mac_address,omitempty"`
	Description  string        `json:"description,omitempty"`
	Mode         *Choice       `json:"mode,omitempty"`
	UntaggedVLAN *VLANRef      `json:"untagged_vlan,omitempty"`
	TaggedVLANs  []VLANRef     `json:"tagged_vlans,omitempty"`
	LAG          *InterfaceRef `json:"lag,omitempty"`
}

// InterfaceWrite is the create payload for an interface.
type InterfaceWrite struct {
	Device       int    `json:"device"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Enabled      bool   `json:"enabled"`
	MTU          int    `json:"mtu,omitempty"`
	MACAddress   string `json:"mac_address,omitempty"`
	Description  string `json:"description,omitempty"`
	Mode         string `json:"mode,omitempty"`
	UntaggedVLAN int    `json:"untagged_vlan,omitempty"`
	TaggedVLANs  []int  `json:"tagged_vlans,omitempty"`
	LAG          int    `json:"lag,omitempty"`
}

// InterfaceFilter narrows interface list calls.
type InterfaceFilter struct {
	DeviceID int
	Device   string // device name
}

func (f InterfaceFilter) values() url.Values {
	q := url.Values{}
	if f.DeviceID > 0 {
		q.Set("device_id", strconv.Itoa(f.DeviceID))
	}
	setIf(q, "device", f.Device)
	return q
}

// IPAddress is an ipam.ipaddress record. Interface assignments carry
// assigned_object_type "dcim.interface".
type IPAddress struct {
	ID                 int     `json:"id"`
	Address            string  `json:"address"`
	Status             *Choice `json:"status,omitempty"`
	AssignedObjectType string  `json:"assigned_object_type,omitempty"`
	AssignedObjectID   int     `json:"assigned_object_id,omitempty"`
}

// IPAddressWrite is the create payload for an IP address.
type IPAddressWrite struct {
	Address            string `json:"address"`
	Status             string `json:"status,omitempty"`
	AssignedObjectType string `json:"assigned_object_type,omitempty"`
	AssignedObjectID   int    `json:"assigned_object_id,omitempty"`
}

// IPFilter narrows IP address list calls.
type IPFilter struct {
	DeviceID int
	Device   string
}

func (f IPFilter) values() url.Values {
	q := url.Values{}
	if f.DeviceID > 0 {
		q.Set("device_id", strconv.Itoa(f.DeviceID))
	}
	setIf(q, "device", f.Device)
	return q
}

// VLAN is an ipam.vlan record.
type VLAN struct {
	ID     int     `json:"id"`
	VID    int     `json:"vid"`
	Name   string  `json:"name"`
	Site   *Ref    `json:"site,omitempty"`
	Tenant *Ref    `json:"tenant,omitempty"`
	Status *Choice `json:"status,omitempty"`
}

// VLANWrite is the create payload for a VLAN.
type VLANWrite struct {
	VID    int    `json:"vid"`
	Name   string `json:"name"`
	Site   int    `json:"site,omitempty"`
	Tenant int    `json:"tenant,omitempty"`
	Status string `json:"status,omitempty"`
}

// VLANFilter narrows VLAN list calls; site matches on slug.
type VLANFilter struct {
	Site string
}

func (f VLANFilter) values() url.Values {
	q := url.Values{}
	setIf(q, "site", f.Site)
	return q
}

// CableTermination names one end of a cable.
type CableTermination struct {
	ObjectType string `json:"object_type"`
	ObjectID   int    `json:"object_id"`
}

// Cable is a dcim.cable record between two sets of terminations.
type Cable struct {
	ID            int                `json:"id"`
	Status        *Choice            `json:"status,omitempty"`
	ATerminations []CableTermination `json:"a_terminations"`
	BTerminations []CableTermination `json:"b_terminations"`
}

// CableWrite is the create payload for a cable.
type CableWrite struct {
	ATerminations []CableTermination `json:"a_terminations"`
	BTerminations []CableTermination `json:"b_terminations"`
	Status        string             `json:"status,omitempty"`
}

// CableFilter narrows cable list calls; site matches on slug.
type CableFilter struct {
	Site string
}

func (f CableFilter) values() url.Values {
	q := url.Values{}
	setIf(q, "site", f.Site)
	return q
}

// InventoryItem is a dcim.inventoryitem record.
type InventoryItem struct {
	ID           int    `json:"id"`
	Device       Ref    `json:"device"`
	Name         string `json:"name"`
	Manufacturer *Ref   `json:"manufacturer,omitempty"`
	PartID       string `json:"part_id,omitempty"`
	Serial       string `json:"serial,omitempty"`
	Description  string `json:"description,omitempty"`
	Discovered   bool   `json:"discovered,omitempty"`
}

// InventoryItemWrite is the create payload for an inventory item.
type InventoryItemWrite struct {
	Device       int    `json:"device"`
	Name         string `json:"name"`
	Manufacturer int    `json:"manufacturer,omitempty"`
	PartID       string `json:"part_id,omitempty"`
	Serial       string `json:"serial,omitempty"`
	Description  string `json:"description,omitempty"`
	Discovered   bool   `json:"discovered,omitempty"`
}

// InventoryFilter narrows inventory item list calls.
type InventoryFilter struct {
	DeviceID int
	Device   string
}

func (f InventoryFilter) values() url.Values {
	q := url.Values{}
	if f.DeviceID > 0 {
		q.Set("device_id", strconv.Itoa(f.DeviceID))
	}
	setIf(q, "device", f.Device)
	return q
}

func setIf(q url.Values, key, val string) {
	if val != "" {
		q.Set(key, val)
	}
}
