package reconcile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/netherd-io/netherd/pkg/ifname"
	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/netbox"
	"github.com/netherd-io/netherd/pkg/util"
)

// Input carries the collected records for one run plus the fleet
// records the collection ran over. Site and Role backfill fleet
// entries that carry neither.
type Input struct {
	Devices    []model.Device
	Facts      []model.DeviceFacts
	Interfaces []model.Interface
	Neighbors  []model.LLDPNeighbor
	Inventory  []model.InventoryItem
	Site       string
	Role       string
}

// DesiredDevice is the target shape of one device. Site, role, and
// platform are slugs; vendor and model feed reference creation and are
// not tracked for updates.
type DesiredDevice struct {
	Name     string `json:"name"`
	Site     string `json:"site,omitempty"`
	Role     string `json:"role,omitempty"`
	Platform string `json:"platform,omitempty"`
	Vendor   string `json:"vendor,omitempty"`
	Model    string `json:"model,omitempty"`
	Serial   string `json:"serial,omitempty"`
	Status   string `json:"status,omitempty"`
}

// DesiredInterface is the target shape of one interface. Site is the
// owning device's site, carried along so VLAN links resolve at apply
// time; it is not a tracked field.
type DesiredInterface struct {
	Device       string `json:"device"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Enabled      bool   `json:"enabled"`
	MTU          int    `json:"mtu,omitempty"`
	MAC          string `json:"mac,omitempty"`
	Description  string `json:"description,omitempty"`
	Mode         string `json:"mode,omitempty"`
	UntaggedVLAN int    `json:"untagged_vlan,omitempty"`
	TaggedVLANs  []int  `json:"tagged_vlans,omitempty"`
	LAGParent    string `json:"lag_parent,omitempty"`
	Site         string `json:"site,omitempty"`
}

// DesiredIP is the target shape of one interface address.
type DesiredIP struct {
	Device    string `json:"device"`
	Interface string `json:"interface"`
	Address   string `json:"address"`
	Primary   bool   `json:"primary"`
}

// DesiredVLAN is the target shape of one VLAN, derived from SVIs.
type DesiredVLAN struct {
	Site string `json:"site,omitempty"`
	VID  int    `json:"vid"`
	Name string `json:"name"`
}

// DesiredCable is one physical link learned from neighbor discovery.
// Endpoints are stored in lexical order so both directions of the same
// link collapse to one record.
type DesiredCable struct {
	ADevice    string `json:"a_device"`
	AInterface string `json:"a_interface"`
	BDevice    string `json:"b_device"`
	BInterface string `json:"b_interface"`
	Status     string `json:"status,omitempty"`
}

// DesiredInventory is the target shape of one inventory item.
type DesiredInventory struct {
	Device      string `json:"device"`
	Name        string `json:"name"`
	PartID      string `json:"part_id,omitempty"`
	Serial      string `json:"serial,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	Description string `json:"description,omitempty"`
}

// Desired is the full target state for one run, each kind keyed by its
// natural key.
type Desired struct {
	Devices    map[string]DesiredDevice
	Interfaces map[string]DesiredInterface
	IPs        map[string]DesiredIP
	VLANs      map[string]DesiredVLAN
	Cables     map[string]DesiredCable
	Inventory  map[string]DesiredInventory
}

// DeviceNames returns the desired device names, sorted.
func (d *Desired) DeviceNames() []string {
	names := make([]string, 0, len(d.Devices))
	for name := range d.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ifaceKey(device, name string) string { return device + "|" + name }

func ipKey(device, iface, addr string) string { return device + "|" + iface + "|" + addr }

func vlanKey(site string, vid int) string { return site + "|" + strconv.Itoa(vid) }

func invKey(device, part, serial string) string { return device + "|" + part + "|" + serial }

func cableKey(c DesiredCable) string {
	return c.ADevice + "|" + c.AInterface + "~" + c.BDevice + "|" + c.BInterface
}

// orderCable puts the lexically smaller endpoint first so the key is
// direction-independent.
func orderCable(c DesiredCable) DesiredCable {
	a := c.ADevice + "|" + c.AInterface
	b := c.BDevice + "|" + c.BInterface
	if a > b {
		c.ADevice, c.BDevice = c.BDevice, c.ADevice
		c.AInterface, c.BInterface = c.BInterface, c.AInterface
	}
	return c
}

// BuildDesired assembles the target state from collected records. A
// device's NetBox name is its reported hostname, falling back to the
// fleet display name; records from devices that produced no facts are
// dropped, since nothing can be written under an unknown name.
func BuildDesired(in Input) *Desired {
	d := &Desired{
		Devices:    make(map[string]DesiredDevice),
		Interfaces: make(map[string]DesiredInterface),
		IPs:        make(map[string]DesiredIP),
		VLANs:      make(map[string]DesiredVLAN),
		Cables:     make(map[string]DesiredCable),
		Inventory:  make(map[string]DesiredInventory),
	}

	factsByHost := make(map[string]model.DeviceFacts, len(in.Facts))
	for _, f := range in.Facts {
		factsByHost[f.Device] = f
	}

	// rename maps a record's Device field (the fleet display name) to
	// the NetBox device name.
	rename := make(map[string]string, len(in.Devices))
	mgmtByName := make(map[string]string, len(in.Devices))
	siteByName := make(map[string]string, len(in.Devices))

	for _, dev := range in.Devices {
		facts, ok := factsByHost[dev.Host]
		if !ok {
			continue
		}
		name := facts.Hostname
		if name == "" {
			name = dev.DisplayName()
		}

		site := dev.Site
		if site == "" {
			site = in.Site
		}
		role := dev.Role
		if role == "" {
			role = in.Role
		}
		modelName := facts.Model
		if modelName == "" {
			modelName = dev.DeviceType
		}
		if modelName == "" {
			modelName = "unknown"
		}
		vendor := facts.Vendor
		if vendor == "" {
			vendor = "Generic"
		}

		d.Devices[name] = DesiredDevice{
			Name:     name,
			Site:     netbox.Slugify(site),
			Role:     netbox.Slugify(role),
			Platform: netbox.Slugify(dev.Platform),
			Vendor:   vendor,
			Model:    modelName,
			Serial:   facts.Serial,
			Status:   "active",
		}
		rename[dev.DisplayName()] = name
		mgmtByName[name] = facts.MgmtIP
		siteByName[name] = netbox.Slugify(site)
	}

	for _, iface := range in.Interfaces {
		devName, ok := rename[iface.Device]
		if !ok {
			continue
		}
		site := siteByName[devName]

		mac := iface.MAC
		if mac != "" {
			if canon, err := util.CanonicalMAC(mac); err == nil {
				mac = canon
			}
		}
		tagged := append([]int(nil), iface.TaggedVLANs...)
		sort.Ints(tagged)

		mode := ""
		if iface.Mode != model.ModeUnset && iface.Mode != "" {
			mode = string(iface.Mode)
		}

		d.Interfaces[ifaceKey(devName, iface.Name)] = DesiredInterface{
			Device:       devName,
			Name:         iface.Name,
			Type:         iface.NBType,
			Enabled:      iface.Enabled,
			MTU:          iface.MTU,
			MAC:          mac,
			Description:  iface.Description,
			Mode:         mode,
			UntaggedVLAN: iface.UntaggedVLAN,
			TaggedVLANs:  tagged,
			LAGParent:    iface.LAGParent,
			Site:         site,
		}

		for _, addr := range []string{iface.IP4, iface.IP6} {
			if addr == "" {
				continue
			}
			host, _ := util.SplitIPMask(addr)
			d.IPs[ipKey(devName, iface.Name, addr)] = DesiredIP{
				Device:    devName,
				Interface: iface.Name,
				Address:   addr,
				Primary:   host != "" && host == mgmtByName[devName],
			}
		}

		if vid, ok := ifname.SVIVID(iface.Name); ok {
			name := iface.Description
			if name == "" {
				name = fmt.Sprintf("VLAN %d", vid)
			}
			key := vlanKey(site, vid)
			// A described SVI names the VLAN; the generated name only
			// fills gaps.
			if cur, exists := d.VLANs[key]; !exists || cur.Name == fmt.Sprintf("VLAN %d", vid) {
				d.VLANs[key] = DesiredVLAN{Site: site, VID: vid, Name: name}
			}
		}
	}

	// Cables need both ends to be fleet devices we collected; neighbor
	// names arrive domain-stripped, so match case-insensitively.
	byLower := make(map[string]string, len(d.Devices))
	for name := range d.Devices {
		byLower[strings.ToLower(name)] = name
	}
	for _, n := range in.Neighbors {
		localDev, ok := rename[n.Device]
		if !ok || n.LocalInterface == "" || n.RemoteInterface == "" {
			continue
		}
		remoteDev, ok := byLower[strings.ToLower(n.RemoteName)]
		if !ok {
			continue
		}
		cable := orderCable(DesiredCable{
			ADevice:    localDev,
			AInterface: n.LocalInterface,
			BDevice:    remoteDev,
			BInterface: ifname.Normalize(n.RemoteInterface),
			Status:     "connected",
		})
		d.Cables[cableKey(cable)] = cable
	}

	for _, item := range in.Inventory {
		devName, ok := rename[item.Device]
		if !ok {
			continue
		}
		// NetBox rejects blank names; fall back through part id.
		name := item.Slot
		if name == "" {
			name = item.PartID
		}
		if name == "" {
			name = "module"
		}
		d.Inventory[invKey(devName, item.PartID, item.Serial)] = DesiredInventory{
			Device:      devName,
			Name:        name,
			PartID:      item.PartID,
			Serial:      item.Serial,
			Vendor:      item.Vendor,
			Description: item.Description,
		}
	}

	return d
}

// compareDevices tracks site, role, platform, and serial.
func compareDevices(have, want DesiredDevice) []FieldDelta {
	var deltas []FieldDelta
	deltas = delta(deltas, "site", have.Site, want.Site)
	deltas = delta(deltas, "role", have.Role, want.Role)
	deltas = delta(deltas, "platform", have.Platform, want.Platform)
	deltas = delta(deltas, "serial", have.Serial, want.Serial)
	return deltas
}

// compareInterfaces tracks type, enabled, description, switching mode
// and VLANs, LAG membership, MTU, and MAC. Fields the collector did
// not fill (empty type, zero MTU, empty MAC or description, unset
// mode) never generate deltas, so NetBox-side values survive.
func compareInterfaces(have, want DesiredInterface) []FieldDelta {
	var deltas []FieldDelta
	if want.Type != "" {
		deltas = delta(deltas, "type", have.Type, want.Type)
	}
	deltas = delta(deltas, "enabled", strconv.FormatBool(have.Enabled), strconv.FormatBool(want.Enabled))
	if want.MTU != 0 {
		deltas = delta(deltas, "mtu", strconv.Itoa(have.MTU), strconv.Itoa(want.MTU))
	}
	if want.MAC != "" {
		deltas = delta(deltas, "mac_address", have.MAC, want.MAC)
	}
	if want.Description != "" {
		deltas = delta(deltas, "description", have.Description, want.Description)
	}
	if want.Mode != "" {
		deltas = delta(deltas, "mode", have.Mode, want.Mode)
		deltas = delta(deltas, "untagged_vlan", strconv.Itoa(have.UntaggedVLAN), strconv.Itoa(want.UntaggedVLAN))
		deltas = delta(deltas, "tagged_vlans", util.CompactRange(have.TaggedVLANs), util.CompactRange(want.TaggedVLANs))
	}
	deltas = delta(deltas, "lag", have.LAGParent, want.LAGParent)
	return deltas
}

// compareIPs tracks only the primary flag, and only in the claiming
// direction: making an address primary displaces the old one on the
// device, so the reverse transition needs no action of its own.
func compareIPs(have, want DesiredIP) []FieldDelta {
	var deltas []FieldDelta
	if want.Primary && !have.Primary {
		deltas = delta(deltas, "primary", "false", "true")
	}
	return deltas
}

// compareVLANs tracks the name.
func compareVLANs(have, want DesiredVLAN) []FieldDelta {
	var deltas []FieldDelta
	deltas = delta(deltas, "name", have.Name, want.Name)
	return deltas
}

// compareCables tracks nothing: a cable either connects the right
// endpoints or is a different cable.
func compareCables(have, want DesiredCable) []FieldDelta {
	return nil
}

// compareInventory tracks the slot name and description.
func compareInventory(have, want DesiredInventory) []FieldDelta {
	var deltas []FieldDelta
	deltas = delta(deltas, "name", have.Name, want.Name)
	deltas = delta(deltas, "description", have.Description, want.Description)
	return deltas
}
