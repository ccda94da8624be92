package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/netherd-io/netherd/pkg/ifname"
	"github.com/netherd-io/netherd/pkg/netbox"
	"github.com/netherd-io/netherd/pkg/util"
)

// Client is the slice of the NetBox API reconciliation drives.
// *netbox.Client satisfies it; tests swap in a fake.
type Client interface {
	ListDevices(ctx context.Context, f netbox.DeviceFilter) ([]netbox.Device, error)
	GetDeviceByName(ctx context.Context, name string) (*netbox.Device, error)
	CreateDevice(ctx context.Context, w netbox.DeviceWrite) (*netbox.Device, error)
	UpdateDevice(ctx context.Context, id int, fields map[string]any) (*netbox.Device, error)
	DeleteDevice(ctx context.Context, id int) error
	SetPrimaryIP4(ctx context.Context, deviceID, ipID int) error

	ListInterfaces(ctx context.Context, f netbox.InterfaceFilter) ([]netbox.Interface, error)
	CreateInterface(ctx context.Context, w netbox.InterfaceWrite) (*netbox.Interface, error)
	UpdateInterface(ctx context.Context, id int, fields map[string]any) (*netbox.Interface, error)
	DeleteInterface(ctx context.Context, id int) error

	ListIPAddresses(ctx context.Context, f netbox.IPFilter) ([]netbox.IPAddress, error)
	CreateIPAddress(ctx context.Context, w netbox.IPAddressWrite) (*netbox.IPAddress, error)
	DeleteIPAddress(ctx context.Context, id int) error

	ListVLANs(ctx context.Context, f netbox.VLANFilter) ([]netbox.VLAN, error)
	CreateVLAN(ctx context.Context, w netbox.VLANWrite) (*netbox.VLAN, error)
	UpdateVLAN(ctx context.Context, id int, fields map[string]any) (*netbox.VLAN, error)
	DeleteVLAN(ctx context.Context, id int) error

	ListCables(ctx context.Context, f netbox.CableFilter) ([]netbox.Cable, error)
	CreateCable(ctx context.Context, w netbox.CableWrite) (*netbox.Cable, error)
	DeleteCable(ctx context.Context, id int) error

	ListInventoryItems(ctx context.Context, f netbox.InventoryFilter) ([]netbox.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, w netbox.InventoryItemWrite) (*netbox.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, id int, fields map[string]any) (*netbox.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id int) error
}

// Scope bounds what TakeSnapshot reads. Names are fetched
// individually; a tenant widens the device set to everything the
// tenant owns so cleanup can see strays. Sites bound VLAN and cable
// listing.
type Scope struct {
	Tenant string
	Sites  []string
	Names  []string
}

type ifaceRef struct {
	Device string
	Name   string
}

// Snapshot is the observed NetBox state for one run, keyed by the
// same natural keys the desired state uses. Phases mutate it as they
// apply so later phases resolve references to rows created earlier in
// the run.
type Snapshot struct {
	Devices    map[string]netbox.Device
	Interfaces map[string]netbox.Interface
	IPs        map[string]netbox.IPAddress
	VLANs      map[string]netbox.VLAN
	Cables     map[string]netbox.Cable
	Inventory  map[string]netbox.InventoryItem

	byIfaceID map[int]ifaceRef
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Devices:    make(map[string]netbox.Device),
		Interfaces: make(map[string]netbox.Interface),
		IPs:        make(map[string]netbox.IPAddress),
		VLANs:      make(map[string]netbox.VLAN),
		Cables:     make(map[string]netbox.Cable),
		Inventory:  make(map[string]netbox.InventoryItem),
		byIfaceID:  make(map[int]ifaceRef),
	}
}

// TakeSnapshot reads the in-scope slice of NetBox. Interface names are
// canonicalized so vendor short forms line up with collected names.
func TakeSnapshot(ctx context.Context, c Client, scope Scope) (*Snapshot, error) {
	s := NewSnapshot()

	if scope.Tenant != "" {
		devs, err := c.ListDevices(ctx, netbox.DeviceFilter{Tenant: scope.Tenant})
		if err != nil {
			return nil, fmt.Errorf("listing tenant %q devices: %w", scope.Tenant, err)
		}
		for _, d := range devs {
			s.Devices[d.Name] = d
		}
	}
	for _, name := range scope.Names {
		if _, ok := s.Devices[name]; ok {
			continue
		}
		dev, err := c.GetDeviceByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("fetching device %q: %w", name, err)
		}
		if dev != nil {
			s.Devices[dev.Name] = *dev
		}
	}

	names := make([]string, 0, len(s.Devices))
	for name := range s.Devices {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dev := s.Devices[name]

		ifaces, err := c.ListInterfaces(ctx, netbox.InterfaceFilter{DeviceID: dev.ID})
		if err != nil {
			return nil, fmt.Errorf("listing interfaces of %q: %w", name, err)
		}
		for _, i := range ifaces {
			s.AddInterface(name, i)
		}

		ips, err := c.ListIPAddresses(ctx, netbox.IPFilter{DeviceID: dev.ID})
		if err != nil {
			return nil, fmt.Errorf("listing addresses of %q: %w", name, err)
		}
		for _, ip := range ips {
			if ip.AssignedObjectType != netbox.ObjectTypeInterface {
				continue
			}
			ref, ok := s.byIfaceID[ip.AssignedObjectID]
			if !ok {
				continue
			}
			s.IPs[ipKey(ref.Device, ref.Name, ip.Address)] = ip
		}

		items, err := c.ListInventoryItems(ctx, netbox.InventoryFilter{DeviceID: dev.ID})
		if err != nil {
			return nil, fmt.Errorf("listing inventory of %q: %w", name, err)
		}
		for _, item := range items {
			s.Inventory[invKey(name, item.PartID, item.Serial)] = item
		}
	}

	for _, site := range dedupSites(scope.Sites) {
		vlans, err := c.ListVLANs(ctx, netbox.VLANFilter{Site: site})
		if err != nil {
			return nil, fmt.Errorf("listing vlans of site %q: %w", site, err)
		}
		for _, v := range vlans {
			s.VLANs[vlanKey(site, v.VID)] = v
		}

		cables, err := c.ListCables(ctx, netbox.CableFilter{Site: site})
		if err != nil {
			return nil, fmt.Errorf("listing cables of site %q: %w", site, err)
		}
		for _, cab := range cables {
			if key, ok := s.cableKeyFor(cab); ok {
				s.Cables[key] = cab
			}
		}
	}

	return s, nil
}

func dedupSites(sites []string) []string {
	seen := make(map[string]bool, len(sites))
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		if site == "" || seen[site] {
			continue
		}
		seen[site] = true
		out = append(out, site)
	}
	sort.Strings(out)
	return out
}

// cableKeyFor resolves a cable's endpoints through known interfaces.
// Cables with multiple terminations per end, non-interface ends, or
// ends on devices outside the snapshot are not ours to manage.
func (s *Snapshot) cableKeyFor(cab netbox.Cable) (string, bool) {
	if len(cab.ATerminations) != 1 || len(cab.BTerminations) != 1 {
		return "", false
	}
	a, b := cab.ATerminations[0], cab.BTerminations[0]
	if a.ObjectType != netbox.ObjectTypeInterface || b.ObjectType != netbox.ObjectTypeInterface {
		return "", false
	}
	ra, ok := s.byIfaceID[a.ObjectID]
	if !ok {
		return "", false
	}
	rb, ok := s.byIfaceID[b.ObjectID]
	if !ok {
		return "", false
	}
	c := orderCable(DesiredCable{
		ADevice: ra.Device, AInterface: ra.Name,
		BDevice: rb.Device, BInterface: rb.Name,
	})
	return cableKey(c), true
}

// Device looks up an observed device by name.
func (s *Snapshot) Device(name string) (netbox.Device, bool) {
	d, ok := s.Devices[name]
	return d, ok
}

// Interface looks up an observed interface; the name is canonicalized
// first so short forms resolve.
func (s *Snapshot) Interface(device, name string) (netbox.Interface, bool) {
	i, ok := s.Interfaces[ifaceKey(device, ifname.Normalize(name))]
	return i, ok
}

// VLAN looks up an observed VLAN by site slug and id.
func (s *Snapshot) VLAN(site string, vid int) (netbox.VLAN, bool) {
	v, ok := s.VLANs[vlanKey(site, vid)]
	return v, ok
}

// AddDevice records a device, typically one just created.
func (s *Snapshot) AddDevice(d netbox.Device) {
	s.Devices[d.Name] = d
}

// AddInterface records an interface under its canonical name.
func (s *Snapshot) AddInterface(device string, i netbox.Interface) {
	name := ifname.Normalize(i.Name)
	s.Interfaces[ifaceKey(device, name)] = i
	s.byIfaceID[i.ID] = ifaceRef{Device: device, Name: name}
}

// AddVLAN records a VLAN under the given site slug.
func (s *Snapshot) AddVLAN(site string, v netbox.VLAN) {
	s.VLANs[vlanKey(site, v.VID)] = v
}

// AddIP records an interface address.
func (s *Snapshot) AddIP(device, iface string, ip netbox.IPAddress) {
	s.IPs[ipKey(device, ifname.Normalize(iface), ip.Address)] = ip
}

// RemoveDevice drops a device and everything hanging off it,
// mirroring the server-side delete cascade.
func (s *Snapshot) RemoveDevice(name string) {
	delete(s.Devices, name)
	prefix := name + "|"
	for key, i := range s.Interfaces {
		if strings.HasPrefix(key, prefix) {
			delete(s.byIfaceID, i.ID)
			delete(s.Interfaces, key)
		}
	}
	for key := range s.IPs {
		if strings.HasPrefix(key, prefix) {
			delete(s.IPs, key)
		}
	}
	for key := range s.Inventory {
		if strings.HasPrefix(key, prefix) {
			delete(s.Inventory, key)
		}
	}
	for key := range s.Cables {
		if cableTouches(key, name) {
			delete(s.Cables, key)
		}
	}
}

// RemoveInterface drops an interface, its addresses, and cables
// terminating on it.
func (s *Snapshot) RemoveInterface(device, name string) {
	name = ifname.Normalize(name)
	key := ifaceKey(device, name)
	if i, ok := s.Interfaces[key]; ok {
		delete(s.byIfaceID, i.ID)
	}
	delete(s.Interfaces, key)
	prefix := key + "|"
	for k := range s.IPs {
		if strings.HasPrefix(k, prefix) {
			delete(s.IPs, k)
		}
	}
	end := key
	for k := range s.Cables {
		before, after, _ := strings.Cut(k, "~")
		if before == end || after == end {
			delete(s.Cables, k)
		}
	}
}

func cableTouches(key, device string) bool {
	before, after, _ := strings.Cut(key, "~")
	prefix := device + "|"
	return strings.HasPrefix(before, prefix) || strings.HasPrefix(after, prefix)
}

// tenantOf returns the tenant slug owning a device, or "".
func (s *Snapshot) tenantOf(device string) string {
	d, ok := s.Devices[device]
	if !ok {
		return ""
	}
	return refSlug(d.Tenant)
}

func refSlug(r *netbox.Ref) string {
	if r == nil {
		return ""
	}
	return r.Slug
}

func refName(r *netbox.Ref) string {
	if r == nil {
		return ""
	}
	return r.Name
}

// ObservedDevices maps the snapshot's devices into comparable shape.
func (s *Snapshot) ObservedDevices() map[string]DesiredDevice {
	out := make(map[string]DesiredDevice, len(s.Devices))
	for name, d := range s.Devices {
		out[name] = DesiredDevice{
			Name:     name,
			Site:     refSlug(d.Site),
			Role:     refSlug(d.Role),
			Platform: refSlug(d.Platform),
			Serial:   d.Serial,
			Status:   d.Status.Val(),
		}
	}
	return out
}

// ObservedInterfaces maps the snapshot's interfaces into comparable
// shape. VLAN references flatten to ids, the lag link to its parent's
// canonical name.
func (s *Snapshot) ObservedInterfaces() map[string]DesiredInterface {
	out := make(map[string]DesiredInterface, len(s.Interfaces))
	for key, i := range s.Interfaces {
		device, name, _ := strings.Cut(key, "|")

		mac := i.MACAddress
		if mac != "" {
			if canon, err := util.CanonicalMAC(mac); err == nil {
				mac = canon
			}
		}
		var tagged []int
		for _, v := range i.TaggedVLANs {
			tagged = append(tagged, v.VID)
		}
		sort.Ints(tagged)
		untagged := 0
		if i.UntaggedVLAN != nil {
			untagged = i.UntaggedVLAN.VID
		}
		lag := ""
		if i.LAG != nil {
			lag = ifname.Normalize(i.LAG.Name)
		}

		out[key] = DesiredInterface{
			Device:       device,
			Name:         name,
			Type:         i.Type.Val(),
			Enabled:      i.Enabled,
			MTU:          i.MTU,
			MAC:          mac,
			Description:  i.Description,
			Mode:         i.Mode.Val(),
			UntaggedVLAN: untagged,
			TaggedVLANs:  tagged,
			LAGParent:    lag,
		}
	}
	return out
}

// ObservedIPs maps the snapshot's addresses into comparable shape.
func (s *Snapshot) ObservedIPs() map[string]DesiredIP {
	out := make(map[string]DesiredIP, len(s.IPs))
	for key, ip := range s.IPs {
		device, rest, _ := strings.Cut(key, "|")
		iface, addr, _ := strings.Cut(rest, "|")

		primary := false
		if d, ok := s.Devices[device]; ok && d.PrimaryIP4 != nil {
			primary = d.PrimaryIP4.ID == ip.ID
		}
		out[key] = DesiredIP{
			Device:    device,
			Interface: iface,
			Address:   addr,
			Primary:   primary,
		}
	}
	return out
}

// ObservedVLANs maps the snapshot's VLANs into comparable shape. The
// site comes from the key so VLANs listed through a site filter stay
// attributed to it.
func (s *Snapshot) ObservedVLANs() map[string]DesiredVLAN {
	out := make(map[string]DesiredVLAN, len(s.VLANs))
	for key, v := range s.VLANs {
		site, _, _ := strings.Cut(key, "|")
		out[key] = DesiredVLAN{Site: site, VID: v.VID, Name: v.Name}
	}
	return out
}

// ObservedCables maps the snapshot's cables into comparable shape.
func (s *Snapshot) ObservedCables() map[string]DesiredCable {
	out := make(map[string]DesiredCable, len(s.Cables))
	for key, cab := range s.Cables {
		aPart, bPart, _ := strings.Cut(key, "~")
		aDev, aIf, _ := strings.Cut(aPart, "|")
		bDev, bIf, _ := strings.Cut(bPart, "|")
		out[key] = DesiredCable{
			ADevice: aDev, AInterface: aIf,
			BDevice: bDev, BInterface: bIf,
			Status: cab.Status.Val(),
		}
	}
	return out
}

// ObservedInventory maps the snapshot's inventory into comparable
// shape.
func (s *Snapshot) ObservedInventory() map[string]DesiredInventory {
	out := make(map[string]DesiredInventory, len(s.Inventory))
	for key, item := range s.Inventory {
		device, _, _ := strings.Cut(key, "|")
		out[key] = DesiredInventory{
			Device:      device,
			Name:        item.Name,
			PartID:      item.PartID,
			Serial:      item.Serial,
			Vendor:      refName(item.Manufacturer),
			Description: item.Description,
		}
	}
	return out
}
