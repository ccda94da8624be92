package reconcile

import (
	"context"
	"net/http"
	"sort"

	"github.com/netherd-io/netherd/pkg/netbox"
)

// fakeNetBox is an in-memory stand-in for the NetBox API. It
// satisfies both Client and Refs so one instance backs a whole run,
// and it records every write so tests can assert payloads.
type fakeNetBox struct {
	nextID int

	devices map[int]*netbox.Device
	ifaces  map[int]*netbox.Interface
	ips     map[int]*netbox.IPAddress
	vlans   map[int]*netbox.VLAN
	cables  map[int]*netbox.Cable
	items   map[int]*netbox.InventoryItem

	refs      map[string]int // kind|slug -> id
	refNames  map[int]string // id -> display name
	refSlugs  map[int]string // id -> slug
	refModels map[int]string // device type id -> model

	deviceWrites []netbox.DeviceWrite
	ifaceWrites  []netbox.InterfaceWrite
	ipWrites     []netbox.IPAddressWrite
	vlanWrites   []netbox.VLANWrite
	cableWrites  []netbox.CableWrite
	itemWrites   []netbox.InventoryItemWrite

	calls   map[string]int
	failOn  map[string]error // method -> error
	mutates int
}

func newFakeNetBox() *fakeNetBox {
	return &fakeNetBox{
		devices:   make(map[int]*netbox.Device),
		ifaces:    make(map[int]*netbox.Interface),
		ips:       make(map[int]*netbox.IPAddress),
		vlans:     make(map[int]*netbox.VLAN),
		cables:    make(map[int]*netbox.Cable),
		items:     make(map[int]*netbox.InventoryItem),
		refs:      make(map[string]int),
		refNames:  make(map[int]string),
		refSlugs:  make(map[int]string),
		refModels: make(map[int]string),
		calls:     make(map[string]int),
		failOn:    make(map[string]error),
	}
}

func (f *fakeNetBox) id() int {
	f.nextID++
	return f.nextID
}

func (f *fakeNetBox) check(method string, mutating bool) error {
	f.calls[method]++
	if mutating {
		f.mutates++
	}
	return f.failOn[method]
}

func authErr() error {
	return &netbox.APIError{Method: http.MethodPost, Path: "/api/dcim/devices/", Status: 401, Detail: "invalid token"}
}

func (f *fakeNetBox) refID(kind, name string) int {
	key := kind + "|" + netbox.Slugify(name)
	if id, ok := f.refs[key]; ok {
		return id
	}
	id := f.id()
	f.refs[key] = id
	f.refNames[id] = name
	f.refSlugs[id] = netbox.Slugify(name)
	return id
}

func (f *fakeNetBox) ref(id int) *netbox.Ref {
	if id == 0 {
		return nil
	}
	return &netbox.Ref{ID: id, Name: f.refNames[id], Slug: f.refSlugs[id]}
}

// Refs implementation.

func (f *fakeNetBox) Site(ctx context.Context, name string) (int, error) {
	return f.refID("site", name), nil
}

func (f *fakeNetBox) Role(ctx context.Context, name string) (int, error) {
	return f.refID("role", name), nil
}

func (f *fakeNetBox) Platform(ctx context.Context, name string) (int, error) {
	return f.refID("platform", name), nil
}

func (f *fakeNetBox) Manufacturer(ctx context.Context, name string) (int, error) {
	return f.refID("manufacturer", name), nil
}

func (f *fakeNetBox) Tenant(ctx context.Context, name string) (int, error) {
	return f.refID("tenant", name), nil
}

func (f *fakeNetBox) DeviceType(ctx context.Context, manufacturer, model string) (int, error) {
	id := f.refID("devicetype", model)
	f.refModels[id] = model
	return id, nil
}

// Device CRUD.

func (f *fakeNetBox) ListDevices(ctx context.Context, filter netbox.DeviceFilter) ([]netbox.Device, error) {
	if err := f.check("ListDevices", false); err != nil {
		return nil, err
	}
	var out []netbox.Device
	for _, d := range f.devices {
		if filter.Tenant != "" && refSlug(d.Tenant) != filter.Tenant {
			continue
		}
		if filter.Name != "" && d.Name != filter.Name {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeNetBox) GetDeviceByName(ctx context.Context, name string) (*netbox.Device, error) {
	if err := f.check("GetDeviceByName", false); err != nil {
		return nil, err
	}
	for _, d := range f.devices {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeNetBox) CreateDevice(ctx context.Context, w netbox.DeviceWrite) (*netbox.Device, error) {
	if err := f.check("CreateDevice", true); err != nil {
		return nil, err
	}
	f.deviceWrites = append(f.deviceWrites, w)
	d := &netbox.Device{
		ID:       f.id(),
		Name:     w.Name,
		Serial:   w.Serial,
		Site:     f.ref(w.Site),
		Role:     f.ref(w.Role),
		Platform: f.ref(w.Platform),
		Tenant:   f.ref(w.Tenant),
	}
	if w.DeviceType > 0 {
		d.DeviceType = &netbox.DeviceTypeRef{ID: w.DeviceType, Model: f.refModels[w.DeviceType]}
	}
	if w.Status != "" {
		d.Status = &netbox.Choice{Value: w.Status}
	}
	f.devices[d.ID] = d
	cp := *d
	return &cp, nil
}

func (f *fakeNetBox) UpdateDevice(ctx context.Context, id int, fields map[string]any) (*netbox.Device, error) {
	if err := f.check("UpdateDevice", true); err != nil {
		return nil, err
	}
	d, ok := f.devices[id]
	if !ok {
		return nil, &netbox.APIError{Method: http.MethodPatch, Path: "/api/dcim/devices/", Status: 404}
	}
	for k, v := range fields {
		switch k {
		case "site":
			d.Site = f.ref(v.(int))
		case "role":
			d.Role = f.ref(v.(int))
		case "platform":
			if v == nil {
				d.Platform = nil
			} else {
				d.Platform = f.ref(v.(int))
			}
		case "serial":
			d.Serial = v.(string)
		}
	}
	cp := *d
	return &cp, nil
}

func (f *fakeNetBox) DeleteDevice(ctx context.Context, id int) error {
	if err := f.check("DeleteDevice", true); err != nil {
		return err
	}
	delete(f.devices, id)
	for iid, i := range f.ifaces {
		if i.Device.ID == id {
			delete(f.ifaces, iid)
		}
	}
	return nil
}

func (f *fakeNetBox) SetPrimaryIP4(ctx context.Context, deviceID, ipID int) error {
	if err := f.check("SetPrimaryIP4", true); err != nil {
		return err
	}
	d, ok := f.devices[deviceID]
	if !ok {
		return &netbox.APIError{Method: http.MethodPatch, Path: "/api/dcim/devices/", Status: 404}
	}
	ref := &netbox.IPRef{ID: ipID}
	if ip, ok := f.ips[ipID]; ok {
		ref.Address = ip.Address
	}
	d.PrimaryIP4 = ref
	return nil
}

// Interface CRUD.

func (f *fakeNetBox) ListInterfaces(ctx context.Context, filter netbox.InterfaceFilter) ([]netbox.Interface, error) {
	if err := f.check("ListInterfaces", false); err != nil {
		return nil, err
	}
	var out []netbox.Interface
	for _, i := range f.ifaces {
		if filter.DeviceID > 0 && i.Device.ID != filter.DeviceID {
			continue
		}
		out = append(out, *i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeNetBox) vlanRef(id int) *netbox.VLANRef {
	if id == 0 {
		return nil
	}
	if v, ok := f.vlans[id]; ok {
		return &netbox.VLANRef{ID: id, VID: v.VID, Name: v.Name}
	}
	return &netbox.VLANRef{ID: id}
}

func (f *fakeNetBox) CreateInterface(ctx context.Context, w netbox.InterfaceWrite) (*netbox.Interface, error) {
	if err := f.check("CreateInterface", true); err != nil {
		return nil, err
	}
	f.ifaceWrites = append(f.ifaceWrites, w)
	dev, ok := f.devices[w.Device]
	if !ok {
		return nil, &netbox.APIError{Method: http.MethodPost, Path: "/api/dcim/interfaces/", Status: 400, Detail: "unknown device"}
	}
	i := &netbox.Interface{
		ID:          f.id(),
		Device:      netbox.Ref{ID: dev.ID, Name: dev.Name},
		Name:        w.Name,
		Enabled:     w.Enabled,
		MTU:         w.MTU,
		MACAddress:  w.MACAddress,
		Description: w.Description,
	}
	if w.Type != "" {
		i.Type = &netbox.Choice{Value: w.Type}
	}
	if w.Mode != "" {
		i.Mode = &netbox.Choice{Value: w.Mode}
	}
	i.UntaggedVLAN = f.vlanRef(w.UntaggedVLAN)
	for _, id := range w.TaggedVLANs {
		i.TaggedVLANs = append(i.TaggedVLANs, *f.vlanRef(id))
	}
	if w.LAG > 0 {
		name := ""
		if parent, ok := f.ifaces[w.LAG]; ok {
			name = parent.Name
		}
		i.LAG = &netbox.InterfaceRef{ID: w.LAG, Name: name}
	}
	f.ifaces[i.ID] = i
	cp := *i
	return &cp, nil
}

func (f *fakeNetBox) UpdateInterface(ctx context.Context, id int, fields map[string]any) (*netbox.Interface, error) {
	if err := f.check("UpdateInterface", true); err != nil {
		return nil, err
	}
	i, ok := f.ifaces[id]
	if !ok {
		return nil, &netbox.APIError{Method: http.MethodPatch, Path: "/api/dcim/interfaces/", Status: 404}
	}
	for k, v := range fields {
		switch k {
		case "type":
			i.Type = &netbox.Choice{Value: v.(string)}
		case "enabled":
			i.Enabled = v.(bool)
		case "mtu":
			i.MTU = v.(int)
		case "mac_address":
			i.MACAddress = v.(string)
		case "description":
			i.Description = v.(string)
		case "mode":
			i.Mode = &netbox.Choice{Value: v.(string)}
		case "untagged_vlan":
			if v == nil {
				i.UntaggedVLAN = nil
			} else {
				i.UntaggedVLAN = f.vlanRef(v.(int))
			}
		case "tagged_vlans":
			i.TaggedVLANs = nil
			for _, vid := range v.([]int) {
				i.TaggedVLANs = append(i.TaggedVLANs, *f.vlanRef(vid))
			}
		case "lag":
			if v == nil {
				i.LAG = nil
			} else {
				lagID := v.(int)
				name := ""
				if parent, ok := f.ifaces[lagID]; ok {
					name = parent.Name
				}
				i.LAG = &netbox.InterfaceRef{ID: lagID, Name: name}
			}
		}
	}
	cp := *i
	return &cp, nil
}

func (f *fakeNetBox) DeleteInterface(ctx context.Context, id int) error {
	if err := f.check("DeleteInterface", true); err != nil {
		return err
	}
	delete(f.ifaces, id)
	for ipID, ip := range f.ips {
		if ip.AssignedObjectType == netbox.ObjectTypeInterface && ip.AssignedObjectID == id {
			delete(f.ips, ipID)
		}
	}
	return nil
}

// IP CRUD.

func (f *fakeNetBox) ListIPAddresses(ctx context.Context, filter netbox.IPFilter) ([]netbox.IPAddress, error) {
	if err := f.check("ListIPAddresses", false); err != nil {
		return nil, err
	}
	var out []netbox.IPAddress
	for _, ip := range f.ips {
		if filter.DeviceID > 0 {
			iface, ok := f.ifaces[ip.AssignedObjectID]
			if !ok || iface.Device.ID != filter.DeviceID {
				continue
			}
		}
		out = append(out, *ip)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

func (f *fakeNetBox) CreateIPAddress(ctx context.Context, w netbox.IPAddressWrite) (*netbox.IPAddress, error) {
	if err := f.check("CreateIPAddress", true); err != nil {
		return nil, err
	}
	f.ipWrites = append(f.ipWrites, w)
	ip := &netbox.IPAddress{
		ID:                 f.id(),
		Address:            w.Address,
		AssignedObjectType: w.AssignedObjectType,
		AssignedObjectID:   w.AssignedObjectID,
	}
	if w.Status != "" {
		ip.Status = &netbox.Choice{Value: w.Status}
	}
	f.ips[ip.ID] = ip
	cp := *ip
	return &cp, nil
}

func (f *fakeNetBox) DeleteIPAddress(ctx context.Context, id int) error {
	if err := f.check("DeleteIPAddress", true); err != nil {
		return err
	}
	delete(f.ips, id)
	return nil
}

// VLAN CRUD.

func (f *fakeNetBox) ListVLANs(ctx context.Context, filter netbox.VLANFilter) ([]netbox.VLAN, error) {
	if err := f.check("ListVLANs", false); err != nil {
		return nil, err
	}
	var out []netbox.VLAN
	for _, v := range f.vlans {
		if filter.Site != "" && refSlug(v.Site) != filter.Site {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VID < out[j].VID })
	return out, nil
}

func (f *fakeNetBox) CreateVLAN(ctx context.Context, w netbox.VLANWrite) (*netbox.VLAN, error) {
	if err := f.check("CreateVLAN", true); err != nil {
		return nil, err
	}
	f.vlanWrites = append(f.vlanWrites, w)
	v := &netbox.VLAN{
		ID:     f.id(),
		VID:    w.VID,
		Name:   w.Name,
		Site:   f.ref(w.Site),
		Tenant: f.ref(w.Tenant),
	}
	if w.Status != "" {
		v.Status = &netbox.Choice{Value: w.Status}
	}
	f.vlans[v.ID] = v
	cp := *v
	return &cp, nil
}

func (f *fakeNetBox) UpdateVLAN(ctx context.Context, id int, fields map[string]any) (*netbox.VLAN, error) {
	if err := f.check("UpdateVLAN", true); err != nil {
		return nil, err
	}
	v, ok := f.vlans[id]
	if !ok {
		return nil, &netbox.APIError{Method: http.MethodPatch, Path: "/api/ipam/vlans/", Status: 404}
	}
	if name, ok := fields["name"]; ok {
		v.Name = name.(string)
	}
	cp := *v
	return &cp, nil
}

func (f *fakeNetBox) DeleteVLAN(ctx context.Context, id int) error {
	if err := f.check("DeleteVLAN", true); err != nil {
		return err
	}
	delete(f.vlans, id)
	return nil
}

// Cable CRUD.

func (f *fakeNetBox) ListCables(ctx context.Context, filter netbox.CableFilter) ([]netbox.Cable, error) {
	if err := f.check("ListCables", false); err != nil {
		return nil, err
	}
	var out []netbox.Cable
	for _, c := range f.cables {
		if filter.Site != "" && !f.cableInSite(c, filter.Site) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeNetBox) cableInSite(c *netbox.Cable, site string) bool {
	for _, t := range append(append([]netbox.CableTermination{}, c.ATerminations...), c.BTerminations...) {
		iface, ok := f.ifaces[t.ObjectID]
		if !ok {
			continue
		}
		dev, ok := f.devices[iface.Device.ID]
		if ok && refSlug(dev.Site) == site {
			return true
		}
	}
	return false
}

func (f *fakeNetBox) CreateCable(ctx context.Context, w netbox.CableWrite) (*netbox.Cable, error) {
	if err := f.check("CreateCable", true); err != nil {
		return nil, err
	}
	f.cableWrites = append(f.cableWrites, w)
	c := &netbox.Cable{
		ID:            f.id(),
		ATerminations: w.ATerminations,
		BTerminations: w.BTerminations,
	}
	if w.Status != "" {
		c.Status = &netbox.Choice{Value: w.Status}
	}
	f.cables[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeNetBox) DeleteCable(ctx context.Context, id int) error {
	if err := f.check("DeleteCable", true); err != nil {
		return err
	}
	delete(f.cables, id)
	return nil
}

// Inventory CRUD.

func (f *fakeNetBox) ListInventoryItems(ctx context.Context, filter netbox.InventoryFilter) ([]netbox.InventoryItem, error) {
	if err := f.check("ListInventoryItems", false); err != nil {
		return nil, err
	}
	var out []netbox.InventoryItem
	for _, item := range f.items {
		if filter.DeviceID > 0 && item.Device.ID != filter.DeviceID {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeNetBox) CreateInventoryItem(ctx context.Context, w netbox.InventoryItemWrite) (*netbox.InventoryItem, error) {
	if err := f.check("CreateInventoryItem", true); err != nil {
		return nil, err
	}
	f.itemWrites = append(f.itemWrites, w)
	dev, ok := f.devices[w.Device]
	if !ok {
		return nil, &netbox.APIError{Method: http.MethodPost, Path: "/api/dcim/inventory-items/", Status: 400, Detail: "unknown device"}
	}
	item := &netbox.InventoryItem{
		ID:          f.id(),
		Device:      netbox.Ref{ID: dev.ID, Name: dev.Name},
		Name:        w.Name,
		PartID:      w.PartID,
		Serial:      w.Serial,
		Description: w.Description,
		Discovered:  w.Discovered,
	}
	if w.Manufacturer > 0 {
		item.Manufacturer = f.ref(w.Manufacturer)
	}
	f.items[item.ID] = item
	cp := *item
	return &cp, nil
}

func (f *fakeNetBox) UpdateInventoryItem(ctx context.Context, id int, fields map[string]any) (*netbox.InventoryItem, error) {
	if err := f.check("UpdateInventoryItem", true); err != nil {
		return nil, err
	}
	item, ok := f.items[id]
	if !ok {
		return nil, &netbox.APIError{Method: http.MethodPatch, Path: "/api/dcim/inventory-items/", Status: 404}
	}
	for k, v := range fields {
		switch k {
		case "name":
			item.Name = v.(string)
		case "description":
			item.Description = v.(string)
		}
	}
	cp := *item
	return &cp, nil
}

func (f *fakeNetBox) DeleteInventoryItem(ctx context.Context, id int) error {
	if err := f.check("DeleteInventoryItem", true); err != nil {
		return err
	}
	delete(f.items, id)
	return nil
}

// seedDevice plants a device with resolved refs, returning its id.
func (f *fakeNetBox) seedDevice(name, site, role, platform, tenant, serial string) int {
	d := &netbox.Device{
		ID:     f.id(),
		Name:   name,
		Serial: serial,
		Status: &netbox.Choice{Value: "active"},
	}
	if site != "" {
		d.Site = f.ref(f.refID("site", site))
	}
	if role != "" {
		d.Role = f.ref(f.refID("role", role))
	}
	if platform != "" {
		d.Platform = f.ref(f.refID("platform", platform))
	}
	if tenant != "" {
		d.Tenant = f.ref(f.refID("tenant", tenant))
	}
	f.devices[d.ID] = d
	return d.ID
}

// seedInterface plants an interface on a device, returning its id.
func (f *fakeNetBox) seedInterface(deviceID int, name, typ string, enabled bool) int {
	dev := f.devices[deviceID]
	i := &netbox.Interface{
		ID:      f.id(),
		Device:  netbox.Ref{ID: dev.ID, Name: dev.Name},
		Name:    name,
		Enabled: enabled,
	}
	if typ != "" {
		i.Type = &netbox.Choice{Value: typ}
	}
	f.ifaces[i.ID] = i
	return i.ID
}

func (f *fakeNetBox) interfaceByName(deviceID int, name string) *netbox.Interface {
	for _, i := range f.ifaces {
		if i.Device.ID == deviceID && i.Name == name {
			return i
		}
	}
	return nil
}

func (f *fakeNetBox) deviceByName(name string) *netbox.Device {
	for _, d := range f.devices {
		if d.Name == name {
			return d
		}
	}
	return nil
}

var _ Client = (*fakeNetBox)(nil)
var _ Refs = (*fakeNetBox)(nil)
