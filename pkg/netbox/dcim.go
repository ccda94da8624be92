package netbox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const (
	devicesPath        = "/api/dcim/devices/"
	interfacesPath     = "/api/dcim/interfaces/"
	cablesPath         = "/api/dcim/cables/"
	inventoryItemsPath = "/api/dcim/inventory-items/"
	sitesPath          = "/api/dcim/sites/"
	rolesPath          = "/api/dcim/device-roles/"
	manufacturersPath  = "/api/dcim/manufacturers/"
	deviceTypesPath    = "/api/dcim/device-types/"
	platformsPath      = "/api/dcim/platforms/"
	tenantsPath        = "/api/tenancy/tenants/"
)

func itemPath(base string, id int) string {
	return fmt.Sprintf("%s%d/", base, id)
}

// ListDevices returns every device matching the filter.
func (c *Client) ListDevices(ctx context.Context, f DeviceFilter) ([]Device, error) {
	return listAll[Device](ctx, c, devicesPath, f.values())
}

// GetDeviceByName fetches one device by exact name. A missing device
// is (nil, nil), not an error.
func (c *Client) GetDeviceByName(ctx context.Context, name string) (*Device, error) {
	devs, err := listAll[Device](ctx, c, devicesPath, url.Values{"name": []string{name}})
	if err != nil {
		return nil, err
	}
	if len(devs) == 0 {
		return nil, nil
	}
	return &devs[0], nil
}

// CreateDevice creates a device and returns the stored record.
func (c *Client) CreateDevice(ctx context.Context, w DeviceWrite) (*Device, error) {
	var out Device
	if err := c.do(ctx, http.MethodPost, devicesPath, nil, w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDevice patches the given fields on a device.
func (c *Client) UpdateDevice(ctx context.Context, id int, fields map[string]any) (*Device, error) {
	var out Device
	if err := c.do(ctx, http.MethodPatch, itemPath(devicesPath, id), nil, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDevice removes a device. NetBox cascades to its interfaces,
// assignments, and inventory items.
func (c *Client) DeleteDevice(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(devicesPath, id), nil, nil, nil)
}

// SetPrimaryIP4 marks an already-assigned address as the device's
// primary IPv4.
func (c *Client) SetPrimaryIP4(ctx context.Context, deviceID, ipID int) error {
	return c.do(ctx, http.MethodPatch, itemPath(devicesPath, deviceID), nil, map[string]any{"primary_ip4": ipID}, nil)
}

// ListInterfaces returns every interface matching the filter.
func (c *Client) ListInterfaces(ctx context.Context, f InterfaceFilter) ([]Interface, error) {
	return listAll[Interface](ctx, c, interfacesPath, f.values())
}

// CreateInterface creates an interface and returns the stored record.
func (c *Client) CreateInterface(ctx context.Context, w InterfaceWrite) (*Interface, error) {
	var out Interface
	if err := c.do(ctx, http.MethodPost, interfacesPath, nil, w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateInterface patches the given fields on an interface.
func (c *Client) UpdateInterface(ctx context.Context, id int, fields map[string]any) (*Interface, error) {
	var out Interface
	if err := c.do(ctx, http.MethodPatch, itemPath(interfacesPath, id), nil, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInterface removes an interface.
func (c *Client) DeleteInterface(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(interfacesPath, id), nil, nil, nil)
}

// ListCables returns every cable matching the filter.
func (c *Client) ListCables(ctx context.Context, f CableFilter) ([]Cable, error) {
	return listAll[Cable](ctx, c, cablesPath, f.values())
}

// CreateCable creates a cable between two termination sets.
func (c *Client) CreateCable(ctx context.Context, w CableWrite) (*Cable, error) {
	var out Cable
	if err := c.do(ctx, http.MethodPost, cablesPath, nil, w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCable removes a cable.
func (c *Client) DeleteCable(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(cablesPath, id), nil, nil, nil)
}

// ListInventoryItems returns every inventory item matching the filter.
func (c *Client) ListInventoryItems(ctx context.Context, f InventoryFilter) ([]InventoryItem, error) {
	return listAll[InventoryItem](ctx, c, inventoryItemsPath, f.values())
}

// CreateInventoryItem creates an inventory item.
func (c *Client) CreateInventoryItem(ctx context.Context, w InventoryItemWrite) (*InventoryItem, error) {
	var out InventoryItem
	if err := c.do(ctx, http.MethodPost, inventoryItemsPath, nil, w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateInventoryItem patches the given fields on an inventory item.
func (c *Client) UpdateInventoryItem(ctx context.Context, id int, fields map[string]any) (*InventoryItem, error) {
	var out InventoryItem
	if err := c.do(ctx, http.MethodPatch, itemPath(inventoryItemsPath, id), nil, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInventoryItem removes an inventory item.
func (c *Client) DeleteInventoryItem(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(inventoryItemsPath, id), nil, nil, nil)
}
