package netbox

import (
	"context"
	"net/http"
)

const (
	ipAddressesPath = "/api/ipam/ip-addresses/"
	vlansPath       = "/api/ipam/vlans/"
)

// ObjectTypeInterface is the assigned_object_type for addresses that
// live on a device interface.
const ObjectTypeInterface = "dcim.interface"

// ListIPAddresses returns every IP address matching the filter.
func (c *Client) ListIPAddresses(ctx context.Context, f IPFilter) ([]IPAddress, error) {
	return listAll[IPAddress](ctx, c, ipAddressesPath, f.values())
}

// CreateIPAddress creates an IP address, optionally assigned to an
// interface via the write payload's assigned object fields.
func (c *Client) CreateIPAddress(ctx context.Context, w IPAddressWrite) (*IPAddress, error) {
	var out IPAddress
	if err := c.do(ctx, http.MethodPost, ipAddressesPath, nil, w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateIPAddress patches the given fields on an IP address.
func (c *Client) UpdateIPAddress(ctx context.Context, id int, fields map[string]any) (*IPAddress, error) {
	var out IPAddress
	if err := c.do(ctx, http.MethodPatch, itemPath(ipAddressesPath, id), nil, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteIPAddress removes an IP address.
func (c *Client) DeleteIPAddress(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(ipAddressesPath, id), nil, nil, nil)
}

// ListVLANs returns every VLAN matching the filter.
func (c *Client) ListVLANs(ctx context.Context, f VLANFilter) ([]VLAN, error) {
	return listAll[VLAN](ctx, c, vlansPath, f.values())
}

// CreateVLAN creates a VLAN.
func (c *Client) CreateVLAN(ctx context.Context, w VLANWrite) (*VLAN, error) {
	var out VLAN
	if err := c.do(ctx, http.MethodPost, vlansPath, nil, w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateVLAN patches the given fields on a VLAN.
func (c *Client) UpdateVLAN(ctx context.Context, id int, fields map[string]any) (*VLAN, error) {
	var out VLAN
	if err := c.do(ctx, http.MethodPatch, itemPath(vlansPath, id), nil, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteVLAN removes a VLAN.
func (c *Client) DeleteVLAN(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(vlansPath, id), nil, nil, nil)
}
