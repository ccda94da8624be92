package collect

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/normalize"
	"github.com/netherd-io/netherd/pkg/parse"
	"github.com/netherd-io/netherd/pkg/platform"
	"github.com/netherd-io/netherd/pkg/util"
)

// Devices collects identity facts (hostname, model, serial, version)
// from every device.
func (e *Engine) Devices(ctx context.Context, devices []model.Device) ([]model.DeviceFacts, *Report) {
	var mu sync.Mutex
	var out []model.DeviceFacts

	report := e.collect(ctx, platform.IntentDevices, devices, func(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn) (int, error) {
		rows, cmd, err := e.runPrimary(ctx, dev, p, conn, platform.IntentDevices)
		if err != nil {
			return 0, err
		}
		if len(rows) == 0 {
			return 0, &noRowsError{Command: cmd}
		}
		facts := normalize.Facts(rows, dev, p.Vendor)
		mu.Lock()
		out = append(out, facts)
		mu.Unlock()
		return 1, nil
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Device < out[j].Device })
	return out, report
}

// Interfaces collects the interface table from every device, enriched
// with LAG membership, switchport mode, and media type where the
// platform offers those tables.
func (e *Engine) Interfaces(ctx context.Context, devices []model.Device) ([]model.Interface, *Report) {
	var mu sync.Mutex
	var out []model.Interface

	report := e.collect(ctx, platform.IntentInterfaces, devices, func(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn) (int, error) {
		ifaces, err := e.deviceInterfaces(ctx, dev, p, conn)
		if err != nil {
			return len(ifaces), err
		}
		mu.Lock()
		out = append(out, ifaces...)
		mu.Unlock()
		return len(ifaces), nil
	})

	sortInterfaces(out)
	return out, report
}

// deviceInterfaces runs the interface primary plus its enrichment
// secondaries on one session. The primary record set is complete
// before any secondary is issued; a failed secondary leaves it as-is.
func (e *Engine) deviceInterfaces(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn) ([]model.Interface, error) {
	rows, cmd, err := e.runPrimary(ctx, dev, p, conn, platform.IntentInterfaces)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &noRowsError{Command: cmd}
	}
	ifaces := normalize.Interfaces(rows, dev)
	if e.opts.NoEnrich {
		return ifaces, nil
	}

	log := util.WithDevice(dev.DisplayName())
	if lagRows, ok := e.secondary(ctx, dev, p, conn, platform.IntentLAG); ok {
		if n := normalize.EnrichLAG(ifaces, normalize.LAGMembership(lagRows)); n > 0 {
			log.Debugf("lag membership set on %d interfaces", n)
		}
	}
	if spRows, ok := e.secondary(ctx, dev, p, conn, platform.IntentSwitchport); ok {
		if n := normalize.EnrichSwitchport(ifaces, normalize.Switchports(spRows)); n > 0 {
			log.Debugf("switchport mode set on %d interfaces", n)
		}
	}
	if mediaRows, ok := e.mediaRows(ctx, dev, p, conn); ok {
		if n := normalize.EnrichMediaType(ifaces, normalize.MediaTypes(mediaRows)); n > 0 {
			log.Debugf("media type set on %d interfaces", n)
		}
	}
	return ifaces, nil
}

// mediaRows fetches transceiver/media information, preferring the
// status-style media table and falling back to the transceiver DOM
// table on platforms that only have that.
func (e *Engine) mediaRows(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn) ([]parse.Row, bool) {
	if rows, ok := e.secondary(ctx, dev, p, conn, platform.IntentMedia); ok {
		return rows, true
	}
	if _, defined := p.CommandFor(platform.IntentMedia); defined {
		// The media command exists but failed; do not retry the same
		// table under the transceiver intent when they alias.
		return nil, false
	}
	return e.secondary(ctx, dev, p, conn, platform.IntentTransceiver)
}

// MACs collects the MAC address table from every device. With trunk
// exclusion on, the switchport table identifies trunk ports and
// entries learned on them are dropped, keeping only edge-learned MACs.
func (e *Engine) MACs(ctx context.Context, devices []model.Device) ([]model.MACEntry, *Report) {
	var mu sync.Mutex
	var out []model.MACEntry

	report := e.collect(ctx, platform.IntentMAC, devices, func(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn) (int, error) {
		rows, _, err := e.runPrimary(ctx, dev, p, conn, platform.IntentMAC)
		if err != nil {
			return 0, err
		}
		entries := normalize.MACs(rows, dev)
		if e.opts.ExcludeTrunks {
			if spRows, ok := e.secondary(ctx, dev, p, conn, platform.IntentSwitchport); ok {
				entries = normalize.ExcludeTrunks(entries, normalize.Switchports(spRows))
			}
		}
		mu.Lock()
		out = append(out, entries...)
		mu.Unlock()
		return len(entries), nil
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Device != out[j].Device {
			return out[i].Device < out[j].Device
		}
		if out[i].VLAN != out[j].VLAN {
			return out[i].VLAN < out[j].VLAN
		}
		return out[i].MAC < out[j].MAC
	})
	return out, report
}

// LLDP collects neighbor adjacencies. Protocol selection decides which
// discovery tables run; with both, LLDP runs first and CDP entries for
// links LLDP already saw are dropped in the merge.
func (e *Engine) LLDP(ctx context.Context, devices []model.Device) ([]model.LLDPNeighbor, *Report) {
	var mu sync.Mutex
	var out []model.LLDPNeighbor

	report := e.collect(ctx, platform.IntentLLDP, devices, func(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn) (int, error) {
		neighbors, err := e.deviceNeighbors(ctx, dev, p, conn)
		mu.Lock()
		out = append(out, neighbors...)
		mu.Unlock()
		// A failed leg degrades the device to partial but the other
		// leg's adjacencies are already in the result set.
		return len(neighbors), err
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Device != out[j].Device {
			return out[i].Device < out[j].Device
		}
		return out[i].LocalInterface < out[j].LocalInterface
	})
	return out, report
}

// deviceNeighbors runs the selected discovery protocols on one
// session. One failed leg degrades the result instead of voiding the
// other leg's adjacencies.
func (e *Engine) deviceNeighbors(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn) ([]model.LLDPNeighbor, error) {
	type leg struct {
		proto  string
		intent platform.Intent
	}
	var legs []leg
	switch e.opts.Protocol {
	case ProtocolCDP:
		legs = []leg{{ProtocolCDP, platform.IntentCDP}}
	case ProtocolBoth:
		legs = []leg{{ProtocolLLDP, platform.IntentLLDP}, {ProtocolCDP, platform.IntentCDP}}
	default:
		legs = []leg{{ProtocolLLDP, platform.IntentLLDP}}
	}

	var sets [][]model.LLDPNeighbor
	var errs []error
	available := 0
	for _, l := range legs {
		cmd, ok := p.CommandFor(l.intent)
		if !ok {
			continue
		}
		available++
		raw, err := conn.Run(ctx, cmd)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", l.proto, err))
			continue
		}
		e.saveRaw(dev, cmd, raw)
		rows, err := e.parser.Parse(raw, dev.Platform, cmd)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", l.proto, err))
			continue
		}
		sets = append(sets, normalize.Neighbors(rows, dev, l.proto))
	}
	if available == 0 {
		return nil, fmt.Errorf("%s %s: %w", dev.Platform, e.opts.Protocol, errNoCommand)
	}
	return normalize.MergeNeighbors(sets...), errors.Join(errs...)
}

// Inventory collects hardware inventory (modules, transceivers, power
// supplies) from every device.
func (e *Engine) Inventory(ctx context.Context, devices []model.Device) ([]model.InventoryItem, *Report) {
	var mu sync.Mutex
	var out []model.InventoryItem

	report := e.collect(ctx, platform.IntentInventory, devices, func(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn) (int, error) {
		rows, _, err := e.runPrimary(ctx, dev, p, conn, platform.IntentInventory)
		if err != nil {
			return 0, err
		}
		items := normalize.Inventory(rows, dev, p.Vendor)
		mu.Lock()
		out = append(out, items...)
		mu.Unlock()
		return len(items), nil
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Device != out[j].Device {
			return out[i].Device < out[j].Device
		}
		return out[i].Slot < out[j].Slot
	})
	return out, report
}

// Backup collects the running configuration from every device. The
// text is kept verbatim; only the surrounding prompt and echo are
// stripped by the session layer.
func (e *Engine) Backup(ctx context.Context, devices []model.Device) ([]model.ConfigBackup, *Report) {
	var mu sync.Mutex
	var out []model.ConfigBackup

	report := e.collect(ctx, platform.IntentBackup, devices, func(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn) (int, error) {
		cmd, ok := p.CommandFor(platform.IntentBackup)
		if !ok {
			return 0, fmt.Errorf("%s backup: %w", dev.Platform, errNoCommand)
		}
		raw, err := conn.Run(ctx, cmd)
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(raw) == "" {
			return 0, &noRowsError{Command: cmd}
		}
		e.saveRaw(dev, cmd, raw)
		mu.Lock()
		out = append(out, model.ConfigBackup{
			Device:      dev.DisplayName(),
			Text:        raw,
			CollectedAt: time.Now().UTC(),
		})
		mu.Unlock()
		return 1, nil
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Device < out[j].Device })
	return out, report
}

// Run executes one ad-hoc command on every device and returns the raw
// output per device, no parsing.
func (e *Engine) Run(ctx context.Context, devices []model.Device, command string) ([]model.CommandOutput, *Report) {
	var mu sync.Mutex
	var out []model.CommandOutput

	report := e.collect(ctx, platform.Intent("run"), devices, func(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn) (int, error) {
		raw, err := conn.Run(ctx, command)
		if err != nil && raw == "" {
			return 0, err
		}
		e.saveRaw(dev, command, raw)
		mu.Lock()
		out = append(out, model.CommandOutput{
			Device:  dev.DisplayName(),
			Command: command,
			Output:  raw,
		})
		mu.Unlock()
		return 1, err
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Device < out[j].Device })
	return out, report
}

func sortInterfaces(ifaces []model.Interface) {
	sort.Slice(ifaces, func(i, j int) bool {
		if ifaces[i].Device != ifaces[j].Device {
			return ifaces[i].Device < ifaces[j].Device
		}
		return ifaces[i].Name < ifaces[j].Name
	})
}
