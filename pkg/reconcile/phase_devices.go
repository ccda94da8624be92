package reconcile

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/netherd-io/netherd/pkg/netbox"
	"github.com/netherd-io/netherd/pkg/util"
)

// devicePhase creates and updates devices, and under cleanup deletes
// tenant-owned devices that vanished from the fleet. It runs first:
// every other phase resolves rows through the device ids it leaves in
// the snapshot.
type devicePhase struct {
	st   *state
	plan *Plan[DesiredDevice]
}

func (p *devicePhase) Name() string { return "devices" }

func (p *devicePhase) Plan(d *Desired, s *Snapshot) Totals {
	tenant := netbox.Slugify(p.st.flags.Tenant)
	p.plan = Diff(p.Name(), d.Devices, s.ObservedDevices(), compareDevices, DiffOptions{
		Cleanup: p.st.flags.Cleanup,
		Deletable: func(name string) bool {
			return tenant != "" && s.tenantOf(name) == tenant
		},
	})
	if !p.st.flags.CreateDevices {
		p.plan.Create = nil
	}
	if !p.st.flags.UpdateDevices {
		p.plan.Update = nil
	}
	return p.plan.Totals()
}

func (p *devicePhase) Apply(ctx context.Context, s *Snapshot) (PhaseResult, error) {
	res := PhaseResult{Phase: p.Name(), Planned: p.plan.Totals()}
	log := p.st.log.WithField("phase", p.Name())

	for _, ch := range p.plan.Create {
		want := *ch.After
		dlog := log.WithField("device", want.Name)
		if p.st.dryRun {
			dlog.Info("would create device")
			s.AddDevice(placeholderDevice(p.st, want))
			res.Created++
			continue
		}
		dev, err := p.create(ctx, want)
		if err != nil {
			if fatal(err) {
				return res, err
			}
			dlog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("device create failed, dropping its dependent records")
			p.st.failed.Add(want.Name)
			res.Failed++
			continue
		}
		s.AddDevice(*dev)
		dlog.Info("created device")
		res.Created++
	}

	for _, ch := range p.plan.Update {
		want := *ch.After
		dlog := log.WithFields(logrus.Fields{
			"device":  want.Name,
			"changes": deltaSummary(ch.Deltas),
		})
		if p.st.dryRun {
			dlog.Info("would update device")
			res.Updated++
			continue
		}
		dev, ok := s.Device(want.Name)
		if !ok {
			dlog.Warn("device vanished between plan and apply")
			res.Skipped++
			continue
		}
		fields, err := p.updateFields(ctx, want, ch.Deltas)
		if err != nil {
			if fatal(err) {
				return res, err
			}
			dlog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("device update failed")
			res.Failed++
			continue
		}
		updated, err := p.st.client.UpdateDevice(ctx, dev.ID, fields)
		if err != nil {
			if fatal(err) {
				return res, err
			}
			dlog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("device update failed")
			res.Failed++
			continue
		}
		s.AddDevice(*updated)
		dlog.Info("updated device")
		res.Updated++
	}

	for _, ch := range p.plan.Delete {
		name := ch.Key
		dlog := log.WithField("device", name)
		if p.st.dryRun {
			dlog.Info("would delete device")
			s.RemoveDevice(name)
			res.Deleted++
			continue
		}
		dev, ok := s.Device(name)
		if !ok {
			res.Skipped++
			continue
		}
		if err := p.st.client.DeleteDevice(ctx, dev.ID); err != nil {
			if fatal(err) {
				return res, err
			}
			dlog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("device delete failed")
			res.Failed++
			continue
		}
		s.RemoveDevice(name)
		dlog.Info("deleted device")
		res.Deleted++
	}

	return res, nil
}

// create resolves the device's organizational references, making them
// on the fly, then writes the device itself.
func (p *devicePhase) create(ctx context.Context, want DesiredDevice) (*netbox.Device, error) {
	if want.Site == "" {
		return nil, fmt.Errorf("device %s has no site: %w", want.Name, util.ErrInvalidConfig)
	}
	if want.Role == "" {
		return nil, fmt.Errorf("device %s has no role: %w", want.Name, util.ErrInvalidConfig)
	}
	siteID, err := p.st.refs.Site(ctx, want.Site)
	if err != nil {
		return nil, fmt.Errorf("resolving site %q: %w", want.Site, err)
	}
	roleID, err := p.st.refs.Role(ctx, want.Role)
	if err != nil {
		return nil, fmt.Errorf("resolving role %q: %w", want.Role, err)
	}
	typeID, err := p.st.refs.DeviceType(ctx, want.Vendor, want.Model)
	if err != nil {
		return nil, fmt.Errorf("resolving device type %q: %w", want.Model, err)
	}

	w := netbox.DeviceWrite{
		Name:       want.Name,
		DeviceType: typeID,
		Role:       roleID,
		Site:       siteID,
		Serial:     want.Serial,
		Status:     want.Status,
	}
	if want.Platform != "" {
		id, err := p.st.refs.Platform(ctx, want.Platform)
		if err != nil {
			return nil, fmt.Errorf("resolving platform %q: %w", want.Platform, err)
		}
		w.Platform = id
	}
	if p.st.flags.Tenant != "" {
		id, err := p.st.refs.Tenant(ctx, p.st.flags.Tenant)
		if err != nil {
			return nil, fmt.Errorf("resolving tenant %q: %w", p.st.flags.Tenant, err)
		}
		w.Tenant = id
	}
	return p.st.client.CreateDevice(ctx, w)
}

// placeholderDevice stands in for a row a dry run pretends to create,
// carrying the reference slugs later phases read back.
func placeholderDevice(st *state, want DesiredDevice) netbox.Device {
	d := netbox.Device{
		ID:     st.placeholderID(),
		Name:   want.Name,
		Serial: want.Serial,
		Status: &netbox.Choice{Value: want.Status},
	}
	if want.Site != "" {
		d.Site = &netbox.Ref{Slug: want.Site}
	}
	if want.Role != "" {
		d.Role = &netbox.Ref{Slug: want.Role}
	}
	if want.Platform != "" {
		d.Platform = &netbox.Ref{Slug: want.Platform}
	}
	if st.flags.Tenant != "" {
		d.Tenant = &netbox.Ref{Slug: netbox.Slugify(st.flags.Tenant)}
	}
	return d
}

// updateFields builds the patch body for the fields that drifted.
func (p *devicePhase) updateFields(ctx context.Context, want DesiredDevice, deltas []FieldDelta) (map[string]any, error) {
	fields := make(map[string]any, len(deltas))
	for _, d := range deltas {
		switch d.Field {
		case "site":
			id, err := p.st.refs.Site(ctx, want.Site)
			if err != nil {
				return nil, fmt.Errorf("resolving site %q: %w", want.Site, err)
			}
			fields["site"] = id
		case "role":
			id, err := p.st.refs.Role(ctx, want.Role)
			if err != nil {
				return nil, fmt.Errorf("resolving role %q: %w", want.Role, err)
			}
			fields["role"] = id
		case "platform":
			if want.Platform == "" {
				fields["platform"] = nil
				continue
			}
			id, err := p.st.refs.Platform(ctx, want.Platform)
			if err != nil {
				return nil, fmt.Errorf("resolving platform %q: %w", want.Platform, err)
			}
			fields["platform"] = id
		case "serial":
			fields["serial"] = want.Serial
		}
	}
	return fields, nil
}
