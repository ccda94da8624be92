package reconcile

import (
	"context"
	"strings"

	"github.com/juju/collections/set"
	"github.com/sirupsen/logrus"

	"github.com/netherd-io/netherd/pkg/netbox"
	"github.com/netherd-io/netherd/pkg/util"
)

// interfacePhase creates and updates interfaces. LAG parents apply
// before members so a member's lag reference resolves within the same
// run; a member whose parent is still missing is written without the
// link rather than dropped. VLAN references are satisfied by
// get-or-creating bare VLANs, which the vlan phase later names.
type interfacePhase struct {
	st      *state
	plan    *Plan[DesiredInterface]
	skipped int
}

func (p *interfacePhase) Name() string { return "interfaces" }

func (p *interfacePhase) Plan(d *Desired, s *Snapshot) Totals {
	p.skipped = 0
	desired := make(map[string]DesiredInterface, len(d.Interfaces))
	missing := set.NewStrings()
	for key, want := range d.Interfaces {
		if p.st.failed.Contains(want.Device) {
			p.skipped++
			continue
		}
		if _, ok := s.Device(want.Device); !ok {
			missing.Add(want.Device)
			p.skipped++
			continue
		}
		desired[key] = want
	}
	for _, name := range missing.SortedValues() {
		p.st.log.WithFields(logrus.Fields{"phase": p.Name(), "device": name}).
			Warn("device not in netbox, skipping its interfaces")
	}

	tenant := netbox.Slugify(p.st.flags.Tenant)
	p.plan = Diff(p.Name(), desired, s.ObservedInterfaces(), compareInterfaces, DiffOptions{
		Cleanup: p.st.flags.Cleanup,
		Deletable: func(key string) bool {
			dev, _, _ := strings.Cut(key, "|")
			return tenant != "" && s.tenantOf(dev) == tenant
		},
	})
	return p.plan.Totals()
}

func (p *interfacePhase) Apply(ctx context.Context, s *Snapshot) (PhaseResult, error) {
	res := PhaseResult{Phase: p.Name(), Planned: p.plan.Totals(), Skipped: p.skipped}
	log := p.st.log.WithField("phase", p.Name())

	// LAG parents first, then everything that may reference them.
	for _, pass := range []bool{true, false} {
		for _, ch := range p.plan.Create {
			want := *ch.After
			if (want.Type == "lag") != pass {
				continue
			}
			ilog := log.WithFields(logrus.Fields{"device": want.Device, "interface": want.Name})
			if p.st.dryRun {
				ilog.Info("would create interface")
				s.AddInterface(want.Device, placeholderInterface(p.st, want))
				res.Created++
				continue
			}
			if err := p.create(ctx, s, want, ilog); err != nil {
				if fatal(err) {
					return res, err
				}
				ilog.WithError(err).WithField("category", util.CategoryOf(err)).
					Warn("interface create failed")
				res.Failed++
				continue
			}
			ilog.Info("created interface")
			res.Created++
		}
	}

	for _, ch := range p.plan.Update {
		want := *ch.After
		ilog := log.WithFields(logrus.Fields{
			"device":    want.Device,
			"interface": want.Name,
			"changes":   deltaSummary(ch.Deltas),
		})
		if p.st.dryRun {
			ilog.Info("would update interface")
			res.Updated++
			continue
		}
		have, ok := s.Interface(want.Device, want.Name)
		if !ok {
			res.Skipped++
			continue
		}
		fields, err := p.updateFields(ctx, s, want, ch.Deltas, ilog)
		if err != nil {
			if fatal(err) {
				return res, err
			}
			ilog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("interface update failed")
			res.Failed++
			continue
		}
		if len(fields) == 0 {
			res.Skipped++
			continue
		}
		updated, err := p.st.client.UpdateInterface(ctx, have.ID, fields)
		if err != nil {
			if fatal(err) {
				return res, err
			}
			ilog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("interface update failed")
			res.Failed++
			continue
		}
		s.AddInterface(want.Device, *updated)
		ilog.Info("updated interface")
		res.Updated++
	}

	for _, ch := range p.plan.Delete {
		dev, name, _ := strings.Cut(ch.Key, "|")
		ilog := log.WithFields(logrus.Fields{"device": dev, "interface": name})
		if p.st.dryRun {
			ilog.Info("would delete interface")
			s.RemoveInterface(dev, name)
			res.Deleted++
			continue
		}
		have, ok := s.Interfaces[ch.Key]
		if !ok {
			res.Skipped++
			continue
		}
		if err := p.st.client.DeleteInterface(ctx, have.ID); err != nil {
			if fatal(err) {
				return res, err
			}
			ilog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("interface delete failed")
			res.Failed++
			continue
		}
		s.RemoveInterface(dev, name)
		ilog.Info("deleted interface")
		res.Deleted++
	}

	return res, nil
}

func (p *interfacePhase) create(ctx context.Context, s *Snapshot, want DesiredInterface, ilog *logrus.Entry) error {
	dev, ok := s.Device(want.Device)
	if !ok {
		return nil
	}
	typ := want.Type
	if typ == "" {
		typ = "other"
	}
	w := netbox.InterfaceWrite{
		Device:      dev.ID,
		Name:        want.Name,
		Type:        typ,
		Enabled:     want.Enabled,
		MTU:         want.MTU,
		MACAddress:  want.MAC,
		Description: want.Description,
		Mode:        want.Mode,
	}
	if want.Mode != "" {
		if want.UntaggedVLAN > 0 {
			id, err := p.st.ensureVLAN(ctx, s, want.Site, want.UntaggedVLAN)
			if err != nil {
				return err
			}
			w.UntaggedVLAN = id
		}
		for _, vid := range want.TaggedVLANs {
			id, err := p.st.ensureVLAN(ctx, s, want.Site, vid)
			if err != nil {
				return err
			}
			w.TaggedVLANs = append(w.TaggedVLANs, id)
		}
	}
	if want.LAGParent != "" {
		if parent, ok := s.Interface(want.Device, want.LAGParent); ok {
			w.LAG = parent.ID
		} else {
			ilog.WithField("lag", want.LAGParent).
				Warn("lag parent not found, creating member unlinked")
		}
	}

	created, err := p.st.client.CreateInterface(ctx, w)
	if err != nil {
		return err
	}
	s.AddInterface(want.Device, *created)
	return nil
}

// updateFields builds the patch body for the fields that drifted. A
// lag delta whose parent cannot be resolved is dropped from the patch
// so the rest of the update still lands.
func (p *interfacePhase) updateFields(ctx context.Context, s *Snapshot, want DesiredInterface, deltas []FieldDelta, ilog *logrus.Entry) (map[string]any, error) {
	fields := make(map[string]any, len(deltas))
	for _, d := range deltas {
		switch d.Field {
		case "type":
			fields["type"] = want.Type
		case "enabled":
			fields["enabled"] = want.Enabled
		case "mtu":
			fields["mtu"] = want.MTU
		case "mac_address":
			fields["mac_address"] = want.MAC
		case "description":
			fields["description"] = want.Description
		case "mode":
			fields["mode"] = want.Mode
		case "untagged_vlan":
			if want.UntaggedVLAN == 0 {
				fields["untagged_vlan"] = nil
				continue
			}
			id, err := p.st.ensureVLAN(ctx, s, want.Site, want.UntaggedVLAN)
			if err != nil {
				return nil, err
			}
			fields["untagged_vlan"] = id
		case "tagged_vlans":
			ids := make([]int, 0, len(want.TaggedVLANs))
			for _, vid := range want.TaggedVLANs {
				id, err := p.st.ensureVLAN(ctx, s, want.Site, vid)
				if err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}
			fields["tagged_vlans"] = ids
		case "lag":
			if want.LAGParent == "" {
				fields["lag"] = nil
				continue
			}
			parent, ok := s.Interface(want.Device, want.LAGParent)
			if !ok {
				ilog.WithField("lag", want.LAGParent).
					Warn("lag parent not found, leaving link unchanged")
				continue
			}
			fields["lag"] = parent.ID
		}
	}
	return fields, nil
}

func placeholderInterface(st *state, want DesiredInterface) netbox.Interface {
	return netbox.Interface{
		ID:      st.placeholderID(),
		Name:    want.Name,
		Type:    &netbox.Choice{Value: want.Type},
		Enabled: want.Enabled,
	}
}
