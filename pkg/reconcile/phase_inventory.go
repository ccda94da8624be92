package reconcile

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/netherd-io/netherd/pkg/netbox"
	"github.com/netherd-io/netherd/pkg/util"
)

// inventoryPhase records hardware modules, optics, and power supplies
// under their devices. Items are written with the discovered flag, and
// cleanup only ever removes discovered items, so curated entries
// survive.
type inventoryPhase struct {
	st      *state
	plan    *Plan[DesiredInventory]
	skipped int
}

func (p *inventoryPhase) Name() string { return "inventory" }

func (p *inventoryPhase) Plan(d *Desired, s *Snapshot) Totals {
	p.skipped = 0
	desired := make(map[string]DesiredInventory, len(d.Inventory))
	for key, want := range d.Inventory {
		if p.st.failed.Contains(want.Device) {
			p.skipped++
			continue
		}
		if _, ok := s.Device(want.Device); !ok {
			p.skipped++
			continue
		}
		desired[key] = want
	}

	tenant := netbox.Slugify(p.st.flags.Tenant)
	p.plan = Diff(p.Name(), desired, s.ObservedInventory(), compareInventory, DiffOptions{
		Cleanup: p.st.flags.Cleanup,
		Deletable: func(key string) bool {
			dev, _, _ := strings.Cut(key, "|")
			item, ok := s.Inventory[key]
			return ok && item.Discovered && tenant != "" && s.tenantOf(dev) == tenant
		},
	})
	return p.plan.Totals()
}

func (p *inventoryPhase) Apply(ctx context.Context, s *Snapshot) (PhaseResult, error) {
	res := PhaseResult{Phase: p.Name(), Planned: p.plan.Totals(), Skipped: p.skipped}
	log := p.st.log.WithField("phase", p.Name())

	for _, ch := range p.plan.Create {
		want := *ch.After
		ilog := log.WithFields(logrus.Fields{
			"device": want.Device,
			"item":   want.Name,
			"serial": want.Serial,
		})
		if p.st.dryRun {
			ilog.Info("would create inventory item")
			res.Created++
			continue
		}
		if err := p.create(ctx, s, ch.Key, want); err != nil {
			if fatal(err) {
				return res, err
			}
			ilog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("inventory item create failed")
			res.Failed++
			continue
		}
		ilog.Info("created inventory item")
		res.Created++
	}

	for _, ch := range p.plan.Update {
		want := *ch.After
		ilog := log.WithFields(logrus.Fields{
			"device":  want.Device,
			"item":    want.Name,
			"changes": deltaSummary(ch.Deltas),
		})
		if p.st.dryRun {
			ilog.Info("would update inventory item")
			res.Updated++
			continue
		}
		have, ok := s.Inventory[ch.Key]
		if !ok {
			res.Skipped++
			continue
		}
		fields := make(map[string]any, len(ch.Deltas))
		for _, d := range ch.Deltas {
			switch d.Field {
			case "name":
				fields["name"] = want.Name
			case "description":
				fields["description"] = want.Description
			}
		}
		updated, err := p.st.client.UpdateInventoryItem(ctx, have.ID, fields)
		if err != nil {
			if fatal(err) {
				return res, err
			}
			ilog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("inventory item update failed")
			res.Failed++
			continue
		}
		s.Inventory[ch.Key] = *updated
		ilog.Info("updated inventory item")
		res.Updated++
	}

	for _, ch := range p.plan.Delete {
		dev, _, _ := strings.Cut(ch.Key, "|")
		have, ok := s.Inventory[ch.Key]
		if !ok {
			res.Skipped++
			continue
		}
		ilog := log.WithFields(logrus.Fields{"device": dev, "item": have.Name})
		if p.st.dryRun {
			ilog.Info("would delete inventory item")
			delete(s.Inventory, ch.Key)
			res.Deleted++
			continue
		}
		if err := p.st.client.DeleteInventoryItem(ctx, have.ID); err != nil {
			if fatal(err) {
				return res, err
			}
			ilog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("inventory item delete failed")
			res.Failed++
			continue
		}
		delete(s.Inventory, ch.Key)
		ilog.Info("deleted inventory item")
		res.Deleted++
	}

	return res, nil
}

func (p *inventoryPhase) create(ctx context.Context, s *Snapshot, key string, want DesiredInventory) error {
	dev, ok := s.Device(want.Device)
	if !ok {
		return nil
	}
	w := netbox.InventoryItemWrite{
		Device:      dev.ID,
		Name:        want.Name,
		PartID:      want.PartID,
		Serial:      want.Serial,
		Description: want.Description,
		Discovered:  true,
	}
	if want.Vendor != "" {
		id, err := p.st.refs.Manufacturer(ctx, want.Vendor)
		if err != nil {
			return err
		}
		w.Manufacturer = id
	}
	created, err := p.st.client.CreateInventoryItem(ctx, w)
	if err != nil {
		return err
	}
	s.Inventory[key] = *created
	return nil
}
