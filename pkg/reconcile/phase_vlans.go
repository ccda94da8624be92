package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/netherd-io/netherd/pkg/netbox"
	"github.com/netherd-io/netherd/pkg/util"
)

// vlanPhase reconciles VLAN names against what SVIs revealed. The rows
// themselves are often already present: the interface phase
// get-or-creates bare VLANs while wiring 802.1Q references, and this
// phase then settles their names.
type vlanPhase struct {
	st   *state
	plan *Plan[DesiredVLAN]
}

func (p *vlanPhase) Name() string { return "vlans" }

func (p *vlanPhase) Plan(d *Desired, s *Snapshot) Totals {
	tenant := netbox.Slugify(p.st.flags.Tenant)
	p.plan = Diff(p.Name(), d.VLANs, s.ObservedVLANs(), compareVLANs, DiffOptions{
		Cleanup: p.st.flags.Cleanup,
		Deletable: func(key string) bool {
			v, ok := s.VLANs[key]
			return ok && tenant != "" && refSlug(v.Tenant) == tenant
		},
	})
	return p.plan.Totals()
}

func (p *vlanPhase) Apply(ctx context.Context, s *Snapshot) (PhaseResult, error) {
	res := PhaseResult{Phase: p.Name(), Planned: p.plan.Totals()}
	log := p.st.log.WithField("phase", p.Name())

	for _, ch := range p.plan.Create {
		want := *ch.After
		vlog := log.WithFields(logrus.Fields{"site": want.Site, "vid": want.VID, "name": want.Name})
		if p.st.dryRun {
			vlog.Info("would create vlan")
			s.AddVLAN(want.Site, placeholderVLAN(p.st, want.VID, want.Name))
			res.Created++
			continue
		}
		if _, err := p.st.createVLAN(ctx, s, want.Site, want.VID, want.Name); err != nil {
			if fatal(err) {
				return res, err
			}
			vlog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("vlan create failed")
			res.Failed++
			continue
		}
		vlog.Info("created vlan")
		res.Created++
	}

	for _, ch := range p.plan.Update {
		want := *ch.After
		vlog := log.WithFields(logrus.Fields{
			"site": want.Site, "vid": want.VID,
			"changes": deltaSummary(ch.Deltas),
		})
		if p.st.dryRun {
			vlog.Info("would update vlan")
			res.Updated++
			continue
		}
		have, ok := s.VLAN(want.Site, want.VID)
		if !ok {
			res.Skipped++
			continue
		}
		updated, err := p.st.client.UpdateVLAN(ctx, have.ID, map[string]any{"name": want.Name})
		if err != nil {
			if fatal(err) {
				return res, err
			}
			vlog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("vlan update failed")
			res.Failed++
			continue
		}
		s.AddVLAN(want.Site, *updated)
		vlog.Info("updated vlan")
		res.Updated++
	}

	for _, ch := range p.plan.Delete {
		site, _, _ := strings.Cut(ch.Key, "|")
		have := s.VLANs[ch.Key]
		vlog := log.WithFields(logrus.Fields{"site": site, "vid": have.VID})
		if p.st.dryRun {
			vlog.Info("would delete vlan")
			delete(s.VLANs, ch.Key)
			res.Deleted++
			continue
		}
		if err := p.st.client.DeleteVLAN(ctx, have.ID); err != nil {
			if fatal(err) {
				return res, err
			}
			vlog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("vlan delete failed")
			res.Failed++
			continue
		}
		delete(s.VLANs, ch.Key)
		vlog.Info("deleted vlan")
		res.Deleted++
	}

	return res, nil
}

// createVLAN writes a VLAN and records it in the snapshot.
func (st *state) createVLAN(ctx context.Context, s *Snapshot, site string, vid int, name string) (netbox.VLAN, error) {
	w := netbox.VLANWrite{VID: vid, Name: name, Status: "active"}
	if site != "" {
		id, err := st.refs.Site(ctx, site)
		if err != nil {
			return netbox.VLAN{}, fmt.Errorf("resolving site %q: %w", site, err)
		}
		w.Site = id
	}
	if st.flags.Tenant != "" {
		id, err := st.refs.Tenant(ctx, st.flags.Tenant)
		if err != nil {
			return netbox.VLAN{}, fmt.Errorf("resolving tenant %q: %w", st.flags.Tenant, err)
		}
		w.Tenant = id
	}
	created, err := st.client.CreateVLAN(ctx, w)
	if err != nil {
		return netbox.VLAN{}, err
	}
	s.AddVLAN(site, *created)
	return *created, nil
}

// ensureVLAN returns the id of the (site, vid) VLAN, creating a bare
// one when missing so 802.1Q references can land before the VLAN phase
// settles names. Dry runs record a placeholder instead.
func (st *state) ensureVLAN(ctx context.Context, s *Snapshot, site string, vid int) (int, error) {
	if v, ok := s.VLAN(site, vid); ok {
		return v.ID, nil
	}
	name := fmt.Sprintf("VLAN %d", vid)
	if st.dryRun {
		v := placeholderVLAN(st, vid, name)
		s.AddVLAN(site, v)
		return v.ID, nil
	}
	v, err := st.createVLAN(ctx, s, site, vid, name)
	if err != nil {
		return 0, err
	}
	st.log.WithFields(logrus.Fields{"site": site, "vid": vid}).Debug("created bare vlan for 802.1q reference")
	return v.ID, nil
}

func placeholderVLAN(st *state, vid int, name string) netbox.VLAN {
	v := netbox.VLAN{ID: st.placeholderID(), VID: vid, Name: name}
	if st.flags.Tenant != "" {
		v.Tenant = &netbox.Ref{Slug: netbox.Slugify(st.flags.Tenant)}
	}
	return v
}
