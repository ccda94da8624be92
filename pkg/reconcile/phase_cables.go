package reconcile

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/netherd-io/netherd/pkg/netbox"
	"github.com/netherd-io/netherd/pkg/util"
)

// cablePhase documents physical links learned from neighbor
// discovery. Only links whose four endpoints all resolve in the
// snapshot are planned; anything touching an unknown device or
// interface is left alone.
type cablePhase struct {
	st      *state
	plan    *Plan[DesiredCable]
	skipped int
}

func (p *cablePhase) Name() string { return "cables" }

func (p *cablePhase) Plan(d *Desired, s *Snapshot) Totals {
	p.skipped = 0
	desired := make(map[string]DesiredCable, len(d.Cables))
	for key, want := range d.Cables {
		if p.st.failed.Contains(want.ADevice) || p.st.failed.Contains(want.BDevice) {
			p.skipped++
			continue
		}
		if !p.resolvable(s, want) {
			p.st.log.WithFields(logrus.Fields{
				"phase": p.Name(),
				"a":     want.ADevice + " " + want.AInterface,
				"b":     want.BDevice + " " + want.BInterface,
			}).Warn("cable endpoint not in netbox, skipping link")
			p.skipped++
			continue
		}
		desired[key] = want
	}

	tenant := netbox.Slugify(p.st.flags.Tenant)
	p.plan = Diff(p.Name(), desired, s.ObservedCables(), compareCables, DiffOptions{
		Cleanup: p.st.flags.Cleanup,
		Deletable: func(key string) bool {
			aPart, bPart, _ := strings.Cut(key, "~")
			aDev, _, _ := strings.Cut(aPart, "|")
			bDev, _, _ := strings.Cut(bPart, "|")
			return tenant != "" && s.tenantOf(aDev) == tenant && s.tenantOf(bDev) == tenant
		},
	})
	return p.plan.Totals()
}

func (p *cablePhase) resolvable(s *Snapshot, want DesiredCable) bool {
	if _, ok := s.Interface(want.ADevice, want.AInterface); !ok {
		return false
	}
	if _, ok := s.Interface(want.BDevice, want.BInterface); !ok {
		return false
	}
	return true
}

func (p *cablePhase) Apply(ctx context.Context, s *Snapshot) (PhaseResult, error) {
	res := PhaseResult{Phase: p.Name(), Planned: p.plan.Totals(), Skipped: p.skipped}
	log := p.st.log.WithField("phase", p.Name())

	for _, ch := range p.plan.Create {
		want := *ch.After
		clog := log.WithFields(logrus.Fields{
			"a": want.ADevice + " " + want.AInterface,
			"b": want.BDevice + " " + want.BInterface,
		})
		if p.st.dryRun {
			clog.Info("would create cable")
			s.Cables[ch.Key] = netbox.Cable{ID: p.st.placeholderID()}
			res.Created++
			continue
		}
		a, aok := s.Interface(want.ADevice, want.AInterface)
		b, bok := s.Interface(want.BDevice, want.BInterface)
		if !aok || !bok {
			res.Skipped++
			continue
		}
		status := want.Status
		if status == "" {
			status = "connected"
		}
		created, err := p.st.client.CreateCable(ctx, netbox.CableWrite{
			ATerminations: []netbox.CableTermination{{ObjectType: netbox.ObjectTypeInterface, ObjectID: a.ID}},
			BTerminations: []netbox.CableTermination{{ObjectType: netbox.ObjectTypeInterface, ObjectID: b.ID}},
			Status:        status,
		})
		if err != nil {
			if fatal(err) {
				return res, err
			}
			clog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("cable create failed")
			res.Failed++
			continue
		}
		s.Cables[ch.Key] = *created
		clog.Info("created cable")
		res.Created++
	}

	for _, ch := range p.plan.Delete {
		aPart, bPart, _ := strings.Cut(ch.Key, "~")
		clog := log.WithFields(logrus.Fields{"a": aPart, "b": bPart})
		if p.st.dryRun {
			clog.Info("would delete cable")
			delete(s.Cables, ch.Key)
			res.Deleted++
			continue
		}
		have, ok := s.Cables[ch.Key]
		if !ok {
			res.Skipped++
			continue
		}
		if err := p.st.client.DeleteCable(ctx, have.ID); err != nil {
			if fatal(err) {
				return res, err
			}
			clog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("cable delete failed")
			res.Failed++
			continue
		}
		delete(s.Cables, ch.Key)
		clog.Info("deleted cable")
		res.Deleted++
	}

	return res, nil
}
