package reconcile

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/netherd-io/netherd/pkg/netbox"
	"github.com/netherd-io/netherd/pkg/util"
)

// ipPhase assigns collected addresses to their interfaces and claims
// the device primary for the management address.
type ipPhase struct {
	st      *state
	plan    *Plan[DesiredIP]
	skipped int
}

func (p *ipPhase) Name() string { return "ip-addresses" }

func (p *ipPhase) Plan(d *Desired, s *Snapshot) Totals {
	p.skipped = 0
	desired := make(map[string]DesiredIP, len(d.IPs))
	for key, want := range d.IPs {
		if p.st.failed.Contains(want.Device) {
			p.skipped++
			continue
		}
		if _, ok := s.Interface(want.Device, want.Interface); !ok {
			p.st.log.WithFields(logrus.Fields{
				"phase":     p.Name(),
				"device":    want.Device,
				"interface": want.Interface,
			}).Warn("interface not in netbox, skipping its addresses")
			p.skipped++
			continue
		}
		desired[key] = want
	}

	tenant := netbox.Slugify(p.st.flags.Tenant)
	p.plan = Diff(p.Name(), desired, s.ObservedIPs(), compareIPs, DiffOptions{
		Cleanup: p.st.flags.Cleanup,
		Deletable: func(key string) bool {
			dev, _, _ := strings.Cut(key, "|")
			return tenant != "" && s.tenantOf(dev) == tenant
		},
	})
	return p.plan.Totals()
}

func (p *ipPhase) Apply(ctx context.Context, s *Snapshot) (PhaseResult, error) {
	res := PhaseResult{Phase: p.Name(), Planned: p.plan.Totals(), Skipped: p.skipped}
	log := p.st.log.WithField("phase", p.Name())

	for _, ch := range p.plan.Create {
		want := *ch.After
		alog := log.WithFields(logrus.Fields{
			"device":    want.Device,
			"interface": want.Interface,
			"address":   want.Address,
		})
		if p.st.dryRun {
			alog.Info("would create address")
			s.AddIP(want.Device, want.Interface, netbox.IPAddress{
				ID: p.st.placeholderID(), Address: want.Address,
			})
			if want.Primary {
				alog.Info("would set primary ip")
			}
			res.Created++
			continue
		}
		iface, ok := s.Interface(want.Device, want.Interface)
		if !ok {
			res.Skipped++
			continue
		}
		created, err := p.st.client.CreateIPAddress(ctx, netbox.IPAddressWrite{
			Address:            want.Address,
			Status:             "active",
			AssignedObjectType: netbox.ObjectTypeInterface,
			AssignedObjectID:   iface.ID,
		})
		if err != nil {
			if fatal(err) {
				return res, err
			}
			alog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("address create failed")
			res.Failed++
			continue
		}
		s.AddIP(want.Device, want.Interface, *created)
		alog.Info("created address")
		res.Created++

		if want.Primary {
			if err := p.setPrimary(ctx, s, want, created.ID, alog); err != nil {
				if fatal(err) {
					return res, err
				}
				res.Failed++
			}
		}
	}

	for _, ch := range p.plan.Update {
		want := *ch.After
		alog := log.WithFields(logrus.Fields{
			"device":  want.Device,
			"address": want.Address,
			"changes": deltaSummary(ch.Deltas),
		})
		if p.st.dryRun {
			alog.Info("would set primary ip")
			res.Updated++
			continue
		}
		have, ok := s.IPs[ch.Key]
		if !ok {
			res.Skipped++
			continue
		}
		if err := p.setPrimary(ctx, s, want, have.ID, alog); err != nil {
			if fatal(err) {
				return res, err
			}
			res.Failed++
			continue
		}
		res.Updated++
	}

	for _, ch := range p.plan.Delete {
		dev, rest, _ := strings.Cut(ch.Key, "|")
		iface, addr, _ := strings.Cut(rest, "|")
		alog := log.WithFields(logrus.Fields{"device": dev, "interface": iface, "address": addr})
		if p.st.dryRun {
			alog.Info("would delete address")
			delete(s.IPs, ch.Key)
			res.Deleted++
			continue
		}
		have, ok := s.IPs[ch.Key]
		if !ok {
			res.Skipped++
			continue
		}
		if err := p.st.client.DeleteIPAddress(ctx, have.ID); err != nil {
			if fatal(err) {
				return res, err
			}
			alog.WithError(err).WithField("category", util.CategoryOf(err)).
				Warn("address delete failed")
			res.Failed++
			continue
		}
		delete(s.IPs, ch.Key)
		alog.Info("deleted address")
		res.Deleted++
	}

	return res, nil
}

// setPrimary points the owning device's primary_ip4 at the address.
// Only IPv4 qualifies; NetBox tracks v6 primaries separately and the
// fleet manages devices over v4.
func (p *ipPhase) setPrimary(ctx context.Context, s *Snapshot, want DesiredIP, ipID int, alog *logrus.Entry) error {
	host, _ := util.SplitIPMask(want.Address)
	if !util.IsValidIPv4(host) {
		alog.Debug("primary candidate is not ipv4, leaving device primary alone")
		return nil
	}
	dev, ok := s.Device(want.Device)
	if !ok {
		return nil
	}
	if err := p.st.client.SetPrimaryIP4(ctx, dev.ID, ipID); err != nil {
		alog.WithError(err).WithField("category", util.CategoryOf(err)).
			Warn("setting primary ip failed")
		return err
	}
	dev.PrimaryIP4 = &netbox.IPRef{ID: ipID, Address: want.Address}
	s.AddDevice(dev)
	alog.Info("set primary ip")
	return nil
}
