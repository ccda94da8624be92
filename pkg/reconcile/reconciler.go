package reconcile

import (
	"context"

	"github.com/juju/collections/set"
	"github.com/sirupsen/logrus"

	"github.com/netherd-io/netherd/pkg/netbox"
	"github.com/netherd-io/netherd/pkg/util"
)

// Flags select which record kinds a run reconciles. All default off;
// the sync command maps its flags onto them.
type Flags struct {
	CreateDevices bool
	UpdateDevices bool
	Interfaces    bool
	IPAddresses   bool
	VLANs         bool
	Cables        bool
	Inventory     bool

	// Cleanup deletes tenant-owned records absent from the desired
	// state. A tenant is required so only records this tool manages
	// are ever deleted.
	Cleanup bool
	Tenant  string
	Site    string
}

// EnableAll turns on every record kind; Cleanup stays as set.
func (f *Flags) EnableAll() {
	f.CreateDevices = true
	f.UpdateDevices = true
	f.Interfaces = true
	f.IPAddresses = true
	f.VLANs = true
	f.Cables = true
	f.Inventory = true
}

// Validate rejects flag combinations that could touch records beyond
// the run's scope.
func (f Flags) Validate() error {
	var v util.ValidationBuilder
	v.Add(!f.Cleanup || f.Tenant != "", "cleanup requires a tenant")
	v.Add(f.CreateDevices || f.UpdateDevices || f.Interfaces || f.IPAddresses ||
		f.VLANs || f.Cables || f.Inventory || f.Cleanup,
		"no record kinds enabled")
	return v.Build()
}

func (f Flags) devicesEnabled() bool {
	return f.CreateDevices || f.UpdateDevices || f.Cleanup
}

// Refs resolves organizational objects to ids, creating them when
// absent. *netbox.Lookup satisfies it.
type Refs interface {
	Site(ctx context.Context, name string) (int, error)
	Role(ctx context.Context, name string) (int, error)
	Platform(ctx context.Context, name string) (int, error)
	Manufacturer(ctx context.Context, name string) (int, error)
	Tenant(ctx context.Context, name string) (int, error)
	DeviceType(ctx context.Context, manufacturer, model string) (int, error)
}

// Phase is one pass over a single record kind. Plan computes the
// typed change list against the snapshot; Apply executes it, feeding
// created rows back into the snapshot so later phases can resolve
// references to them.
type Phase interface {
	Name() string
	Plan(d *Desired, s *Snapshot) Totals
	Apply(ctx context.Context, s *Snapshot) (PhaseResult, error)
}

// state is shared by every phase of one run.
type state struct {
	client Client
	refs   Refs
	flags  Flags
	dryRun bool
	failed set.Strings // devices whose create failed; dependents are dropped
	log    *logrus.Entry
	fakeID int
}

// placeholderID hands out negative ids for rows a dry run pretends to
// create, so later phases still resolve references to them. They never
// reach the client.
func (st *state) placeholderID() int {
	st.fakeID--
	return st.fakeID
}

// fatal reports whether an apply error should abort the whole run
// rather than being counted against one record.
func fatal(err error) bool {
	switch util.CategoryOf(err) {
	case util.CategoryAuth, util.CategoryCancel:
		return true
	}
	return false
}

// Reconciler drives the ordered phases of one sync run: devices,
// interfaces, addresses, VLANs, cables, inventory.
type Reconciler struct {
	st *state
}

// New assembles a reconciler. refs is typically netbox.NewLookup over
// the same client. In dry-run mode phases plan and log identically
// but never call the client.
func New(client Client, refs Refs, flags Flags, dryRun bool) *Reconciler {
	return &Reconciler{st: &state{
		client: client,
		refs:   refs,
		flags:  flags,
		dryRun: dryRun,
		failed: set.NewStrings(),
		log:    util.WithField("component", "reconcile"),
	}}
}

// Run snapshots NetBox, then plans and applies each enabled phase in
// dependency order. Per-record failures are counted and logged; only
// authentication failures and cancellation abort the run, returning
// the summary accumulated so far alongside the error.
func (r *Reconciler) Run(ctx context.Context, d *Desired) (*Summary, error) {
	if err := r.st.flags.Validate(); err != nil {
		return nil, err
	}

	scope := Scope{
		Tenant: r.st.flags.Tenant,
		Names:  d.DeviceNames(),
		Sites:  scopeSites(d, r.st.flags.Site),
	}
	snap, err := TakeSnapshot(ctx, r.st.client, scope)
	if err != nil {
		return nil, err
	}
	r.st.log.WithFields(logrus.Fields{
		"devices":    len(snap.Devices),
		"interfaces": len(snap.Interfaces),
		"vlans":      len(snap.VLANs),
		"cables":     len(snap.Cables),
	}).Info("netbox snapshot taken")

	summary := &Summary{DryRun: r.st.dryRun}
	for _, p := range r.phases() {
		totals := p.Plan(d, snap)
		r.st.log.WithFields(logrus.Fields{
			"phase": p.Name(),
			"plan":  totals.String(),
		}).Info("planned")

		res, err := p.Apply(ctx, snap)
		summary.Phases = append(summary.Phases, res)
		if err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (r *Reconciler) phases() []Phase {
	f := r.st.flags
	var phases []Phase
	if f.devicesEnabled() {
		phases = append(phases, &devicePhase{st: r.st})
	}
	if f.Interfaces {
		phases = append(phases, &interfacePhase{st: r.st})
	}
	if f.IPAddresses {
		phases = append(phases, &ipPhase{st: r.st})
	}
	if f.VLANs {
		phases = append(phases, &vlanPhase{st: r.st})
	}
	if f.Cables {
		phases = append(phases, &cablePhase{st: r.st})
	}
	if f.Inventory {
		phases = append(phases, &inventoryPhase{st: r.st})
	}
	return phases
}

// scopeSites collects the site slugs a run touches so VLAN and cable
// listing stays bounded.
func scopeSites(d *Desired, extra string) []string {
	sites := set.NewStrings()
	if extra != "" {
		sites.Add(netbox.Slugify(extra))
	}
	for _, dev := range d.Devices {
		if dev.Site != "" {
			sites.Add(dev.Site)
		}
	}
	return sites.SortedValues()
}
