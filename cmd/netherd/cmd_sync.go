package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netherd-io/netherd/pkg/cli"
	"github.com/netherd-io/netherd/pkg/collect"
	"github.com/netherd-io/netherd/pkg/history"
	"github.com/netherd-io/netherd/pkg/netbox"
	"github.com/netherd-io/netherd/pkg/reconcile"
	"github.com/netherd-io/netherd/pkg/run"
	"github.com/netherd-io/netherd/pkg/util"
)

var (
	syncCreateDevices bool
	syncUpdateDevices bool
	syncInterfaces    bool
	syncIPs           bool
	syncVLANs         bool
	syncCables        bool
	syncInventory     bool
	syncCleanup       bool
	syncAll           bool
	syncTenant        string
	syncProtocol      string
	syncExecute       bool
)

func init() {
	f := syncCmd.Flags()
	f.BoolVar(&syncCreateDevices, "create-devices", false, "create devices missing from NetBox")
	f.BoolVar(&syncUpdateDevices, "update-devices", false, "update changed devices")
	f.BoolVar(&syncInterfaces, "interfaces", false, "sync interfaces")
	f.BoolVar(&syncIPs, "ip-addresses", false, "sync IP addresses and device primary IPs")
	f.BoolVar(&syncVLANs, "vlans", false, "sync VLANs derived from SVIs")
	f.BoolVar(&syncCables, "cables", false, "create cables from LLDP/CDP neighbors")
	f.BoolVar(&syncInventory, "inventory", false, "sync inventory items")
	f.BoolVar(&syncCleanup, "cleanup", false, "delete tenant-owned records absent from the fleet (requires --tenant)")
	f.BoolVar(&syncAll, "sync-all", false, "enable every record kind")
	f.StringVar(&syncTenant, "tenant", "", "NetBox tenant owning the synced records")
	f.StringVar(&syncProtocol, "protocol", "lldp", "neighbor protocol for cables: lldp, cdp, or both")
	f.BoolVarP(&syncExecute, "execute", "x", false, "apply the plan (default is dry-run)")
	f.Bool("dry-run", true, "preview only; superseded by -x")
}

var syncCmd = &cobra.Command{
	Use:   "sync-netbox",
	Short: "Reconcile collected records into NetBox",
	Long: `Collect from the fleet and reconcile the result into NetBox in
dependency order: devices, interfaces, IP addresses, VLANs, cables,
inventory items.

Dry-run by default: the plan is computed and logged but nothing is
written. Use -x to execute. --cleanup deletes records owned by --tenant
that the fleet no longer reports; it refuses to run without a tenant.

Examples:
  netherd sync-netbox -i devices.yaml --create-devices --interfaces
  netherd sync-netbox -i devices.yaml --sync-all -x
  netherd sync-netbox -i devices.yaml --sync-all --cleanup --tenant noc -x`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rflags := reconcile.Flags{
			CreateDevices: syncCreateDevices,
			UpdateDevices: syncUpdateDevices,
			Interfaces:    syncInterfaces,
			IPAddresses:   syncIPs,
			VLANs:         syncVLANs,
			Cables:        syncCables,
			Inventory:     syncInventory,
			Cleanup:       syncCleanup,
			Tenant:        syncTenant,
			Site:          siteFlag,
		}
		if syncAll {
			rflags.EnableAll()
		}
		if err := rflags.Validate(); err != nil {
			return err
		}
		if err := validProtocol(syncProtocol); err != nil {
			return err
		}

		client, err := netboxClient()
		if err != nil {
			return err
		}

		devices, err := loadFleet()
		if err != nil {
			return err
		}
		creds, err := credentials()
		if err != nil {
			return err
		}

		rctx := newRunContext(!syncExecute)
		eng, err := newEngine(rctx, creds, collectOpts{protocol: syncProtocol})
		if err != nil {
			return err
		}

		ctx, stop := signalContext(cmd)
		defer stop()

		log := rctx.Log().WithField("dry_run", rctx.DryRun)
		log.WithField("devices", len(devices)).Info("collecting for sync")

		in := reconcile.Input{
			Devices: devices,
			Site:    siteFlag,
			Role:    roleFlag,
		}
		var reports []*collect.Report

		facts, report := eng.Devices(ctx, devices)
		in.Facts = facts
		reports = append(reports, report)

		if rflags.Interfaces || rflags.IPAddresses || rflags.VLANs {
			ifaces, report := eng.Interfaces(ctx, devices)
			in.Interfaces = ifaces
			reports = append(reports, report)
		}
		if rflags.Cables {
			neighbors, report := eng.LLDP(ctx, devices)
			in.Neighbors = neighbors
			reports = append(reports, report)
		}
		if rflags.Inventory {
			items, report := eng.Inventory(ctx, devices)
			in.Inventory = items
			reports = append(reports, report)
		}
		collectFailures := 0
		for _, r := range reports {
			_, _, failed, _ := r.Counts()
			collectFailures += failed
		}

		desired := reconcile.BuildDesired(in)
		rec := reconcile.New(client, netbox.NewLookup(client), rflags, rctx.DryRun)
		summary, runErr := rec.Run(ctx, desired)

		if summary != nil {
			printSyncSummary(summary)
		}
		recordSyncHistory(rctx, summary, runErr)
		if runErr != nil {
			return runErr
		}

		if rctx.DryRun {
			fmt.Println(cli.Dim("dry-run: no changes were written; re-run with -x to apply"))
		}
		if failed := summary.Failed() + collectFailures; failed > 0 {
			return &exitError{code: 1, msg: fmt.Sprintf("sync completed with %d failures", failed)}
		}
		return nil
	},
}

// netboxClient builds the API client from NETBOX_URL/NETBOX_TOKEN,
// falling back to the settings file for the URL.
func netboxClient() (*netbox.Client, error) {
	url := os.Getenv("NETBOX_URL")
	if url == "" {
		url = userSettings.NetBoxURL
	}
	if url == "" {
		return nil, util.NewValidationError("NetBox URL not set: export NETBOX_URL or run `netherd settings set netbox_url <url>`")
	}
	token := os.Getenv("NETBOX_TOKEN")
	if token == "" {
		return nil, util.NewValidationError("NetBox token not set: export NETBOX_TOKEN")
	}
	return netbox.New(url, token)
}

func printSyncSummary(summary *reconcile.Summary) {
	t := cli.NewTable("PHASE", "CREATED", "UPDATED", "DELETED", "SKIPPED", "FAILED")
	for _, p := range summary.Phases {
		failed := fmt.Sprintf("%d", p.Failed)
		if p.Failed > 0 {
			failed = cli.Red(failed)
		}
		t.Row(p.Phase,
			fmt.Sprintf("%d", p.Created),
			fmt.Sprintf("%d", p.Updated),
			fmt.Sprintf("%d", p.Deleted),
			fmt.Sprintf("%d", p.Skipped),
			failed)
	}
	t.Flush()
}

func recordSyncHistory(rctx *run.Context, summary *reconcile.Summary, runErr error) {
	store := historyStore()
	if store == nil {
		return
	}
	defer store.Close()

	rec := history.Record{
		RunID:     rctx.RunID,
		Command:   "sync-netbox",
		StartedAt: rctx.StartedAt,
		Elapsed:   rctx.Elapsed(),
		DryRun:    rctx.DryRun,
		Site:      siteFlag,
		Role:      roleFlag,
	}
	if summary != nil {
		rec.Phases = summary.Phases
	}
	if runErr != nil {
		rec.Error = runErr.Error()
		rec.ExitCode = exitCode(runErr)
	}
	if err := store.Append(rec); err != nil {
		util.Warnf("recording history: %v", err)
	}
}
