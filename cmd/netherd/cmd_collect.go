package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netherd-io/netherd/pkg/cli"
	"github.com/netherd-io/netherd/pkg/collect"
	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/run"
	"github.com/netherd-io/netherd/pkg/util"
)

var (
	noEnrichFlag     bool
	saveRawFlag      bool
	excludeTrunkFlag bool
	protocolFlag     string
)

func init() {
	for _, c := range []*cobra.Command{devicesCmd, interfacesCmd, macCmd, lldpCmd, inventoryCmd} {
		c.Flags().BoolVar(&saveRawFlag, "save-raw", false, "save raw command output under the output dir")
	}
	interfacesCmd.Flags().BoolVar(&noEnrichFlag, "no-enrich", false, "skip LAG/switchport/media enrichment")
	macCmd.Flags().BoolVar(&excludeTrunkFlag, "exclude-trunk", false, "drop MACs learned on trunk ports")
	lldpCmd.Flags().StringVar(&protocolFlag, "protocol", "lldp", "neighbor protocol: lldp, cdp, or both")
}

// collectFunc runs one intent over the fleet and returns how many
// canonical records it produced.
type collectFunc func(ctx context.Context, rctx *run.Context, eng *collect.Engine, devices []model.Device) (int, *collect.Report, error)

// runCollect is the shared driver behind every collection command:
// resolve fleet and credentials, fan out, export, report, record.
func runCollect(cmd *cobra.Command, intent string, opts collectOpts, fn collectFunc) error {
	devices, err := loadFleet()
	if err != nil {
		return err
	}
	creds, err := credentials()
	if err != nil {
		return err
	}

	rctx := newRunContext(false)
	opts.saveRaw = opts.saveRaw || saveRawFlag
	eng, err := newEngine(rctx, creds, opts)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	rctx.Log().WithField("devices", len(devices)).Infof("collecting %s", intent)
	records, report, err := fn(ctx, rctx, eng, devices)
	if err != nil {
		recordHistory(rctx, intent, report, records, err)
		return err
	}

	runErr := printReport(report)
	recordHistory(rctx, intent, report, records, runErr)
	return runErr
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Collect identity facts from every device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCollect(cmd, "devices", collectOpts{}, func(ctx context.Context, rctx *run.Context, eng *collect.Engine, devices []model.Device) (int, *collect.Report, error) {
			facts, report := eng.Devices(ctx, devices)
			if err := writeExport(rctx, "devices", facts); err != nil {
				return len(facts), report, err
			}

			t := cli.NewTable("DEVICE", "HOSTNAME", "VENDOR", "MODEL", "VERSION", "SERIAL")
			for _, f := range facts {
				t.Row(f.Device, f.Hostname, f.Vendor, f.Model, f.OSVersion, f.Serial)
			}
			t.Flush()
			return len(facts), report, nil
		})
	},
}

var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "Collect the interface table with LAG, switchport, and media enrichment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := collectOpts{noEnrich: noEnrichFlag}
		return runCollect(cmd, "interfaces", opts, func(ctx context.Context, rctx *run.Context, eng *collect.Engine, devices []model.Device) (int, *collect.Report, error) {
			ifaces, report := eng.Interfaces(ctx, devices)
			if err := writeExport(rctx, "interfaces", ifaces); err != nil {
				return len(ifaces), report, err
			}

			t := cli.NewTable("DEVICE", "INTERFACE", "TYPE", "MODE", "VLANS", "LAG", "DESCRIPTION")
			for i := range ifaces {
				ifc := &ifaces[i]
				t.Row(ifc.Device, ifc.Name, string(ifc.PortType), string(ifc.Mode),
					vlanSummary(ifc), ifc.LAGParent, ifc.Description)
			}
			t.Flush()
			return len(ifaces), report, nil
		})
	},
}

var macCmd = &cobra.Command{
	Use:   "mac",
	Short: "Collect the MAC address table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := collectOpts{excludeTrunks: excludeTrunkFlag}
		return runCollect(cmd, "mac", opts, func(ctx context.Context, rctx *run.Context, eng *collect.Engine, devices []model.Device) (int, *collect.Report, error) {
			macs, report := eng.MACs(ctx, devices)
			if err := writeExport(rctx, "mac", macs); err != nil {
				return len(macs), report, err
			}
			fmt.Printf("%d MAC entries\n", len(macs))
			return len(macs), report, nil
		})
	},
}

var lldpCmd = &cobra.Command{
	Use:   "lldp",
	Short: "Collect LLDP/CDP neighbors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validProtocol(protocolFlag); err != nil {
			return err
		}
		opts := collectOpts{protocol: protocolFlag}
		return runCollect(cmd, "lldp", opts, func(ctx context.Context, rctx *run.Context, eng *collect.Engine, devices []model.Device) (int, *collect.Report, error) {
			neighbors, report := eng.LLDP(ctx, devices)
			if err := writeExport(rctx, "lldp", neighbors); err != nil {
				return len(neighbors), report, err
			}

			t := cli.NewTable("DEVICE", "INTERFACE", "NEIGHBOR", "REMOTE INTERFACE", "PLATFORM")
			for _, n := range neighbors {
				t.Row(n.Device, n.LocalInterface, n.RemoteName, n.RemoteInterface, n.RemotePlatform)
			}
			t.Flush()
			return len(neighbors), report, nil
		})
	},
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Collect chassis, module, transceiver, PSU, and fan inventory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCollect(cmd, "inventory", collectOpts{}, func(ctx context.Context, rctx *run.Context, eng *collect.Engine, devices []model.Device) (int, *collect.Report, error) {
			items, report := eng.Inventory(ctx, devices)
			if err := writeExport(rctx, "inventory", items); err != nil {
				return len(items), report, err
			}

			t := cli.NewTable("DEVICE", "KIND", "SLOT", "PART", "SERIAL", "DESCRIPTION")
			for _, it := range items {
				t.Row(it.Device, string(it.Kind), it.Slot, it.PartID, it.Serial, it.Description)
			}
			t.Flush()
			return len(items), report, nil
		})
	},
}

func validProtocol(p string) error {
	switch p {
	case collect.ProtocolLLDP, collect.ProtocolCDP, collect.ProtocolBoth:
		return nil
	}
	return util.NewValidationError(fmt.Sprintf("invalid --protocol %q: want lldp, cdp, or both", p))
}

// vlanSummary renders an interface's VLAN assignment for the table.
func vlanSummary(ifc *model.Interface) string {
	switch ifc.Mode {
	case model.ModeAccess:
		if ifc.UntaggedVLAN > 0 {
			return strconv.Itoa(ifc.UntaggedVLAN)
		}
	case model.ModeTaggedAll:
		return "all"
	case model.ModeTagged:
		parts := make([]string, 0, len(ifc.TaggedVLANs)+1)
		if ifc.UntaggedVLAN > 0 {
			parts = append(parts, strconv.Itoa(ifc.UntaggedVLAN)+"u")
		}
		for _, v := range ifc.TaggedVLANs {
			parts = append(parts, strconv.Itoa(v))
		}
		return strings.Join(parts, ",")
	}
	return ""
}
