// Netherd - network fleet inventory collector and NetBox reconciler
//
// Netherd drives heterogeneous network devices (Cisco IOS/IOS-XE/NX-OS/
// IOS-XR, Arista EOS, Juniper, QTech) over SSH, parses their CLI output
// into canonical records, and reconciles those records against NetBox.
//
//	netherd devices -i devices.yaml               # identity facts per device
//	netherd interfaces -i devices.yaml            # interface table with LAG/switchport/media
//	netherd mac -i devices.yaml --exclude-trunk   # MAC address table
//	netherd lldp -i devices.yaml --protocol both  # LLDP/CDP neighbors
//	netherd inventory -i devices.yaml             # chassis/module/SFP inventory
//	netherd backup -i devices.yaml                # running-config backups
//	netherd run -i devices.yaml "show clock"      # ad-hoc command
//	netherd sync-netbox -i devices.yaml --sync-all
//
// Collection credentials come from NET_USERNAME/NET_PASSWORD (prompted
// when absent and stdin is a terminal); NetBox access from NETBOX_URL/
// NETBOX_TOKEN. sync-netbox previews by default — use -x to execute.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netherd-io/netherd/pkg/cli"
	"github.com/netherd-io/netherd/pkg/settings"
	"github.com/netherd-io/netherd/pkg/util"
	"github.com/netherd-io/netherd/pkg/version"
)

var (
	// Fleet selection flags
	inventoryFile string   // -i, --inventory
	hostFlags     []string // --host (repeatable)
	platformFlag  string   // --platform (for --host entries)
	siteFlag      string   // --site
	roleFlag      string   // --role
	limitFlag     int      // --limit

	// Transport flags
	usernameFlag string
	parallelFlag int
	timeoutFlag  int // seconds per command
	retriesFlag  int

	// Output flags
	outputDir string // -o, --output
	logLevel  string
	logJSON   bool

	userSettings *settings.Settings
)

func main() {
	code := 0
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.Red("Error:")+" "+err.Error())
		code = exitCode(err)
	}
	os.Exit(code)
}

var rootCmd = &cobra.Command{
	Use:               "netherd",
	Short:             "Network fleet inventory collector and NetBox reconciler",
	Version:           version.Info(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Netherd inventories a fleet of network devices over SSH and reconciles
the result with NetBox.

Devices come from a YAML inventory file (-i) or from repeated --host
flags with a --platform. Collection intents emit canonical JSON records
under the output directory; sync-netbox diffs them against NetBox and
applies the plan in dependency order (dry-run by default, -x executes).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		if siteFlag == "" {
			siteFlag = userSettings.DefaultSite
		}
		if roleFlag == "" {
			roleFlag = userSettings.DefaultRole
		}
		if parallelFlag == 0 {
			parallelFlag = userSettings.GetParallel()
		}
		if timeoutFlag == 0 && userSettings.CommandTimeoutSec > 0 {
			timeoutFlag = userSettings.CommandTimeoutSec
		}

		if logJSON {
			util.SetJSONFormat()
		}
		return util.SetLogLevel(logLevel)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&inventoryFile, "inventory", "i", "", "devices YAML file")
	pf.StringArrayVar(&hostFlags, "host", nil, "device host (repeatable; requires --platform)")
	pf.StringVar(&platformFlag, "platform", "", "platform tag for --host devices")
	pf.StringVar(&siteFlag, "site", "", "only devices at this site")
	pf.StringVar(&roleFlag, "role", "", "only devices with this role")
	pf.IntVar(&limitFlag, "limit", 0, "collect from at most N devices")
	pf.StringVar(&usernameFlag, "username", "", "SSH username (default NET_USERNAME)")
	pf.IntVar(&parallelFlag, "parallel", 0, "device fan-out cap")
	pf.IntVar(&timeoutFlag, "timeout", 0, "per-command timeout in seconds")
	pf.IntVar(&retriesFlag, "retries", 0, "connect attempts per device")
	pf.StringVarP(&outputDir, "output", "o", "", "output directory (default netherd-out/<run-id>)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.BoolVar(&logJSON, "log-json", false, "emit logs as JSON")

	rootCmd.AddCommand(
		devicesCmd,
		interfacesCmd,
		macCmd,
		lldpCmd,
		inventoryCmd,
		backupCmd,
		runCmd,
		syncCmd,
		platformsCmd,
		historyCmd,
		settingsCmd,
	)
}

// exitError carries an explicit exit code for outcomes that are not
// plain errors, like a run that completed with per-device failures.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// exitCode maps an error to the documented exit codes: 2 for
// configuration and validation problems, 3 for NetBox authentication,
// 4 for everything else. Device-level failures come through exitError
// with code 1.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	switch util.CategoryOf(err) {
	case util.CategoryConfig:
		return 2
	case util.CategoryAuth:
		return 3
	default:
		return 4
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM. In-flight
// device work stops after its current blocking call; partial results
// already emitted are kept.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
