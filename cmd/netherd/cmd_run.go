package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netherd-io/netherd/pkg/cli"
	"github.com/netherd-io/netherd/pkg/collect"
	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/run"
)

var runCmd = &cobra.Command{
	Use:   "run <command>",
	Short: "Run an ad-hoc CLI command on every device",
	Long: `Run one CLI command across the fleet and print the raw output per
device. Output is also saved under the output directory for offline use.

Examples:
  netherd run -i devices.yaml "show clock"
  netherd run --host 10.0.0.1 --platform cisco_ios "show ip route summary"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command := strings.TrimSpace(args[0])
		return runCollect(cmd, "run", collectOpts{saveRaw: true}, func(ctx context.Context, rctx *run.Context, eng *collect.Engine, devices []model.Device) (int, *collect.Report, error) {
			outputs, report := eng.Run(ctx, devices, command)
			for _, out := range outputs {
				fmt.Printf("%s %s\n%s\n", cli.Bold("==="), cli.Bold(out.Device), out.Output)
			}
			return len(outputs), report, nil
		})
	},
}
