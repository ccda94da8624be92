package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netherd-io/netherd/pkg/cli"
	"github.com/netherd-io/netherd/pkg/collect"
	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/run"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Save the running configuration of every device",
	Long: `Save each device's running configuration under the output directory,
one <device>.cfg file per device.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCollect(cmd, "backup", collectOpts{}, func(ctx context.Context, rctx *run.Context, eng *collect.Engine, devices []model.Device) (int, *collect.Report, error) {
			backups, report := eng.Backup(ctx, devices)

			t := cli.NewTable("DEVICE", "FILE", "SIZE")
			for _, b := range backups {
				path, err := rctx.OutputPath(b.Device + ".cfg")
				if err != nil {
					return len(backups), report, err
				}
				if err := os.WriteFile(path, []byte(b.Text), 0o600); err != nil {
					return len(backups), report, fmt.Errorf("writing backup for %s: %w", b.Device, err)
				}
				t.Row(b.Device, path, fmt.Sprintf("%d bytes", len(b.Text)))
			}
			t.Flush()
			return len(backups), report, nil
		})
	},
}
