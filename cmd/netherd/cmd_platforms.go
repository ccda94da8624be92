package main

import (
	"github.com/spf13/cobra"

	"github.com/netherd-io/netherd/pkg/cli"
	"github.com/netherd-io/netherd/pkg/platform"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported platforms and their collection commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := cli.NewTable("PLATFORM", "VENDOR", "DRIVER", "TEMPLATES", "DEVICES COMMAND")
		for _, tag := range platform.Tags() {
			p, err := platform.Resolve(tag)
			if err != nil {
				return err
			}
			devCmd, _ := p.CommandFor(platform.IntentDevices)
			t.Row(p.Tag, p.Vendor, string(p.Driver), p.TemplateFamily, devCmd)
		}
		t.Flush()
		return nil
	},
}
