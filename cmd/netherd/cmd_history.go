package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/netherd-io/netherd/pkg/cli"
	"github.com/netherd-io/netherd/pkg/util"
)

var historyLimitFlag int

func init() {
	historyListCmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "show at most N runs")
	historyCmd.AddCommand(historyListCmd, historyShowCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := historyStore()
		if store == nil {
			return util.NewValidationError("history store unavailable")
		}
		defer store.Close()

		records, err := store.List(historyLimitFlag)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No runs recorded")
			return nil
		}

		t := cli.NewTable("RUN", "COMMAND", "STARTED", "ELAPSED", "DEVICES", "RECORDS", "RESULT")
		for _, rec := range records {
			id := rec.RunID
			if len(id) > 8 {
				id = id[:8]
			}
			command := rec.Command
			if rec.DryRun {
				command += " (dry-run)"
			}
			result := cli.Green("ok")
			if rec.Error != "" {
				result = cli.Red(fmt.Sprintf("exit %d", rec.ExitCode))
			}
			t.Row(id, command,
				rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
				rec.Elapsed.Round(time.Second).String(),
				fmt.Sprintf("%d", len(rec.Devices)),
				fmt.Sprintf("%d", rec.Records),
				result)
		}
		t.Flush()
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := historyStore()
		if store == nil {
			return util.NewValidationError("history store unavailable")
		}
		defer store.Close()

		rec, ok, err := store.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("run %q not found: %w", args[0], util.ErrNotFound)
		}

		fmt.Printf("Run:      %s\n", rec.RunID)
		fmt.Printf("Command:  %s\n", rec.Command)
		fmt.Printf("Started:  %s\n", rec.StartedAt.Local().Format(time.RFC1123))
		fmt.Printf("Elapsed:  %s\n", rec.Elapsed.Round(time.Millisecond))
		if rec.DryRun {
			fmt.Println("Mode:     dry-run")
		}
		if rec.Site != "" {
			fmt.Printf("Site:     %s\n", rec.Site)
		}
		if rec.Error != "" {
			fmt.Printf("Error:    %s (exit %d)\n", rec.Error, rec.ExitCode)
		}

		if len(rec.Devices) > 0 {
			fmt.Println()
			t := cli.NewTable("DEVICE", "STATUS", "RECORDS", "ERROR")
			for _, d := range rec.Devices {
				t.Row(d.Device, d.Status, fmt.Sprintf("%d", d.Records), d.Error)
			}
			t.Flush()
		}
		if len(rec.Phases) > 0 {
			fmt.Println()
			t := cli.NewTable("PHASE", "CREATED", "UPDATED", "DELETED", "SKIPPED", "FAILED")
			for _, p := range rec.Phases {
				t.Row(p.Phase,
					fmt.Sprintf("%d", p.Created),
					fmt.Sprintf("%d", p.Updated),
					fmt.Sprintf("%d", p.Deleted),
					fmt.Sprintf("%d", p.Skipped),
					fmt.Sprintf("%d", p.Failed))
			}
			t.Flush()
		}
		return nil
	},
}
