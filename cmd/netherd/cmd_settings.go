package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/netherd-io/netherd/pkg/cli"
	"github.com/netherd-io/netherd/pkg/settings"
	"github.com/netherd-io/netherd/pkg/util"
)

func init() {
	settingsCmd.AddCommand(settingsListCmd, settingsGetCmd, settingsSetCmd, settingsClearCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent settings",
	Long: `Manage persistent settings stored in ~/.netherd/settings.json.

Available settings:
  netbox_url       - NetBox base URL (NETBOX_URL overrides)
  default_site     - default --site filter
  default_role     - default --role filter
  parallel         - device fan-out cap
  command_timeout  - per-command timeout in seconds
  templates_dir    - local parser template overrides
  history_backend  - run history store: file or redis
  history_path     - history file location
  history_limit    - retained run records
  redis_addr       - redis host:port for the redis backend

Examples:
  netherd settings list
  netherd settings set netbox_url https://netbox.example.net
  netherd settings set parallel 20`,
}

// settingNames is the display order for settings list.
var settingNames = []string{
	"netbox_url", "default_site", "default_role", "parallel",
	"command_timeout", "templates_dir", "history_backend",
	"history_path", "history_limit", "redis_addr",
}

// getSetting returns a setting's display value, empty when unset.
func getSetting(s *settings.Settings, name string) (string, error) {
	switch name {
	case "netbox_url":
		return s.NetBoxURL, nil
	case "default_site":
		return s.DefaultSite, nil
	case "default_role":
		return s.DefaultRole, nil
	case "templates_dir":
		return s.TemplatesDir, nil
	case "history_backend":
		return s.HistoryBackend, nil
	case "history_path":
		return s.HistoryPath, nil
	case "redis_addr":
		return s.RedisAddr, nil
	case "parallel":
		return intSetting(s.Parallel), nil
	case "command_timeout":
		return intSetting(s.CommandTimeoutSec), nil
	case "history_limit":
		return intSetting(s.HistoryLimit), nil
	}
	return "", util.NewValidationError(fmt.Sprintf("unknown setting %q", name))
}

// setSetting validates and stores one setting value.
func setSetting(s *settings.Settings, name, value string) error {
	switch name {
	case "netbox_url":
		s.NetBoxURL = value
	case "default_site":
		s.DefaultSite = value
	case "default_role":
		s.DefaultRole = value
	case "templates_dir":
		s.TemplatesDir = value
	case "history_backend":
		if value != "file" && value != "redis" {
			return util.NewValidationError("history_backend must be file or redis")
		}
		s.HistoryBackend = value
	case "history_path":
		s.HistoryPath = value
	case "redis_addr":
		s.RedisAddr = value
	case "parallel", "command_timeout", "history_limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return util.NewValidationError(fmt.Sprintf("invalid %s %q: want a non-negative number", name, value))
		}
		switch name {
		case "parallel":
			s.Parallel = n
		case "command_timeout":
			s.CommandTimeoutSec = n
		case "history_limit":
			s.HistoryLimit = n
		}
	default:
		return util.NewValidationError(fmt.Sprintf("unknown setting %q", name))
	}
	return nil
}

func intSetting(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Settings file: %s\n\n", settings.DefaultSettingsPath())

		t := cli.NewTable("SETTING", "VALUE")
		for _, name := range settingNames {
			v, err := getSetting(userSettings, name)
			if err != nil {
				return err
			}
			if v == "" {
				v = cli.Dim("(not set)")
			}
			t.Row(name, v)
		}
		t.Flush()
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <setting>",
	Short: "Print one setting value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := getSetting(userSettings, args[0])
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setSetting(userSettings, args[0], args[1]); err != nil {
			return err
		}
		if err := userSettings.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Printf("%s set to %s\n", args[0], args[1])
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset all settings to defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userSettings.Clear()
		if err := userSettings.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Println("Settings cleared")
		return nil
	},
}
