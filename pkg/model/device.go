// Package model defines the canonical records produced by collection and
// consumed by reconciliation. Records are platform-neutral: normalizers strip
// all vendor-specific shape before anything lands here.
package model

import "time"

// Device identifies one piece of network gear and how to reach it.
// Supplied by the caller; immutable within a run.
type Device struct {
	Host       string `json:"host"`                  // IPv4/IPv6 or hostname
	Platform   string `json:"platform"`              // platform tag, e.g. "cisco_ios"
	DeviceType string `json:"device_type,omitempty"` // NetBox model hint only
	Site       string `json:"site,omitempty"`
	Role       string `json:"role,omitempty"`
	Name       string `json:"name,omitempty"` // friendly name; defaults to Host
	Enabled    bool   `json:"enabled"`
}

// DisplayName returns the friendly name, falling back to the host.
func (d Device) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Host
}

// Credentials carry the SSH login for a device set. Passed by value and
// never persisted; String() redacts so accidental logging stays harmless.
type Credentials struct {
	Username string
	Password string
	Enable   string // optional enable secret
}

func (c Credentials) String() string {
	return "Credentials{username=" + c.Username + " password=<redacted>}"
}

// DeviceFacts is the result of the devices intent for one device.
type DeviceFacts struct {
	Device    string `json:"device"` // input host
	Hostname  string `json:"hostname"`
	Vendor    string `json:"vendor"`
	Model     string `json:"model,omitempty"`
	OSVersion string `json:"os_version,omitempty"`
	Serial    string `json:"serial,omitempty"`
	Uptime    string `json:"uptime,omitempty"`
	MgmtIP    string `json:"mgmt_ip,omitempty"`
}

// ConfigBackup holds one device's running configuration.
type ConfigBackup struct {
	Device      string    `json:"device"`
	Text        string    `json:"text"`
	CollectedAt time.Time `json:"collected_at"`
}

// CommandOutput holds the raw output of an ad-hoc command run.
type CommandOutput struct {
	Device  string `json:"device"`
	Command string `json:"command"`
	Output  string `json:"output"`
}
