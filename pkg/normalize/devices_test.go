package normalize

import (
	"testing"

	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/parse"
)

func TestFacts(t *testing.T) {
	rows := []parse.Row{{
		"hostname": "core-sw1",
		"version":  "16.12.4",
		"model":    "WS-C3850-48T",
		"serial":   "FOC1234X0AB",
		"uptime":   "1 year, 12 weeks, 3 days",
	}}

	got := Facts(rows, testDevice(), "Cisco")
	if got.Device != "10.0.0.1" {
		t.Errorf("Device = %q, want the input host", got.Device)
	}
	if got.Hostname != "core-sw1" {
		t.Errorf("Hostname = %q, want core-sw1", got.Hostname)
	}
	if got.Vendor != "Cisco" || got.Model != "WS-C3850-48T" {
		t.Errorf("identity = (%q, %q), want (Cisco, WS-C3850-48T)", got.Vendor, got.Model)
	}
	if got.OSVersion != "16.12.4" || got.Serial != "FOC1234X0AB" {
		t.Errorf("version/serial = (%q, %q)", got.OSVersion, got.Serial)
	}
	if got.MgmtIP != "10.0.0.1" {
		t.Errorf("MgmtIP = %q, want 10.0.0.1", got.MgmtIP)
	}
}

func TestFactsFallbacks(t *testing.T) {
	// Some platforms (EOS) print no hostname in version output.
	dev := model.Device{Host: "switch9.example.net", Platform: "arista_eos", Name: "spine9"}
	got := Facts([]parse.Row{{"version": "4.28.1F", "model": "DCS-7050SX3"}}, dev, "Arista")
	if got.Hostname != "spine9" {
		t.Errorf("Hostname = %q, want fleet name fallback", got.Hostname)
	}
	if got.MgmtIP != "" {
		t.Errorf("MgmtIP = %q, want empty for a non-IP host", got.MgmtIP)
	}

	got = Facts(nil, dev, "Arista")
	if got.Hostname != "spine9" || got.Vendor != "Arista" {
		t.Errorf("empty-parse facts = %+v, want name and vendor fallbacks", got)
	}
}
