package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/platform"
	"github.com/netherd-io/netherd/pkg/settings"
	"github.com/netherd-io/netherd/pkg/util"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"device failures", &exitError{code: 1, msg: "2 of 5 devices failed"}, 1},
		{"validation", util.NewValidationError("bad flags"), 2},
		{"unknown platform", &platform.UnknownPlatformError{Tag: "sonic"}, 2},
		{"wrapped config", fmt.Errorf("loading: %w", util.ErrInvalidConfig), 2},
		{"internal", errors.New("boom"), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestValidProtocol(t *testing.T) {
	for _, p := range []string{"lldp", "cdp", "both"} {
		if err := validProtocol(p); err != nil {
			t.Errorf("validProtocol(%q) = %v", p, err)
		}
	}
	if err := validProtocol("stp"); err == nil {
		t.Error("validProtocol(\"stp\") = nil, want error")
	}
}

func TestVLANSummary(t *testing.T) {
	tests := []struct {
		name  string
		iface model.Interface
		want  string
	}{
		{"access", model.Interface{Mode: model.ModeAccess, UntaggedVLAN: 10}, "10"},
		{"access unset", model.Interface{Mode: model.ModeAccess}, ""},
		{"tagged-all", model.Interface{Mode: model.ModeTaggedAll}, "all"},
		{"tagged", model.Interface{Mode: model.ModeTagged, TaggedVLANs: []int{10, 20}}, "10,20"},
		{"tagged with native", model.Interface{Mode: model.ModeTagged, UntaggedVLAN: 1, TaggedVLANs: []int{10}}, "1u,10"},
		{"unset", model.Interface{Mode: model.ModeUnset}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vlanSummary(&tt.iface); got != tt.want {
				t.Errorf("vlanSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetSetting(t *testing.T) {
	s := &settings.Settings{}

	if err := setSetting(s, "netbox_url", "https://netbox.example.net"); err != nil {
		t.Fatalf("setSetting(netbox_url) error = %v", err)
	}
	if s.NetBoxURL != "https://netbox.example.net" {
		t.Errorf("NetBoxURL = %q", s.NetBoxURL)
	}

	if err := setSetting(s, "parallel", "20"); err != nil {
		t.Fatalf("setSetting(parallel) error = %v", err)
	}
	if s.Parallel != 20 {
		t.Errorf("Parallel = %d, want 20", s.Parallel)
	}

	if err := setSetting(s, "parallel", "lots"); err == nil {
		t.Error("setSetting(parallel, lots) = nil, want error")
	}
	if err := setSetting(s, "history_backend", "etcd"); err == nil {
		t.Error("setSetting(history_backend, etcd) = nil, want error")
	}
	if err := setSetting(s, "nope", "x"); err == nil {
		t.Error("setSetting(nope) = nil, want error")
	}

	got, err := getSetting(s, "parallel")
	if err != nil || got != "20" {
		t.Errorf("getSetting(parallel) = %q, %v", got, err)
	}
	if _, err := getSetting(s, "nope"); err == nil {
		t.Error("getSetting(nope) = nil error, want error")
	}
}
