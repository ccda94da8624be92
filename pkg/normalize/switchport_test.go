package normalize

import (
	"reflect"
	"testing"

	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/parse"
)

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		name string
		row  parse.Row
		want Dialect
	}{
		{"ios shape", parse.Row{"interface": "Gi0/1", "switchport": "Enabled", "admin_mode": "static access"}, DialectIOS},
		{"nxos shape", parse.Row{"interface": "Eth1/1", "switchport": "enabled", "mode": "trunk"}, DialectNXOS},
		{"qtech shape", parse.Row{"interface": "Gi0/1", "switchport": "enabled", "MODE": "ACCESS"}, DialectQTech},
		{"no shape", parse.Row{"interface": "Gi0/1"}, DialectUnknown},
		// admin_mode wins over everything else.
		{"ios beats qtech", parse.Row{"interface": "Gi0/1", "admin_mode": "trunk", "MODE": "TRUNK"}, DialectIOS},
		// A row carrying both lowercase and uppercase mode fields must
		// classify as NX-OS; testing QTech first here once produced
		// trunks with VLANs read from the wrong field.
		{"nxos beats qtech", parse.Row{"interface": "Eth1/1", "mode": "trunk", "MODE": "TRUNK"}, DialectNXOS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDialect(tt.row); got != tt.want {
				t.Errorf("DetectDialect(%v) = %q, want %q", tt.row, got, tt.want)
			}
		})
	}
}

func TestSwitchports(t *testing.T) {
	tests := []struct {
		name string
		row  parse.Row
		want Switchport
	}{
		{
			"ios access",
			parse.Row{"interface": "Gi0/1", "switchport": "Enabled", "admin_mode": "static access",
				"oper_mode": "static access", "access_vlan": "10", "native_vlan": "1", "trunking_vlans": "ALL"},
			Switchport{Interface: "GigabitEthernet0/1", Dialect: DialectIOS, Mode: model.ModeAccess, UntaggedVLAN: 10},
		},
		{
			"ios trunk with list",
			parse.Row{"interface": "Gi0/48", "switchport": "Enabled", "admin_mode": "trunk",
				"native_vlan": "99", "trunking_vlans": "100,200-202"},
			Switchport{Interface: "GigabitEthernet0/48", Dialect: DialectIOS, Mode: model.ModeTagged,
				UntaggedVLAN: 99, TaggedVLANs: []int{100, 200, 201, 202}},
		},
		{
			"ios trunk all",
			parse.Row{"interface": "Te1/1/1", "switchport": "Enabled", "admin_mode": "trunk",
				"native_vlan": "1", "trunking_vlans": "ALL"},
			Switchport{Interface: "TenGigabitEthernet1/1/1", Dialect: DialectIOS, Mode: model.ModeTaggedAll, UntaggedVLAN: 1},
		},
		{
			"ios dynamic uses operational mode",
			parse.Row{"interface": "Gi0/2", "switchport": "Enabled", "admin_mode": "dynamic auto",
				"oper_mode": "trunk", "native_vlan": "1", "trunking_vlans": "10-12"},
			Switchport{Interface: "GigabitEthernet0/2", Dialect: DialectIOS, Mode: model.ModeTagged,
				UntaggedVLAN: 1, TaggedVLANs: []int{10, 11, 12}},
		},
		{
			"ios routed port",
			parse.Row{"interface": "Gi0/3", "switchport": "Disabled", "admin_mode": "trunk"},
			Switchport{Interface: "GigabitEthernet0/3", Dialect: DialectIOS, Routed: true, Mode: model.ModeUnset},
		},
		{
			// The historic NX-OS regression: a trunk allowing 1-4094 is
			// tagged-all with no explicit VLAN set, not a 4094-element list.
			"nxos trunk full range",
			parse.Row{"interface": "Eth1/49", "switchport": "enabled", "mode": "trunk",
				"native_vlan": "1", "trunking_vlans": "1-4094"},
			Switchport{Interface: "Ethernet1/49", Dialect: DialectNXOS, Mode: model.ModeTaggedAll, UntaggedVLAN: 1},
		},
		{
			"nxos access",
			parse.Row{"interface": "Eth1/1", "switchport": "enabled", "mode": "access", "access_vlan": "42"},
			Switchport{Interface: "Ethernet1/1", Dialect: DialectNXOS, Mode: model.ModeAccess, UntaggedVLAN: 42},
		},
		{
			"qtech access",
			parse.Row{"interface": "GigabitEthernet 0/1", "switchport": "enabled", "MODE": "ACCESS",
				"access_vlan": "100", "native_vlan": "1", "VLAN_LISTS": "ALL"},
			Switchport{Interface: "GigabitEthernet0/1", Dialect: DialectQTech, Mode: model.ModeAccess, UntaggedVLAN: 100},
		},
		{
			"qtech trunk",
			parse.Row{"interface": "TFGigabitEthernet 0/49", "switchport": "enabled", "MODE": "TRUNK",
				"native_vlan": "1", "VLAN_LISTS": "1,100-102"},
			Switchport{Interface: "TFGigabitEthernet0/49", Dialect: DialectQTech, Mode: model.ModeTagged,
				UntaggedVLAN: 1, TaggedVLANs: []int{1, 100, 101, 102}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Switchports([]parse.Row{tt.row})
			sw, ok := got[tt.want.Interface]
			if !ok {
				t.Fatalf("Switchports() missing %q, got keys %v", tt.want.Interface, got)
			}
			if !reflect.DeepEqual(sw, tt.want) {
				t.Errorf("Switchports() = %+v, want %+v", sw, tt.want)
			}
		})
	}
}

func TestSwitchportsDropsShapelessRows(t *testing.T) {
	rows := []parse.Row{
		{"interface": "Gi0/1"},
		{"admin_mode": "trunk"}, // no interface
	}
	if got := Switchports(rows); len(got) != 0 {
		t.Errorf("Switchports() = %v, want empty", got)
	}
}

func TestParseVLANList(t *testing.T) {
	tests := []struct {
		raw      string
		wantMode model.SwitchMode
		want     []int
		wantErr  bool
	}{
		{"ALL", model.ModeTaggedAll, nil, false},
		{"all", model.ModeTaggedAll, nil, false},
		{"1-4094", model.ModeTaggedAll, nil, false},
		{"none", model.ModeTagged, nil, false},
		{"", model.ModeTagged, nil, false},
		{"100", model.ModeTagged, []int{100}, false},
		{"1,3,5-7", model.ModeTagged, []int{1, 3, 5, 6, 7}, false},
		{"4095", model.ModeTagged, nil, true},
		{"abc", model.ModeTagged, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			mode, vlans, err := ParseVLANList(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVLANList(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if mode != tt.wantMode {
				t.Errorf("ParseVLANList(%q) mode = %q, want %q", tt.raw, mode, tt.wantMode)
			}
			if !reflect.DeepEqual(vlans, tt.want) {
				t.Errorf("ParseVLANList(%q) = %v, want %v", tt.raw, vlans, tt.want)
			}
		})
	}
}
