package normalize

import (
	"testing"

	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/parse"
)

func TestInventory(t *testing.T) {
	rows := []parse.Row{
		{"slot": `"1"`, "description": `"WS-C3850-48T chassis"`, "part_id": "WS-C3850-48T", "serial": "FOC1234X0AB"},
		{"slot": "Power Supply 1", "description": "350W AC", "part_id": "PWR-C1-350WAC", "serial": "DCB1234X0CD"},
		{"slot": "GigabitEthernet1/1/1", "description": "1000BaseSX SFP", "part_id": "GLC-SX-MMD", "serial": "AGM1234ABCD"},
		{"slot": "Fan Tray 1", "description": "Fan module", "part_id": "FAN-T1", "serial": ""},
		{"slot": "Slot 2", "description": "empty", "part_id": "", "serial": ""}, // empty slot, dropped
		{"slot": "Routing Engine 0", "description": "EX4300-48T", "part_id": "BUILTIN", "serial": "BUILTIN"},
	}

	got := Inventory(rows, testDevice(), "Cisco")
	if len(got) != 4 {
		t.Fatalf("Inventory() returned %d items, want 4 (BUILTIN FRUs and empty slots dropped)", len(got))
	}

	kinds := []model.InventoryKind{model.KindChassis, model.KindPSU, model.KindSFP, model.KindFan}
	for i, want := range kinds {
		if got[i].Kind != want {
			t.Errorf("item %d (%s) kind = %s, want %s", i, got[i].Slot, got[i].Kind, want)
		}
	}
	if got[0].Slot != "1" || got[0].Description != "WS-C3850-48T chassis" {
		t.Errorf("quotes not stripped: %+v", got[0])
	}
	if got[0].Vendor != "Cisco" {
		t.Errorf("Vendor = %q, want Cisco", got[0].Vendor)
	}
	if got[0].Device != "sw1" {
		t.Errorf("Device = %q, want sw1", got[0].Device)
	}
}

func TestInventoryKind(t *testing.T) {
	tests := []struct {
		slot string
		desc string
		want model.InventoryKind
	}{
		{"", "Supervisor Module", model.KindModule},
		{"", "FPC 0", model.KindModule},
		{"", "QSFP-100G-SR4 transceiver", model.KindSFP},
		{"", "AC power supply", model.KindPSU},
		{"", "Fan tray", model.KindFan},
		{"", "something else", model.KindOther},
		{"2", "WS-C3850-48T", model.KindChassis}, // bare numeric slot is the switch itself
	}
	for _, tt := range tests {
		item := model.InventoryItem{Slot: tt.slot, Description: tt.desc}
		if got := inventoryKind(item); got != tt.want {
			t.Errorf("inventoryKind(slot %q, %q) = %s, want %s", tt.slot, tt.desc, got, tt.want)
		}
	}
}
