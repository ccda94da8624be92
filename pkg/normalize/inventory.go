package normalize

import (
	"strconv"
	"strings"

	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/parse"
)

// Inventory normalizes hardware inventory rows. Rows that identify
// nothing (no part id and no serial, as printed for empty slots) are
// dropped. vendor is the platform's vendor and fills records that do
// not name a manufacturer of their own.
func Inventory(rows []parse.Row, dev model.Device, vendor string) []model.InventoryItem {
	out := make([]model.InventoryItem, 0, len(rows))
	for _, row := range rows {
		item := model.InventoryItem{
			Device:      dev.DisplayName(),
			Slot:        strings.TrimSpace(strings.Trim(row["slot"], `"`)),
			PartID:      realFRUField(row["part_id"]),
			Serial:      realFRUField(row["serial"]),
			Vendor:      vendor,
			Description: strings.TrimSpace(strings.Trim(row["description"], `"`)),
		}
		if item.PartID == "" && item.Serial == "" {
			continue
		}
		if v := strings.TrimSpace(row["manufacturer"]); v != "" {
			item.Vendor = v
		}
		item.Kind = inventoryKind(item)
		out = append(out, item)
	}
	return out
}

// realFRUField treats Junos's BUILTIN marker as an absent value: a
// built-in component is not a field-replaceable unit.
func realFRUField(raw string) string {
	v := strings.TrimSpace(raw)
	if strings.EqualFold(v, "BUILTIN") {
		return ""
	}
	return v
}

// inventoryKind classifies an item by slot name, description, and
// part id keywords. A bare numeric slot is the chassis itself, the
// way IOS prints NAME: "1" for the whole switch.
func inventoryKind(item model.InventoryItem) model.InventoryKind {
	if _, err := strconv.Atoi(item.Slot); err == nil && item.Slot != "" {
		return model.KindChassis
	}
	text := strings.ToLower(item.Slot + " " + item.Description + " " + item.PartID)
	switch {
	case strings.Contains(text, "chassis"):
		return model.KindChassis
	case strings.Contains(text, "power supply") || strings.Contains(text, "psu") ||
		strings.Contains(text, "pwr"):
		return model.KindPSU
	case strings.Contains(text, "fan"):
		return model.KindFan
	case strings.Contains(text, "sfp") || strings.Contains(text, "qsfp") ||
		strings.Contains(text, "xfp") || strings.Contains(text, "transceiver") ||
		strings.Contains(text, "glc-") || strings.Contains(text, "gbic"):
		return model.KindSFP
	case strings.Contains(text, "module") || strings.Contains(text, "supervisor") ||
		strings.Contains(text, "linecard") || strings.Contains(text, "line card") ||
		strings.Contains(text, "fpc") || strings.Contains(text, "pic") ||
		strings.Contains(text, "daughter"):
		return model.KindModule
	}
	return model.KindOther
}
