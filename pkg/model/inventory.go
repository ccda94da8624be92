package model

// InventoryKind is a coarse hardware class for an inventory item.
type InventoryKind string

const (
	KindChassis InventoryKind = "chassis"
	KindModule  InventoryKind = "module"
	KindSFP     InventoryKind = "sfp"
	KindPSU     InventoryKind = "psu"
	KindFan     InventoryKind = "fan"
	KindOther   InventoryKind = "other"
)

// InventoryItem is one field-replaceable unit reported by a device.
type InventoryItem struct {
	Device      string        `json:"device"`
	Slot        string        `json:"slot"` // NAME field, e.g. "Slot 1", "GigabitEthernet0/1"
	PartID      string        `json:"part_id"`
	Serial      string        `json:"serial"`
	Vendor      string        `json:"vendor,omitempty"`
	Description string        `json:"description,omitempty"`
	Kind        InventoryKind `json:"kind"`
}
