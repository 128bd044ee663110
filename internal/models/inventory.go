// server/internal/models/inventory.go
package models

// Inventory is the row shape of every inventory view. The inventories
// collection itself is never written: stock is counted live from donations.
type Inventory struct {
	BloodType BloodType `bson:"bloodType" json:"bloodType"`
	Units     int64     `bson:"units" json:"units"`
}

// InventoryScope selects which donations count as stock.
type InventoryScope int

const (
	// ScopeAvailable counts every donation that is not Cancelled.
	ScopeAvailable InventoryScope = iota
	// ScopeCompleted counts Completed donations only.
	ScopeCompleted
	// ScopeApproved counts Completed donations an admin has approved.
	ScopeApproved
)

// LabelCount is one bucket of a group-and-count aggregation.
type LabelCount struct {
	Label string `bson:"_id"`
	Count int64  `bson:"count"`
}

// Series is the {labels, data} chart shape used by analytics.
type Series struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

type Analytics struct {
	WeeklyDonations Series `json:"weeklyDonations"`
	TopBloodGroups  Series `json:"topBloodGroups"`
	LocationStats   Series `json:"locationStats"`
}
