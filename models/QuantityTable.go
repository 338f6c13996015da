package models

import "gorm.io/gorm"

// QuantityTable is a document listing construction line items and their
// computed quantities for a project. The name is edited independently of the
// items (autosaved on blur in the client).
type QuantityTable struct {
	gorm.Model
	ProjectID uint   `gorm:"not null;index" json:"project_id"`
	Name      string `gorm:"not null" json:"name"`

	Groups []QuantityGroup `gorm:"foreignKey:QuantityTableID" json:"groups,omitempty"`
}
