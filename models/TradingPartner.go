package models

import "gorm.io/gorm"

// TradingPartner is a company the contractor works with: clients,
// subcontractors and suppliers that receive estimate requests.
type TradingPartner struct {
	gorm.Model
	Name     string `gorm:"not null;index" json:"name"`
	Kana     string `gorm:"index" json:"kana"`
	Category string `json:"category"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Notes    string `gorm:"type:text" json:"notes"`
	OwnerID  uint   `gorm:"not null" json:"owner_id"`
	Owner    *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}
