package models

import (
	"gorm.io/gorm"
)

// Project is one construction project. Quantity tables, survey photos and
// estimate requests all hang off a project.
type Project struct {
	gorm.Model
	Name     string          `gorm:"not null" json:"name"`
	Code     string          `gorm:"index" json:"code"`
	Address  string          `json:"address"`
	Notes    string          `gorm:"type:text" json:"notes"`
	OwnerID  uint            `gorm:"not null" json:"owner_id"`
	Owner    *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	ClientID *uint           `json:"client_id,omitempty"`
	Client   *TradingPartner `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	QuantityTables []QuantityTable `gorm:"foreignKey:ProjectID" json:"quantity_tables,omitempty"`
	SurveyPhotos   []SurveyPhoto   `gorm:"foreignKey:ProjectID" json:"survey_photos,omitempty"`
}
