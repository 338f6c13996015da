package models

import "gorm.io/gorm"

// QuantityGroup is a sub-section of a quantity table, optionally linked to an
// annotated site-survey photo. Groups own their items: deleting a group
// deletes its items.
type QuantityGroup struct {
	gorm.Model
	QuantityTableID uint   `gorm:"not null;index" json:"quantity_table_id"`
	Title           string `json:"title"`
	SortOrder       int    `gorm:"not null;default:0" json:"sort_order"`

	SurveyPhotoID *uint        `json:"survey_photo_id,omitempty"`
	SurveyPhoto   *SurveyPhoto `gorm:"foreignKey:SurveyPhotoID" json:"survey_photo,omitempty"`

	Items []QuantityItem `gorm:"foreignKey:QuantityGroupID" json:"items,omitempty"`
}
