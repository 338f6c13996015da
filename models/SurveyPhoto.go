package models

import "gorm.io/gorm"

// SurveyPhoto is an annotated site-survey photo. The annotation payload is
// opaque to the server; the drawing tools live in the client.
type SurveyPhoto struct {
	gorm.Model
	ProjectID  uint   `gorm:"not null;index" json:"project_id"`
	FileName   string `gorm:"not null" json:"file_name"`
	Caption    string `json:"caption"`
	Annotation string `gorm:"type:text" json:"annotation"`
}
