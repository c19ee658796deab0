package model

import (
	"time"

	"gorm.io/gorm"
)

// Medico represents a physician entity
// @Description Physician information including the issued medico code
type Medico struct {
	gorm.Model
	UserID        int    `json:"user_id" gorm:"column:user_id;not null;index" example:"42"`
	MedicoCode    string `json:"medico_code" gorm:"column:medico_code;uniqueIndex;size:191" example:"CM0000001"`
	Specialty     string `json:"specialty" gorm:"column:specialty" example:"Cardiology"`
	LicenseNumber string `json:"license_number" gorm:"column:license_number" example:"CMP-48213"`
	CreatedBy     string `json:"created_by" gorm:"column:created_by" example:"admin"`
	// ModifiedBy and ModifiedAt stay empty until the first edit.
	ModifiedBy string            `json:"modified_by" gorm:"column:modified_by"`
	ModifiedAt *time.Time        `json:"modified_at" gorm:"column:modified_at"`
	Horarios   []HorarioAtencion `json:"horarios" gorm:"foreignKey:MedicoID"`
}
