package model

import "gorm.io/gorm"

// HorarioAtencion is a weekly attention slot owned by a Medico.
// Slots are never edited individually: an edit that supplies a new list
// replaces the whole collection (see ReplaceHorarios).
type HorarioAtencion struct {
	gorm.Model
	MedicoID  uint   `json:"medico_id" gorm:"column:medico_id;not null;index"`
	Day       string `json:"day" gorm:"column:day;not null"`
	StartTime string `json:"start_time" gorm:"column:start_time;not null"`
	EndTime   string `json:"end_time" gorm:"column:end_time;not null"`
	CreatedBy string `json:"created_by" gorm:"column:created_by"`
}

// ReplaceHorarios deletes every slot owned by medicoID and inserts horarios
// in their place. It must run inside the caller's transaction so the swap is
// all-or-nothing with the rest of the edit.
func ReplaceHorarios(tx *gorm.DB, medicoID uint, horarios []HorarioAtencion) error {
	if err := tx.Where("medico_id = ?", medicoID).Delete(&HorarioAtencion{}).Error; err != nil {
		return err
	}
	if len(horarios) == 0 {
		return nil
	}
	for i := range horarios {
		horarios[i].MedicoID = medicoID
	}
	return tx.Create(&horarios).Error
}
