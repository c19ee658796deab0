package endpoint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/citasmedicas/medico-api/middleware"
	"github.com/citasmedicas/medico-api/model"
	"github.com/citasmedicas/medico-api/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// medicoCodePrefix is the business prefix for issued physician codes.
const medicoCodePrefix = "CM"

var weekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type horarioRequest struct {
	Day       string `json:"day" example:"Monday"`
	StartTime string `json:"start_time" example:"08:00"`
	EndTime   string `json:"end_time" example:"12:00"`
}

type createMedicoRequest struct {
	UserID        int              `json:"user_id" example:"42"`
	Specialty     string           `json:"specialty" example:"Cardiology"`
	LicenseNumber string           `json:"license_number" example:"CMP-48213"`
	CreatedBy     string           `json:"created_by,omitempty" example:"admin"`
	Horarios      []horarioRequest `json:"horarios"`
}

// updateMedicoRequest is a sparse patch: a zero/empty field leaves the stored
// value unchanged. That means a literal zero can never be set for user_id via
// PATCH; kept as-is for compatibility with existing clients.
type updateMedicoRequest struct {
	UserID        int              `json:"user_id"`
	Specialty     string           `json:"specialty"`
	LicenseNumber string           `json:"license_number"`
	ModifiedBy    string           `json:"modified_by"`
	Horarios      []horarioRequest `json:"horarios"`
}

func validateHorario(index int, horario horarioRequest) []string {
	var fieldErrors []string
	if !util.Contains(horario.Day, weekDays) {
		fieldErrors = append(fieldErrors, fmt.Sprintf("horarios[%d].day: unknown day %q", index, horario.Day))
	}
	start, startErr := time.Parse("15:04", horario.StartTime)
	if startErr != nil {
		fieldErrors = append(fieldErrors, fmt.Sprintf("horarios[%d].start_time: expected HH:MM, got %q", index, horario.StartTime))
	}
	end, endErr := time.Parse("15:04", horario.EndTime)
	if endErr != nil {
		fieldErrors = append(fieldErrors, fmt.Sprintf("horarios[%d].end_time: expected HH:MM, got %q", index, horario.EndTime))
	}
	if startErr == nil && endErr == nil && !start.Before(end) {
		fieldErrors = append(fieldErrors, fmt.Sprintf("horarios[%d]: start_time must be before end_time", index))
	}
	return fieldErrors
}

// validateCreateMedico checks the registration payload and returns every
// field-level problem found. It runs before any transaction is opened.
func validateCreateMedico(req createMedicoRequest) []string {
	var fieldErrors []string
	if req.UserID <= 0 {
		fieldErrors = append(fieldErrors, "user_id: required and must be positive")
	}
	if strings.TrimSpace(req.Specialty) == "" {
		fieldErrors = append(fieldErrors, "specialty: required")
	}
	if strings.TrimSpace(req.LicenseNumber) == "" {
		fieldErrors = append(fieldErrors, "license_number: required")
	}
	for i, horario := range req.Horarios {
		fieldErrors = append(fieldErrors, validateHorario(i, horario)...)
	}
	return fieldErrors
}

func validateUpdateMedico(req updateMedicoRequest) []string {
	var fieldErrors []string
	for i, horario := range req.Horarios {
		fieldErrors = append(fieldErrors, validateHorario(i, horario)...)
	}
	return fieldErrors
}

func buildHorarios(requests []horarioRequest, createdBy string) []model.HorarioAtencion {
	horarios := make([]model.HorarioAtencion, 0, len(requests))
	for _, r := range requests {
		horarios = append(horarios, model.HorarioAtencion{
			Day:       r.Day,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			CreatedBy: createdBy,
		})
	}
	return horarios
}

// CreateMedico godoc
// @Summary      Register a new medico
// @Description  Register a physician with an issued sequential medico code and optional attention slots
// @Tags         Medico
// @Accept       json
// @Produce      json
// @Param        request body createMedicoRequest true "Medico information"
// @Success      200 {object} util.APIResponse{data=model.Medico} "Medico registered"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      409 {object} util.APIResponse "Code contention, retry"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /medicos [post]
func CreateMedico(c *gin.Context) {
	medicoRequest := createMedicoRequest{}

	if err := c.ShouldBindJSON(&medicoRequest); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}
	if fieldErrors := validateCreateMedico(medicoRequest); len(fieldErrors) > 0 {
		util.CallValidationError(c, "Medico payload is invalid", fieldErrors)
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	var medico model.Medico
	err := db.Transaction(func(tx *gorm.DB) error {
		code, err := model.NextCorrelativo(tx, medicoCodePrefix)
		if err != nil {
			return err
		}

		medico = model.Medico{
			UserID:        medicoRequest.UserID,
			MedicoCode:    code,
			Specialty:     medicoRequest.Specialty,
			LicenseNumber: medicoRequest.LicenseNumber,
			CreatedBy:     medicoRequest.CreatedBy,
			Horarios:      buildHorarios(medicoRequest.Horarios, medicoRequest.CreatedBy),
		}
		return tx.Create(&medico).Error
	})

	if err != nil {
		if errors.Is(err, model.ErrCorrelativoContention) {
			util.CallConflictError(c, util.APIErrorParams{
				Msg: "Medico code contention, please retry",
				Err: err,
			})
			return
		}
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to register medico",
			Err: err,
		})
		return
	}

	util.LogMedicoCreated(medicoRequest.CreatedBy, c.ClientIP(), c.Request.UserAgent(), medico.MedicoCode)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Medico registered",
		Data: medico,
	})
}

// UpdateMedico godoc
// @Summary      Update medico information
// @Description  Sparse patch of an existing medico; a non-empty horarios list replaces the whole slot collection
// @Tags         Medico
// @Accept       json
// @Produce      json
// @Param        id path int true "Medico ID"
// @Param        request body updateMedicoRequest true "Fields to overwrite"
// @Success      204 "Medico updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Medico not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /medicos/{id} [patch]
func UpdateMedico(c *gin.Context) {
	id, ok := parseMedicoID(c)
	if !ok {
		return
	}

	medicoRequest := updateMedicoRequest{}
	if err := c.ShouldBindJSON(&medicoRequest); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}
	if fieldErrors := validateUpdateMedico(medicoRequest); len(fieldErrors) > 0 {
		util.CallValidationError(c, "Medico payload is invalid", fieldErrors)
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var medico model.Medico
		// Lock the row so a concurrent edit of the same medico waits instead
		// of interleaving into a lost update.
		if err := model.LockForUpdate(tx).First(&medico, id).Error; err != nil {
			return err
		}

		if medicoRequest.UserID != 0 {
			medico.UserID = medicoRequest.UserID
		}
		if medicoRequest.Specialty != "" {
			medico.Specialty = medicoRequest.Specialty
		}
		if medicoRequest.LicenseNumber != "" {
			medico.LicenseNumber = medicoRequest.LicenseNumber
		}
		medico.ModifiedBy = medicoRequest.ModifiedBy
		now := time.Now()
		medico.ModifiedAt = &now

		if err := tx.Save(&medico).Error; err != nil {
			return err
		}

		if len(medicoRequest.Horarios) > 0 {
			return model.ReplaceHorarios(tx, medico.ID, buildHorarios(medicoRequest.Horarios, medicoRequest.ModifiedBy))
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.CallErrorNotFound(c, util.APIErrorParams{
				Msg: "Medico not found",
				Err: err,
			})
			return
		}
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to update medico and its horarios",
			Err: err,
		})
		return
	}

	util.LogMedicoUpdated(medicoRequest.ModifiedBy, c.ClientIP(), c.Request.UserAgent(), uint(id))

	util.CallSuccessNoContent(c)
}

// GetMedicoInfo godoc
// @Summary      Get medico information
// @Description  Get a medico with its attention slots
// @Tags         Medico
// @Accept       json
// @Produce      json
// @Param        id path int true "Medico ID"
// @Success      200 {object} util.APIResponse{data=model.Medico} "Medico retrieved"
// @Failure      404 {object} util.APIResponse "Medico not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /medicos/{id} [get]
func GetMedicoInfo(c *gin.Context) {
	id, ok := parseMedicoID(c)
	if !ok {
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	var medico model.Medico
	if err := db.Preload("Horarios").First(&medico, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.CallErrorNotFound(c, util.APIErrorParams{
				Msg: "Medico not found",
				Err: err,
			})
			return
		}
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve medico",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Medico retrieved",
		Data: medico,
	})
}

func parseMedicoID(c *gin.Context) (uint64, bool) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil || id == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid medico ID",
			Err: fmt.Errorf("medico ID must be a positive integer"),
		})
		return 0, false
	}
	return id, true
}
