package endpoint

import (
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

type medicoListQuery struct {
	Limit   int
	Offset  int
	Keyword string
	SortBy  string
	SortDir string
}

// medicoSummary is the list projection: no horarios.
type medicoSummary struct {
	ID            uint      `json:"id"`
	UserID        int       `json:"user_id"`
	MedicoCode    string    `json:"medico_code"`
	Specialty     string    `json:"specialty"`
	LicenseNumber string    `json:"license_number"`
	CreatedAt     time.Time `json:"created_at"`
}

func parseListQueryParams(c *gin.Context) medicoListQuery {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	sortBy := c.Query("sort")                       // supported values: medico_code, specialty
	sortDir := strings.ToLower(c.Query("sort_dir")) // supported values: asc, desc
	return medicoListQuery{
		Limit:   limit,
		Offset:  offset,
		Keyword: c.Query("keyword"),
		SortBy:  sortBy,
		SortDir: sortDir,
	}
}

func fetchMedicos(db *gorm.DB, q medicoListQuery) ([]medicoSummary, int64, error) {
	var medicos []medicoSummary
	var totalMedicos int64
	query := db.Model(&model.Medico{})

	// Determine order direction safely (only allow asc/desc)
	orderDir := "ASC"
	if q.SortDir == "desc" {
		orderDir = "DESC"
	}

	switch q.SortBy {
	case "medico_code":
		query = query.Order(fmt.Sprintf("medicos.medico_code %s", orderDir))
	case "specialty":
		query = query.Order(fmt.Sprintf("medicos.specialty %s", orderDir))
	default:
		// Insertion order by default.
		query = query.Order("medicos.id ASC")
	}

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Keyword != "" {
		kw := "%" + q.Keyword + "%"
		query = query.Where("medico_code LIKE ? OR specialty LIKE ? OR license_number LIKE ?", kw, kw, kw)
	}

	if err := query.Find(&medicos).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Model(&model.Medico{}).Count(&totalMedicos).Error; err != nil {
		return nil, 0, err
	}
	return medicos, totalMedicos, nil
}

// ListMedicos godoc
// @Summary      List all medicos
// @Description  Get a paginated list of medico summaries (without horarios)
// @Tags         Medico
// @Accept       json
// @Produce      json
// @Param        limit query int false "Limit number of results"
// @Param        offset query int false "Offset for pagination"
// @Param        keyword query string false "Search keyword for medico code, specialty, or license number"
// @Param        sort query string false "Optional sort field: medico_code|specialty"
// @Param        sort_dir query string false "Optional sort direction: asc|desc"
// @Success      200 {object} util.APIResponse{data=object} "Medicos retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /medicos [get]
func ListMedicos(c *gin.Context) {
	query := parseListQueryParams(c)

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	medicos, totalMedicos, err := fetchMedicos(db, query)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve medicos",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Medicos retrieved",
		Data: map[string]interface{}{"total": totalMedicos, "total_fetched": len(medicos), "medicos": medicos},
	})
}
