package endpoint

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/citasmedicas/medico-api/config"
	"github.com/citasmedicas/medico-api/middleware"
	"github.com/citasmedicas/medico-api/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// endpointTestModels defines the standard set of models migrated for endpoint tests
var endpointTestModels = []interface{}{
	&model.Medico{},
	&model.HorarioAtencion{},
	&model.Correlativo{},
	&model.AuditLog{},
}

// setupEndpointTestDB initializes a fresh in-memory test database with all
// standard models migrated. Under APPENV=test config.ConnectMySQL returns a
// uniquely-named SQLite database, so tests are isolated from each other.
func setupEndpointTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.ConnectMySQL()
	if err != nil {
		t.Fatalf("failed to connect test DB: %v", err)
	}

	if err := db.AutoMigrate(endpointTestModels...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	return db
}

// setupEndpointTest returns a Gin engine with the medico routes registered and
// the test database injected, plus the database connection for direct asserts.
func setupEndpointTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupEndpointTestDB(t)
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.GET("/medicos", ListMedicos)
	r.POST("/medicos", CreateMedico)
	r.GET("/medicos/:id", GetMedicoInfo)
	r.PATCH("/medicos/:id", UpdateMedico)
	return r, db
}

// assertStatus asserts that the response HTTP status code matches the expected value
func assertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, w.Code)
}

// assertSuccessResponse asserts that the response indicates success with HTTP 200
func assertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, response map[string]interface{}) {
	t.Helper()
	assert.Equal(t, http.StatusOK, w.Code)
	if response == nil {
		return
	}
	if success, ok := response["success"].(bool); ok {
		assert.True(t, success)
	}
}

// responseData returns the data object of an APIResponse body
func responseData(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object in response, got %v", response["data"])
	}
	return data
}
