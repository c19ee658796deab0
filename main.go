// main.go
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/citasmedicas/medico-api/config"
	"github.com/citasmedicas/medico-api/endpoint"
	"github.com/citasmedicas/medico-api/middleware"
	"github.com/citasmedicas/medico-api/model"
	"github.com/citasmedicas/medico-api/util"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectMySQL()
	if err != nil {
		log.Fatalf("Error connecting to MySQL: %v", err)
	}
	if err := db.AutoMigrate(&model.Medico{}, &model.HorarioAtencion{}, &model.Correlativo{}, &model.AuditLog{}); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	util.SetAuditLoggerDB(db)

	// Redis backs the rate limiter; the limiter fails open without it.
	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Continuing without Redis: %v", err)
	}

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	// Create a Gin router with default middleware
	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	medicos := router.Group("/medicos")
	if cfg.AuthEnabled {
		medicos.Use(middleware.ValidateAuth())
	}
	medicos.GET("", endpoint.ListMedicos)
	medicos.POST("", middleware.RateLimiter(middleware.RateLimitConfig{}), endpoint.CreateMedico)
	medicos.GET("/:id", endpoint.GetMedicoInfo)
	medicos.PATCH("/:id", endpoint.UpdateMedico)

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
