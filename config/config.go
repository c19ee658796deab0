package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName     string `json:"appname"`
	AppEnv      string `json:"appenv"`
	AppPort     uint16 `json:"appport"`
	GinMode     string `json:"ginmode"`
	AuthEnabled bool   `json:"authenabled"`
	DBHost      string `json:"dbhost"`
	DBPort      uint16 `json:"dbport"`
	DBName      string `json:"dbname"`
	DBUSER      string `json:"dbuser"`
	DBPass      string `json:"dbpass"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// The .env file is optional; environment variables win either way.
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)
		authEnabled, _ := strconv.ParseBool(os.Getenv("AUTHENABLED"))

		// Initialize the Config struct with values from environment variables.
		config = &Config{
			AppName:     os.Getenv("APPNAME"),
			AppEnv:      os.Getenv("APPENV"),
			AppPort:     uint16(appPort),
			GinMode:     os.Getenv("GINMODE"),
			AuthEnabled: authEnabled,
			DBHost:      os.Getenv("DBHOST"),
			DBPort:      uint16(dbPort),
			DBName:      os.Getenv("DBNAME"),
			DBUSER:      os.Getenv("DBUSER"),
			DBPass:      os.Getenv("DBPASS"),
		}
	})
	return config
}

// ConnectMySQL establishes a connection to a MySQL database using the configuration values.
// In the test environment it returns an in-memory SQLite database instead, so the
// whole suite runs without a MySQL server.
func ConnectMySQL() (*gorm.DB, error) {
	cfg := LoadConfig()

	if cfg.AppEnv == "test" {
		dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	}

	// Build the Data Source Name (DSN) using the configuration values.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUSER, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	// Open a database connection. TranslateError maps driver duplicate-key
	// errors to gorm.ErrDuplicatedKey, which the correlativo generator
	// relies on to tell the lazy-create race apart from storage failures.
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	return db, nil
}
