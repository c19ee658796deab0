package util

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/citasmedicas/medico-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEventType represents different types of audit events
type AuditEventType string

const (
	EventEndpointCall  AuditEventType = "ENDPOINT_CALL"
	EventMedicoCreated AuditEventType = "MEDICO_CREATED"
	EventMedicoUpdated AuditEventType = "MEDICO_UPDATED"
	EventRateLimited   AuditEventType = "RATE_LIMIT_EXCEEDED"
)

// AuditEvent represents an audit event to be logged
type AuditEvent struct {
	EventType AuditEventType
	Actor     string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var auditLogger *log.Logger
var auditDB *gorm.DB

// SetAuditLoggerDB sets a gorm DB instance used by the audit logger.
// Call this during application startup (e.g. in main) after DB initialization.
func SetAuditLoggerDB(db *gorm.DB) {
	auditDB = db
}

func init() {
	auditLogger = log.New(os.Stdout, "[AUDIT] ", log.LstdFlags|log.Lmsgprefix)
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogAuditEvent logs an audit event to stdout and, when a DB has been set,
// persists it best-effort. It never fails the calling request.
func LogAuditEvent(event AuditEvent) {
	msg := fmt.Sprintf("Event=%s Actor=%s IP=%s UserAgent=%s Message=%s",
		sanitizeLogValue(string(event.EventType)),
		sanitizeLogValue(event.Actor),
		sanitizeLogValue(event.IP),
		sanitizeLogValue(event.UserAgent),
		sanitizeLogValue(event.Message),
	)

	if len(event.Details) > 0 {
		msg = fmt.Sprintf("%s DetailsCount=%d", msg, len(event.Details))
	}

	auditLogger.Println(msg)

	if auditDB != nil {
		var details datatypes.JSON
		if event.Details != nil {
			if b, err := json.Marshal(event.Details); err == nil {
				details = datatypes.JSON(b)
			}
		}

		entry := model.AuditLog{
			EventType: string(event.EventType),
			Actor:     sanitizeLogValue(event.Actor),
			IP:        sanitizeLogValue(event.IP),
			UserAgent: sanitizeLogValue(event.UserAgent),
			Message:   sanitizeLogValue(event.Message),
			Details:   details,
		}

		if err := auditDB.Create(&entry).Error; err != nil {
			auditLogger.Printf("Failed to persist audit event: %v", err)
		}
	}
}

// LogMedicoCreated logs a successful physician registration
func LogMedicoCreated(actor, ip, userAgent, medicoCode string) {
	LogAuditEvent(AuditEvent{
		EventType: EventMedicoCreated,
		Actor:     actor,
		IP:        ip,
		UserAgent: userAgent,
		Message:   fmt.Sprintf("Medico registered with code %s", medicoCode),
	})
}

// LogMedicoUpdated logs a successful physician edit
func LogMedicoUpdated(actor, ip, userAgent string, medicoID uint) {
	LogAuditEvent(AuditEvent{
		EventType: EventMedicoUpdated,
		Actor:     actor,
		IP:        ip,
		UserAgent: userAgent,
		Message:   fmt.Sprintf("Medico %d updated", medicoID),
	})
}

// LogRateLimitExceeded logs when rate limit is exceeded
func LogRateLimitExceeded(ip, endpoint string) {
	LogAuditEvent(AuditEvent{
		EventType: EventRateLimited,
		IP:        ip,
		Message:   fmt.Sprintf("Rate limit exceeded for endpoint: %s", endpoint),
	})
}

// GetAuditLoggerForTest returns the current audit logger for testing purposes
func GetAuditLoggerForTest() *log.Logger {
	return auditLogger
}

// SetAuditLoggerForTest sets a custom logger for testing purposes
func SetAuditLoggerForTest(logger *log.Logger) {
	auditLogger = logger
}
