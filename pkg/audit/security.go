// Package audit provides security audit logging for SIEM consumption.
// It logs raw SQL fragments that match injection patterns in structured JSON
// format for easy parsing and alerting.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/pgformat/pkg/logging"
	"github.com/ekaya-inc/pgformat/pkg/sql"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection flags a raw fragment.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
)

// SecurityEvent represents an auditable security event.
type SecurityEvent struct {
	EventID   uuid.UUID         `json:"event_id"`
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // warning, critical
}

// SQLInjectionDetails contains specifics of a flagged raw fragment.
type SQLInjectionDetails struct {
	Placeholder int    `json:"placeholder"`
	Value       string `json:"value"`       // sanitized and truncated
	Fingerprint string `json:"fingerprint"` // libinjection fingerprint for pattern analysis
	Template    string `json:"template"`    // truncated
	Rejected    bool   `json:"rejected"`
}

// SecurityAuditor logs security events for SIEM consumption.
// It implements sql.InjectionAuditor.
type SecurityAuditor struct {
	logger *zap.Logger
	now    func() time.Time
}

var _ sql.InjectionAuditor = (*SecurityAuditor)(nil)

// NewSecurityAuditor creates a new security auditor with a dedicated logger namespace.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{
		logger: logger.Named("security_audit"),
		now:    time.Now,
	}
}

// LogInjectionAttempt records a raw fragment flagged by libinjection.
// Rejected fragments are logged at ERROR level with "critical" severity;
// fragments that were still substituted are logged at WARN.
func (a *SecurityAuditor) LogInjectionAttempt(template string, result *sql.InjectionCheckResult, rejected bool) {
	severity := "warning"
	if rejected {
		severity = "critical"
	}

	details := SQLInjectionDetails{
		Placeholder: result.Placeholder,
		Value:       logging.SanitizeValue(result.Value),
		Fingerprint: result.Fingerprint,
		Template:    logging.SanitizeQuery(template),
		Rejected:    rejected,
	}
	event := SecurityEvent{
		EventID:   uuid.New(),
		Timestamp: a.now().UTC(),
		EventType: EventSQLInjectionAttempt,
		Details:   details,
		Severity:  severity,
	}

	// Marshaling known types cannot fail.
	eventJSON, _ := json.Marshal(event)

	fields := []zap.Field{
		zap.String("event_json", string(eventJSON)),
		zap.String("event_id", event.EventID.String()),
		zap.Int("placeholder", details.Placeholder),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("severity", severity),
	}
	if rejected {
		a.logger.Error("SQL injection attempt rejected", fields...)
		return
	}
	a.logger.Warn("SQL injection pattern in raw fragment", fields...)
}
