package incidents

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
)

// IncidentInput is the write payload for reporting an incident. Date and
// description are required; severity is optional free text.
type IncidentInput struct {
	Date        *string `json:"date"`
	Description *string `json:"description"`
	Severity    *string `json:"severity"`
}

// IncidentDTO is the transport shape for a stored incident report.
type IncidentDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Severity    *string   `json:"severity,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IncidentsPageDTO is a cursor page of incident reports.
type IncidentsPageDTO struct {
	Incidents  []IncidentDTO `json:"incidents"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

func FromModel(incident *models.IncidentReport) IncidentDTO {
	if incident == nil {
		return IncidentDTO{}
	}
	return IncidentDTO{
		ID:          incident.ID,
		ProductID:   incident.ProductID,
		Date:        incident.Date,
		Description: incident.Description,
		Severity:    incident.Severity,
		CreatedAt:   incident.CreatedAt,
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field).
		WithDetails(map[string]any{"field": field, "reason": message})
}

func parseRequiredDate(field string, value *string) (time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return time.Time{}, fieldError(field, "is required")
	}
	raw := strings.TrimSpace(*value)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fieldError(field, "must be an RFC 3339 timestamp or YYYY-MM-DD date")
}

func requiredText(field string, value *string) (string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", fieldError(field, "is required")
	}
	return strings.TrimSpace(*value), nil
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
