package usagelogs

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
)

// UsageLogInput is the write payload for recording a usage session. Duration
// arrives as a string and is parsed; blank and absent both mean "no duration".
type UsageLogInput struct {
	Date            *string `json:"date"`
	DurationMinutes *string `json:"duration_minutes"`
	Notes           *string `json:"notes"`
}

// UsageLogDTO is the transport shape for a stored usage log.
type UsageLogDTO struct {
	ID              uuid.UUID `json:"id"`
	ProductID       uuid.UUID `json:"product_id"`
	Date            time.Time `json:"date"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// UsageLogsPageDTO is a cursor page of usage logs.
type UsageLogsPageDTO struct {
	UsageLogs  []UsageLogDTO `json:"usage_logs"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

func FromModel(log *models.UsageLog) UsageLogDTO {
	if log == nil {
		return UsageLogDTO{}
	}
	return UsageLogDTO{
		ID:              log.ID,
		ProductID:       log.ProductID,
		Date:            log.Date,
		DurationMinutes: log.DurationMinutes,
		Notes:           log.Notes,
		CreatedAt:       log.CreatedAt,
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

func parseOptionalMinutes(field string, value *string) (*int, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(*value))
	if err != nil {
		return nil, fieldError(field, "must be a whole number of minutes")
	}
	if parsed < 0 {
		return nil, fieldError(field, "must not be negative")
	}
	return &parsed, nil
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
