package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
)

// MaxLimit caps how many rows any cursor query can request.
const MaxLimit = 100

// Params holds cursor pagination inputs from controllers or services. A zero
// Limit means the caller wants the full list.
type Params struct {
	Limit  int
	Cursor string
}

// Unbounded reports whether the caller asked for the full, un-paginated list.
func (p Params) Unbounded() bool {
	return p.Limit <= 0
}

// Cursor represents the pagination cursor components.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps a requested limit to MaxLimit. Zero and negative values
// stay zero, which repositories treat as "no limit".
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return 0
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer returns the normalized limit plus one to detect the next page.
// Unbounded requests stay unbounded.
func LimitWithBuffer(limit int) int {
	normalized := NormalizeLimit(limit)
	if normalized == 0 {
		return 0
	}
	return normalized + 1
}

// EncodeCursor builds a base64 cursor string from the provided values.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%s|%s", cursor.CreatedAt.UTC().Format(time.RFC3339Nano), cursor.ID.String())
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes the cursor string back into its components.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor timestamp")
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor id")
	}
	return &Cursor{
		CreatedAt: t,
		ID:        id,
	}, nil
}
