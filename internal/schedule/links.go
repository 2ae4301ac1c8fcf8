package schedule

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// Links builds the outbound URLs attached to sessions and movies.  Both
// templates carry an {id} placeholder.
type Links struct {
	Ticket  string
	Catalog string
}

// TicketURL returns the ticket widget URL for an external ticketing id.  The
// id is trimmed and base64 encoded; a nil or blank id yields nil so the
// field serializes as JSON null rather than an empty string.
func (l Links) TicketURL(yaID *string) *string {
	if yaID == nil {
		return nil
	}
	id := strings.TrimSpace(*yaID)
	if id == "" {
		return nil
	}
	u := strings.ReplaceAll(l.Ticket, "{id}", base64.StdEncoding.EncodeToString([]byte(id)))
	return &u
}

// CatalogURL returns the external catalog page for a movie, or nil when the
// movie has no catalog id.
func (l Links) CatalogURL(kpID *int64) *string {
	if kpID == nil {
		return nil
	}
	u := strings.ReplaceAll(l.Catalog, "{id}", strconv.FormatInt(*kpID, 10))
	return &u
}

// TimestampLayout is the wire format of session start times.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Timestamp serializes as a UTC "YYYY-MM-DDTHH:MM:SSZ" string.
type Timestamp time.Time

func (t Timestamp) String() string {
	return time.Time(t).UTC().Format(TimestampLayout)
}

// MarshalJSON conforms to json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, len(TimestampLayout)+2)
	b = append(b, '"')
	b = time.Time(t).UTC().AppendFormat(b, TimestampLayout)
	return append(b, '"'), nil
}
