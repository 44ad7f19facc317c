package export

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"flightdocs/internal/domain"
)

// columns defines the header row shared by the CSV and XLSX writers.
var columns = []string{
	"Flight Number",
	"Departure Time",
	"Arrival Time",
	"Origin",
	"Destination",
	"Price",
	"Passenger Name",
	"Passport Number",
	"Seat Number",
	"Meal Preference",
}

// Columns returns a copy of the header row.
func Columns() []string {
	return append([]string(nil), columns...)
}

// Rows flattens records into one row per passenger.
func Rows(records []domain.FlightRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for i := range records {
		rec := &records[i]
		for j := range rec.PassengerDetails {
			rows = append(rows, recordToRow(rec, &rec.PassengerDetails[j]))
		}
	}
	return rows
}

func recordToRow(rec *domain.FlightRecord, p *domain.Passenger) []string {
	fd := rec.FlightDetails
	return []string{
		fd.FlightNumber,
		formatTime(fd.DepartureTime),
		formatTime(fd.ArrivalTime),
		deref(fd.Origin),
		deref(fd.Destination),
		formatPrice(fd.Price),
		p.Name,
		p.PassportNumber,
		deref(p.SeatNumber),
		deref(p.MealPreference),
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a document name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "flight_tickets"
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{format}, dropping the
// source document's own extension.
func BuildFilename(name string, format domain.ExportFormat, now time.Time) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(base), now.Format("2006-01-02"), format)
}

// ParseFormat maps a query value onto an export format. Empty means JSON.
func ParseFormat(v string) (domain.ExportFormat, error) {
	switch f := domain.ExportFormat(strings.ToLower(strings.TrimSpace(v))); f {
	case "", domain.ExportJSON:
		return domain.ExportJSON, nil
	case domain.ExportCSV, domain.ExportXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExport, v)
	}
}

// ContentType returns the MIME type of an export format.
func ContentType(f domain.ExportFormat) string {
	switch f {
	case domain.ExportCSV:
		return "text/csv; charset=utf-8"
	case domain.ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json; charset=utf-8"
	}
}
