package extractor

import (
	"strings"
	"time"
)

// ticketLayouts are the loose formats printed on e-tickets, e.g. "Sat, 12 Jul 25, 04:55".
var ticketLayouts = []string{
	"Mon, 2 Jan 06, 15:04",
	"Mon, 2 Jan 2006, 15:04",
	"Mon 2 Jan 06, 15:04",
	"Mon, 2 Jan 06 15:04",
}

// localISOLayouts are ISO 8601 wall-clock times without an offset, as models
// emit them when the ticket carries no zone.
var localISOLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var wallClockLayouts = append(append([]string{}, localISOLayouts...), ticketLayouts...)

var quoteStripper = strings.NewReplacer(
	"'", "",
	"’", "",
	"‘", "",
	"\"", "",
	"`", "",
)

// Normalizer turns ticket date strings into absolute instants.
// Wall-clock strings without an offset are read in the configured location.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer creates a Normalizer. A nil location means UTC.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// Normalize parses raw and reports whether it was recognised. The result is in UTC.
// Strings that are already RFC 3339 timestamps are accepted unchanged, so
// re-normalizing a normalized value is a no-op.
func (n *Normalizer) Normalize(raw string) (time.Time, bool) {
	s := strings.Join(strings.Fields(quoteStripper.Replace(raw)), " ")
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}

	for _, layout := range wallClockLayouts {
		t, err := time.ParseInLocation(layout, s, n.loc)
		if err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Timestamp is Normalize for nullable fields: nil when raw is unparseable.
func (n *Normalizer) Timestamp(raw string) *time.Time {
	t, ok := n.Normalize(raw)
	if !ok {
		return nil
	}
	return &t
}

// Renormalize re-validates a timestamp produced elsewhere (e.g. by a model).
func (n *Normalizer) Renormalize(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	return n.Timestamp(*raw)
}
