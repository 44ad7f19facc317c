package extractor

import (
	"strings"

	"flightdocs/internal/domain"
)

// MinPassportDigits and MaxPassportDigits bound accepted passport/document numbers.
const (
	MinPassportDigits = 10
	MaxPassportDigits = 13
)

// Block is the span of text for one flight leg, from its anchor up to the next anchor.
type Block struct {
	Carrier string
	Number  string
	Text    string
}

// FlightNumber joins carrier and digits without the separator, e.g. "AI102".
func (b *Block) FlightNumber() string {
	return b.Carrier + b.Number
}

// Extractor pulls flight records out of raw ticket text using named structural rules.
// It is stateless and safe for concurrent use.
type Extractor struct {
	rules map[string]Rule
	norm  *Normalizer
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithRule adds or replaces the rule stored under r.Key.
func WithRule(r Rule) Option {
	return func(e *Extractor) {
		e.rules[r.Key] = r
	}
}

// New creates an Extractor with the default rules. A nil normalizer reads times in UTC.
func New(norm *Normalizer, opts ...Option) *Extractor {
	if norm == nil {
		norm = NewNormalizer(nil)
	}
	e := &Extractor{rules: DefaultRules(), norm: norm}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rule returns the rule registered under key.
func (e *Extractor) Rule(key string) (Rule, bool) {
	r, ok := e.rules[key]
	return r, ok
}

// carrierLen is the length of an IATA airline designator.
const carrierLen = 2

// Segment splits text into one block per anchor, in document order.
func (e *Extractor) Segment(text string) []Block {
	anchor, ok := e.rules[RuleAnchor]
	if !ok {
		return nil
	}
	var locs [][]int
	for _, loc := range anchor.Pattern.FindAllStringSubmatchIndex(text, -1) {
		// Longer letter runs are words such as GATE-12, not carrier codes.
		if loc[3]-loc[2] == carrierLen {
			locs = append(locs, loc)
		}
	}
	blocks := make([]Block, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, Block{
			Carrier: text[loc[2]:loc[3]],
			Number:  text[loc[4]:loc[5]],
			Text:    text[loc[0]:end],
		})
	}
	return blocks
}

// Extract returns every flight record found in text. Blocks without passengers
// are dropped. The result is never nil.
func (e *Extractor) Extract(text string) []domain.FlightRecord {
	records := []domain.FlightRecord{}
	for _, b := range e.Segment(text) {
		rec, ok := e.ExtractBlock(b)
		if ok {
			records = append(records, rec)
		}
	}
	return records
}

// ExtractBlock builds a record for one block. ok is false when no passenger matched.
func (e *Extractor) ExtractBlock(b Block) (domain.FlightRecord, bool) {
	passengers := e.passengers(b.Text)
	if len(passengers) == 0 || b.FlightNumber() == "" {
		return domain.FlightRecord{}, false
	}

	details := domain.FlightDetails{FlightNumber: b.FlightNumber()}
	if r, ok := e.rules[RuleDeparture]; ok {
		if l, found := matchLeg(r, b.Text); found {
			details.DepartureTime = e.norm.Timestamp(l.when)
			details.Origin = l.place()
		}
	}
	if r, ok := e.rules[RuleArrival]; ok {
		if l, found := matchLeg(r, b.Text); found {
			details.ArrivalTime = e.norm.Timestamp(l.when)
			details.Destination = l.place()
		}
	}

	return domain.FlightRecord{
		FlightDetails:    details,
		PassengerDetails: passengers,
	}, true
}

// passengers applies the passenger rule repeatedly. Each entry's document number is
// the first parenthesised digit run between it and the next entry whose length is
// within the passport bounds; entries without one are skipped.
func (e *Extractor) passengers(block string) []domain.Passenger {
	entry, ok := e.rules[RulePassenger]
	if !ok {
		return nil
	}
	passport, ok := e.rules[RulePassport]
	if !ok {
		return nil
	}

	locs := entry.Pattern.FindAllStringSubmatchIndex(block, -1)
	var out []domain.Passenger
	for i, loc := range locs {
		end := len(block)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		number, found := firstPassport(passport, block[loc[1]:end])
		if !found {
			continue
		}
		title := block[loc[4]:loc[5]]
		name := strings.Join(strings.Fields(block[loc[6]:loc[7]]), " ")
		out = append(out, domain.Passenger{
			Name:           title + " " + name,
			PassportNumber: number,
		})
	}
	return out
}

func firstPassport(r Rule, span string) (string, bool) {
	for _, m := range r.Pattern.FindAllStringSubmatch(span, -1) {
		if len(m) > 1 && ValidPassport(m[1]) {
			return m[1], true
		}
	}
	return "", false
}

// ValidPassport reports whether s is all digits with a length in the accepted range.
func ValidPassport(s string) bool {
	if len(s) < MinPassportDigits || len(s) > MaxPassportDigits {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
