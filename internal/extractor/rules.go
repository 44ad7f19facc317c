package extractor

import (
	"regexp"
	"strings"
)

// Rule keys understood by the Extractor.
const (
	RuleAnchor    = "flight.anchor"
	RuleDeparture = "flight.departure"
	RuleArrival   = "flight.arrival"
	RulePassenger = "passenger.entry"
	RulePassport  = "passenger.passport"
)

// Rule is a named structural pattern. Capture group layout depends on the key:
//
//	flight.anchor:      1 carrier code, 2 flight digits (carriers that are not
//	                    exactly two characters are skipped by Segment)
//	flight.departure:   1 date/time, 2 city, 3 terminal
//	flight.arrival:     same as flight.departure
//	passenger.entry:    1 index, 2 title, 3 name, 4 from, 5 to
//	passenger.passport: 1 digit run
type Rule struct {
	Key     string
	Pattern *regexp.Regexp
}

// NewRule compiles pattern into a Rule. It panics on an invalid pattern.
func NewRule(key, pattern string) Rule {
	return Rule{Key: key, Pattern: regexp.MustCompile(pattern)}
}

// legPattern builds the departure/arrival shape around a keyword.
// The city is limited to one line so it cannot swallow the airport name above it.
func legPattern(keyword string) string {
	return keyword + `\s+([\w, '’‘"\d]+,\s[\d:]+)[\s\S]+?([\w ]+),\s+Terminal\s+(\w+)`
}

// DefaultRules returns the built-in rule set keyed by rule key.
func DefaultRules() map[string]Rule {
	rules := []Rule{
		NewRule(RuleAnchor, `(\d?[A-Z]+)\s*-\s*(\d+)`),
		NewRule(RuleDeparture, legPattern("Departing")),
		NewRule(RuleArrival, legPattern("Arriving")),
		NewRule(RulePassenger, `(\d+)\s+(MRS|MSTR|MISS|MR|MS)\s+([A-Z\s]+)\(\s*A\s*\)\s*,\s+([A-Z]{3})-([A-Z]{3})`),
		NewRule(RulePassport, `\(\s*(\d+)\s*\)`),
	}
	out := make(map[string]Rule, len(rules))
	for _, r := range rules {
		out[r.Key] = r
	}
	return out
}

// leg is the result of a departure or arrival rule.
type leg struct {
	when     string
	city     string
	terminal string
}

func (l *leg) place() *string {
	s := l.city + ", Terminal " + l.terminal
	return &s
}

func matchLeg(r Rule, block string) (*leg, bool) {
	m := r.Pattern.FindStringSubmatch(block)
	if len(m) < 4 {
		return nil, false
	}
	city := strings.TrimSpace(m[2])
	if city == "" {
		return nil, false
	}
	return &leg{
		when:     strings.TrimSpace(m[1]),
		city:     city,
		terminal: m[3],
	}, true
}
