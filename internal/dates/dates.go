// Package dates parses the localized timestamps printed on article and
// comment pages.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNoLayoutMatched = errors.New("no date layout matched")

// Format describes how a site prints its dates. Layouts use the English
// month name ("January"); Months maps the localized names onto it.
type Format struct {
	Layouts  []string
	Months   map[string]time.Month
	Location *time.Location
}

// GermanMonths is the month table used by German-language pages.
func GermanMonths() map[string]time.Month {
	return map[string]time.Month{
		"Januar":    time.January,
		"Februar":   time.February,
		"März":      time.March,
		"April":     time.April,
		"Mai":       time.May,
		"Juni":      time.June,
		"Juli":      time.July,
		"August":    time.August,
		"September": time.September,
		"Oktober":   time.October,
		"November":  time.November,
		"Dezember":  time.December,
	}
}

type Parser struct {
	layouts []string
	months  map[string]time.Month
	loc     *time.Location
}

func NewParser(f Format) *Parser {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{
		layouts: f.Layouts,
		months:  f.Months,
		loc:     loc,
	}
}

// Parse returns the wall-clock time printed in raw, read in the parser's
// location. The first layout that fits wins.
func (p *Parser) Parse(raw string) (time.Time, error) {
	normalized := p.translateMonths(strings.Join(strings.Fields(raw), " "))

	var lastErr error
	for _, layout := range p.layouts {
		t, err := time.ParseInLocation(layout, normalized, p.loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		return time.Time{}, fmt.Errorf("%w: %q (no layouts configured)", ErrNoLayoutMatched, raw)
	}
	return time.Time{}, fmt.Errorf("%w: %q: %v", ErrNoLayoutMatched, raw, lastErr)
}

func (p *Parser) translateMonths(s string) string {
	if len(p.months) == 0 {
		return s
	}
	fields := strings.Split(s, " ")
	for i, f := range fields {
		if m, ok := p.months[f]; ok {
			fields[i] = m.String()
		}
	}
	return strings.Join(fields, " ")
}
