// Package calendar parses free-form, day-first date strings into calendar days.
package calendar

import (
	"strings"
	"time"
	"unicode"

	"coinquery/internal/domain"

	"github.com/araddon/dateparse"
)

// Day-first layouts tried before the general parser, so "01-05-2021" is 1 May.
var layouts = []string{
	"02-01-2006",
	"2-1-2006",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"2.1.2006",
	"02-01-06",
	"02/01/06",
	"02.01.06",
	"2006-01-02",
	"2006/01/02",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

type Parser struct {
	now func() time.Time
}

func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// NewParserAt returns a parser whose relative words resolve against now().
func NewParserAt(now func() time.Time) *Parser {
	return &Parser{now: now}
}

// Parse returns midnight UTC of the day raw names. It accepts "today",
// "yesterday", the day-first layouts above and anything dateparse
// understands with day-first preference.
func (p *Parser) Parse(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, domain.NewError(domain.KindInvalidDate, "empty date", nil)
	}

	switch strings.ToLower(s) {
	case "today", "now":
		return domain.CalendarDay(p.now()), nil
	case "yesterday":
		return domain.CalendarDay(p.now()).AddDate(0, 0, -1), nil
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return wallDay(t), nil
		}
	}

	t, err := dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, domain.NewError(domain.KindInvalidDate, s, err)
	}
	return wallDay(t), nil
}

// wallDay keeps the calendar date as written, so "2021-05-01T01:00:00+05:00"
// is 1 May even though it falls on 30 April in UTC.
func wallDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LooksLikeDate reports whether word is a relative day or contains digits and
// a date separator. It does not validate; Parse does.
func LooksLikeDate(word string) bool {
	switch strings.ToLower(word) {
	case "today", "yesterday", "now":
		return true
	}
	if !strings.ContainsAny(word, "-/.") {
		return false
	}
	return strings.IndexFunc(word, unicode.IsDigit) >= 0
}

// SplitTrailingDate joins words into a coin name, peeling off a final
// date-like word when more than one word is given. date is "" when there is
// none.
func SplitTrailingDate(words []string) (coin, date string) {
	if n := len(words); n > 1 && LooksLikeDate(words[n-1]) {
		return strings.Join(words[:n-1], " "), words[n-1]
	}
	return strings.Join(words, " "), ""
}
